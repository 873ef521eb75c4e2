package mappers

import (
	"github.com/civictrack/civictrack/internal/domain/department"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/models"
)

func OfficerToModel(o *department.Officer) *models.OfficerModel {
	return &models.OfficerModel{
		ID:            o.ID,
		Name:          o.Name,
		Email:         o.Email,
		DepartmentID:  o.DepartmentID,
		Active:        o.Active,
		AssignedCount: o.AssignedCount,
	}
}

func OfficerToDomain(model *models.OfficerModel) *department.Officer {
	if model == nil {
		return nil
	}
	return &department.Officer{
		ID:            model.ID,
		Name:          model.Name,
		Email:         model.Email,
		DepartmentID:  model.DepartmentID,
		Active:        model.Active,
		AssignedCount: model.AssignedCount,
	}
}

func OfficersToDomain(rows []models.OfficerModel) []*department.Officer {
	out := make([]*department.Officer, 0, len(rows))
	for i := range rows {
		out = append(out, OfficerToDomain(&rows[i]))
	}
	return out
}
