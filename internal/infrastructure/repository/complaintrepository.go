package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/mappers"
	"github.com/civictrack/civictrack/internal/infrastructure/persistence/models"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/db"
	apperrors "github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/mapper"
)

// timelineBatchSize bounds the IN list used to load timelines for a page of complaints.
const timelineBatchSize = 500

type ComplaintRepository struct {
	db     *gorm.DB
	mapper mappers.ComplaintMapper
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{
		db:     db,
		mapper: mappers.NewComplaintMapper(),
	}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *complaint.Complaint) error {
	model, timeline, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}

	err = db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return tx.Create(&timeline).Error
	})
	if err != nil {
		return apperrors.WrapDependency("failed to save complaint", err)
	}
	return nil
}

func (r *ComplaintRepository) Get(ctx context.Context, id string) (*complaint.Complaint, error) {
	var model models.ComplaintModel
	tx := db.Conn(ctx, r.db)

	if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.WrapDependency("failed to find complaint", err)
	}

	list, err := r.hydrate(tx, []models.ComplaintModel{model})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

func (r *ComplaintRepository) ListByUser(ctx context.Context, userID string) ([]*complaint.Complaint, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID).Scopes(db.NewestFirst("created_at"))
	})
}

func (r *ComplaintRepository) ListByCategoryExcludingStatus(ctx context.Context, category vo.Category, exclude vo.Status) ([]*complaint.Complaint, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("category = ? AND status <> ?", category.String(), exclude.String()).
			Scopes(db.NewestFirst("created_at"))
	})
}

func (r *ComplaintRepository) ListByOfficer(ctx context.Context, officerID string) ([]*complaint.Complaint, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("officer_id = ?", officerID).
			Order("priority_rank DESC").
			Scopes(db.NewestFirst("created_at"))
	})
}

func (r *ComplaintRepository) List(ctx context.Context, filter complaint.Filter) ([]*complaint.Complaint, error) {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, s.String())
	}

	var status, category, priority *string
	if filter.Status != nil {
		s := filter.Status.String()
		status = &s
	}
	if filter.Category != nil {
		s := filter.Category.String()
		category = &s
	}
	if filter.Priority != nil {
		s := filter.Priority.String()
		priority = &s
	}

	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Scopes(
			db.ColumnIn("status", statuses),
			db.ColumnEquals("status", status),
			db.ColumnEquals("category", category),
			db.ColumnEquals("priority", priority),
			withinBounds(filter.Within),
			db.NewestFirst("created_at"),
		)
	})
}

// Update writes only the columns the patch names. Patches that add a
// timeline entry write the row and the entry in one transaction.
func (r *ComplaintRepository) Update(ctx context.Context, id string, patch complaint.Patch) error {
	tx := db.Conn(ctx, r.db)

	var err error
	switch p := patch.(type) {
	case complaint.PriorityPatch:
		err = r.updatePriority(tx, id, p)
	case complaint.AssignmentPatch:
		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := r.updateColumns(tx, id, map[string]interface{}{
				"department_id":   p.DepartmentID,
				"department_name": p.DepartmentName,
				"officer_id":      p.OfficerID,
				"officer_name":    p.OfficerName,
				"status":          p.Status.String(),
				"assigned_at":     biztime.ToMillis(p.AssignedAt),
				"updated_at":      biztime.ToMillis(p.UpdatedAt),
			}); err != nil {
				return err
			}
			return r.appendTimeline(tx, id, p.Entry)
		})
	case complaint.StatusUpdatePatch:
		err = tx.Transaction(func(tx *gorm.DB) error {
			columns := map[string]interface{}{
				"status":     p.Status.String(),
				"updated_at": biztime.ToMillis(p.UpdatedAt),
			}
			if p.ResolvedAt != nil {
				columns["resolved_at"] = biztime.ToMillis(*p.ResolvedAt)
			}
			if p.ResolutionPhotoRef != nil {
				columns["resolution_photo_ref"] = *p.ResolutionPhotoRef
			}
			if err := r.updateColumns(tx, id, columns); err != nil {
				return err
			}
			return r.appendTimeline(tx, id, p.Entry)
		})
	case complaint.FeedbackPatch:
		err = r.updateColumns(tx, id, map[string]interface{}{
			"has_feedback":     true,
			"feedback_rating":  p.Rating,
			"feedback_comment": p.Comment,
			"updated_at":       biztime.ToMillis(p.UpdatedAt),
		})
	default:
		return apperrors.NewInternalError(fmt.Sprintf("unsupported complaint patch %T", patch))
	}

	if err != nil {
		return apperrors.WrapDependency("failed to update complaint", err)
	}
	return nil
}

func (r *ComplaintRepository) updatePriority(tx *gorm.DB, id string, p complaint.PriorityPatch) error {
	reasons, err := mappers.EncodeReasons(p.Reasons)
	if err != nil {
		return err
	}
	return r.updateColumns(tx, id, map[string]interface{}{
		"priority":         p.Priority.String(),
		"priority_rank":    p.Priority.Rank(),
		"priority_reasons": reasons,
		"updated_at":       biztime.ToMillis(p.UpdatedAt),
	})
}

func (r *ComplaintRepository) updateColumns(tx *gorm.DB, id string, columns map[string]interface{}) error {
	return tx.Model(&models.ComplaintModel{}).Where("id = ?", id).Updates(columns).Error
}

func (r *ComplaintRepository) appendTimeline(tx *gorm.DB, id string, entry complaint.TimelineEntry) error {
	var next int
	if err := tx.Model(&models.ComplaintTimelineModel{}).
		Select("COALESCE(MAX(seq), -1) + 1").
		Where("complaint_id = ?", id).
		Scan(&next).Error; err != nil {
		return err
	}
	row := r.mapper.ToTimelineModel(id, next, entry)
	return tx.Create(&row).Error
}

func (r *ComplaintRepository) find(ctx context.Context, scope func(q *gorm.DB) *gorm.DB) ([]*complaint.Complaint, error) {
	tx := db.Conn(ctx, r.db)

	var rows []models.ComplaintModel
	if err := scope(tx.Model(&models.ComplaintModel{})).Find(&rows).Error; err != nil {
		return nil, apperrors.WrapDependency("failed to list complaints", err)
	}
	return r.hydrate(tx, rows)
}

// hydrate loads the timelines for rows and rebuilds the aggregates in row order.
func (r *ComplaintRepository) hydrate(tx *gorm.DB, rows []models.ComplaintModel) ([]*complaint.Complaint, error) {
	if len(rows) == 0 {
		return []*complaint.Complaint{}, nil
	}

	timelines := make(map[string][]models.ComplaintTimelineModel, len(rows))
	for start := 0; start < len(rows); start += timelineBatchSize {
		end := min(start+timelineBatchSize, len(rows))
		ids := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			ids = append(ids, row.ID)
		}

		var entries []models.ComplaintTimelineModel
		if err := tx.Where("complaint_id IN ?", ids).
			Order("complaint_id ASC").
			Order("seq ASC").
			Find(&entries).Error; err != nil {
			return nil, apperrors.WrapDependency("failed to load complaint timeline", err)
		}
		for _, e := range entries {
			timelines[e.ComplaintID] = append(timelines[e.ComplaintID], e)
		}
	}

	out, err := mapper.MapSliceWithError(rows, func(row models.ComplaintModel) (*complaint.Complaint, error) {
		return r.mapper.ToDomain(&row, timelines[row.ID])
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err.Error())
	}
	return out, nil
}

// withinBounds drops unlocated rows since NULL never satisfies BETWEEN.
func withinBounds(b *geo.Bounds) func(q *gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if b == nil {
			return q
		}
		return q.Where("latitude BETWEEN ? AND ?", b.MinLat, b.MaxLat).
			Where("longitude BETWEEN ? AND ?", b.MinLng, b.MaxLng)
	}
}
