package models

type OfficerModel struct {
	ID            string `gorm:"primaryKey;size:64"`
	Name          string `gorm:"size:200;not null"`
	Email         string `gorm:"size:255;not null;default:''"`
	DepartmentID  string `gorm:"size:64;not null;index:idx_officers_department_load"`
	Active        bool   `gorm:"not null"`
	AssignedCount int    `gorm:"not null;default:0;index:idx_officers_department_load"`
	CreatedAt     int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt     int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (OfficerModel) TableName() string {
	return "officers"
}
