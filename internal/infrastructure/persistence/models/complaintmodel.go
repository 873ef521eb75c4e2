package models

import "gorm.io/datatypes"

type ComplaintModel struct {
	ID                 string         `gorm:"primaryKey;size:32"`
	UserID             string         `gorm:"size:64;not null;index"`
	Category           string         `gorm:"size:20;not null;index:idx_complaints_category_status"`
	Description        string         `gorm:"type:text;not null"`
	Latitude           *float64
	Longitude          *float64
	Address            string         `gorm:"size:500;not null;default:''"`
	PhotoRef           *string        `gorm:"size:500"`
	ResolutionPhotoRef *string        `gorm:"size:500"`
	Status             string         `gorm:"size:20;not null;index:idx_complaints_category_status"`
	Priority           string         `gorm:"size:20;not null"`
	PriorityRank       int            `gorm:"not null;index"`
	PriorityReasons    datatypes.JSON `gorm:"type:json"`
	DepartmentID       *string        `gorm:"size:64"`
	DepartmentName     string         `gorm:"size:200;not null;default:''"`
	OfficerID          *string        `gorm:"size:64;index"`
	OfficerName        string         `gorm:"size:200;not null;default:''"`
	AssignedAt         *int64
	HasFeedback        bool   `gorm:"not null;default:false"`
	FeedbackRating     *int
	FeedbackComment    string `gorm:"type:text"`
	CreatedAt          int64  `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt          int64  `gorm:"autoUpdateTime:milli;not null"`
	ResolvedAt         *int64

	// Timeline rows live in complaint_timeline; they are loaded explicitly.
}

func (ComplaintModel) TableName() string {
	return "complaints"
}

// ComplaintTimelineModel is one entry of a complaint's append-only timeline.
// Seq starts at zero and orders entries within a complaint.
type ComplaintTimelineModel struct {
	ComplaintID string `gorm:"primaryKey;size:32"`
	Seq         int    `gorm:"primaryKey;autoIncrement:false"`
	Status      string `gorm:"size:20;not null"`
	Note        string `gorm:"type:text;not null"`
	Timestamp   int64  `gorm:"not null"`
}

func (ComplaintTimelineModel) TableName() string {
	return "complaint_timeline"
}
