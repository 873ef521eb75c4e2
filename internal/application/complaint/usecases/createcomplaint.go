package usecases

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/application/complaint/priority"
	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/shared/biztime"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/sanitize"
)

const (
	WarningNoDepartment   = "no department is configured for this category; complaint left unassigned"
	WarningNoOfficers     = "no officers are currently available; complaint left unassigned"
	WarningAssignmentFail = "automatic assignment failed; complaint left unassigned"
)

type CreateComplaintCommand struct {
	UserID      string
	Category    string
	Description string
	Location    *geo.Point
	Address     string
	Photo       *Photo
}

type CreateComplaintResult struct {
	Complaint *dto.ComplaintDTO `json:"complaint"`
	Warning   string            `json:"warning,omitempty"`
}

type CreateComplaintUseCase struct {
	complaintRepo complaint.Repository
	priority      PriorityComputer
	assigner      Assigner
	media         MediaStore
	ids           IDGenerator
	notifier      *Notifier
	sanitizer     *sanitize.Sanitizer
	clock         biztime.Clock
	logger        logger.Interface
}

func NewCreateComplaintUseCase(
	complaintRepo complaint.Repository,
	priorityEngine PriorityComputer,
	assigner Assigner,
	media MediaStore,
	ids IDGenerator,
	notifier *Notifier,
	sanitizer *sanitize.Sanitizer,
	clock biztime.Clock,
	logger logger.Interface,
) *CreateComplaintUseCase {
	return &CreateComplaintUseCase{
		complaintRepo: complaintRepo,
		priority:      priorityEngine,
		assigner:      assigner,
		media:         media,
		ids:           ids,
		notifier:      notifier,
		sanitizer:     sanitizer,
		clock:         clock,
		logger:        logger,
	}
}

// Execute stores the photo first, then the complaint, then tries to assign
// it. A failed assignment never undoes the creation; it comes back as a warning.
func (uc *CreateComplaintUseCase) Execute(ctx context.Context, cmd CreateComplaintCommand) (*CreateComplaintResult, error) {
	uc.logger.Infow("executing create complaint use case",
		"user_id", cmd.UserID,
		"category", cmd.Category,
		"has_location", cmd.Location != nil,
		"has_photo", cmd.Photo != nil)

	category, err := uc.validateCommand(&cmd)
	if err != nil {
		uc.logger.Warnw("invalid create complaint command", "error", err)
		return nil, err
	}

	id := uc.ids.NewID()

	var photoRef *string
	if cmd.Photo != nil {
		ref, err := uc.media.Store(ctx, mediaKey(id, "photo", cmd.Photo.Filename), cmd.Photo.Data)
		if err != nil {
			uc.logger.Errorw("failed to store complaint photo", "complaint_id", id, "error", err)
			return nil, errors.WrapDependency("failed to store photo", err)
		}
		photoRef = &ref
	}

	now := uc.clock.Now()
	assessment := uc.priority.Compute(ctx, priority.Subject{
		Category:  category,
		Location:  cmd.Location,
		Status:    vo.StatusSubmitted,
		CreatedAt: now,
		New:       true,
	}, now)

	c, err := complaint.NewComplaint(
		id,
		cmd.UserID,
		category,
		cmd.Description,
		cmd.Location,
		cmd.Address,
		photoRef,
		assessment.Priority,
		assessment.Reasons,
		now,
	)
	if err != nil {
		uc.logger.Warnw("failed to build complaint", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.complaintRepo.Create(ctx, c); err != nil {
		uc.logger.Errorw("failed to save complaint", "complaint_id", id, "error", err)
		return nil, errors.WrapDependency("failed to save complaint", err)
	}

	uc.logger.Infow("complaint created",
		"complaint_id", id,
		"priority", c.Priority(),
		"reasons", c.PriorityReasons())
	uc.notifier.Submitted(ctx, c)

	result := &CreateComplaintResult{}
	officer, err := uc.assigner.Assign(ctx, c, uc.clock.Now())
	switch {
	case err != nil && errors.IsNoDepartmentError(err):
		result.Warning = WarningNoDepartment
	case err != nil:
		uc.logger.Warnw("automatic assignment failed, complaint left unassigned", "complaint_id", id, "error", err)
		result.Warning = WarningAssignmentFail
	case officer == nil:
		result.Warning = WarningNoOfficers
	default:
		uc.notifier.Assigned(ctx, c)
	}

	result.Complaint = dto.ToComplaintDTO(c)
	return result, nil
}

func (uc *CreateComplaintUseCase) validateCommand(cmd *CreateComplaintCommand) (vo.Category, error) {
	if strings.TrimSpace(cmd.UserID) == "" {
		return "", errors.NewValidationError("user ID is required")
	}
	if strings.TrimSpace(cmd.Category) == "" {
		return "", errors.NewValidationError("category is required")
	}
	category, err := vo.NewCategory(strings.ToLower(strings.TrimSpace(cmd.Category)))
	if err != nil {
		return "", errors.NewValidationError("invalid category", cmd.Category)
	}

	cmd.Description = uc.sanitizer.Text(cmd.Description)
	if cmd.Description == "" {
		return "", errors.NewValidationError("description is required")
	}
	if err := complaint.ValidateDescription(cmd.Description); err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	cmd.Address = uc.sanitizer.Text(cmd.Address)

	if cmd.Location != nil {
		if cmd.Location.Lat < -90 || cmd.Location.Lat > 90 || cmd.Location.Lng < -180 || cmd.Location.Lng > 180 {
			return "", errors.NewValidationError("location is out of range")
		}
	}
	if cmd.Photo != nil && len(cmd.Photo.Data) == 0 {
		return "", errors.NewValidationError("photo is empty")
	}

	return category, nil
}

// mediaKey builds complaints/<id>/<kind>-<uuid><ext>.
func mediaKey(complaintID, kind, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("complaints/%s/%s-%s%s", complaintID, kind, uuid.NewString(), ext)
}
