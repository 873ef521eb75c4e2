package complaint

import "errors"

var (
	ErrDescriptionRequired = errors.New("description is required")
	ErrNoteRequired        = errors.New("note is required")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrFeedbackNotAllowed  = errors.New("feedback not allowed")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)
