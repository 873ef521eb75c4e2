package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/civictrack/civictrack/internal/shared/errors"
)

type feedbackForm struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `form:"comment" validate:"max=10"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(feedbackForm{Rating: 3}))

	err := ValidateStruct(feedbackForm{Rating: 9, Comment: "far too long a comment"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details, "rating must be less than or equal to 5")
	assert.Contains(t, appErr.Details, "comment must be at most 10 characters long")
}

func TestBindError(t *testing.T) {
	err := BindError(errors.New("unexpected EOF"))

	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "unexpected EOF", apperrors.GetAppError(err).Details)
}
