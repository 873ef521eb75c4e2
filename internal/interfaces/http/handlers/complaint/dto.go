package complaint

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/geo"
)

type CreateComplaintRequest struct {
	Category    string   `json:"category" form:"category" validate:"required"`
	Description string   `json:"description" form:"description" validate:"required,max=5000"`
	Latitude    *float64 `json:"latitude" form:"latitude" validate:"required_with=Longitude,omitempty,latitude"`
	Longitude   *float64 `json:"longitude" form:"longitude" validate:"required_with=Latitude,omitempty,longitude"`
	Address     string   `json:"address" form:"address" validate:"max=500"`
}

func (r *CreateComplaintRequest) ToCommand(userID string, photo *usecases.Photo) usecases.CreateComplaintCommand {
	var location *geo.Point
	if r.Latitude != nil && r.Longitude != nil {
		location = &geo.Point{Lat: *r.Latitude, Lng: *r.Longitude}
	}
	return usecases.CreateComplaintCommand{
		UserID:      userID,
		Category:    r.Category,
		Description: r.Description,
		Location:    location,
		Address:     r.Address,
		Photo:       photo,
	}
}

// NearbyComplaintsRequest takes the radius in meters; zero means the
// configured default.
type NearbyComplaintsRequest struct {
	Lat    *float64 `form:"lat" validate:"required,latitude"`
	Lng    *float64 `form:"lng" validate:"required,longitude"`
	Radius float64  `form:"radius" validate:"gte=0"`
}

func (r *NearbyComplaintsRequest) ToQuery(actor authorization.Actor) usecases.ListNearbyComplaintsQuery {
	return usecases.ListNearbyComplaintsQuery{
		Actor:        actor,
		Lat:          *r.Lat,
		Lng:          *r.Lng,
		RadiusMeters: r.Radius,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
	Note   string `json:"note" form:"note" validate:"required,max=2000"`
}

type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating" form:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" form:"comment" validate:"max=2000"`
}

type AssignComplaintRequest struct {
	DepartmentID string `json:"department_id" validate:"required"`
	OfficerID    string `json:"officer_id" validate:"required"`
	Note         string `json:"note" validate:"max=2000"`
}

// readPhoto returns nil when the field is absent. Uploads larger than
// maxBytes or not sniffed as an image are rejected.
func readPhoto(c *gin.Context, field string, maxBytes int64) (*usecases.Photo, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}

	header, err := c.FormFile(field)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.NewValidationError("invalid "+field+" upload", err.Error())
	}
	if header.Size > maxBytes {
		return nil, errors.NewValidationError(fmt.Sprintf("%s exceeds %d bytes", field, maxBytes))
	}

	f, err := header.Open()
	if err != nil {
		return nil, errors.NewValidationError("invalid "+field+" upload", err.Error())
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, errors.NewValidationError("invalid "+field+" upload", err.Error())
	}
	if int64(len(data)) > maxBytes {
		return nil, errors.NewValidationError(fmt.Sprintf("%s exceeds %d bytes", field, maxBytes))
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.NewValidationError(field+" must be an image", contentType)
	}

	return &usecases.Photo{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
