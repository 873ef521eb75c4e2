package complaint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/interfaces/http/middleware"
	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/constants"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/id"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/utils"
)

// ComplaintHandler serves the citizen and officer routes.
type ComplaintHandler struct {
	createUC       usecases.CreateComplaintExecutor
	updateStatusUC usecases.UpdateStatusExecutor
	feedbackUC     usecases.SubmitFeedbackExecutor
	getUC          usecases.GetComplaintExecutor
	listUC         usecases.ListComplaintsExecutor
	nearbyUC       usecases.ListNearbyComplaintsExecutor
	maxUpload      int64
	logger         logger.Interface
}

func NewComplaintHandler(
	createUC usecases.CreateComplaintExecutor,
	updateStatusUC usecases.UpdateStatusExecutor,
	feedbackUC usecases.SubmitFeedbackExecutor,
	getUC usecases.GetComplaintExecutor,
	listUC usecases.ListComplaintsExecutor,
	nearbyUC usecases.ListNearbyComplaintsExecutor,
	maxUploadBytes int64,
	logger logger.Interface,
) *ComplaintHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = constants.DefaultMaxUploadBytes
	}
	return &ComplaintHandler{
		createUC:       createUC,
		updateStatusUC: updateStatusUC,
		feedbackUC:     feedbackUC,
		getUC:          getUC,
		listUC:         listUC,
		nearbyUC:       nearbyUC,
		maxUpload:      maxUploadBytes,
		logger:         logger,
	}
}

// CreateComplaint handles POST /complaints
func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid request body for create complaint", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	photo, err := readPhoto(c, constants.FormFieldPhoto, h.maxUpload)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createUC.Execute(c.Request.Context(), req.ToCommand(actor.ID, photo))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Complaint submitted successfully"
	if result.Warning != "" {
		message = result.Warning
	}
	utils.CreatedResponse(c, result, message)
}

// GetComplaint handles GET /complaints/:id
func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getUC.Execute(c.Request.Context(), usecases.GetComplaintQuery{
		ComplaintID: complaintID,
		Actor:       actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListMyComplaints handles GET /complaints/mine
func (h *ComplaintHandler) ListMyComplaints(c *gin.Context) {
	h.list(c, usecases.ScopeMine)
}

// ListOfficerComplaints handles GET /officer/complaints
func (h *ComplaintHandler) ListOfficerComplaints(c *gin.Context) {
	h.list(c, usecases.ScopeOfficer)
}

func (h *ComplaintHandler) list(c *gin.Context, scope usecases.ListScope) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListComplaintsQuery{
		Actor: actor,
		Scope: scope,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	respondPage(c, result)
}

// ListNearbyComplaints handles GET /complaints/nearby?lat=&lng=&radius=
func (h *ComplaintHandler) ListNearbyComplaints(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req NearbyComplaintsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.nearbyUC.Execute(c.Request.Context(), req.ToQuery(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	respondPage(c, result)
}

// UpdateStatus handles PATCH /complaints/:id/status
func (h *ComplaintHandler) UpdateStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid request body for update status", "complaint_id", complaintID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	photo, err := readPhoto(c, constants.FormFieldResolutionPhoto, h.maxUpload)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateStatusUC.Execute(c.Request.Context(), usecases.UpdateStatusCommand{
		ComplaintID:     complaintID,
		Actor:           actor,
		NewStatus:       req.Status,
		Note:            req.Note,
		ResolutionPhoto: photo,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Complaint status updated", result)
}

// SubmitFeedback handles POST /complaints/:id/feedback
func (h *ComplaintHandler) SubmitFeedback(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.feedbackUC.Execute(c.Request.Context(), usecases.SubmitFeedbackCommand{
		ComplaintID: complaintID,
		UserID:      actor.ID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Thank you for your feedback", result)
}

func requireActor(c *gin.Context) (authorization.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing actor identity")
		return actor, false
	}
	return actor, true
}

func parseComplaintID(c *gin.Context) (string, error) {
	complaintID, err := utils.ParseSIDParam(c, "id", id.PrefixComplaint, "complaint")
	if err != nil {
		return "", err
	}
	if short, err := id.ExtractShortID(complaintID, id.PrefixComplaint); err != nil || short == "" {
		return "", errors.NewValidationError("invalid complaint ID", complaintID)
	}
	return complaintID, nil
}

// respondPage slices an in-memory result set by the page and page_size query parameters.
func respondPage[T any](c *gin.Context, items []T) {
	page := utils.ParsePagination(c)
	start, end := utils.ApplyPagination(len(items), page.Page, page.PageSize)
	utils.ListSuccessResponse(c, items[start:end], int64(len(items)), page.Page, page.PageSize)
}
