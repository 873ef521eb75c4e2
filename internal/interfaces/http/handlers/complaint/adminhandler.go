package complaint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/shared/logger"
	"github.com/civictrack/civictrack/internal/shared/utils"
)

// AdminHandler serves the /admin routes.
type AdminHandler struct {
	listUC       usecases.ListComplaintsExecutor
	statsUC      usecases.GetComplaintStatsExecutor
	assignUC     usecases.AssignComplaintExecutor
	reevaluateUC usecases.ReevaluatePriorityExecutor
	sweepUC      usecases.RunEscalationSweepExecutor
	logger       logger.Interface
}

func NewAdminHandler(
	listUC usecases.ListComplaintsExecutor,
	statsUC usecases.GetComplaintStatsExecutor,
	assignUC usecases.AssignComplaintExecutor,
	reevaluateUC usecases.ReevaluatePriorityExecutor,
	sweepUC usecases.RunEscalationSweepExecutor,
	logger logger.Interface,
) *AdminHandler {
	return &AdminHandler{
		listUC:       listUC,
		statsUC:      statsUC,
		assignUC:     assignUC,
		reevaluateUC: reevaluateUC,
		sweepUC:      sweepUC,
		logger:       logger,
	}
}

// ListComplaints handles GET /admin/complaints?status=&category=&priority=
func (h *AdminHandler) ListComplaints(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.listUC.Execute(c.Request.Context(), usecases.ListComplaintsQuery{
		Actor:    actor,
		Scope:    usecases.ScopeAll,
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	respondPage(c, result)
}

// GetStats handles GET /admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	result, err := h.statsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// AssignComplaint handles POST /admin/complaints/:id/assign
func (h *AdminHandler) AssignComplaint(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for assign complaint", "complaint_id", complaintID, "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.assignUC.Execute(c.Request.Context(), usecases.AssignComplaintCommand{
		ComplaintID:  complaintID,
		DepartmentID: req.DepartmentID,
		OfficerID:    req.OfficerID,
		Note:         req.Note,
		AssignedBy:   actor.ID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Complaint assigned", result)
}

// ReevaluatePriority handles POST /admin/complaints/:id/reevaluate
func (h *AdminHandler) ReevaluatePriority(c *gin.Context) {
	complaintID, err := parseComplaintID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reevaluateUC.Execute(c.Request.Context(), usecases.ReevaluatePriorityCommand{
		ComplaintID: complaintID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// RunEscalationSweep handles POST /admin/escalations/run
func (h *AdminHandler) RunEscalationSweep(c *gin.Context) {
	result, err := h.sweepUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Escalation sweep completed"
	if result.Skipped {
		message = "Escalation sweep already running on another instance"
	}
	utils.SuccessResponse(c, http.StatusOK, message, result)
}
