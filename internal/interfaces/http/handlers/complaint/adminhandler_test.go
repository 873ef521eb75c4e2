package complaint

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/application/complaint/dto"
	"github.com/civictrack/civictrack/internal/application/complaint/usecases"
	"github.com/civictrack/civictrack/internal/interfaces/http/handlers/testutil"
	"github.com/civictrack/civictrack/internal/shared/authorization"
	"github.com/civictrack/civictrack/internal/shared/errors"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

type mockStatsUC struct {
	result *dto.ComplaintStatsDTO
	err    error
}

func (m *mockStatsUC) Execute(_ context.Context) (*dto.ComplaintStatsDTO, error) {
	return m.result, m.err
}

type mockAssignUC struct {
	execute func(ctx context.Context, cmd usecases.AssignComplaintCommand) (*dto.ComplaintDTO, error)
}

func (m *mockAssignUC) Execute(ctx context.Context, cmd usecases.AssignComplaintCommand) (*dto.ComplaintDTO, error) {
	return m.execute(ctx, cmd)
}

type mockReevaluateUC struct {
	execute func(ctx context.Context, cmd usecases.ReevaluatePriorityCommand) (*dto.ComplaintDTO, error)
}

func (m *mockReevaluateUC) Execute(ctx context.Context, cmd usecases.ReevaluatePriorityCommand) (*dto.ComplaintDTO, error) {
	return m.execute(ctx, cmd)
}

type mockSweepUC struct {
	result *usecases.SweepResult
	err    error
}

func (m *mockSweepUC) Execute(_ context.Context) (*usecases.SweepResult, error) {
	return m.result, m.err
}

type adminDeps struct {
	listUC       *mockListUC
	statsUC      *mockStatsUC
	assignUC     *mockAssignUC
	reevaluateUC *mockReevaluateUC
	sweepUC      *mockSweepUC
}

func newTestAdminHandler(deps adminDeps) *AdminHandler {
	if deps.listUC == nil {
		deps.listUC = &mockListUC{}
	}
	if deps.statsUC == nil {
		deps.statsUC = &mockStatsUC{}
	}
	if deps.assignUC == nil {
		deps.assignUC = &mockAssignUC{}
	}
	if deps.reevaluateUC == nil {
		deps.reevaluateUC = &mockReevaluateUC{}
	}
	if deps.sweepUC == nil {
		deps.sweepUC = &mockSweepUC{}
	}
	return NewAdminHandler(deps.listUC, deps.statsUC, deps.assignUC, deps.reevaluateUC, deps.sweepUC, logger.NewNop())
}

func TestAdminListComplaints_PassesFilters(t *testing.T) {
	var got usecases.ListComplaintsQuery
	h := newTestAdminHandler(adminDeps{listUC: &mockListUC{
		execute: func(_ context.Context, q usecases.ListComplaintsQuery) ([]*dto.ComplaintDTO, error) {
			got = q
			return []*dto.ComplaintDTO{sampleDTO()}, nil
		},
	}})

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/complaints", nil)
	testutil.SetQueryParams(c, map[string]string{"status": "escalated", "category": "water", "priority": "critical"})
	testutil.SetActorContext(c, "admin-1", authorization.RoleAdmin)

	h.ListComplaints(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.ScopeAll, got.Scope)
	assert.Equal(t, "escalated", got.Status)
	assert.Equal(t, "water", got.Category)
	assert.Equal(t, "critical", got.Priority)
}

func TestAdminGetStats(t *testing.T) {
	h := newTestAdminHandler(adminDeps{statsUC: &mockStatsUC{result: &dto.ComplaintStatsDTO{Total: 7, Resolved: 3}}})

	c, w := testutil.NewTestContext(http.MethodGet, "/admin/stats", nil)
	testutil.SetActorContext(c, "admin-1", authorization.RoleAdmin)

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":7`)
}

func TestAdminAssignComplaint(t *testing.T) {
	t.Run("assigns", func(t *testing.T) {
		var got usecases.AssignComplaintCommand
		h := newTestAdminHandler(adminDeps{assignUC: &mockAssignUC{
			execute: func(_ context.Context, cmd usecases.AssignComplaintCommand) (*dto.ComplaintDTO, error) {
				got = cmd
				return sampleDTO(), nil
			},
		}})

		c, w := testutil.NewTestContext(http.MethodPost, "/admin/complaints/"+testComplaintID+"/assign", map[string]any{
			"department_id": "roads",
			"officer_id":    "r-2",
			"note":          "Needs senior engineer",
		})
		testutil.SetURLParam(c, "id", testComplaintID)
		testutil.SetActorContext(c, "admin-1", authorization.RoleAdmin)

		h.AssignComplaint(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "roads", got.DepartmentID)
		assert.Equal(t, "r-2", got.OfficerID)
		assert.Equal(t, "admin-1", got.AssignedBy)
	})

	t.Run("missing officer", func(t *testing.T) {
		h := newTestAdminHandler(adminDeps{})

		c, w := testutil.NewTestContext(http.MethodPost, "/admin/complaints/"+testComplaintID+"/assign", map[string]any{
			"department_id": "roads",
		})
		testutil.SetURLParam(c, "id", testComplaintID)
		testutil.SetActorContext(c, "admin-1", authorization.RoleAdmin)

		h.AssignComplaint(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no department for category", func(t *testing.T) {
		h := newTestAdminHandler(adminDeps{assignUC: &mockAssignUC{
			execute: func(_ context.Context, _ usecases.AssignComplaintCommand) (*dto.ComplaintDTO, error) {
				return nil, errors.NewNoDepartmentError("road")
			},
		}})

		c, w := testutil.NewTestContext(http.MethodPost, "/admin/complaints/"+testComplaintID+"/assign", map[string]any{
			"department_id": "parks",
			"officer_id":    "p-1",
		})
		testutil.SetURLParam(c, "id", testComplaintID)
		testutil.SetActorContext(c, "admin-1", authorization.RoleAdmin)

		h.AssignComplaint(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAdminReevaluatePriority(t *testing.T) {
	var got string
	h := newTestAdminHandler(adminDeps{reevaluateUC: &mockReevaluateUC{
		execute: func(_ context.Context, cmd usecases.ReevaluatePriorityCommand) (*dto.ComplaintDTO, error) {
			got = cmd.ComplaintID
			return sampleDTO(), nil
		},
	}})

	c, w := testutil.NewTestContext(http.MethodPost, "/admin/complaints/"+testComplaintID+"/reevaluate", nil)
	testutil.SetURLParam(c, "id", testComplaintID)

	h.ReevaluatePriority(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testComplaintID, got)
}

func TestAdminRunEscalationSweep(t *testing.T) {
	tests := []struct {
		name        string
		result      *usecases.SweepResult
		wantMessage string
	}{
		{"ran", &usecases.SweepResult{Scanned: 4, Escalated: 1}, "Escalation sweep completed"},
		{"skipped", &usecases.SweepResult{Skipped: true}, "Escalation sweep already running on another instance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAdminHandler(adminDeps{sweepUC: &mockSweepUC{result: tt.result}})

			c, w := testutil.NewTestContext(http.MethodPost, "/admin/escalations/run", nil)

			h.RunEscalationSweep(c)

			require.Equal(t, http.StatusOK, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}
