package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/domain/notification"
	apperrors "github.com/civictrack/civictrack/internal/shared/errors"
)

func TestRunEscalationSweepUseCase_EscalatesStaleComplaints(t *testing.T) {
	l := newLifecycle(t, testOfficer("r-1", "roads", true, 1))
	stale := l.seedComplaint(t, "stale", vo.CategoryRoad, nil, testNow.Add(-50*time.Hour-20*time.Minute), "r-1")
	fresh := l.seedComplaint(t, "fresh", vo.CategoryRoad, nil, testNow.Add(-47*time.Hour), "")
	resolved := l.seedComplaint(t, "done", vo.CategoryRoad, nil, testNow.Add(-90*time.Hour), "r-1")
	_, err := resolved.UpdateStatus(vo.StatusResolved, "done", nil, testNow.Add(-80*time.Hour))
	require.NoError(t, err)

	result, err := l.sweepUseCase(nil).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &SweepResult{Scanned: 2, Reprioritized: 1, Escalated: 1}, result)

	assert.Equal(t, vo.StatusEscalated, stale.Status())
	assert.Equal(t, vo.PriorityCritical, stale.Priority())
	assert.Equal(t, []string{"Pending for 50 hours"}, stale.PriorityReasons())
	last := stale.Timeline()[len(stale.Timeline())-1]
	assert.Equal(t, "Automatically escalated: pending for 50 hours", last.Note)

	assert.Equal(t, vo.StatusSubmitted, fresh.Status())
	assert.Equal(t, vo.PriorityNormal, fresh.Priority())
	assert.Equal(t, vo.StatusResolved, resolved.Status())

	toOfficer := l.sink.to("r-1")
	require.Len(t, toOfficer, 1)
	assert.Equal(t, notification.TypeComplaintEscalated, toOfficer[0].Type)
	assert.Len(t, l.sink.to(notification.SupervisorRecipient), 1)
}

func TestRunEscalationSweepUseCase_SecondRunIsNoop(t *testing.T) {
	l := newLifecycle(t)
	c := l.seedComplaint(t, "stale", vo.CategoryWater, nil, testNow.Add(-72*time.Hour), "")
	uc := l.sweepUseCase(nil)

	first, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Escalated)

	l.clock.Advance(time.Hour)
	second, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &SweepResult{}, second)
	assert.Equal(t, 1, countEntries(c, vo.StatusEscalated))
}

func TestRunEscalationSweepUseCase_Lock(t *testing.T) {
	t.Run("held elsewhere", func(t *testing.T) {
		l := newLifecycle(t)
		l.seedComplaint(t, "stale", vo.CategoryRoad, nil, testNow.Add(-72*time.Hour), "")
		locker := &mockLocker{
			TryLockFunc: func(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
				assert.Equal(t, SweepLockKey, key)
				return nil, false, nil
			},
		}

		result, err := l.sweepUseCase(locker).Execute(context.Background())

		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Empty(t, l.complaints.patches)
	})

	t.Run("released after run", func(t *testing.T) {
		l := newLifecycle(t)
		locker := &mockLocker{}

		_, err := l.sweepUseCase(locker).Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, locker.released)
	})

	t.Run("lock store down", func(t *testing.T) {
		l := newLifecycle(t)
		locker := &mockLocker{
			TryLockFunc: func(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
				return nil, false, errors.New("redis: connection refused")
			},
		}

		_, err := l.sweepUseCase(locker).Execute(context.Background())
		assert.True(t, apperrors.IsDependencyUnavailableError(err))
	})
}

func TestRunEscalationSweepUseCase_FailuresAreCounted(t *testing.T) {
	l := newLifecycle(t)
	l.seedComplaint(t, "a", vo.CategoryRoad, nil, testNow.Add(-60*time.Hour), "")
	l.seedComplaint(t, "b", vo.CategoryRoad, nil, testNow.Add(-60*time.Hour), "")
	l.repo.UpdateFunc = func(ctx context.Context, id string, patch complaint.Patch) error {
		if id == "a" {
			return errors.New("write conflict")
		}
		return nil
	}

	result, err := l.sweepUseCase(nil).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Escalated)
}

func TestRunEscalationSweepUseCase_ListFailure(t *testing.T) {
	l := newLifecycle(t)
	l.repo.ListFunc = func(ctx context.Context, filter complaint.Filter) ([]*complaint.Complaint, error) {
		assert.ElementsMatch(t, vo.SweepCandidateStatuses, filter.Statuses)
		return nil, context.DeadlineExceeded
	}

	_, err := l.sweepUseCase(nil).Execute(context.Background())
	assert.True(t, apperrors.IsDependencyUnavailableError(err))
}
