// Package priority decides how urgent a complaint is from where it is, what
// else has been reported around it and how long it has been open.
package priority

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/civictrack/civictrack/internal/domain/complaint"
	vo "github.com/civictrack/civictrack/internal/domain/complaint/valueobjects"
	"github.com/civictrack/civictrack/internal/shared/geo"
	"github.com/civictrack/civictrack/internal/shared/logger"
)

// SensitiveLocation is a school, hospital or similar point whose
// neighbourhood gets faster attention.
type SensitiveLocation struct {
	Name  string
	Point geo.Point
}

type Rules struct {
	SensitiveRadiusMeters float64
	ClusterRadiusMeters   float64
	ClusterThreshold      int
	PendingDuration       time.Duration
}

func DefaultRules() Rules {
	return Rules{
		SensitiveRadiusMeters: 500,
		ClusterRadiusMeters:   1000,
		ClusterThreshold:      3,
		PendingDuration:       48 * time.Hour,
	}
}

// ComplaintFinder is the slice of the complaint repository the cluster rule reads.
type ComplaintFinder interface {
	ListByCategoryExcludingStatus(ctx context.Context, category vo.Category, exclude vo.Status) ([]*complaint.Complaint, error)
}

// Subject is the complaint being assessed. ID is empty for a complaint that
// has not been stored yet; New complaints skip the age rule.
type Subject struct {
	ID        string
	Category  vo.Category
	Location  *geo.Point
	Status    vo.Status
	CreatedAt time.Time
	New       bool
}

func SubjectFromComplaint(c *complaint.Complaint) Subject {
	return Subject{
		ID:        c.ID(),
		Category:  c.Category(),
		Location:  c.Location(),
		Status:    c.Status(),
		CreatedAt: c.CreatedAt(),
	}
}

type Assessment struct {
	Priority vo.Priority
	Reasons  []string
}

func (a *Assessment) raise(p vo.Priority, reason string) {
	a.Priority = a.Priority.AtLeast(p)
	a.Reasons = append(a.Reasons, reason)
}

// Engine evaluates the priority rules in order: sensitive proximity, cluster
// of similar reports, then age. Later rules only ever raise the result.
type Engine struct {
	finder    ComplaintFinder
	locations []SensitiveLocation
	rules     Rules
	logger    logger.Interface
}

func NewEngine(finder ComplaintFinder, locations []SensitiveLocation, rules Rules, logger logger.Interface) *Engine {
	locs := make([]SensitiveLocation, len(locations))
	copy(locs, locations)
	return &Engine{
		finder:    finder,
		locations: locs,
		rules:     rules,
		logger:    logger,
	}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Compute never fails. A repository error in the cluster rule counts as no
// similar complaints.
func (e *Engine) Compute(ctx context.Context, s Subject, now time.Time) Assessment {
	result := Assessment{Priority: vo.PriorityNormal, Reasons: []string{}}

	if s.Location != nil {
		if loc, ok := e.nearestSensitive(*s.Location); ok {
			result.raise(vo.PriorityHigh, fmt.Sprintf("Near %s", loc.Name))
		}

		if s.Category.IsValid() {
			if count, ok := e.clusterSize(ctx, s); ok && count >= e.rules.ClusterThreshold {
				result.raise(vo.PriorityCritical, fmt.Sprintf("%d similar reports in area", count))
			}
		}
	}

	if !s.New && s.Status.IsOpen() && !s.CreatedAt.IsZero() {
		age := now.Sub(s.CreatedAt)
		if age > e.rules.PendingDuration {
			hours := int(math.Floor(age.Hours()))
			result.raise(vo.PriorityCritical, fmt.Sprintf("Pending for %d hours", hours))
		}
	}

	return result
}

// nearestSensitive returns the first configured location within radius.
// Configuration order is precedence order.
func (e *Engine) nearestSensitive(p geo.Point) (SensitiveLocation, bool) {
	for _, loc := range e.locations {
		if geo.Within(p, loc.Point, e.rules.SensitiveRadiusMeters) {
			return loc, true
		}
	}
	return SensitiveLocation{}, false
}

// clusterSize counts the subject plus every other unresolved complaint of the
// same category inside the cluster radius. ok is false when the lookup failed;
// the rule is then skipped whatever the threshold.
func (e *Engine) clusterSize(ctx context.Context, s Subject) (count int, ok bool) {
	others, err := e.finder.ListByCategoryExcludingStatus(ctx, s.Category, vo.StatusResolved)
	if err != nil {
		e.logger.Warnw("similar complaint lookup failed, treating as none",
			"category", s.Category,
			"complaint_id", s.ID,
			"error", err)
		return 0, false
	}

	count = 1
	for _, other := range others {
		if s.ID != "" && other.ID() == s.ID {
			continue
		}
		if other.Status().IsResolved() {
			continue
		}
		loc := other.Location()
		if loc == nil {
			continue
		}
		if geo.Within(*s.Location, *loc, e.rules.ClusterRadiusMeters) {
			count++
		}
	}
	return count, true
}
