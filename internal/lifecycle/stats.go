package lifecycle

import (
	"context"

	"github.com/edakseva/grievance-server/internal/model"
)

const unspecifiedLocation = "Unspecified Circle"

// Stats aggregates the collection for the dashboard header and the public
// statistics view. Pending counts records still in review (pending or
// drafted); solved counts every terminal state; urgent counts high-priority
// records not yet dispatched.
func (c *Controller) Stats(ctx context.Context) (*model.Stats, error) {
	all, err := c.store.Complaints().List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{
		Total:      len(all),
		ByLocation: make(map[string]int),
	}
	for _, r := range all {
		switch r.Status {
		case model.StatusPending, model.StatusDrafted:
			stats.Pending++
		case model.StatusSent, model.StatusResolved, model.StatusAutoResolved:
			stats.Solved++
		}
		if r.Priority == model.PriorityUrgent && r.Status != model.StatusSent {
			stats.Urgent++
		}
		loc := r.Location
		if loc == "" {
			loc = unspecifiedLocation
		}
		stats.ByLocation[loc]++
	}

	for loc, n := range stats.ByLocation {
		if stats.BusiestCircle == "" || n > stats.ByLocation[stats.BusiestCircle] {
			stats.BusiestCircle = loc
		}
		if stats.QuietestCircle == "" || n < stats.ByLocation[stats.QuietestCircle] {
			stats.QuietestCircle = loc
		}
	}
	return stats, nil
}
