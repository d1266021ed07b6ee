package observability

import (
	"time"

	"github.com/datacentered/curator/pkg/models"
)

// RoutingMetrics summarizes routing activity over a window.
type RoutingMetrics struct {
	Since       time.Time
	Total       int
	ByIntent    map[models.Intent]int
	NeedsReview int
	Approved    int
	Skipped     int
	Deleted     int
}

// CalculateMetrics derives routing metrics from the log, counting entries at
// or after since. A zero since covers the full history.
func (l *RoutingLog) CalculateMetrics(since time.Time) (RoutingMetrics, error) {
	entries, err := l.Read()
	if err != nil {
		return RoutingMetrics{}, err
	}

	m := RoutingMetrics{
		Since:    since,
		ByIntent: make(map[models.Intent]int),
	}
	for _, e := range entries {
		if !since.IsZero() && e.Timestamp.Before(since) {
			continue
		}
		switch e.Action {
		case "review.approved":
			m.Approved++
		case "review.skipped":
			m.Skipped++
		case "review.deleted":
			m.Deleted++
		case "":
			m.Total++
			m.ByIntent[e.Intent]++
			if e.NeedsReview {
				m.NeedsReview++
			}
		}
	}
	return m, nil
}
