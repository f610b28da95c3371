package memory

import (
	"context"

	"devsecboard/internal/store"
)

func (s *Store) GetDashboardMetrics(ctx context.Context) (store.DashboardMetrics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.dashboard.Last()
	return m, ok, nil
}

// UpsertDashboardMetrics merges into the single dashboard record, creating it with
// zeroed counters on first use. lastUpdated is always refreshed.
func (s *Store) UpsertDashboardMetrics(ctx context.Context, patch store.DashboardMetricsPatch) (store.DashboardMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	action := store.ChangeUpdated
	m, ok := s.dashboard.Last()
	if !ok {
		action = store.ChangeCreated
		m = store.DashboardMetrics{
			ID:                 s.allocateID(),
			Date:               ptr(s.timestamp()),
			AverageCoverage:    "0",
			AverageComplexity:  "0",
			TotalTechnicalDebt: "0h",
		}
	}

	assign(&m.Period, patch.Period)
	set(&m.Date, patch.Date)
	assign(&m.TotalPipelines, patch.TotalPipelines)
	assign(&m.SuccessfulPipelines, patch.SuccessfulPipelines)
	assign(&m.FailedPipelines, patch.FailedPipelines)
	assign(&m.AverageDuration, patch.AverageDuration)
	assign(&m.TotalSecurityIssues, patch.TotalSecurityIssues)
	assign(&m.CriticalIssues, patch.CriticalIssues)
	assign(&m.HighIssues, patch.HighIssues)
	assign(&m.MediumIssues, patch.MediumIssues)
	assign(&m.LowIssues, patch.LowIssues)
	assign(&m.ResolvedIssues, patch.ResolvedIssues)
	assign(&m.AverageCoverage, patch.AverageCoverage)
	assign(&m.AverageComplexity, patch.AverageComplexity)
	assign(&m.TotalTechnicalDebt, patch.TotalTechnicalDebt)
	assign(&m.TotalDeployments, patch.TotalDeployments)
	assign(&m.SuccessfulDeployments, patch.SuccessfulDeployments)
	assign(&m.FailedDeployments, patch.FailedDeployments)
	assign(&m.AverageDeploymentTime, patch.AverageDeploymentTime)
	m.LastUpdated = s.timestamp()

	s.dashboard.Put(m.ID, m)
	s.publish(store.EntityDashboardMetrics, action, m.ID, nil, m)
	return m, nil
}
