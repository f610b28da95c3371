package memory

import (
	"context"

	"devsecboard/internal/store"
)

func (s *Store) GetLatestCodeMetrics(ctx context.Context) (store.CodeMetrics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.codeMetrics.Last()
	return m, ok, nil
}

func (s *Store) GetCodeMetricsByPipeline(ctx context.Context, pipelineRunID int64) (store.CodeMetrics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.codeMetrics.Find(sameRun(&pipelineRunID))
	return m, ok, nil
}

func (s *Store) ListCodeMetrics(ctx context.Context) ([]store.CodeMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.codeMetrics.List(), nil
}

// UpsertCodeMetrics keeps at most one record per pipeline run. Fields present in the
// patch replace stored values, absent ones are kept, and lastUpdated is always refreshed.
func (s *Store) UpsertCodeMetrics(ctx context.Context, patch store.CodeMetricsPatch) (store.CodeMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.PipelineRunID != nil && !s.pipelineExists(*patch.PipelineRunID) {
		return store.CodeMetrics{}, store.ErrPipelineNotFound
	}

	action := store.ChangeUpdated
	m, ok := s.codeMetrics.Find(sameRun(patch.PipelineRunID))
	if !ok {
		action = store.ChangeCreated
		m = store.CodeMetrics{ID: s.allocateID()}
		set(&m.PipelineRunID, patch.PipelineRunID)
	}

	assign(&m.Coverage, patch.Coverage)
	set(&m.LinesOfCode, patch.LinesOfCode)
	set(&m.CyclomaticComplexity, patch.CyclomaticComplexity)
	set(&m.MaintainabilityIndex, patch.MaintainabilityIndex)
	set(&m.TechnicalDebt, patch.TechnicalDebt)
	set(&m.DuplicatedLines, patch.DuplicatedLines)
	set(&m.CodeSmells, patch.CodeSmells)
	set(&m.Bugs, patch.Bugs)
	set(&m.Vulnerabilities, patch.Vulnerabilities)
	set(&m.SecurityHotspots, patch.SecurityHotspots)
	m.LastUpdated = s.timestamp()

	s.codeMetrics.Put(m.ID, m)
	s.publish(store.EntityCodeMetrics, action, m.ID, m.PipelineRunID, m)
	return m, nil
}

// sameRun matches records bound to the given run; nil matches records bound to no run.
func sameRun(pipelineRunID *int64) func(store.CodeMetrics) bool {
	return func(m store.CodeMetrics) bool {
		if pipelineRunID == nil || m.PipelineRunID == nil {
			return pipelineRunID == nil && m.PipelineRunID == nil
		}
		return *m.PipelineRunID == *pipelineRunID
	}
}

func (s *Store) ListTestResults(ctx context.Context, pipelineRunID int64) ([]store.TestResults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tests.Filter(func(t store.TestResults) bool {
		return t.PipelineRunID == pipelineRunID
	}), nil
}

func (s *Store) CreateTestResults(ctx context.Context, results store.TestResults) (store.TestResults, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pipelineExists(results.PipelineRunID) {
		return store.TestResults{}, store.ErrPipelineNotFound
	}
	results.ID = s.allocateID()
	results.CreatedAt = s.timestamp()

	s.tests.Put(results.ID, results)
	s.publish(store.EntityTestResults, store.ChangeCreated, results.ID, &results.PipelineRunID, results)
	return results, nil
}
