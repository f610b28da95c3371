package memory

import (
	"context"

	"devsecboard/internal/store"
)

func (s *Store) ListComplianceChecks(ctx context.Context, pipelineRunID int64) ([]store.ComplianceCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.compliance.Filter(func(c store.ComplianceCheck) bool {
		return c.PipelineRunID == pipelineRunID
	}), nil
}

func (s *Store) CreateComplianceCheck(ctx context.Context, check store.ComplianceCheck) (store.ComplianceCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pipelineExists(check.PipelineRunID) {
		return store.ComplianceCheck{}, store.ErrPipelineNotFound
	}
	check.ID = s.allocateID()
	check.CreatedAt = s.timestamp()

	s.compliance.Put(check.ID, check)
	s.publish(store.EntityComplianceCheck, store.ChangeCreated, check.ID, &check.PipelineRunID, check)
	return check, nil
}
