package memory

import (
	"context"

	"devsecboard/internal/store"
)

func (s *Store) ListDeployments(ctx context.Context) ([]store.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deployments.List(), nil
}

func (s *Store) ListDeploymentsByPipeline(ctx context.Context, pipelineRunID int64) ([]store.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deployments.Filter(func(d store.Deployment) bool {
		return d.PipelineRunID == pipelineRunID
	}), nil
}

func (s *Store) GetDeployment(ctx context.Context, id int64) (store.Deployment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deployments.Get(id)
	return d, ok, nil
}

func (s *Store) CreateDeployment(ctx context.Context, d store.Deployment) (store.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pipelineExists(d.PipelineRunID) {
		return store.Deployment{}, store.ErrPipelineNotFound
	}
	now := s.timestamp()
	d.ID = s.allocateID()
	d.StartTime = &now
	d.EndTime = nil
	d.RollbackTime = nil

	s.deployments.Put(d.ID, d)
	s.publish(store.EntityDeployment, store.ChangeCreated, d.ID, &d.PipelineRunID, d)
	return d, nil
}

// UpdateDeployment merges patch into the deployment. Finishing stamps the end time and
// rolling back stamps the rollback time, each only if not yet set.
func (s *Store) UpdateDeployment(ctx context.Context, id int64, patch store.DeploymentPatch) (store.Deployment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deployments.Get(id)
	if !ok {
		return store.Deployment{}, false, nil
	}

	assign(&d.Environment, patch.Environment)
	assign(&d.Version, patch.Version)
	assign(&d.Status, patch.Status)
	assign(&d.DeployedBy, patch.DeployedBy)
	set(&d.DeploymentURL, patch.DeploymentURL)
	set(&d.HealthCheckURL, patch.HealthCheckURL)
	set(&d.EndTime, patch.EndTime)
	set(&d.RollbackTime, patch.RollbackTime)

	switch d.Status {
	case store.DeploymentStatusSuccess, store.DeploymentStatusFailed:
		if d.EndTime == nil {
			d.EndTime = ptr(s.timestamp())
		}
	case store.DeploymentStatusRolledBack:
		if d.RollbackTime == nil {
			d.RollbackTime = ptr(s.timestamp())
		}
	}

	s.deployments.Put(id, d)
	s.publish(store.EntityDeployment, store.ChangeUpdated, id, &d.PipelineRunID, d)
	return d, true, nil
}
