package memory

import (
	"context"

	"devsecboard/internal/store"
)

const (
	defaultBranch      = "main"
	defaultEnvironment = "staging"
)

func (s *Store) ListPipelineRuns(ctx context.Context) ([]store.PipelineRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs.List(), nil
}

func (s *Store) GetPipelineRun(ctx context.Context, id int64) (store.PipelineRun, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs.Get(id)
	return run, ok, nil
}

func (s *Store) GetCurrentPipelineRun(ctx context.Context) (store.PipelineRun, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs.Find(func(r store.PipelineRun) bool {
		return r.Status == store.PipelineStatusRunning
	})
	return run, ok, nil
}

func (s *Store) CreatePipelineRun(ctx context.Context, run store.PipelineRun) (store.PipelineRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	run.ID = s.allocateID()
	run.StartTime = &now
	run.EndTime = nil
	run.Duration = nil
	if run.Branch == "" {
		run.Branch = defaultBranch
	}
	if run.Environment == nil {
		run.Environment = ptr(defaultEnvironment)
	}
	if run.Status == "" {
		run.Status = store.PipelineStatusPending
	}

	s.runs.Put(run.ID, run)
	s.publish(store.EntityPipelineRun, store.ChangeCreated, run.ID, &run.ID, run)
	return run, nil
}

// UpdatePipelineRun merges patch into the run. Moving the run to a terminal status
// stamps the end time and duration unless they are already known.
func (s *Store) UpdatePipelineRun(ctx context.Context, id int64, patch store.PipelineRunPatch) (store.PipelineRun, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs.Get(id)
	if !ok {
		return store.PipelineRun{}, false, nil
	}

	assign(&run.Name, patch.Name)
	assign(&run.Branch, patch.Branch)
	assign(&run.Status, patch.Status)
	set(&run.CurrentStage, patch.CurrentStage)
	set(&run.StartTime, patch.StartTime)
	set(&run.EndTime, patch.EndTime)
	set(&run.Duration, patch.Duration)
	assign(&run.TriggeredBy, patch.TriggeredBy)
	set(&run.CommitHash, patch.CommitHash)
	set(&run.Environment, patch.Environment)

	if run.Status.Terminal() {
		if run.EndTime == nil {
			run.EndTime = ptr(s.timestamp())
		}
		if run.Duration == nil && run.StartTime != nil {
			run.Duration = ptr(elapsedSeconds(*run.StartTime, *run.EndTime))
		}
	}

	s.runs.Put(id, run)
	s.publish(store.EntityPipelineRun, store.ChangeUpdated, id, &run.ID, run)
	return run, true, nil
}

func (s *Store) ListPipelineStages(ctx context.Context, pipelineRunID int64) ([]store.PipelineStage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stages.Filter(func(st store.PipelineStage) bool {
		return st.PipelineRunID == pipelineRunID
	}), nil
}

func (s *Store) GetPipelineStage(ctx context.Context, id int64) (store.PipelineStage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stage, ok := s.stages.Get(id)
	return stage, ok, nil
}

func (s *Store) CreatePipelineStage(ctx context.Context, stage store.PipelineStage) (store.PipelineStage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pipelineExists(stage.PipelineRunID) {
		return store.PipelineStage{}, store.ErrPipelineNotFound
	}
	stage.ID = s.allocateID()

	s.stages.Put(stage.ID, stage)
	s.publish(store.EntityPipelineStage, store.ChangeCreated, stage.ID, &stage.PipelineRunID, stage)
	return stage, nil
}

// UpdatePipelineStage merges patch into the stage. A stage that starts running gets a
// start time; a stage that finishes gets an end time and duration, each only once.
func (s *Store) UpdatePipelineStage(ctx context.Context, id int64, patch store.PipelineStagePatch) (store.PipelineStage, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stage, ok := s.stages.Get(id)
	if !ok {
		return store.PipelineStage{}, false, nil
	}

	assign(&stage.StageName, patch.StageName)
	assign(&stage.Status, patch.Status)
	set(&stage.StartTime, patch.StartTime)
	set(&stage.EndTime, patch.EndTime)
	set(&stage.Duration, patch.Duration)
	set(&stage.Logs, patch.Logs)
	set(&stage.ArtifactsURL, patch.ArtifactsURL)

	if stage.Status == store.StageStatusRunning && stage.StartTime == nil {
		stage.StartTime = ptr(s.timestamp())
	}
	if stage.Status.Terminal() {
		if stage.EndTime == nil {
			stage.EndTime = ptr(s.timestamp())
		}
		if stage.Duration == nil && stage.StartTime != nil {
			stage.Duration = ptr(elapsedSeconds(*stage.StartTime, *stage.EndTime))
		}
	}

	s.stages.Put(id, stage)
	s.publish(store.EntityPipelineStage, store.ChangeUpdated, id, &stage.PipelineRunID, stage)
	return stage, true, nil
}
