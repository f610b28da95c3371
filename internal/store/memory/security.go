package memory

import (
	"context"

	"devsecboard/internal/store"
)

func (s *Store) ListSecurityIssues(ctx context.Context, filter store.SecurityIssueFilter) ([]store.SecurityIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issues.Filter(filter.Match), nil
}

func (s *Store) ListSecurityIssuesByPipeline(ctx context.Context, pipelineRunID int64) ([]store.SecurityIssue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issues.Filter(func(i store.SecurityIssue) bool {
		return i.PipelineRunID != nil && *i.PipelineRunID == pipelineRunID
	}), nil
}

func (s *Store) GetSecurityIssue(ctx context.Context, id int64) (store.SecurityIssue, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	issue, ok := s.issues.Get(id)
	return issue, ok, nil
}

func (s *Store) CreateSecurityIssue(ctx context.Context, issue store.SecurityIssue) (store.SecurityIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if issue.PipelineRunID != nil && !s.pipelineExists(*issue.PipelineRunID) {
		return store.SecurityIssue{}, store.ErrPipelineNotFound
	}
	issue.ID = s.allocateID()
	issue.Status = store.IssueStatusOpen
	issue.CreatedAt = s.timestamp()
	issue.ResolvedAt = nil

	s.issues.Put(issue.ID, issue)
	s.publish(store.EntitySecurityIssue, store.ChangeCreated, issue.ID, issue.PipelineRunID, issue)
	return issue, nil
}

// UpdateSecurityIssue merges patch into the issue and stamps the resolution time
// the first time the issue is marked resolved.
func (s *Store) UpdateSecurityIssue(ctx context.Context, id int64, patch store.SecurityIssuePatch) (store.SecurityIssue, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues.Get(id)
	if !ok {
		return store.SecurityIssue{}, false, nil
	}

	assign(&issue.Title, patch.Title)
	assign(&issue.Severity, patch.Severity)
	assign(&issue.Category, patch.Category)
	assign(&issue.Tool, patch.Tool)
	assign(&issue.File, patch.File)
	set(&issue.Line, patch.Line)
	set(&issue.Column, patch.Column)
	set(&issue.Description, patch.Description)
	set(&issue.Recommendation, patch.Recommendation)
	set(&issue.CWEID, patch.CWEID)
	set(&issue.CVSSScore, patch.CVSSScore)
	assign(&issue.Status, patch.Status)
	set(&issue.AssignedTo, patch.AssignedTo)
	set(&issue.ResolvedAt, patch.ResolvedAt)

	if issue.Status == store.IssueStatusResolved && issue.ResolvedAt == nil {
		issue.ResolvedAt = ptr(s.timestamp())
	}

	s.issues.Put(id, issue)
	s.publish(store.EntitySecurityIssue, store.ChangeUpdated, id, issue.PipelineRunID, issue)
	return issue, true, nil
}
