// Package memory implements the devsecboard store in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"devsecboard/internal/store"
)

// seededIDFloor is the first id handed out after seeding, so seeded ids stay recognizable.
const seededIDFloor = 100

// Store owns every entity held by the service.
// One lock guards all repositories and the id counter, so assigning an id and
// inserting the record is a single atomic step and ids are unique across entity types.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	now      func() time.Time
	notifier store.ChangeNotifier
	seed     *Seed

	runs        *Repository[store.PipelineRun]
	stages      *Repository[store.PipelineStage]
	issues      *Repository[store.SecurityIssue]
	codeMetrics *Repository[store.CodeMetrics]
	tests       *Repository[store.TestResults]
	deployments *Repository[store.Deployment]
	compliance  *Repository[store.ComplianceCheck]
	dashboard   *Repository[store.DashboardMetrics]
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier registers the receiver of change notifications.
func WithNotifier(n store.ChangeNotifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithSeed loads the given sample data when the store is created.
func WithSeed(seed *Seed) Option {
	return func(s *Store) { s.seed = seed }
}

// New creates a store. Without a seed the id counter starts at 1.
func New(opts ...Option) *Store {
	s := &Store{
		nextID:      1,
		now:         time.Now,
		runs:        NewRepository[store.PipelineRun](),
		stages:      NewRepository[store.PipelineStage](),
		issues:      NewRepository[store.SecurityIssue](),
		codeMetrics: NewRepository[store.CodeMetrics](),
		tests:       NewRepository[store.TestResults](),
		deployments: NewRepository[store.Deployment](),
		compliance:  NewRepository[store.ComplianceCheck](),
		dashboard:   NewRepository[store.DashboardMetrics](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed != nil {
		s.apply(s.seed)
	}
	return s
}

// Ping reports whether the store can serve requests.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Stats counts records for the metric gauges.
func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := store.Stats{PipelineRuns: s.runs.Len()}
	for _, run := range s.runs.List() {
		if run.Status == store.PipelineStatusRunning {
			stats.RunningPipelines++
		}
	}
	for _, issue := range s.issues.List() {
		if issue.Status != store.IssueStatusOpen {
			continue
		}
		stats.OpenIssues++
		if issue.Severity == store.SeverityCritical {
			stats.CriticalOpen++
		}
	}
	for _, d := range s.deployments.List() {
		if d.Status == store.DeploymentStatusPending || d.Status == store.DeploymentStatusDeploying {
			stats.PendingDeployment++
		}
	}
	return stats, nil
}

// allocateID must be called with the write lock held.
func (s *Store) allocateID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// pipelineExists must be called with the lock held.
func (s *Store) pipelineExists(id int64) bool {
	_, ok := s.runs.Get(id)
	return ok
}

// publish must be called with the write lock held so notifications follow write order.
func (s *Store) publish(entity string, action store.ChangeAction, id int64, pipelineRunID *int64, record any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(store.Change{
		Entity:        entity,
		Action:        action,
		ID:            id,
		PipelineRunID: pipelineRunID,
		Record:        record,
		Time:          s.timestamp(),
	})
}

func ptr[T any](v T) *T {
	return &v
}

// set replaces *dst with a fresh copy of *src when src is present.
func set[T any](dst **T, src *T) {
	if src != nil {
		*dst = ptr(*src)
	}
}

// assign copies *src into *dst when src is present.
func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// elapsedSeconds returns the whole seconds between start and end.
func elapsedSeconds(start, end time.Time) int {
	return int(end.Sub(start) / time.Second)
}
