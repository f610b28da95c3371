package store

import (
	"context"
	"errors"
	"time"
)

// ErrPipelineNotFound is returned when a record references a pipeline run that does not exist.
var ErrPipelineNotFound = errors.New("pipeline run not found")

// PipelineStore handles pipeline runs and their stages.
type PipelineStore interface {
	ListPipelineRuns(ctx context.Context) ([]PipelineRun, error)
	GetPipelineRun(ctx context.Context, id int64) (PipelineRun, bool, error)

	// GetCurrentPipelineRun returns the first run, in creation order, whose status is running.
	GetCurrentPipelineRun(ctx context.Context) (PipelineRun, bool, error)

	// CreatePipelineRun assigns the id and start time; the caller's values for those are ignored.
	CreatePipelineRun(ctx context.Context, run PipelineRun) (PipelineRun, error)
	UpdatePipelineRun(ctx context.Context, id int64, patch PipelineRunPatch) (PipelineRun, bool, error)

	ListPipelineStages(ctx context.Context, pipelineRunID int64) ([]PipelineStage, error)
	GetPipelineStage(ctx context.Context, id int64) (PipelineStage, bool, error)
	CreatePipelineStage(ctx context.Context, stage PipelineStage) (PipelineStage, error)
	UpdatePipelineStage(ctx context.Context, id int64, patch PipelineStagePatch) (PipelineStage, bool, error)
}

// SecurityStore handles scanner findings.
type SecurityStore interface {
	ListSecurityIssues(ctx context.Context, filter SecurityIssueFilter) ([]SecurityIssue, error)
	ListSecurityIssuesByPipeline(ctx context.Context, pipelineRunID int64) ([]SecurityIssue, error)
	GetSecurityIssue(ctx context.Context, id int64) (SecurityIssue, bool, error)

	// CreateSecurityIssue always stores the issue as open and unresolved.
	CreateSecurityIssue(ctx context.Context, issue SecurityIssue) (SecurityIssue, error)
	UpdateSecurityIssue(ctx context.Context, id int64, patch SecurityIssuePatch) (SecurityIssue, bool, error)
}

// QualityStore handles code metrics and test results.
type QualityStore interface {
	// GetLatestCodeMetrics returns the most recently inserted record.
	GetLatestCodeMetrics(ctx context.Context) (CodeMetrics, bool, error)
	GetCodeMetricsByPipeline(ctx context.Context, pipelineRunID int64) (CodeMetrics, bool, error)
	ListCodeMetrics(ctx context.Context) ([]CodeMetrics, error)

	// UpsertCodeMetrics merges into the record of the same pipeline run, or inserts one.
	UpsertCodeMetrics(ctx context.Context, patch CodeMetricsPatch) (CodeMetrics, error)

	ListTestResults(ctx context.Context, pipelineRunID int64) ([]TestResults, error)
	CreateTestResults(ctx context.Context, results TestResults) (TestResults, error)
}

// DeploymentStore handles deployments.
type DeploymentStore interface {
	ListDeployments(ctx context.Context) ([]Deployment, error)
	ListDeploymentsByPipeline(ctx context.Context, pipelineRunID int64) ([]Deployment, error)
	GetDeployment(ctx context.Context, id int64) (Deployment, bool, error)
	CreateDeployment(ctx context.Context, deployment Deployment) (Deployment, error)
	UpdateDeployment(ctx context.Context, id int64, patch DeploymentPatch) (Deployment, bool, error)
}

// ComplianceStore handles compliance checks.
type ComplianceStore interface {
	ListComplianceChecks(ctx context.Context, pipelineRunID int64) ([]ComplianceCheck, error)
	CreateComplianceCheck(ctx context.Context, check ComplianceCheck) (ComplianceCheck, error)
}

// DashboardStore handles the singleton dashboard aggregate.
type DashboardStore interface {
	GetDashboardMetrics(ctx context.Context) (DashboardMetrics, bool, error)
	UpsertDashboardMetrics(ctx context.Context, patch DashboardMetricsPatch) (DashboardMetrics, error)
}

// Entity names used in change notifications.
const (
	EntityPipelineRun      = "pipeline_run"
	EntityPipelineStage    = "pipeline_stage"
	EntitySecurityIssue    = "security_issue"
	EntityCodeMetrics      = "code_metrics"
	EntityTestResults      = "test_results"
	EntityDeployment       = "deployment"
	EntityComplianceCheck  = "compliance_check"
	EntityDashboardMetrics = "dashboard_metrics"
)

// ChangeAction describes what a write did.
type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
)

// Change describes a single successful write.
type Change struct {
	Entity        string
	Action        ChangeAction
	ID            int64
	PipelineRunID *int64
	Record        any
	Time          time.Time
}

// ChangeNotifier receives every successful write, in write order.
// Notify is called while the store lock is held and must not block or call back into the store.
type ChangeNotifier interface {
	Notify(change Change)
}
