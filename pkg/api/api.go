// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the dashboard server.
package api

import "time"

// Accepted enum values.
var (
	PipelineStatuses   = []string{"pending", "running", "success", "failed", "cancelled"}
	StageNames         = []string{"source", "build", "sast", "test", "dast", "deploy"}
	StageStatuses      = []string{"pending", "running", "success", "failed", "skipped"}
	Severities         = []string{"critical", "high", "medium", "low", "info"}
	IssueStatuses      = []string{"open", "acknowledged", "resolved", "false_positive"}
	DeploymentStatuses = []string{"pending", "deploying", "success", "failed", "rolled_back"}
	ComplianceStatuses = []string{"passed", "failed", "warning", "not_applicable"}
)

// StartPipelineRequest is the optional body of POST /api/pipelines/start.
// Every field overrides the corresponding default of a started pipeline.
type StartPipelineRequest struct {
	Name        *string `json:"name,omitempty"`
	Branch      *string `json:"branch,omitempty"`
	TriggeredBy *string `json:"triggeredBy,omitempty"`
	CommitHash  *string `json:"commitHash,omitempty"`
	Environment *string `json:"environment,omitempty"`
}

// UpdatePipelineRequest is the body of PATCH /api/pipelines/{id}.
type UpdatePipelineRequest struct {
	Name         *string    `json:"name,omitempty"`
	Branch       *string    `json:"branch,omitempty"`
	Status       *string    `json:"status,omitempty"`
	CurrentStage *string    `json:"currentStage,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	TriggeredBy  *string    `json:"triggeredBy,omitempty"`
	CommitHash   *string    `json:"commitHash,omitempty"`
	Environment  *string    `json:"environment,omitempty"`
}

// CreateStageRequest is the body of POST /api/pipelines/{pipelineId}/stages.
type CreateStageRequest struct {
	StageName    string     `json:"stageName"`
	Status       string     `json:"status"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	Logs         *string    `json:"logs,omitempty"`
	ArtifactsURL *string    `json:"artifactsUrl,omitempty"`
}

// UpdateStageRequest is the body of PATCH /api/stages/{id}.
type UpdateStageRequest struct {
	StageName    *string    `json:"stageName,omitempty"`
	Status       *string    `json:"status,omitempty"`
	StartTime    *time.Time `json:"startTime,omitempty"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	Logs         *string    `json:"logs,omitempty"`
	ArtifactsURL *string    `json:"artifactsUrl,omitempty"`
}

// CreateSecurityIssueRequest is the body of POST /api/security/issues.
// New issues are always open; a status in the body is ignored.
type CreateSecurityIssueRequest struct {
	PipelineRunID  *int64  `json:"pipelineRunId,omitempty"`
	Title          string  `json:"title"`
	Severity       string  `json:"severity"`
	Category       string  `json:"category"`
	Tool           string  `json:"tool"`
	File           string  `json:"file"`
	Line           *int    `json:"line,omitempty"`
	Column         *int    `json:"column,omitempty"`
	Description    *string `json:"description,omitempty"`
	Recommendation *string `json:"recommendation,omitempty"`
	CWEID          *string `json:"cweId,omitempty"`
	CVSSScore      *string `json:"cvssScore,omitempty"`
	AssignedTo     *string `json:"assignedTo,omitempty"`
}

// UpdateSecurityIssueRequest is the body of PATCH /api/security/issues/{id}.
type UpdateSecurityIssueRequest struct {
	Title          *string    `json:"title,omitempty"`
	Severity       *string    `json:"severity,omitempty"`
	Category       *string    `json:"category,omitempty"`
	Tool           *string    `json:"tool,omitempty"`
	File           *string    `json:"file,omitempty"`
	Line           *int       `json:"line,omitempty"`
	Column         *int       `json:"column,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Recommendation *string    `json:"recommendation,omitempty"`
	CWEID          *string    `json:"cweId,omitempty"`
	CVSSScore      *string    `json:"cvssScore,omitempty"`
	Status         *string    `json:"status,omitempty"`
	AssignedTo     *string    `json:"assignedTo,omitempty"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
}

// UpsertCodeMetricsRequest is the body of POST /api/code/metrics.
type UpsertCodeMetricsRequest struct {
	PipelineRunID        *int64  `json:"pipelineRunId,omitempty"`
	Coverage             *string `json:"coverage,omitempty"`
	LinesOfCode          *int    `json:"linesOfCode,omitempty"`
	CyclomaticComplexity *string `json:"cyclomaticComplexity,omitempty"`
	MaintainabilityIndex *string `json:"maintainabilityIndex,omitempty"`
	TechnicalDebt        *string `json:"technicalDebt,omitempty"`
	DuplicatedLines      *int    `json:"duplicatedLines,omitempty"`
	CodeSmells           *int    `json:"codeSmells,omitempty"`
	Bugs                 *int    `json:"bugs,omitempty"`
	Vulnerabilities      *int    `json:"vulnerabilities,omitempty"`
	SecurityHotspots     *int    `json:"securityHotspots,omitempty"`
}

// CreateTestResultsRequest is the body of POST /api/pipelines/{pipelineId}/tests.
type CreateTestResultsRequest struct {
	TestSuite    string  `json:"testSuite"`
	TotalTests   *int    `json:"totalTests"`
	PassedTests  *int    `json:"passedTests"`
	FailedTests  *int    `json:"failedTests"`
	SkippedTests *int    `json:"skippedTests"`
	Duration     *int    `json:"duration,omitempty"`
	Coverage     *string `json:"coverage,omitempty"`
	ReportURL    *string `json:"reportUrl,omitempty"`
}

// CreateDeploymentRequest is the body of POST /api/deployments.
type CreateDeploymentRequest struct {
	PipelineRunID  *int64  `json:"pipelineRunId"`
	Environment    string  `json:"environment"`
	Version        string  `json:"version"`
	Status         string  `json:"status"`
	DeployedBy     string  `json:"deployedBy"`
	DeploymentURL  *string `json:"deploymentUrl,omitempty"`
	HealthCheckURL *string `json:"healthCheckUrl,omitempty"`
}

// UpdateDeploymentRequest is the body of PATCH /api/deployments/{id}.
type UpdateDeploymentRequest struct {
	Environment    *string    `json:"environment,omitempty"`
	Version        *string    `json:"version,omitempty"`
	Status         *string    `json:"status,omitempty"`
	DeployedBy     *string    `json:"deployedBy,omitempty"`
	DeploymentURL  *string    `json:"deploymentUrl,omitempty"`
	HealthCheckURL *string    `json:"healthCheckUrl,omitempty"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	RollbackTime   *time.Time `json:"rollbackTime,omitempty"`
}

// CreateComplianceCheckRequest is the body of POST /api/pipelines/{pipelineId}/compliance.
type CreateComplianceCheckRequest struct {
	Framework   string  `json:"framework"`
	CheckType   string  `json:"checkType"`
	CheckName   string  `json:"checkName"`
	Status      string  `json:"status"`
	Severity    *string `json:"severity,omitempty"`
	Description *string `json:"description,omitempty"`
	Evidence    *string `json:"evidence,omitempty"`
	Remediation *string `json:"remediation,omitempty"`
}

// UpsertDashboardMetricsRequest is the body of POST /api/dashboard/metrics.
type UpsertDashboardMetricsRequest struct {
	Period *string    `json:"period"`
	Date   *time.Time `json:"date,omitempty"`

	TotalPipelines      *int `json:"totalPipelines,omitempty"`
	SuccessfulPipelines *int `json:"successfulPipelines,omitempty"`
	FailedPipelines     *int `json:"failedPipelines,omitempty"`
	AverageDuration     *int `json:"averageDuration,omitempty"`

	TotalSecurityIssues *int `json:"totalSecurityIssues,omitempty"`
	CriticalIssues      *int `json:"criticalIssues,omitempty"`
	HighIssues          *int `json:"highIssues,omitempty"`
	MediumIssues        *int `json:"mediumIssues,omitempty"`
	LowIssues           *int `json:"lowIssues,omitempty"`
	ResolvedIssues      *int `json:"resolvedIssues,omitempty"`

	AverageCoverage    *string `json:"averageCoverage,omitempty"`
	AverageComplexity  *string `json:"averageComplexity,omitempty"`
	TotalTechnicalDebt *string `json:"totalTechnicalDebt,omitempty"`

	TotalDeployments      *int `json:"totalDeployments,omitempty"`
	SuccessfulDeployments *int `json:"successfulDeployments,omitempty"`
	FailedDeployments     *int `json:"failedDeployments,omitempty"`
	AverageDeploymentTime *int `json:"averageDeploymentTime,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ChangeEvent is a message pushed on the /api/events WebSocket.
type ChangeEvent struct {
	Type          string    `json:"type"`
	Entity        string    `json:"entity"`
	Action        string    `json:"action"`
	ID            int64     `json:"id"`
	PipelineRunID *int64    `json:"pipelineRunId,omitempty"`
	Data          any       `json:"data,omitempty"`
	Time          time.Time `json:"time"`
}

// ChangeEventType is the Type of every ChangeEvent.
const ChangeEventType = "change"
