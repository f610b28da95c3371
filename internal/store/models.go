// Package store contains the domain model and storage contracts for devsecboard.
package store

import "time"

// PipelineStatus represents the state of a pipeline run.
type PipelineStatus string

const (
	PipelineStatusPending   PipelineStatus = "pending"
	PipelineStatusRunning   PipelineStatus = "running"
	PipelineStatusSuccess   PipelineStatus = "success"
	PipelineStatusFailed    PipelineStatus = "failed"
	PipelineStatusCancelled PipelineStatus = "cancelled"
)

// Terminal reports whether the run has finished.
func (s PipelineStatus) Terminal() bool {
	return s == PipelineStatusSuccess || s == PipelineStatusFailed || s == PipelineStatusCancelled
}

// StageStatus represents the state of a single pipeline stage.
type StageStatus string

const (
	StageStatusPending StageStatus = "pending"
	StageStatusRunning StageStatus = "running"
	StageStatusSuccess StageStatus = "success"
	StageStatusFailed  StageStatus = "failed"
	StageStatusSkipped StageStatus = "skipped"
)

func (s StageStatus) Terminal() bool {
	return s == StageStatusSuccess || s == StageStatusFailed || s == StageStatusSkipped
}

// Severity of a security finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// IssueStatus is the triage state of a security finding.
type IssueStatus string

const (
	IssueStatusOpen          IssueStatus = "open"
	IssueStatusAcknowledged  IssueStatus = "acknowledged"
	IssueStatusResolved      IssueStatus = "resolved"
	IssueStatusFalsePositive IssueStatus = "false_positive"
)

// DeploymentStatus represents the state of a deployment.
type DeploymentStatus string

const (
	DeploymentStatusPending    DeploymentStatus = "pending"
	DeploymentStatusDeploying  DeploymentStatus = "deploying"
	DeploymentStatusSuccess    DeploymentStatus = "success"
	DeploymentStatusFailed     DeploymentStatus = "failed"
	DeploymentStatusRolledBack DeploymentStatus = "rolled_back"
)

// ComplianceStatus is the outcome of a compliance check.
type ComplianceStatus string

const (
	ComplianceStatusPassed        ComplianceStatus = "passed"
	ComplianceStatusFailed        ComplianceStatus = "failed"
	ComplianceStatusWarning       ComplianceStatus = "warning"
	ComplianceStatusNotApplicable ComplianceStatus = "not_applicable"
)

// PipelineRun is one execution of the CI/CD pipeline.
// It is the parent of stages, findings, metrics, test results, deployments and compliance checks.
type PipelineRun struct {
	ID           int64          `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	Branch       string         `json:"branch" yaml:"branch"`
	Status       PipelineStatus `json:"status" yaml:"status"`
	CurrentStage *string        `json:"currentStage" yaml:"currentStage"` // source, build, sast, test, dast, deploy
	StartTime    *time.Time     `json:"startTime" yaml:"startTime"`
	EndTime      *time.Time     `json:"endTime" yaml:"endTime"`
	Duration     *int           `json:"duration" yaml:"duration"` // seconds
	TriggeredBy  string         `json:"triggeredBy" yaml:"triggeredBy"`
	CommitHash   *string        `json:"commitHash" yaml:"commitHash"`
	Environment  *string        `json:"environment" yaml:"environment"`
}

// PipelineStage is a single step of a pipeline run.
type PipelineStage struct {
	ID            int64       `json:"id" yaml:"id"`
	PipelineRunID int64       `json:"pipelineRunId" yaml:"pipelineRunId"`
	StageName     string      `json:"stageName" yaml:"stageName"`
	Status        StageStatus `json:"status" yaml:"status"`
	StartTime     *time.Time  `json:"startTime" yaml:"startTime"`
	EndTime       *time.Time  `json:"endTime" yaml:"endTime"`
	Duration      *int        `json:"duration" yaml:"duration"` // seconds
	Logs          *string     `json:"logs" yaml:"logs"`
	ArtifactsURL  *string     `json:"artifactsUrl" yaml:"artifactsUrl"`
}

// SecurityIssue is a finding reported by a scanner.
type SecurityIssue struct {
	ID             int64       `json:"id" yaml:"id"`
	PipelineRunID  *int64      `json:"pipelineRunId" yaml:"pipelineRunId"`
	Title          string      `json:"title" yaml:"title"`
	Severity       Severity    `json:"severity" yaml:"severity"`
	Category       string      `json:"category" yaml:"category"` // vulnerability, secret, license, dependency
	Tool           string      `json:"tool" yaml:"tool"`
	File           string      `json:"file" yaml:"file"`
	Line           *int        `json:"line" yaml:"line"`
	Column         *int        `json:"column" yaml:"column"`
	Description    *string     `json:"description" yaml:"description"`
	Recommendation *string     `json:"recommendation" yaml:"recommendation"`
	CWEID          *string     `json:"cweId" yaml:"cweId"`
	CVSSScore      *string     `json:"cvssScore" yaml:"cvssScore"`
	Status         IssueStatus `json:"status" yaml:"status"`
	AssignedTo     *string     `json:"assignedTo" yaml:"assignedTo"`
	CreatedAt      time.Time   `json:"createdAt" yaml:"createdAt"`
	ResolvedAt     *time.Time  `json:"resolvedAt" yaml:"resolvedAt"`
}

// CodeMetrics holds the quality figures for one pipeline run.
// Decimal figures are kept as strings exactly as reported.
type CodeMetrics struct {
	ID                   int64     `json:"id" yaml:"id"`
	PipelineRunID        *int64    `json:"pipelineRunId" yaml:"pipelineRunId"`
	Coverage             string    `json:"coverage" yaml:"coverage"`
	LinesOfCode          *int      `json:"linesOfCode" yaml:"linesOfCode"`
	CyclomaticComplexity *string   `json:"cyclomaticComplexity" yaml:"cyclomaticComplexity"`
	MaintainabilityIndex *string   `json:"maintainabilityIndex" yaml:"maintainabilityIndex"`
	TechnicalDebt        *string   `json:"technicalDebt" yaml:"technicalDebt"` // hours, e.g. "14.5h"
	DuplicatedLines      *int      `json:"duplicatedLines" yaml:"duplicatedLines"`
	CodeSmells           *int      `json:"codeSmells" yaml:"codeSmells"`
	Bugs                 *int      `json:"bugs" yaml:"bugs"`
	Vulnerabilities      *int      `json:"vulnerabilities" yaml:"vulnerabilities"`
	SecurityHotspots     *int      `json:"securityHotspots" yaml:"securityHotspots"`
	LastUpdated          time.Time `json:"lastUpdated" yaml:"lastUpdated"`
}

// TestResults summarises one test suite of a pipeline run.
type TestResults struct {
	ID            int64     `json:"id" yaml:"id"`
	PipelineRunID int64     `json:"pipelineRunId" yaml:"pipelineRunId"`
	TestSuite     string    `json:"testSuite" yaml:"testSuite"` // unit, integration, e2e, performance, security
	TotalTests    int       `json:"totalTests" yaml:"totalTests"`
	PassedTests   int       `json:"passedTests" yaml:"passedTests"`
	FailedTests   int       `json:"failedTests" yaml:"failedTests"`
	SkippedTests  int       `json:"skippedTests" yaml:"skippedTests"`
	Duration      *int      `json:"duration" yaml:"duration"` // milliseconds
	Coverage      *string   `json:"coverage" yaml:"coverage"`
	ReportURL     *string   `json:"reportUrl" yaml:"reportUrl"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
}

// Deployment is a rollout of a pipeline run's artifact to an environment.
type Deployment struct {
	ID             int64            `json:"id" yaml:"id"`
	PipelineRunID  int64            `json:"pipelineRunId" yaml:"pipelineRunId"`
	Environment    string           `json:"environment" yaml:"environment"`
	Version        string           `json:"version" yaml:"version"`
	Status         DeploymentStatus `json:"status" yaml:"status"`
	DeployedBy     string           `json:"deployedBy" yaml:"deployedBy"`
	DeploymentURL  *string          `json:"deploymentUrl" yaml:"deploymentUrl"`
	HealthCheckURL *string          `json:"healthCheckUrl" yaml:"healthCheckUrl"`
	StartTime      *time.Time       `json:"startTime" yaml:"startTime"`
	EndTime        *time.Time       `json:"endTime" yaml:"endTime"`
	RollbackTime   *time.Time       `json:"rollbackTime" yaml:"rollbackTime"`
}

// ComplianceCheck is the result of one framework control evaluated for a run.
type ComplianceCheck struct {
	ID            int64            `json:"id" yaml:"id"`
	PipelineRunID int64            `json:"pipelineRunId" yaml:"pipelineRunId"`
	Framework     string           `json:"framework" yaml:"framework"` // SOC2, ISO27001, GDPR, PCI-DSS
	CheckType     string           `json:"checkType" yaml:"checkType"` // policy, control, requirement
	CheckName     string           `json:"checkName" yaml:"checkName"`
	Status        ComplianceStatus `json:"status" yaml:"status"`
	Severity      *string          `json:"severity" yaml:"severity"`
	Description   *string          `json:"description" yaml:"description"`
	Evidence      *string          `json:"evidence" yaml:"evidence"`
	Remediation   *string          `json:"remediation" yaml:"remediation"`
	CreatedAt     time.Time        `json:"createdAt" yaml:"createdAt"`
}

// DashboardMetrics is the process-wide aggregate shown on the overview page.
// At most one instance exists.
type DashboardMetrics struct {
	ID         int64      `json:"id" yaml:"id"`
	Period     string     `json:"period" yaml:"period"` // daily, weekly, monthly
	Date       *time.Time `json:"date" yaml:"date"`

	TotalPipelines      int `json:"totalPipelines" yaml:"totalPipelines"`
	SuccessfulPipelines int `json:"successfulPipelines" yaml:"successfulPipelines"`
	FailedPipelines     int `json:"failedPipelines" yaml:"failedPipelines"`
	AverageDuration     int `json:"averageDuration" yaml:"averageDuration"` // seconds

	TotalSecurityIssues int `json:"totalSecurityIssues" yaml:"totalSecurityIssues"`
	CriticalIssues      int `json:"criticalIssues" yaml:"criticalIssues"`
	HighIssues          int `json:"highIssues" yaml:"highIssues"`
	MediumIssues        int `json:"mediumIssues" yaml:"mediumIssues"`
	LowIssues           int `json:"lowIssues" yaml:"lowIssues"`
	ResolvedIssues      int `json:"resolvedIssues" yaml:"resolvedIssues"`

	AverageCoverage    string `json:"averageCoverage" yaml:"averageCoverage"`
	AverageComplexity  string `json:"averageComplexity" yaml:"averageComplexity"`
	TotalTechnicalDebt string `json:"totalTechnicalDebt" yaml:"totalTechnicalDebt"`

	TotalDeployments      int `json:"totalDeployments" yaml:"totalDeployments"`
	SuccessfulDeployments int `json:"successfulDeployments" yaml:"successfulDeployments"`
	FailedDeployments     int `json:"failedDeployments" yaml:"failedDeployments"`
	AverageDeploymentTime int `json:"averageDeploymentTime" yaml:"averageDeploymentTime"` // seconds

	LastUpdated time.Time `json:"lastUpdated" yaml:"lastUpdated"`
}

// PipelineRunPatch carries the fields of a partial pipeline update.
// A nil field leaves the stored value untouched.
type PipelineRunPatch struct {
	Name         *string
	Branch       *string
	Status       *PipelineStatus
	CurrentStage *string
	StartTime    *time.Time
	EndTime      *time.Time
	Duration     *int
	TriggeredBy  *string
	CommitHash   *string
	Environment  *string
}

type PipelineStagePatch struct {
	StageName    *string
	Status       *StageStatus
	StartTime    *time.Time
	EndTime      *time.Time
	Duration     *int
	Logs         *string
	ArtifactsURL *string
}

type SecurityIssuePatch struct {
	Title          *string
	Severity       *Severity
	Category       *string
	Tool           *string
	File           *string
	Line           *int
	Column         *int
	Description    *string
	Recommendation *string
	CWEID          *string
	CVSSScore      *string
	Status         *IssueStatus
	AssignedTo     *string
	ResolvedAt     *time.Time
}

type DeploymentPatch struct {
	Environment    *string
	Version        *string
	Status         *DeploymentStatus
	DeployedBy     *string
	DeploymentURL  *string
	HealthCheckURL *string
	EndTime        *time.Time
	RollbackTime   *time.Time
}

// CodeMetricsPatch is both the insert and the merge shape of a code metrics upsert.
// PipelineRunID selects the record; nil addresses the record not bound to any run.
type CodeMetricsPatch struct {
	PipelineRunID        *int64
	Coverage             *string
	LinesOfCode          *int
	CyclomaticComplexity *string
	MaintainabilityIndex *string
	TechnicalDebt        *string
	DuplicatedLines      *int
	CodeSmells           *int
	Bugs                 *int
	Vulnerabilities      *int
	SecurityHotspots     *int
}

// DashboardMetricsPatch is both the insert and the merge shape of the dashboard upsert.
type DashboardMetricsPatch struct {
	Period *string
	Date   *time.Time

	TotalPipelines      *int
	SuccessfulPipelines *int
	FailedPipelines     *int
	AverageDuration     *int

	TotalSecurityIssues *int
	CriticalIssues      *int
	HighIssues          *int
	MediumIssues        *int
	LowIssues           *int
	ResolvedIssues      *int

	AverageCoverage    *string
	AverageComplexity  *string
	TotalTechnicalDebt *string

	TotalDeployments      *int
	SuccessfulDeployments *int
	FailedDeployments     *int
	AverageDeploymentTime *int
}

// SecurityIssueFilter narrows ListSecurityIssues. Empty fields match everything.
type SecurityIssueFilter struct {
	Severity Severity
	Status   IssueStatus
	Category string
}

// Match reports whether the issue passes the filter.
func (f SecurityIssueFilter) Match(issue SecurityIssue) bool {
	if f.Severity != "" && issue.Severity != f.Severity {
		return false
	}
	if f.Status != "" && issue.Status != f.Status {
		return false
	}
	if f.Category != "" && issue.Category != f.Category {
		return false
	}
	return true
}

// Stats is a point-in-time count of stored records, used by metric gauges.
type Stats struct {
	PipelineRuns      int
	RunningPipelines  int
	OpenIssues        int
	CriticalOpen      int
	PendingDeployment int
}
