package api

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single invalid field of a request body.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is every problem found in one request body.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

type validator struct {
	errs ValidationErrors
}

func (v *validator) add(field, message string) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: message})
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
	}
}

func (v *validator) requiredInt(field string, value *int) {
	if value == nil {
		v.add(field, "is required")
		return
	}
	v.nonNegative(field, value)
}

func (v *validator) notBlank(field string, value *string) {
	if value != nil {
		v.required(field, *value)
	}
}

func (v *validator) oneOf(field, value string, allowed []string) {
	if !slices.Contains(allowed, value) {
		v.add(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
	}
}

// requiredOneOf reports a missing value once instead of also reporting it as out of set.
func (v *validator) requiredOneOf(field, value string, allowed []string) {
	if value == "" {
		v.add(field, "is required")
		return
	}
	v.oneOf(field, value, allowed)
}

func (v *validator) optionalOneOf(field string, value *string, allowed []string) {
	if value != nil {
		v.oneOf(field, *value, allowed)
	}
}

func (v *validator) nonNegative(field string, value *int) {
	if value != nil && *value < 0 {
		v.add(field, "must not be negative")
	}
}

func (v *validator) positiveID(field string, value *int64) {
	if value != nil && *value <= 0 {
		v.add(field, "must be a positive id")
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

func (r StartPipelineRequest) Validate() error {
	var v validator
	v.notBlank("name", r.Name)
	v.notBlank("branch", r.Branch)
	v.notBlank("triggeredBy", r.TriggeredBy)
	v.notBlank("environment", r.Environment)
	return v.err()
}

func (r UpdatePipelineRequest) Validate() error {
	var v validator
	v.notBlank("name", r.Name)
	v.notBlank("branch", r.Branch)
	v.optionalOneOf("status", r.Status, PipelineStatuses)
	v.optionalOneOf("currentStage", r.CurrentStage, StageNames)
	v.nonNegative("duration", r.Duration)
	v.notBlank("triggeredBy", r.TriggeredBy)
	return v.err()
}

func (r CreateStageRequest) Validate() error {
	var v validator
	v.required("stageName", r.StageName)
	v.requiredOneOf("status", r.Status, StageStatuses)
	v.nonNegative("duration", r.Duration)
	return v.err()
}

func (r UpdateStageRequest) Validate() error {
	var v validator
	v.notBlank("stageName", r.StageName)
	v.optionalOneOf("status", r.Status, StageStatuses)
	v.nonNegative("duration", r.Duration)
	return v.err()
}

func (r CreateSecurityIssueRequest) Validate() error {
	var v validator
	v.positiveID("pipelineRunId", r.PipelineRunID)
	v.required("title", r.Title)
	v.requiredOneOf("severity", r.Severity, Severities)
	v.required("category", r.Category)
	v.required("tool", r.Tool)
	v.required("file", r.File)
	v.nonNegative("line", r.Line)
	v.nonNegative("column", r.Column)
	return v.err()
}

func (r UpdateSecurityIssueRequest) Validate() error {
	var v validator
	v.notBlank("title", r.Title)
	v.optionalOneOf("severity", r.Severity, Severities)
	v.notBlank("category", r.Category)
	v.notBlank("tool", r.Tool)
	v.notBlank("file", r.File)
	v.nonNegative("line", r.Line)
	v.nonNegative("column", r.Column)
	v.optionalOneOf("status", r.Status, IssueStatuses)
	return v.err()
}

func (r UpsertCodeMetricsRequest) Validate() error {
	var v validator
	v.positiveID("pipelineRunId", r.PipelineRunID)
	if r.Coverage == nil {
		v.add("coverage", "is required")
	} else {
		v.required("coverage", *r.Coverage)
	}
	v.nonNegative("linesOfCode", r.LinesOfCode)
	v.nonNegative("duplicatedLines", r.DuplicatedLines)
	v.nonNegative("codeSmells", r.CodeSmells)
	v.nonNegative("bugs", r.Bugs)
	v.nonNegative("vulnerabilities", r.Vulnerabilities)
	v.nonNegative("securityHotspots", r.SecurityHotspots)
	return v.err()
}

func (r CreateTestResultsRequest) Validate() error {
	var v validator
	v.required("testSuite", r.TestSuite)
	v.requiredInt("totalTests", r.TotalTests)
	v.requiredInt("passedTests", r.PassedTests)
	v.requiredInt("failedTests", r.FailedTests)
	v.requiredInt("skippedTests", r.SkippedTests)
	v.nonNegative("duration", r.Duration)
	if len(v.errs) == 0 && *r.PassedTests+*r.FailedTests+*r.SkippedTests > *r.TotalTests {
		v.add("totalTests", "must be at least passedTests + failedTests + skippedTests")
	}
	return v.err()
}

func (r CreateDeploymentRequest) Validate() error {
	var v validator
	if r.PipelineRunID == nil {
		v.add("pipelineRunId", "is required")
	}
	v.positiveID("pipelineRunId", r.PipelineRunID)
	v.required("environment", r.Environment)
	v.required("version", r.Version)
	v.requiredOneOf("status", r.Status, DeploymentStatuses)
	v.required("deployedBy", r.DeployedBy)
	return v.err()
}

func (r UpdateDeploymentRequest) Validate() error {
	var v validator
	v.notBlank("environment", r.Environment)
	v.notBlank("version", r.Version)
	v.optionalOneOf("status", r.Status, DeploymentStatuses)
	v.notBlank("deployedBy", r.DeployedBy)
	return v.err()
}

func (r CreateComplianceCheckRequest) Validate() error {
	var v validator
	v.required("framework", r.Framework)
	v.required("checkType", r.CheckType)
	v.required("checkName", r.CheckName)
	v.requiredOneOf("status", r.Status, ComplianceStatuses)
	return v.err()
}

func (r UpsertDashboardMetricsRequest) Validate() error {
	var v validator
	if r.Period == nil {
		v.add("period", "is required")
	} else {
		v.required("period", *r.Period)
	}
	for field, n := range map[string]*int{
		"totalPipelines":        r.TotalPipelines,
		"successfulPipelines":   r.SuccessfulPipelines,
		"failedPipelines":       r.FailedPipelines,
		"averageDuration":       r.AverageDuration,
		"totalSecurityIssues":   r.TotalSecurityIssues,
		"criticalIssues":        r.CriticalIssues,
		"highIssues":            r.HighIssues,
		"mediumIssues":          r.MediumIssues,
		"lowIssues":             r.LowIssues,
		"resolvedIssues":        r.ResolvedIssues,
		"totalDeployments":      r.TotalDeployments,
		"successfulDeployments": r.SuccessfulDeployments,
		"failedDeployments":     r.FailedDeployments,
		"averageDeploymentTime": r.AverageDeploymentTime,
	} {
		v.nonNegative(field, n)
	}
	slices.SortFunc(v.errs, func(a, b ValidationError) int { return strings.Compare(a.Field, b.Field) })
	return v.err()
}
