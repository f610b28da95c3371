package api

import (
	"errors"
	"strings"
	"testing"
)

func intp(i int) *int { return &i }
func strp(s string) *string { return &s }
func int64p(i int64) *int64 { return &i }

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       interface{ Validate() error }
		wantErr   bool
		wantField string
	}{
		{
			name: "Security issue valid",
			req: CreateSecurityIssueRequest{
				Title: "XSS", Severity: "high", Category: "vulnerability", Tool: "Semgrep", File: "app.js",
			},
		},
		{
			name:      "Security issue missing title",
			req:       CreateSecurityIssueRequest{Severity: "high", Category: "c", Tool: "t", File: "f"},
			wantErr:   true,
			wantField: "title",
		},
		{
			name:      "Security issue unknown severity",
			req:       CreateSecurityIssueRequest{Title: "x", Severity: "urgent", Category: "c", Tool: "t", File: "f"},
			wantErr:   true,
			wantField: "severity",
		},
		{
			name:      "Security issue bad pipeline id",
			req:       CreateSecurityIssueRequest{PipelineRunID: int64p(0), Title: "x", Severity: "low", Category: "c", Tool: "t", File: "f"},
			wantErr:   true,
			wantField: "pipelineRunId",
		},
		{
			name: "Update issue status only",
			req:  UpdateSecurityIssueRequest{Status: strp("resolved")},
		},
		{
			name:      "Update issue bad status",
			req:       UpdateSecurityIssueRequest{Status: strp("closed")},
			wantErr:   true,
			wantField: "status",
		},
		{
			name: "Empty update is valid",
			req:  UpdatePipelineRequest{},
		},
		{
			name:      "Pipeline bad stage",
			req:       UpdatePipelineRequest{CurrentStage: strp("lint")},
			wantErr:   true,
			wantField: "currentStage",
		},
		{
			name:      "Test results missing counts",
			req:       CreateTestResultsRequest{TestSuite: "unit", TotalTests: intp(3)},
			wantErr:   true,
			wantField: "passedTests",
		},
		{
			name: "Test results counts exceed total",
			req: CreateTestResultsRequest{
				TestSuite: "unit", TotalTests: intp(3), PassedTests: intp(3), FailedTests: intp(1), SkippedTests: intp(0),
			},
			wantErr:   true,
			wantField: "totalTests",
		},
		{
			name: "Test results valid",
			req: CreateTestResultsRequest{
				TestSuite: "unit", TotalTests: intp(4), PassedTests: intp(3), FailedTests: intp(1), SkippedTests: intp(0),
			},
		},
		{
			name:      "Deployment missing pipeline",
			req:       CreateDeploymentRequest{Environment: "staging", Version: "v1", Status: "pending", DeployedBy: "ci"},
			wantErr:   true,
			wantField: "pipelineRunId",
		},
		{
			name:      "Code metrics missing coverage",
			req:       UpsertCodeMetricsRequest{Bugs: intp(1)},
			wantErr:   true,
			wantField: "coverage",
		},
		{
			name:      "Dashboard missing period",
			req:       UpsertDashboardMetricsRequest{TotalPipelines: intp(1)},
			wantErr:   true,
			wantField: "period",
		},
		{
			name:      "Dashboard negative counter",
			req:       UpsertDashboardMetricsRequest{Period: strp("daily"), LowIssues: intp(-1)},
			wantErr:   true,
			wantField: "lowIssues",
		},
		{
			name:      "Compliance bad status",
			req:       CreateComplianceCheckRequest{Framework: "SOC2", CheckType: "control", CheckName: "n", Status: "ok"},
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "Stage missing status",
			req:       CreateStageRequest{StageName: "build"},
			wantErr:   true,
			wantField: "status",
		},
		{
			name:      "Start with blank name",
			req:       StartPipelineRequest{Name: strp("  ")},
			wantErr:   true,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			found := false
			for _, e := range verrs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got %v", tt.wantField, err)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{
		{Field: "title", Message: "is required"},
		{Field: "severity", Message: "is required"},
	}
	got := err.Error()
	if !strings.Contains(got, "title: is required") || !strings.Contains(got, "; severity: is required") {
		t.Errorf("unexpected message: %s", got)
	}
}
