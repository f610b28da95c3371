package memory

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"devsecboard/internal/store"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the sample data loaded into a fresh store.
// Record ids are taken as written; times are given as offsets back from load time.
type Seed struct {
	Dashboard        *store.DashboardMetrics             `yaml:"dashboard"`
	PipelineRuns     []seedPipelineRun                   `yaml:"pipelineRuns"`
	PipelineStages   []seedPipelineStage                 `yaml:"pipelineStages"`
	SecurityIssues   []seedSecurityIssue                 `yaml:"securityIssues"`
	CodeMetrics      []store.CodeMetrics                 `yaml:"codeMetrics"`
	TestResults      []seedCreated[store.TestResults]     `yaml:"testResults"`
	Deployments      []seedDeployment                    `yaml:"deployments"`
	ComplianceChecks []seedCreated[store.ComplianceCheck] `yaml:"complianceChecks"`
}

type seedPipelineRun struct {
	store.PipelineRun `yaml:",inline"`
	StartedAgo        *time.Duration `yaml:"startedAgo"`
}

type seedPipelineStage struct {
	store.PipelineStage `yaml:",inline"`
	StartedAgo          *time.Duration `yaml:"startedAgo"`
}

type seedSecurityIssue struct {
	store.SecurityIssue `yaml:",inline"`
	CreatedAgo          *time.Duration `yaml:"createdAgo"`
}

type seedDeployment struct {
	store.Deployment `yaml:",inline"`
	StartedAgo       *time.Duration `yaml:"startedAgo"`
}

type seedCreated[T any] struct {
	Record     T              `yaml:",inline"`
	CreatedAgo *time.Duration `yaml:"createdAgo"`
}

// ValidationError describes one problem found in seed data.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadSeed reads seed data from path, or the built-in sample set when path is empty.
func LoadSeed(path string) (*Seed, error) {
	data := defaultSeed
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing seed YAML: %w", err)
	}

	if errs := seed.Validate(); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, fmt.Errorf("invalid seed data: %w", errors.Join(joined...))
	}
	return &seed, nil
}

// Validate checks ids and pipeline references. It returns every problem found.
func (seed *Seed) Validate() []ValidationError {
	var errs []ValidationError

	runs := make(map[int64]bool)
	for i, r := range seed.PipelineRuns {
		field := fmt.Sprintf("pipelineRuns[%d]", i)
		errs = append(errs, checkID(field, r.ID, runs)...)
		if r.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "is required"})
		}
	}

	ref := func(field string, id int64) {
		if !runs[id] {
			errs = append(errs, ValidationError{
				Field:   field + ".pipelineRunId",
				Message: fmt.Sprintf("unknown pipeline run %d", id),
			})
		}
	}

	seen := make(map[int64]bool)
	for i, st := range seed.PipelineStages {
		field := fmt.Sprintf("pipelineStages[%d]", i)
		errs = append(errs, checkID(field, st.ID, seen)...)
		ref(field, st.PipelineRunID)
	}

	seen = make(map[int64]bool)
	for i, issue := range seed.SecurityIssues {
		field := fmt.Sprintf("securityIssues[%d]", i)
		errs = append(errs, checkID(field, issue.ID, seen)...)
		if issue.PipelineRunID != nil {
			ref(field, *issue.PipelineRunID)
		}
	}

	seen = make(map[int64]bool)
	for i, m := range seed.CodeMetrics {
		field := fmt.Sprintf("codeMetrics[%d]", i)
		errs = append(errs, checkID(field, m.ID, seen)...)
		if m.PipelineRunID != nil {
			ref(field, *m.PipelineRunID)
		}
	}

	seen = make(map[int64]bool)
	for i, t := range seed.TestResults {
		field := fmt.Sprintf("testResults[%d]", i)
		errs = append(errs, checkID(field, t.Record.ID, seen)...)
		ref(field, t.Record.PipelineRunID)
	}

	seen = make(map[int64]bool)
	for i, d := range seed.Deployments {
		field := fmt.Sprintf("deployments[%d]", i)
		errs = append(errs, checkID(field, d.ID, seen)...)
		ref(field, d.PipelineRunID)
	}

	seen = make(map[int64]bool)
	for i, c := range seed.ComplianceChecks {
		field := fmt.Sprintf("complianceChecks[%d]", i)
		errs = append(errs, checkID(field, c.Record.ID, seen)...)
		ref(field, c.Record.PipelineRunID)
	}

	if seed.Dashboard != nil && seed.Dashboard.ID <= 0 {
		errs = append(errs, ValidationError{Field: "dashboard.id", Message: "must be positive"})
	}
	return errs
}

func checkID(field string, id int64, seen map[int64]bool) []ValidationError {
	if id <= 0 {
		return []ValidationError{{Field: field + ".id", Message: "must be positive"}}
	}
	if seen[id] {
		return []ValidationError{{Field: field + ".id", Message: fmt.Sprintf("duplicate id %d", id)}}
	}
	seen[id] = true
	return nil
}

// apply loads the seed into an empty store and moves the id counter past every seeded id.
func (s *Store) apply(seed *Seed) {
	now := s.timestamp()
	at := func(ago *time.Duration) *time.Time {
		if ago == nil {
			return nil
		}
		t := now.Add(-*ago)
		return &t
	}
	createdAt := func(ago *time.Duration) time.Time {
		if t := at(ago); t != nil {
			return *t
		}
		return now
	}

	var maxID int64
	track := func(id int64) {
		maxID = max(maxID, id)
	}

	if seed.Dashboard != nil {
		m := *seed.Dashboard
		if m.Date == nil {
			m.Date = &now
		}
		m.LastUpdated = now
		s.dashboard.Put(m.ID, m)
		track(m.ID)
	}

	for _, r := range seed.PipelineRuns {
		run := r.PipelineRun
		if r.StartedAgo != nil {
			run.StartTime = at(r.StartedAgo)
		}
		if run.Branch == "" {
			run.Branch = defaultBranch
		}
		s.runs.Put(run.ID, run)
		track(run.ID)
	}

	for _, st := range seed.PipelineStages {
		stage := st.PipelineStage
		if st.StartedAgo != nil {
			stage.StartTime = at(st.StartedAgo)
		}
		if stage.Status.Terminal() && stage.StartTime != nil && stage.Duration != nil {
			end := stage.StartTime.Add(time.Duration(*stage.Duration) * time.Second)
			stage.EndTime = &end
		}
		s.stages.Put(stage.ID, stage)
		track(stage.ID)
	}

	for _, si := range seed.SecurityIssues {
		issue := si.SecurityIssue
		issue.CreatedAt = createdAt(si.CreatedAgo)
		if issue.Status == "" {
			issue.Status = store.IssueStatusOpen
		}
		s.issues.Put(issue.ID, issue)
		track(issue.ID)
	}

	for _, m := range seed.CodeMetrics {
		m.LastUpdated = now
		s.codeMetrics.Put(m.ID, m)
		track(m.ID)
	}

	for _, t := range seed.TestResults {
		results := t.Record
		results.CreatedAt = createdAt(t.CreatedAgo)
		s.tests.Put(results.ID, results)
		track(results.ID)
	}

	for _, sd := range seed.Deployments {
		d := sd.Deployment
		if d.StartTime == nil || sd.StartedAgo != nil {
			d.StartTime = ptr(createdAt(sd.StartedAgo))
		}
		s.deployments.Put(d.ID, d)
		track(d.ID)
	}

	for _, c := range seed.ComplianceChecks {
		check := c.Record
		check.CreatedAt = createdAt(c.CreatedAgo)
		s.compliance.Put(check.ID, check)
		track(check.ID)
	}

	s.nextID = max(seededIDFloor, maxID+1)
}
