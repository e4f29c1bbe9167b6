package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
)

// fakeDataset serves a fixed list of projects and versions
type fakeDataset struct {
	projects []*entities.Project
	versions map[string][]*entities.Version

	// broken entries are reported next to the readable ones
	brokenProjects entities.LoadErrors
	brokenVersions map[string]entities.LoadErrors
}

func newFakeDataset(versions ...*entities.Version) *fakeDataset {
	d := &fakeDataset{versions: make(map[string][]*entities.Version)}
	for _, v := range versions {
		if _, ok := d.versions[v.Project.ID]; !ok {
			d.projects = append(d.projects, v.Project)
		}
		d.versions[v.Project.ID] = append(d.versions[v.Project.ID], v)
	}
	return d
}

func (d *fakeDataset) ListProjects(context.Context) ([]*entities.Project, error) {
	if len(d.brokenProjects) > 0 {
		return d.projects, d.brokenProjects
	}
	return d.projects, nil
}

func (d *fakeDataset) ListVersions(_ context.Context, p *entities.Project) ([]*entities.Version, error) {
	if broken := d.brokenVersions[p.ID]; len(broken) > 0 {
		return d.versions[p.ID], broken
	}
	return d.versions[p.ID], nil
}

func (d *fakeDataset) GetProject(_ context.Context, id string) (*entities.Project, error) {
	for _, p := range d.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, entities.ErrNotFound
}

// failingDataset cannot be listed at all
type failingDataset struct {
	fakeDataset
	err error
}

func (d *failingDataset) ListProjects(context.Context) ([]*entities.Project, error) {
	return nil, d.err
}

// fakeRuns keeps run records in memory
type fakeRuns struct {
	root  string
	runs  map[string]entities.Run
	saves int
}

func newFakeRuns(root string) *fakeRuns {
	return &fakeRuns{root: root, runs: make(map[string]entities.Run)}
}

func runKey(v *entities.Version, task string) string {
	return v.QualifiedID() + "/" + task
}

func (r *fakeRuns) GetRun(_ context.Context, v *entities.Version, task string) (*entities.Run, error) {
	if run, ok := r.runs[runKey(v, task)]; ok {
		return &run, nil
	}
	return entities.NewRun(v.QualifiedID(), task), nil
}

func (r *fakeRuns) SaveRun(_ context.Context, v *entities.Version, run *entities.Run) error {
	r.saves++
	r.runs[runKey(v, run.Task)] = *run
	return nil
}

func (r *fakeRuns) RunDir(v *entities.Version) string {
	return filepath.Join(r.root, v.Project.ID, v.ID)
}

func (r *fakeRuns) put(v *entities.Version, task string, result entities.Result) *entities.Run {
	run := entities.NewRun(v.QualifiedID(), task)
	run.Result = result
	r.runs[runKey(v, task)] = *run
	return run
}

func (r *fakeRuns) get(v *entities.Version, task string) entities.Run {
	return r.runs[runKey(v, task)]
}

// fakeFindings keeps findings files in memory
type fakeFindings struct {
	files   map[string][]entities.Finding
	runInfo map[string]map[string]string
	broken  map[string]bool
}

func newFakeFindings() *fakeFindings {
	return &fakeFindings{
		files:   make(map[string][]entities.Finding),
		runInfo: make(map[string]map[string]string),
		broken:  make(map[string]bool),
	}
}

func (f *fakeFindings) FindingsPath(runDir string) string { return filepath.Join(runDir, "findings.yml") }

func (f *fakeFindings) RunInfoPath(runDir string) string { return filepath.Join(runDir, "run-info.yml") }

func (f *fakeFindings) Reset(runDir string) error {
	delete(f.files, f.FindingsPath(runDir))
	delete(f.broken, f.FindingsPath(runDir))
	delete(f.runInfo, f.RunInfoPath(runDir))
	return nil
}

func (f *fakeFindings) WriteFindings(path string, findings []entities.Finding) error {
	if findings == nil {
		findings = []entities.Finding{}
	}
	f.files[path] = findings
	return nil
}

func (f *fakeFindings) ReadFindings(path string) ([]entities.Finding, error) {
	if f.broken[path] {
		return nil, fmt.Errorf("%w: bad yaml", entities.ErrMalformedFindings)
	}
	findings, ok := f.files[path]
	if !ok {
		return nil, errors.New("findings file missing")
	}
	return findings, nil
}

func (f *fakeFindings) ReadRunInfo(path string) (map[string]string, error) {
	return f.runInfo[path], nil
}

// fakeDetector records invocations and simulates a detector process
type fakeDetector struct {
	mu          sync.Mutex
	invocations []entities.DetectorInvocation
	behave      func(inv entities.DetectorInvocation) entities.DetectorOutcome
}

func (d *fakeDetector) Run(_ context.Context, inv entities.DetectorInvocation) entities.DetectorOutcome {
	d.mu.Lock()
	d.invocations = append(d.invocations, inv)
	d.mu.Unlock()
	if d.behave == nil {
		return entities.DetectorOutcome{Duration: time.Millisecond}
	}
	return d.behave(inv)
}

func (d *fakeDetector) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.invocations)
}

// fakeInstaller simulates detector installation
type fakeInstaller struct {
	installed  bool
	installErr error
	installs   int
}

func (i *fakeInstaller) IsInstalled(*entities.Detector) bool { return i.installed }

func (i *fakeInstaller) Install(context.Context, *entities.Detector) error {
	i.installs++
	if i.installErr != nil {
		return i.installErr
	}
	i.installed = true
	return nil
}

// recordingTask returns scripted responses and records what it saw
type recordingTask struct {
	name      string
	responses map[string]Response
	processed []string
	startErr  error
	endErr    error
	started   bool
	ended     bool
}

func (t *recordingTask) Name() string { return t.name }

func (t *recordingTask) Start(context.Context) error {
	t.started = true
	return t.startErr
}

func (t *recordingTask) Process(_ context.Context, _ *entities.Project, v *entities.Version) Response {
	t.processed = append(t.processed, v.QualifiedID())
	if resp, ok := t.responses[v.QualifiedID()]; ok {
		return resp
	}
	return OK()
}

func (t *recordingTask) End(context.Context) error {
	t.ended = true
	return t.endErr
}

// fakeHistory collects history entries
type fakeHistory struct {
	entries []repositories.HistoryEntry
}

func (h *fakeHistory) Append(_ context.Context, e repositories.HistoryEntry) error {
	h.entries = append(h.entries, e)
	return nil
}

func (h *fakeHistory) Recent(context.Context, string, int) ([]repositories.HistoryEntry, error) {
	return h.entries, nil
}

// newVersion builds a version with one misuse located at acl/ACLParser.java#parse
func newVersion(projectID, versionID string, patterns ...string) *entities.Version {
	project := &entities.Project{ID: projectID, Path: "/data/" + projectID}
	meta := &entities.MisuseMeta{
		Description:    "parser not closed",
		Location:       entities.Location{File: "acl/ACLParser.java", Method: "parse(String)"},
		ViolationTypes: []string{"missing/call"},
	}
	loader := func(string) (*entities.MisuseMeta, error) { return meta, nil }
	misuse := entities.NewMisuse("1", project, filepath.Join(project.Path, "misuses", "1"), patterns, loader)
	return &entities.Version{ID: versionID, Project: project, Misuses: []*entities.Misuse{misuse}}
}
