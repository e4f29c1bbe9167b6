package orchestrators

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
	"github.com/ochairo/mubench/internal/domain/interfaces/repositories"
	"github.com/ochairo/mubench/internal/domain/services"
)

// MetadataPublisher uploads misuse metadata to a review site
type MetadataPublisher interface {
	PublishMetadata(ctx context.Context, siteURL string, records []entities.MisuseMetadataRecord) error
}

// FileReader reads a whole file
type FileReader func(path string) ([]byte, error)

// PublishTask collects misuse metadata with code snippets from the compiled
// versions and uploads it in End
type PublishTask struct {
	publisher    MetadataPublisher
	checkoutRuns repositories.RunRepository
	readFile     FileReader
	siteURL      string
	snippets     *services.SnippetService
	records      []entities.MisuseMetadataRecord
	logger       interfaces.Logger
}

// NewPublishTask creates a publish task. checkoutRuns is rooted at the
// checkouts root.
func NewPublishTask(
	publisher MetadataPublisher,
	checkoutRuns repositories.RunRepository,
	readFile FileReader,
	siteURL string,
	logger interfaces.Logger,
) *PublishTask {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &PublishTask{
		publisher:    publisher,
		checkoutRuns: checkoutRuns,
		readFile:     readFile,
		siteURL:      siteURL,
		snippets:     services.NewSnippetService(),
		logger:       logger,
	}
}

// Name returns the task name
func (t *PublishTask) Name() string {
	return entities.TaskPublish
}

// Start clears records of a previous batch
func (t *PublishTask) Start(context.Context) error {
	if t.siteURL == "" {
		return fmt.Errorf("%w: no review site configured", entities.ErrInvalidURL)
	}
	t.records = nil
	return nil
}

// Process collects the metadata of every misuse of the version
func (t *PublishTask) Process(_ context.Context, project *entities.Project, version *entities.Version) Response {
	srcDirs := []string{
		filepath.Join(t.checkoutRuns.RunDir(version), entities.BuildDir, entities.BuildSrcDir),
		filepath.Join(t.checkoutRuns.RunDir(version), entities.CheckoutDir),
	}

	for _, misuse := range version.Misuses {
		meta, err := misuse.Meta()
		if err != nil {
			return Failed(fmt.Errorf("misuse %s: %w", misuse.QualifiedID(), err))
		}

		record := entities.MisuseMetadataRecord{
			Project:     project.ID,
			Version:     version.ID,
			Misuse:      misuse.ID,
			Description: meta.Description,
			Fix: entities.FixRecord{
				Description: meta.Fix.Description,
				DiffURL:     meta.Fix.DiffURL,
				Revision:    meta.Fix.Revision,
			},
			Location: entities.LocationRecord{
				File:   meta.Location.File,
				Method: meta.Location.Method,
			},
			ViolationTypes: meta.ViolationTypes,
			Patterns:       t.patterns(misuse),
			TargetSnippets: t.targetSnippets(srcDirs, meta.Location),
		}
		if record.ViolationTypes == nil {
			record.ViolationTypes = []string{}
		}
		t.records = append(t.records, record)
	}
	return OK()
}

func (t *PublishTask) patterns(misuse *entities.Misuse) []entities.PatternRecord {
	patterns := make([]entities.PatternRecord, 0, len(misuse.Patterns()))
	for _, pattern := range misuse.Patterns() {
		code, err := t.readFile(filepath.Join(misuse.PatternsDir(), pattern))
		if err != nil {
			t.logger.Warn("skipping unreadable pattern", interfaces.F("pattern", pattern), interfaces.Err(err))
			continue
		}
		patterns = append(patterns, entities.PatternRecord{
			ID:      strings.TrimSuffix(pattern, filepath.Ext(pattern)),
			Snippet: entities.SnippetRecord{Code: string(code), FirstLine: 1},
		})
	}
	return patterns
}

func (t *PublishTask) targetSnippets(srcDirs []string, location entities.Location) []entities.SnippetRecord {
	for _, dir := range srcDirs {
		source, err := t.readFile(filepath.Join(dir, location.File))
		if err != nil {
			continue
		}
		return t.snippets.MethodSnippets(string(source), location.Method)
	}
	t.logger.Debug("target source not found", interfaces.F("file", location.File))
	return []entities.SnippetRecord{}
}

// End uploads the collected records
func (t *PublishTask) End(ctx context.Context) error {
	if err := t.publisher.PublishMetadata(ctx, t.siteURL, t.records); err != nil {
		return err
	}
	t.logger.Info("metadata published", interfaces.F("misuses", len(t.records)), interfaces.F("site", t.siteURL))
	return nil
}
