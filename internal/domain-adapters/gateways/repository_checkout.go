package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
)

// RepositoryCheckout materializes a project version's sources
type RepositoryCheckout struct {
	executor   *CommandExecutor
	downloader *Downloader
	timeout    time.Duration
	logger     interfaces.Logger
}

// NewRepositoryCheckout creates a checkout gateway
func NewRepositoryCheckout(executor *CommandExecutor, downloader *Downloader, logger interfaces.Logger) *RepositoryCheckout {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &RepositoryCheckout{
		executor:   executor,
		downloader: downloader,
		timeout:    30 * time.Minute,
		logger:     logger,
	}
}

// Checkout fetches the sources of version into dest, replacing any previous
// content. On failure any partial output is removed.
func (c *RepositoryCheckout) Checkout(ctx context.Context, version *entities.Version, dest string) error {
	if err := os.RemoveAll(dest); err != nil {
		return fmt.Errorf("failed to remove previous checkout: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create checkout directory: %w", err)
	}

	repo := version.Project.Repository
	c.logger.Debug("checking out",
		interfaces.F("version", version.QualifiedID()),
		interfaces.F("type", repo.Type),
		interfaces.F("url", repo.URL),
		interfaces.F("revision", version.Revision))

	var err error
	switch repo.Type {
	case entities.RepositoryGit:
		err = c.checkoutGit(ctx, repo.URL, version.Revision, dest)
	case entities.RepositorySVN:
		err = c.checkoutSVN(ctx, repo.URL, version.Revision, dest)
	case entities.RepositorySynthetic:
		err = c.checkoutSynthetic(version.Project, dest)
	case entities.RepositoryArchive:
		err = c.checkoutArchive(ctx, repo.URL, dest)
	default:
		err = fmt.Errorf("unsupported repository type %q", repo.Type)
	}

	if err != nil {
		_ = os.RemoveAll(dest)
		return fmt.Errorf("checkout of %s failed: %w", version.QualifiedID(), err)
	}
	return nil
}

func (c *RepositoryCheckout) checkoutGit(ctx context.Context, url, revision, dest string) error {
	result := c.executor.Execute(ctx, CommandConfig{
		Name:    "git",
		Args:    []string{"clone", "--quiet", url, dest},
		Timeout: c.timeout,
	})
	if err := result.Failure("git clone"); err != nil {
		return err
	}
	if revision == "" {
		return nil
	}

	result = c.executor.Execute(ctx, CommandConfig{
		Name:       "git",
		Args:       []string{"checkout", "--quiet", revision},
		WorkingDir: dest,
		Timeout:    c.timeout,
	})
	return result.Failure("git checkout")
}

func (c *RepositoryCheckout) checkoutSVN(ctx context.Context, url, revision, dest string) error {
	args := []string{"checkout", "--quiet"}
	if revision != "" {
		args = append(args, "-r", revision)
	}
	args = append(args, url, dest)

	result := c.executor.Execute(ctx, CommandConfig{
		Name:    "svn",
		Args:    args,
		Timeout: c.timeout,
	})
	return result.Failure("svn checkout")
}

// checkoutSynthetic copies sources shipped inside the dataset
func (c *RepositoryCheckout) checkoutSynthetic(project *entities.Project, dest string) error {
	dir := project.Repository.URL
	if dir == "" {
		dir = "src"
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(project.Path, dir)
	}
	return CopyDir(dir, dest)
}

func (c *RepositoryCheckout) checkoutArchive(ctx context.Context, url, dest string) error {
	archive := dest + ".tar.gz"
	defer func() { _ = os.Remove(archive) }()

	if err := c.downloader.DownloadFile(ctx, url, archive, ""); err != nil {
		return err
	}
	return c.downloader.ExtractTarGz(archive, dest)
}
