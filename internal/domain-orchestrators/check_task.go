package orchestrators

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ochairo/mubench/internal/domain/entities"
	"github.com/ochairo/mubench/internal/domain/interfaces"
)

// ToolLocator finds an executable on the PATH
type ToolLocator func(name string) (string, error)

// CheckTask validates the environment before any other work
type CheckTask struct {
	hooks
	lookPath ToolLocator
	tools    []string
	dirs     []string
	logger   interfaces.Logger
}

// NewCheckTask creates a check task requiring the given tools and directories
func NewCheckTask(lookPath ToolLocator, tools, dirs []string, logger interfaces.Logger) *CheckTask {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &CheckTask{
		lookPath: lookPath,
		tools:    tools,
		dirs:     dirs,
		logger:   logger,
	}
}

// Name returns the task name
func (t *CheckTask) Name() string {
	return entities.TaskCheck
}

// Start reports every missing tool and directory
func (t *CheckTask) Start(context.Context) error {
	var missing []string

	for _, tool := range t.tools {
		path, err := t.lookPath(tool)
		if err != nil {
			missing = append(missing, "tool "+tool)
			continue
		}
		t.logger.Info("found tool", interfaces.F("tool", tool), interfaces.F("path", path))
	}

	for _, dir := range t.dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			missing = append(missing, "directory "+dir)
			continue
		}
		t.logger.Info("found directory", interfaces.F("dir", dir))
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing prerequisites: %s", strings.Join(missing, ", "))
	}
	t.logger.Info("all prerequisites met")
	return nil
}

// Process does nothing; check never selects versions
func (t *CheckTask) Process(context.Context, *entities.Project, *entities.Version) Response {
	return OK()
}
