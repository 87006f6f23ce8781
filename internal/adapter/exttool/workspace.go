package exttool

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// overwriteEnv tells the configured external tools whether existing
// outputs may be replaced.
const overwriteEnv = "TIDEGATE_OVERWRITE"

// DirScope implements engine.WorkspaceScope by switching the process
// working directory, so relative layer names in command templates resolve
// inside the analysis workspace. The overwrite policy is exported to
// child tools through the environment. Both are restored by the returned
// function on every exit path.
type DirScope struct {
	logger *slog.Logger
}

// NewDirScope creates a working-directory workspace scope.
func NewDirScope(logger *slog.Logger) *DirScope {
	return &DirScope{logger: logger}
}

// Enter switches into the workspace and applies the overwrite policy.
func (s *DirScope) Enter(path string, overwrite bool) (func(), error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("enter workspace: %w", err)
	}
	if err := os.Chdir(path); err != nil {
		return nil, fmt.Errorf("enter workspace %s: %w", path, err)
	}

	prevOverwrite, hadOverwrite := os.LookupEnv(overwriteEnv)
	os.Setenv(overwriteEnv, strconv.FormatBool(overwrite))

	s.logger.Info("workspace entered", "path", path, "overwrite", overwrite)

	return func() {
		if hadOverwrite {
			os.Setenv(overwriteEnv, prevOverwrite)
		} else {
			os.Unsetenv(overwriteEnv)
		}
		if err := os.Chdir(prev); err != nil {
			s.logger.Error("workspace restore failed", "path", prev, "error", err)
			return
		}
		s.logger.Info("workspace restored", "path", prev)
	}, nil
}
