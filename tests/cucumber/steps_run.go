//go:build cucumber

package cucumber

import (
	"fmt"
	"strings"

	"tokenbench/internal/cli"
)

// iRunCommand executes a CLI command for the scenario.
func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "tokenbench" {
		args = args[1:]
	}
	for i, arg := range args {
		if arg == "<log>" {
			args[i] = s.logPath
		}
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}
