package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCommand converts with LibreOffice, which names its output after
// the source file inside the output directory.
const DefaultCommand = "soffice --headless --convert-to pdf --outdir {outdir} {src}"

// CommandConverter runs an external program once per job. The
// placeholders {src}, {dst} and {outdir} in Args are replaced by the
// source path, the destination path and the destination directory.
type CommandConverter struct {
	Args []string
	// Timeout bounds one run; zero means no limit.
	Timeout time.Duration
}

// NewCommandConverter splits command on white space. An empty command
// selects DefaultCommand.
func NewCommandConverter(command string) (*CommandConverter, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	args := strings.Fields(command)
	if !strings.Contains(command, "{src}") {
		return nil, fmt.Errorf("converter command %q has no {src} placeholder", command)
	}
	return &CommandConverter{Args: args}, nil
}

// Convert runs the command and checks that dst was written.
func (c *CommandConverter) Convert(src, dst string) error {
	if len(c.Args) == 0 {
		return fmt.Errorf("no converter command")
	}
	outdir := filepath.Dir(dst)
	r := strings.NewReplacer("{src}", src, "{dst}", dst, "{outdir}", outdir)
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = r.Replace(a)
	}

	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(output.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if _, err := os.Stat(dst); err != nil {
		return fmt.Errorf("%s produced no output: %w", args[0], err)
	}
	return nil
}
