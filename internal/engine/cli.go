package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var commandContext = exec.CommandContext

// Option configures the CLI factory.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithProgress installs a callback for engine progress events.
func WithProgress(progress func(ProgressUpdate)) Option {
	return func(c *CLI) {
		c.progress = progress
	}
}

// CLI wraps the arieldub command-line engine and opens per-job sessions.
type CLI struct {
	binary   string
	progress func(ProgressUpdate)
}

// NewCLI constructs a factory using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "arieldub"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// NewSession creates a scratch directory under workDir for the engine's
// temporary files; Close removes it.
func (c *CLI) NewSession(workDir string) (Session, error) {
	if workDir == "" {
		return nil, errors.New("work directory required")
	}
	scratch := filepath.Join(workDir, "engine")
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create engine scratch dir: %w", err)
	}
	return &cliSession{binary: c.binary, scratch: scratch, progress: c.progress}, nil
}

type cliSession struct {
	binary   string
	scratch  string
	progress func(ProgressUpdate)
}

func (s *cliSession) Dub(ctx context.Context, req Request) (*Result, error) {
	return s.run(ctx, "dub", req, nil)
}

func (s *cliSession) DubFromScript(ctx context.Context, req Request, opts ScriptOptions) (*Result, error) {
	if len(opts.Script) == 0 {
		return nil, errors.New("script required")
	}
	return s.run(ctx, "dub-from-script", req, &opts)
}

// Close removes the session's scratch directory, releasing the engine's
// temporary resources.
func (s *cliSession) Close() error {
	return os.RemoveAll(s.scratch)
}

type jobFile struct {
	Request Request        `json:"request"`
	Script  *ScriptOptions `json:"script_options,omitempty"`
}

func (s *cliSession) run(ctx context.Context, subcommand string, req Request, opts *ScriptOptions) (*Result, error) {
	if req.InputFile == "" {
		return nil, errors.New("input file required")
	}
	if req.OutputDirectory == "" {
		return nil, errors.New("output directory required")
	}

	encoded, err := json.Marshal(jobFile{Request: req, Script: opts})
	if err != nil {
		return nil, fmt.Errorf("encode job file: %w", err)
	}
	jobPath := filepath.Join(s.scratch, "job.json")
	if err := os.WriteFile(jobPath, encoded, 0o600); err != nil {
		return nil, fmt.Errorf("write job file: %w", err)
	}

	args := []string{subcommand, "--job", jobPath, "--progress-json"}
	cmd := commandContext(ctx, s.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", s.binary, err)
	}

	var outputFile string
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Bytes()
		var payload struct {
			Type       string  `json:"type"`
			Percent    float64 `json:"percent"`
			Stage      string  `json:"stage"`
			Message    string  `json:"message"`
			OutputFile string  `json:"output_file"`
		}
		if err := json.Unmarshal(line, &payload); err != nil {
			continue
		}
		switch payload.Type {
		case "result":
			outputFile = payload.OutputFile
		default:
			if s.progress != nil {
				s.progress(ProgressUpdate{Percent: payload.Percent, Stage: payload.Stage, Message: payload.Message})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s output: %w", s.binary, err)
	}

	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", s.binary, subcommand, err)
	}
	if outputFile == "" {
		return nil, fmt.Errorf("%s reported no output file", s.binary)
	}
	return &Result{OutputFile: outputFile}, nil
}

var _ Factory = (*CLI)(nil)
var _ Session = (*cliSession)(nil)
