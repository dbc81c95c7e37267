package srcml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// ErrNoSrcml is returned when the srcml executable cannot be found.
var ErrNoSrcml = errors.New("srcml executable not found")

// Runner invokes the srcml executable. Every call works on its own private
// temporary files, so a Runner can be shared by goroutines that process
// different translation units.
type Runner struct {
	// Executable is the path or name of the srcml binary. Empty means "srcml".
	Executable string
	Logger     *slog.Logger
}

// Parse converts C++ code to a srcml tree with position annotations.
func (r *Runner) Parse(ctx context.Context, code string) (*Tree, error) {
	out, err := r.run(ctx, []byte(code), ".h", ".xml", true)
	if err != nil {
		return nil, err
	}

	tree, err := Decode(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Unparse converts a srcml node back to code through the executable.
func (r *Runner) Unparse(ctx context.Context, n *Node) (string, error) {
	data, err := Encode(unitWrap(n))
	if err != nil {
		return "", fmt.Errorf("encoding srcml: %w", err)
	}

	out, err := r.run(ctx, data, ".xml", ".h", false)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Renderer returns a render function backed by Unparse, for
// parser.Options.Render. After the first failure it logs a warning and
// renders in process. The function is not safe for concurrent use.
func (r *Runner) Renderer(ctx context.Context) func(*Node) string {
	var failed bool
	return func(n *Node) string {
		if failed {
			return Render(n)
		}
		code, err := r.Unparse(ctx, n)
		if err != nil {
			failed = true
			r.logger().Warn("srcml render failed, rendering in process", "error", err)
			return Render(n)
		}
		return code
	}
}

func (r *Runner) run(ctx context.Context, input []byte, inSuffix, outSuffix string, positions bool) ([]byte, error) {
	exe := r.Executable
	if exe == "" {
		exe = "srcml"
	}
	path, err := exec.LookPath(exe)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSrcml, exe)
	}

	in, err := os.CreateTemp("", "bindgen-*"+inSuffix)
	if err != nil {
		return nil, err
	}
	defer os.Remove(in.Name())

	if _, err := in.Write(input); err != nil {
		in.Close()
		return nil, err
	}
	if err := in.Close(); err != nil {
		return nil, err
	}

	out, err := os.CreateTemp("", "bindgen-*"+outSuffix)
	if err != nil {
		return nil, err
	}
	out.Close()
	defer os.Remove(out.Name())

	args := []string{"-l", "C++", in.Name()}
	if positions {
		args = append(args, "--position")
	}
	args = append(args, "--xml-encoding", "utf-8", "--src-encoding", "utf-8", "-o", out.Name())

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	r.logger().Debug("srcml", "args", args, "duration", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("running srcml: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	return os.ReadFile(out.Name())
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
