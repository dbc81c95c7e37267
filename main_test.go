package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunFromSrcml(t *testing.T) {
	out := t.TempDir()
	var stdout, stderr bytes.Buffer

	args := []string{"-xml", "testdata/mylib.h.xml", "-output", out}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr.String())
	}

	for _, name := range []string{"mylib.pyi", "pybind_mylib.cpp"} {
		path := filepath.Join(out, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
		if !strings.Contains(stdout.String(), "Generated: "+path) {
			t.Errorf("expected %s to be reported, got: %s", path, stdout.String())
		}
	}

	if !strings.Contains(stderr.String(), "template function skipped") {
		t.Errorf("expected a warning for the template, got: %s", stderr.String())
	}
}

func TestRunOptions(t *testing.T) {
	out := t.TempDir()
	var stdout, stderr bytes.Buffer

	args := []string{"-xml", "testdata/mylib.h.xml", "-output", out, "-module", "custom", "-no-buffers"}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	code, err := os.ReadFile(filepath.Join(out, "pybind_custom.cpp"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if strings.Contains(string(code), "_adapt_c_buffers") {
		t.Error("expected no buffer adapter")
	}
	if !strings.Contains(string(code), "py_init_module_custom") {
		t.Error("expected the module name in the glue code")
	}
}

func TestRunRequiresInput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), nil, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "-header or -xml") {
		t.Fatalf("got %v", err)
	}
}

func TestRunMissingSrcml(t *testing.T) {
	var stdout, stderr bytes.Buffer

	args := []string{"-header", "testdata/mylib.h", "-srcml", "no-such-srcml-binary", "-output", t.TempDir()}
	if err := run(context.Background(), args, &stdout, &stderr); err == nil {
		t.Fatal("expected an error without a srcml executable")
	}
}

func TestRunRenderWithSrcml(t *testing.T) {
	out := t.TempDir()
	var stdout, stderr bytes.Buffer

	args := []string{"-xml", "testdata/mylib.h.xml", "-output", out, "-render-srcml", "-srcml", "no-such-srcml-binary"}
	if err := run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr.String())
	}

	if strings.Count(stderr.String(), "srcml render failed") != 1 {
		t.Errorf("expected one fallback warning, got: %s", stderr.String())
	}

	code, err := os.ReadFile(filepath.Join(out, "pybind_mylib.cpp"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(code), `py::arg("b") = 2`) {
		t.Error("expected the default value rendered in process")
	}
}
