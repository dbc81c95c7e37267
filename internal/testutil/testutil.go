// Package testutil provides shared test helpers for bindgen tests.
package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/ardanlabs/bindgen/srcml"
)

const unitOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<unit xmlns="http://www.srcML.org/srcML/src" xmlns:cpp="http://www.srcML.org/srcML/cpp" xmlns:pos="http://www.srcML.org/srcML/position" revision="1.0.0" language="C++" pos:tabs="8">`

// Unit wraps a srcml fragment into a complete srcml document.
func Unit(body string) string {
	return unitOpen + body + "</unit>\n"
}

// Tree decodes a srcml fragment wrapped by Unit.
func Tree(t *testing.T, body string) *srcml.Tree {
	t.Helper()
	tree, err := srcml.DecodeString(Unit(body))
	if err != nil {
		t.Fatalf("decoding srcml fixture: %v", err)
	}
	return tree
}

// LoadTree decodes a srcml document from a file.
func LoadTree(t *testing.T, path string) *srcml.Tree {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	tree, err := srcml.Decode(f)
	if err != nil {
		t.Fatalf("decoding %s: %v", path, err)
	}
	return tree
}

// CaptureLogger returns a logger that writes text records into the returned
// buffer, at debug level and above.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), &buf
}
