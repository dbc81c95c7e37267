// Package generator publishes a parsed C++ header to Python: a pybind11
// glue file that binds it and a stub file that describes it to type
// checkers.
package generator

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"text/template"

	"github.com/ardanlabs/bindgen/adapter"
	"github.com/ardanlabs/bindgen/parser"
)

type Generator struct {
	module string
	unit   *parser.Unit
	opts   *adapter.Options
	log    *slog.Logger
}

func New(module string, unit *parser.Unit, opts *adapter.Options, logger *slog.Logger) *Generator {
	if opts == nil {
		opts = adapter.DefaultOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		module: module,
		unit:   unit,
		opts:   opts,
		log:    logger,
	}
}

func (g *Generator) Generate() (map[string]string, error) {
	files := make(map[string]string)

	m := g.collect()
	g.log.Debug("collected declarations", "file", g.unit.Filename, "items", len(m.items), "boxed", len(m.boxed))

	stubCode, err := g.generateStub(m)
	if err != nil {
		return nil, fmt.Errorf("generating stub: %w", err)
	}
	files[g.module+".pyi"] = stubCode

	pydefCode, err := g.generatePydef(m)
	if err != nil {
		return nil, fmt.Errorf("generating pybind11 code: %w", err)
	}
	files["pybind_"+g.module+".cpp"] = pydefCode

	return files, nil
}

// header is the include path of the bound header, empty when the unit was
// not read from a file.
func (g *Generator) header() string {
	if g.unit.Filename == "" {
		return ""
	}
	return filepath.Base(g.unit.Filename)
}

func (g *Generator) source() string {
	if h := g.header(); h != "" {
		return h
	}
	return "srcml input"
}

type preamble struct {
	Module string
	Source string
	Header string
}

func (g *Generator) execute(name, tmpl string, buf *bytes.Buffer) error {
	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return err
	}

	data := preamble{
		Module: g.module,
		Source: g.source(),
		Header: g.header(),
	}
	return t.Execute(buf, data)
}
