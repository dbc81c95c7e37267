package generator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardanlabs/bindgen/adapter"
)

const stubPreamble = `# Generated by bindgen from {{.Source}}. Do not edit.
# ruff: noqa
from __future__ import annotations

import enum
from typing import Callable, Dict, List, Optional, Tuple

import numpy as np

`

func (g *Generator) generateStub(m *model) (string, error) {
	var buf bytes.Buffer

	if err := g.execute("stub", stubPreamble, &buf); err != nil {
		return "", err
	}

	for _, b := range m.boxed {
		g.stubBoxed(&buf, b)
	}

	for _, item := range m.items {
		switch item := item.(type) {
		case function:
			g.stubFunction(&buf, item, "")
		case *class:
			g.stubClass(&buf, item)
		case *enum:
			g.stubEnum(&buf, item)
		default:
			return "", fmt.Errorf("unknown item %T", item)
		}
		buf.WriteString("\n\n")
	}

	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

func (g *Generator) stubBoxed(buf *bytes.Buffer, b adapter.BoxedType) {
	i := g.opts.Indent()
	py := b.PythonType()

	fmt.Fprintf(buf, "class %s:\n", b.Name)
	fmt.Fprintf(buf, "%svalue: %s\n", i, py)
	fmt.Fprintf(buf, "%sdef __init__(self, v: %s = %s) -> None:\n", i, py, pythonZero(py))
	fmt.Fprintf(buf, "%s%spass\n", i, i)
	fmt.Fprintf(buf, "%sdef __repr__(self) -> str:\n", i)
	fmt.Fprintf(buf, "%s%spass\n\n\n", i, i)
}

// stubFunction writes a def. indent is empty for free functions and one
// level for methods.
func (g *Generator) stubFunction(buf *bytes.Buffer, f function, indent string) {
	af := f.fn

	var params []string
	if af.IsMethod() && !af.IsStatic() {
		params = append(params, "self")
	}
	for _, p := range af.Parameters() {
		params = append(params, p.Decl().StubParam())
	}

	if af.IsStatic() {
		fmt.Fprintf(buf, "%s@staticmethod\n", indent)
	}
	fmt.Fprintf(buf, "%sdef %s(%s) -> %s:\n", indent, af.NamePython(), strings.Join(params, ", "), af.ReturnTypePython())

	body := indent + g.opts.Indent()
	buf.WriteString(stubDoc(f.doc, body))
	fmt.Fprintf(buf, "%spass\n", body)
}

func (g *Generator) stubClass(buf *bytes.Buffer, c *class) {
	i := g.opts.Indent()

	fmt.Fprintf(buf, "class %s", c.pyName)
	if len(c.bases) > 0 {
		bases := make([]string, len(c.bases))
		for j, b := range c.bases {
			bases[j] = adapter.TypeToPython(b, g.opts)
		}
		fmt.Fprintf(buf, "(%s)", strings.Join(bases, ", "))
	}
	buf.WriteString(":\n")

	n := buf.Len()
	buf.WriteString(stubDoc(c.doc, i))

	for _, f := range c.fields {
		fmt.Fprintf(buf, "%s%s: %s", i, f.decl.NamePython(), f.decl.TypePython())
		if v := f.decl.DefaultValuePython(); v != "" {
			fmt.Fprintf(buf, " = %s", v)
		}
		buf.WriteString("\n")
		buf.WriteString(stubDoc(f.doc, i))
	}

	for _, params := range g.stubCtors(c) {
		fmt.Fprintf(buf, "%sdef __init__(%s) -> None:\n", i, strings.Join(append([]string{"self"}, params...), ", "))
		fmt.Fprintf(buf, "%s%spass\n", i, i)
	}

	for _, f := range c.methods {
		g.stubFunction(buf, f, i)
	}

	if buf.Len() == n {
		fmt.Fprintf(buf, "%spass\n", i)
	}
}

// stubCtors returns the parameters of each __init__ overload, following
// what pydefCtors publishes.
func (g *Generator) stubCtors(c *class) [][]string {
	if c.declaresCtor {
		r := make([][]string, len(c.ctors))
		for j, ac := range c.ctors {
			for _, p := range ac.Parameters() {
				r[j] = append(r[j], p.Decl().StubParam())
			}
		}
		return r
	}

	fields, ok := c.namedCtorFields()
	if !ok {
		return [][]string{nil}
	}

	var params []string
	for _, f := range fields {
		v := f.decl.DefaultValuePython()
		if v == "" {
			v = f.decl.TypePython() + "()"
		}
		params = append(params, f.decl.NamePython()+": "+f.decl.TypePython()+" = "+v)
	}
	return [][]string{params}
}

func (g *Generator) stubEnum(buf *bytes.Buffer, e *enum) {
	i := g.opts.Indent()

	fmt.Fprintf(buf, "class %s(enum.Enum):\n", e.pyName)
	buf.WriteString(stubDoc(e.doc, i))

	if len(e.values) == 0 && e.doc == "" {
		fmt.Fprintf(buf, "%spass\n", i)
	}

	for _, v := range e.values {
		switch _, err := strconv.ParseInt(v.value, 0, 64); {
		case v.value == "":
			fmt.Fprintf(buf, "%s%s = enum.auto()\n", i, v.pyName)
		case err == nil:
			fmt.Fprintf(buf, "%s%s = %s\n", i, v.pyName, v.value)
		default:
			fmt.Fprintf(buf, "%s%s = enum.auto()  # (= %s)\n", i, v.pyName, v.value)
		}
		buf.WriteString(stubDoc(v.doc, i))
	}
}

func stubDoc(doc, indent string) string {
	if doc == "" {
		return ""
	}

	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)
	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		return indent + `"""` + doc + `"""` + "\n"
	}

	var sb strings.Builder
	sb.WriteString(indent + `"""` + lines[0] + "\n")
	for _, l := range lines[1:] {
		if l != "" {
			sb.WriteString(indent + l)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent + `"""` + "\n")
	return sb.String()
}

func pythonZero(py string) string {
	switch py {
	case "float":
		return "0.0"
	case "bool":
		return "False"
	case "str":
		return `""`
	default:
		return "0"
	}
}
