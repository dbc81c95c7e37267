package generator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardanlabs/bindgen/adapter"
)

const pydefPreamble = `// Generated by bindgen from {{.Source}}. Do not edit.

#include <pybind11/pybind11.h>
#include <pybind11/stl.h>
#include <pybind11/functional.h>
#include <pybind11/numpy.h>
{{- if .Header}}

#include "{{.Header}}"
{{- end}}

namespace py = pybind11;

`

func (g *Generator) generatePydef(m *model) (string, error) {
	var buf bytes.Buffer

	if err := g.execute("pydef", pydefPreamble, &buf); err != nil {
		return "", err
	}

	for _, b := range m.boxed {
		g.pydefBoxedStruct(&buf, b)
	}

	i := g.opts.Indent()
	fmt.Fprintf(&buf, "void py_init_module_%s(py::module& m)\n{\n", g.module)

	for _, b := range m.boxed {
		g.pydefBoxedClass(&buf, b, i)
	}

	for _, item := range m.items {
		switch item := item.(type) {
		case function:
			fmt.Fprintf(&buf, "%s%s;\n", i, g.defCode("m.def", item, i))
		case *class:
			g.pydefClass(&buf, item, i)
		case *enum:
			g.pydefEnum(&buf, item, i)
		default:
			return "", fmt.Errorf("unknown item %T", item)
		}
		buf.WriteString("\n")
	}

	trimmed := strings.TrimRight(buf.String(), "\n")
	buf.Reset()
	buf.WriteString(trimmed)
	buf.WriteString("\n}\n\n")

	fmt.Fprintf(&buf, "PYBIND11_MODULE(%s, m)\n{\n%spy_init_module_%s(m);\n}\n", g.module, i, g.module)

	return buf.String(), nil
}

func (g *Generator) pydefBoxedStruct(buf *bytes.Buffer, b adapter.BoxedType) {
	i := g.opts.Indent()

	repr := "std::to_string(value)"
	if b.CppType == "std::string" {
		repr = "value"
	}

	fmt.Fprintf(buf, "struct %s\n{\n", b.Name)
	fmt.Fprintf(buf, "%s%s value;\n", i, b.CppType)
	fmt.Fprintf(buf, "%s%s(%s v = {}) : value(v) {}\n", i, b.Name, b.CppType)
	fmt.Fprintf(buf, "%sstd::string __repr__() const { return std::string(\"%s(\") + %s + \")\"; }\n", i, b.Name, repr)
	buf.WriteString("};\n\n")
}

func (g *Generator) pydefBoxedClass(buf *bytes.Buffer, b adapter.BoxedType, base string) {
	i := base + g.opts.Indent()

	fmt.Fprintf(buf, "%spy::class_<%s>(m, %q, \"\")\n", base, b.Name, b.Name)
	fmt.Fprintf(buf, "%s.def_readwrite(\"value\", &%s::value, \"\")\n", i, b.Name)
	fmt.Fprintf(buf, "%s.def(py::init<%s>(), py::arg(\"v\") = decltype(%s::value){})\n", i, b.CppType, b.Name)
	fmt.Fprintf(buf, "%s.def(\"__repr__\", &%s::__repr__)\n", i, b.Name)
	fmt.Fprintf(buf, "%s;\n\n", i)
}

// defCode renders a binding call: method is "m.def", ".def" or
// ".def_static". The result has no trailing semicolon.
func (g *Generator) defCode(method string, f function, base string) string {
	af := f.fn
	i := g.opts.Indent()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%q,\n", method, af.NamePython())
	fmt.Fprintf(&sb, "%s%s[](%s)\n", base, i, af.LambdaParams())
	fmt.Fprintf(&sb, "%s%s{\n", base, i)

	if af.AdapterCode != "" {
		for line := range strings.SplitSeq(strings.TrimRight(af.AdapterCode, "\n"), "\n") {
			if line == "" {
				sb.WriteString("\n")
				continue
			}
			fmt.Fprintf(&sb, "%s%s%s%s\n", base, i, i, line)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "%s%s%s%s;\n", base, i, i, af.CallCode())
	fmt.Fprintf(&sb, "%s%s}", base, i)

	if args := af.PyArgs(); len(args) > 0 {
		fmt.Fprintf(&sb, ",\n%s%s%s", base, i, strings.Join(args, ", "))
	}
	if f.doc != "" {
		fmt.Fprintf(&sb, ",\n%s%s%s", base, i, cppString(f.doc))
	}
	sb.WriteString(")")

	return sb.String()
}

func (g *Generator) pydefClass(buf *bytes.Buffer, c *class, base string) {
	i := base + g.opts.Indent()

	params := append([]string{c.name}, c.bases...)
	fmt.Fprintf(buf, "%spy::class_<%s>(m, %q, %s)\n", base, strings.Join(params, ", "), c.pyName, cppString(c.doc))

	for _, ctor := range g.pydefCtors(c, i) {
		fmt.Fprintf(buf, "%s%s\n", i, ctor)
	}

	for _, f := range c.fields {
		method := ".def_readwrite"
		switch {
		case f.static && f.readonly:
			method = ".def_readonly_static"
		case f.static:
			method = ".def_readwrite_static"
		case f.readonly:
			method = ".def_readonly"
		}
		fmt.Fprintf(buf, "%s%s(%q, &%s::%s, %s)\n", i, method, f.decl.NamePython(), c.name, f.decl.Decl.Name, cppString(f.doc))
	}

	for _, f := range c.methods {
		method := ".def"
		if f.fn.IsStatic() {
			method = ".def_static"
		}
		fmt.Fprintf(buf, "%s%s\n", i, g.defCode(method, f, i))
	}

	fmt.Fprintf(buf, "%s;\n", i)
}

// pydefCtors returns the constructor bindings of c. A class that declares
// no constructor gets one taking every field by name, as an aggregate
// would in C++.
func (g *Generator) pydefCtors(c *class, base string) []string {
	if c.declaresCtor {
		r := make([]string, len(c.ctors))
		for j, ac := range c.ctors {
			s := fmt.Sprintf(".def(py::init<%s>()", ac.TypesForTemplate())
			for _, p := range ac.Parameters() {
				s += ", " + p.Decl().PyArg()
			}
			r[j] = s + ")"
		}
		return r
	}

	fields, ok := c.namedCtorFields()
	if !ok || len(fields) == 0 {
		return []string{".def(py::init<>())"}
	}

	i := g.opts.Indent()

	var params, args []string
	for _, f := range fields {
		d := f.decl.Decl
		v := d.Init
		if v == "" {
			v = fmt.Sprintf("decltype(%s::%s){}", c.name, d.Name)
		}
		params = append(params, fmt.Sprintf("%s %s = %s", d.Type.String(), d.Name, v))
		args = append(args, fmt.Sprintf("py::arg(%q) = %s", f.decl.NamePython(), v))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, ".def(py::init<>([](%s)\n", strings.Join(params, ", "))
	fmt.Fprintf(&sb, "%s{\n", base)
	fmt.Fprintf(&sb, "%s%sauto r_ctor_ = std::make_unique<%s>();\n", base, i, c.name)
	for _, f := range fields {
		fmt.Fprintf(&sb, "%s%sr_ctor_->%s = %s;\n", base, i, f.decl.Decl.Name, f.decl.Decl.Name)
	}
	fmt.Fprintf(&sb, "%s%sreturn r_ctor_;\n", base, i)
	fmt.Fprintf(&sb, "%s})", base)
	fmt.Fprintf(&sb, ",\n%s%s%s)", base, i, strings.Join(args, ", "))

	return []string{sb.String()}
}

func (g *Generator) pydefEnum(buf *bytes.Buffer, e *enum, base string) {
	i := base + g.opts.Indent()

	fmt.Fprintf(buf, "%spy::enum_<%s>(m, %q, py::arithmetic(), %s)\n", base, e.name, e.pyName, cppString(e.doc))
	for _, v := range e.values {
		fmt.Fprintf(buf, "%s.value(%q, %s, %s)\n", i, v.pyName, v.name, cppString(v.doc))
	}
	fmt.Fprintf(buf, "%s;\n", i)
}

// cppString quotes s as a C++ string literal. Go escapes are a subset of
// the C++ ones.
func cppString(s string) string {
	return strconv.Quote(s)
}
