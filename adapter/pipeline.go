package adapter

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/bindgen/parser"
)

// ErrUnsupportedParameter is returned when a parameter can not be bound by
// pybind11 and no enabled adapter rewrote it.
var ErrUnsupportedParameter = errors.New("unsupported parameter")

// Stage is the input of an adapter: the function declaration as rewritten
// by the adapters that ran before.
type Stage struct {
	Function *parser.FunctionDecl
	Options  *Options
}

// Adapter rewrites some parameters of a function. Adapt returns a nil layer
// when the function has nothing the adapter handles.
type Adapter interface {
	Name() string
	Enabled(opts *Options) bool
	Adapt(s Stage) (*Layer, error)
}

// Layer is one wrapper lambda. Decl is the new signature, the lambda
// parameters. The body runs Before, calls Callee with Args, runs After and
// returns the result of the call.
type Layer struct {
	Name       string
	Decl       *parser.FunctionDecl
	Callee     string
	Captures   []string
	Before     []string
	Args       []string
	After      []string
	ReturnType string
	Boxed      []BoxedType
}

// adapters run in this order. Each layer calls the previous one.
var adapters = []Adapter{
	cBuffers{},
	fixedSizeArrays{},
	variadicFormat{},
	cStringLists{},
}

func Adapters() []Adapter {
	return append([]Adapter(nil), adapters...)
}

// applyAdapters runs the enabled adapters over af.Adapted, chaining the
// layers they produce.
func (af *AdaptedFunction) applyAdapters() error {
	callee := af.callee
	var captures []string
	if af.IsMethod() && !af.original.IsStatic() {
		captures = []string{"&self"}
	}

	for _, a := range adapters {
		if !a.Enabled(af.opts) {
			continue
		}

		layer, err := a.Adapt(Stage{Function: af.Adapted, Options: af.opts})
		if err != nil {
			return fmt.Errorf("%s: %s: %w", af.original.Name, a.Name(), err)
		}
		if layer == nil {
			continue
		}

		layer.Name = af.original.Name + "_" + a.Name()
		layer.Callee = callee
		layer.Captures = captures
		layer.ReturnType = af.Adapted.FullReturnType(af.opts.APIPrefixes)

		af.Layers = append(af.Layers, layer)
		af.BoxedTypes = AppendBoxed(af.BoxedTypes, layer.Boxed...)
		af.Adapted = layer.Decl

		callee = layer.Name
		captures = []string{"&" + layer.Name}
	}

	if n := len(af.Layers); n > 0 {
		af.AdapterCode = formatLayers(af.Layers, af.opts.Indent())
		af.LambdaToCall = af.Layers[n-1].Name
	}

	return checkSupported(af.Adapted)
}

// checkSupported fails on the parameter shapes pybind11 can not bind.
func checkSupported(fn *parser.FunctionDecl) error {
	for _, p := range fn.Parameters() {
		if p.Decl == nil {
			continue
		}
		if p.Decl.IsCArray() || (p.Decl.Type != nil && p.Decl.Type.IsEllipsis()) {
			return fmt.Errorf("%w: %q in %s", ErrUnsupportedParameter, p.String(), fn.Name)
		}
	}
	return nil
}

// =============================================================================

// rewrite accumulates the new parameters of a layer and the arguments that
// forward them to the previous stage.
type rewrite struct {
	params  []*parser.Parameter
	args    []string
	before  []string
	after   []string
	boxed   []BoxedType
	changed bool
}

func (r *rewrite) keep(p *parser.Parameter) {
	r.params = append(r.params, p)
	if p.Decl == nil || (p.Decl.Type != nil && p.Decl.Type.IsEllipsis()) {
		return
	}
	r.args = append(r.args, p.Decl.NameWithoutArray())
}

func (r *rewrite) add(params ...*parser.Parameter) {
	r.params = append(r.params, params...)
	r.changed = true
}

func (r *rewrite) layer(fn *parser.FunctionDecl) *Layer {
	if !r.changed {
		return nil
	}

	decl := fn.Clone()
	decl.ParameterList.Parameters = r.params

	return &Layer{
		Decl:   decl,
		Before: r.before,
		Args:   r.args,
		After:  r.after,
		Boxed:  r.boxed,
	}
}
