package adapter

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/bindgen/parser"
)

// AdaptedFunction is a function or method seen from Python.
//
// Adapted starts as a copy of the original declaration. Each adapter that
// rewrites some parameters replaces it with a new declaration and adds a
// Layer: a lambda with the new signature that rebuilds the original
// arguments and calls the previous stage. Given
//
//	void Foo(uint8_t *buffer, size_t count, double out[2]);
//
// Adapted becomes
//
//	void Foo(py::array & buffer, BoxedDouble & out_0, BoxedDouble & out_1);
//
// AdapterCode defines Foo_adapt_c_buffers, which calls Foo, and then
// Foo_adapt_fixed_size_c_arrays, which calls Foo_adapt_c_buffers.
// LambdaToCall is Foo_adapt_fixed_size_c_arrays, the lambda the binding
// calls. Without layers, AdapterCode and LambdaToCall are empty and the
// binding calls the original function.
type AdaptedFunction struct {
	original *parser.FunctionDecl
	opts     *Options
	callee   string

	Adapted      *parser.FunctionDecl
	AdapterCode  string
	LambdaToCall string

	// ParentStruct is the enclosing struct or class of a method, empty for
	// free functions.
	ParentStruct string

	// Namespace qualifies the calls to a free function: "geo" or "a::b".
	Namespace string

	Layers     []*Layer
	BoxedTypes []BoxedType
}

// NewAdaptedFunction adapts fn. It fails with ErrUnsupportedParameter when a
// parameter is left that pybind11 can not bind.
func NewAdaptedFunction(fn parser.Declared, parentStruct, namespace string, opts *Options) (*AdaptedFunction, error) {
	decl := fn.Decl()

	af := AdaptedFunction{
		original:     decl,
		opts:         opts,
		Adapted:      decl.Clone(),
		ParentStruct: parentStruct,
		Namespace:    namespace,
	}
	af.Adapted.ParameterList = nameParameters(af.Adapted.ParameterList)

	switch {
	case af.IsMethod() && decl.IsStatic():
		af.callee = parentStruct + "::" + decl.Name
	case af.IsMethod():
		af.callee = "self." + decl.Name
	case namespace != "":
		af.callee = namespace + "::" + decl.Name
	default:
		af.callee = decl.Name
	}

	// Constructors are bound as they are.
	if af.IsConstructor() {
		return &af, nil
	}

	if err := af.applyAdapters(); err != nil {
		return nil, err
	}

	return &af, nil
}

func (af *AdaptedFunction) Original() *parser.FunctionDecl {
	return af.original
}

func (af *AdaptedFunction) IsMethod() bool {
	return af.ParentStruct != ""
}

// IsConstructor reports whether the function is named after its struct.
func (af *AdaptedFunction) IsConstructor() bool {
	return af.IsMethod() && af.original.Name == af.ParentStruct
}

func (af *AdaptedFunction) IsStatic() bool {
	return af.IsMethod() && af.original.IsStatic()
}

func (af *AdaptedFunction) NamePython() string {
	return FunctionNameToPython(af.Adapted.Name, af.opts)
}

// ReturnType is the C++ return type without storage specifiers or API
// markers.
func (af *AdaptedFunction) ReturnType() string {
	return af.Adapted.FullReturnType(af.opts.APIPrefixes)
}

func (af *AdaptedFunction) ReturnTypePython() string {
	return TypeToPython(af.ReturnType(), af.opts)
}

// Parameters returns the parameters of the adapted signature, without the
// C variadic ellipsis.
func (af *AdaptedFunction) Parameters() []*AdaptedParameter {
	return adaptParameters(af.Adapted.ParameterList, af.opts)
}

func (af *AdaptedFunction) PyArgs() []string {
	params := af.Parameters()
	r := make([]string, len(params))
	for i, p := range params {
		r[i] = p.Decl().PyArg()
	}
	return r
}

// CallCode is the statement that publishes the function: a call to the
// outermost lambda or, without adaptation, to the function itself.
func (af *AdaptedFunction) CallCode() string {
	fn := af.LambdaToCall
	if fn == "" {
		fn = af.callee
	}

	call := fn + "(" + af.Adapted.ParameterList.NamesForCall() + ")"
	if isVoid(af.ReturnType()) {
		return call
	}
	return "return " + call
}

// LambdaParams are the parameters of the lambda given to pybind11: the
// adapted parameters, preceded by self for non static methods.
func (af *AdaptedFunction) LambdaParams() string {
	params := af.Adapted.ParameterList.TypesNamesForSignature(true)
	if af.IsMethod() && !af.IsStatic() {
		self := af.ParentStruct + " & self"
		if af.original.IsConst() {
			self = "const " + self
		}
		params = append([]string{self}, params...)
	}
	return strings.Join(params, ", ")
}

// =============================================================================

// AdaptedConstructor is a constructor seen from Python. Constructors are
// never adapted.
type AdaptedConstructor struct {
	original     *parser.ConstructorDecl
	decl         *parser.ConstructorDecl
	opts         *Options
	ParentStruct string
}

func NewAdaptedConstructor(c *parser.ConstructorDecl, parentStruct string, opts *Options) *AdaptedConstructor {
	ac := AdaptedConstructor{original: c, opts: opts, ParentStruct: parentStruct}

	named := *c
	named.ParameterList = nameParameters(c.ParameterList)
	ac.decl = &named

	return &ac
}

func (ac *AdaptedConstructor) Original() *parser.ConstructorDecl {
	return ac.original
}

func (ac *AdaptedConstructor) IsDeleted() bool {
	return ac.decl.IsDeleted()
}

func (ac *AdaptedConstructor) Parameters() []*AdaptedParameter {
	return adaptParameters(ac.decl.ParameterList, ac.opts)
}

func (ac *AdaptedConstructor) TypesForTemplate() string {
	if ac.decl.ParameterList == nil {
		return ""
	}
	return ac.decl.ParameterList.TypesForTemplate()
}

// IsSupported reports whether every parameter can be bound as is.
func (ac *AdaptedConstructor) IsSupported() bool {
	if ac.decl.ParameterList == nil {
		return true
	}
	fd := &parser.FunctionDecl{Name: ac.decl.Name, ParameterList: ac.decl.ParameterList}
	return checkSupported(fd) == nil
}

// nameParameters returns l with every unnamed parameter called arg_<index>,
// so that it can be forwarded. l itself is left untouched.
func nameParameters(l *parser.ParameterList) *parser.ParameterList {
	if l == nil {
		return nil
	}

	named := *l

	// f(void) takes no parameter.
	if len(l.Parameters) == 1 && isVoidParameter(l.Parameters[0]) {
		named.Parameters = nil
		return &named
	}

	named.Parameters = make([]*parser.Parameter, len(l.Parameters))
	for i, p := range l.Parameters {
		named.Parameters[i] = p
		if p.Decl == nil || p.Decl.NameWithoutArray() != "" || (p.Decl.Type != nil && p.Decl.Type.IsEllipsis()) {
			continue
		}

		d := *p.Decl
		d.Name = fmt.Sprintf("arg_%d", i) + d.CArrayCode()
		np := *p
		np.Decl = &d
		named.Parameters[i] = &np
	}

	return &named
}

func isVoidParameter(p *parser.Parameter) bool {
	d := p.Decl
	return d != nil && d.Name == "" && d.Type != nil && len(d.Type.Modifiers) == 0 && d.Type.Name() == "void"
}
