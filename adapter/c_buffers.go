package adapter

import (
	"fmt"
	"maps"
	"slices"

	"github.com/ardanlabs/bindgen/parser"
)

// bufferDtypes maps buffer element types to their numpy dtype character.
var bufferDtypes = map[string]byte{
	"uint8_t":            'B',
	"int8_t":             'b',
	"uint16_t":           'H',
	"int16_t":            'h',
	"uint32_t":           'I',
	"int32_t":            'i',
	"uint64_t":           'L',
	"int64_t":            'l',
	"unsigned char":      'B',
	"signed char":        'b',
	"int":                'i',
	"unsigned int":       'I',
	"long":               'l',
	"unsigned long":      'L',
	"long long":          'q',
	"unsigned long long": 'Q',
	"float":              'f',
	"double":             'd',
	"long double":        'g',
}

func defaultBufferTypes() []string {
	return slices.Sorted(maps.Keys(bufferDtypes))
}

// cBuffers exposes "T *buffer, size_t count" as one numpy array:
//
//	void Foo(uint8_t *buffer, size_t count)  =>  void Foo(py::array & buffer)
type cBuffers struct{}

func (cBuffers) Name() string { return "adapt_c_buffers" }

func (cBuffers) Enabled(opts *Options) bool { return opts.AdaptCBuffers }

func (cBuffers) Adapt(s Stage) (*Layer, error) {
	var r rewrite

	params := s.Function.Parameters()
	for i := 0; i < len(params); i++ {
		p := params[i]
		if i+1 < len(params) && isCBuffer(p, s.Options) && isSize(params[i+1], s.Options) {
			if err := r.cBuffer(p, params[i+1], s.Options); err != nil {
				return nil, err
			}
			i++
			continue
		}
		r.keep(p)
	}

	return r.layer(s.Function), nil
}

func (r *rewrite) cBuffer(buffer, size *parser.Parameter, opts *Options) error {
	elem := buffer.Decl.Type.Name()
	dtype, ok := bufferDtypes[elem]
	if !ok {
		return fmt.Errorf("no numpy dtype for buffer type %q", elem)
	}

	name := buffer.Decl.Name
	ptr := name + "_from_pyarray"
	count := name + "_count"
	kind := name + "_type"

	var specifiers []string
	ptrType := elem + " *"
	if buffer.Decl.Type.IsConst() {
		specifiers = []string{"const"}
		ptrType = "const " + ptrType
		r.before = append(r.before, fmt.Sprintf("const void * %s = %s.data();", ptr, name))
	} else {
		r.before = append(r.before, fmt.Sprintf("void * %s = %s.mutable_data();", ptr, name))
	}

	r.before = append(r.before,
		fmt.Sprintf("py::ssize_t %s = %s.shape()[0];", count, name),
		fmt.Sprintf("char %s = %s.dtype().char_();", kind, name),
		fmt.Sprintf("if (%s != '%c')\n%sthrow std::runtime_error(std::string(\"%s: expected a buffer of %s (dtype '%c'), got dtype '\") + %s + \"'\");",
			kind, dtype, opts.Indent(), name, elem, dtype, kind),
	)

	sizeType := size.Decl.Type.Name()
	r.args = append(r.args,
		fmt.Sprintf("static_cast<%s>(%s)", ptrType, ptr),
		fmt.Sprintf("static_cast<%s>(%s)", sizeType, count),
	)

	arrayType := parser.NewType(specifiers, []string{"py::array"}, []string{"&"})
	r.add(parser.NewParameter(arrayType, name))
	return nil
}

func isCBuffer(p *parser.Parameter, opts *Options) bool {
	d := p.Decl
	if d == nil || d.Type == nil || d.IsCArray() || !d.Type.IsPointer() {
		return false
	}
	return slices.Contains(opts.BufferTypes, d.Type.Name())
}

func isSize(p *parser.Parameter, opts *Options) bool {
	d := p.Decl
	if d == nil || d.Type == nil || d.IsCArray() || len(d.Type.Modifiers) > 0 {
		return false
	}
	return slices.Contains(opts.BufferSizeTypes, d.Type.Name())
}
