package adapter

import (
	"fmt"

	"github.com/ardanlabs/bindgen/parser"
)

// fixedSizeArrays exposes C arrays with a literal size.
//
// A const array becomes a std::array, which Python fills from a list:
//
//	int Add(const int values[2])  =>  int Add(const std::array<int, 2> & values)
//
// A mutable array becomes one parameter per element. Elements that are
// immutable in Python are boxed so that the function can modify them:
//
//	void Modify(double out[2])  =>  void Modify(BoxedDouble & out_0, BoxedDouble & out_1)
//	void Modify(Point out[2])   =>  void Modify(Point & out_0, Point & out_1)
type fixedSizeArrays struct{}

func (fixedSizeArrays) Name() string { return "adapt_fixed_size_c_arrays" }

func (fixedSizeArrays) Enabled(opts *Options) bool { return opts.AdaptFixedSizeArrays }

func (fixedSizeArrays) Adapt(s Stage) (*Layer, error) {
	var r rewrite

	for _, p := range s.Function.Parameters() {
		d := p.Decl
		if d == nil || d.Type == nil || len(d.Type.Modifiers) > 0 {
			r.keep(p)
			continue
		}

		if !d.IsCArrayFixedSize() {
			r.keep(p)
			continue
		}
		size, _ := d.CArraySize()

		name := d.NameWithoutArray()
		elem := d.Type.Name()

		switch {
		case d.Type.IsConst():
			t := parser.NewType([]string{"const"}, []string{fmt.Sprintf("std::array<%s, %d>", elem, size)}, []string{"&"})
			r.add(parser.NewParameter(t, name))
			r.args = append(r.args, name+".data()")

		case size <= s.Options.FixedArrayMaxBoxedSize:
			r.splitArray(name, elem, size)

		default:
			r.keep(p)
		}
	}

	return r.layer(s.Function), nil
}

// splitArray replaces "T name[size]" by name_0 ... name_<size-1>, copied to
// and from a local array around the call.
func (r *rewrite) splitArray(name, elem string, size int) {
	raw := name + "_raw"

	boxed := IsBoxable(elem)
	paramType := elem
	value := ""
	if boxed {
		b := NewBoxedType(elem)
		r.boxed = AppendBoxed(r.boxed, b)
		paramType = b.Name
		value = ".value"
	}

	r.before = append(r.before, fmt.Sprintf("%s %s[%d];", elem, raw, size))
	for i := range size {
		item := fmt.Sprintf("%s_%d", name, i)
		r.add(parser.NewParameter(parser.NewType(nil, []string{paramType}, []string{"&"}), item))
		r.before = append(r.before, fmt.Sprintf("%s[%d] = %s%s;", raw, i, item, value))
		r.after = append(r.after, fmt.Sprintf("%s%s = %s[%d];", item, value, raw, i))
	}

	r.args = append(r.args, raw)
}
