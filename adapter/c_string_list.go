package adapter

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/bindgen/parser"
)

// cStringLists exposes a C string array and its size as a list of strings:
//
//	void Print(const char **items, int count)  =>  void Print(const std::vector<std::string> & items)
type cStringLists struct{}

func (cStringLists) Name() string { return "adapt_c_string_list" }

func (cStringLists) Enabled(opts *Options) bool { return opts.AdaptCStringLists }

func (cStringLists) Adapt(s Stage) (*Layer, error) {
	var r rewrite

	params := s.Function.Parameters()
	for i := 0; i < len(params); i++ {
		p := params[i]
		if i+1 < len(params) && isCStringList(p) && isSize(params[i+1], s.Options) {
			r.cStringList(p, params[i+1], s.Options)
			i++
			continue
		}
		r.keep(p)
	}

	return r.layer(s.Function), nil
}

func (r *rewrite) cStringList(list, size *parser.Parameter, opts *Options) {
	name := list.Decl.NameWithoutArray()
	ptrs := name + "_ptrs"
	count := name + "_count"
	sizeType := size.Decl.Type.Name()

	r.before = append(r.before,
		fmt.Sprintf("std::vector<const char *> %s;", ptrs),
		fmt.Sprintf("%s.reserve(%s.size());", ptrs, name),
		fmt.Sprintf("for (const auto& v: %s)\n%s%s.push_back(v.c_str());", name, opts.Indent(), ptrs),
		fmt.Sprintf("%s %s = static_cast<%s>(%s.size());", sizeType, count, sizeType, name),
	)
	r.args = append(r.args, ptrs+".data()", count)

	t := parser.NewType([]string{"const"}, []string{"std::vector<std::string>"}, []string{"&"})
	r.add(parser.NewParameter(t, name))
}

// isCStringList matches "const char **items" and "const char *items[]".
func isCStringList(p *parser.Parameter) bool {
	d := p.Decl
	if d == nil || d.Type == nil || !d.Type.IsConst() || d.Type.Name() != "char" {
		return false
	}
	if d.Type.IsPointerToPointer() {
		return !d.IsCArray()
	}
	return d.Type.IsPointer() && strings.TrimSpace(d.CArrayCode()) == "[]"
}
