package adapter

import "github.com/ardanlabs/bindgen/parser"

// variadicFormat exposes a printf like function as a function taking the
// already formatted string:
//
//	void Log(int level, const char *fmt, ...)  =>  void Log(int level, const char * fmt)
//
// The string is forwarded as Log(level, "%s", fmt).
type variadicFormat struct{}

func (variadicFormat) Name() string { return "adapt_variadic_format" }

func (variadicFormat) Enabled(opts *Options) bool { return opts.AdaptVariadicFormat }

func (variadicFormat) Adapt(s Stage) (*Layer, error) {
	fn := s.Function
	params := fn.Parameters()
	if !fn.IsVariadic() || len(params) < 2 {
		return nil, nil
	}

	format := params[len(params)-2]
	if !isCString(format) {
		return nil, nil
	}

	var r rewrite
	for _, p := range params[:len(params)-2] {
		r.keep(p)
	}
	r.add(format)
	r.args = append(r.args, `"%s"`, format.Decl.Name)

	return r.layer(fn), nil
}

func isCString(p *parser.Parameter) bool {
	d := p.Decl
	if d == nil || d.Type == nil || d.IsCArray() {
		return false
	}
	return d.Type.IsConst() && d.Type.Name() == "char" && d.Type.IsPointer()
}
