package adapter

import (
	"fmt"
	"strings"
)

// formatLayers renders the layers as C++ lambdas, innermost first.
func formatLayers(layers []*Layer, indent string) string {
	parts := make([]string, len(layers))
	for i, l := range layers {
		parts[i] = formatLayer(l, indent)
	}
	return strings.Join(parts, "\n")
}

// formatLayer renders one layer:
//
//	auto Foo_adapt_c_buffers = [](py::array & buffer) -> int
//	{
//	    void * buffer_from_pyarray = buffer.mutable_data();
//
//	    auto r = Foo(static_cast<uint8_t *>(buffer_from_pyarray), ...);
//	    return r;
//	};
func formatLayer(l *Layer, indent string) string {
	var sb strings.Builder

	params := strings.Join(l.Decl.ParameterList.TypesNamesForSignature(false), ", ")
	fmt.Fprintf(&sb, "auto %s = [%s](%s)", l.Name, strings.Join(l.Captures, ", "), params)

	void := isVoid(l.ReturnType)
	if !void {
		fmt.Fprintf(&sb, " -> %s", l.ReturnType)
	}
	sb.WriteString("\n{\n")

	write := func(lines ...string) {
		for _, stmt := range lines {
			for line := range strings.SplitSeq(stmt, "\n") {
				if line == "" {
					sb.WriteString("\n")
					continue
				}
				sb.WriteString(indent + line + "\n")
			}
		}
	}

	write(l.Before...)
	if len(l.Before) > 0 {
		sb.WriteString("\n")
	}

	call := fmt.Sprintf("%s(%s);", l.Callee, strings.Join(l.Args, ", "))
	switch {
	case void:
		write(call)
	case strings.HasSuffix(l.ReturnType, "&"):
		write("auto& r = " + call)
	default:
		write("auto r = " + call)
	}

	if len(l.After) > 0 {
		sb.WriteString("\n")
		write(l.After...)
	}
	if !void {
		write("return r;")
	}

	sb.WriteString("};\n")
	return sb.String()
}

func isVoid(returnType string) bool {
	return returnType == "" || returnType == "void"
}
