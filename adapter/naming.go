package adapter

import (
	"slices"
	"strings"
	"unicode"
)

// builtinTypes maps C++ builtin and standard types to their Python type.
var builtinTypes = map[string]string{
	"void":               "None",
	"bool":               "bool",
	"char":               "int",
	"signed char":        "int",
	"unsigned char":      "int",
	"short":              "int",
	"unsigned short":     "int",
	"int":                "int",
	"unsigned":           "int",
	"unsigned int":       "int",
	"long":               "int",
	"unsigned long":      "int",
	"long long":          "int",
	"unsigned long long": "int",
	"size_t":             "int",
	"ssize_t":            "int",
	"int8_t":             "int",
	"uint8_t":            "int",
	"int16_t":            "int",
	"uint16_t":           "int",
	"int32_t":            "int",
	"uint32_t":           "int",
	"int64_t":            "int",
	"uint64_t":           "int",
	"float":              "float",
	"double":             "float",
	"long double":        "float",
	"std::string":        "str",
	"std::string_view":   "str",
	"py::array":          "np.ndarray",
	"py::object":         "object",
}

// qualifiers carry no meaning in Python and are dropped from types.
var qualifiers = []string{"const", "volatile", "static", "inline", "extern", "virtual", "constexpr", "struct", "class", "enum", "typename"}

var pythonKeywords = []string{
	"False", "None", "True", "and", "as", "assert", "async", "await", "break",
	"class", "continue", "def", "del", "elif", "else", "except", "finally",
	"for", "from", "global", "if", "import", "in", "is", "lambda", "nonlocal",
	"not", "or", "pass", "raise", "return", "try", "while", "with", "yield",
}

func FunctionNameToPython(name string, opts *Options) string {
	if opts.NamesToSnakeCase {
		name = toSnakeCase(name)
	}
	return name
}

// VarNameToPython returns the Python name of a C++ variable or parameter.
// Python keywords get a trailing underscore.
func VarNameToPython(name string, opts *Options) string {
	if opts.NamesToSnakeCase {
		name = toSnakeCase(name)
	}
	if slices.Contains(pythonKeywords, name) {
		name += "_"
	}
	return name
}

// TypeToPython converts a C++ type to the type shown in the Python stub.
func TypeToPython(cppType string, opts *Options) string {
	t := cleanType(cppType, opts.APIPrefixes)

	if strings.ReplaceAll(t, " ", "") == "char*" {
		return "str"
	}
	t = strings.TrimRight(t, " *&")

	if name, args, ok := splitTemplate(t); ok {
		conv := func(i int) string { return TypeToPython(args[i], opts) }
		switch name {
		case "std::vector", "std::list", "std::deque", "std::array":
			return "List[" + conv(0) + "]"
		case "std::map", "std::unordered_map":
			if len(args) == 2 {
				return "Dict[" + conv(0) + ", " + conv(1) + "]"
			}
		case "std::optional":
			return "Optional[" + conv(0) + "]"
		case "std::pair", "std::tuple":
			parts := make([]string, len(args))
			for i := range args {
				parts[i] = conv(i)
			}
			return "Tuple[" + strings.Join(parts, ", ") + "]"
		case "std::function":
			return "Callable"
		}
	}

	if py, ok := builtinTypes[t]; ok {
		return py
	}
	return strings.ReplaceAll(t, "::", ".")
}

func ValueToPython(value string, opts *Options) string {
	v := strings.TrimSpace(value)
	switch v {
	case "true":
		return "True"
	case "false":
		return "False"
	case "nullptr", "NULL":
		return "None"
	case "std::string()", `std::string("")`:
		return `""`
	}

	if isNumber(v) && !strings.HasPrefix(v, "0x") && !strings.HasPrefix(v, "0X") {
		v = strings.TrimRight(v, "fFuUlL")
	}
	return strings.ReplaceAll(v, "::", ".")
}

// IsBoxable reports whether a C++ type is immutable in Python, so that a
// mutable array of it must be passed as boxed values.
func IsBoxable(cppType string) bool {
	switch builtinTypes[cleanType(cppType, nil)] {
	case "int", "float", "bool", "str":
		return true
	}
	return false
}

func BoxedTypeName(cppType string) string {
	t := strings.TrimPrefix(cleanType(cppType, nil), "std::")
	words := strings.FieldsFunc(t, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var sb strings.Builder
	sb.WriteString("Boxed")
	for _, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		sb.WriteString(string(rs))
	}
	return sb.String()
}

// =============================================================================

// cleanType drops the qualifiers and API markers of a type and normalizes
// its spacing.
func cleanType(t string, apiPrefixes []string) string {
	var words []string
	for _, w := range strings.Fields(t) {
		if slices.Contains(qualifiers, w) || slices.Contains(apiPrefixes, w) {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// splitTemplate splits "std::map<int, std::vector<int>>" into its name and
// its top-level arguments.
func splitTemplate(t string) (string, []string, bool) {
	open := strings.Index(t, "<")
	if open < 0 || !strings.HasSuffix(t, ">") {
		return "", nil, false
	}

	inner := t[open+1 : len(t)-1]
	var args []string
	depth, start := 0, 0
	for i, r := range inner {
		switch r {
		case '<', '(':
			depth++
		case '>', ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(inner[start:]))

	return strings.TrimSpace(t[:open]), args, true
}

func isNumber(v string) bool {
	v = strings.TrimPrefix(v, "-")
	if v == "" {
		return false
	}
	return unicode.IsDigit(rune(v[0])) || (v[0] == '.' && len(v) > 1 && unicode.IsDigit(rune(v[1])))
}

// toSnakeCase converts "ConstArray2Add" to "const_array2_add" and
// "HTTPServer" to "http_server".
func toSnakeCase(s string) string {
	rs := []rune(s)

	var sb strings.Builder
	for i, r := range rs {
		if !unicode.IsUpper(r) {
			sb.WriteRune(r)
			continue
		}
		if i > 0 && rs[i-1] != '_' {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteRune('_')
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}
