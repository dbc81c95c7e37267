// Package adapter wraps parsed C++ declarations with the properties needed to
// publish them to Python, and rewrites function signatures that pybind11 can
// not bind directly (C buffers, C arrays, C variadic format functions, C
// string lists) into safe ones, together with the C++ lambdas that bridge the
// safe signature to the original function.
package adapter

import "strings"

// Options configure the adaptation of declarations.
type Options struct {
	// IndentSpaces is the indentation of the generated C++ code.
	IndentSpaces int

	// AdaptCBuffers exposes a pointer/size pair as one numpy array.
	AdaptCBuffers bool

	// AdaptFixedSizeArrays exposes "const T v[N]" as a sequence and
	// "T v[N]" as N boxed or by-reference parameters.
	AdaptFixedSizeArrays bool

	// AdaptVariadicFormat exposes "const char *fmt, ..." as a single
	// string parameter.
	AdaptVariadicFormat bool

	// AdaptCStringLists exposes "const char **items, int count" as a list
	// of strings.
	AdaptCStringLists bool

	// BufferTypes are the element types accepted for C buffers.
	BufferTypes []string

	// BufferSizeTypes are the types accepted for the size of a C buffer
	// or of a C string list.
	BufferSizeTypes []string

	// FixedArrayMaxBoxedSize is the largest mutable array that is split
	// into one parameter per element.
	FixedArrayMaxBoxedSize int

	// APIPrefixes are export markers such as "MY_API" that are removed
	// from return types.
	APIPrefixes []string

	// NamesToSnakeCase converts function and parameter names to
	// snake_case in Python.
	NamesToSnakeCase bool
}

// DefaultOptions returns options with every adapter enabled.
func DefaultOptions() *Options {
	return &Options{
		IndentSpaces:           4,
		AdaptCBuffers:          true,
		AdaptFixedSizeArrays:   true,
		AdaptVariadicFormat:    true,
		AdaptCStringLists:      true,
		BufferTypes:            defaultBufferTypes(),
		BufferSizeTypes:        []string{"size_t", "int", "unsigned int", "long", "unsigned long"},
		FixedArrayMaxBoxedSize: 10,
		NamesToSnakeCase:       true,
	}
}

func (o *Options) Indent() string {
	return strings.Repeat(" ", o.IndentSpaces)
}
