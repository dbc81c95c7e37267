package adapter

import "slices"

// BoxedType is a single-field struct that lets Python pass an immutable
// value (int, float, bool, str) by reference.
type BoxedType struct {
	Name    string
	CppType string
}

func NewBoxedType(cppType string) BoxedType {
	t := cleanType(cppType, nil)
	return BoxedType{Name: BoxedTypeName(t), CppType: t}
}

func (b BoxedType) PythonType() string {
	return builtinTypes[b.CppType]
}

// AppendBoxed appends the boxed types of add that are not in list yet,
// keeping first use order.
func AppendBoxed(list []BoxedType, add ...BoxedType) []BoxedType {
	for _, b := range add {
		if !slices.Contains(list, b) {
			list = append(list, b)
		}
	}
	return list
}
