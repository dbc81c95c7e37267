package generator_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ardanlabs/bindgen/adapter"
	"github.com/ardanlabs/bindgen/generator"
	"github.com/ardanlabs/bindgen/internal/testutil"
	"github.com/ardanlabs/bindgen/parser"
)

const (
	stubFile  = "mylib.pyi"
	pydefFile = "pybind_mylib.cpp"
)

// generate runs the generator on testdata/mylib.h.xml.
func generate(t *testing.T, opts *adapter.Options) (map[string]string, *bytes.Buffer) {
	t.Helper()

	logger, logs := testutil.CaptureLogger()
	tree := testutil.LoadTree(t, "../testdata/mylib.h.xml")

	unit, err := parser.Parse(tree, parser.Options{Filename: "testdata/mylib.h", Logger: logger})
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	files, err := generator.New("mylib", unit, opts, logger).Generate()
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	return files, logs
}

func assertContains(t *testing.T, code string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(code, want) {
			t.Errorf("missing:\n%s\n\nin:\n%s", want, code)
		}
	}
}

func assertNotContains(t *testing.T, code string, unwanted ...string) {
	t.Helper()
	for _, s := range unwanted {
		if strings.Contains(code, s) {
			t.Errorf("unexpected %q in:\n%s", s, code)
		}
	}
}

func TestGenerateFiles(t *testing.T) {
	files, _ := generate(t, nil)

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	for _, name := range []string{stubFile, pydefFile} {
		if files[name] == "" {
			t.Errorf("missing file %s", name)
		}
	}
}

func TestStub(t *testing.T) {
	files, _ := generate(t, nil)
	stub := files[stubFile]

	tests := []struct {
		name string
		want string
	}{
		{"preamble", "# Generated by bindgen from mylib.h. Do not edit."},
		{"imports", "from typing import Callable, Dict, List, Optional, Tuple\n\nimport numpy as np\n"},
		{"function", "def add(a: int, b: int = 2) -> int:\n    \"\"\"Adds two numbers.\"\"\"\n    pass\n"},
		{"buffer", "def normalize(data: np.ndarray) -> None:\n"},
		{"arrays", "def get_min_max(values: List[float], out_0: BoxedDouble, out_1: BoxedDouble) -> None:\n"},
		{"variadic", "def log(level: int, fmt: str) -> None:\n"},
		{"string list", "def count_names(names: List[str]) -> int:\n"},
		{"boxed", "class BoxedDouble:\n    value: float\n    def __init__(self, v: float = 0.0) -> None:\n"},
		{"struct", "class Point:\n    \"\"\"A point in the plane.\"\"\"\n    x: float = 0.\n    \"\"\"Horizontal position.\"\"\"\n    y: float\n"},
		{"named constructor", "    def __init__(self, x: float = 0., y: float = float()) -> None:\n"},
		{"method", "    def norm(self) -> float:\n"},
		{"static method", "    @staticmethod\n    def origin() -> Point:\n"},
		{"enum", "class Color(enum.Enum):\n    red = enum.auto()\n    green = 4\n"},
		{"constructor", "class Counter:\n    def __init__(self, start: int) -> None:\n"},
		{"method default", "    def increment(self, step: int = 1) -> None:\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContains(t, stub, tt.want)
		})
	}

	assertNotContains(t, stub, "def max(", "value_")
}

func TestPydef(t *testing.T) {
	files, _ := generate(t, nil)
	code := files[pydefFile]

	tests := []struct {
		name  string
		wants []string
	}{
		{"preamble", []string{
			"// Generated by bindgen from mylib.h. Do not edit.",
			"#include <pybind11/numpy.h>\n\n#include \"mylib.h\"\n\nnamespace py = pybind11;\n",
			"void py_init_module_mylib(py::module& m)\n{\n",
			"PYBIND11_MODULE(mylib, m)\n{\n    py_init_module_mylib(m);\n}\n",
		}},
		{"boxed", []string{
			"struct BoxedDouble\n{\n    double value;\n    BoxedDouble(double v = {}) : value(v) {}\n",
			`py::class_<BoxedDouble>(m, "BoxedDouble", "")`,
			`.def(py::init<double>(), py::arg("v") = decltype(BoxedDouble::value){})`,
		}},
		{"function", []string{
			"    m.def(\"add\",\n        [](int a, int b = 2)\n        {\n            return Add(a, b);\n        },\n        py::arg(\"a\"), py::arg(\"b\") = 2,\n        \"Adds two numbers.\");\n",
		}},
		{"buffer", []string{
			"auto Normalize_adapt_c_buffers = [](py::array & data)\n",
			"Normalize(static_cast<uint8_t *>(data_from_pyarray), static_cast<size_t>(data_count));",
			"            Normalize_adapt_c_buffers(data);\n",
		}},
		{"arrays", []string{
			"[](const std::array<double, 3> & values, BoxedDouble & out_0, BoxedDouble & out_1)",
			"GetMinMax_adapt_fixed_size_c_arrays(values, out_0, out_1);",
		}},
		{"variadic", []string{
			`Log(level, "%s", fmt);`,
			"Log_adapt_variadic_format(level, fmt);",
		}},
		{"string list", []string{
			"return CountNames_adapt_c_string_list(names);",
		}},
		{"struct", []string{
			`py::class_<geo::Point>(m, "Point", "A point in the plane.")`,
			".def(py::init<>([](double x = 0., double y = decltype(geo::Point::y){})\n",
			"r_ctor_->y = y;",
			`py::arg("x") = 0., py::arg("y") = decltype(geo::Point::y){})`,
			`.def_readwrite("x", &geo::Point::x, "Horizontal position.")`,
			`.def_readwrite("y", &geo::Point::y, "")`,
		}},
		{"methods", []string{
			"[](const geo::Point & self)",
			"return self.Norm();",
			`.def_static("origin",`,
			"return geo::Point::Origin();",
		}},
		{"enum", []string{
			`py::enum_<geo::Color>(m, "Color", py::arithmetic(), "")`,
			`.value("red", geo::Color::Red, "")`,
			`.value("green", geo::Color::Green, "")`,
		}},
		{"class", []string{
			`py::class_<Counter>(m, "Counter", "")`,
			`.def(py::init<int>(), py::arg("start"))`,
			"[](Counter & self, int step = 1)",
			"self.Increment(step);",
			"[](const Counter & self)",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertContains(t, code, tt.wants...)
		})
	}

	assertNotContains(t, code, `m.def("max"`, "value_", "py::init<const Counter &>")
}

func TestSkippedDeclarationsAreLogged(t *testing.T) {
	_, logs := generate(t, nil)

	assertContains(t, logs.String(), "template function skipped", "function=Max")
}

func TestAdapterToggles(t *testing.T) {
	opts := adapter.DefaultOptions()
	opts.AdaptVariadicFormat = false
	opts.AdaptCBuffers = false

	files, logs := generate(t, opts)

	assertContains(t, logs.String(), "function skipped", "function=Log")
	assertNotContains(t, files[stubFile], "def log(")
	assertContains(t, files[stubFile], "def normalize(data: int, count: int) -> None:")
	assertNotContains(t, files[pydefFile], "Normalize_adapt_c_buffers")
}

func TestGenerateWithoutFilename(t *testing.T) {
	tree := testutil.Tree(t, `<function_decl><type><name>void</name></type> <name>Reset</name><parameter_list>()</parameter_list>;</function_decl>`)
	unit, err := parser.Parse(tree, parser.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	files, err := generator.New("reset", unit, nil, nil).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	code := files["pybind_reset.cpp"]
	assertContains(t, code, "// Generated by bindgen from srcml input.", "            Reset();\n")
	assertNotContains(t, code, "#include \"")
	assertContains(t, files["reset.pyi"], "def reset() -> None:\n    pass\n")
}
