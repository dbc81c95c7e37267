package srcml_test

import (
	"strings"
	"testing"

	"github.com/ardanlabs/bindgen/srcml"
)

const unitDoc = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<unit xmlns="http://www.srcML.org/srcML/src" xmlns:cpp="http://www.srcML.org/srcML/cpp" xmlns:pos="http://www.srcML.org/srcML/position" revision="1.0.0" language="C++" pos:tabs="8"><cpp:ifndef pos:start="1:1" pos:end="1:16">#<cpp:directive>ifndef</cpp:directive> <name>MY_H</name></cpp:ifndef>
<decl_stmt pos:start="2:1" pos:end="2:23"><decl><type><name>int</name></type> <name>a</name> <init>= <expr><literal type="number">1</literal> <operator>&lt;&lt;</operator> <literal type="number">20</literal></expr></init></decl>;</decl_stmt>
<cpp:endif>#<cpp:directive>endif</cpp:directive></cpp:endif>
</unit>
`

func TestCleanTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"decl_stmt", "decl_stmt"},
		{"{http://www.srcML.org/srcML/src}decl_stmt", "decl_stmt"},
		{"{http://www.srcML.org/srcML/cpp}ifndef", "ifndef"},
		{"ns0:decl", "decl"},
		{"ns12:type", "type"},
		{"cpp:if", "cpp:if"},
		{"nsx:type", "nsx:type"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := srcml.CleanTag(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tree, err := srcml.DecodeString(unitDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Root.Tag() != "unit" {
		t.Fatalf("got root %q, want unit", tree.Root.Tag())
	}
	if len(tree.Root.Children) != 3 {
		t.Fatalf("got %d children, want 3", len(tree.Root.Children))
	}

	ifndef := tree.Root.Children[0]
	if ifndef.Tag() != "ifndef" {
		t.Errorf("got tag %q, want ifndef", ifndef.Tag())
	}
	if ifndef.Name.Space != srcml.NamespaceCpp {
		t.Errorf("got namespace %q, want cpp namespace", ifndef.Name.Space)
	}
	start, ok := ifndef.Attr("start")
	if !ok || start != "1:1" {
		t.Errorf("got start %q (%v), want 1:1", start, ok)
	}

	for i, n := range tree.Nodes {
		if n.ID != srcml.Ref(i) {
			t.Fatalf("node %d has ID %d", i, n.ID)
		}
		if tree.Node(n.ID) != n {
			t.Fatalf("node %d not found by handle", i)
		}
	}
	if tree.Node(srcml.NoRef) != nil {
		t.Error("expected nil node for NoRef")
	}
}

func TestRenderRoundTrip(t *testing.T) {
	tree, err := srcml.DecodeString(unitDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	declStmt := tree.Root.Children[1]
	if got, want := srcml.Render(declStmt), "int a = 1 << 20;"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	code := srcml.Render(tree.Root)
	for _, want := range []string{"#ifndef MY_H", "int a = 1 << 20;", "#endif"} {
		if !strings.Contains(code, want) {
			t.Errorf("expected %q in rendered unit, got:\n%s", want, code)
		}
	}

	expr, err := declStmt.Children[0].ChildWithTag("init")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tree.Render(expr.ID); got != "= 1 << 20" {
		t.Errorf("got %q, want %q", got, "= 1 << 20")
	}
}

func TestHasText(t *testing.T) {
	tree, err := srcml.DecodeString(`<unit xmlns="http://www.srcML.org/srcML/src"><type><name><name>std</name><operator>::</operator><name>string</name></name></type><type><name>int</name></type></unit>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	composed := tree.Root.Children[0].Children[0]
	if composed.HasText() {
		t.Error("composed name should have no direct text")
	}
	if got := srcml.Render(composed); got != "std::string" {
		t.Errorf("got %q, want std::string", got)
	}

	simple := tree.Root.Children[1].Children[0]
	if !simple.HasText() || simple.Text != "int" {
		t.Errorf("got text %q, want int", simple.Text)
	}
}

func TestChildWithTag(t *testing.T) {
	tree, err := srcml.DecodeString(`<unit xmlns="http://www.srcML.org/srcML/src"><decl><type><name>int</name></type> <name>a</name></decl></unit>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decl := tree.Root.Children[0]

	if _, err := decl.ChildWithTag("type"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = decl.ChildWithTag("init")
	if err == nil || !strings.Contains(err.Error(), `"type", "name"`) {
		t.Errorf("expected error listing found tags, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	tree, err := srcml.DecodeString(unitDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := srcml.Encode(tree.Root.Children[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := srcml.Decode(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("re-decoding %s: %v", data, err)
	}
	if got := srcml.Render(back.Root); got != "#ifndef MY_H" {
		t.Errorf("got %q, want %q", got, "#ifndef MY_H")
	}
	if back.Root.Name.Space != srcml.NamespaceCpp {
		t.Errorf("got namespace %q, want cpp namespace", back.Root.Name.Space)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []string{
		"",
		"<unit><decl></unit>",
	}
	for _, doc := range tests {
		if _, err := srcml.DecodeString(doc); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}
}
