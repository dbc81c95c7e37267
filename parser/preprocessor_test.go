package parser_test

import (
	"strings"
	"testing"

	"github.com/ardanlabs/bindgen/internal/testutil"
	"github.com/ardanlabs/bindgen/parser"
)

func directive(name, arg string) string {
	s := `<cpp:` + name + `>#<cpp:directive>` + name + `</cpp:directive>`
	if arg != "" {
		s += ` <name>` + arg + `</name>`
	}
	return s + `</cpp:` + name + `>`
}

func intDecl(name string) string {
	return `<decl_stmt><decl>` + intType + ` <name>` + name + `</name></decl>;</decl_stmt>`
}

func declNames(unit *parser.Unit) []string {
	var names []string
	parser.Walk(unit, func(n parser.Node, _ []parser.Node) bool {
		switch n := n.(type) {
		case *parser.Decl:
			names = append(names, n.Name)
		case *parser.FunctionDecl:
			names = append(names, n.Name)
		}
		return true
	})
	return names
}

func TestPreprocessorRegions(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			"ifdef region is dropped",
			directive("ifdef", "X") + "\n" + intDecl("a") + "\n" + directive("endif", "") + "\n" + intDecl("b"),
			[]string{"b"},
		},
		{
			"inclusion guard is kept",
			directive("ifndef", "MY_HEADER_H") + "\n" + directive("define", "MY_HEADER_H") + "\n" +
				intDecl("a") + "\n" + functionDecl("f") + "\n" + directive("endif", ""),
			[]string{"a", "f"},
		},
		{
			"hpp guard is kept",
			directive("ifndef", "widget_hpp") + "\n" + intDecl("a") + "\n" + directive("endif", ""),
			[]string{"a"},
		},
		{
			"other ifndef is dropped",
			directive("ifndef", "NO_EXTRAS") + "\n" + intDecl("a") + "\n" + directive("endif", "") + "\n" + intDecl("b"),
			[]string{"b"},
		},
		{
			"both branches are dropped",
			directive("ifdef", "WIN32") + "\n" + intDecl("a") + "\n" + directive("else", "") + "\n" + intDecl("b") + "\n" +
				directive("endif", "") + "\n" + intDecl("c"),
			[]string{"c"},
		},
		{
			"nested regions inside a guard",
			directive("ifndef", "LIB_H") + "\n" + directive("if", "") + "\n" + directive("ifdef", "Y") + "\n" +
				intDecl("a") + "\n" + directive("endif", "") + "\n" + intDecl("b") + "\n" + directive("endif", "") + "\n" +
				intDecl("c") + "\n" + directive("endif", ""),
			[]string{"c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := mustParse(t, tt.body)
			got := declNames(unit)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPreprocessorFilterIsBalanced(t *testing.T) {
	body := directive("ifdef", "X") + intDecl("a") + directive("endif", "") +
		directive("ifdef", "X") + intDecl("a") + directive("endif", "")

	unit := mustParse(t, body)
	if len(unit.Children) != 0 {
		t.Errorf("expected no children, got %v", unit.Children)
	}

	tree := testutil.Tree(t, body)
	var f parser.PreprocessorFilter
	for _, c := range tree.Root.Children {
		f.Process(c)
	}
	if f.Depth() != 0 || f.Suppressed() || f.Unbalanced() {
		t.Errorf("got depth %d after two balanced regions", f.Depth())
	}
}

func TestPreprocessorFilterProcess(t *testing.T) {
	tree := testutil.Tree(t, directive("ifndef", "A_H")+directive("ifdef", "B")+intDecl("x")+directive("endif", "")+directive("endif", "")+directive("endif", ""))
	nodes := tree.Root.Children

	var f parser.PreprocessorFilter
	steps := []struct {
		consumed   bool
		depth      int
		suppressed bool
	}{
		{true, 0, false},
		{true, 1, true},
		{false, 1, true},
		{true, 0, false},
		{true, -1, false},
		{true, -2, false},
	}

	for i, s := range steps {
		if got := f.Process(nodes[i]); got != s.consumed {
			t.Errorf("step %d: got consumed %v, want %v", i, got, s.consumed)
		}
		if f.Depth() != s.depth || f.Suppressed() != s.suppressed {
			t.Errorf("step %d: got depth %d suppressed %v", i, f.Depth(), f.Suppressed())
		}
	}
	if !f.Unbalanced() {
		t.Error("expected the filter to be unbalanced")
	}
}

func TestUnbalancedEndifIsLogged(t *testing.T) {
	unit, logs := parseLogged(t, directive("endif", "")+directive("endif", "")+intDecl("a"))

	if got := declNames(unit); len(got) != 1 || got[0] != "a" {
		t.Errorf("got %v", got)
	}
	if !strings.Contains(logs.String(), "unbalanced #endif") {
		t.Errorf("expected a warning, got: %s", logs.String())
	}
}

func TestEveryStrayEndifIsLogged(t *testing.T) {
	body := directive("ifndef", "MYLIB_H") + intDecl("a") +
		directive("endif", "") + directive("endif", "") + directive("endif", "") + directive("endif", "")

	unit, logs := parseLogged(t, body)

	if got := declNames(unit); len(got) != 1 || got[0] != "a" {
		t.Errorf("got %v", got)
	}
	if n := strings.Count(logs.String(), "unbalanced #endif"); n != 3 {
		t.Errorf("got %d warnings, want 3:\n%s", n, logs.String())
	}
}
