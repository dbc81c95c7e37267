package parser

import (
	"errors"

	"github.com/ardanlabs/bindgen/srcml"
)

type blockParser func(p *parser, n *srcml.Node) (Node, error)

// blockParsers maps the tags accepted inside a block to their parser. It is
// filled by init since the block parsers recurse into blocks.
var blockParsers map[string]blockParser

// ignoredBlockTags are skipped silently: preprocessor directives, forward
// declarations, typedefs, destructors and empty statements.
var ignoredBlockTags = map[string]bool{
	"empty_stmt":      true,
	"pragma":          true,
	"include":         true,
	"macro":           true,
	"define":          true,
	"undef":           true,
	"line":            true,
	"error":           true,
	"warning":         true,
	"empty":           true,
	"struct_decl":     true,
	"class_decl":      true,
	"union_decl":      true,
	"enum_decl":       true,
	"typedef":         true,
	"using":           true,
	"friend":          true,
	"destructor":      true,
	"destructor_decl": true,
}

// skippableBlockTags are the tags whose parse errors only drop the node,
// with a warning, instead of failing the whole unit.
var skippableBlockTags = map[string]bool{
	"function":      true,
	"function_decl": true,
}

func init() {
	blockParsers = map[string]blockParser{
		"decl_stmt":        asNode((*parser).parseDeclStmt),
		"decl":             asNode((*parser).parseDeclNode),
		"function_decl":    asNode((*parser).parseFunctionDecl),
		"function":         asNode((*parser).parseFunction),
		"constructor_decl": asNode((*parser).parseConstructorDecl),
		"constructor":      asNode((*parser).parseConstructor),
		"comment":          asNode((*parser).parseComment),
		"struct":           asNode((*parser).parseStruct),
		"class":            asNode((*parser).parseStruct),
		"namespace":        asNode((*parser).parseNamespace),
		"enum":             asNode((*parser).parseEnum),
		"expr_stmt":        asNode((*parser).parseExprStmt),
		"return":           asNode((*parser).parseReturn),
		"block_content":    asNode((*parser).parseBlockContent),
		"public":           asNode((*parser).parseAccessRegion),
		"protected":        asNode((*parser).parseAccessRegion),
		"private":          asNode((*parser).parseAccessRegion),
	}
}

// asNode turns a typed parse routine into a blockParser, taking care not to
// return a typed nil on error.
func asNode[T Node](f func(*parser, *srcml.Node) (T, error)) blockParser {
	return func(p *parser, n *srcml.Node) (Node, error) {
		r, err := f(p, n)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// =============================================================================

func (p *parser) parseUnit(n *srcml.Node) (*Unit, error) {
	if err := p.expectTag("parseUnit", n, "unit"); err != nil {
		return nil, err
	}

	result := &Unit{Tree: p.tree, Filename: p.filename}
	p.fillElement(n, &result.Element)
	if err := p.fillBlock(n, &result.Block); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *parser) parseBlock(n *srcml.Node) (*Block, error) {
	if err := p.expectTag("parseBlock", n, "block"); err != nil {
		return nil, err
	}

	result := &Block{}
	p.fillElement(n, &result.Element)
	if err := p.fillBlock(n, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *parser) parseBlockContent(n *srcml.Node) (*BlockContent, error) {
	if err := p.expectTag("parseBlockContent", n, "block_content"); err != nil {
		return nil, err
	}

	result := &BlockContent{}
	p.fillElement(n, &result.Element)
	if err := p.fillBlock(n, &result.Block); err != nil {
		return nil, err
	}

	return result, nil
}

// parseAccessRegion parses a public, protected or private region. srcml
// marks the region a struct or class starts with as type="default".
func (p *parser) parseAccessRegion(n *srcml.Node) (*AccessRegion, error) {
	if err := p.expectTag("parseAccessRegion", n, "public", "protected", "private"); err != nil {
		return nil, err
	}

	result := &AccessRegion{Access: n.Tag()}
	if v, ok := n.Attr("type"); ok && v == "default" {
		result.Implicit = true
	}
	p.fillElement(n, &result.Element)
	if err := p.fillBlock(n, &result.Block); err != nil {
		return nil, err
	}

	return result, nil
}

// fillBlock parses the children of a block-like srcml node into b.
func (p *parser) fillBlock(n *srcml.Node, b *Block) error {
	var filter PreprocessorFilter

	for _, c := range n.Children {
		tag := c.Tag()

		if filter.Process(c) {
			if tag == "endif" && filter.Unbalanced() {
				p.log.Warn("unbalanced #endif", "file", p.filename, "position", nodeStart(c))
			}
			continue
		}
		if filter.Suppressed() || ignoredBlockTags[tag] {
			continue
		}

		parse, ok := blockParsers[tag]
		if !ok {
			p.log.Warn("unhandled tag in block",
				"file", p.filename,
				"tag", tag,
				"position", nodeStart(c),
				"code", p.render(c),
			)
			continue
		}

		child, err := parse(p, c)
		if err != nil {
			var perr *ParseError
			if skippableBlockTags[tag] && errors.As(err, &perr) {
				p.log.Warn("a function was ignored", "file", p.filename, "error", perr.Error())
				continue
			}
			return err
		}

		b.Children = append(b.Children, child)
	}

	return nil
}
