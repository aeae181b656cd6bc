package parser

import (
	"context"
	"fmt"
	"os"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// ParseError reports a source file that could not be read or parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser answers structural queries over single VHDL source files.
//
// A Parser is safe to share: the underlying Tree-sitter parser is not
// reentrant, so every parse holds mu for its full duration.
type Parser struct {
	mu     sync.Mutex
	parser *sitter.Parser
	lang   *sitter.Language
}

// New creates a Parser. Without a grammar loaded via SetLanguage,
// structural queries fall back to a line-oriented scan.
func New() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// SetLanguage loads the Tree-sitter VHDL grammar.
func (p *Parser) SetLanguage(lang *sitter.Language) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lang = lang
	p.parser.SetLanguage(lang)
}

// Components returns the name of every component declared in the file,
// in declaration order. Reading is the only side effect; the file is
// never modified.
func (p *Parser) Components(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lang == nil {
		return scanComponents(content), nil
	}

	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer tree.Close()

	var names []string
	collectComponents(tree.RootNode(), content, &names)
	return names, nil
}

func collectComponents(node *sitter.Node, source []byte, names *[]string) {
	if node == nil {
		return
	}

	if node.Type() == "component_declaration" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			*names = append(*names, nameNode.Content(source))
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectComponents(node.Child(i), source, names)
	}
}
