// Package css adapts CSS parsers for validating content of HTML style
// elements and attributes.
package css

import (
	"fmt"
	"strings"

	dcss "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
)

const importKeyword = "import"

// Stylesheet is a result of successfully parsed CSS.
type Stylesheet interface {
	// ImportCount returns number of @import directives found in the parsed
	// CSS.
	ImportCount() int
}

// Parser parses CSS from a style element or a style attribute. Any returned
// error means the CSS is invalid.
type Parser interface {
	// ParseStylesheet parses content of a style element.
	ParseStylesheet(text string) (Stylesheet, error)

	// ParseDeclarations parses value of a style attribute.
	ParseDeclarations(text string) (Stylesheet, error)
}

// Douceur is a [Parser] backed by github.com/aymerick/douceur.
type Douceur struct{}

var _ Parser = (*Douceur)(nil)

// NewParser returns default CSS parser.
func NewParser() *Douceur { return &Douceur{} }

func (self *Douceur) ParseStylesheet(text string) (Stylesheet, error) {
	ss, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("css: parse stylesheet: %w", err)
	}
	return &stylesheet{imports: countImportRules(ss.Rules)}, nil
}

func countImportRules(rules []*dcss.Rule) (n int) {
	for _, r := range rules {
		if r.Kind == dcss.AtRule && isImport(r.Name) {
			n++
		}
		n += countImportRules(r.Rules)
	}
	return n
}

func isImport(name string) bool {
	return strings.EqualFold(strings.TrimPrefix(name, "@"), importKeyword)
}

func (self *Douceur) ParseDeclarations(text string) (Stylesheet, error) {
	// Add semi-colon to end to fix parsing issue
	text = strings.TrimRight(text, " ")
	if len(text) > 0 && text[len(text)-1] != ';' {
		text += ";"
	}

	if _, err := parser.ParseDeclarations(text); err != nil {
		return nil, fmt.Errorf("css: parse declarations: %w", err)
	}

	// A declaration list can't hold at-rules, look for them in raw tokens.
	imports, err := scanImports(text)
	if err != nil {
		return nil, err
	}
	return &stylesheet{imports: imports}, nil
}

func scanImports(text string) (n int, err error) {
	s := scanner.New(text)
	for {
		switch t := s.Next(); t.Type {
		case scanner.TokenEOF:
			return n, nil
		case scanner.TokenError:
			return 0, fmt.Errorf("css: scan declarations: %s", t)
		case scanner.TokenAtKeyword:
			if isImport(t.Value) {
				n++
			}
		}
	}
}

type stylesheet struct {
	imports int
}

func (self *stylesheet) ImportCount() int { return self.imports }
