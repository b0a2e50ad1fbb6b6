package xssfilter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsh2dsh/xssfilter/css"
)

type stubParser struct {
	err     error
	imports int
	panics  bool
	calls   int
}

var _ StyleParser = (*stubParser)(nil)

func (self *stubParser) parse() (css.Stylesheet, error) {
	self.calls++
	if self.panics {
		panic("stub parser")
	}
	if self.err != nil {
		return nil, self.err
	}
	return self, nil
}

func (self *stubParser) ParseStylesheet(string) (css.Stylesheet, error) {
	return self.parse()
}

func (self *stubParser) ParseDeclarations(string) (css.Stylesheet, error) {
	return self.parse()
}

func (self *stubParser) ImportCount() int { return self.imports }

func TestPolicy_ValidStyle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{name: "empty", text: ""},
		{name: "spaces", text: " \t\n"},
		{name: "valid", text: "div { color: red; }", expected: true},
		{
			name:     "data uri",
			text:     "div { background-image: url('" + dataURIImage + "') }",
			expected: true,
		},
		{name: "expression", text: "div { color: expression(alert(1)) }"},
		{name: "expression spaces", text: "div { color :\n EXPRESSION\t( alert(1) ) }"},
		{name: "import", text: "@import url('external-stylesheet.css');"},
		{name: "nested import", text: "@media print { @import url('x.css'); }"},
	}

	p := NewPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ValidStyle(tt.text))
		})
	}
}

func TestPolicy_ValidInlineStyle(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{name: "empty", value: ""},
		{name: "valid", value: "color: red;", expected: true},
		{name: "no semicolon", value: "color: red; margin: 0 ", expected: true},
		{name: "expression", value: "color: expression(alert('xss'))"},
		{name: "import", value: "@import url('external-stylesheet.css')"},
		{name: "import upper", value: "@IMPORT url('x.css')"},
	}

	p := NewPolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ValidInlineStyle(tt.value))
		})
	}
}

func TestPolicy_WithStyleParser(t *testing.T) {
	stub := &stubParser{}
	p := NewPolicy().WithStyleParser(stub)

	assert.True(t, p.ValidStyle("anything"))
	assert.Equal(t, 1, stub.calls)

	// expression is rejected without asking the parser
	assert.False(t, p.ValidStyle("a { b: expression(c) }"))
	assert.False(t, p.ValidStyle(""))
	assert.Equal(t, 1, stub.calls)

	stub.imports = 1
	assert.False(t, p.ValidStyle("anything"))
	assert.False(t, p.ValidInlineStyle("anything"))

	stub.imports = 0
	stub.err = errors.New("parse error")
	assert.False(t, p.ValidStyle("anything"))
	assert.Equal(t,
		`<div>x</div>`, p.Sanitize(`<style>a{}</style><div style="a: b">x</div>`))

	stub.err = nil
	stub.panics = true
	assert.False(t, p.ValidStyle("anything"))
	assert.Equal(t, `<p>x</p>`, p.Sanitize(`<style>a{}</style><p>x</p>`))

	// nil parser keeps the current one
	assert.Same(t, p, p.WithStyleParser(nil))
	assert.False(t, p.ValidInlineStyle("anything"))
}

func TestLexicalClassifiers(t *testing.T) {
	assert.True(t, hasScriptLinks("javascript:alert(1)"))
	assert.True(t, hasScriptLinks("x vbscript:msgbox"))
	assert.False(t, hasScriptLinks("JAVASCRIPT:alert(1)"), "expects lower case")
	assert.False(t, hasScriptLinks("javascript alert"))

	assert.True(t, hasExpressionOrImport("color: expression(1)"))
	assert.True(t, hasExpressionOrImport("x:expression  (1)"))
	assert.True(t, hasExpressionOrImport("@import 'a.css'"))
	assert.False(t, hasExpressionOrImport("expression(1)"))
	assert.False(t, hasExpressionOrImport("color: red"))

	p := NewPolicy()
	assert.True(t, p.isBlacklistedMimeType(" Text/JavaScript "))
	assert.True(t, p.isBlacklistedMimeType("javascript"))
	assert.False(t, p.isBlacklistedMimeType("text/css"))
	assert.False(t, p.isBlacklistedMimeType("text/javascript; charset=utf-8"))
}
