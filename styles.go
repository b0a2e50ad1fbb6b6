package xssfilter

import (
	"strings"

	"github.com/dsh2dsh/xssfilter/css"
)

type (
	// StyleParser parses CSS of style elements and attributes.
	StyleParser = css.Parser

	// Stylesheet is a result of [StyleParser].
	Stylesheet = css.Stylesheet
)

// ValidStyle reports whether text is safe content of a style element. Empty
// text, CSS expressions, @import directives and CSS we can't parse are not
// safe.
func (self *Policy) ValidStyle(text string) bool {
	self.init()
	return self.validStyle(text, false)
}

// ValidInlineStyle reports whether value is safe value of a style attribute.
func (self *Policy) ValidInlineStyle(value string) bool {
	self.init()
	return self.validStyle(value, true)
}

func (self *Policy) validStyle(text string, inline bool) (valid bool) {
	if strings.TrimSpace(text) == "" {
		return false
	}

	// The parser doesn't recognize expression() as invalid.
	if inline {
		if hasExpressionOrImport(strings.ToLower(text)) {
			return false
		}
	} else if hasExpression(text) {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			self.log.WithField("panic", r).Debug("xssfilter: css parser panicked")
			valid = false
		}
	}()

	var ss Stylesheet
	var err error
	if inline {
		ss, err = self.styleParser.ParseDeclarations(text)
	} else {
		ss, err = self.styleParser.ParseStylesheet(text)
	}

	if err != nil {
		self.log.WithError(err).Debug("xssfilter: invalid style")
		return false
	}
	return ss != nil && ss.ImportCount() == 0
}
