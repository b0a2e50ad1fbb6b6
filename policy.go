// Copyright (c) 2014, David Kitchen <david@buro9.com>
//
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
//
// * Redistributions of source code must retain the above copyright notice, this
//   list of conditions and the following disclaimer.
//
// * Redistributions in binary form must reproduce the above copyright notice,
//   this list of conditions and the following disclaimer in the documentation
//   and/or other materials provided with the distribution.
//
// * Neither the name of the organisation (Microcosm) nor the names of its
//   contributors may be used to endorse or promote products derived from
//   this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
// FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
// DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
// CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
// OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

package xssfilter

import (
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dsh2dsh/xssfilter/css"
)

var (
	// defaultBlacklistedTags are removed together with everything inside them.
	defaultBlacklistedTags = newSet(
		// document level
		"head", "link", "meta", "base", "form", "script",
		// embeddables
		"applet", "object", "embed",
		// frames
		"frameset", "frame", "iframe",
		// layers
		"layer", "ilayer",
	)

	// defaultBlacklistedMimeTypes make the element carrying them in a type
	// attribute to be removed.
	defaultBlacklistedMimeTypes = newSet(
		"text/javascript",
		"text/ecmascript",
		"application/ecmascript",
		"application/javascript",
		"text/vbscript",
		"javascript",
	)

	discardLogger = &logrus.Logger{
		Out:       io.Discard,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.PanicLevel,
	}
)

func newSet(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, s := range values {
		m[strings.ToLower(s)] = struct{}{}
	}
	return m
}

// Policy encapsulates the blacklist of HTML elements and MIME types, which
// will be removed from the sanitised HTML, together with event handler
// attributes, script links and unsafe styles.
//
// You should use xssfilter.NewPolicy() to create a policy. A Policy{} created
// directly is initialized with the default blacklists on first use.
//
// A Policy is safe for concurrent use by multiple goroutines, as long as it's
// not modified after the first call of Sanitize.
type Policy struct {
	// Declares whether the maps have been initialized, used as a cheap check to
	// ensure that those using Policy{} directly won't cause nil pointer
	// exceptions
	initialized bool

	// tags is a set of lower cased element names removed with their content.
	tags map[string]struct{}

	// mimeTypes is a set of lower cased values of type attribute, which make
	// the whole element removed.
	mimeTypes map[string]struct{}

	// styleParser parses content of style elements and attributes. Style
	// content it fails to parse is removed.
	styleParser StyleParser

	log logrus.FieldLogger
}

// init initializes the maps if this has not been done already
func (self *Policy) init() {
	if self.initialized {
		return
	}

	self.tags = maps.Clone(defaultBlacklistedTags)
	self.mimeTypes = maps.Clone(defaultBlacklistedMimeTypes)
	if self.styleParser == nil {
		self.styleParser = css.NewParser()
	}
	if self.log == nil {
		self.log = discardLogger
	}
	self.initialized = true
}

// NewPolicy returns a policy with default blacklists of elements and MIME
// types. Use BlockElements() and BlockMimeTypes() to extend them.
func NewPolicy() *Policy {
	p := Policy{}
	p.init()
	return &p
}

// BlockElements adds names of HTML elements, which will be removed with their
// content.
func (self *Policy) BlockElements(names ...string) *Policy {
	self.init()
	for _, name := range names {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			self.tags[name] = struct{}{}
		}
	}
	return self
}

// AllowElements removes names of HTML elements from the blacklist.
//
// Allowing an element like script defeats the purpose of using a HTML
// sanitizer. Use with care!
func (self *Policy) AllowElements(names ...string) *Policy {
	self.init()
	for _, name := range names {
		delete(self.tags, strings.ToLower(strings.TrimSpace(name)))
	}
	return self
}

// BlockMimeTypes adds values of type attribute, which make the element
// carrying it removed.
func (self *Policy) BlockMimeTypes(types ...string) *Policy {
	self.init()
	for _, s := range types {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			self.mimeTypes[s] = struct{}{}
		}
	}
	return self
}

// WithStyleParser replaces the default CSS parser used to validate style
// elements and attributes.
func (self *Policy) WithStyleParser(p StyleParser) *Policy {
	self.init()
	if p != nil {
		self.styleParser = p
	}
	return self
}

// WithLogger sets a logger, which receives debug messages about every removed
// element and attribute. By default nothing is logged.
func (self *Policy) WithLogger(l logrus.FieldLogger) *Policy {
	self.init()
	if l != nil {
		self.log = l
	}
	return self
}

// BlacklistedElements returns sorted names of blacklisted elements.
func (self *Policy) BlacklistedElements() []string {
	self.init()
	return slices.Sorted(maps.Keys(self.tags))
}

// BlacklistedMimeTypes returns sorted blacklisted MIME types.
func (self *Policy) BlacklistedMimeTypes() []string {
	self.init()
	return slices.Sorted(maps.Keys(self.mimeTypes))
}
