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
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const genericErrMsg = "xssfilter: %w"

// Sanitize takes a string that contains a HTML fragment or document and
// removes everything from it, which is able to execute scripts.
//
// It returns a HTML string that has been sanitized by the policy or an empty
// string if an error has occurred.
func (self *Policy) Sanitize(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return self.sanitizeWithBuff(strings.NewReader(s)).String()
}

// SanitizeBytes takes a []byte that contains a HTML fragment or document and
// applies the given policy blacklist.
//
// It returns a []byte containing the HTML that has been sanitized by the policy
// or an empty []byte if an error has occurred.
func (self *Policy) SanitizeBytes(b []byte) []byte {
	if len(bytes.TrimSpace(b)) == 0 {
		return b
	}
	return self.sanitizeWithBuff(bytes.NewReader(b)).Bytes()
}

// SanitizeReader takes an io.Reader that contains a HTML fragment or document
// and applies the given policy blacklist.
//
// It returns a bytes.Buffer containing the HTML that has been sanitized by the
// policy. Errors during sanitization will merely return an empty result.
func (self *Policy) SanitizeReader(r io.Reader) *bytes.Buffer {
	return self.sanitizeWithBuff(r)
}

// SanitizeReaderToWriter takes an io.Reader that contains a HTML fragment or
// document and applies the given policy blacklist and writes to the provided
// writer returning an error if there is one.
func (self *Policy) SanitizeReaderToWriter(r io.Reader, w io.Writer) error {
	_, err := self.sanitize(r, w)
	return err
}

// SanitizeReaderStats is like SanitizeReaderToWriter, but also returns what
// has been changed.
func (self *Policy) SanitizeReaderStats(r io.Reader, w io.Writer,
) (Stats, error) {
	return self.sanitize(r, w)
}

// Performs the actual sanitization process.
func (self *Policy) sanitizeWithBuff(r io.Reader) *bytes.Buffer {
	buff := new(bytes.Buffer)
	if _, err := self.sanitize(r, buff); err != nil {
		return new(bytes.Buffer)
	}
	return buff
}

func (self *Policy) sanitize(r io.Reader, w io.Writer) (Stats, error) {
	self.init()

	b, err := io.ReadAll(r)
	if err != nil {
		return Stats{}, fmt.Errorf(genericErrMsg, err)
	}

	root, err := parseFragment(string(b))
	if err != nil {
		return Stats{}, err
	}
	_, stats := self.SanitizeNodeStats(root)

	buff := new(strings.Builder)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(buff, c); err != nil {
			return stats, fmt.Errorf(genericErrMsg, err)
		}
	}

	if _, err := io.WriteString(w, stripDeclaration(buff.String())); err != nil {
		return stats, fmt.Errorf(genericErrMsg, err)
	}
	return stats, nil
}

// parseFragment decodes HTML entities of s once, to prevent double encoding
// them on rendering, and parses it in context of a body element. All parsed
// nodes are children of returned document node.
func parseFragment(s string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(html.UnescapeString(s)),
		&html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return nil, fmt.Errorf(genericErrMsg, err)
	}

	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

// stripDeclaration removes leading <?xml ... ?> declaration, if s has it.
func stripDeclaration(s string) string {
	if !strings.HasPrefix(strings.TrimLeftFunc(s, unicode.IsSpace), "<?") {
		return s
	}

	if _, after, ok := strings.Cut(s, "?>"); ok {
		return after
	}
	return s
}
