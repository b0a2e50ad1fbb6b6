package xssfilter

import (
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type elementAction int

const (
	keepElement elementAction = iota
	removeElement
)

// classifyElement decides should element n be removed with its content or
// kept, and its attributes filtered.
func (self *Policy) classifyElement(n *html.Node) (elementAction, string) {
	name := strings.ToLower(n.Data)
	if _, ok := self.tags[name]; ok {
		return removeElement, "blacklisted element"
	}

	if n.DataAtom == atom.Style || name == "style" {
		// A style without content most likely had a link to remote CSS.
		if !self.validStyle(innerText(n), false) {
			return removeElement, "unsafe style"
		}
	}
	return keepElement, ""
}

// innerText returns concatenated text of all descendants of n.
func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n)
	return sb.String()
}

func logFields(n *html.Node, attr, reason string) logrus.Fields {
	fields := logrus.Fields{"element": n.Data, "reason": reason}
	if attr != "" {
		fields["attr"] = attr
	}
	return fields
}
