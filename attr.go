package xssfilter

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

type attrAction int

const (
	keepAttr attrAction = iota
	stripAttr
	removeOwner
)

// filterAttr decides what to do with attribute name=value. Both name and value
// must be lower cased already. Order of checks matters, the first matched
// wins.
func (self *Policy) filterAttr(name, value string) (attrAction, string) {
	switch {
	case strings.HasPrefix(name, "on"):
		return stripAttr, "event handler"
	case name == "type" && self.isBlacklistedMimeType(value):
		return removeOwner, "blacklisted MIME type"
	case name == "style" && (!self.validStyle(value, true) || hasScriptLinks(value)):
		return stripAttr, "unsafe style"
	case hasScriptLinks(value):
		return stripAttr, "script link"
	}
	return keepAttr, ""
}

// sanitizeAttrs applies filterAttr to every attribute of n, from the last one
// to the first. It returns false if n itself must be removed.
func (self *Policy) sanitizeAttrs(n *html.Node, stats *Stats) bool {
	for i := len(n.Attr) - 1; i >= 0; i-- {
		attr := &n.Attr[i]
		name, value := strings.ToLower(attr.Key), strings.ToLower(attr.Val)

		action, reason := self.filterAttr(name, value)
		switch action {
		case removeOwner:
			self.log.WithFields(logFields(n, name, reason)).
				Debug("xssfilter: remove element")
			return false
		case stripAttr:
			self.log.WithFields(logFields(n, name, reason)).
				Debug("xssfilter: strip attribute")
			n.Attr = slices.Delete(n.Attr, i, i+1)
			stats.StrippedAttrs++
		}
	}
	return true
}
