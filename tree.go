package xssfilter

import "golang.org/x/net/html"

// Stats counts changes made by sanitizing a tree.
type Stats struct {
	// RemovedElements is a number of elements removed together with their
	// content. Descendants of removed elements aren't counted.
	RemovedElements int

	// StrippedAttrs is a number of attributes removed from kept elements.
	StrippedAttrs int
}

// Changed reports whether anything was removed.
func (self Stats) Changed() bool {
	return self.RemovedElements != 0 || self.StrippedAttrs != 0
}

// SanitizeNode sanitizes the tree rooted at n in place. It returns n or nil if
// n itself has been removed.
func (self *Policy) SanitizeNode(n *html.Node) *html.Node {
	n, _ = self.SanitizeNodeStats(n)
	return n
}

// SanitizeNodeStats is like SanitizeNode, but also returns what has been
// changed.
func (self *Policy) SanitizeNodeStats(n *html.Node) (*html.Node, Stats) {
	self.init()
	var stats Stats
	if n == nil || !self.sanitizeNode(n, &stats) {
		return nil, stats
	}
	return n, stats
}

// sanitizeNode visits n and its descendants, removing everything unsafe. It
// returns false if n has been removed. Descendants of a removed node are never
// visited.
func (self *Policy) sanitizeNode(n *html.Node, stats *Stats) bool {
	if n.Type == html.ElementNode && !self.sanitizeElement(n, stats) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		stats.RemovedElements++
		return false
	}

	// Removing a child doesn't change its previous siblings, so walk back to
	// front.
	for c := n.LastChild; c != nil; {
		prev := c.PrevSibling
		self.sanitizeNode(c, stats)
		c = prev
	}
	return true
}

func (self *Policy) sanitizeElement(n *html.Node, stats *Stats) bool {
	if action, reason := self.classifyElement(n); action == removeElement {
		self.log.WithFields(logFields(n, "", reason)).
			Debug("xssfilter: remove element")
		return false
	}
	return self.sanitizeAttrs(n, stats)
}
