package settings

import (
	"strings"

	"github.com/beevik/etree"
)

// node is one entry of the cached settings trie.
//
// A node is either a leaf carrying a value or a section carrying ordered
// children. The zero value is an empty section.
type node struct {
	value    string
	leaf     bool
	children map[string]*node
	order    []string
}

func newSection() *node {
	return &node{children: make(map[string]*node)}
}

func newLeaf(value string) *node {
	return &node{value: value, leaf: true}
}

// child returns the named child, or nil.
func (n *node) child(key string) *node {
	if n == nil || n.leaf {
		return nil
	}
	return n.children[key]
}

// put installs c under key, keeping the first-seen position.
func (n *node) put(key string, c *node) {
	if n.children == nil {
		n.children = make(map[string]*node)
	}
	if _, ok := n.children[key]; !ok {
		n.order = append(n.order, key)
	}
	n.children[key] = c
}

// lookup walks path and returns the node at its end, or nil.
func (n *node) lookup(path []string) *node {
	cur := n
	for _, key := range path {
		cur = cur.child(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// set writes value at path, creating sections as needed. A leaf met on
// the way is promoted to an empty section.
func (n *node) set(path []string, value string) {
	cur := n
	for _, key := range path[:len(path)-1] {
		next := cur.children[key]
		if next == nil || next.leaf {
			next = newSection()
			cur.put(key, next)
		}
		cur = next
	}
	cur.put(path[len(path)-1], newLeaf(value))
}

// walk visits every leaf in document order.
func (n *node) walk(prefix []string, fn func(path []string, value string)) {
	if n.leaf {
		fn(prefix, n.value)
		return
	}
	for _, key := range n.order {
		p := make([]string, len(prefix), len(prefix)+1)
		copy(p, prefix)
		n.children[key].walk(append(p, key), fn)
	}
}

// buildTree converts the document root into a trie section.
//
// The saved networks section holds records rather than values and is not
// part of the key/value view. Attributes elsewhere are ignored. When a tag
// repeats, the first element wins, matching how Set resolves paths.
func buildTree(root *etree.Element) *node {
	return buildSection(root, true)
}

func buildSection(el *etree.Element, top bool) *node {
	sec := newSection()
	if el == nil {
		return sec
	}
	for _, c := range el.ChildElements() {
		if top && c.Tag == networksTag {
			continue
		}
		if _, seen := sec.children[c.Tag]; seen {
			continue
		}
		if len(c.ChildElements()) == 0 {
			sec.put(c.Tag, newLeaf(strings.TrimSpace(c.Text())))
			continue
		}
		sec.put(c.Tag, buildSection(c, false))
	}
	return sec
}

// setElement mirrors node.set on the XML document.
func setElement(root *etree.Element, path []string, value string) {
	cur := root
	for _, key := range path[:len(path)-1] {
		next := cur.SelectElement(key)
		if next == nil {
			next = cur.CreateElement(key)
		} else if len(next.ChildElements()) == 0 {
			next.SetText("")
		}
		cur = next
	}
	last := path[len(path)-1]
	leaf := cur.SelectElement(last)
	if leaf == nil {
		leaf = cur.CreateElement(last)
	}
	for _, c := range leaf.ChildElements() {
		leaf.RemoveChild(c)
	}
	leaf.SetText(value)
}

// joinPath renders a path the way the API and CLI address it.
func joinPath(path []string) string {
	return strings.Join(path, ".")
}

// SplitPath parses a dotted settings path. Empty segments are dropped.
func SplitPath(s string) []string {
	parts := strings.Split(s, ".")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
