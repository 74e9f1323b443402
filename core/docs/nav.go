package docs

import (
	"sort"
	"strings"
)

// ModuleSymbol prefixes every module title in the navigation.
const ModuleSymbol = `<code class="doc-symbol doc-symbol-nav doc-symbol-module"></code>`

// NavNode is a node of the API reference navigation. A node with a DocPath
// has a page; a node with Children is a namespace. A node may be both.
type NavNode struct {
	Title    string
	DocPath  string
	Children map[string]*NavNode
}

// NewNav creates an empty navigation section.
func NewNav(title string) *NavNode {
	return &NavNode{Title: title, Children: make(map[string]*NavNode)}
}

// AddModule inserts module with its page, creating intermediate namespaces.
// Children already registered under the module are kept.
func (n *NavNode) AddModule(module, docPath string) {
	node := n
	for _, part := range strings.Split(module, ".") {
		child, ok := node.Children[part]
		if !ok {
			child = NewNav(part)
			node.Children[part] = child
		}
		node = child
	}
	node.DocPath = docPath
}

// Items renders the children of n as mkdocs nav entries, sorted by name.
// A page without children is {title: path}; a namespace is
// {title: [index page, children...]}.
func (n *NavNode) Items() []any {
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]any, 0, len(names))
	for _, name := range names {
		child := n.Children[name]
		title := ModuleSymbol + " " + name
		switch {
		case len(child.Children) > 0:
			sub := child.Items()
			if child.DocPath != "" {
				sub = append([]any{child.DocPath}, sub...)
			}
			items = append(items, map[string]any{title: sub})
		case child.DocPath != "":
			items = append(items, map[string]any{title: child.DocPath})
		}
	}
	return items
}
