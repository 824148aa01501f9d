package providers

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/i474232898/inje-weather/internal/weather"
)

// parseHTML parses a fetched document into a node tree. The HTML5 parser
// inserts implied <tbody> elements, so selectors can rely on them.
func parseHTML(doc weather.RawDocument) (*html.Node, error) {
	root, err := html.Parse(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", weather.ErrParse, doc.URL, err)
	}
	return root, nil
}

// step is one compound selector: "tag" or "tag.class".
type step struct {
	tag   string
	class string
}

func parseStep(s string) step {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return step{tag: s[:i], class: s[i+1:]}
	}
	return step{tag: s}
}

func (st step) matches(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if st.tag != "" && n.Data != st.tag {
		return false
	}
	return st.class == "" || hasClass(n, st.class)
}

// selectChildPath returns the nodes matched by the child-combinator selector
// path[0] > path[1] > ... > path[len-1], in document order.
func selectChildPath(root *html.Node, path ...string) []*html.Node {
	if len(path) == 0 {
		return nil
	}
	steps := make([]step, len(path))
	for i, p := range path {
		steps[i] = parseStep(p)
	}

	return findAll(root, func(n *html.Node) bool {
		if !steps[len(steps)-1].matches(n) {
			return false
		}
		p := n.Parent
		for i := len(steps) - 2; i >= 0; i-- {
			if !steps[i].matches(p) {
				return false
			}
			p = p.Parent
		}
		return true
	})
}

// selectDescendants returns nodes below root matching sel ("tag" or "tag.class").
func selectDescendants(root *html.Node, sel string) []*html.Node {
	st := parseStep(sel)
	return findAll(root, func(n *html.Node) bool {
		return n != root && st.matches(n)
	})
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// childElements returns the direct element children of n with the given tag.
func childElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

// elementIndex returns the 1-based position of n among its parent's element
// children, as used by :nth-child.
func elementIndex(n *html.Node) int {
	if n.Parent == nil {
		return 1
	}
	i := 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			i++
		}
		if c == n {
			return i
		}
	}
	return 0
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// textOf concatenates all text below n.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
