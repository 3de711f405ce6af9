package fetcher

import (
	"strings"

	"golang.org/x/net/html"
)

// Walk visits every element node under root in document order.
func Walk(root *html.Node, visit func(*html.Node)) {
	if root == nil {
		return
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			visit(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// FindAll returns all element nodes with the given tag name.
func FindAll(root *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	Walk(root, func(n *html.Node) {
		if n.Data == tag {
			nodes = append(nodes, n)
		}
	})
	return nodes
}

// Attr returns the value of an attribute on a node, or "".
func Attr(n *html.Node, name string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether the attribute is present at all, even if empty.
func HasAttr(n *html.Node, name string) bool {
	if n == nil {
		return false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return true
		}
	}
	return false
}

// MetaContent returns the content of <meta name="..."> or <meta property="...">.
func MetaContent(root *html.Node, name string) string {
	for _, m := range FindAll(root, "meta") {
		if strings.EqualFold(Attr(m, "name"), name) || strings.EqualFold(Attr(m, "property"), name) {
			return Attr(m, "content")
		}
	}
	return ""
}

// LinkHref returns the href of the first <link> whose rel contains relValue.
func LinkHref(root *html.Node, relValue string) string {
	for _, l := range FindAll(root, "link") {
		if strings.Contains(strings.ToLower(Attr(l, "rel")), strings.ToLower(relValue)) {
			if href := Attr(l, "href"); href != "" {
				return href
			}
		}
	}
	return ""
}

// NodeText returns the concatenated text content of a node's subtree.
func NodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExtractText returns the visible text of a document, excluding script,
// style and template contents.
func ExtractText(root *html.Node) string {
	if root == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(parts, " ")
}
