package fetch

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements whose subtrees carry no disclosure content.
var skipElements = map[atom.Atom]struct{}{
	atom.Script:   {},
	atom.Style:    {},
	atom.Nav:      {},
	atom.Header:   {},
	atom.Footer:   {},
	atom.Aside:    {},
	atom.Noscript: {},
	atom.Iframe:   {},
	atom.Svg:      {},
}

// Elements that terminate a paragraph.
var blockElements = map[atom.Atom]struct{}{
	atom.P: {}, atom.Div: {}, atom.Section: {}, atom.Article: {},
	atom.Li: {}, atom.Tr: {}, atom.Br: {}, atom.H1: {}, atom.H2: {},
	atom.H3: {}, atom.H4: {}, atom.H5: {}, atom.H6: {}, atom.Table: {},
}

// ExtractHTML pulls readable text from an HTML document. It prefers a
// <main> or <article> subtree when one exists, drops navigation and
// boilerplate elements, and preserves paragraph breaks.
func ExtractHTML(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	root := findMainContent(doc)
	if root == nil {
		root = doc
	}

	var b strings.Builder
	walkText(root, &b)
	return b.String()
}

// findMainContent locates the first <main> or <article> element.
func findMainContent(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Main || n.DataAtom == atom.Article) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMainContent(c); found != nil {
			return found
		}
	}
	return nil
}

func walkText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, skip := skipElements[n.DataAtom]; skip {
			return
		}
	}
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(t)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, b)
	}
	if n.Type == html.ElementNode {
		if _, block := blockElements[n.DataAtom]; block {
			b.WriteByte('\n')
		}
	}
}
