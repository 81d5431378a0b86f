package dictionary

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

type goqueryDocument struct {
	doc *goquery.Document
}

type goqueryNode struct {
	sel *goquery.Selection
}

// ParseDocument parses an HTML body into a Document.
func ParseDocument(body []byte) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return goqueryDocument{doc: doc}, nil
}

func classSelector(tag, class string) string {
	return tag + "." + class
}

func (d goqueryDocument) FindFirstByClass(tag, class string) (Node, bool) {
	sel := d.doc.Find(classSelector(tag, class)).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return goqueryNode{sel: sel}, true
}

func (d goqueryDocument) FindAllByClass(tag, class string) []Node {
	sel := d.doc.Find(classSelector(tag, class))
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, goqueryNode{sel: s})
	})
	return nodes
}

func (n goqueryNode) Text() string {
	return n.sel.Text()
}

func (n goqueryNode) SpacedText() string {
	var parts []string
	for _, root := range n.sel.Nodes {
		collectText(root, &parts)
	}
	return strings.Join(parts, " ")
}

func (n goqueryNode) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

func collectText(node *html.Node, parts *[]string) {
	if node.Type == html.TextNode {
		if text := strings.TrimSpace(node.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}
