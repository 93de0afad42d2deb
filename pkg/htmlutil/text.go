// Package htmlutil holds text helpers over goquery selections.
package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// FlattenText joins every descendant text node of the first node in sel with
// a single space and trims the result. Empty selections yield "".
func FlattenText(sel *goquery.Selection) string {
	if sel == nil || len(sel.Nodes) == 0 {
		return ""
	}
	var parts []string
	collectText(sel.Nodes[0], &parts)
	return strings.TrimSpace(strings.Join(parts, " "))
}

func collectText(node *html.Node, parts *[]string) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		*parts = append(*parts, node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}

// OwnText returns the text that precedes the first non-text child of the
// first node in sel, untrimmed. Comments end the text like elements do. ok is false when sel is empty or that text
// is empty.
func OwnText(sel *goquery.Selection) (text string, ok bool) {
	if sel == nil || len(sel.Nodes) == 0 {
		return "", false
	}
	var b strings.Builder
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.TextNode {
			break
		}
		b.WriteString(child.Data)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}
