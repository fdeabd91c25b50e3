// Package post splits Stack Exchange post bodies into terminal blocks.
package post

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	nethtml "golang.org/x/net/html"
)

type Kind int

const (
	KindText Kind = iota
	KindCode
	KindImage
)

// Block is one run of a post body. Text holds paragraphs separated by a
// newline, Code holds the verbatim contents of a <pre>, and images carry
// their source URL and optional legend.
type Block struct {
	Kind   Kind
	Text   string
	Code   string
	URL    string
	Legend string
}

var policy = bluemonday.UGCPolicy()

// Parse sanitizes body and splits its top-level elements into blocks.
// Consecutive prose elements merge into a single text block.
func Parse(body string) []Block {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}
	clean := policy.Sanitize(body)
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + clean + "</body></html>"))
	if err != nil {
		return []Block{{Kind: KindText, Text: normalizeInlineText(html.UnescapeString(clean))}}
	}
	root := findBodyNode(doc)
	if root == nil {
		return nil
	}

	var (
		blocks     []Block
		paragraphs []string
	)
	flush := func() {
		if len(paragraphs) == 0 {
			return
		}
		blocks = append(blocks, Block{Kind: KindText, Text: strings.Join(paragraphs, "\n")})
		paragraphs = nil
	}

	for _, node := range elementChildren(root) {
		if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "pre") {
			flush()
			blocks = append(blocks, Block{Kind: KindCode, Code: codeText(node)})
			continue
		}
		if img, ok := extractImage(node); ok {
			flush()
			blocks = append(blocks, img)
			continue
		}
		paragraphs = append(paragraphs, proseParagraphs(node)...)
	}
	flush()
	return blocks
}

// extractImage recognizes an element carrying a linked image, a bare image,
// or an image element itself. A <sub> sibling becomes the legend.
func extractImage(node *nethtml.Node) (Block, bool) {
	if node.Type != nethtml.ElementNode {
		return Block{}, false
	}
	if strings.EqualFold(node.Data, "img") {
		src := nodeAttr(node, "src")
		return Block{Kind: KindImage, URL: src}, src != ""
	}

	var out Block
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode {
			continue
		}
		switch strings.ToLower(child.Data) {
		case "a":
			if img := firstChildElement(child, "img"); img != nil {
				if src := nodeAttr(img, "src"); src != "" {
					out.URL = src
				}
			}
		case "img":
			if src := nodeAttr(child, "src"); src != "" {
				out.URL = src
			}
		case "sub":
			out.Legend = normalizeInlineText(inlineText(child))
		}
	}
	if out.URL == "" {
		return Block{}, false
	}
	out.Kind = KindImage
	return out, true
}

func proseParagraphs(node *nethtml.Node) []string {
	if node.Type == nethtml.TextNode {
		if text := normalizeInlineText(node.Data); text != "" {
			return []string{text}
		}
		return nil
	}
	if node.Type != nethtml.ElementNode {
		return nil
	}
	switch tag := strings.ToLower(node.Data); tag {
	case "ul", "ol":
		var items []string
		n := 0
		for li := node.FirstChild; li != nil; li = li.NextSibling {
			if li.Type != nethtml.ElementNode || !strings.EqualFold(li.Data, "li") {
				continue
			}
			n++
			marker := "• "
			if tag == "ol" {
				marker = fmt.Sprintf("%d. ", n)
			}
			if text := normalizeInlineText(inlineText(li)); text != "" {
				items = append(items, marker+text)
			}
		}
		return items
	case "blockquote":
		var out []string
		for _, child := range elementChildren(node) {
			for _, p := range proseParagraphs(child) {
				out = append(out, quotePrefix+p)
			}
		}
		return out
	case "hr":
		return []string{"---"}
	default:
		if text := normalizeInlineText(inlineText(node)); text != "" {
			return []string{text}
		}
		return nil
	}
}

func codeText(node *nethtml.Node) string {
	text := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
	return strings.TrimRight(text, "\n")
}

func inlineText(node *nethtml.Node) string {
	parts := make([]string, 0, 4)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		parts = append(parts, inlineNode(child))
	}
	return strings.Join(parts, " ")
}

func inlineNode(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "img":
			return ""
		case "br":
			return "\n"
		case "a":
			text := normalizeInlineText(inlineText(node))
			href := nodeAttr(node, "href")
			switch {
			case href == "":
				return text
			case text == "" || strings.EqualFold(text, href):
				return href
			default:
				return text + " (" + href + ")"
			}
		case "code", "kbd":
			text := normalizeInlineText(inlineText(node))
			if text == "" {
				return ""
			}
			return "`" + text + "`"
		default:
			return inlineText(node)
		}
	default:
		return ""
	}
}

func normalizeInlineText(s string) string {
	s = html.UnescapeString(s)
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return punctuation.Replace(strings.Join(out, " "))
}

var punctuation = strings.NewReplacer(
	" .", ".",
	" ,", ",",
	" ;", ";",
	" :", ":",
	" !", "!",
	" ?", "?",
	" )", ")",
	"( ", "(",
)

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func elementChildren(node *nethtml.Node) []*nethtml.Node {
	var children []*nethtml.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.TextNode && strings.TrimSpace(child.Data) == "" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func firstChildElement(node *nethtml.Node, tag string) *nethtml.Node {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && strings.EqualFold(child.Data, tag) {
			return child
		}
	}
	return nil
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collectRawText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}
