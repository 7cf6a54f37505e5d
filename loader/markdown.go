package loader

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// textBlock is one flowable block extracted from markdown: a heading,
// paragraph, list item, or code block, with the text styling it renders at.
type textBlock struct {
	text     string
	fontSize float64
	bold     bool
	mono     bool
	indent   float64
}

// Font sizes by heading level; body text is the zero entry.
var headingSizes = [7]float64{12, 24, 20, 17, 15, 13, 12}

// markdownBlocks converts markdown source into flowable text blocks.
// Goldmark renders the source to HTML and the HTML node tree is walked for
// block-level content, the same division of labor the html reader uses for
// native HTML input.
func markdownBlocks(src []byte) ([]textBlock, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	root, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("parsing rendered markdown: %w", err)
	}

	var blocks []textBlock
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				level := int(n.Data[1] - '0')
				blocks = append(blocks, textBlock{
					text:     textContent(n),
					fontSize: headingSizes[level],
					bold:     true,
				})
				return
			case "p":
				if text := textContent(n); text != "" {
					blocks = append(blocks, textBlock{text: text, fontSize: headingSizes[0]})
				}
				return
			case "li":
				if text := ownText(n); text != "" {
					blocks = append(blocks, textBlock{
						text:     "• " + text,
						fontSize: headingSizes[0],
						indent:   18,
					})
				}
				// Keep walking: nested lists live inside list items.
			case "pre":
				if text := strings.TrimRight(rawTextContent(n), "\n"); text != "" {
					blocks = append(blocks, textBlock{
						text:     text,
						fontSize: 11,
						mono:     true,
						indent:   12,
					})
				}
				return
			case "blockquote":
				if text := textContent(n); text != "" {
					blocks = append(blocks, textBlock{
						text:     text,
						fontSize: headingSizes[0],
						indent:   24,
					})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return blocks, nil
}

// textContent collects the concatenated text below a node, collapsing
// whitespace runs.
func textContent(n *html.Node) string {
	return strings.TrimSpace(strings.Join(strings.Fields(rawTextContent(n)), " "))
}

// ownText collects a list item's text excluding any nested list, so nested
// items are emitted once by the continued walk rather than twice.
func ownText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				continue
			}
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}

// rawTextContent collects text below a node verbatim, for code blocks where
// whitespace is significant.
func rawTextContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
