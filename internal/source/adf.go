package source

import "strings"

// adfNode is a node of an Atlassian Document Format tree. Only what is
// needed to recover readable text is decoded.
type adfNode struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Content []adfNode      `json:"content,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// flattenADF renders an ADF document as plain text. Block nodes are
// separated by blank lines, list items become "- " lines and code blocks
// are fenced.
func flattenADF(doc adfNode) string {
	var blocks []string
	for _, n := range doc.Content {
		if s := strings.TrimRight(adfBlock(n, ""), "\n "); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func adfBlock(n adfNode, indent string) string {
	switch n.Type {
	case "bulletList", "orderedList":
		var lines []string
		for i, item := range n.Content {
			marker := "- "
			if n.Type == "orderedList" {
				marker = itoa(i+1) + ". "
			}
			var parts []string
			for _, child := range item.Content {
				if s := adfBlock(child, indent+"  "); s != "" {
					parts = append(parts, s)
				}
			}
			lines = append(lines, indent+marker+strings.TrimLeft(strings.Join(parts, "\n"), " "))
		}
		return strings.Join(lines, "\n")
	case "codeBlock":
		return "```\n" + adfInline(n.Content) + "\n```"
	case "rule":
		return "---"
	case "blockquote":
		var parts []string
		for _, child := range n.Content {
			parts = append(parts, "> "+adfBlock(child, ""))
		}
		return strings.Join(parts, "\n")
	case "paragraph", "heading":
		return indent + adfInline(n.Content)
	default:
		if len(n.Content) > 0 {
			var parts []string
			for _, child := range n.Content {
				if s := adfBlock(child, indent); s != "" {
					parts = append(parts, s)
				}
			}
			return strings.Join(parts, "\n")
		}
		return adfInline([]adfNode{n})
	}
}

func adfInline(nodes []adfNode) string {
	var b strings.Builder
	for _, n := range nodes {
		switch n.Type {
		case "text":
			b.WriteString(n.Text)
		case "hardBreak":
			b.WriteString("\n")
		case "mention", "emoji":
			if s, ok := n.Attrs["text"].(string); ok {
				b.WriteString(s)
			}
		case "inlineCard":
			if s, ok := n.Attrs["url"].(string); ok {
				b.WriteString(s)
			}
		default:
			b.WriteString(adfInline(n.Content))
		}
	}
	return b.String()
}
