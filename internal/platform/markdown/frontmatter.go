package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

var ErrNoFrontmatter = errors.New("markdown: note has no frontmatter")

// DecodeNote unmarshals the YAML frontmatter of content into meta and
// returns the body that follows it. CRLF line endings are accepted.
func DecodeNote(content string, meta any) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return content, ErrNoFrontmatter
	}
	rest := content[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence+"\n")
	if end < 0 {
		if !strings.HasSuffix(rest, "\n"+fence) {
			return "", fmt.Errorf("invalid frontmatter: missing closing fence")
		}
		end = len(rest) - len(fence) - 1
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), meta); err != nil {
		return "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	body := ""
	if tail := end + len(fence) + 2; tail < len(rest) {
		body = strings.TrimPrefix(rest[tail:], "\n")
	}
	return body, nil
}

// RenderNote writes meta as YAML frontmatter followed by a blank line and body.
func RenderNote(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	buf.Write(raw)
	buf.WriteString(fence + "\n\n")
	buf.WriteString(strings.TrimPrefix(body, "\n"))
	return buf.String(), nil
}
