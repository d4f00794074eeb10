package wordpress

import (
	"regexp"
	"strings"
)

var shortcodePattern = regexp.MustCompile(`\[(\/?)([a-zA-Z0-9_\-]+)([^\]]*)\]`)

// DefaultShortcodes are the core WordPress shortcodes found in legacy posts.
var DefaultShortcodes = []string{"caption", "wp_caption", "gallery", "embed", "audio", "video", "playlist"}

// ShortcodeStripper removes known shortcode tags and keeps their enclosed
// content, so "[caption]<img> Text[/caption]" becomes "<img> Text".
type ShortcodeStripper struct {
	names map[string]struct{}
}

// NewShortcodeStripper strips the given names, or DefaultShortcodes when
// none are given.
func NewShortcodeStripper(names ...string) *ShortcodeStripper {
	if len(names) == 0 {
		names = DefaultShortcodes
	}
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		if trimmed := strings.ToLower(strings.TrimSpace(name)); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return &ShortcodeStripper{names: set}
}

// Process returns content without the known shortcode tags. Bracketed text
// that is not a known shortcode is left untouched.
func (s *ShortcodeStripper) Process(content string) string {
	if !strings.Contains(content, "[") {
		return content
	}

	return shortcodePattern.ReplaceAllStringFunc(content, func(tag string) string {
		matches := shortcodePattern.FindStringSubmatch(tag)
		if len(matches) < 3 {
			return tag
		}
		if _, ok := s.names[strings.ToLower(matches[2])]; !ok {
			return tag
		}
		return ""
	})
}

var blockTagPattern = regexp.MustCompile(`(?i)^<(p|div|h[1-6]|ul|ol|li|blockquote|figure|table|pre|iframe|hr|section|article|dl|address|form)[\s>/]`)

// Autop wraps blank-line separated text blocks in paragraphs, the way
// WordPress does when rendering post content. Blocks that already start
// with a block-level tag are kept as they are.
func Autop(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	blocks := strings.Split(content, "\n\n")
	out := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if blockTagPattern.MatchString(block) {
			out = append(out, block)
			continue
		}
		out = append(out, "<p>"+strings.ReplaceAll(block, "\n", "<br />\n")+"</p>")
	}
	return strings.Join(out, "\n")
}
