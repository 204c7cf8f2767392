package render

import (
	"strings"

	"golang.org/x/net/html"
)

// ============================================================
// Rich text
// ============================================================

// blockTags начинают новую строку при открытии и закрытии.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true,
}

// skipTags не содержат видимого текста.
var skipTags = map[string]bool{"script": true, "style": true, "head": true, "title": true}

// PlainText сводит HTML из contentEditable к строкам простого текста.
// Пробелы внутри строки схлопываются, пустые строки отбрасываются.
func PlainText(content string) []string {
	z := html.NewTokenizer(strings.NewReader(content))

	var lines []string
	var current strings.Builder
	skip := 0
	flush := func() {
		if line := strings.Join(strings.Fields(current.String()), " "); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			flush()
			return lines
		case html.TextToken:
			if skip > 0 {
				continue
			}
			for i, part := range strings.Split(string(z.Text()), "\n") {
				if i > 0 {
					flush()
				}
				current.WriteString(part)
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			switch {
			case tag == "br":
				flush()
			case skipTags[tag] && tt == html.StartTagToken:
				skip++
			case blockTags[tag]:
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if skipTags[tag] && skip > 0 {
				skip--
			} else if blockTags[tag] {
				flush()
			}
		}
	}
}

// Truncate обрезает строку до n символов и добавляет "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
