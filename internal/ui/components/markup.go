// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
)

// Bot replies carry a small subset of HTML: line breaks and emphasis.
var (
	breakTag    = regexp.MustCompile(`(?i)<br\s*/?>`)
	strongTag   = regexp.MustCompile(`(?i)</?(strong|b)\s*>`)
	emTag       = regexp.MustCompile(`(?i)</?(em|i)\s*>`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)

	// textOnly drops every remaining tag, and the contents of script and
	// style elements.
	textOnly = bluemonday.StrictPolicy()
)

// plainText removes all markup from s and decodes entities.
func plainText(s string) string {
	return html.UnescapeString(textOnly.Sanitize(s))
}

// HTMLToMarkdown converts the backend's light HTML to Markdown. Unknown tags
// are dropped and entities decoded.
func HTMLToMarkdown(s string) string {
	s = breakTag.ReplaceAllString(s, "  \n")
	s = strongTag.ReplaceAllString(s, "**")
	s = emTag.ReplaceAllString(s, "_")
	s = plainText(s)
	return strings.TrimSpace(blankRunsRe.ReplaceAllString(s, "\n\n"))
}

// StripTags reduces the backend's HTML to plain text, keeping line breaks.
func StripTags(s string) string {
	s = plainText(breakTag.ReplaceAllString(s, "\n"))
	return strings.TrimSpace(blankRunsRe.ReplaceAllString(s, "\n\n"))
}

// MarkdownRenderer renders bot replies through glamour. Renderers are cached
// per style and width since building one is comparatively slow.
type MarkdownRenderer struct {
	mu    sync.Mutex
	cache map[rendererKey]*glamour.TermRenderer
}

type rendererKey struct {
	style string
	width int
}

// NewMarkdownRenderer returns an empty renderer cache.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{cache: make(map[rendererKey]*glamour.TermRenderer)}
}

func (r *MarkdownRenderer) get(style string, width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := rendererKey{style, width}
	if tr, ok := r.cache[key]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.cache[key] = tr
	return tr, nil
}

// Render converts body to Markdown and renders it. On any glamour failure the
// stripped plain text is returned instead.
func (r *MarkdownRenderer) Render(body, style string, width int) string {
	if width < 10 {
		width = 10
	}
	tr, err := r.get(style, width)
	if err != nil {
		log.Debug().Err(err).Msg("markdown renderer unavailable")
		return StripTags(body)
	}
	out, err := tr.Render(HTMLToMarkdown(body))
	if err != nil {
		log.Debug().Err(err).Msg("markdown render failed")
		return StripTags(body)
	}
	return strings.Trim(out, "\n")
}
