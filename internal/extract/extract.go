package extract

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/hyperifyio/wetterbericht/internal/ssml"
)

// EmphasisTag is the element whose close inserts a pause in bulletin text.
const EmphasisTag = "strong"

// Fragment is a run of character data together with the tag that was most
// recently opened before it. Pause fragments carry the markup of the break
// marker in Markup and leave Text empty.
type Fragment struct {
	Tag    string
	Text   string
	Markup string
}

// Document is the ordered fragment list extracted from one bulletin.
type Document struct {
	Fragments []Fragment
}

// FromHTML extracts bulletin text using the default emphasis tag.
func FromHTML(markup string) Document {
	return TagTracker{EmphasisTag: EmphasisTag}.Extract(markup)
}

// Text joins all fragments. Character data is escaped for markup; pause
// markers are written verbatim.
func (d Document) Text() string {
	var b strings.Builder
	for _, f := range d.Fragments {
		if f.Markup != "" {
			b.WriteString(f.Markup)
			continue
		}
		b.WriteString(ssml.EscapeText(f.Text))
	}
	return b.String()
}

// Lines splits Text at line boundaries, trims each line and drops empty ones.
func (d Document) Lines() []string {
	raw := SplitLines(d.Text())
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// TagTracker only remembers the most recently opened tag. It has no notion
// of nesting: any close tag resets the state and text seen while no tag is
// tracked is dropped.
type TagTracker struct {
	EmphasisTag string
}

func (t TagTracker) Extract(markup string) Document {
	var doc Document
	z := html.NewTokenizer(strings.NewReader(markup))
	last := ""
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way keep what we have.
			return doc
		case html.StartTagToken:
			name, _ := z.TagName()
			last = string(name)
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			last = string(name)
			t.closeTag(&doc, last)
			last = ""
		case html.EndTagToken:
			t.closeTag(&doc, last)
			last = ""
		case html.TextToken:
			if last == "" {
				continue
			}
			if text := string(z.Text()); text != "" {
				doc.Fragments = append(doc.Fragments, Fragment{Tag: last, Text: text})
			}
		}
	}
}

func (t TagTracker) closeTag(doc *Document, last string) {
	if last == "" || last != t.EmphasisTag {
		return
	}
	doc.Fragments = append(doc.Fragments, Fragment{Tag: last, Markup: ssml.Break(ssml.PauseEmphasis)})
}

// SplitLines splits s at universal line boundaries:
// \r\n, \n, \r, \v, \f, \x1c-\x1e, U+0085, U+2028 and U+2029. The
// separators are not included and no trailing empty element is produced.
func SplitLines(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		switch r {
		case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				continue
			}
		default:
			continue
		}
		end := i
		if r == '\n' && i > 0 && s[i-1] == '\r' {
			end = i - 1
		}
		if end < start {
			end = start
		}
		out = append(out, s[start:end])
		start = i + utf8.RuneLen(r)
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
