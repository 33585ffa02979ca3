// Package ssml builds the speech-synthesis markup handed to the TTS engine.
//
// Documents are assembled as an ordered list of fragments and joined once.
// Every element line ends in CRLF.
package ssml

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Newline terminates every element written through Builder.Line.
const Newline = "\r\n"

// Pauses used across the pipeline.
const (
	PauseComma    = 300 * time.Millisecond
	PauseSection  = 300 * time.Millisecond
	PauseEmphasis = 400 * time.Millisecond
	PauseHeading  = 500 * time.Millisecond
	PauseOutlook  = 1200 * time.Millisecond
)

// Break renders a pause marker, e.g. <break time="0.4s"/>.
func Break(d time.Duration) string {
	secs := float64(d.Milliseconds()) / 1000
	return `<break time="` + strconv.FormatFloat(secs, 'f', -1, 64) + `s"/>`
}

// Comment renders an annotation comment. "--" is not allowed inside markup
// comments and is folded to a single dash.
func Comment(text string) string {
	for strings.Contains(text, "--") {
		text = strings.ReplaceAll(text, "--", "-")
	}
	text = strings.TrimSpace(text)
	return "<!-- " + text + " -->"
}

// Sentence wraps text in an <s> element.
func Sentence(text string) string {
	return "<s>" + EscapeText(text) + "</s>"
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeText escapes character data for inclusion in markup.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// Builder accumulates document fragments and tracks open containers.
type Builder struct {
	parts []string
	open  []string
	err   error
}

// Open writes <tag> and pushes it on the container stack.
func (b *Builder) Open(tag string) {
	b.open = append(b.open, tag)
	b.Line("<" + tag + ">")
}

// Close writes </tag>. Closing anything other than the innermost open
// container is recorded as an error and reported by Document.
func (b *Builder) Close(tag string) {
	n := len(b.open)
	if n == 0 || b.open[n-1] != tag {
		if b.err == nil {
			b.err = fmt.Errorf("ssml: close </%s> does not match open containers %v", tag, b.open)
		}
		return
	}
	b.open = b.open[:n-1]
	b.Line("</" + tag + ">")
}

// Line writes s followed by Newline.
func (b *Builder) Line(s string) {
	b.parts = append(b.parts, s, Newline)
}

// Lines writes each of lines via Line.
func (b *Builder) Lines(lines []string) {
	for _, l := range lines {
		b.Line(l)
	}
}

// Document joins the fragments. The trailing newline after the final
// element is dropped so the document ends with its root close tag.
func (b *Builder) Document() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if len(b.open) > 0 {
		return "", fmt.Errorf("ssml: unclosed containers %v", b.open)
	}
	doc := strings.Join(b.parts, "")
	return strings.TrimSuffix(doc, Newline), nil
}
