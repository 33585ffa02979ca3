package ssml

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

// PlainText reduces a document to the spoken text for engines that do not
// accept markup. Comments and tags are removed, entities resolved and
// whitespace collapsed to single spaces.
func PlainText(doc string) string {
	text := html.UnescapeString(strict.Sanitize(doc))
	return strings.Join(strings.Fields(text), " ")
}
