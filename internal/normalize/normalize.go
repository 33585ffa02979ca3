// Package normalize filters and rewrites extracted bulletin lines so they read
// well through a speech engine.
//
// Normalizer.Normalize applies, per line:
//
//  1. trim, drop empty lines
//  2. drop "LETZTE AKTUALISIERUNG" banners
//  3. drop "WARNRELEVANTE" banners
//  4. warning headings (any line with a colon): skip the rest of the section
//     or rewrite the heading into a comment plus pause
//  5. onwards: the Rules list, in order
//
// Rules see text that earlier rules already cleaned up, so their order is
// part of the contract.
package normalize

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/wetterbericht/internal/ssml"
)

// Rule is a single line transformer.
type Rule struct {
	Name  string
	Apply func(line string) string
}

// Rules returns the default transformer chain.
func Rules() []Rule {
	return []Rule{
		{Name: "units", Apply: ExpandUnits},
		{Name: "beaufort", Apply: StripBeaufort},
		{Name: "duplicates", Apply: CollapseDuplicates},
		{Name: "comma-pause", Apply: PauseAfterCommas},
		{Name: "compounds", Apply: SplitCompounds},
		{Name: "temperatures", Apply: NameTemperatures},
	}
}

// SkippedWarnings replaces the warning part of a section when warnings are skipped.
var SkippedWarnings = ssml.Comment("Warnungen übersprungen")

// Normalizer runs the filter steps and the rule chain over one section.
type Normalizer struct {
	// SkipWarnings stops the section at its first warning heading.
	SkipWarnings bool
	// Rules overrides the default chain when non-nil.
	Rules []Rule
}

// Normalize returns the spoken lines of one section, in input order.
func (n Normalizer) Normalize(lines []string) []string {
	rules := n.Rules
	if rules == nil {
		rules = Rules()
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || IsMetadata(line) {
			continue
		}
		if IsWarningHeading(line) {
			if n.SkipWarnings {
				out = append(out, SkippedWarnings)
				return out
			}
			out = append(out, WarningHeading(line))
			continue
		}
		for _, r := range rules {
			line = r.Apply(line)
		}
		out = append(out, line)
	}
	return out
}

// IsMetadata reports timestamp and warning-relevance banners.
func IsMetadata(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "LETZTE AKTUALISIERUNG") || strings.Contains(upper, "WARNRELEVANTE")
}

// IsWarningHeading reports lines that introduce a warning category such as
// "STURM:", "HITZE:" or "FROST:".
func IsWarningHeading(line string) bool {
	return strings.Contains(line, ":")
}

var markupRe = regexp.MustCompile(`<[^>]*>`)

// WarningHeading renders a heading as an annotation followed by a pause.
func WarningHeading(line string) string {
	text := strings.TrimSpace(markupRe.ReplaceAllString(line, " "))
	return ssml.Comment("Warnung: "+text) + ssml.Break(ssml.PauseHeading)
}

// ExpandUnits spells out unit abbreviations.
func ExpandUnits(line string) string {
	return strings.ReplaceAll(line, "l/qm", "Liter pro Quadratmeter")
}

var beaufortRe = regexp.MustCompile(`\s*\(Bft\s*\d+(?:\s*-\s*\d+)?\)`)

// StripBeaufort removes "(Bft 5)" and "(Bft 6-7)" annotations.
func StripBeaufort(line string) string {
	return beaufortRe.ReplaceAllString(line, "")
}

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}.!]+`)

// CollapseDuplicates removes a token that repeats the token right before it
// with only whitespace in between, e.g. "Trocken. Trocken." -> "Trocken.".
// The feed occasionally doubles words.
func CollapseDuplicates(line string) string {
	locs := tokenRe.FindAllStringIndex(line, -1)
	if len(locs) < 2 {
		return line
	}
	var b strings.Builder
	pos := 0
	for i := 1; i < len(locs); i++ {
		prev, cur := locs[i-1], locs[i]
		gap := line[prev[1]:cur[0]]
		if gap == "" || strings.TrimSpace(gap) != "" {
			continue
		}
		if line[prev[0]:prev[1]] != line[cur[0]:cur[1]] {
			continue
		}
		b.WriteString(line[pos:prev[1]])
		pos = cur[1]
	}
	b.WriteString(line[pos:])
	return b.String()
}

var commaPause = "," + ssml.Break(ssml.PauseComma)

// PauseAfterCommas inserts a short pause after every comma.
func PauseAfterCommas(line string) string {
	return strings.ReplaceAll(line, ",", commaPause)
}

// Longer keys first: Replacer compares in argument order.
var compounds = strings.NewReplacer(
	"Landesteilen", "Landes-Teilen",
	"Landesteile", "Landes Teile",
	"Südost", "Süd Ost",
)

// SplitCompounds breaks up compounds the voices tend to mispronounce.
func SplitCompounds(line string) string {
	return compounds.Replace(line)
}

// NameTemperatures replaces "Minima"/"Maxima" with the spoken terms, but only
// on lines that talk about degrees.
func NameTemperatures(line string) string {
	if !strings.Contains(line, "Grad") {
		return line
	}
	line = strings.ReplaceAll(line, "Minima", "Tiefsttemperaturen")
	return strings.ReplaceAll(line, "Maxima", "Höchsttemperaturen")
}
