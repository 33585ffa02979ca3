// Package region maps German federal-state names to the two-letter codes the
// DWD uses in its text forecast feed names.
package region

import (
	"errors"
	"fmt"
	"sort"
)

// Code is the feed suffix for a region, e.g. "LG" in VHDL50_DWLG_LATEST_html.
type Code string

// Unsupported is returned by Lookup for names outside the table. It is not a
// valid feed code; URLs built from it point at a resource that does not exist.
const Unsupported Code = "Nicht unterstütztes Bundesland"

// ErrUnsupportedRegion is returned by Resolve for unknown region names.
var ErrUnsupportedRegion = errors.New("unsupported region")

// Name identifies one entry of the region table.
type Name string

const (
	Sachsen               Name = "Sachsen"
	SachsenAnhalt         Name = "Sachsen-Anhalt"
	Thueringen            Name = "Thüringen"
	Berlin                Name = "Berlin"
	MecklenburgVorpommern Name = "Mecklenburg-Vorpommern"
	Brandenburg           Name = "Brandenburg"
	Bayern                Name = "Bayern"
	Nordbayern            Name = "Nordbayern"
	Suedbayern            Name = "Sübbayern"
	BadenWuerttemberg     Name = "Baden-Würtenberg"
	RheinlandPfalz        Name = "Rheinland-Pfalz"
	NordrheinWestfalen    Name = "Nordrhein-Westfalen"
	Hessen                Name = "Hessen"
	Saarland              Name = "Saarland"
	Bremen                Name = "Bremen"
	Hamburg               Name = "Hamburg"
	Niedersachsen         Name = "Niedersachsen"
	SchleswigHolstein     Name = "Schleswig-Holstein"
)

// Default is the region used when none is configured.
const Default = Sachsen

var codes = map[Name]Code{
	Sachsen:               "LG",
	SachsenAnhalt:         "LH",
	Thueringen:            "LI",
	Berlin:                "PG",
	MecklenburgVorpommern: "PH",
	Brandenburg:           "PG",
	Bayern:                "MS",
	Nordbayern:            "MO",
	Suedbayern:            "MS",
	BadenWuerttemberg:     "SG",
	RheinlandPfalz:        "OI",
	NordrheinWestfalen:    "EH",
	Hessen:                "OH",
	Saarland:              "OI",
	Bremen:                "HG",
	Hamburg:               "HH",
	Niedersachsen:         "HG",
	SchleswigHolstein:     "HH",
}

// aliases accept the correct spelling of names whose table key is historical.
var aliases = map[string]Name{
	"Südbayern":         Suedbayern,
	"Baden-Württemberg": BadenWuerttemberg,
}

// Lookup returns the code for name, or Unsupported when the name is unknown.
// Names match exactly; surrounding whitespace is not trimmed.
func Lookup(name string) Code {
	if c, ok := codes[canonical(name)]; ok {
		return c
	}
	return Unsupported
}

// Resolve is the strict variant of Lookup.
func Resolve(name string) (Code, error) {
	c := Lookup(name)
	if c == Unsupported {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedRegion, name)
	}
	return c, nil
}

// Known reports whether name resolves to a table entry.
func Known(name string) bool {
	return Lookup(name) != Unsupported
}

// Names returns the table keys in sorted order.
func Names() []string {
	out := make([]string, 0, len(codes))
	for n := range codes {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}

func canonical(name string) Name {
	if n, ok := aliases[name]; ok {
		return n
	}
	return Name(name)
}
