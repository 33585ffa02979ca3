// Package forecast assembles the spoken weather report for one region from
// the three DWD text forecast feeds.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wetterbericht/internal/extract"
	"github.com/hyperifyio/wetterbericht/internal/normalize"
	"github.com/hyperifyio/wetterbericht/internal/region"
	"github.com/hyperifyio/wetterbericht/internal/ssml"
)

// DefaultBaseURL is the DWD open data host.
const DefaultBaseURL = "http://opendata.dwd.de"

// Feed is one of the text forecast products.
type Feed struct {
	// ID is the product prefix, e.g. VHDL50.
	ID string
	// Title annotates the section in the generated markup.
	Title string
	// LeadIn is spoken before the section. Empty for the first section.
	LeadIn string
}

var (
	GeneralSituation = Feed{ID: "VHDL54", Title: "Gesamtwetterlage"}
	Today            = Feed{ID: "VHDL50", Title: "Wetter heute", LeadIn: "Die Aussichten für heute."}
	Tomorrow         = Feed{ID: "VHDL51", Title: "Wetter morgen", LeadIn: "Die Aussichten für morgen."}
)

// Feeds lists the sections in the order they are spoken.
func Feeds() []Feed {
	return []Feed{GeneralSituation, Today, Tomorrow}
}

// FeedURL builds the address of feed f for region code. The code is path
// escaped so that even the unsupported-region sentinel yields a valid URL.
func FeedURL(baseURL string, f Feed, code region.Code) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	name := f.ID + "_DW" + string(code) + "_LATEST_html"
	return strings.TrimRight(baseURL, "/") + "/weather/text_forecasts/html/" + url.PathEscape(name)
}

// Fetcher retrieves a feed and returns its decoded text.
type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

// Assembler turns feeds into one speech document.
type Assembler struct {
	Fetcher    Fetcher
	BaseURL    string
	Extractor  extract.Extractor
	Normalizer normalize.Normalizer
	// Parallel fetches the feeds concurrently. Sections are still assembled
	// in Feeds order.
	Parallel bool
}

// URLs returns the feed addresses for code in section order.
func (a *Assembler) URLs(code region.Code) []string {
	feeds := Feeds()
	out := make([]string, len(feeds))
	for i, f := range feeds {
		out[i] = FeedURL(a.BaseURL, f, code)
	}
	return out
}

// Section fetches one feed and returns its normalized lines.
func (a *Assembler) Section(ctx context.Context, rawURL string) ([]string, error) {
	text, err := a.Fetcher.GetText(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	ex := a.Extractor
	if ex == nil {
		ex = extract.TagTracker{EmphasisTag: extract.EmphasisTag}
	}
	raw := ex.Extract(text).Lines()
	lines := a.Normalizer.Normalize(raw)
	log.Debug().Str("url", rawURL).Int("bytes", len(text)).Int("raw", len(raw)).Int("lines", len(lines)).Msg("section normalized")
	return lines, nil
}

// Build fetches all sections for code and renders the document. Any fetch
// error aborts the whole build.
func (a *Assembler) Build(ctx context.Context, code region.Code) (string, error) {
	sections, err := a.sections(ctx, a.URLs(code))
	if err != nil {
		return "", err
	}
	return Render(Feeds(), sections)
}

func (a *Assembler) sections(ctx context.Context, urls []string) ([][]string, error) {
	out := make([][]string, len(urls))
	if !a.Parallel {
		for i, u := range urls {
			lines, err := a.Section(ctx, u)
			if err != nil {
				return nil, err
			}
			out[i] = lines
		}
		return out, nil
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errs := make([]error, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			lines, err := a.Section(ctx, u)
			if err != nil {
				errs[i] = err
				cancel()
				return
			}
			out[i] = lines
		}(i, u)
	}
	wg.Wait()
	// Report the first failing section in feed order. Sections aborted by our
	// own cancel report context.Canceled and are passed over for the failure
	// that triggered it.
	var canceled error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if parent.Err() == nil && errors.Is(err, context.Canceled) {
			if canceled == nil {
				canceled = err
			}
			continue
		}
		return nil, err
	}
	if canceled != nil {
		return nil, canceled
	}
	return out, nil
}

// Render lays out the sections:
//
//	<speak>
//	<!-- Gesamtwetterlage -->  <p>…</p>  <break 0.3s/>
//	<!-- Wetter heute -->      <break 1.2s/> <s>lead-in</s> <p>…</p>
//	<!-- Wetter morgen -->     <break 1.2s/> <s>lead-in</s> <p>…</p>
//	</speak>
func Render(feeds []Feed, sections [][]string) (string, error) {
	if len(feeds) != len(sections) {
		return "", fmt.Errorf("render: %d feeds but %d sections", len(feeds), len(sections))
	}
	var b ssml.Builder
	b.Open("speak")
	for i, f := range feeds {
		if i == 1 {
			b.Line(ssml.Break(ssml.PauseSection))
		}
		b.Line(ssml.Comment(f.Title))
		if f.LeadIn != "" {
			b.Line(ssml.Break(ssml.PauseOutlook))
			b.Line(ssml.Sentence(f.LeadIn))
		}
		b.Open("p")
		b.Lines(sections[i])
		b.Close("p")
	}
	b.Close("speak")
	return b.Document()
}
