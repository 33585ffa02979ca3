package forecast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/wetterbericht/internal/fetch"
	"github.com/hyperifyio/wetterbericht/internal/normalize"
	"github.com/hyperifyio/wetterbericht/internal/region"
)

type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[string]string
	delays map[string]time.Duration
	fail   map[string]error
	// block makes a feed wait until its context ends.
	block map[string]bool
	calls []string
}

func (f *fakeFetcher) GetText(ctx context.Context, u string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, u)
	d := f.delays[u]
	err := f.fail[u]
	page, ok := f.pages[u]
	blocked := f.block[u]
	f.mu.Unlock()
	if blocked {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if d > 0 {
		time.Sleep(d)
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("not found")
	}
	return page, nil
}

func bulletin(body string) string {
	return "<html><body><pre>\n" + body + "\n</pre></body></html>"
}

func pagesFor(base string, code region.Code) map[string]string {
	return map[string]string{
		FeedURL(base, GeneralSituation, code): bulletin("Letzte Aktualisierung: 10:30 Uhr\nHochdruckeinfluss."),
		FeedURL(base, Today, code):            bulletin("Sonnig, Maxima um 25 Grad."),
		FeedURL(base, Tomorrow, code):         bulletin("Wolkig. Wolkig. Minima 12 Grad."),
	}
}

func TestFeedURL(t *testing.T) {
	got := FeedURL("", Today, "LG")
	assert.Equal(t, "http://opendata.dwd.de/weather/text_forecasts/html/VHDL50_DWLG_LATEST_html", got)
	assert.Equal(t, "http://mirror/weather/text_forecasts/html/VHDL54_DWLG_LATEST_html", FeedURL("http://mirror/", GeneralSituation, "LG"))
}

func TestFeedURL_UnsupportedSentinelIsWellFormed(t *testing.T) {
	code := region.Lookup("Atlantis")
	require.Equal(t, region.Unsupported, code)
	raw := FeedURL(DefaultBaseURL, Tomorrow, code)
	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "opendata.dwd.de", u.Host)
	assert.NotContains(t, raw, " ")
	assert.Contains(t, u.Path, string(region.Unsupported))
}

func TestURLs_ThreeFeedsWithCode(t *testing.T) {
	a := &Assembler{}
	urls := a.URLs(region.Lookup("Sachsen"))
	require.Len(t, urls, 3)
	for _, u := range urls {
		assert.Contains(t, u, "_DWLG_")
	}
	assert.Contains(t, urls[0], "VHDL54")
	assert.Contains(t, urls[1], "VHDL50")
	assert.Contains(t, urls[2], "VHDL51")
}

func TestBuild_Document(t *testing.T) {
	code := region.Lookup("Sachsen")
	f := &fakeFetcher{pages: pagesFor("http://dwd.test", code)}
	a := &Assembler{Fetcher: f, BaseURL: "http://dwd.test"}

	doc, err := a.Build(context.Background(), code)
	require.NoError(t, err)

	want := strings.Join([]string{
		"<speak>",
		"<!-- Gesamtwetterlage -->",
		"<p>",
		"Hochdruckeinfluss.",
		"</p>",
		`<break time="0.3s"/>`,
		"<!-- Wetter heute -->",
		`<break time="1.2s"/>`,
		"<s>Die Aussichten für heute.</s>",
		"<p>",
		`Sonnig,<break time="0.3s"/> Höchsttemperaturen um 25 Grad.`,
		"</p>",
		"<!-- Wetter morgen -->",
		`<break time="1.2s"/>`,
		"<s>Die Aussichten für morgen.</s>",
		"<p>",
		"Wolkig. Tiefsttemperaturen 12 Grad.",
		"</p>",
		"</speak>",
	}, "\r\n")
	assert.Equal(t, want, doc)
	assert.Equal(t, a.URLs(code), f.calls)
}

func TestBuild_Structure(t *testing.T) {
	code := region.Lookup("Sachsen")
	f := &fakeFetcher{pages: pagesFor("", code)}
	doc, err := (&Assembler{Fetcher: f}).Build(context.Background(), code)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "<speak>"))
	assert.True(t, strings.HasSuffix(doc, "</speak>"))
	assert.Equal(t, 2, strings.Count(doc, "<s>"))
	assert.Equal(t, 3, strings.Count(doc, "<p>"))
	assert.Equal(t, 3, strings.Count(doc, "</p>"))
	general := strings.Index(doc, "Hochdruckeinfluss")
	today := strings.Index(doc, "Höchsttemperaturen")
	tomorrow := strings.Index(doc, "Tiefsttemperaturen")
	assert.True(t, general < today && today < tomorrow)
}

func TestBuild_FetchErrorAborts(t *testing.T) {
	code := region.Lookup("Hessen")
	f := &fakeFetcher{
		pages: pagesFor("", code),
		fail:  map[string]error{FeedURL("", Today, code): errors.New("boom")},
	}
	_, err := (&Assembler{Fetcher: f}).Build(context.Background(), code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	// Sequential mode stops at the failing section.
	assert.Len(t, f.calls, 2)
}

func TestBuild_ParallelKeepsOrder(t *testing.T) {
	code := region.Lookup("Bayern")
	f := &fakeFetcher{
		pages: pagesFor("", code),
		delays: map[string]time.Duration{
			FeedURL("", GeneralSituation, code): 60 * time.Millisecond,
			FeedURL("", Today, code):            30 * time.Millisecond,
		},
	}
	seq, err := (&Assembler{Fetcher: &fakeFetcher{pages: pagesFor("", code)}}).Build(context.Background(), code)
	require.NoError(t, err)
	par, err := (&Assembler{Fetcher: f, Parallel: true}).Build(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestBuild_ParallelError(t *testing.T) {
	code := region.Lookup("Bayern")
	f := &fakeFetcher{
		pages: pagesFor("", code),
		fail:  map[string]error{FeedURL("", Tomorrow, code): errors.New("tomorrow down")},
	}
	_, err := (&Assembler{Fetcher: f, Parallel: true}).Build(context.Background(), code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tomorrow down")
}

func TestBuild_ParallelErrorNotMaskedByCancel(t *testing.T) {
	code := region.Lookup("Sachsen")
	f := &fakeFetcher{
		pages: pagesFor("", code),
		block: map[string]bool{
			FeedURL("", GeneralSituation, code): true,
			FeedURL("", Today, code):            true,
		},
		fail: map[string]error{FeedURL("", Tomorrow, code): errors.New("tomorrow down")},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := (&Assembler{Fetcher: f, Parallel: true}).Build(ctx, code)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tomorrow down")
	assert.NotErrorIs(t, err, context.Canceled)
}

func TestBuild_ParallelCallerCancel(t *testing.T) {
	code := region.Lookup("Sachsen")
	f := &fakeFetcher{
		pages: pagesFor("", code),
		block: map[string]bool{FeedURL("", GeneralSituation, code): true},
	}
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	_, err := (&Assembler{Fetcher: f, Parallel: true}).Build(ctx, code)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_SkipWarnings(t *testing.T) {
	code := region.Lookup("Berlin")
	pages := pagesFor("", code)
	pages[FeedURL("", Today, code)] = bulletin("Sonnig.\nHITZE:\nStarke Wärmebelastung.")
	f := &fakeFetcher{pages: pages}
	a := &Assembler{Fetcher: f, Normalizer: normalize.Normalizer{SkipWarnings: true}}
	doc, err := a.Build(context.Background(), code)
	require.NoError(t, err)
	assert.Contains(t, doc, normalize.SkippedWarnings)
	assert.NotContains(t, doc, "Wärmebelastung")
	assert.True(t, strings.HasSuffix(doc, "</speak>"))
}

func TestRender_MismatchedSections(t *testing.T) {
	_, err := Render(Feeds(), [][]string{{"a"}})
	require.Error(t, err)
}

func TestBuild_OverHTTP(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "Wind aus Südost (Bft 4)." with ü as 0xFC
		_, _ = w.Write([]byte("<pre><strong>Heute:</strong></pre><pre>\nWind aus S\xfcdost (Bft 4).</pre>"))
	}))
	defer srv.Close()

	a := &Assembler{Fetcher: &fetch.Client{HTTPClient: srv.Client()}, BaseURL: srv.URL}
	doc, err := a.Build(context.Background(), region.Lookup("Sachsen"))
	require.NoError(t, err)
	assert.Contains(t, doc, "Wind aus Süd Ost.")
	assert.Contains(t, doc, `<!-- Warnung: Heute: --><break time="0.5s"/>`)
	require.Len(t, paths, 3)
	for _, p := range paths {
		assert.Contains(t, p, "_DWLG_LATEST_html")
	}
}
