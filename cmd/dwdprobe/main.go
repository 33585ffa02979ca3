// Command dwdprobe prints one forecast feed for a region at each processing
// stage: extracted lines, then normalized lines.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hyperifyio/wetterbericht/internal/extract"
	"github.com/hyperifyio/wetterbericht/internal/fetch"
	"github.com/hyperifyio/wetterbericht/internal/forecast"
	"github.com/hyperifyio/wetterbericht/internal/normalize"
	"github.com/hyperifyio/wetterbericht/internal/region"
)

func main() {
	base := os.Getenv("WETTER_BASE_URL")
	state := string(region.Default)
	if len(os.Args) > 1 {
		state = os.Args[1]
	}
	feedID := forecast.Today.ID
	if len(os.Args) > 2 {
		feedID = os.Args[2]
	}

	client := &fetch.Client{UserAgent: "dwdprobe/1.0", PerRequestTimeout: 20 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()
	if err := probe(ctx, os.Stdout, client, base, state, feedID); err != nil {
		fmt.Fprintln(os.Stderr, "err:", err)
		os.Exit(1)
	}
}

func probe(ctx context.Context, w io.Writer, f forecast.Fetcher, base, state, feedID string) error {
	code, err := region.Resolve(state)
	if err != nil {
		return err
	}
	feed := forecast.Feed{ID: feedID}
	for _, known := range forecast.Feeds() {
		if known.ID == feedID {
			feed = known
		}
	}
	u := forecast.FeedURL(base, feed, code)
	fmt.Fprintf(w, "%s %s (%s)\n", state, feed.ID, u)

	text, err := f.GetText(ctx, u)
	if err != nil {
		return err
	}
	raw := extract.FromHTML(text).Lines()
	fmt.Fprintf(w, "\nextracted (%d):\n", len(raw))
	for i, l := range raw {
		fmt.Fprintf(w, "%2d. %s\n", i+1, l)
	}
	lines := normalize.Normalizer{}.Normalize(raw)
	fmt.Fprintf(w, "\nnormalized (%d):\n", len(lines))
	for i, l := range lines {
		fmt.Fprintf(w, "%2d. %s\n", i+1, l)
	}
	return nil
}
