package sequoyah

import (
	"context"
	"io"
	"time"
)

// LoadCorpus replaces the sentence corpus from a JSON corpus file:
// parse and classify each entry, truncate the existing corpus, write in
// batches, and rebuild the index. Word tags survive the reload and
// their summaries are reattached to the new sentence hashes.
// Requires a configured analyzer.
func (c *Client) LoadCorpus(ctx context.Context, corpus io.Reader) (stats IngestStats, err error) {
	defer func(start time.Time) { c.obs.observe("load_corpus", start, err) }(time.Now())

	s, err := c.ingest.Run(ctx, corpus)
	if err != nil {
		return IngestStats{}, err
	}
	return IngestStats{Loaded: s.Loaded, Skipped: s.Skipped, Truncated: s.Truncated, Resynced: s.Resynced}, nil
}

// LoadVerses replaces the legacy verse corpus from a JSON file of
// books, each carrying its chapters as ordered verse text lists.
// Requires a configured analyzer.
func (c *Client) LoadVerses(ctx context.Context, corpus io.Reader) (stats VerseIngestStats, err error) {
	defer func(start time.Time) { c.obs.observe("load_verses", start, err) }(time.Now())

	s, err := c.verses.Run(ctx, corpus)
	if err != nil {
		return VerseIngestStats{}, err
	}
	return VerseIngestStats{Books: s.Books, Loaded: s.Loaded, Truncated: s.Truncated}, nil
}
