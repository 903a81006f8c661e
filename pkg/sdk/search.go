package sequoyah

import (
	"context"
	"time"
)

// SearchSentences executes a filtered sentence search. total counts the
// full pre-pagination match set.
func (c *Client) SearchSentences(ctx context.Context, req SearchRequest) (
	page []Sentence, total int, err error,
) {
	defer func(start time.Time) { c.obs.observe("search_sentences", start, err) }(time.Now())

	hits, total, err := c.search.Search(ctx, req.toDomain())
	if err != nil {
		return nil, 0, err
	}

	page = make([]Sentence, 0, len(hits))
	for _, h := range hits {
		page = append(page, fromAnnotated(h))
	}
	return page, total, nil
}

// SearchVerses executes the legacy verse search. Lemma mode requires a
// configured analyzer.
func (c *Client) SearchVerses(ctx context.Context, query string, useLemma bool, limit, offset int) (
	page []Verse, total int, err error,
) {
	defer func(start time.Time) { c.obs.observe("search_verses", start, err) }(time.Now())

	hits, total, err := c.search.SearchVerses(ctx, query, useLemma, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	page = make([]Verse, 0, len(hits))
	for _, h := range hits {
		page = append(page, fromVerse(h))
	}
	return page, total, nil
}
