package sequoyah

import (
	"context"
	"time"
)

// VerbStats returns the stored hypothetical-verb statistics ordered by
// total count, highest first.
func (c *Client) VerbStats(ctx context.Context, limit int) (stats []VerbStat, err error) {
	defer func(start time.Time) { c.obs.observe("verb_stats", start, err) }(time.Now())

	rows, err := c.analysis.Top(ctx, limit)
	if err != nil {
		return nil, err
	}
	stats = make([]VerbStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, fromVerbStat(r))
	}
	return stats, nil
}

// RecomputeVerbStats re-parses every hypothetical sentence and replaces
// the stored statistics. Returns the number of distinct verb forms.
// Requires a configured analyzer.
func (c *Client) RecomputeVerbStats(ctx context.Context) (forms int, err error) {
	defer func(start time.Time) { c.obs.observe("recompute_verb_stats", start, err) }(time.Now())
	return c.analysis.Recompute(ctx)
}
