package sequoyah

import (
	"context"
	"time"
)

// TagWord assigns a label to one word position of a sentence, replacing
// any previous label at that position.
func (c *Client) TagWord(ctx context.Context, refID string, wordIndex int, tag string) (err error) {
	defer func(start time.Time) { c.obs.observe("tag_word", start, err) }(time.Now())
	return c.tagging.UpsertTag(ctx, refID, wordIndex, tag)
}

// UntagWord removes the label at one word position. Returns how many
// tags were removed (0 or 1); removing an absent tag is not an error.
func (c *Client) UntagWord(ctx context.Context, refID string, wordIndex int) (deleted int, err error) {
	defer func(start time.Time) { c.obs.observe("untag_word", start, err) }(time.Now())
	return c.tagging.RemoveTag(ctx, refID, wordIndex)
}

// Tags lists the word tags of one sentence, ordered by word index.
// Empty (never nil) for an untagged sentence.
func (c *Client) Tags(ctx context.Context, refID string) (tags []WordTag, err error) {
	defer func(start time.Time) { c.obs.observe("list_tags", start, err) }(time.Now())

	recs, err := c.tagging.ListTags(ctx, refID)
	if err != nil {
		return nil, err
	}
	tags = make([]WordTag, 0, len(recs))
	for _, t := range recs {
		tags = append(tags, WordTag{WordIndex: t.WordIndex, Tag: t.Tag})
	}
	return tags, nil
}
