package sequoyah

import (
	"context"
	"time"
)

// AddToGroup adds a sentence to a named group, creating the group on
// first use. Returns false when the sentence was already a member.
func (c *Client) AddToGroup(ctx context.Context, group, refID string) (added bool, err error) {
	defer func(start time.Time) { c.obs.observe("add_to_group", start, err) }(time.Now())
	return c.groups.AddMember(ctx, group, refID)
}

// RemoveFromGroup removes a sentence from a group. Returns false when
// the sentence was not a member.
func (c *Client) RemoveFromGroup(ctx context.Context, group, refID string) (removed bool, err error) {
	defer func(start time.Time) { c.obs.observe("remove_from_group", start, err) }(time.Now())
	return c.groups.RemoveMember(ctx, group, refID)
}

// GroupMembers resolves the sentences of one group. Unknown groups
// yield an empty (never nil) result.
func (c *Client) GroupMembers(ctx context.Context, group string) (members []Sentence, err error) {
	defer func(start time.Time) { c.obs.observe("group_members", start, err) }(time.Now())

	recs, err := c.groups.Members(ctx, group)
	if err != nil {
		return nil, err
	}
	members = make([]Sentence, 0, len(recs))
	for _, r := range recs {
		members = append(members, fromRecord(r))
	}
	return members, nil
}

// Groups lists the names of all non-empty groups.
func (c *Client) Groups(ctx context.Context) (names []string, err error) {
	defer func(start time.Time) { c.obs.observe("list_groups", start, err) }(time.Now())
	return c.groups.ListGroups(ctx)
}

// SavePreset upserts a tagging preset by name. A new name mints a
// ref_id; saving an existing name keeps it.
func (c *Client) SavePreset(ctx context.Context, p Preset) (saved Preset, err error) {
	defer func(start time.Time) { c.obs.observe("save_preset", start, err) }(time.Now())

	tg, err := c.groups.SavePreset(ctx, p.toDomain())
	if err != nil {
		return Preset{}, err
	}
	return fromPreset(tg), nil
}

// Presets lists all saved tagging presets.
func (c *Client) Presets(ctx context.Context) (presets []Preset, err error) {
	defer func(start time.Time) { c.obs.observe("list_presets", start, err) }(time.Now())

	tgs, err := c.groups.ListPresets(ctx)
	if err != nil {
		return nil, err
	}
	presets = make([]Preset, 0, len(tgs))
	for _, tg := range tgs {
		presets = append(presets, fromPreset(tg))
	}
	return presets, nil
}

// Preset fetches one tagging preset by ref_id.
func (c *Client) Preset(ctx context.Context, refID string) (p Preset, err error) {
	defer func(start time.Time) { c.obs.observe("get_preset", start, err) }(time.Now())

	tg, err := c.groups.GetPreset(ctx, refID)
	if err != nil {
		return Preset{}, err
	}
	return fromPreset(tg), nil
}

// DeletePreset removes a tagging preset by ref_id.
func (c *Client) DeletePreset(ctx context.Context, refID string) (err error) {
	defer func(start time.Time) { c.obs.observe("delete_preset", start, err) }(time.Now())
	return c.groups.DeletePreset(ctx, refID)
}
