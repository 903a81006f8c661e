// Package group persists the two grouping shapes: manual sentence
// groups (Redis sets of ref_ids) and tagging-group presets (JSON
// values with a name pointer for upsert-by-name).
package group

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tsalagi-lab/sequoyah/internal/db"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// store is the consumer interface for groups (ISP).
type store interface {
	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SRem(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the grouping store contract.
type Repo struct {
	store  store
	prefix string
}

// New creates a group repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) groupKey(name string) string {
	return r.prefix + "sgroup:" + name
}

func (r *Repo) presetKey(refID string) string {
	return r.prefix + "tgroup:id:" + refID
}

func (r *Repo) presetNameKey(name string) string {
	return r.prefix + "tgroup:name:" + name
}

// --- Sentence groups ---

// AddMember adds a sentence to a named group, creating the group
// implicitly. Returns true if the membership is new.
func (r *Repo) AddMember(ctx context.Context, group, refID string) (bool, error) {
	n, err := r.store.SAdd(ctx, r.groupKey(group), refID)
	if err != nil {
		return false, fmt.Errorf("add member %s->%s: %w", refID, group, err)
	}
	return n > 0, nil
}

// RemoveMember removes a sentence from a group. A group with no
// remaining members ceases to exist.
func (r *Repo) RemoveMember(ctx context.Context, group, refID string) (bool, error) {
	n, err := r.store.SRem(ctx, r.groupKey(group), refID)
	if err != nil {
		return false, fmt.Errorf("remove member %s->%s: %w", refID, group, err)
	}
	return n > 0, nil
}

// Members returns the ref_ids in a group, sorted for stable output.
func (r *Repo) Members(ctx context.Context, group string) ([]string, error) {
	members, err := r.store.SMembers(ctx, r.groupKey(group))
	if err != nil {
		return nil, fmt.Errorf("members of %s: %w", group, err)
	}
	sort.Strings(members)
	return members, nil
}

// ListGroups enumerates group names by key scan, sorted.
func (r *Repo) ListGroups(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"sgroup:*")
	if err != nil {
		return nil, fmt.Errorf("scan groups: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, r.prefix+"sgroup:"))
	}
	sort.Strings(names)
	return names, nil
}

// --- Tagging-group presets ---

// FindPresetByName resolves a preset name to its ref_id, or
// domain.ErrNotFound when no preset carries that name.
func (r *Repo) FindPresetByName(ctx context.Context, name string) (string, error) {
	raw, err := r.store.Get(ctx, r.presetNameKey(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("resolve preset %s: %w", name, err)
	}
	return string(raw), nil
}

// SavePreset writes a preset and its name pointer.
func (r *Repo) SavePreset(ctx context.Context, tg *domain.TaggingGroup) error {
	data, err := json.Marshal(tg)
	if err != nil {
		return fmt.Errorf("marshal preset %s: %w", tg.Name, err)
	}
	if err := r.store.Set(ctx, r.presetKey(tg.RefID), data); err != nil {
		return fmt.Errorf("save preset %s: %w", tg.Name, err)
	}
	if err := r.store.Set(ctx, r.presetNameKey(tg.Name), []byte(tg.RefID)); err != nil {
		return fmt.Errorf("save preset pointer %s: %w", tg.Name, err)
	}
	return nil
}

// GetPreset returns one preset by ref_id.
func (r *Repo) GetPreset(ctx context.Context, refID string) (domain.TaggingGroup, error) {
	raw, err := r.store.Get(ctx, r.presetKey(refID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.TaggingGroup{}, domain.ErrNotFound
		}
		return domain.TaggingGroup{}, fmt.Errorf("get preset %s: %w", refID, err)
	}

	var tg domain.TaggingGroup
	if err := json.Unmarshal(raw, &tg); err != nil {
		return domain.TaggingGroup{}, fmt.Errorf("decode preset %s: %w", refID, err)
	}
	return tg, nil
}

// ListPresets enumerates all presets, sorted by name.
func (r *Repo) ListPresets(ctx context.Context) ([]domain.TaggingGroup, error) {
	keys, err := r.store.Scan(ctx, r.prefix+"tgroup:id:*")
	if err != nil {
		return nil, fmt.Errorf("scan presets: %w", err)
	}

	out := make([]domain.TaggingGroup, 0, len(keys))
	for _, key := range keys {
		refID := strings.TrimPrefix(key, r.prefix+"tgroup:id:")
		tg, err := r.GetPreset(ctx, refID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // deleted between scan and fetch
			}
			return nil, err
		}
		out = append(out, tg)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeletePreset removes a preset and its name pointer. Idempotent.
func (r *Repo) DeletePreset(ctx context.Context, refID string) error {
	tg, err := r.GetPreset(ctx, refID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := r.store.Del(ctx, r.presetKey(refID)); err != nil {
		return fmt.Errorf("delete preset %s: %w", refID, err)
	}
	if err := r.store.Del(ctx, r.presetNameKey(tg.Name)); err != nil {
		return fmt.Errorf("delete preset pointer %s: %w", tg.Name, err)
	}
	return nil
}
