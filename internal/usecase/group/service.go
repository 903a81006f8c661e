// Package group implements sentence groups and tagging-group presets.
package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// Service handles sentence groups and tagging-group presets.
type Service struct {
	groups    GroupRepository
	sentences SentenceReader
	logger    *zap.Logger
}

// New creates a group service.
func New(groups GroupRepository, sentences SentenceReader, logger *zap.Logger) *Service {
	return &Service{groups: groups, sentences: sentences, logger: logger}
}

// --- Sentence groups ---

// AddMember adds a sentence to a named group, creating the group
// implicitly. The sentence must exist. Returns true when the
// membership is new, false for a no-op repeat.
func (s *Service) AddMember(ctx context.Context, group, refID string) (bool, error) {
	if group == "" {
		return false, fmt.Errorf("%w: group name is required", domain.ErrInvalidRequest)
	}
	if _, err := s.sentences.Get(ctx, refID); err != nil {
		return false, err
	}
	return s.groups.AddMember(ctx, group, refID)
}

// RemoveMember drops a sentence from a group. Returns true when a
// membership was actually removed.
func (s *Service) RemoveMember(ctx context.Context, group, refID string) (bool, error) {
	if group == "" {
		return false, fmt.Errorf("%w: group name is required", domain.ErrInvalidRequest)
	}
	return s.groups.RemoveMember(ctx, group, refID)
}

// Members resolves a group to its full sentence records, in ref_id
// order. Members whose sentence record has vanished are skipped. An
// unknown group yields an empty list, matching set semantics: a group
// with no members does not exist, and asking for it is not an error.
func (s *Service) Members(ctx context.Context, group string) ([]domain.SentenceRecord, error) {
	refIDs, err := s.groups.Members(ctx, group)
	if err != nil {
		return nil, err
	}
	if len(refIDs) == 0 {
		return []domain.SentenceRecord{}, nil
	}

	recs, err := s.sentences.GetMulti(ctx, refIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve members of %s: %w", group, err)
	}
	return recs, nil
}

// ListGroups enumerates the existing group names, sorted.
func (s *Service) ListGroups(ctx context.Context) ([]string, error) {
	return s.groups.ListGroups(ctx)
}

// --- Tagging-group presets ---

// SavePreset stores a preset, keyed by name: saving under an existing
// name overwrites that preset in place, keeping its ref_id stable; a
// new name mints a fresh identifier.
func (s *Service) SavePreset(ctx context.Context, tg *domain.TaggingGroup) (domain.TaggingGroup, error) {
	if tg.Name == "" {
		return domain.TaggingGroup{}, fmt.Errorf("%w: preset name is required", domain.ErrInvalidRequest)
	}
	if err := tg.Query.Validate(); err != nil {
		return domain.TaggingGroup{}, fmt.Errorf("%w: preset query: %w", domain.ErrInvalidRequest, err)
	}

	refID, err := s.groups.FindPresetByName(ctx, tg.Name)
	switch {
	case err == nil:
		tg.RefID = refID
	case errors.Is(err, domain.ErrNotFound):
		tg.RefID = uuid.NewString()
	default:
		return domain.TaggingGroup{}, err
	}

	if err := s.groups.SavePreset(ctx, tg); err != nil {
		return domain.TaggingGroup{}, err
	}

	s.logger.Info("tagging preset saved",
		zap.String("name", tg.Name),
		zap.String("ref_id", tg.RefID))
	return *tg, nil
}

// ListPresets returns all presets sorted by name.
func (s *Service) ListPresets(ctx context.Context) ([]domain.TaggingGroup, error) {
	return s.groups.ListPresets(ctx)
}

// GetPreset returns one preset by its ref_id.
func (s *Service) GetPreset(ctx context.Context, refID string) (domain.TaggingGroup, error) {
	return s.groups.GetPreset(ctx, refID)
}

// DeletePreset removes a preset. Deleting an absent preset is a no-op.
func (s *Service) DeletePreset(ctx context.Context, refID string) error {
	return s.groups.DeletePreset(ctx, refID)
}
