package group

import (
	"context"

	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// GroupRepository is the grouping store slice this service consumes.
type GroupRepository interface {
	AddMember(ctx context.Context, group, refID string) (bool, error)
	RemoveMember(ctx context.Context, group, refID string) (bool, error)
	Members(ctx context.Context, group string) ([]string, error)
	ListGroups(ctx context.Context) ([]string, error)

	FindPresetByName(ctx context.Context, name string) (string, error)
	SavePreset(ctx context.Context, tg *domain.TaggingGroup) error
	GetPreset(ctx context.Context, refID string) (domain.TaggingGroup, error)
	ListPresets(ctx context.Context) ([]domain.TaggingGroup, error)
	DeletePreset(ctx context.Context, refID string) error
}

// SentenceReader resolves group members to full records.
type SentenceReader interface {
	Get(ctx context.Context, refID string) (domain.SentenceRecord, error)
	GetMulti(ctx context.Context, refIDs []string) ([]domain.SentenceRecord, error)
}
