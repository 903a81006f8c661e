package sequoyah

import (
	"github.com/tsalagi-lab/sequoyah/internal/domain"
	"github.com/tsalagi-lab/sequoyah/internal/domain/search/request"
)

// SearchRequest is a sentence search: one free-text query plus the
// orthogonal filter dimensions. Dimensions combine with AND; values
// inside SubclauseTypes combine with OR.
type SearchRequest struct {
	Query    string
	UseLemma bool
	Sort     string // "", "length_asc", "length_desc"
	Limit    int
	Offset   int

	// Tri-state boolean dimensions: nil leaves the dimension unfiltered.
	IsCommand      *bool
	IsHypothetical *bool
	IsTimeClause   *bool

	// SubclauseTypes accepts dependency labels plus "any" and "none".
	SubclauseTypes []string

	Tag          string
	UntaggedOnly bool
}

func (r SearchRequest) toDomain() *request.Request {
	return &request.Request{
		Query:          r.Query,
		UseLemma:       r.UseLemma,
		Sort:           request.ParseSort(r.Sort),
		Limit:          r.Limit,
		Offset:         r.Offset,
		IsCommand:      r.IsCommand,
		IsHypothetical: r.IsHypothetical,
		IsTimeClause:   r.IsTimeClause,
		SubclauseTypes: r.SubclauseTypes,
		TagFilter:      r.Tag,
		UntaggedOnly:   r.UntaggedOnly,
	}
}

// Sentence is one search hit: the corpus sentence, its derived
// grammatical facts, relevance score, and word-level tags.
type Sentence struct {
	RefID          string
	English        string
	Syllabary      string
	Phonetic       string
	Audio          string
	Lemma          string
	IsCommand      bool
	IsHypothetical bool
	IsInability    bool
	SubclauseTypes []string
	Score          float64
	Tags           []WordTag
}

// WordTag is a label on one word position of a sentence.
type WordTag struct {
	WordIndex int
	Tag       string
}

func fromAnnotated(a domain.AnnotatedSentence) Sentence {
	tags := make([]WordTag, 0, len(a.Tags))
	for _, t := range a.Tags {
		tags = append(tags, WordTag{WordIndex: t.WordIndex, Tag: t.Tag})
	}
	return Sentence{
		RefID:          a.RefID,
		English:        a.English,
		Syllabary:      a.Syllabary,
		Phonetic:       a.Phonetic,
		Audio:          a.Audio,
		Lemma:          a.LemmaText,
		IsCommand:      a.IsCommand,
		IsHypothetical: a.IsHypothetical,
		IsInability:    a.IsInability,
		SubclauseTypes: a.SubclauseTypes,
		Score:          a.Score,
		Tags:           tags,
	}
}

func fromRecord(rec domain.SentenceRecord) Sentence {
	return fromAnnotated(domain.AnnotatedSentence{SentenceRecord: rec})
}

// Verse is one verse of the legacy corpus.
type Verse struct {
	ID             string
	Book           string
	Chapter        int
	Number         int
	Text           string
	Lemma          string
	IsCommand      bool
	IsHypothetical bool
}

func fromVerse(v domain.Verse) Verse {
	return Verse{
		ID:             v.ID,
		Book:           v.Book,
		Chapter:        v.Chapter,
		Number:         v.Number,
		Text:           v.Text,
		Lemma:          v.LemmaText,
		IsCommand:      v.IsCommand,
		IsHypothetical: v.IsHypothetical,
	}
}

// VerbStat counts one verb surface form across the hypothetical subset
// of the corpus, split by clause position.
type VerbStat struct {
	Form           string
	SubclauseCount int
	MatrixCount    int
	TotalCount     int
}

func fromVerbStat(s domain.VerbStat) VerbStat {
	return VerbStat(s)
}

// Preset is a saved search-plus-tagging session: the filter request to
// replay and the tag vocabulary for the session. Name is the upsert key.
type Preset struct {
	RefID string
	Name  string
	Tags  []string
	Query SearchRequest
}

func fromPreset(tg domain.TaggingGroup) Preset {
	return Preset{
		RefID: tg.RefID,
		Name:  tg.Name,
		Tags:  tg.Tags,
		Query: SearchRequest{
			Query:          tg.Query.Query,
			UseLemma:       tg.Query.UseLemma,
			Sort:           string(tg.Query.Sort),
			Limit:          tg.Query.Limit,
			Offset:         tg.Query.Offset,
			IsCommand:      tg.Query.IsCommand,
			IsHypothetical: tg.Query.IsHypothetical,
			IsTimeClause:   tg.Query.IsTimeClause,
			SubclauseTypes: tg.Query.SubclauseTypes,
			Tag:            tg.Query.TagFilter,
			UntaggedOnly:   tg.Query.UntaggedOnly,
		},
	}
}

func (p Preset) toDomain() *domain.TaggingGroup {
	return &domain.TaggingGroup{
		RefID: p.RefID,
		Name:  p.Name,
		Tags:  p.Tags,
		Query: *p.Query.toDomain(),
	}
}

// IngestStats summarizes one corpus load.
type IngestStats struct {
	Loaded    int
	Skipped   int
	Truncated int
	Resynced  int
}

// VerseIngestStats summarizes one verse corpus load.
type VerseIngestStats struct {
	Books     int
	Loaded    int
	Truncated int
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component name to "ok"/"error"
}
