// Package domain holds the corpus entities: sentence records, word tags,
// groups, and the legacy verse corpus.
package domain

import "sort"

// SentenceRecord is one corpus sentence with its derived grammatical
// facts. English, Syllabary and Phonetic are parallel-aligned text
// representations; Syllabary and Phonetic are whitespace-tokenized word
// sequences expected to have equal word counts (violations degrade
// annotation accuracy but never fail indexing).
type SentenceRecord struct {
	RefID          string
	English        string
	Syllabary      string
	Phonetic       string
	Audio          string
	LemmaText      string
	IsCommand      bool
	IsHypothetical bool
	IsInability    bool
	// SubclauseTypes is the set of dependency labels found in the
	// sentence, sorted. nil means "no subclause", distinct from an
	// empty-but-present set, which is never stored.
	SubclauseTypes []string
}

// AnnotatedSentence is a sentence plus its word-level tag annotations,
// as returned by search. Tags is empty (never nil) when untagged.
type AnnotatedSentence struct {
	SentenceRecord
	Score float64
	Tags  []WordTag
}

// SubclauseVocabulary is the fixed set of dependency labels the
// classifier extracts and the subclause filter recognizes.
var SubclauseVocabulary = map[string]bool{
	"advcl":     true, // adverbial clause modifier
	"relcl":     true, // relative clause modifier
	"ccomp":     true, // clausal complement
	"xcomp":     true, // open clausal complement
	"acl":       true, // adjectival clause
	"csubj":     true, // clausal subject
	"csubjpass": true, // passive clausal subject
}

// Meta-values accepted by the subclause_types filter dimension.
const (
	// SubclauseAny matches sentences with at least one subclause.
	SubclauseAny = "any"
	// SubclauseNone matches sentences with no subclause at all.
	SubclauseNone = "none"
)

// TimeKeywords are the adverbs whose presence in the English text,
// together with an advcl subclause, marks a sentence as a time clause.
var TimeKeywords = []string{"when", "while", "after", "before", "until", "since", "as soon as"}

// SortedSubclauses returns the label set sorted and deduplicated, for
// stable serialization. Returns nil for an empty set.
func SortedSubclauses(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}
