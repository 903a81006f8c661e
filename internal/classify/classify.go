// Package classify derives grammatical-construction facts from a parsed
// sentence. All functions are pure and deterministic over the token
// sequence; they never perform I/O.
package classify

import (
	"strings"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
	"github.com/tsalagi-lab/sequoyah/internal/domain"
)

// Facts bundles the derived per-sentence classification fields.
type Facts struct {
	IsCommand      bool
	IsHypothetical bool
	IsInability    bool
	SubclauseTypes []string
}

// Classify runs all detectors over one parsed sentence.
func Classify(tokens []analyzer.Token) Facts {
	return Facts{
		IsCommand:      IsCommand(tokens),
		IsHypothetical: IsHypothetical(tokens),
		IsInability:    IsInability(tokens),
		SubclauseTypes: SubclauseTypes(tokens),
	}
}

var subjectDeps = map[string]bool{
	"nsubj":     true,
	"nsubjpass": true,
	"csubj":     true,
	"csubjpass": true,
}

// IsCommand reports whether the sentence reads as an imperative.
//
// The root must be a verb in base or non-3rd-person-present form with
// no explicit subject child, or a present-tense negation auxiliary with
// no subject ("Don't go"). Imperatives are subjectless by default; the
// heuristic misses stylistic imperatives and over-fires on
// headline-style fragments.
func IsCommand(tokens []analyzer.Token) bool {
	for i, tok := range tokens {
		if tok.Dep != "ROOT" {
			continue
		}
		if tok.POS == "VERB" && (tok.Tag == "VB" || tok.Tag == "VBP") {
			if !hasChildDep(tokens, i, subjectDeps) {
				return true
			}
		}
		if tok.POS == "AUX" && tok.Tag == "VBP" {
			if hasChildDep(tokens, i, map[string]bool{"neg": true}) &&
				!hasChildDep(tokens, i, subjectDeps) {
				return true
			}
		}
	}
	return false
}

func hasChildDep(tokens []analyzer.Token, head int, deps map[string]bool) bool {
	for _, c := range analyzer.Children(tokens, head) {
		if deps[tokens[c].Dep] {
			return true
		}
	}
	return false
}

var conditionalWords = map[string]bool{"if": true, "unless": true, "except": true}
var moodWords = map[string]bool{"would": true, "should": true}

// IsHypothetical reports whether the sentence carries a conditional
// marker or a subjunctive mood auxiliary. Pure token-membership test,
// order-independent.
func IsHypothetical(tokens []analyzer.Token) bool {
	for _, tok := range tokens {
		if conditionalWords[tok.Lower] || moodWords[tok.Lower] {
			return true
		}
	}
	return false
}

// IsInability reports whether the sentence expresses inability:
// lemma "unable" anywhere, "can"/"could" immediately before "not", or
// "not" immediately followed by "able" or by "be able". Adjacency
// matters here, so this scans the lemma sequence positionally.
func IsInability(tokens []analyzer.Token) bool {
	lemmas := make([]string, len(tokens))
	for i, tok := range tokens {
		lemmas[i] = strings.ToLower(tok.Lemma)
	}

	for i, lemma := range lemmas {
		if lemma == "unable" {
			return true
		}
		if lemma != "not" {
			continue
		}
		if i > 0 && (lemmas[i-1] == "can" || lemmas[i-1] == "could") {
			return true
		}
		if i+1 < len(lemmas) && lemmas[i+1] == "able" {
			return true
		}
		if i+2 < len(lemmas) && lemmas[i+1] == "be" && lemmas[i+2] == "able" {
			return true
		}
	}
	return false
}

// SubclauseTypes returns the subclause dependency labels present in the
// sentence, restricted to the fixed vocabulary, deduplicated and sorted
// for stable serialization. Returns nil when none are present.
func SubclauseTypes(tokens []analyzer.Token) []string {
	var found []string
	for _, tok := range tokens {
		if domain.SubclauseVocabulary[tok.Dep] {
			found = append(found, tok.Dep)
		}
	}
	return domain.SortedSubclauses(found)
}

// Lemmatize joins token lemmas with single spaces, skipping pure
// whitespace tokens. Used for the stored lemma_text column and for
// lemma-mode query rewriting.
func Lemmatize(tokens []analyzer.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsSpace {
			continue
		}
		parts = append(parts, tok.Lemma)
	}
	return strings.Join(parts, " ")
}
