package classify

import (
	"reflect"
	"testing"

	"github.com/tsalagi-lab/sequoyah/internal/analyzer"
)

// tok is shorthand for building parse fixtures.
func tok(text, lemma, pos, tag, dep string, head int) analyzer.Token {
	return analyzer.Token{
		Text:  text,
		Lower: lower(text),
		Lemma: lemma,
		POS:   pos,
		Tag:   tag,
		Dep:   dep,
		Head:  head,
	}
}

func lower(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'A' && r <= 'Z' {
			out[i] = r + ('a' - 'A')
		}
	}
	return string(out)
}

func TestIsCommand(t *testing.T) {
	tests := []struct {
		name   string
		tokens []analyzer.Token
		want   bool
	}{
		{
			name: "bare_imperative",
			tokens: []analyzer.Token{
				tok("Go", "go", "VERB", "VB", "ROOT", 0),
				tok("home", "home", "ADV", "RB", "advmod", 0),
			},
			want: true,
		},
		{
			name: "root_verb_with_subject",
			tokens: []analyzer.Token{
				tok("I", "I", "PRON", "PRP", "nsubj", 1),
				tok("go", "go", "VERB", "VBP", "ROOT", 1),
				tok("home", "home", "ADV", "RB", "advmod", 1),
			},
			want: false,
		},
		{
			name: "negative_imperative_do_support",
			tokens: []analyzer.Token{
				tok("Do", "do", "AUX", "VBP", "ROOT", 0),
				tok("n't", "not", "PART", "RB", "neg", 0),
				tok("go", "go", "VERB", "VB", "xcomp", 0),
			},
			want: true,
		},
		{
			name: "negated_statement_with_subject",
			tokens: []analyzer.Token{
				tok("They", "they", "PRON", "PRP", "nsubj", 1),
				tok("do", "do", "AUX", "VBP", "ROOT", 1),
				tok("n't", "not", "PART", "RB", "neg", 1),
				tok("go", "go", "VERB", "VB", "xcomp", 1),
			},
			want: false,
		},
		{
			name: "past_tense_root",
			tokens: []analyzer.Token{
				tok("Went", "go", "VERB", "VBD", "ROOT", 0),
			},
			want: false,
		},
		{
			name: "clausal_subject_blocks_command",
			tokens: []analyzer.Token{
				tok("matters", "matter", "VERB", "VBP", "ROOT", 0),
				tok("leaving", "leave", "VERB", "VBG", "csubj", 0),
			},
			want: false,
		},
		{
			name:   "empty_parse",
			tokens: nil,
			want:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCommand(tc.tokens); got != tc.want {
				t.Errorf("IsCommand() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsHypothetical(t *testing.T) {
	tests := []struct {
		name   string
		tokens []analyzer.Token
		want   bool
	}{
		{
			name: "if_marker",
			tokens: []analyzer.Token{
				tok("If", "if", "SCONJ", "IN", "mark", 2),
				tok("it", "it", "PRON", "PRP", "nsubj", 2),
				tok("rains", "rain", "VERB", "VBZ", "ROOT", 2),
			},
			want: true,
		},
		{
			name: "would_marker",
			tokens: []analyzer.Token{
				tok("He", "he", "PRON", "PRP", "nsubj", 2),
				tok("would", "would", "AUX", "MD", "aux", 2),
				tok("stay", "stay", "VERB", "VB", "ROOT", 2),
			},
			want: true,
		},
		{
			name: "unless_marker_case_insensitive",
			tokens: []analyzer.Token{
				tok("Unless", "unless", "SCONJ", "IN", "mark", 1),
				tok("told", "tell", "VERB", "VBN", "ROOT", 1),
			},
			want: true,
		},
		{
			name: "plain_statement",
			tokens: []analyzer.Token{
				tok("It", "it", "PRON", "PRP", "nsubj", 1),
				tok("rains", "rain", "VERB", "VBZ", "ROOT", 1),
			},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsHypothetical(tc.tokens); got != tc.want {
				t.Errorf("IsHypothetical() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsInability(t *testing.T) {
	tests := []struct {
		name   string
		lemmas []string
		want   bool
	}{
		{"unable_anywhere", []string{"he", "be", "unable", "to", "walk"}, true},
		{"can_not_adjacent", []string{"I", "can", "not", "swim"}, true},
		{"could_not_adjacent", []string{"they", "could", "not", "see"}, true},
		{"not_able_adjacent", []string{"he", "be", "not", "able", "to", "come"}, true},
		{"not_be_able", []string{"he", "will", "not", "be", "able", "to", "come"}, true},
		{"can_and_not_separated", []string{"can", "he", "not", "stay"}, false},
		{"not_without_ability_context", []string{"do", "not", "go"}, false},
		{"plain_ability", []string{"I", "can", "swim"}, false},
		{"empty", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens := make([]analyzer.Token, len(tc.lemmas))
			for i, l := range tc.lemmas {
				tokens[i] = tok(l, l, "X", "XX", "dep", 0)
			}
			if got := IsInability(tokens); got != tc.want {
				t.Errorf("IsInability(%v) = %v, want %v", tc.lemmas, got, tc.want)
			}
		})
	}
}

func TestIsInability_UppercaseLemma(t *testing.T) {
	tokens := []analyzer.Token{
		tok("Unable", "Unable", "ADJ", "JJ", "ROOT", 0),
	}
	if !IsInability(tokens) {
		t.Error("expected inability for capitalized lemma")
	}
}

func TestSubclauseTypes(t *testing.T) {
	tests := []struct {
		name string
		deps []string
		want []string
	}{
		{"none", []string{"ROOT", "nsubj", "dobj"}, nil},
		{"single", []string{"ROOT", "advcl", "mark"}, []string{"advcl"}},
		{"deduplicated_sorted", []string{"xcomp", "advcl", "xcomp", "relcl"}, []string{"advcl", "relcl", "xcomp"}},
		{"outside_vocabulary_ignored", []string{"ROOT", "prep", "pobj", "conj"}, nil},
		{"full_vocabulary", []string{"advcl", "relcl", "ccomp", "xcomp", "acl", "csubj", "csubjpass"},
			[]string{"acl", "advcl", "ccomp", "csubj", "csubjpass", "relcl", "xcomp"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tokens := make([]analyzer.Token, len(tc.deps))
			for i, d := range tc.deps {
				tokens[i] = tok("w", "w", "X", "XX", d, 0)
			}
			got := SubclauseTypes(tokens)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SubclauseTypes(%v) = %v, want %v", tc.deps, got, tc.want)
			}
		})
	}
}

func TestClassify_Bundles(t *testing.T) {
	tokens := []analyzer.Token{
		tok("Go", "go", "VERB", "VB", "ROOT", 0),
		tok("if", "if", "SCONJ", "IN", "mark", 2),
		tok("able", "able", "ADJ", "JJ", "advcl", 0),
	}

	facts := Classify(tokens)
	if !facts.IsCommand {
		t.Error("expected IsCommand")
	}
	if !facts.IsHypothetical {
		t.Error("expected IsHypothetical")
	}
	if facts.IsInability {
		t.Error("did not expect IsInability")
	}
	if !reflect.DeepEqual(facts.SubclauseTypes, []string{"advcl"}) {
		t.Errorf("unexpected subclause types: %v", facts.SubclauseTypes)
	}
}

func TestLemmatize(t *testing.T) {
	tokens := []analyzer.Token{
		tok("The", "the", "DET", "DT", "det", 2),
		tok("dogs", "dog", "NOUN", "NNS", "nsubj", 2),
		tok("ran", "run", "VERB", "VBD", "ROOT", 2),
		{Text: " ", Lemma: " ", IsSpace: true},
		tok(".", ".", "PUNCT", ".", "punct", 2),
	}
	if got := Lemmatize(tokens); got != "the dog run ." {
		t.Errorf("Lemmatize() = %q", got)
	}
}
