// Package analyzer defines the dependency-parse capability contract.
// Parsing itself is external; consumers only see the token stream.
package analyzer

import "context"

// Token is one parsed token of a sentence. Head is the index of the
// syntactic head token within the same sentence; the root token points
// at itself.
type Token struct {
	Text    string `json:"text"`
	Lower   string `json:"lower"`
	Lemma   string `json:"lemma"`
	POS     string `json:"pos"`
	Tag     string `json:"tag"`
	Dep     string `json:"dep"`
	Head    int    `json:"head"`
	IsPunct bool   `json:"is_punct"`
	IsSpace bool   `json:"is_space"`
}

// Parser produces a dependency parse for a single sentence.
type Parser interface {
	Parse(ctx context.Context, text string) ([]Token, error)
}

// Children returns the indexes of tokens whose head is the token at i,
// excluding the token itself (the root is its own head).
func Children(tokens []Token, i int) []int {
	var out []int
	for j := range tokens {
		if j != i && tokens[j].Head == i {
			out = append(out, j)
		}
	}
	return out
}
