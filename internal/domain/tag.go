package domain

// WordTag is a user-assigned label on one word position of a sentence.
// The (RefID, WordIndex) pair is unique: assigning a new tag to an
// already-tagged position replaces the old one.
type WordTag struct {
	RefID     string `json:"-"`
	WordIndex int    `json:"word_index"`
	Tag       string `json:"tag"`
}
