package domain

// Verse is one verse of the legacy KJV corpus. Retained alongside the
// sentence corpus for the restricted-column verse search mode.
type Verse struct {
	ID             string
	Book           string
	Chapter        int
	Number         int
	Text           string
	LemmaText      string
	IsCommand      bool
	IsHypothetical bool
}

// VerbStat counts occurrences of one verb surface form across the
// hypothetical subset of the corpus, split by clause position: inside an
// adverbial subclause versus in the matrix clause.
type VerbStat struct {
	Form           string
	SubclauseCount int
	MatrixCount    int
	TotalCount     int
}
