// Package sequoyah provides an embedded Go client for the sentence
// corpus store: search, word tagging, grouping, and corpus loading
// without running the HTTP service.
//
// The client connects directly to a Redis instance carrying the corpus
// indexes and wires the same engine the service uses:
//
//	client, _ := sequoyah.New(ctx,
//	    sequoyah.WithRedis("localhost:6379", ""),
//	    sequoyah.WithAnalyzer("http://localhost:8090", 30*time.Second),
//	)
//	defer client.Close()
//
//	cmd := true
//	page, total, _ := client.SearchSentences(ctx, sequoyah.SearchRequest{
//	    Query:     "go away",
//	    UseLemma:  true,
//	    IsCommand: &cmd,
//	    Limit:     20,
//	})
//
// Lemma-mode search, corpus loading, and verb statistics need the
// dependency-parse service; without WithAnalyzer (or WithParser) those
// operations fail with ErrAnalyzerUnavailable while plain search and
// tagging keep working.
package sequoyah
