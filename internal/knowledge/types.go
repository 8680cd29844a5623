// Package knowledge manages the Brastorne knowledge base: embedding
// generation, similarity search through the match_knowledge_base SQL
// function, and upserts keyed by service name.
package knowledge

import "sort"

// Entry is one knowledge base record. ServiceName is the natural key;
// conflicts on ingest are resolved last-write-wins.
type Entry struct {
	ServiceName string            // Unique natural key ("mAgri", "Mpotsa", ...)
	Content     string            // Text that was embedded
	Metadata    map[string]string // Open key-value map (ussd, category, ...)
}

// Result is a search hit with its cosine similarity score.
type Result struct {
	Entry      Entry
	Similarity float64
}

// Filter orders results by descending similarity, drops everything
// scoring below threshold (a score exactly at the threshold is kept) and
// truncates to at most count entries. The database function applies the
// same rules; this re-applies them so behavior does not depend on which
// store produced the rows.
func Filter(results []Result, threshold float64, count int) []Result {
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Similarity >= threshold {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Similarity > kept[j].Similarity
	})

	if len(kept) > count {
		kept = kept[:count]
	}
	return kept
}
