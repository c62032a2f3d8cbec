package domain

// SearchResult represents a single similarity hit. Results are produced
// fresh for each query and never persisted.
type SearchResult struct {
	// ID is the matched chunk id.
	ID string

	// Content is the chunk text.
	Content string

	// Metadata is the provenance snapshot stored with the chunk.
	Metadata map[string]string

	// Distance is the cosine distance from the query vector.
	// Non-negative; 0 means identical. Similarity is derived as
	// 1 - Distance and is not stored.
	Distance float64
}

// Similarity returns 1 - Distance clamped to [0, 1].
func (r SearchResult) Similarity() float64 {
	s := 1 - r.Distance
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// SourceRecord is one provenance entry in a ContextResponse.
type SourceRecord struct {
	Title        string  `json:"title"`
	URL          string  `json:"url"`
	Content      string  `json:"content"`
	Similarity   float64 `json:"similarity"`
	LastModified string  `json:"last_modified"`
}

// ContextResponse is the assembled, length-bounded context returned to a
// language-model caller, with the ordered sources it was built from.
//
// Sources lists every result that survived threshold filtering, even when
// Context was truncated before some of their text could be included. Callers
// relying on Sources for citation always get the full list.
type ContextResponse struct {
	Context string         `json:"context"`
	Sources []SourceRecord `json:"sources"`
}
