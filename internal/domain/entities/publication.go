package entities

// MisuseMetadataRecord is the review-site representation of a misuse
type MisuseMetadataRecord struct {
	Project        string          `json:"project"`
	Version        string          `json:"version"`
	Misuse         string          `json:"misuse"`
	Description    string          `json:"description"`
	Fix            FixRecord       `json:"fix"`
	Location       LocationRecord  `json:"location"`
	ViolationTypes []string        `json:"violation_types"`
	Patterns       []PatternRecord `json:"patterns"`
	TargetSnippets []SnippetRecord `json:"target_snippets"`
}

// FixRecord is the published form of a Fix
type FixRecord struct {
	Description string `json:"description"`
	DiffURL     string `json:"diff-url"`
	Revision    string `json:"revision,omitempty"`
}

// LocationRecord is the published form of a Location
type LocationRecord struct {
	File   string `json:"file"`
	Method string `json:"method"`
}

// PatternRecord carries the code of one precomputed pattern
type PatternRecord struct {
	ID      string        `json:"id"`
	Snippet SnippetRecord `json:"snippet"`
}

// SnippetRecord is a piece of code with its starting line
type SnippetRecord struct {
	Code            string `json:"code"`
	FirstLine       int    `json:"first_line"`
	FirstLineNumber int    `json:"first_line_number,omitempty"`
}
