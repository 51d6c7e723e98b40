package models

import "time"

// Snippet is a piece of source text owned by its Author.
type Snippet struct {
	ID          string     `json:"id"`
	Author      string     `json:"author"`
	Title       string     `json:"title"`
	Language    string     `json:"language"`
	Code        string     `json:"code"`
	Created     time.Time  `json:"created"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// SnippetPatch carries the fields a client may change on update.
// Nil fields keep their stored value.
type SnippetPatch struct {
	Title    *string `json:"title"`
	Language *string `json:"language"`
	Code     *string `json:"code"`
}

// Apply merges p over s.
func (p SnippetPatch) Apply(s *Snippet) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Code != nil {
		s.Code = *p.Code
	}
}
