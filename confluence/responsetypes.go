package confluence

// ContentSearchResponse is the envelope of /rest/api/content/search.  Size is the number of
// results in this page, not the total.
type ContentSearchResponse struct {
	Results []Content `json:"results"`
	Start   int       `json:"start"`
	Limit   int       `json:"limit"`
	Size    int       `json:"size"`
}

// SearchResponse is the envelope of /rest/api/search.
type SearchResponse struct {
	Results   []SearchResult `json:"results"`
	Start     int            `json:"start"`
	Limit     int            `json:"limit"`
	Size      int            `json:"size"`
	TotalSize int            `json:"totalSize"`
}

// SearchResult is a single hit of the generic search.  Depending on what was found, one of
// Content, Space or User is set.
type SearchResult struct {
	Title      string   `json:"title"`
	EntityType string   `json:"entityType"`
	Content    *Content `json:"content,omitempty"`
	Space      *Space   `json:"space,omitempty"`
	User       *User    `json:"user,omitempty"`
}

// AllSpaces response type
type AllSpaces struct {
	Results []Space `json:"results"`
	Start   int     `json:"start"`
	Limit   int     `json:"limit"`
	Size    int     `json:"size"`
}

type ProcessPagesResponse struct {
	Results []ProcessPage `json:"results"`
}
