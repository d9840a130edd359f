package confluence

// ContentSearchQuery defines the query parameters for:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/content-search
type ContentSearchQuery struct {
	CQL    string `url:"cql"`
	Start  int    `url:"start"`
	Limit  int    `url:"limit,omitempty"`
	Expand string `url:"expand,omitempty"` // e.g. "space,body.storage"
}

// SearchQuery defines the query parameters for the generic search, which unlike content search
// also finds spaces and users:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/search-search
type SearchQuery struct {
	CQL   string `url:"cql"`
	Start int    `url:"start,omitempty"`
	Limit int    `url:"limit,omitempty"`
}

// UserSearchQuery defines the query parameters for:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/search-userSearch
type UserSearchQuery struct {
	CQL   string `url:"cql"`
	Start int    `url:"start,omitempty"`
	Limit int    `url:"limit,omitempty"`
}

// SpacesQuery defines the query parameters for:
// https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/space-spaces
type SpacesQuery struct {
	Type  string `url:"type,omitempty"` // "global" or "personal"
	Start int    `url:"start,omitempty"`
	Limit int    `url:"limit,omitempty"`
}

// DeleteContentQuery is used for both phases of deleting content.  Leave Status empty to move
// the item to the trash; set it to "trashed" to purge an item that is already in the trash.
type DeleteContentQuery struct {
	ID     string `url:"-"`
	Status string `url:"status,omitempty"`
}

// ProcessPagesQuery defines the query parameters of the PMC plugin's process search.  The
// metadata keys are fixed by the plugin; the defaults are filled in by the endpoint builder.
type ProcessPagesQuery struct {
	Limit                     int    `url:"limit"`
	Offset                    int    `url:"offset"`
	MetadataSetProcess        string `url:"metadataSetProcess"`
	MetadataFieldProcessType  string `url:"metadataFieldProcessType"`
	MetadataFieldProcessGoals string `url:"metadataFieldProcessGoals"`
	ProcessTypePageID         string `url:"processTypePagePageId"`
}

const (
	ProcessSearchPageSize         = 12
	MetadataSetProcess            = "global.metadataset.communardoqmsprocess"
	MetadataFieldProcessType      = "global.metadatafield.communardoqmsprocesstype"
	MetadataFieldProcessGoals     = "global.metadatafield.communardoqmsprocess"
	MetadataSetProcessType        = "global.metadataset.communardoqmsprocesstype"
	DefaultContentSearchBatchSize = 500
)

// NewProcessPagesQuery returns the query the Process Search macro itself issues for the first
// page of processes of a process type.
func NewProcessPagesQuery(processTypePageID string) ProcessPagesQuery {
	return ProcessPagesQuery{
		Limit:                     ProcessSearchPageSize,
		Offset:                    0,
		MetadataSetProcess:        MetadataSetProcess,
		MetadataFieldProcessType:  MetadataFieldProcessType,
		MetadataFieldProcessGoals: MetadataFieldProcessGoals,
		ProcessTypePageID:         processTypePageID,
	}
}
