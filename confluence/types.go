package confluence

import (
	"fmt"
	"strings"
)

// See https://docs.atlassian.com/ConfluenceServer/rest/8.5.0/#api/user-getUser
type User struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	UserKey     string `json:"userKey"`
	DisplayName string `json:"displayName"`
}

// Space is the subset of a space we care about.  Content search results carry it when the query
// asked for expand=space.
type Space struct {
	ID   int    `json:"id,omitempty"`
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// Content is a page, blogpost, comment or attachment as returned by the v1 content API.  Space
// and Body are only populated when expanded.
type Content struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status,omitempty"`
	Title  string `json:"title"`

	Space *Space `json:"space,omitempty"`
	Body  *Body  `json:"body,omitempty"`
}

// SpaceKey returns the key of the expanded space, or "" if the space wasn't expanded.
func (c Content) SpaceKey() string {
	if c.Space == nil {
		return ""
	}
	return c.Space.Key
}

// StorageValue returns the storage-format body, or "" if the body wasn't expanded.
func (c Content) StorageValue() string {
	if c.Body == nil {
		return ""
	}
	return c.Body.Storage.Value
}

// Body holds the storage information
type Body struct {
	Storage Storage `json:"storage"`
}

// Storage defines the storage information
type Storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// NewContent is the document POSTed to create a page or blogpost.
type NewContent struct {
	Type  string   `json:"type"`
	Title string   `json:"title"`
	Space SpaceRef `json:"space"`
	Body  Body     `json:"body"`
}

type SpaceRef struct {
	Key string `json:"key"`
}

// NewPage builds a page creation document with a storage-format body.
func NewPage(spaceKey string, title string, storageValue string) NewContent {
	return NewContent{
		Type:  PageContent.String(),
		Title: title,
		Space: SpaceRef{Key: spaceKey},
		Body: Body{
			Storage: Storage{
				Value:          storageValue,
				Representation: "storage",
			},
		},
	}
}

// NewUser is the document POSTed to the admin user endpoint.
type NewUser struct {
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// ProcessPage is one hit of the PMC process search.
type ProcessPage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	HasChildren bool   `json:"hasChildren"`
}

type ContentType int

const (
	CommentContent ContentType = iota
	PageContent
	BlogContent
	AttachmentContent
)

// CleanupOrder is the order in which content gets deleted.  Comments hang off pages and
// blogposts, so they go first.
var CleanupOrder = []ContentType{CommentContent, PageContent, BlogContent, AttachmentContent}

func (c ContentType) String() string {
	switch c {
	case CommentContent:
		return "comment"
	case BlogContent:
		return "blogpost"
	case AttachmentContent:
		return "attachment"
	default:
		return "page"
	}
}

func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "comment":
		return CommentContent, nil
	case "page":
		return PageContent, nil
	case "blogpost":
		return BlogContent, nil
	case "attachment":
		return AttachmentContent, nil
	}
	return PageContent, fmt.Errorf("confluence: unknown content type %q", s)
}
