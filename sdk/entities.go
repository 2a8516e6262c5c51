package sdk

import "time"

// Links is the "_links" section of Confluence responses. Base is absolute;
// the other links are relative to Base unless noted.
type Links struct {
	Base       string `json:"base,omitempty"`
	Context    string `json:"context,omitempty"`
	Collection string `json:"collection,omitempty"`
	// Self is absolute.
	Self     string `json:"self,omitempty"`
	WebUI    string `json:"webui,omitempty"`
	TinyUI   string `json:"tinyui,omitempty"`
	Edit     string `json:"edit,omitempty"`
	Download string `json:"download,omitempty"`
	Next     string `json:"next,omitempty"`
	Prev     string `json:"prev,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Representation is the format of a body or description value.
type Representation string

const (
	RepresentationStorage Representation = "storage"
	RepresentationView    Representation = "view"
	RepresentationPlain   Representation = "plain"
	RepresentationWiki    Representation = "wiki"
)

// Plain is a plain text value.
type Plain struct {
	Value          string         `json:"value"`
	Representation Representation `json:"representation,omitempty"`
}

// Description of a space.
type Description struct {
	Plain *Plain `json:"plain,omitempty"`
}

// Space is a Confluence space.
type Space struct {
	ID          int64        `json:"id,omitempty"`
	Key         string       `json:"key"`
	Name        string       `json:"name,omitempty"`
	Type        string       `json:"type,omitempty"`
	Status      string       `json:"status,omitempty"`
	Description *Description `json:"description,omitempty"`
	Homepage    *Content     `json:"homepage,omitempty"`
	Links       *Links       `json:"_links,omitempty"`
}

// PlainDescription returns the plain text description, or "".
func (s *Space) PlainDescription() string {
	if s.Description == nil || s.Description.Plain == nil {
		return ""
	}
	return s.Description.Plain.Value
}

// BodyValue is the content body in one representation.
type BodyValue struct {
	Value          string         `json:"value"`
	Representation Representation `json:"representation"`
}

// Body holds the representations requested via expand=body.storage etc.
type Body struct {
	Storage *BodyValue `json:"storage,omitempty"`
	View    *BodyValue `json:"view,omitempty"`
}

// Version of a content entity.
type Version struct {
	Number    int        `json:"number"`
	When      *time.Time `json:"when,omitempty"`
	By        *User      `json:"by,omitempty"`
	Message   string     `json:"message,omitempty"`
	MinorEdit bool       `json:"minorEdit,omitempty"`
}

// History of a content entity.
type History struct {
	Latest      bool       `json:"latest"`
	CreatedBy   *User      `json:"createdBy,omitempty"`
	CreatedDate *time.Time `json:"createdDate,omitempty"`
	LastUpdated *Version   `json:"lastUpdated,omitempty"`
	Links       *Links     `json:"_links,omitempty"`
}

// Label on a content entity.
type Label struct {
	ID     string `json:"id,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Name   string `json:"name"`
	Label  string `json:"label,omitempty"`
}

// Metadata holds the expanded metadata section of content.
type Metadata struct {
	Labels    *Result[Label] `json:"labels,omitempty"`
	MediaType string         `json:"mediaType,omitempty"`
}

// Extensions carries attachment specific properties.
type Extensions struct {
	MediaType string `json:"mediaType,omitempty"`
	FileSize  int64  `json:"fileSize,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// Content is a page, blog post, comment or attachment. Confluence encodes
// ids as strings; attachment ids carry an "att" prefix.
type Content struct {
	ID         string      `json:"id,omitempty"`
	Type       string      `json:"type,omitempty"`
	Status     string      `json:"status,omitempty"`
	Title      string      `json:"title,omitempty"`
	Space      *Space      `json:"space,omitempty"`
	History    *History    `json:"history,omitempty"`
	Version    *Version    `json:"version,omitempty"`
	Ancestors  []Content   `json:"ancestors,omitempty"`
	Container  *Content    `json:"container,omitempty"`
	Body       *Body       `json:"body,omitempty"`
	Metadata   *Metadata   `json:"metadata,omitempty"`
	Extensions *Extensions `json:"extensions,omitempty"`
	Links      *Links      `json:"_links,omitempty"`
}

// Content types as reported in Content.Type.
const (
	ContentTypePage       = "page"
	ContentTypeBlogPost   = "blogpost"
	ContentTypeComment    = "comment"
	ContentTypeAttachment = "attachment"
)

// ProfilePicture of a user.
type ProfilePicture struct {
	Path      string `json:"path"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// User is a Confluence user. Cloud populates AccountID, Server and Data
// Center populate Username and UserKey.
type User struct {
	Type           string          `json:"type,omitempty"`
	Username       string          `json:"username,omitempty"`
	UserKey        string          `json:"userKey,omitempty"`
	AccountID      string          `json:"accountId,omitempty"`
	DisplayName    string          `json:"displayName,omitempty"`
	Email          string          `json:"email,omitempty"`
	ProfilePicture *ProfilePicture `json:"profilePicture,omitempty"`
	Links          *Links          `json:"_links,omitempty"`
}

// Group is a Confluence group.
type Group struct {
	Type  string `json:"type,omitempty"`
	Name  string `json:"name"`
	Links *Links `json:"_links,omitempty"`
}

// SystemInfo is returned by settings/systemInfo. CloudID is only set on
// Confluence Cloud.
type SystemInfo struct {
	CloudID       string `json:"cloudId,omitempty"`
	CommitHash    string `json:"commitHash,omitempty"`
	BaseURL       string `json:"baseUrl,omitempty"`
	Edition       string `json:"edition,omitempty"`
	SiteTitle     string `json:"siteTitle,omitempty"`
	DefaultLocale string `json:"defaultLocale,omitempty"`
	BuildNumber   string `json:"buildNumber,omitempty"`
}

// LongRunningTask is returned for operations Confluence completes
// asynchronously, such as deleting a space.
type LongRunningTask struct {
	ID    string `json:"id"`
	Links *Links `json:"links,omitempty"`
}

// SpaceContents groups the pages and blog posts of a space.
type SpaceContents struct {
	Pages     *Result[Content] `json:"page,omitempty"`
	BlogPosts *Result[Content] `json:"blogpost,omitempty"`
	Links     *Links           `json:"_links,omitempty"`
}

// watchStatus is the body of user/watch GET responses.
type watchStatus struct {
	Watching bool `json:"watching"`
}
