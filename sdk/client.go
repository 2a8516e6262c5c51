package sdk

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

// Client is a Confluence REST client. Operations are grouped into services
// reached through accessor methods. A Client is safe for concurrent use.
//
// Example:
//
//	client, err := sdk.NewClient(sdk.DefaultConfig().
//	    WithBaseURL("https://wiki.example.com").
//	    WithBasicAuth("jsmith", os.Getenv("CONFLUENCE_TOKEN")))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	query, _ := cql.Where.Space().Is(cql.SpaceKey("DEV"))
//	result, err := client.Search().Content(ctx, query, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, c := range result.Results {
//	    fmt.Println(c.ID, c.Title)
//	}
type Client struct {
	transport *httpTransport
	config    *Config

	space      *SpaceService
	content    *ContentService
	search     *SearchService
	attachment *AttachmentService
	user       *UserService
	group      *GroupService
	misc       *MiscService

	cloudMu    sync.Mutex
	cloudKnown bool
	cloud      bool
}

type service struct {
	client *Client
}

// NewClient creates a client from config. config is validated and
// defaulted in place; a nil config is rejected because BaseURL is required.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, WrapError(ErrInvalidConfig, ErrorTypeValidation, "config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	transport, err := newHTTPTransport(config)
	if err != nil {
		return nil, err
	}

	c := &Client{
		transport: transport,
		config:    config,
	}
	s := service{client: c}
	c.space = &SpaceService{s}
	c.content = &ContentService{s}
	c.search = &SearchService{s}
	c.attachment = &AttachmentService{s}
	c.user = &UserService{s}
	c.group = &GroupService{s}
	c.misc = &MiscService{s}
	return c, nil
}

// Space returns the space operations.
func (c *Client) Space() *SpaceService { return c.space }

// Content returns the content and label operations.
func (c *Client) Content() *ContentService { return c.content }

// Search returns the CQL search operations.
func (c *Client) Search() *SearchService { return c.search }

// Attachment returns the attachment operations.
func (c *Client) Attachment() *AttachmentService { return c.attachment }

// User returns the user and watcher operations.
func (c *Client) User() *UserService { return c.user }

// Group returns the group operations.
func (c *Client) Group() *GroupService { return c.group }

// Misc returns the server information operations.
func (c *Client) Misc() *MiscService { return c.misc }

// BaseURL returns the configured Confluence base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.transport.baseURL
	return &u
}

// IsCloudServer reports whether the server is Confluence Cloud, which is
// the case when its system info carries a cloud id. A successful answer is
// remembered for the lifetime of the client.
func (c *Client) IsCloudServer(ctx context.Context) (bool, error) {
	c.cloudMu.Lock()
	defer c.cloudMu.Unlock()
	if c.cloudKnown {
		return c.cloud, nil
	}

	info, err := c.misc.SystemInfo(ctx)
	if err != nil {
		return false, err
	}
	c.cloud = info.CloudID != ""
	c.cloudKnown = true
	return c.cloud, nil
}

// CreateWebUIURI returns the browser URL of an entity.
func (c *Client) CreateWebUIURI(links *Links) (*url.URL, error) {
	if links == nil {
		return nil, invalidArgument("links are required")
	}
	return c.joinBase(links.Base, links.WebUI, "webui")
}

// CreateTinyUIURI returns the short browser URL of an entity.
func (c *Client) CreateTinyUIURI(links *Links) (*url.URL, error) {
	if links == nil {
		return nil, invalidArgument("links are required")
	}
	return c.joinBase(links.Base, links.TinyUI, "tinyui")
}

// CreateDownloadURI returns the download URL of an attachment.
func (c *Client) CreateDownloadURI(links *Links) (*url.URL, error) {
	if links == nil {
		return nil, invalidArgument("links are required")
	}
	return c.joinBase(links.Base, links.Download, "download")
}

// joinBase appends link, which may carry a query, to base. An empty base
// falls back to the configured base URL.
func (c *Client) joinBase(base, link, name string) (*url.URL, error) {
	if link == "" {
		return nil, invalidArgument("no %s link", name)
	}
	if base == "" {
		base = c.transport.baseURL.String()
	}
	u, err := url.Parse(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(link, "/"))
	if err != nil {
		return nil, invalidArgument("invalid %s link %q: %v", name, link, err)
	}
	return u, nil
}

// withBase fills in a missing base link so link based paging works on
// responses that omit it.
func (c *Client) withBase(p *PagingInformation) *PagingInformation {
	if p == nil || p.Links == nil || p.Links.Base != "" {
		return p
	}
	links := *p.Links
	links.Base = c.transport.baseURL.String()
	cp := *p
	cp.Links = &links
	return &cp
}

// Close releases idle connections. Calls made after Close fail with
// ErrClientClosed.
func (c *Client) Close() error {
	return c.transport.close()
}
