package sdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// ContentService groups the content and label operations.
type ContentService struct {
	service
}

// NewContent describes a page or blog post to create.
type NewContent struct {
	// Type defaults to "page".
	Type     string
	Title    string
	SpaceKey string
	// Body is in storage format.
	Body string
	// ParentID makes the new page a child of an existing page.
	ParentID string
}

func (n *NewContent) content() (*Content, error) {
	if n == nil {
		return nil, invalidArgument("content is required")
	}
	if err := requireID("content title", n.Title); err != nil {
		return nil, err
	}
	if err := requireID("space key", n.SpaceKey); err != nil {
		return nil, err
	}
	c := &Content{
		Type:  n.Type,
		Title: n.Title,
		Space: &Space{Key: n.SpaceKey},
		Body: &Body{Storage: &BodyValue{
			Value:          n.Body,
			Representation: RepresentationStorage,
		}},
	}
	if c.Type == "" {
		c.Type = ContentTypePage
	}
	if n.ParentID != "" {
		c.Ancestors = []Content{{ID: n.ParentID}}
	}
	return c, nil
}

// Get returns the content with the given id.
func (s *ContentService) Get(ctx context.Context, id string, expand []string) (*Content, error) {
	if err := requireID("content id", id); err != nil {
		return nil, err
	}
	q, err := expandQuery(expand)
	if err != nil {
		return nil, err
	}
	var content Content
	if err := s.get(ctx, "content/{id}", buildPath("content/{id}", id), q, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GetChildren returns one page of the child pages of id.
func (s *ContentService) GetChildren(ctx context.Context, id string, opts *ListOptions) (*Result[Content], error) {
	if err := requireID("content id", id); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := opts.apply(q); err != nil {
		return nil, err
	}
	var result Result[Content]
	if err := s.get(ctx, "content/{id}/child/page", buildPath("content/{id}/child/page", id), q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetChildrenPager walks every child page of id.
func (s *ContentService) GetChildrenPager(id string, opts *ListOptions) *Pager[Content] {
	return newServicePager(s.service, "content/{id}/child/page", func(ctx context.Context) (*Result[Content], error) {
		return s.GetChildren(ctx, id, opts)
	})
}

// GetHistory returns the history of id.
func (s *ContentService) GetHistory(ctx context.Context, id string) (*History, error) {
	if err := requireID("content id", id); err != nil {
		return nil, err
	}
	var history History
	if err := s.get(ctx, "content/{id}/history", buildPath("content/{id}/history", id), nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// Create creates a page or blog post.
func (s *ContentService) Create(ctx context.Context, n *NewContent) (*Content, error) {
	body, err := n.content()
	if err != nil {
		return nil, err
	}
	var created Content
	if err := s.send(ctx, http.MethodPost, "content", "content", nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update stores content as the next version. content must carry the
// version it was read at; the sent version number is one higher.
// content itself is not modified.
func (s *ContentService) Update(ctx context.Context, content *Content) (*Content, error) {
	if content == nil {
		return nil, invalidArgument("content is required")
	}
	if err := requireID("content id", content.ID); err != nil {
		return nil, err
	}
	if content.Version == nil {
		return nil, invalidArgument("content %s has no version, expand version when reading it", content.ID)
	}

	body := *content
	body.Version = &Version{
		Number:    content.Version.Number + 1,
		Message:   content.Version.Message,
		MinorEdit: content.Version.MinorEdit,
	}
	body.History = nil
	body.Links = nil

	var updated Content
	if err := s.send(ctx, http.MethodPut, "content/{id}", buildPath("content/{id}", content.ID), nil, &body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete moves content to the trash. With purge set, content that is
// already trashed is removed permanently.
func (s *ContentService) Delete(ctx context.Context, id string, purge bool) error {
	if err := requireID("content id", id); err != nil {
		return err
	}
	var q url.Values
	if purge {
		q = url.Values{"status": []string{"trashed"}}
	}
	return s.send(ctx, http.MethodDelete, "content/{id}", buildPath("content/{id}", id), q, nil, nil, http.StatusNoContent)
}

// GetLabels returns the labels of id.
func (s *ContentService) GetLabels(ctx context.Context, id string) (*Result[Label], error) {
	if err := requireID("content id", id); err != nil {
		return nil, err
	}
	var result Result[Label]
	if err := s.get(ctx, "content/{id}/label", buildPath("content/{id}/label", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddLabels adds global labels to id and returns all of its labels.
func (s *ContentService) AddLabels(ctx context.Context, id string, names ...string) (*Result[Label], error) {
	if err := requireID("content id", id); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, invalidArgument("at least one label is required")
	}
	labels := make([]Label, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, invalidArgument("label names must not be empty")
		}
		labels = append(labels, Label{Prefix: "global", Name: name})
	}

	var result Result[Label]
	if err := s.send(ctx, http.MethodPost, "content/{id}/label", buildPath("content/{id}/label", id), nil, labels, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteLabel removes a label from id.
func (s *ContentService) DeleteLabel(ctx context.Context, id, name string) error {
	if err := requireID("content id", id); err != nil {
		return err
	}
	if err := requireID("label", name); err != nil {
		return err
	}
	path := buildPath("content/{id}/label/{name}", id, name)
	return s.send(ctx, http.MethodDelete, "content/{id}/label/{name}", path, nil, nil, nil, http.StatusNoContent)
}
