package sdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SpaceService groups the space operations.
type SpaceService struct {
	service
}

// SpaceQuery filters Space.GetAll. All fields are optional.
type SpaceQuery struct {
	SpaceKeys []string
	// Type is "global" or "personal".
	Type string
	// Status is "current" or "archived".
	Status    string
	Labels    []string
	Favourite *bool
	Expand    []string
	Start     *int
	Limit     *int
}

func (q *SpaceQuery) values() (url.Values, error) {
	v := url.Values{}
	if q == nil {
		return v, nil
	}
	for _, key := range q.SpaceKeys {
		v.Add("spaceKey", key)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	for _, label := range q.Labels {
		v.Add("label", label)
	}
	if q.Favourite != nil {
		v.Set("favourite", strconv.FormatBool(*q.Favourite))
	}
	if err := addExpand(v, q.Expand); err != nil {
		return nil, err
	}
	addPaging(v, q.Start, q.Limit)
	return v, nil
}

func newSpace(key, name, description string) *Space {
	space := &Space{Key: key, Name: name}
	if description != "" {
		space.Description = &Description{Plain: &Plain{Value: description, Representation: RepresentationPlain}}
	}
	return space
}

// Create creates a global space.
func (s *SpaceService) Create(ctx context.Context, key, name, description string) (*Space, error) {
	return s.create(ctx, "space", key, name, description)
}

// CreatePrivate creates a space only the current user can see.
func (s *SpaceService) CreatePrivate(ctx context.Context, key, name, description string) (*Space, error) {
	return s.create(ctx, "space/_private", key, name, description)
}

func (s *SpaceService) create(ctx context.Context, path, key, name, description string) (*Space, error) {
	if err := requireID("space key", key); err != nil {
		return nil, err
	}
	if err := requireID("space name", name); err != nil {
		return nil, err
	}
	var space Space
	if err := s.send(ctx, http.MethodPost, path, path, nil, newSpace(key, name, description), &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// Get returns the space with the given key.
func (s *SpaceService) Get(ctx context.Context, key string, expand []string) (*Space, error) {
	if err := requireID("space key", key); err != nil {
		return nil, err
	}
	q, err := expandQuery(expand)
	if err != nil {
		return nil, err
	}
	var space Space
	if err := s.get(ctx, "space/{key}", buildPath("space/{key}", key), q, &space); err != nil {
		return nil, err
	}
	return &space, nil
}

// GetAll returns one page of spaces matching query. A nil query lists all
// spaces.
func (s *SpaceService) GetAll(ctx context.Context, query *SpaceQuery) (*Result[Space], error) {
	q, err := query.values()
	if err != nil {
		return nil, err
	}
	var result Result[Space]
	if err := s.get(ctx, "space", "space", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAllPager walks every space matching query.
func (s *SpaceService) GetAllPager(query *SpaceQuery) *Pager[Space] {
	return newServicePager(s.service, "space", func(ctx context.Context) (*Result[Space], error) {
		return s.GetAll(ctx, query)
	})
}

// GetContents returns the pages and blog posts of a space.
func (s *SpaceService) GetContents(ctx context.Context, key string, expand []string) (*SpaceContents, error) {
	if err := requireID("space key", key); err != nil {
		return nil, err
	}
	q, err := expandQuery(expand)
	if err != nil {
		return nil, err
	}
	var contents SpaceContents
	if err := s.get(ctx, "space/{key}/content", buildPath("space/{key}/content", key), q, &contents); err != nil {
		return nil, err
	}
	return &contents, nil
}

// Update updates the name and description of space.
func (s *SpaceService) Update(ctx context.Context, space *Space) (*Space, error) {
	if space == nil {
		return nil, invalidArgument("space is required")
	}
	if err := requireID("space key", space.Key); err != nil {
		return nil, err
	}
	var updated Space
	if err := s.send(ctx, http.MethodPut, "space/{key}", buildPath("space/{key}", space.Key), nil, space, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a space. Confluence deletes spaces asynchronously and
// answers 202 with the task tracking the deletion.
func (s *SpaceService) Delete(ctx context.Context, key string) (*LongRunningTask, error) {
	if err := requireID("space key", key); err != nil {
		return nil, err
	}
	var task LongRunningTask
	if err := s.send(ctx, http.MethodDelete, "space/{key}", buildPath("space/{key}", key), nil, nil, &task, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &task, nil
}
