package sdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ListOptions selects a page of a collection the offset way.
type ListOptions struct {
	// Expand lists the properties to expand. nil sends no expand
	// parameter; an empty, non-nil slice is rejected.
	Expand []string
	Start  *int
	Limit  *int
}

func (o *ListOptions) apply(q url.Values) error {
	if o == nil {
		return nil
	}
	if err := addExpand(q, o.Expand); err != nil {
		return err
	}
	addPaging(q, o.Start, o.Limit)
	return nil
}

// addExpand validates and adds an expand parameter.
func addExpand(q url.Values, expand []string) error {
	if expand == nil {
		return nil
	}
	if len(expand) == 0 {
		return invalidArgument("expand list must not be empty")
	}
	for _, e := range expand {
		if strings.TrimSpace(e) == "" {
			return invalidArgument("expand list contains an empty property")
		}
	}
	q.Set("expand", strings.Join(expand, ","))
	return nil
}

func addPaging(q url.Values, start, limit *int) {
	if start != nil {
		q.Set("start", strconv.Itoa(*start))
	}
	if limit != nil {
		q.Set("limit", strconv.Itoa(*limit))
	}
}

func expandQuery(expand []string) (url.Values, error) {
	q := url.Values{}
	if err := addExpand(q, expand); err != nil {
		return nil, err
	}
	return q, nil
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidArgument("%s is required", name)
	}
	return nil
}

func (s service) get(ctx context.Context, route, path string, query url.Values, result interface{}) error {
	return s.client.transport.do(ctx, &request{
		method: http.MethodGet,
		route:  route,
		path:   path,
		query:  query,
		result: result,
	})
}

func (s service) send(ctx context.Context, method, route, path string, query url.Values, body, result interface{}, expect ...int) error {
	return s.client.transport.do(ctx, &request{
		method: method,
		route:  route,
		path:   path,
		query:  query,
		body:   body,
		result: result,
		expect: expect,
	})
}

// follow fetches an absolute link returned by the server.
func (s service) follow(ctx context.Context, route string, target *url.URL, result interface{}) error {
	return s.client.transport.do(ctx, &request{
		method: http.MethodGet,
		route:  route,
		target: target,
		result: result,
	})
}

// getPage resolves page against the client base URL and fetches it.
func getPage[T any](ctx context.Context, s service, route string, page *PagingInformation) (*Result[T], error) {
	if page == nil {
		return nil, invalidArgument("paging information is required")
	}
	target, err := s.client.withBase(page).ResolveURI()
	if err != nil {
		return nil, err
	}
	var result Result[T]
	if err := s.follow(ctx, route, target, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
