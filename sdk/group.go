package sdk

import (
	"context"
	"net/url"
)

// GroupService groups the group operations.
type GroupService struct {
	service
}

// GetAll returns one page of groups.
func (s *GroupService) GetAll(ctx context.Context, opts *ListOptions) (*Result[Group], error) {
	q := url.Values{}
	if err := opts.apply(q); err != nil {
		return nil, err
	}
	var result Result[Group]
	if err := s.get(ctx, "group", "group", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Members returns one page of the members of group name.
func (s *GroupService) Members(ctx context.Context, name string, opts *ListOptions) (*Result[User], error) {
	if err := requireID("group name", name); err != nil {
		return nil, err
	}
	q := url.Values{}
	if err := opts.apply(q); err != nil {
		return nil, err
	}
	var result Result[User]
	if err := s.get(ctx, "group/{name}/member", buildPath("group/{name}/member", name), q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MembersPager walks every member of group name.
func (s *GroupService) MembersPager(name string, opts *ListOptions) *Pager[User] {
	return newServicePager(s.service, "group/{name}/member", func(ctx context.Context) (*Result[User], error) {
		return s.Members(ctx, name, opts)
	})
}
