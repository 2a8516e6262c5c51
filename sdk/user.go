package sdk

import (
	"context"
	"net/http"
	"net/url"
)

// UserService groups the user and watcher operations.
type UserService struct {
	service
}

// UserSelector identifies a user by exactly one of username, user key or
// account id.
type UserSelector struct {
	param string
	value string
}

// ByUsername selects a user by username (Server and Data Center).
func ByUsername(username string) UserSelector { return UserSelector{"username", username} }

// ByUserKey selects a user by user key (Server and Data Center).
func ByUserKey(key string) UserSelector { return UserSelector{"key", key} }

// ByAccountID selects a user by account id (Cloud).
func ByAccountID(id string) UserSelector { return UserSelector{"accountId", id} }

func (u UserSelector) values() (url.Values, error) {
	if u.param == "" || u.value == "" {
		return nil, invalidArgument("user selector is empty")
	}
	return url.Values{u.param: []string{u.value}}, nil
}

// Current returns the authenticated user.
func (s *UserService) Current(ctx context.Context) (*User, error) {
	var user User
	if err := s.get(ctx, "user/current", "user/current", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Get returns the selected user.
func (s *UserService) Get(ctx context.Context, who UserSelector) (*User, error) {
	q, err := who.values()
	if err != nil {
		return nil, err
	}
	var user User
	if err := s.get(ctx, "user", "user", q, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GroupMemberships returns the groups of the selected user.
func (s *UserService) GroupMemberships(ctx context.Context, who UserSelector, opts *ListOptions) (*Result[Group], error) {
	q, err := who.values()
	if err != nil {
		return nil, err
	}
	if err := opts.apply(q); err != nil {
		return nil, err
	}
	var result Result[Group]
	if err := s.get(ctx, "user/memberof", "user/memberof", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// WatchTarget is something a user can watch.
type WatchTarget struct {
	route string
	path  string
}

// WatchContent targets a page or blog post.
func WatchContent(contentID string) WatchTarget {
	return WatchTarget{"user/watch/content/{id}", buildPath("user/watch/content/{id}", contentID)}
}

// WatchLabel targets a label.
func WatchLabel(name string) WatchTarget {
	return WatchTarget{"user/watch/label/{name}", buildPath("user/watch/label/{name}", name)}
}

// WatchSpace targets a space.
func WatchSpace(key string) WatchTarget {
	return WatchTarget{"user/watch/space/{key}", buildPath("user/watch/space/{key}", key)}
}

func (t WatchTarget) check() error {
	if t.route == "" || t.path == "" || t.path[len(t.path)-1] == '/' {
		return invalidArgument("watch target is empty")
	}
	return nil
}

// watcherQuery selects who; nil means the current user.
func watcherQuery(who *UserSelector) (url.Values, error) {
	if who == nil {
		return nil, nil
	}
	return who.values()
}

// IsWatching reports whether a user watches target. A nil who checks the
// current user.
func (s *UserService) IsWatching(ctx context.Context, target WatchTarget, who *UserSelector) (bool, error) {
	if err := target.check(); err != nil {
		return false, err
	}
	q, err := watcherQuery(who)
	if err != nil {
		return false, err
	}
	var status watchStatus
	if err := s.get(ctx, target.route, target.path, q, &status); err != nil {
		return false, err
	}
	return status.Watching, nil
}

// AddWatch makes a user watch target. A nil who adds the current user.
func (s *UserService) AddWatch(ctx context.Context, target WatchTarget, who *UserSelector) error {
	return s.watch(ctx, http.MethodPost, target, who)
}

// RemoveWatch stops a user watching target. A nil who removes the current
// user.
func (s *UserService) RemoveWatch(ctx context.Context, target WatchTarget, who *UserSelector) error {
	return s.watch(ctx, http.MethodDelete, target, who)
}

func (s *UserService) watch(ctx context.Context, method string, target WatchTarget, who *UserSelector) error {
	if err := target.check(); err != nil {
		return err
	}
	q, err := watcherQuery(who)
	if err != nil {
		return err
	}
	return s.send(ctx, method, target.route, target.path, q, nil, nil, http.StatusNoContent)
}
