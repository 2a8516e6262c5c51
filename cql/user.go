package cql

// UserValue identifies a user in a user comparison.
type UserValue interface {
	userLiteral() (string, error)
}

type userIdentifier string

func (u userIdentifier) userLiteral() (string, error) {
	return Quote(string(u))
}

// Username identifies a user by login name.
func Username(name string) UserValue { return userIdentifier(name) }

// UserKey identifies a user by the server's user key.
func UserKey(key string) UserValue { return userIdentifier(key) }

// AccountID identifies a Confluence Cloud user by account id.
func AccountID(id string) UserValue { return userIdentifier(id) }

type currentUser struct{}

func (currentUser) userLiteral() (string, error) { return "currentUser()", nil }

// CurrentUser refers to the user running the query.
func CurrentUser() UserValue { return currentUser{} }

// UserClause compares one of the user fields: creator, contributor, mention,
// watcher or favourite.
type UserClause struct {
	builder
}

func renderUser(u UserValue) (string, error) {
	if u == nil {
		return "", ErrEmptyValue
	}
	return u.userLiteral()
}

// Is matches the given user.
func (c *UserClause) Is(u UserValue) (Clause, error) {
	return c.build(opEquals, func() (string, error) { return renderUser(u) })
}

// IsNot excludes the given user.
func (c *UserClause) IsNot(u UserValue) (Clause, error) {
	return c.build(opNotEquals, func() (string, error) { return renderUser(u) })
}

// In matches any of the given users.
func (c *UserClause) In(users ...UserValue) (Clause, error) {
	return c.build(opIn, func() (string, error) { return formatList(users, renderUser) })
}
