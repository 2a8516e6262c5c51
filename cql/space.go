package cql

import (
	"fmt"
	"strings"
)

// SpaceValue identifies a space in a space comparison.
type SpaceValue interface {
	spaceLiteral() (string, error)
}

type spaceKey string

func (k spaceKey) spaceLiteral() (string, error) {
	return Quote(string(k))
}

// SpaceKey identifies a space by key, for example "DEV".
func SpaceKey(key string) SpaceValue { return spaceKey(key) }

type currentSpace struct{}

func (currentSpace) spaceLiteral() (string, error) { return "currentSpace()", nil }

// CurrentSpace refers to the space the query runs in.
func CurrentSpace() SpaceValue { return currentSpace{} }

func renderSpace(s SpaceValue) (string, error) {
	if s == nil {
		return "", ErrEmptyValue
	}
	return s.spaceLiteral()
}

// SpaceClause compares the space field.
type SpaceClause struct {
	builder
}

// Is matches content in the given space.
func (c *SpaceClause) Is(s SpaceValue) (Clause, error) {
	return c.build(opEquals, func() (string, error) { return renderSpace(s) })
}

// IsNot excludes content in the given space.
func (c *SpaceClause) IsNot(s SpaceValue) (Clause, error) {
	return c.build(opNotEquals, func() (string, error) { return renderSpace(s) })
}

// In matches content in any of the given spaces.
func (c *SpaceClause) In(spaces ...SpaceValue) (Clause, error) {
	return c.build(opIn, func() (string, error) { return formatList(spaces, renderSpace) })
}

// ContentType is the type of a piece of content.
type ContentType string

const (
	TypePage       ContentType = "page"
	TypeBlogPost   ContentType = "blogpost"
	TypeComment    ContentType = "comment"
	TypeAttachment ContentType = "attachment"
)

func (t ContentType) check() error {
	switch t {
	case "":
		return ErrEmptyValue
	case TypePage, TypeBlogPost, TypeComment, TypeAttachment:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownType, string(t))
}

// ParseContentType resolves a content type name case-insensitively.
func ParseContentType(name string) (ContentType, error) {
	t := ContentType(strings.ToLower(strings.TrimSpace(name)))
	if err := t.check(); err != nil {
		return "", err
	}
	return t, nil
}

func renderType(t ContentType) (string, error) {
	if err := t.check(); err != nil {
		return "", err
	}
	return Quote(string(t))
}

// TypeClause compares the type field.
type TypeClause struct {
	builder
}

// Is matches content of the given type.
func (c *TypeClause) Is(t ContentType) (Clause, error) {
	return c.build(opEquals, func() (string, error) { return renderType(t) })
}

// IsNot excludes content of the given type.
func (c *TypeClause) IsNot(t ContentType) (Clause, error) {
	return c.build(opNotEquals, func() (string, error) { return renderType(t) })
}

// In matches content of any of the given types.
func (c *TypeClause) In(types ...ContentType) (Clause, error) {
	return c.build(opIn, func() (string, error) { return formatList(types, renderType) })
}
