package cql

import (
	"fmt"
	"strings"
)

// Field is a searchable CQL field.
type Field string

// The closed set of fields the builder knows about.
const (
	FieldCreated      Field = "created"
	FieldLastModified Field = "lastmodified"
	FieldSpace        Field = "space"
	FieldType         Field = "type"
	FieldTitle        Field = "title"
	FieldCreator      Field = "creator"
	FieldContributor  Field = "contributor"
	FieldMention      Field = "mention"
	FieldWatcher      Field = "watcher"
	FieldFavourite    Field = "favourite"
	FieldText         Field = "text"
	FieldID           Field = "id"
	FieldAncestor     Field = "ancestor"
	FieldContent      Field = "content"
	FieldParent       Field = "parent"
	FieldLabel        Field = "label"
	FieldContainer    Field = "container"
	FieldMacro        Field = "macro"
)

// Category groups fields by the comparisons they accept.
type Category int

const (
	CategoryDatetime Category = iota
	CategoryUser
	CategoryText
	CategoryTitle
	CategorySpace
	CategoryType
	CategoryContent
	CategorySimpleValue
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case CategoryDatetime:
		return "datetime"
	case CategoryUser:
		return "user"
	case CategoryText:
		return "text"
	case CategoryTitle:
		return "title"
	case CategorySpace:
		return "space"
	case CategoryType:
		return "type"
	case CategoryContent:
		return "content"
	case CategorySimpleValue:
		return "simple_value"
	default:
		return "unknown"
	}
}

var registry = []struct {
	field    Field
	category Category
}{
	{FieldCreated, CategoryDatetime},
	{FieldLastModified, CategoryDatetime},
	{FieldSpace, CategorySpace},
	{FieldType, CategoryType},
	{FieldTitle, CategoryTitle},
	{FieldCreator, CategoryUser},
	{FieldContributor, CategoryUser},
	{FieldMention, CategoryUser},
	{FieldWatcher, CategoryUser},
	{FieldFavourite, CategoryUser},
	{FieldText, CategoryText},
	{FieldID, CategoryContent},
	{FieldAncestor, CategoryContent},
	{FieldContent, CategoryContent},
	{FieldParent, CategoryContent},
	{FieldLabel, CategorySimpleValue},
	{FieldContainer, CategorySimpleValue},
	{FieldMacro, CategorySimpleValue},
}

// String returns the token used in serialized queries.
func (f Field) String() string {
	return string(f)
}

// Category returns the category of a registered field. The second return
// value is false for fields outside the registry.
func (f Field) Category() (Category, bool) {
	for _, entry := range registry {
		if entry.field == f {
			return entry.category, true
		}
	}
	return 0, false
}

// Fields returns every registered field in declaration order.
func Fields() []Field {
	fields := make([]Field, len(registry))
	for i, entry := range registry {
		fields[i] = entry.field
	}
	return fields
}

// ParseField resolves a field token case-insensitively.
func ParseField(token string) (Field, error) {
	normalized := Field(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := normalized.Category(); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, token)
	}
	return normalized, nil
}
