package cql

// WhereBuilder exposes one accessor per searchable field. It has no state;
// use the package variable Where.
type WhereBuilder struct{}

// Where is the entry point for building queries.
var Where WhereBuilder

// Created compares the creation date.
func (WhereBuilder) Created() *DatetimeClause {
	return &DatetimeClause{builder{field: FieldCreated}}
}

// LastModified compares the last modification date.
func (WhereBuilder) LastModified() *DatetimeClause {
	return &DatetimeClause{builder{field: FieldLastModified}}
}

// Space compares the space the content lives in.
func (WhereBuilder) Space() *SpaceClause {
	return &SpaceClause{builder{field: FieldSpace}}
}

// Type compares the content type.
func (WhereBuilder) Type() *TypeClause {
	return &TypeClause{builder{field: FieldType}}
}

// Title compares the content title.
func (WhereBuilder) Title() *TitleClause {
	return &TitleClause{builder{field: FieldTitle}}
}

// Creator compares the user who created the content.
func (WhereBuilder) Creator() *UserClause {
	return &UserClause{builder{field: FieldCreator}}
}

// Contributor compares users who edited the content.
func (WhereBuilder) Contributor() *UserClause {
	return &UserClause{builder{field: FieldContributor}}
}

// Mention compares users mentioned in the content.
func (WhereBuilder) Mention() *UserClause {
	return &UserClause{builder{field: FieldMention}}
}

// Watcher compares users watching the content.
func (WhereBuilder) Watcher() *UserClause {
	return &UserClause{builder{field: FieldWatcher}}
}

// Favourite compares users who marked the content as favourite.
func (WhereBuilder) Favourite() *UserClause {
	return &UserClause{builder{field: FieldFavourite}}
}

// Text searches the title, body and labels.
func (WhereBuilder) Text() *TextClause {
	return &TextClause{builder{field: FieldText}}
}

// ID compares the content id.
func (WhereBuilder) ID() *ContentClause {
	return &ContentClause{builder{field: FieldID}}
}

// Ancestor compares any ancestor page id.
func (WhereBuilder) Ancestor() *ContentClause {
	return &ContentClause{builder{field: FieldAncestor}}
}

// Content compares the id of the content a comment or attachment belongs to.
func (WhereBuilder) Content() *ContentClause {
	return &ContentClause{builder{field: FieldContent}}
}

// Parent compares the direct parent page id.
func (WhereBuilder) Parent() *ContentClause {
	return &ContentClause{builder{field: FieldParent}}
}

// Label compares content labels.
func (WhereBuilder) Label() *SimpleValueClause {
	return &SimpleValueClause{builder{field: FieldLabel}}
}

// Container compares the container of the content.
func (WhereBuilder) Container() *SimpleValueClause {
	return &SimpleValueClause{builder{field: FieldContainer}}
}

// Macro compares the macros used in the content.
func (WhereBuilder) Macro() *SimpleValueClause {
	return &SimpleValueClause{builder{field: FieldMacro}}
}

// And is the facade form of the package-level And.
func (WhereBuilder) And(clauses ...Clause) (Clause, error) { return And(clauses...) }

// Or is the facade form of the package-level Or.
func (WhereBuilder) Or(clauses ...Clause) (Clause, error) { return Or(clauses...) }
