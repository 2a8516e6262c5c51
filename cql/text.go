package cql

// TextClause performs a full text search. Only contains matching is
// supported since text is tokenized by the server.
type TextClause struct {
	builder
}

// Contains matches content whose text contains the given terms.
func (c *TextClause) Contains(text string) (Clause, error) {
	return c.build(opContains, func() (string, error) { return Quote(text) })
}

// DoesNotContain excludes content whose text contains the given terms.
func (c *TextClause) DoesNotContain(text string) (Clause, error) {
	return c.build(opNotContains, func() (string, error) { return Quote(text) })
}

// TitleClause compares the title field, exactly or by terms.
type TitleClause struct {
	builder
}

// Is matches an exact title.
func (c *TitleClause) Is(title string) (Clause, error) {
	return c.build(opEquals, func() (string, error) { return Quote(title) })
}

// IsNot excludes an exact title.
func (c *TitleClause) IsNot(title string) (Clause, error) {
	return c.build(opNotEquals, func() (string, error) { return Quote(title) })
}

// Contains matches titles containing the given terms.
func (c *TitleClause) Contains(text string) (Clause, error) {
	return c.build(opContains, func() (string, error) { return Quote(text) })
}

// DoesNotContain excludes titles containing the given terms.
func (c *TitleClause) DoesNotContain(text string) (Clause, error) {
	return c.build(opNotContains, func() (string, error) { return Quote(text) })
}

// In matches any of the given exact titles.
func (c *TitleClause) In(titles ...string) (Clause, error) {
	return c.build(opIn, func() (string, error) { return formatList(titles, Quote) })
}
