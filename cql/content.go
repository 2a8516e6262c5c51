package cql

// ContentClause compares one of the numeric content identifier fields:
// id, ancestor, content or parent.
type ContentClause struct {
	builder
}

// Is matches the given content id.
func (c *ContentClause) Is(id int64) (Clause, error) {
	return c.build(opEquals, func() (string, error) { return formatID(id) })
}

// IsNot excludes the given content id.
func (c *ContentClause) IsNot(id int64) (Clause, error) {
	return c.build(opNotEquals, func() (string, error) { return formatID(id) })
}

// SimpleValueClause compares a plain string field: label, container or macro.
type SimpleValueClause struct {
	builder
}

// Is matches the given value.
func (c *SimpleValueClause) Is(value string) (Clause, error) {
	return c.build(opEquals, func() (string, error) { return Quote(value) })
}

// IsNot excludes the given value.
func (c *SimpleValueClause) IsNot(value string) (Clause, error) {
	return c.build(opNotEquals, func() (string, error) { return Quote(value) })
}

// In matches any of the given values.
func (c *SimpleValueClause) In(values ...string) (Clause, error) {
	return c.build(opIn, func() (string, error) { return formatList(values, Quote) })
}

// NotIn excludes all of the given values.
func (c *SimpleValueClause) NotIn(values ...string) (Clause, error) {
	return c.build(opNotIn, func() (string, error) { return formatList(values, Quote) })
}
