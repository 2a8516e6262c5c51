package cql

import (
	"fmt"
)

type operator string

const (
	opEquals         operator = "="
	opNotEquals      operator = "!="
	opContains       operator = "~"
	opNotContains    operator = "!~"
	opIn             operator = "in"
	opNotIn          operator = "not in"
	opGreater        operator = ">"
	opLess           operator = "<"
	opGreaterOrEqual operator = ">="
	opLessOrEqual    operator = "<="
)

// Clause is a finished CQL expression. The zero value is not a valid clause.
type Clause struct {
	text    string
	ordered bool
}

// String returns the CQL text of the clause.
func (c Clause) String() string {
	return c.text
}

// IsZero reports whether c is the zero Clause.
func (c Clause) IsZero() bool {
	return c.text == ""
}

// Ordered reports whether the clause carries an order by suffix.
func (c Clause) Ordered() bool {
	return c.ordered
}

// Direction is a sort direction for OrderBy.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// OrderBy appends an order by suffix. Calling it on an ordered clause adds
// another sort key. The result can no longer be combined with And, Or or Not.
//
//	query, err := clause.OrderBy(cql.FieldCreated, cql.Descending)
//	// space = "DEV" order by created desc
func (c Clause) OrderBy(field Field, dir Direction) (Clause, error) {
	if c.IsZero() {
		return Clause{}, fmt.Errorf("%w: order by on empty clause", ErrInvalidArgument)
	}
	if _, ok := field.Category(); !ok {
		return Clause{}, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	if dir != Ascending && dir != Descending {
		return Clause{}, fmt.Errorf("%w: sort direction %q", ErrInvalidArgument, string(dir))
	}
	sep := " order by "
	if c.ordered {
		sep = ", "
	}
	return Clause{text: c.text + sep + string(field) + " " + string(dir), ordered: true}, nil
}

// builder carries the state shared by every capability builder. It allows a
// single terminal call.
type builder struct {
	field    Field
	finished bool
}

func (b *builder) build(op operator, render func() (string, error)) (Clause, error) {
	if b.finished {
		return Clause{}, &FieldError{Field: b.field, Op: string(op), Err: ErrClauseFinished}
	}
	lit, err := render()
	if err != nil {
		return Clause{}, &FieldError{Field: b.field, Op: string(op), Err: err}
	}
	if lit == "" {
		panic(fmt.Sprintf("cql: malformed literal for %s %s", b.field, op))
	}
	b.finished = true
	return Clause{text: string(b.field) + " " + string(op) + " " + lit}, nil
}
