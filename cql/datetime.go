package cql

import (
	"fmt"
	"time"
)

// DateValue is a value accepted by date comparisons.
type DateValue interface {
	dateLiteral() (string, error)
}

type absoluteDate struct {
	t      time.Time
	layout string
}

func (d absoluteDate) dateLiteral() (string, error) {
	return formatTime(d.t, d.layout)
}

// Date compares against the calendar day of t, rendered as "yyyy-MM-dd".
func Date(t time.Time) DateValue {
	return absoluteDate{t: t, layout: DateLayout}
}

// DateTime compares against t with minute precision, rendered as
// "yyyy-MM-dd HH:mm".
func DateTime(t time.Time) DateValue {
	return absoluteDate{t: t, layout: DateTimeLayout}
}

type relativeDate string

func (r relativeDate) dateLiteral() (string, error) {
	if r == "" {
		return "", ErrEmptyValue
	}
	if r == "now" {
		return "now", nil
	}
	if err := validateOffset(string(r)); err != nil {
		return "", err
	}
	return string(r), nil
}

// Relative passes a relative offset such as "-4w" or "now" through unquoted.
func Relative(offset string) DateValue {
	return relativeDate(offset)
}

// DateFunc is one of the CQL date functions.
type DateFunc string

const (
	Now          DateFunc = "now"
	StartOfDay   DateFunc = "startOfDay"
	StartOfWeek  DateFunc = "startOfWeek"
	StartOfMonth DateFunc = "startOfMonth"
	StartOfYear  DateFunc = "startOfYear"
	EndOfDay     DateFunc = "endOfDay"
	EndOfWeek    DateFunc = "endOfWeek"
	EndOfMonth   DateFunc = "endOfMonth"
	EndOfYear    DateFunc = "endOfYear"
)

func (f DateFunc) check() error {
	switch f {
	case "":
		return ErrEmptyValue
	case Now, StartOfDay, StartOfWeek, StartOfMonth, StartOfYear,
		EndOfDay, EndOfWeek, EndOfMonth, EndOfYear:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFunction, string(f))
}

func (f DateFunc) dateLiteral() (string, error) {
	if err := f.check(); err != nil {
		return "", err
	}
	return string(f) + "()", nil
}

// Offset returns the function called with a relative offset, for example
// now("-4w").
func (f DateFunc) Offset(offset string) DateValue {
	return dateCall{fn: f, offset: offset}
}

type dateCall struct {
	fn     DateFunc
	offset string
}

func (c dateCall) dateLiteral() (string, error) {
	if err := c.fn.check(); err != nil {
		return "", err
	}
	if c.offset == "" {
		return "", ErrEmptyValue
	}
	if err := validateOffset(c.offset); err != nil {
		return "", err
	}
	arg, err := Quote(c.offset)
	if err != nil {
		return "", err
	}
	return string(c.fn) + "(" + arg + ")", nil
}

// DatetimeClause compares a date field such as created or lastmodified.
type DatetimeClause struct {
	builder
}

func (c *DatetimeClause) compare(op operator, v DateValue) (Clause, error) {
	return c.build(op, func() (string, error) {
		if v == nil {
			return "", ErrEmptyValue
		}
		return v.dateLiteral()
	})
}

// On matches the given moment.
func (c *DatetimeClause) On(v DateValue) (Clause, error) { return c.compare(opEquals, v) }

// NotOn excludes the given moment.
func (c *DatetimeClause) NotOn(v DateValue) (Clause, error) { return c.compare(opNotEquals, v) }

// Before matches values strictly earlier than v.
func (c *DatetimeClause) Before(v DateValue) (Clause, error) { return c.compare(opLess, v) }

// BeforeOrOn matches values earlier than or equal to v.
func (c *DatetimeClause) BeforeOrOn(v DateValue) (Clause, error) {
	return c.compare(opLessOrEqual, v)
}

// After matches values strictly later than v.
func (c *DatetimeClause) After(v DateValue) (Clause, error) { return c.compare(opGreater, v) }

// AfterOrOn matches values later than or equal to v.
func (c *DatetimeClause) AfterOrOn(v DateValue) (Clause, error) {
	return c.compare(opGreaterOrEqual, v)
}
