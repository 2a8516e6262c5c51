package cql

import (
	"fmt"
	"strings"
)

// And joins clauses with "and" inside parentheses. At least two clauses are
// required. Nested combinations keep their own parentheses.
//
//	cql.And(a, cql.Or(b, c)) // (a and (b or c))
func And(clauses ...Clause) (Clause, error) {
	return group("and", clauses)
}

// Or joins clauses with "or" inside parentheses. At least two clauses are
// required.
func Or(clauses ...Clause) (Clause, error) {
	return group("or", clauses)
}

// Not negates a clause.
func Not(clause Clause) (Clause, error) {
	if err := checkOperand(clause, 0); err != nil {
		return Clause{}, err
	}
	if strings.HasPrefix(clause.text, "(") {
		return Clause{text: "not " + clause.text}, nil
	}
	return Clause{text: "not (" + clause.text + ")"}, nil
}

func group(op string, clauses []Clause) (Clause, error) {
	if len(clauses) < 2 {
		return Clause{}, fmt.Errorf("%w: %s got %d", ErrTooFewOperands, op, len(clauses))
	}
	var sb strings.Builder
	sb.WriteByte('(')
	for i, c := range clauses {
		if err := checkOperand(c, i); err != nil {
			return Clause{}, err
		}
		if i > 0 {
			sb.WriteString(" " + op + " ")
		}
		sb.WriteString(c.text)
	}
	sb.WriteByte(')')
	return Clause{text: sb.String()}, nil
}

func checkOperand(c Clause, index int) error {
	if c.IsZero() {
		return fmt.Errorf("%w: operand %d is an empty clause", ErrInvalidArgument, index)
	}
	if c.ordered {
		return fmt.Errorf("%w: operand %d", ErrOrderedClause, index)
	}
	return nil
}
