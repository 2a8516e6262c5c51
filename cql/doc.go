// Package cql builds Confluence Query Language expressions.
//
// Every searchable field is reached through the Where facade. Each accessor
// returns a builder that only exposes the operators that make sense for the
// field, so a query such as "created contains x" or "id in (...)" does not
// compile:
//
//	spaceClause, err := cql.Where.Space().Is(cql.SpaceKey("DEV"))
//	if err != nil {
//	    return err
//	}
//	recent, err := cql.Where.LastModified().After(cql.Now.Offset("-4w"))
//	if err != nil {
//	    return err
//	}
//	query, err := cql.And(spaceClause, recent)
//	// query.String() == `(space = "DEV" and lastmodified > now("-4w"))`
//
// A builder accepts exactly one terminal call. A second call returns
// ErrClauseFinished. The finished Clause is an immutable value that can be
// combined with And, Or and Not, or turned into its text with String.
//
// All errors returned by this package match ErrInvalidArgument.
package cql
