package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/birbparty/go-confluence/cql"
	"github.com/spf13/cobra"
)

// QueryFlags are the CQL building flags shared by cql and search.
type QueryFlags struct {
	Spaces        []string
	Types         []string
	TitleContains string
	Text          string
	Labels        []string
	CreatedAfter  string
	ModifiedAfter string
	Creator       string
	Contributor   string
	Ancestor      int64
	Or            bool
	OrderBy       string
}

func (q *QueryFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&q.Spaces, "space", nil, "space key (repeat or comma separate for several)")
	flags.StringSliceVar(&q.Types, "type", nil, "content type: page, blogpost, comment, attachment")
	flags.StringVar(&q.TitleContains, "title-contains", "", "text the title contains")
	flags.StringVar(&q.Text, "text", "", "text the content contains")
	flags.StringSliceVar(&q.Labels, "label", nil, "label (several match any)")
	flags.StringVar(&q.CreatedAfter, "created-after", "", "YYYY-MM-DD, or a relative offset such as -4w")
	flags.StringVar(&q.ModifiedAfter, "modified-after", "", "YYYY-MM-DD, or a relative offset such as -1d")
	flags.StringVar(&q.Creator, "creator", "", `creator username, or "me"`)
	flags.StringVar(&q.Contributor, "contributor", "", `contributor username, or "me"`)
	flags.Int64Var(&q.Ancestor, "ancestor", 0, "id of an ancestor page")
	flags.BoolVar(&q.Or, "or", false, "match any condition instead of all")
	flags.StringVar(&q.OrderBy, "order-by", "", "sort field, optionally with :asc or :desc")
}

// Build returns the clause described by the flags.
func (q *QueryFlags) Build() (cql.Clause, error) {
	var clauses []cql.Clause
	add := func(c cql.Clause, err error) error {
		if err != nil {
			return err
		}
		clauses = append(clauses, c)
		return nil
	}

	if len(q.Spaces) > 0 {
		if err := add(spaceClause(q.Spaces)); err != nil {
			return cql.Clause{}, err
		}
	}
	if len(q.Types) > 0 {
		if err := add(typeClause(q.Types)); err != nil {
			return cql.Clause{}, err
		}
	}
	if q.TitleContains != "" {
		if err := add(cql.Where.Title().Contains(q.TitleContains)); err != nil {
			return cql.Clause{}, err
		}
	}
	if q.Text != "" {
		if err := add(cql.Where.Text().Contains(q.Text)); err != nil {
			return cql.Clause{}, err
		}
	}
	if len(q.Labels) == 1 {
		if err := add(cql.Where.Label().Is(q.Labels[0])); err != nil {
			return cql.Clause{}, err
		}
	} else if len(q.Labels) > 1 {
		if err := add(cql.Where.Label().In(q.Labels...)); err != nil {
			return cql.Clause{}, err
		}
	}
	if q.CreatedAfter != "" {
		if err := add(dateAfter(cql.Where.Created(), q.CreatedAfter)); err != nil {
			return cql.Clause{}, err
		}
	}
	if q.ModifiedAfter != "" {
		if err := add(dateAfter(cql.Where.LastModified(), q.ModifiedAfter)); err != nil {
			return cql.Clause{}, err
		}
	}
	if q.Creator != "" {
		if err := add(cql.Where.Creator().Is(parseUser(q.Creator))); err != nil {
			return cql.Clause{}, err
		}
	}
	if q.Contributor != "" {
		if err := add(cql.Where.Contributor().Is(parseUser(q.Contributor))); err != nil {
			return cql.Clause{}, err
		}
	}
	if q.Ancestor != 0 {
		if err := add(cql.Where.Ancestor().Is(q.Ancestor)); err != nil {
			return cql.Clause{}, err
		}
	}

	query, err := q.combine(clauses)
	if err != nil || q.OrderBy == "" {
		return query, err
	}
	return orderBy(query, q.OrderBy)
}

func (q *QueryFlags) combine(clauses []cql.Clause) (cql.Clause, error) {
	switch len(clauses) {
	case 0:
		return cql.Clause{}, fmt.Errorf("%w: no query flags given", cql.ErrInvalidArgument)
	case 1:
		return clauses[0], nil
	}
	if q.Or {
		return cql.Or(clauses...)
	}
	return cql.And(clauses...)
}

func spaceClause(keys []string) (cql.Clause, error) {
	if len(keys) == 1 {
		return cql.Where.Space().Is(cql.SpaceKey(keys[0]))
	}
	values := make([]cql.SpaceValue, len(keys))
	for i, key := range keys {
		values[i] = cql.SpaceKey(key)
	}
	return cql.Where.Space().In(values...)
}

func typeClause(names []string) (cql.Clause, error) {
	types := make([]cql.ContentType, len(names))
	for i, name := range names {
		t, err := cql.ParseContentType(name)
		if err != nil {
			return cql.Clause{}, err
		}
		types[i] = t
	}
	if len(types) == 1 {
		return cql.Where.Type().Is(types[0])
	}
	return cql.Where.Type().In(types...)
}

// dateAfter accepts a calendar date or a relative offset.
func dateAfter(field *cql.DatetimeClause, value string) (cql.Clause, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return field.After(cql.Date(t))
	}
	return field.After(cql.Relative(value))
}

func parseUser(name string) cql.UserValue {
	if name == "me" {
		return cql.CurrentUser()
	}
	return cql.Username(name)
}

func orderBy(query cql.Clause, value string) (cql.Clause, error) {
	name, dir, _ := strings.Cut(value, ":")
	field, err := cql.ParseField(name)
	if err != nil {
		return cql.Clause{}, err
	}
	direction := cql.Ascending
	if dir != "" {
		direction = cql.Direction(strings.ToLower(dir))
	}
	return query.OrderBy(field, direction)
}

// queryView is the output of the cql command.
type queryView struct {
	Query string `json:"query"`
}

func (v queryView) renderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, v.Query)
	return err
}

// NewCQLCommand creates the cql command.
func NewCQLCommand(rootOpts *RootOptions) *cobra.Command {
	query := &QueryFlags{}
	cmd := &cobra.Command{
		Use:   "cql",
		Short: "Print the CQL query built from the flags",
		Long: `Print the CQL query built from the flags without contacting Confluence.

Conditions are joined with AND unless --or is given.`,
		Example: `  confluence cql --space DEV --type page --label release,notes --created-after -4w
  confluence cql --creator me --modified-after 2024-01-01 --order-by lastmodified:desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			clause, err := query.Build()
			if err != nil {
				return commandError("invalid query", err)
			}
			return formatter.Success(queryView{Query: clause.String()})
		},
	}
	query.bind(cmd)
	return cmd
}
