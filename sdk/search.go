package sdk

import (
	"context"
	"net/url"

	"github.com/birbparty/go-confluence/cql"
)

// SearchService runs CQL queries.
type SearchService struct {
	service
}

// SearchOptions tunes a search. All fields are optional.
type SearchOptions struct {
	Expand []string
	Limit  *int
	Start  *int
}

// Content searches content with a CQL query built by the cql package.
//
//	query, _ := cql.Where.And(
//	    must(cql.Where.Space().Is(cql.SpaceKey("DEV"))),
//	    must(cql.Where.Type().Is(cql.TypePage)),
//	)
//	result, err := client.Search().Content(ctx, query, &sdk.SearchOptions{Limit: sdk.Int(25)})
func (s *SearchService) Content(ctx context.Context, query cql.Clause, opts *SearchOptions) (*Result[Content], error) {
	if query.IsZero() {
		return nil, invalidArgument("search query is required")
	}
	q := url.Values{}
	// url.Values percent-encodes the query; the clause text is already
	// quoted and escaped CQL.
	q.Set("cql", query.String())
	if opts != nil {
		if err := addExpand(q, opts.Expand); err != nil {
			return nil, err
		}
		addPaging(q, opts.Start, opts.Limit)
	}

	var result Result[Content]
	if err := s.get(ctx, "content/search", "content/search", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ContentPage fetches the page of search results page points at, usually
// obtained from Result.NextPage or Result.PrevPage.
func (s *SearchService) ContentPage(ctx context.Context, page *PagingInformation) (*Result[Content], error) {
	return getPage[Content](ctx, s.service, "content/search", page)
}

// ContentPager walks every result of query.
func (s *SearchService) ContentPager(query cql.Clause, opts *SearchOptions) *Pager[Content] {
	return newServicePager(s.service, "content/search", func(ctx context.Context) (*Result[Content], error) {
		return s.Content(ctx, query, opts)
	})
}
