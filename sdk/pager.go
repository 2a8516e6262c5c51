package sdk

import "context"

// Pager walks a paginated collection by following next links.
//
//	pager := client.Search().ContentPager(query, &sdk.SearchOptions{Limit: sdk.Int(50)})
//	for pager.Next(ctx) {
//	    for _, c := range pager.Page().Results {
//	        fmt.Println(c.Title)
//	    }
//	}
//	if err := pager.Err(); err != nil {
//	    log.Fatal(err)
//	}
//
// A Pager is not safe for concurrent use.
type Pager[T any] struct {
	first func(ctx context.Context) (*Result[T], error)
	next  func(ctx context.Context, page *PagingInformation) (*Result[T], error)

	current *Result[T]
	started bool
	done    bool
	err     error
}

// NewPager creates a pager that fetches the first page with first and the
// following ones with next.
func NewPager[T any](
	first func(ctx context.Context) (*Result[T], error),
	next func(ctx context.Context, page *PagingInformation) (*Result[T], error),
) *Pager[T] {
	return &Pager[T]{first: first, next: next}
}

func newServicePager[T any](s service, route string, first func(ctx context.Context) (*Result[T], error)) *Pager[T] {
	return NewPager(first, func(ctx context.Context, page *PagingInformation) (*Result[T], error) {
		return getPage[T](ctx, s, route, page)
	})
}

// Next fetches the next page. It returns false when there are no more
// pages or an error occurred, see Err.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.done {
		return false
	}

	var (
		page *Result[T]
		err  error
	)
	if !p.started {
		p.started = true
		page, err = p.first(ctx)
	} else {
		if !p.current.HasNext() {
			p.done = true
			return false
		}
		page, err = p.next(ctx, p.current.NextPage())
	}
	if err != nil {
		p.err = err
		p.done = true
		return false
	}

	p.current = page
	return true
}

// Page returns the page fetched by the last successful Next.
func (p *Pager[T]) Page() *Result[T] {
	return p.current
}

// Err returns the error that stopped the pager, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// All collects every remaining result.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for p.Next(ctx) {
		all = append(all, p.current.Results...)
	}
	return all, p.err
}
