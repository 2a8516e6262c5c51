package sdk

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSource selects which page PagingInformation resolves to.
type PageSource int

const (
	// PageSourceInitial resolves to the self link
	PageSourceInitial PageSource = iota
	// PageSourceNext resolves to the next link
	PageSourceNext
	// PageSourcePrev resolves to the prev link
	PageSourcePrev
)

// String returns the page direction name
func (p PageSource) String() string {
	switch p {
	case PageSourceInitial:
		return "initial"
	case PageSourceNext:
		return "next"
	case PageSourcePrev:
		return "prev"
	default:
		return "unknown"
	}
}

// PagingInformation describes a page request. Start is only sent by
// operations that accept an offset; link based paging ignores it.
type PagingInformation struct {
	Limit      *int
	Start      *int
	Links      *Links
	PageSource PageSource
}

// ResolveURI returns the URI of the page described by p.
//
//	p := sdk.PagingInformation{Limit: sdk.Int(25), Links: &sdk.Links{Self: "https://h/rest/api/content"}}
//	u, _ := p.ResolveURI() // https://h/rest/api/content?limit=25
func (p *PagingInformation) ResolveURI() (*url.URL, error) {
	switch p.PageSource {
	case PageSourceInitial:
		if p.Links == nil || p.Links.Self == "" {
			return nil, invalidArgument("initial page requested without a self link")
		}
		self, err := url.Parse(p.Links.Self)
		if err != nil {
			return nil, invalidArgument("invalid self link %q: %v", p.Links.Self, err)
		}
		if p.Limit != nil {
			q := self.Query()
			q.Set("limit", strconv.Itoa(*p.Limit))
			self.RawQuery = q.Encode()
		}
		return self, nil
	case PageSourceNext:
		if p.Links == nil || p.Links.Next == "" {
			return nil, invalidArgument("next page requested but there is no next page link")
		}
		return joinLink(p.Links.Base, p.Links.Next, "next")
	case PageSourcePrev:
		if p.Links == nil || p.Links.Prev == "" {
			return nil, invalidArgument("prev page requested but there is no prev page link")
		}
		return joinLink(p.Links.Base, p.Links.Prev, "prev")
	default:
		return nil, invalidArgument("invalid page source %d", int(p.PageSource))
	}
}

// joinLink concatenates base and a base-relative link the way Confluence
// intends: base already carries the context path.
func joinLink(base, link, direction string) (*url.URL, error) {
	if base == "" {
		return nil, invalidArgument("%s page requested but there is no base link", direction)
	}
	u, err := url.Parse(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(link, "/"))
	if err != nil {
		return nil, invalidArgument("invalid %s page link %q: %v", direction, link, err)
	}
	return u, nil
}

// Result is one page of a Confluence collection.
type Result[T any] struct {
	Results []T    `json:"results"`
	Start   int    `json:"start"`
	Limit   int    `json:"limit"`
	Size    int    `json:"size"`
	Links   *Links `json:"_links,omitempty"`
}

// HasNext reports whether a next page link is present
func (r *Result[T]) HasNext() bool {
	return r != nil && r.Links != nil && r.Links.Next != ""
}

// HasPrev reports whether a prev page link is present
func (r *Result[T]) HasPrev() bool {
	return r != nil && r.Links != nil && r.Links.Prev != ""
}

// NextPage returns the paging information for the page after r.
func (r *Result[T]) NextPage() *PagingInformation {
	return r.page(PageSourceNext)
}

// PrevPage returns the paging information for the page before r.
func (r *Result[T]) PrevPage() *PagingInformation {
	return r.page(PageSourcePrev)
}

func (r *Result[T]) page(source PageSource) *PagingInformation {
	limit := r.Limit
	p := &PagingInformation{Links: r.Links, PageSource: source}
	if limit > 0 {
		p.Limit = &limit
	}
	return p
}

// Int returns a pointer to v, for PagingInformation fields.
func Int(v int) *int {
	return &v
}

// Bool returns a pointer to v, for optional query flags.
func Bool(v bool) *bool {
	return &v
}
