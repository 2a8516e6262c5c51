package cli

import (
	"github.com/birbparty/go-confluence/sdk"
	"github.com/spf13/cobra"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	Query  QueryFlags
	Limit  int
	All    bool
	Expand []string
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search content with a CQL query built from the flags",
		Example: `  confluence search --space DEV --type page --title-contains "release notes"
  confluence search --label runbook --all --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(rootOpts, opts, cmd)
		},
	}
	opts.Query.bind(cmd)
	cmd.Flags().IntVar(&opts.Limit, "limit", 25, "results per page")
	cmd.Flags().BoolVar(&opts.All, "all", false, "follow next links and print every result")
	cmd.Flags().StringSliceVar(&opts.Expand, "expand", []string{"space"}, "properties to expand")
	return cmd
}

func runSearch(rootOpts *RootOptions, opts *SearchOptions, cmd *cobra.Command) error {
	query, err := opts.Query.Build()
	if err != nil {
		return commandError("invalid query", err)
	}
	if opts.Limit <= 0 {
		return NewExitError(ExitCommandError, ErrCodeGeneric, "--limit must be positive")
	}

	return withSession(rootOpts, cmd, func(s *session) error {
		s.formatter.VerboseLog("CQL: %s", query)
		searchOpts := &sdk.SearchOptions{Expand: opts.Expand, Limit: sdk.Int(opts.Limit)}

		var results []sdk.Content
		more := false
		if opts.All {
			results, err = s.client.Search().ContentPager(query, searchOpts).All(s.ctx)
		} else {
			var page *sdk.Result[sdk.Content]
			page, err = s.client.Search().Content(s.ctx, query, searchOpts)
			if page != nil {
				results, more = page.Results, page.HasNext()
			}
		}
		if err != nil {
			return commandError("search failed", err)
		}

		list := contentList{Query: query.String(), Results: make([]contentRow, len(results)), More: more}
		for i := range results {
			list.Results[i] = newContentRow(s.client, &results[i])
		}
		if more {
			s.formatter.VerboseLog("More results available, use --all to fetch every page")
		}
		return s.formatter.Success(list)
	})
}
