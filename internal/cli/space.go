package cli

import (
	"github.com/birbparty/go-confluence/sdk"
	"github.com/spf13/cobra"
)

// NewSpaceCommand creates the space command group.
func NewSpaceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space",
		Short: "Inspect spaces",
	}
	cmd.AddCommand(newSpaceGetCommand(rootOpts))
	cmd.AddCommand(newSpaceListCommand(rootOpts))
	return cmd
}

func newSpaceGetCommand(rootOpts *RootOptions) *cobra.Command {
	var expand []string
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Show one space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				space, err := s.client.Space().Get(s.ctx, args[0], expand)
				if err != nil {
					return commandError("failed to get space "+args[0], err)
				}
				return s.formatter.Success(newSpaceRow(s.client, space))
			})
		},
	}
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "properties to expand")
	return cmd
}

func newSpaceListCommand(rootOpts *RootOptions) *cobra.Command {
	query := &sdk.SpaceQuery{}
	var limit int
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit > 0 {
				query.Limit = sdk.Int(limit)
			}
			return withSession(rootOpts, cmd, func(s *session) error {
				var spaces []sdk.Space
				var err error
				more := false
				if all {
					spaces, err = s.client.Space().GetAllPager(query).All(s.ctx)
				} else {
					var page *sdk.Result[sdk.Space]
					page, err = s.client.Space().GetAll(s.ctx, query)
					if page != nil {
						spaces, more = page.Results, page.HasNext()
					}
				}
				if err != nil {
					return commandError("failed to list spaces", err)
				}

				list := spaceList{Results: make([]spaceRow, len(spaces)), More: more}
				for i := range spaces {
					list.Results[i] = newSpaceRow(s.client, &spaces[i])
				}
				return s.formatter.Success(list)
			})
		},
	}
	cmd.Flags().StringSliceVar(&query.SpaceKeys, "key", nil, "only these space keys")
	cmd.Flags().StringVar(&query.Type, "type", "", "global or personal")
	cmd.Flags().StringVar(&query.Status, "status", "", "current or archived")
	cmd.Flags().StringSliceVar(&query.Labels, "label", nil, "only spaces with these labels")
	cmd.Flags().IntVar(&limit, "limit", 25, "results per page")
	cmd.Flags().BoolVar(&all, "all", false, "follow next links and print every space")
	return cmd
}
