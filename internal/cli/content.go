package cli

import (
	"github.com/spf13/cobra"
)

// NewContentCommand creates the content command group.
func NewContentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspect pages and blog posts",
	}
	cmd.AddCommand(newContentGetCommand(rootOpts))
	return cmd
}

func newContentGetCommand(rootOpts *RootOptions) *cobra.Command {
	var body bool
	expand := []string{"space", "version"}
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one page or blog post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if body {
				expand = append(expand, "body.storage")
			}
			return withSession(rootOpts, cmd, func(s *session) error {
				content, err := s.client.Content().Get(s.ctx, args[0], expand)
				if err != nil {
					return commandError("failed to get content "+args[0], err)
				}

				view := contentView{contentRow: newContentRow(s.client, content)}
				if content.Version != nil {
					view.Version = content.Version.Number
				}
				if body && content.Body != nil && content.Body.Storage != nil {
					view.Body = content.Body.Storage.Value
				}
				return s.formatter.Success(view)
			})
		},
	}
	cmd.Flags().StringSliceVar(&expand, "expand", expand, "properties to expand")
	cmd.Flags().BoolVar(&body, "body", false, "print the storage format body")
	return cmd
}
