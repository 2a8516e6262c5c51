package cli

import (
	"fmt"

	"github.com/birbparty/go-confluence/internal/cache"
	"github.com/spf13/cobra"
)

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				user, err := s.client.User().Current(s.ctx)
				if err != nil {
					return commandError("failed to get current user", err)
				}
				return s.formatter.Success(userView{
					DisplayName: user.DisplayName,
					Username:    user.Username,
					UserKey:     user.UserKey,
					AccountID:   user.AccountID,
					Email:       user.Email,
				})
			})
		},
	}
}

// NewSysinfoCommand creates the sysinfo command.
func NewSysinfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sysinfo",
		Short: "Show information about the Confluence installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(s *session) error {
				info, err := s.client.Misc().SystemInfo(s.ctx)
				if err != nil {
					return commandError("failed to get system info", err)
				}
				cloud, err := s.client.IsCloudServer(s.ctx)
				if err != nil {
					return commandError("failed to get system info", err)
				}
				return s.formatter.Success(systemInfoView{SystemInfo: info, Cloud: cloud})
			})
		},
	}
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the Redis response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached Confluence response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			formatter := newFormatter(rootOpts, cmd)
			if !cfg.Cache.Enabled {
				return NewExitError(ExitCommandError, ErrCodeConfig, "response cache is not enabled (set cache.enabled or CACHE_ENABLED)")
			}

			redisCache, err := cache.NewRedisCache(cfg.RedisConfig())
			if err != nil {
				return WrapExitError(ExitFailure, ErrCodeUnavailable, "failed to connect to the response cache", err)
			}
			defer redisCache.Close()

			deleted, err := redisCache.Clear(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, ErrCodeUnavailable, "failed to clear the response cache", err)
			}
			return formatter.Success(messageView{
				Message: fmt.Sprintf("Removed %d cached responses", deleted),
				Count:   deleted,
			})
		},
	})
	return cmd
}
