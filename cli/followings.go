package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/pgk/followings"
	"github.com/saveblush/reraw-search/pgk/identity"
	"github.com/saveblush/reraw-search/pgk/query"
)

var (
	errNoLogin = errors.New("invalid: no login identity, use --login or APP.PUBKEY")
)

func newFollowingsCommand(opts *RootOptions) *cobra.Command {
	var login, relays string

	cmd := &cobra.Command{
		Use:   "followings",
		Short: "List the accounts the login identity follows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, method := login, "flag"
			if input == "" {
				input, method = config.CF().App.Pubkey, "config"
			}
			if input == "" {
				return errNoLogin
			}

			l, err := identity.NewLogin(input, method)
			if err != nil {
				return err
			}

			list := config.CF().Query.Relays
			if relays != "" {
				list = []string{relays}
			}

			c, closeCache, err := openCache()
			if err != nil {
				return err
			}
			defer closeCache()

			result, err := followings.NewService(query.NewService(), c).Load(cmd.Context(), l.Hex, list)
			if err != nil {
				return err
			}

			return newPrinter(cmd, opts).Followings(result)
		},
	}

	cmd.Flags().StringVar(&login, "login", "", "npub or hex of the account (default APP.PUBKEY)")
	cmd.Flags().StringVarP(&relays, "relays", "r", "", "relay urls separated by commas (default from config)")

	return cmd
}
