package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/saveblush/reraw-search/pgk/query"
)

type searchOptions struct {
	relays  string
	authors string
	since   string
	until   string
	limit   int
	timeout time.Duration
}

func newSearchCommand(opts *RootOptions) *cobra.Command {
	so := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Full text search (NIP-50) over text notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := query.NewSearchRequest()
			req.Search = strings.Join(args, " ")
			if so.relays != "" {
				req.Relays = []string{so.relays}
			}
			req.Authors = so.authors
			req.Since = so.since
			req.Until = so.until
			if cmd.Flags().Changed("limit") {
				req.Limit = so.limit
			}
			if cmd.Flags().Changed("timeout") {
				req.Timeout = so.timeout
			}

			p := newPrinter(cmd, opts)
			start := time.Now()
			evts, err := query.NewService().QueryBySearch(cmd.Context(), req, progressFunc(p))
			if err != nil {
				return err
			}

			if err := p.Events(evts); err != nil {
				return err
			}
			p.Summary(&Summary{
				Pubkey:  so.authors,
				Search:  req.Search,
				Count:   len(evts),
				Elapsed: time.Since(start),
			})

			return nil
		},
	}

	cmd.Flags().StringVarP(&so.relays, "relays", "r", "", "relay urls separated by commas (default from config)")
	cmd.Flags().StringVarP(&so.authors, "authors", "a", "", "authors, npub or hex, separated by spaces or commas")
	cmd.Flags().StringVar(&so.since, "since", "", "unix seconds or date, e.g. 2024-01-02 or 2024-01-02T15:04")
	cmd.Flags().StringVar(&so.until, "until", "", "unix seconds or date")
	cmd.Flags().IntVarP(&so.limit, "limit", "l", 0, "max records (default from config)")
	cmd.Flags().DurationVar(&so.timeout, "timeout", 0, "time to wait for relays (default from config)")

	return cmd
}
