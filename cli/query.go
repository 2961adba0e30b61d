package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/saveblush/reraw-search/models"
	"github.com/saveblush/reraw-search/pgk/filter"
	"github.com/saveblush/reraw-search/pgk/query"
)

type queryOptions struct {
	relays   string
	author   string
	kind     string
	tagName  string
	tagValue string
	limit    int
	timeout  time.Duration
}

func (o *queryOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.relays, "relays", "r", "", "relay urls separated by commas (default from config)")
	cmd.Flags().StringVarP(&o.author, "author", "a", "", "author npub or hex")
	cmd.Flags().StringVarP(&o.kind, "kind", "k", "1", "event kind")
	cmd.Flags().StringVar(&o.tagName, "tag-name", "", "single letter tag name, e.g. t")
	cmd.Flags().StringVar(&o.tagValue, "tag-value", "", "tag value, required with --tag-name")
	cmd.Flags().IntVarP(&o.limit, "limit", "l", 0, "max records (default from config)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "time to wait for relays (default from config)")
}

// request config defaults overridden by the flags that were set
func (o *queryOptions) request(cmd *cobra.Command) (*models.QueryRequest, error) {
	req := query.NewQueryRequest()
	if o.relays != "" {
		req.Relays = []string{o.relays}
	}

	kind, err := filter.ParseKind(o.kind)
	if err != nil {
		return nil, err
	}
	req.Kind = kind
	req.Author = o.author
	req.TagName = o.tagName
	req.TagValue = o.tagValue

	if cmd.Flags().Changed("limit") {
		req.Limit = o.limit
	}
	if cmd.Flags().Changed("timeout") {
		req.Timeout = o.timeout
	}

	return req, nil
}

func newQueryCommand(opts *RootOptions) *cobra.Command {
	qo := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query relays by author, kind and tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := qo.request(cmd)
			if err != nil {
				return err
			}

			p := newPrinter(cmd, opts)
			start := time.Now()
			evts, err := query.NewService().QueryRelays(cmd.Context(), req, progressFunc(p))
			if err != nil {
				return err
			}

			if err := p.Events(evts); err != nil {
				return err
			}
			p.Summary(&Summary{
				Pubkey:  req.Author,
				Kind:    req.Kind,
				Tag:     tagLabel(req.TagName, req.TagValue),
				Count:   len(evts),
				Elapsed: time.Since(start),
			})

			return nil
		},
	}
	qo.bind(cmd)

	return cmd
}

func tagLabel(name, value string) string {
	if name == "" {
		return ""
	}

	return "#" + name + ":" + value
}
