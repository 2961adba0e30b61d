package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
	"github.com/saveblush/reraw-search/pgk/cron"
	"github.com/saveblush/reraw-search/pgk/query"
)

const defaultWatchSchedule = "@every 1m"

// watcher prints only records it has not printed before
type watcher struct {
	query   query.Service
	req     *models.QueryRequest
	printer *Printer
	seen    map[string]struct{}
}

func (w *watcher) run(ctx context.Context) error {
	evts, err := w.query.QueryRelays(ctx, w.req, nil)
	if err != nil {
		return err
	}

	fresh := make([]*models.Event, 0, len(evts))
	for _, evt := range evts {
		if _, ok := w.seen[evt.ID]; ok {
			continue
		}
		w.seen[evt.ID] = struct{}{}
		fresh = append(fresh, evt)
	}
	if len(fresh) == 0 {
		return nil
	}

	return w.printer.Events(fresh)
}

func newWatchCommand(opts *RootOptions) *cobra.Command {
	qo := &queryOptions{}
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run a query on a schedule and print new records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := qo.request(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			w := &watcher{
				query:   query.NewService(),
				req:     req,
				printer: newPrinter(cmd, opts),
				seen:    make(map[string]struct{}),
			}
			if err := w.run(ctx); err != nil {
				return err
			}

			// watch keeps no cache, so no purge job
			sched := cron.NewService(nil)
			err = sched.AddQuery(schedule, func() {
				if err := w.run(ctx); err != nil {
					logger.Log.Errorf("[watch] %s", err)
				}
			})
			if err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			<-ctx.Done()

			return nil
		},
	}
	qo.bind(cmd)
	cmd.Flags().StringVar(&schedule, "schedule", defaultWatchSchedule, "cron spec, e.g. \"*/5 * * * *\" or \"@every 30s\"")

	return cmd
}
