package cli

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/spf13/cobra"

	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/core/sql"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/pgk/cache"
)

// openCache cache on the configured driver, connecting postgres when needed
func openCache() (cache.Service, func(), error) {
	if config.CF().Cache.Driver != config.CachePostgres {
		return cache.NewServiceFromConfig(), func() {}, nil
	}

	cfdb := &sql.Configuration{}
	if err := copier.Copy(cfdb, &config.CF().Database.CacheSQL); err != nil {
		return nil, nil, err
	}

	session, err := sql.InitConnection(cfdb)
	if err != nil {
		logger.Log.Errorf("init connection db error: %s", err)
		return nil, nil, err
	}
	sql.CacheDatabase = session.Database

	if logger.Debug() {
		sql.DebugCacheDatabase()
	}

	if err := sql.Migration(sql.CacheDatabase); err != nil {
		_ = sql.CloseConnection(sql.CacheDatabase)
		return nil, nil, err
	}

	closer := func() {
		_ = sql.CloseConnection(sql.CacheDatabase)
		sql.CacheDatabase = nil
	}

	return cache.NewServiceFromConfig(), closer, nil
}

func newCacheCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the followings and profile cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closeCache, err := openCache()
			if err != nil {
				return err
			}
			defer closeCache()

			n, err := c.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(cmd, opts)
			if p.Format == FormatText {
				_, err = fmt.Fprintf(p.Writer, "%d expired entries deleted\n", n)
				return err
			}

			return p.Value(map[string]int64{"deleted": n})
		},
	})

	return cmd
}
