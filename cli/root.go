package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string
	Config  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "reraw-search",
		Short:        "Query several Nostr relays at once",
		Long:         "Sends one subscription to every relay, merges the answers by id and prints them newest first.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			if err := config.InitConfig(opts.Config); err != nil {
				return err
			}
			logger.SetDebug(opts.Verbose)

			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default ./configs/config.yml)")

	cmd.AddCommand(newQueryCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	cmd.AddCommand(newFollowingsCommand(opts))
	cmd.AddCommand(newCacheCommand(opts))
	cmd.AddCommand(newNpubCommand(opts))
	cmd.AddCommand(newHexCommand(opts))

	return cmd
}

func newPrinter(cmd *cobra.Command, opts *RootOptions) *Printer {
	return &Printer{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: &syncWriter{w: cmd.ErrOrStderr()},
	}
}

// progressFunc progress lines on stderr in text mode, nothing otherwise
func progressFunc(p *Printer) models.ProgressFunc {
	if p.Format != FormatText {
		return nil
	}

	return p.Progress
}
