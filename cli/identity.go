package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saveblush/reraw-search/pgk/identity"
	"github.com/saveblush/reraw-search/pgk/nips/nip19"
)

type identityOutput struct {
	Hex  string `json:"hex" yaml:"hex"`
	Npub string `json:"npub" yaml:"npub"`
}

func convertIdentity(input string) (*identityOutput, error) {
	pk, err := identity.Normalize(input)
	if err != nil {
		return nil, err
	}

	npub, err := nip19.EncodePublicKey(pk)
	if err != nil {
		return nil, err
	}

	return &identityOutput{Hex: pk, Npub: npub}, nil
}

func newNpubCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "npub <hex>",
		Short: "Encode a hex public key as npub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := convertIdentity(args[0])
			if err != nil {
				return err
			}

			p := newPrinter(cmd, opts)
			if p.Format == FormatText {
				_, err = fmt.Fprintln(p.Writer, out.Npub)
				return err
			}

			return p.Value(out)
		},
	}
}

func newHexCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hex <npub>",
		Short: "Decode an npub to its hex public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := convertIdentity(args[0])
			if err != nil {
				return err
			}

			p := newPrinter(cmd, opts)
			if p.Format == FormatText {
				_, err = fmt.Fprintln(p.Writer, out.Hex)
				return err
			}

			return p.Value(out)
		},
	}
}
