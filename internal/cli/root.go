// Package cli implements searchctl, the operator command line for the
// search log.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"searchlog/internal/terms"
)

// StoreOpener opens the search store for a command. The returned func
// releases it.
type StoreOpener func(ctx context.Context) (terms.Repository, func(), error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"

	open   StoreOpener
	policy terms.Policy
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for searchctl.
func NewRootCommand(open StoreOpener, policy terms.Policy) *cobra.Command {
	opts := &RootOptions{open: open, policy: policy}

	cmd := &cobra.Command{
		Use:   "searchctl",
		Short: "Inspect and maintain the search log",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewConsolidateCommand(opts))
	cmd.AddCommand(NewTopCommand(opts))
	cmd.AddCommand(NewLogCommand(opts))
	cmd.AddCommand(NewSuggestCommand(opts))

	return cmd
}

// service opens the store and builds a term service over it.
func (o *RootOptions) service(ctx context.Context) (*terms.Service, func(), error) {
	repo, closeFn, err := o.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	return terms.NewService(repo, o.policy), closeFn, nil
}

// emit writes v as indented JSON, or calls text for the text format.
func (o *RootOptions) emit(w io.Writer, v any, text func(io.Writer)) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
