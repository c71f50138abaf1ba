package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"searchlog/internal/config"
	"searchlog/internal/db"
	"searchlog/internal/models"
	"searchlog/internal/validation"
)

// NewMigrateCommand creates the migrate command. It always targets
// DATABASE_URL, whatever STORE is set to.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.New(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// NewConsolidateCommand creates the consolidate command.
func NewConsolidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate",
		Short: "Remove searches subsumed by the newest search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := svc.Consolidate(cmd.Context())
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), result, func(w io.Writer) {
				if result.Anchor == nil {
					fmt.Fprintln(w, "no searches stored")
					return
				}
				fmt.Fprintf(w, "anchor %q: examined %d, deleted %d, failed %d\n",
					result.Anchor.Term, result.Examined, result.Deleted, result.Failed)
			})
		},
	}
}

// NewTopCommand creates the top command.
func NewTopCommand(opts *RootOptions) *cobra.Command {
	var (
		origin string
		recent bool
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the most searched terms",
		Long: `Show the most searched terms across all origins.

With --origin, show one origin's most searched terms, or its most recent
searches with --recent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if recent && origin == "" {
				return fmt.Errorf("--recent requires --origin")
			}

			svc, closeFn, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			var records []models.SearchRecord
			switch {
			case origin == "":
				records, err = svc.MostFrequentGlobal(cmd.Context())
			case recent:
				records, err = svc.MostRecentByOrigin(cmd.Context(), origin)
			default:
				records, err = svc.MostFrequentByOrigin(cmd.Context(), origin)
			}
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), records, func(w io.Writer) {
				writeRecords(w, records)
			})
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "limit to one origin")
	cmd.Flags().BoolVar(&recent, "recent", false, "order by recency instead of count")

	return cmd
}

// NewLogCommand creates the log command.
func NewLogCommand(opts *RootOptions) *cobra.Command {
	var origin string

	cmd := &cobra.Command{
		Use:   "log <term>",
		Short: "Record a search as if it came from an origin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			term := validation.NormalizeTerm(args[0])
			if valid, msg := validation.ValidateTerm(term); !valid {
				return fmt.Errorf("invalid term: %s", msg)
			}

			svc, closeFn, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.LogSearch(cmd.Context(), term, origin); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged %q for %s\n", term, origin)
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "cli", "origin key to record under")

	return cmd
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <text>",
		Short: "List stored searches containing text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			records, err := svc.Suggestions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd.OutOrStdout(), records, func(w io.Writer) {
				writeRecords(w, records)
			})
		},
	}
}

func writeRecords(w io.Writer, records []models.SearchRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no searches")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TERM\tCOUNT\tLAST SEEN")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", rec.Term, rec.Count, rec.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}
