// Command contactfinder resolves, discovers and harvests decision-maker
// contacts from the command line.
//
// Usage:
//
//	contactfinder resolve --first Jane --last Doe --company "Acme Holdings"
//	contactfinder discover --first Jane --last Doe --company "Acme Holdings"
//	contactfinder harvest --company "Acme Holdings" --title ceo
//
// API keys are read from BRAVE_API_KEY and PROSPEO_API_KEY (or a .env file
// in the working directory).
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dealflowhq/contactfinder"
	"github.com/dealflowhq/contactfinder/pkg/identity"
	"github.com/dealflowhq/contactfinder/pkg/store"
)

var (
	flagDebug   bool
	flagNoCache bool
	flagDBPath  string

	flagFirst   string
	flagLast    string
	flagCompany string
	flagDomain  string
	flagTitle   string
	flagMax     int
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contactfinder",
		Short:         "Find and enrich decision-maker contacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable HTTP response caching")
	root.PersistentFlags().StringVar(&flagDBPath, "db", "", "path to the contact SQLite database (optional)")

	root.AddCommand(resolveCmd(), discoverCmd(), harvestCmd())
	return root
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a person to a direct email via all fallback sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, db, err := newEngine()
			if err != nil {
				return err
			}
			defer closeStore(db)

			result, err := engine.Resolve(cmd.Context(), person())
			if err != nil {
				return err
			}
			return outputJSON(result)
		},
	}
	addPersonFlags(cmd)
	return cmd
}

func discoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find a person's LinkedIn profile URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, db, err := newEngine()
			if err != nil {
				return err
			}
			defer closeStore(db)

			match, err := engine.DiscoverProfile(cmd.Context(), person())
			if err != nil {
				return err
			}
			if match == nil {
				fmt.Fprintln(os.Stderr, "no profile found")
				return nil
			}
			return outputJSON(match)
		},
	}
	addPersonFlags(cmd)
	return cmd
}

func harvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Find a company's decision-makers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, db, err := newEngine()
			if err != nil {
				return err
			}
			defer closeStore(db)

			contacts, err := engine.HarvestDecisionMakers(cmd.Context(),
				flagCompany, flagDomain, flagTitle, flagMax)
			if err != nil {
				return err
			}
			return outputJSON(contacts)
		},
	}
	cmd.Flags().StringVar(&flagCompany, "company", "", "company name (required)")
	cmd.Flags().StringVar(&flagDomain, "domain", "", "company web domain")
	cmd.Flags().StringVar(&flagTitle, "title", "", "role filter (ceo, cfo, vp, ...)")
	cmd.Flags().IntVar(&flagMax, "max", 10, "maximum contacts to return")
	_ = cmd.MarkFlagRequired("company") //nolint:errcheck // flag exists
	return cmd
}

func addPersonFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFirst, "first", "", "first name (required)")
	cmd.Flags().StringVar(&flagLast, "last", "", "last name (required)")
	cmd.Flags().StringVar(&flagCompany, "company", "", "company name")
	cmd.Flags().StringVar(&flagDomain, "domain", "", "company web domain")
	cmd.Flags().StringVar(&flagTitle, "title", "", "job title")
	_ = cmd.MarkFlagRequired("first") //nolint:errcheck // flag exists
	_ = cmd.MarkFlagRequired("last")  //nolint:errcheck // flag exists
}

func person() identity.Person {
	return identity.Person{
		FirstName:     flagFirst,
		LastName:      flagLast,
		Title:         flagTitle,
		CompanyName:   flagCompany,
		CompanyDomain: flagDomain,
	}
}

// newEngine builds an Engine from flags and environment. The returned store
// is non-nil only when --db was given; the caller closes it.
func newEngine() (*contactfinder.Engine, *store.DB, error) {
	// A missing .env is fine; keys may come from the real environment.
	_ = godotenv.Load() //nolint:errcheck // optional file

	logLevel := slog.LevelInfo
	if flagDebug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	opts := []contactfinder.Option{contactfinder.WithLogger(logger)}
	if flagNoCache {
		opts = append(opts, contactfinder.WithoutCache())
	}

	var db *store.DB
	if flagDBPath != "" {
		var err error
		db, err = store.Open(flagDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open contact database: %w", err)
		}
		opts = append(opts, contactfinder.WithRecordStore(db))
	}

	engine, err := contactfinder.New(opts...)
	if err != nil {
		closeStore(db)
		return nil, nil, err
	}
	return engine, db, nil
}

func closeStore(db *store.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: close database: %v\n", err)
	}
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
