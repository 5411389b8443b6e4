// Package cli implements gymctl, the operator command line: schema
// migration, bootstrap data and barcode utilities.
package cli

import (
	"fmt"

	"gymdesk/internal/config"
	"gymdesk/internal/infra"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format   string // "json" | "text"
	Database string

	// openDB is replaced in tests.
	openDB func(dsn string) (*gorm.DB, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the gymctl root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{openDB: infra.NewDatabase})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gymctl",
		Short: "gymdesk operator tool",
		Long:  "Operator commands for gymdesk: migrate the schema, seed the SuperUser and the catalog, hash passwords and work with license barcodes.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "database", "", "database DSN (defaults to DATABASE_URL)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedSuperUserCommand(opts))
	cmd.AddCommand(NewSeedCatalogCommand(opts))
	cmd.AddCommand(NewHashCommand(opts))
	cmd.AddCommand(NewBarcodeCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// open loads the configuration and connects, letting --database win over
// DATABASE_URL. Connecting migrates the schema.
func (o *RootOptions) open() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.Database != "" {
		cfg.DatabaseURL = o.Database
	}
	db, err := o.openDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, db, nil
}
