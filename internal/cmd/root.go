// Package cmd implements trashcanctl, the operator CLI for the user and
// report stores.
package cmd

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MollahHamza/TRASHCANPRO/internal/config"
	"github.com/MollahHamza/TRASHCANPRO/internal/repository"
	"github.com/MollahHamza/TRASHCANPRO/internal/store"
)

var dataDir string

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trashcanctl",
		Short: "Manage TRASHCANPRO users and reports",
		Long: `trashcanctl edits the user and report stores of a TRASHCANPRO
deployment directly. It reads the same environment (.env, STORAGE_BACKEND,
DATA_DIR, DB_*) as the server.

Examples:
  trashcanctl user list
  trashcanctl user add alice --password s3cret --role standard
  trashcanctl user award alice 100
  trashcanctl report list`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Directory holding users.json, waste_reports.json and images (overrides DATA_DIR)")
	root.AddCommand(newUserCmd(), newReportCmd())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return rootCmd.Execute()
}

func storageConfig() config.StorageConfig {
	cfg := config.LoadStorage()
	if dataDir != "" {
		cfg.DataDir = dataDir
		cfg.UsersFile = filepath.Join(dataDir, "users.json")
		cfg.ReportsFile = filepath.Join(dataDir, "waste_reports.json")
		cfg.ImageDir = filepath.Join(dataDir, "waste_report_images")
	}
	return cfg
}

// stores opens the configured backends.  The caller closes the returned
// Backends.
func stores(ctx context.Context) (*repository.Backends, *store.CredentialStore, error) {
	b, err := repository.Open(storageConfig())
	if err != nil {
		return nil, nil, err
	}
	users, err := store.NewCredentialStore(ctx, b.Users)
	if err != nil {
		_ = b.Close()
		return nil, nil, err
	}
	return b, users, nil
}
