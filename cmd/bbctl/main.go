// Command bbctl runs operator tasks against the BrokeBesties database.
package main

import (
	"fmt"
	"log"
	"os"

	"brokebesties/internal/config"
	"brokebesties/internal/repositories"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "bbctl",
		Short:         "bbctl - operator tooling for BrokeBesties",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(inboxCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB connects using the same environment as the server.
func openDB() (*gorm.DB, func(), error) {
	config.LoadEnv()
	db, err := repositories.InitDB(config.Load().Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close database connection: %v", err)
			}
		}
	}
	return db, closeFn, nil
}

func migrateCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			if reset {
				if err := repositories.DropAll(db); err != nil {
					return fmt.Errorf("failed to drop tables: %w", err)
				}
				log.Println("✅ Tables dropped")
			}
			if err := repositories.Migrate(db); err != nil {
				return err
			}
			log.Println("✅ Schema migrated")
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "drop every table before migrating")
	return cmd
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, groups and debts from a YAML fixture file",
		Long: `Load users, groups and debts from a YAML fixture file.

Example:
  bbctl seed --file fixtures.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			fx, err := LoadFixtures(f)
			if err != nil {
				return err
			}

			db, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := fx.Apply(cmd.Context(), db)
			if err != nil {
				return err
			}
			log.Printf("✅ Seeded %d users, %d groups, %d debts", res.Users, res.Groups, res.Debts)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "fixture file")
	return cmd
}

func inboxCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Print the requests waiting on a user as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeFn, err := openDB()
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := BuildInbox(cmd.Context(), db, userID)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user UUID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
