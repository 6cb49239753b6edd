package main

import (
	"errors"

	"github.com/fadilmartias/recruitai/internal/config"
	"github.com/fadilmartias/recruitai/internal/logger"
	"github.com/fadilmartias/recruitai/internal/repository"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the candidates and action_items tables",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	logConfig := config.LoadLogConfig()
	log, err := logger.New(logConfig.JSON, logConfig.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dbConfig := config.LoadDBConfig()
	if !dbConfig.Enabled() {
		return errors.New("DB_HOST and DB_NAME are required to migrate")
	}
	db, err := connectDB(dbConfig, config.LoadAppConfig())
	if err != nil {
		return err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return err
	}
	log.Info("migration finished")
	return nil
}
