package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camden-git/yearbookbackend/database"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all people and comments with a fixture and hide the gallery",
	Long: `Deletes every comment and person, inserts the people from a YAML fixture
and resets the gallery to hidden. Without --file (or SEED_FILE) the built-in
sample people are used.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "YAML fixture to load (overrides SEED_FILE)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	path := seedFile
	if path == "" {
		path = cfg.SeedFile
	}

	fixture, err := loadFixture(path)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabasePath, log.Named("database"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db) //nolint:errcheck

	people, err := database.Seed(db, fixture)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	for _, p := range people {
		log.Info("seeded person", zap.Uint("id", p.ID), zap.String("name", p.Name))
	}
	log.Info("seed complete", zap.Int("people", len(people)), zap.Bool("gallery_released", false))
	return nil
}

func loadFixture(path string) (database.SeedFile, error) {
	if path == "" {
		return database.DefaultSeed()
	}
	f, err := os.Open(path)
	if err != nil {
		return database.SeedFile{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return database.ParseSeed(f)
}
