package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/portpool/pool"
)

var (
	createForce bool
)

func init() {
	cmd := newCreateCmd()
	cmd.Flags().BoolVarP(&createForce, "force", "f", false, "Remove an existing segment first")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty port pool segment",
		Long: `The create command sizes a segment from the configured capacities,
formats an empty pool in it and marks it ready for clients.

Example:
  poolctl create
  poolctl create --config roudi.yaml
  poolctl create --segment /dev/shm/iox_test --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate()
		},
	}
	return cmd
}

type createResult struct {
	Path       string          `json:"path"`
	DataSize   int             `json:"data_size"`
	Capacities pool.Capacities `json:"capacities"`
}

func runCreate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := resolveSegment(cfg)
	caps := cfg.PoolCapacities()

	if createForce {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove existing segment: %w", err)
		}
		printVerbose("Removed existing segment: %s\n", path)
	}

	size, err := pool.DataFootprint(caps)
	if err != nil {
		return err
	}
	printVerbose("Creating segment: %s (%s of pool data)\n", path, formatBytes(int64(size)))

	s, err := pool.CreateShared(path, caps, cfg.PoolOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close pool: %w", err)
	}

	if jsonOut {
		return printJSON(createResult{Path: path, DataSize: size, Capacities: caps})
	}
	printInfo("Created port pool %s (%s)\n", path, formatBytes(int64(size)))
	return nil
}
