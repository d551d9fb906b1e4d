package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/portpool/pool/segment"
)

var (
	destroyForce bool
)

func init() {
	cmd := newDestroyCmd()
	cmd.Flags().BoolVarP(&destroyForce, "force", "f", false, "Remove the file even if it is not a valid segment")
	rootCmd.AddCommand(cmd)
}

func newDestroyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Remove a port pool segment",
		Long: `The destroy command removes the segment file. It refuses files that do
not carry a ready segment header unless --force is given. Processes that
still have the segment mapped keep their mapping.

Example:
  poolctl destroy --segment /dev/shm/iox_test`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDestroy()
		},
	}
	return cmd
}

func runDestroy() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := resolveSegment(cfg)

	seg, err := segment.Open(path)
	if err != nil {
		if !destroyForce || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to open segment: %w", err)
		}
		printVerbose("Ignoring invalid segment: %v\n", err)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove segment: %w", err)
		}
		printInfo("Removed %s\n", path)
		return nil
	}
	if err := seg.Remove(); err != nil {
		return fmt.Errorf("failed to remove segment: %w", err)
	}
	printInfo("Removed %s\n", path)
	return nil
}
