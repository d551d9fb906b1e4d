package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/portpool/pool"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show list usage of a port pool",
		Long: `The stats command opens the segment and shows, for every record kind,
how many slots are used out of the fixed capacity.

Example:
  poolctl stats
  poolctl stats --segment /dev/shm/iox_roudi --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
	return cmd
}

type kindStats struct {
	Kind string `json:"kind"`
	Used int    `json:"used"`
	Cap  int    `json:"capacity"`
}

type PoolStats struct {
	Path          string      `json:"path"`
	TotalSize     uint64      `json:"total_size"`
	DataSize      uint64      `json:"data_size"`
	CreatorPID    uint32      `json:"creator_pid"`
	ChangeCounter uint64      `json:"change_counter"`
	Kinds         []kindStats `json:"kinds"`
}

func runStats() error {
	s, err := openPool()
	if err != nil {
		return err
	}
	defer s.Close()

	info := s.Segment.Info()
	stats := PoolStats{
		Path:          s.Segment.Path(),
		TotalSize:     info.TotalSize,
		DataSize:      info.DataSize,
		CreatorPID:    info.CreatorPID,
		ChangeCounter: s.Data.ServiceRegistryChangeCounter().Load(),
	}
	for _, u := range s.Data.Usage() {
		stats.Kinds = append(stats.Kinds, kindStats{Kind: u.Kind.String(), Used: u.Len, Cap: u.Cap})
	}

	if jsonOut {
		return printJSON(stats)
	}

	printInfo("\nPort Pool Statistics: %s\n", stats.Path)
	printInfo("%s\n\n", strings.Repeat("=", 40))
	printInfo("Segment:\n")
	printInfo("  Size: %s (data %s)\n", formatBytes(int64(stats.TotalSize)), formatBytes(int64(stats.DataSize)))
	printInfo("  Creator PID: %d\n", stats.CreatorPID)
	printInfo("  Change Counter: %d\n\n", stats.ChangeCounter)

	printInfo("Lists:\n")
	for _, k := range stats.Kinds {
		printInfo("  %-20s %6d / %-6d %s\n", k.Kind, k.Used, k.Cap, usageBar(k.Used, k.Cap))
	}
	return nil
}

func usageBar(used, capacity int) string {
	const width = 20
	if capacity <= 0 {
		return ""
	}
	filled := used * width / capacity
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// openPool attaches to the configured segment.
func openPool() (*pool.Shared, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := resolveSegment(cfg)
	printVerbose("Opening segment: %s\n", path)
	s, err := pool.OpenShared(path, cfg.PoolOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}
	return s, nil
}
