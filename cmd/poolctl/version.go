package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/portpool/pool"
	"github.com/joshuapare/portpool/pool/segment"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `The version command prints the build information and the on-disk
layout versions this binary reads and writes. A segment created by a
binary with a different segment or pool layout version is rejected on open.`,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "poolctl %s\n", version)
	fmt.Fprintf(w, "  commit: %s\n", commit)
	fmt.Fprintf(w, "  built: %s\n", date)
	fmt.Fprintf(w, "  segment layout: %d (magic %q)\n", segment.Version, segment.Magic)
	fmt.Fprintf(w, "  pool layout: %d\n", pool.DataVersion)
}
