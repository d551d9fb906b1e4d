package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the structure of a port pool",
		Long: `The verify command opens the segment and checks its header, the region
table and the link structure of every list. It exits non-zero on the
first problem found.

Example:
  poolctl verify --segment /dev/shm/iox_roudi`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify()
		},
	}
	return cmd
}

type verifyResult struct {
	Path string `json:"path"`
	OK   bool   `json:"ok"`
}

func runVerify() error {
	// OpenShared verifies every list before returning.
	s, err := openPool()
	if err != nil {
		return err
	}
	defer s.Close()

	if jsonOut {
		return printJSON(verifyResult{Path: s.Segment.Path(), OK: true})
	}
	printInfo("%s: OK\n", s.Segment.Path())
	return nil
}
