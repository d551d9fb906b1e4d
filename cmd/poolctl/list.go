package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/portpool/pool"
)

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List the records of one kind",
		Long: `The list command prints every record of a kind in insertion order.

Kinds: ` + strings.Join(kindNames(), ", ") + `

Example:
  poolctl list publisher
  poolctl list runnable --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args)
		},
	}
	return cmd
}

// recordRow is the printable form of any record.
type recordRow struct {
	ID      uint64 `json:"id,omitempty"`
	Process string `json:"process,omitempty"`
	Service string `json:"service,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func runList(args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	s, err := openPool()
	if err != nil {
		return err
	}
	defer s.Close()

	rows := collectRows(s, kind)
	if jsonOut {
		return printJSON(rows)
	}
	if len(rows) == 0 {
		printVerbose("No %s records\n", kind)
		return nil
	}
	for _, r := range rows {
		fields := []string{}
		if r.ID != 0 {
			fields = append(fields, fmt.Sprintf("#%d", r.ID))
		}
		for _, f := range []string{r.Process, r.Service, r.Detail} {
			if f != "" {
				fields = append(fields, f)
			}
		}
		printInfo("%s\n", strings.Join(fields, "  "))
	}
	return nil
}

func collectRows(s *pool.Shared, kind pool.Kind) []recordRow {
	var rows []recordRow
	switch kind {
	case pool.Publisher:
		for _, r := range s.Pool.PublisherPortDataList() {
			rows = append(rows, recordRow{
				ID: r.Base.UniqueID, Process: r.Base.ProcessName.String(), Service: r.Base.ServiceDescription.String(),
				Detail: fmt.Sprintf("history=%d offered=%t", r.HistoryCapacity, r.Offered.Load()),
			})
		}
	case pool.Subscriber:
		for _, r := range s.Pool.SubscriberPortDataList() {
			rows = append(rows, recordRow{
				ID: r.Base.UniqueID, Process: r.Base.ProcessName.String(), Service: r.Base.ServiceDescription.String(),
				Detail: fmt.Sprintf("queue=%s state=%s", r.QueueType, r.State()),
			})
		}
	case pool.Sender:
		for _, r := range s.Legacy.SenderPortDataList() {
			rows = append(rows, recordRow{
				ID: r.Base.UniqueID, Process: r.Base.ProcessName.String(), Service: r.Base.ServiceDescription.String(),
			})
		}
	case pool.Receiver:
		for _, r := range s.Legacy.ReceiverPortDataList() {
			rows = append(rows, recordRow{
				ID: r.Base.UniqueID, Process: r.Base.ProcessName.String(), Service: r.Base.ServiceDescription.String(),
			})
		}
	case pool.Interface:
		for _, r := range s.Pool.InterfacePortDataList() {
			rows = append(rows, recordRow{Process: r.ProcessName.String(), Detail: r.Interface.String()})
		}
	case pool.Application:
		for _, r := range s.Pool.ApplicationPortDataList() {
			rows = append(rows, recordRow{Process: r.ProcessName.String()})
		}
	case pool.Runnable:
		for _, r := range s.Pool.RunnableDataList() {
			rows = append(rows, recordRow{
				Process: r.Process.String(), Service: r.Runnable.String(),
				Detail: fmt.Sprintf("device=%d", r.DeviceIdentifier),
			})
		}
	case pool.ConditionVariable:
		for _, r := range s.Pool.ConditionVariableDataList() {
			rows = append(rows, recordRow{Detail: fmt.Sprintf("waiters=%d", r.Waiters.Load())})
		}
	}
	return rows
}

func parseKind(s string) (pool.Kind, error) {
	k, ok := pool.ParseKind(s)
	if !ok {
		return 0, fmt.Errorf("unknown kind %q (want one of: %s)", s, strings.Join(kindNames(), ", "))
	}
	return k, nil
}

func kindNames() []string {
	var names []string
	for _, k := range pool.Kinds() {
		names = append(names, k.String())
	}
	return names
}
