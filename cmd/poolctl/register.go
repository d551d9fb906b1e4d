package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/portpool/pool"
	"github.com/joshuapare/portpool/pool/port"
)

var (
	registerHistory uint64
	registerDevice  uint64
)

func init() {
	cmd := newRegisterCmd()
	cmd.Flags().Uint64Var(&registerHistory, "history", 0, "History capacity (publisher) or request (subscriber)")
	cmd.Flags().Uint64Var(&registerDevice, "device", 0, "Device identifier (runnable)")
	rootCmd.AddCommand(cmd)
}

func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <kind> [args...]",
		Short: "Add a record to a port pool",
		Long: `The register command adds one record to an existing pool, the way the
daemon does when a process asks for a port. It is meant for testing and
inspection tooling.

Arguments per kind:
  publisher|subscriber|sender|receiver <process> <service> <instance> <event>
  interface <process> <INTERFACE>
  application <process>
  runnable <process> <runnable>
  condition_variable

Example:
  poolctl register application /radar
  poolctl register publisher /radar Radar FrontLeft Objects --history 4
  poolctl register interface /gateway SOMEIP`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(args)
		},
	}
	return cmd
}

var registerArgs = map[pool.Kind]int{
	pool.Publisher:         4,
	pool.Subscriber:        4,
	pool.Sender:            4,
	pool.Receiver:          4,
	pool.Interface:         2,
	pool.Application:       1,
	pool.Runnable:          2,
	pool.ConditionVariable: 0,
}

func runRegister(args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	rest := args[1:]
	if want := registerArgs[kind]; len(rest) != want {
		return fmt.Errorf("%s expects %d argument(s), got %d", kind, want, len(rest))
	}

	s, err := openPool()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := addRecord(s, kind, rest); err != nil {
		return fmt.Errorf("failed to register %s: %w", kind, err)
	}
	if err := s.Sync(context.Background()); err != nil {
		return fmt.Errorf("failed to sync pool: %w", err)
	}
	printInfo("Registered %s\n", kind)
	return nil
}

func addRecord(s *pool.Shared, kind pool.Kind, args []string) error {
	var err error
	switch kind {
	case pool.Publisher:
		_, err = s.Pool.AddPublisherPort(service(args), registerHistory, port.MemoryRef{}, args[0], port.MemoryInfo{})
	case pool.Subscriber:
		_, err = s.Pool.AddSubscriberPort(service(args), registerHistory, args[0], port.MemoryInfo{})
	case pool.Sender:
		_, err = s.Legacy.AddSenderPort(service(args), port.MemoryRef{}, args[0], port.MemoryInfo{})
	case pool.Receiver:
		_, err = s.Legacy.AddReceiverPort(service(args), args[0], port.MemoryInfo{})
	case pool.Interface:
		iface, ok := port.ParseInterface(args[1])
		if !ok {
			return fmt.Errorf("unknown interface %q", args[1])
		}
		_, err = s.Pool.AddInterfacePort(args[0], iface)
	case pool.Application:
		_, err = s.Pool.AddApplicationPort(args[0])
	case pool.Runnable:
		_, err = s.Pool.AddRunnableData(args[0], args[1], registerDevice)
	case pool.ConditionVariable:
		_, err = s.Pool.AddConditionVariableData()
	}
	return err
}

// service builds a description from process, service, instance, event args.
func service(args []string) port.ServiceDescription {
	return port.NewServiceDescription(args[1], args[2], args[3])
}
