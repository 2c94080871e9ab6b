package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netforge-os/confgen/pkg/audit"
	"github.com/netforge-os/confgen/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View the audit log of naming decisions and render runs.

Examples:
  confgen audit list --last 24h
  confgen audit list --interface enp3s0
  confgen audit list --operation frr.render --failures`,
}

var (
	auditOperation string
	auditInterface string
	auditName      string
	auditLast      string
	auditLimit     int
	auditFailures  bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Operation:   auditOperation,
			Interface:   auditInterface,
			Name:        auditName,
			Limit:       auditLimit,
			FailureOnly: auditFailures,
		}
		if auditLast != "" {
			d, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-d)
		}

		logger, err := audit.NewFileLogger(app.auditPath, audit.RotationConfig{})
		if err != nil {
			return err
		}
		defer logger.Close()

		events, err := logger.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if app.jsonOutput {
			return printJSON(os.Stdout, events)
		}
		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		t := cli.NewTable("TIMESTAMP", "OPERATION", "SUBJECT", "RESULT", "STATUS")
		for _, e := range events {
			subject, result := e.Interface, e.Name
			if e.Operation == audit.OpRender {
				subject = e.Source
				result = fmt.Sprintf("%d statements", e.Statements)
			}
			t.Row(
				e.Timestamp.Format("2006-01-02 15:04:05"),
				e.Operation,
				cli.OrDash(subject),
				cli.OrDash(result),
				cli.Status(e.Success),
			)
		}
		return t.Flush()
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditOperation, "operation", "", "Filter by operation (netname.resolve, frr.render)")
	auditListCmd.Flags().StringVar(&auditInterface, "interface", "", "Filter by kernel interface name")
	auditListCmd.Flags().StringVar(&auditName, "name", "", "Filter by resolved logical name")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed operations")
	auditListCmd.Flags().BoolVar(&app.jsonOutput, "json", false, "JSON output")

	auditCmd.AddCommand(auditListCmd)
}
