package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netforge-os/confgen/pkg/cli"
	"github.com/netforge-os/confgen/pkg/hwid"
	"github.com/netforge-os/confgen/pkg/util"
)

var hwidCmd = &cobra.Command{
	Use:   "hwid",
	Short: "Manage the hardware-ID table",
	Long: `Manage the table binding logical interface names to hardware addresses.

The table is read from --hwid (YAML or TOML), from the interfaces section of a
configuration document (--hwid-config), or from Redis (--redis, optionally
through --ssh-host).

Examples:
  confgen hwid list
  confgen hwid get eth0
  confgen --redis 127.0.0.1:6379 hwid import hwid.yaml
  confgen --hwid-config config.yaml hwid export hwid.toml`,
}

var hwidListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		if app.jsonOutput {
			return printJSON(os.Stdout, table.Bindings())
		}
		if table.Len() == 0 {
			fmt.Printf("No bindings in %s\n", app.hwidSource())
			return nil
		}
		t := cli.NewTable("NAME", "HW_ID")
		for _, b := range table.Bindings() {
			t.Row(b.Name, b.Fingerprint)
		}
		return t.Flush()
	},
}

var hwidGetCmd = &cobra.Command{
	Use:   "get <name|hw-id>",
	Short: "Show the binding for a logical name or hardware address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		b, ok := table.LookupName(args[0])
		if !ok {
			b, ok = table.Lookup(args[0])
		}
		if !ok {
			return fmt.Errorf("%w: no binding for %s", util.ErrNotFound, args[0])
		}
		if app.jsonOutput {
			return printJSON(os.Stdout, b)
		}
		fmt.Printf("%s %s\n", b.Name, b.Fingerprint)
		return nil
	},
}

var hwidImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load bindings from a file into Redis",
	Long: `Validate a YAML or TOML table file and write every binding to Redis in
one transaction. Requires --redis or --ssh-host.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := hwid.LoadFile(args[0])
		if err != nil {
			return err
		}
		src := app.hwidSource()
		err = src.WithStore(cmd.Context(), func(store *hwid.RedisStore) error {
			return store.SaveTable(cmd.Context(), table)
		})
		if err != nil {
			return fmt.Errorf("importing into %s: %w", src, err)
		}
		fmt.Printf("Imported %d bindings into %s\n", table.Len(), src)
		return nil
	},
}

var hwidExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the current table to a YAML or TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		if err := hwid.WriteFile(args[0], table); err != nil {
			return err
		}
		fmt.Printf("Exported %d bindings to %s\n", table.Len(), args[0])
		return nil
	},
}

func loadTable(ctx context.Context) (*hwid.Table, error) {
	src := app.hwidSource()
	util.Debugf("loading hardware-ID table from %s", src)
	table, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading hardware-ID table: %w", err)
	}
	return table, nil
}

func init() {
	hwidListCmd.Flags().BoolVar(&app.jsonOutput, "json", false, "JSON output")
	hwidGetCmd.Flags().BoolVar(&app.jsonOutput, "json", false, "JSON output")

	hwidCmd.AddCommand(hwidListCmd)
	hwidCmd.AddCommand(hwidGetCmd)
	hwidCmd.AddCommand(hwidImportCmd)
	hwidCmd.AddCommand(hwidExportCmd)
}
