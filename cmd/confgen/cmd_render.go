package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netforge-os/confgen/pkg/audit"
	"github.com/netforge-os/confgen/pkg/frr"
	"github.com/netforge-os/confgen/pkg/util"
)

var (
	renderConfig string
	renderOutput string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render static routes as FRR statements",
	Long: `Render the route, route6 and table sections of a configuration document
as FRR static-route statements.

Output goes to stdout unless -o (or the output_path setting) names a file.
Files are replaced atomically; on any structure error nothing is written.

Examples:
  confgen render -c config.yaml
  confgen render -c config.yaml -o /run/frr/static.conf`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output := renderOutput
		if output == "" {
			output = app.settings.OutputPath
		}
		return runRender(renderConfig, output)
	},
}

func runRender(source, output string) error {
	start := time.Now()
	event := audit.NewEvent(currentUser(), audit.OpRender)

	stmts, err := render(source, output)
	event.WithRender(source, output, len(stmts)).WithDuration(time.Since(start))
	if err != nil {
		event.WithError(err)
	} else {
		event.WithSuccess()
	}
	if output != "" {
		recordAudit(app.auditPath, event)
	}
	return err
}

func render(source, output string) ([]frr.Statement, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	stmts, err := frr.Compile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	text := frr.Text(stmts)

	if output == "" {
		fmt.Print(text)
		return stmts, nil
	}
	if err := writeFileAtomic(output, []byte(text), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", output, err)
	}
	util.WithField("output", output).Infof("wrote %d statements", len(stmts))
	return stmts, nil
}

func init() {
	renderCmd.Flags().StringVarP(&renderConfig, "config", "c", "", "Configuration document (YAML or JSON)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: stdout)")
	renderCmd.MarkFlagRequired("config")
}
