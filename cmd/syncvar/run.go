package main

import (
	"fmt"

	"github.com/aretw0/syncvar"
	"github.com/aretw0/syncvar/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Apply a mutation script and print the emitted changes",
	Long: `Binds the script's initial value under its name, applies every step and
prints the changes that were recorded. Rejected steps are reported but do not
stop the script.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		rt, err := cli.NewRuntime(cmd.Context(), runtimeOptions())
		if err != nil {
			return err
		}
		defer rt.Close()

		report, err := runScript(cmd, rt, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch output {
		case "json":
			return cli.RenderJSON(out, report)
		case "table":
			return cli.RenderTable(out, report, cli.IsTerminal(out))
		default:
			return fmt.Errorf("unknown output format %q", output)
		}
	},
}

func runScript(cmd *cobra.Command, rt *cli.Runtime, path string) (cli.Report, error) {
	script, err := syncvar.LoadScript(path)
	if err != nil {
		return cli.Report{}, err
	}

	if err := rt.Journal.Clear(cmd.Context(), script.Name); err != nil {
		return cli.Report{}, fmt.Errorf("failed to reset journal: %w", err)
	}

	root, results, err := script.Run(rt.Binder)
	if err != nil {
		return cli.Report{}, fmt.Errorf("failed to bind %s: %w", script.Name, err)
	}

	records, err := rt.Journal.List(cmd.Context(), script.Name)
	if err != nil {
		return cli.Report{}, fmt.Errorf("failed to read journal: %w", err)
	}
	return cli.NewReport(script.Name, root, records, results), nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("output", "o", "table", "output format: table or json")
}
