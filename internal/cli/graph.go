package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathrank/pkg/pipeline"
	"github.com/matzehuels/pathrank/pkg/render"
)

// graphCommand creates the graph export command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    rankFlags
		format   string
		output   string
		noScores bool
		ropts    render.Options
	)

	cmd := &cobra.Command{
		Use:   "graph [paths.tsv | graph.json]",
		Short: "Export the ranked transition graph",
		Long: `Export the ranked transition graph.

JSON output can be fed back into 'pathrank rank' to re-rank the graph with
different options. DOT output is plain Graphviz source; SVG, PNG and PDF are
rendered through Graphviz (PNG and PDF additionally need rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.cache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			res, err := c.runRank(ctx, runner, cmd.Flags(), &flags, args[0], output != "-")
			if err != nil {
				return err
			}

			ropts.Scores = !noScores
			data, cached, err := runner.Export(ctx, res, format, ropts)
			if err != nil {
				return err
			}

			if output == "" {
				output = basePath(args[0]) + "-graph." + format
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			w := cmd.OutOrStdout()
			printSuccess(w, "Exported %s graph", format)
			printGraphSummary(w, res.Stats, cached)
			printFile(w, output)
			if format == pipeline.FormatJSON {
				printNextStep(w, "Re-rank it", fmt.Sprintf("%s rank %s --mode converge", appName, output))
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "output format: json, dot, svg, png, pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default: <input>-graph.<format>)")
	cmd.Flags().BoolVar(&ropts.EdgeLabels, "edge-labels", false, "label edges with transition probabilities")
	cmd.Flags().BoolVar(&noScores, "no-scores", false, "omit scores from node labels")
	cmd.Flags().StringVar(&ropts.RankDir, "rankdir", "LR", "Graphviz layout direction: LR, TB, RL, BT")

	return cmd
}
