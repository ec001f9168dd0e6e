package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/almanac/pkg/pipeline"
	"github.com/matzehuels/almanac/pkg/render"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Render the category graph of an almanac",
		Long: `Graph draws one node per category and one edge per map section. The path
from "seed" to "location" is drawn bold; sections off that path are dashed.

Formats: dot (default), svg, png. PNG output requires --output.`,
		Example: `  almanac graph input.txt | dot -Tpdf > graph.pdf
  almanac graph --format svg -o graph.svg input.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := render.ValidateFormat(format); err != nil {
				return err
			}
			if format == render.FormatPNG && output == "" {
				return fmt.Errorf("png output is binary; use --output")
			}
			input, _, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(cmd.Context()))
			out, err := pipeline.Graph(cmd.Context(), input, pipeline.RenderOptions{
				Format:   format,
				Detailed: detailed,
			})
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			prog.done("rendered category graph", "format", format, "bytes", len(out))
			printFile(output)
			if format == render.FormatDOT {
				printNextStep("Render with Graphviz", "dot -Tsvg "+output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", render.FormatDOT, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list every mapping entry on the edges")

	return cmd
}
