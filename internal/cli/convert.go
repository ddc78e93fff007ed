package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tcglabels/pkg/io"
)

// convertCommand creates the convert command, which rewrites a card file in
// another format (for example a Dex CSV export as editable TOML).
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a card file to JSON or TOML",
		Long: `Convert a card file to JSON or TOML. The formats are chosen by file extension.

Cards without a unique id get one, so converted files keep stable ids across edits.`,
		Example: `  tcglabels convert collection.csv collection.toml`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), args[0], args[1])
		},
	}
}

func runConvert(ctx context.Context, input, output string) error {
	logger := loggerFromContext(ctx)

	cards, err := io.ImportFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d cards from %s", len(cards), input)

	if err := io.ExportFile(cards, output); err != nil {
		return err
	}
	printSuccess("Converted %d cards", len(cards))
	printDetail("From %s", input)
	printFile(output)
	return nil
}
