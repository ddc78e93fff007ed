package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/tcglabels/pkg/errors"
	"github.com/matzehuels/tcglabels/pkg/io"
	"github.com/matzehuels/tcglabels/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // PDF file or PNG directory (single input only)
	configPath string // explicit config file
	noCache    bool   // disable the per-run artifact cache
	pipeline   pipeline.Options
}

// renderCommand creates the render command.
//
// Default settings:
//   - size: 1.5x0.5 (450x150 pixels)
//   - font: sans
//   - format: pdf, written to labels_<uuid>.pdf
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <cards-file>...",
		Short: "Render card labels to a PDF or PNG images",
		Long: `Render one label per card and assemble them into a PDF (one page per label)
or a directory of PNG images.

Card files may be Dex app CSV exports (.csv), JSON arrays (.json) or TOML
documents with [[card]] tables (.toml).`,
		Example: `  tcglabels render collection.csv
  tcglabels render cards.json --size 2.0x1.0 --font sans-bold -o binder.pdf
  tcglabels render cards.toml --format png -o labels/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args, &opts, cmd.Flags())
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PDF file or PNG directory (default labels_<uuid>)")
	cmd.Flags().StringVarP(&opts.pipeline.Format, "format", "f", "", "output format: pdf (default), png")
	cmd.Flags().StringVarP(&opts.pipeline.Size, "size", "s", "", "label size preset in inches (see 'tcglabels sizes')")
	cmd.Flags().IntVar(&opts.pipeline.Width, "width", 0, "label width in pixels (overrides --size)")
	cmd.Flags().IntVar(&opts.pipeline.Height, "height", 0, "label height in pixels (overrides --size)")
	cmd.Flags().StringVar(&opts.pipeline.Font, "font", "", "font id (see 'tcglabels fonts')")
	cmd.Flags().IntVarP(&opts.pipeline.Workers, "workers", "w", 0, "render workers (default: available CPUs)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/tcglabels/config.toml)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "render every input even if an identical one was rendered")

	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatPDF, pipeline.FormatPNG}, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("size", cobra.FixedCompletions(
		pipeline.PresetNames(), cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("font", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		ids := c.Fonts.IDs()
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = string(id)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runRender renders every input file with the same options.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts *renderOpts, flags *pflag.FlagSet) error {
	logger := loggerFromContext(ctx)

	if opts.output != "" && len(inputs) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--output needs a single input file, got %d", len(inputs))
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	cfg.apply(&opts.pipeline, flags)
	opts.pipeline.Logger = logger

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	for _, input := range inputs {
		if err := c.renderFile(ctx, runner, input, opts); err != nil {
			return err
		}
	}
	return nil
}

// renderFile imports one card file, renders it and writes the output.
func (c *CLI) renderFile(ctx context.Context, runner *pipeline.Runner, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cards, err := io.ImportFile(input)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d cards from %s", len(cards), input)

	popts := opts.pipeline
	format := strings.ToLower(popts.Format)
	if format == "" {
		format = pipeline.FormatPDF
	}
	output := opts.output
	if output == "" {
		output = defaultOutput(format)
	}
	if err := errors.ValidatePath(output); err != nil {
		return err
	}
	if format == pipeline.FormatPNG {
		popts.Output = output
	}

	spinner := newSpinnerWithContext(ctx, os.Stderr, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()
	result, err := runner.Execute(ctx, cards, popts)
	if err != nil {
		spinner.StopWithError("Failed to render " + filepath.Base(input))
		return err
	}
	spinner.Stop()

	if format == pipeline.FormatPNG {
		prog.done("Rendered "+filepath.Base(input), "files", len(result.Files))
		printSuccess("Wrote %d label images", len(result.Files))
		printStats(result.Stats.Cards, len(result.Files), false)
		printKeyValue("Label", result.Spec.String())
		printFile(output)
		return nil
	}

	if result.Pages == 0 {
		printWarning("No cards in %s, nothing written", input)
		return nil
	}
	if err := io.WriteBytesAtomic(output, result.Document); err != nil {
		return err
	}
	prog.done("Rendered "+filepath.Base(input), "pages", result.Pages, "cached", result.CacheHit)
	printSuccess("Generated %d labels", result.Pages)
	printStats(result.Stats.Cards, result.Pages, result.CacheHit)
	if result.CacheHit {
		printInfo("Reused the document of an identical input")
	}
	printKeyValue("Label", result.Spec.String())
	printFile(output)
	return nil
}

// defaultOutput names the output after a fresh UUID so repeated runs never
// overwrite each other.
func defaultOutput(format string) string {
	name := "labels_" + uuid.NewString()
	if format == pipeline.FormatPDF {
		name += ".pdf"
	}
	return name
}
