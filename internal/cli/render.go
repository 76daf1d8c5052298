package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/ogppu/layout"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	card        cardOpts
	output      string // output path, "-" for stdout; default <title>.<ext>
	debugLayout string // write the layout plan as JSON
	dataURI     bool   // print a data URI instead of writing a file
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts
	cmd := &cobra.Command{
		Use:   "render TITLE...",
		Short: "Render a share card for a title",
		Long: `Render a share card for a title.

The built-in Go fonts have no CJK glyphs. Pass --font with a CJK font
(e.g. Noto Sans JP) for Japanese or Chinese titles.`,
		Example: `  ogppu render "Hello World"
  ogppu render "週末の料理" --font ./NotoSansJP.ttf --background bg.jpg -o card.png
  ogppu render "Release notes" --script python3 --script-arg bg.py --script-arg '${title}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), strings.Join(args, " "), &opts, cmd.OutOrStdout())
		},
	}
	opts.card.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file, '-' for stdout (default <title>.<ext>)")
	cmd.Flags().StringVar(&opts.debugLayout, "debug-layout", "", "write the layout plan as JSON to this file")
	cmd.Flags().BoolVar(&opts.dataURI, "data-uri", false, "print the image as a data URI instead of writing a file")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, title string, opts *renderOpts, stdout io.Writer) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	gen, err := opts.card.newGenerator(logger)
	if err != nil {
		return err
	}
	res, err := gen.Generate(ctx, title)
	if err != nil {
		return err
	}

	if opts.debugLayout != "" {
		if err := layout.WriteDebugJSON(res.Image.Plan, opts.debugLayout); err != nil {
			return fmt.Errorf("write layout: %w", err)
		}
		logger.Debug("layout written", "path", opts.debugLayout)
	}

	switch {
	case opts.dataURI:
		_, err = fmt.Fprintln(stdout, res.Image.DataURI())
		return err
	case opts.output == "-":
		_, err = stdout.Write(res.Image.Data)
		return err
	}

	path := opts.output
	if path == "" {
		path = res.Filename
	}
	if err := os.WriteFile(path, res.Image.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Rendered %s (%d lines, %dx%d)", path, len(res.Image.Plan.Lines), res.Image.Width, res.Image.Height))
	return nil
}
