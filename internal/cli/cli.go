// Package cli implements the ogppu command-line interface.
//
// # Commands
//
//   - render: render a card for a title into an image file
//   - serve: expose card generation over HTTP
//   - template: print the default card template
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried in the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/ogppu/assets"
	"github.com/ByLCY/ogppu/buildinfo"
	"github.com/ByLCY/ogppu/fonts"
	"github.com/ByLCY/ogppu/generator"
	"github.com/ByLCY/ogppu/layout"
	"github.com/ByLCY/ogppu/renderer"
	canvasrenderer "github.com/ByLCY/ogppu/renderer/canvas"
	ggrenderer "github.com/ByLCY/ogppu/renderer/gg"
)

const appName = "ogppu"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Backend names accepted by --backend.
const (
	backendCanvas = "canvas"
	backendGG     = "gg"
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           appName,
		Short:         "ogppu renders OGP share cards from a title",
		Long:          `ogppu wraps a title over a background image, stamps the date in the corner and writes a PNG or JPEG ready to use as an Open Graph image.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.templateCommand())
	return root
}

// cardOpts are the flags shared by render and serve.
type cardOpts struct {
	background string
	font       string
	script     string
	scriptArgs []string
	template   string
	backend    string
	format     string
}

func (o *cardOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.background, "background", "", "background image (png, jpeg, gif, webp); default plain white")
	f.StringVar(&o.font, "font", "", "font file or built-in font ("+fonts.EmbedPrefix+strings.Join(fonts.Names(), ", "+fonts.EmbedPrefix)+")")
	f.StringVar(&o.script, "script", "", "program that writes a background for ${title} to stdout")
	f.StringArrayVar(&o.scriptArgs, "script-arg", nil, "argument for --script (repeatable, ${title} is substituted)")
	f.StringVar(&o.template, "template", "", "card template file (see 'ogppu template')")
	f.StringVar(&o.backend, "backend", backendCanvas, "drawing backend: canvas (default), gg")
	f.StringVar(&o.format, "format", "", "output format: png, jpeg (overrides the template)")
}

// loadConfig reads the card template and applies flag overrides.
func (o *cardOpts) loadConfig() (layout.Config, error) {
	cfg := layout.DefaultConfig()
	if o.template != "" {
		f, err := os.Open(o.template)
		if err != nil {
			return layout.Config{}, fmt.Errorf("open template: %w", err)
		}
		defer f.Close()
		if cfg, err = layout.LoadConfig(f); err != nil {
			return layout.Config{}, err
		}
	}
	if o.format != "" {
		format, err := renderer.ParseFormat(o.format)
		if err != nil {
			return layout.Config{}, err
		}
		cfg.Format = string(format)
	}
	return cfg, nil
}

func newBackend(name string) (renderer.Backend, error) {
	switch strings.ToLower(name) {
	case "", backendCanvas:
		return canvasrenderer.New(), nil
	case backendGG:
		return ggrenderer.New(), nil
	default:
		return nil, fmt.Errorf("invalid backend: %s (must be 'canvas' or 'gg')", name)
	}
}

func (o *cardOpts) provider(cfg layout.Config, logger *log.Logger) (assets.Provider, error) {
	if o.script == "" {
		return assets.LoadStatic(o.background, o.font, cfg.Width, cfg.Height)
	}
	if o.background != "" {
		return nil, fmt.Errorf("--background and --script are mutually exclusive")
	}
	font := fonts.Default()
	if o.font != "" {
		data, err := fonts.Load(o.font)
		if err != nil {
			return nil, err
		}
		font = data
	}
	return &assets.Script{Command: o.script, Args: o.scriptArgs, Font: font, Logger: logger}, nil
}

// newGenerator wires template, backend and asset provider together.
func (o *cardOpts) newGenerator(logger *log.Logger) (*generator.Generator, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	backend, err := newBackend(o.backend)
	if err != nil {
		return nil, err
	}
	provider, err := o.provider(cfg, logger)
	if err != nil {
		return nil, err
	}
	composer := &renderer.Composer{Backend: backend, Config: cfg, Logger: logger}
	logger.Debug("generator ready", "backend", backend.Name(), "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), "format", cfg.Format)
	return generator.New(provider, composer, logger), nil
}
