// File: cmd/render.go
package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/tinybrowser/internal/config"
	"github.com/xkilldash9x/tinybrowser/internal/engine"
	"github.com/xkilldash9x/tinybrowser/internal/observability"
	"github.com/xkilldash9x/tinybrowser/internal/reporting"
)

// outputFlags are shared by render and batch and override the config file.
type outputFlags struct {
	cssPaths []string
	width    float64
	height   float64
	format   string
	output   string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.cssPaths, "css", nil, "author stylesheet file, may be repeated")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width in px (overrides layout.viewport_width)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height in px (overrides layout.viewport_height)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: text, json or xml (overrides render.format)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (overrides render.output, default stdout)")
}

// apply copies every flag the user set onto cfg and revalidates it.
func (f *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	layoutCfg := cfg.Layout()
	width, height := layoutCfg.ViewportWidth, layoutCfg.ViewportHeight
	if cmd.Flags().Changed("width") {
		width = f.width
	}
	if cmd.Flags().Changed("height") {
		height = f.height
	}
	cfg.SetViewport(width, height)
	if cmd.Flags().Changed("format") {
		cfg.SetRenderFormat(f.format)
	}
	if cmd.Flags().Changed("output") {
		cfg.SetRenderOutput(f.output)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// readCSS loads every --css file.
func (f *outputFlags) readCSS() ([]string, error) {
	css := make([]string, 0, len(f.cssPaths))
	for _, path := range f.cssPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read stylesheet %s: %w", path, err)
		}
		css = append(css, string(data))
	}
	return css, nil
}

// newReporter writes to the command's stdout unless an output file is set.
func newReporter(cmd *cobra.Command, cfg config.Interface) (reporting.Reporter, error) {
	render := cfg.Render()
	if render.Output == "" || render.Output == "stdout" {
		return reporting.NewWithWriter(render.Format, reporting.NopCloser(cmd.OutOrStdout()))
	}
	return reporting.New(render.Format, render.Output)
}

func newRenderCmd() *cobra.Command {
	var (
		flags    outputFlags
		htmlPath string
		query    string
	)

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Lay out a single HTML document",
		Long: `Parses an HTML document, applies the user agent sheet, configured sheets,
the document's <style> elements and any --css files, then lays it out against
the viewport and writes the box tree.

With --query the geometry of the selected element is printed as JSON instead.`,
		Example: `  tinybrowser render --html page.html --css site.css --width 1024
  tinybrowser render --html - --query "//*[@id='main']" < page.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			source, html, err := readHTML(cmd, htmlPath)
			if err != nil {
				return err
			}
			css, err := flags.readCSS()
			if err != nil {
				return err
			}

			logger := observability.GetLogger().Named("render")
			renderer, err := engine.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create renderer: %w", err)
			}
			result, err := renderer.Render(ctx, engine.Job{Source: source, HTML: html, CSS: css, Query: query})
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			logger.Info("Rendered document",
				zap.String("source", source),
				zap.String("pass_id", result.Snapshot.PassID),
				zap.Int("boxes", result.Snapshot.Count()),
			)

			if result.Geometry != nil {
				out, err := json.Marshal(result.Geometry)
				if err != nil {
					return fmt.Errorf("failed to encode geometry: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			reporter, err := newReporter(cmd, cfg)
			if err != nil {
				return err
			}
			if err := reporter.Write(result.Snapshot); err != nil {
				reporter.Close()
				return fmt.Errorf("failed to write report: %w", err)
			}
			return reporter.Close()
		},
	}

	renderCmd.Flags().StringVar(&htmlPath, "html", "", "HTML file to render, - for stdin")
	renderCmd.Flags().StringVar(&query, "query", "", "XPath of an element whose geometry is printed")
	_ = renderCmd.MarkFlagRequired("html")
	flags.register(renderCmd)
	return renderCmd
}

func readHTML(cmd *cobra.Command, path string) (source, html string, err error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read html from stdin: %w", err)
		}
		return "stdin", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read html %s: %w", path, err)
	}
	return path, string(data), nil
}
