package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/chart"
	"github.com/SE01-Industry-Based-Group-Project2025/tourism-project-sub001/internal/config"
)

// stdinPath is the input path that reads the series from stdin.
const stdinPath = "-"

// renderOptions holds the flag values of the render command.
type renderOptions struct {
	Kind        string
	CategoryKey string
	ValueKey    string
	Output      string
	Force       bool

	Width     float64
	Height    float64
	Padding   float64
	Thickness float64
	Palette   []string
	NoGrid    bool
	NoLegend  bool
}

// chartConfig builds a chart.Config from the display flags.
// Zero values fall back to the chart defaults.
func (o renderOptions) chartConfig() chart.Config {
	cfg := chart.DefaultConfig()
	if o.Width > 0 {
		cfg.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Height = o.Height
	}
	if o.Padding > 0 {
		cfg.Padding = o.Padding
	}
	if o.Thickness > 0 {
		cfg.Thickness = o.Thickness
	}
	if len(o.Palette) > 0 {
		cfg.Palette = o.Palette
	}
	cfg.ShowGrid = !o.NoGrid
	cfg.ShowLegend = !o.NoLegend
	return cfg
}

// RenderCmd creates the render command.
// The env parameter provides injectable dependencies for testing.
func RenderCmd(env *Env) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <series-file>",
		Short: "Render a series file as an SVG chart",
		Long: `Render a series file as an SVG chart.

The series file is a list of records, in JSON (.json) or YAML (.yaml, .yml).
Use "-" to read the series from stdin. Each record supplies a category label
and a numeric value; when --category or --value is omitted the first string
field and the first numeric field are used.

Empty series render a "No data available" placeholder instead of failing.`,
		Example: `  tourviz render revenue.json --kind line
  tourviz render categories.yaml --kind donut --category category --value count
  tourviz render bookings.json --kind bar -o bookings.svg --width 640 --height 320
  cat revenue.json | tourviz render - -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(env, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", string(chart.KindLine), "Chart kind: line, bar, donut")
	cmd.Flags().StringVar(&opts.CategoryKey, "category", "", "Record field holding the category label")
	cmd.Flags().StringVar(&opts.ValueKey, "value", "", "Record field holding the numeric value")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", `Output file path, "-" for stdout (default: <input>.svg)`)
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite the output file if it exists")
	cmd.Flags().Float64Var(&opts.Width, "width", chart.DefaultWidth, "Chart width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", chart.DefaultHeight, "Chart height in pixels")
	cmd.Flags().Float64Var(&opts.Padding, "padding", chart.DefaultPadding, "Inner padding in pixels")
	cmd.Flags().Float64Var(&opts.Thickness, "thickness", chart.DefaultThickness, "Donut ring thickness in pixels")
	cmd.Flags().StringSliceVar(&opts.Palette, "palette", nil, "Comma-separated colors (default: built-in palette)")
	cmd.Flags().BoolVar(&opts.NoGrid, "no-grid", false, "Hide grid lines")
	cmd.Flags().BoolVar(&opts.NoLegend, "no-legend", false, "Hide the donut legend")

	return cmd
}

// runRender reads a series file, renders it and writes the SVG.
// Validation order: kind -> input file -> records -> output
func runRender(env *Env, inputPath string, opts renderOptions) error {
	kind, err := chart.ParseKind(opts.Kind)
	if err != nil {
		return err
	}

	records, err := readSeriesFile(env, inputPath)
	if err != nil {
		return err
	}

	categoryKey, valueKey := opts.CategoryKey, opts.ValueKey
	if categoryKey == "" || valueKey == "" {
		inferredCategory, inferredValue := inferKeys(records)
		if categoryKey == "" {
			categoryKey = inferredCategory
		}
		if valueKey == "" {
			valueKey = inferredValue
		}
	}

	series := chart.FromRecords(records, categoryKey, valueKey)
	scene := chart.Render(kind, series, opts.chartConfig())
	svg := chart.SVG(scene)

	if opts.Output == stdinPath {
		_, err := env.Stdout.Write(svg)
		return err
	}

	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}
	output := config.ResolveOutputPath(opts.Output, config.ExpandPath(cfg.OutputDir), defaultRenderOutput(env, inputPath, kind))
	warnNonSVGExtension(env.Stderr, output)

	if opts.Force {
		err = replaceFile(output, svg)
	} else {
		err = writeFileAtomic(output, svg)
	}
	if err != nil {
		return err
	}

	if scene.Empty() {
		fmt.Fprintf(env.Stderr, "Rendered empty %s chart (no data) to %s\n", kind, output)
	} else {
		fmt.Fprintf(env.Stderr, "Rendered %s chart (%d points) to %s\n", kind, len(series), output)
	}
	return nil
}

// defaultRenderOutput derives the output file name from the input.
// Example: "revenue.json" -> "revenue.svg"; stdin -> "chart_line_20260126_143052.svg"
func defaultRenderOutput(env *Env, inputPath string, kind chart.Kind) string {
	if inputPath == stdinPath {
		return fmt.Sprintf("chart_%s_%s.svg", kind, env.Now().Format("20060102_150405"))
	}
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".svg"
}

// readSeriesFile reads and decodes the records of a series file.
func readSeriesFile(env *Env, path string) ([]map[string]any, error) {
	if path == stdinPath {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return nil, fmt.Errorf("cannot read stdin: %w", err)
		}
		return decodeSeries(data, detectFormat(data))
	}

	format := strings.ToLower(filepath.Ext(path))
	switch format {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("unsupported series format %q (supported: json, yaml, yml): %w", format, ErrUnsupportedFormat)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-specified input file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("cannot read input file: %w", err)
	}
	return decodeSeries(data, format)
}

// detectFormat guesses the format of stdin input: a leading '[' is JSON,
// anything else is YAML.
func detectFormat(data []byte) string {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return ".json"
	}
	return ".yaml"
}

// decodeSeries decodes data as a list of records. Blank input is an empty
// series, not an error.
func decodeSeries(data []byte, format string) ([]map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []map[string]any
	var err error
	if format == ".json" {
		err = json.Unmarshal(data, &records)
	} else {
		err = yaml.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: expected a list of records: %w", ErrInvalidSeries, err)
	}
	return records, nil
}

// inferKeys picks the category and value fields from the first record:
// the first string field and the first numeric field, in key order.
func inferKeys(records []map[string]any) (categoryKey, valueKey string) {
	if len(records) == 0 {
		return "", ""
	}
	first := records[0]
	keys := make([]string, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		switch first[k].(type) {
		case string:
			if categoryKey == "" {
				categoryKey = k
			}
		case float64, int, int64, uint64:
			if valueKey == "" {
				valueKey = k
			}
		}
	}
	return categoryKey, valueKey
}
