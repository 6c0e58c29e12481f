package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Fepozopo/vtrace/pkg/vtrace"
)

// Version is the module's release version, overwritten at build time via
// -ldflags "-X github.com/Fepozopo/vtrace/pkg/cli.Version=...".
var Version = "dev"

// Options holds everything LoadConfig resolves beyond the bare
// vtrace.Config: the input/output paths and the env file to load.
type Options struct {
	InputPath  string
	OutputPath string
	EnvFile    string
	LogLevel   string
	Watch      bool
	Update     bool
}

// LoadConfig builds a vtrace.Config by layering, in increasing precedence:
// compiled-in defaults, an optional .env file, VTRACE_* environment
// variables, and CLI flags. Each layer only overrides what the one before
// it actually set.
func LoadConfig(args []string) (vtrace.Config, Options, error) {
	cfg := vtrace.DefaultConfig()
	opts := Options{LogLevel: "info"}

	fs := flag.NewFlagSet("vtrace", flag.ContinueOnError)
	envFile := fs.String("env", os.Getenv("VTRACE_ENV_FILE"), "path to a .env file of VTRACE_* overrides")
	out := fs.String("o", "", "output SVG path (default: input path with .svg extension)")
	mode := fs.String("mode", "", "output mode: spline or polygon")
	colorMode := fs.String("colormode", "", "color mode: color or binary")
	hierarchical := fs.String("hierarchical", "", "layering: stacked or cutout")
	filterSpeckle := fs.Int("filterspeckle", -1, "minimum cluster side length before a region is emitted")
	colorPrecision := fs.Int("colorprecision", -1, "per-channel quantization bit count")
	layerDifference := fs.Int("layerdifference", -1, "minimum color distance between adjacent layers")
	cornerThreshold := fs.Float64("cornerthreshold", -1, "turning angle in degrees at or above which a vertex is treated as a hard corner")
	lengthThreshold := fs.Float64("lengththreshold", -1, "pixel length at or below which an edge is not subdivided by smoothing")
	spliceThreshold := fs.Float64("splicethreshold", -1, "degrees above which a spline segment is split")
	maxIterations := fs.Int("maxiterations", -1, "smoothing subdivision iteration cap")
	pathPrecision := fs.Int("pathprecision", -1, "decimal places in emitted path coordinates")
	logLevel := fs.String("loglevel", "", "debug, info, warn, or error")
	watch := fs.Bool("watch", false, "re-run on each Enter keypress, reusing a BinaryImageCache across iterations")
	update := fs.Bool("update", false, "check github.com/Fepozopo/vtrace for a newer release and offer to install it, then exit")

	if err := fs.Parse(args); err != nil {
		return cfg, opts, fmt.Errorf("parse flags: %w", err)
	}

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			return cfg, opts, fmt.Errorf("load env file %s: %w", *envFile, err)
		}
		opts.EnvFile = *envFile
	}

	applyEnv(&cfg, &opts)

	if rest := fs.Args(); len(rest) > 0 {
		opts.InputPath = rest[0]
	}
	if *out != "" {
		opts.OutputPath = *out
	}
	if *mode != "" {
		cfg.Mode = vtrace.Mode(*mode)
	}
	if *colorMode != "" {
		cfg.ColorMode = vtrace.ColorMode(*colorMode)
	}
	if *hierarchical != "" {
		cfg.Hierarchical = vtrace.Hierarchical(*hierarchical)
	}
	if *filterSpeckle >= 0 {
		cfg.FilterSpeckle = *filterSpeckle
	}
	if *colorPrecision >= 0 {
		cfg.ColorPrecision = *colorPrecision
	}
	if *layerDifference >= 0 {
		cfg.LayerDifference = *layerDifference
	}
	if *cornerThreshold >= 0 {
		cfg.CornerThreshold = *cornerThreshold
	}
	if *lengthThreshold >= 0 {
		cfg.LengthThreshold = *lengthThreshold
	}
	if *spliceThreshold >= 0 {
		cfg.SpliceThreshold = *spliceThreshold
	}
	if *maxIterations >= 0 {
		cfg.MaxIterations = *maxIterations
	}
	if *pathPrecision >= 0 {
		cfg.PathPrecision = *pathPrecision
	}
	if *logLevel != "" {
		opts.LogLevel = *logLevel
	}
	opts.Watch = *watch
	opts.Update = *update

	if opts.OutputPath == "" && opts.InputPath != "" {
		opts.OutputPath = defaultOutputPath(opts.InputPath)
	}

	return cfg, opts, nil
}

// ReloadEnvFile re-reads opts.EnvFile (if set) and re-applies VTRACE_*
// overrides onto cfg, letting -watch mode pick up edits made between
// iterations without restarting the process.
func ReloadEnvFile(cfg *vtrace.Config, opts *Options) error {
	if opts.EnvFile == "" {
		return nil
	}
	if err := godotenv.Overload(opts.EnvFile); err != nil {
		return fmt.Errorf("reload env file %s: %w", opts.EnvFile, err)
	}
	applyEnv(cfg, opts)
	return nil
}

// applyEnv overlays every recognized VTRACE_* environment variable onto cfg
// and opts. Unset or unparsable variables are left at their current value;
// this layer is purely additive over the defaults already in cfg.
func applyEnv(cfg *vtrace.Config, opts *Options) {
	if v, ok := os.LookupEnv("VTRACE_MODE"); ok {
		cfg.Mode = vtrace.Mode(v)
	}
	if v, ok := os.LookupEnv("VTRACE_COLOR_MODE"); ok {
		cfg.ColorMode = vtrace.ColorMode(v)
	}
	if v, ok := os.LookupEnv("VTRACE_HIERARCHICAL"); ok {
		cfg.Hierarchical = vtrace.Hierarchical(v)
	}
	if v, ok := envInt("VTRACE_FILTER_SPECKLE"); ok {
		cfg.FilterSpeckle = v
	}
	if v, ok := envInt("VTRACE_COLOR_PRECISION"); ok {
		cfg.ColorPrecision = v
	}
	if v, ok := envInt("VTRACE_LAYER_DIFFERENCE"); ok {
		cfg.LayerDifference = v
	}
	if v, ok := envFloat("VTRACE_CORNER_THRESHOLD"); ok {
		cfg.CornerThreshold = v
	}
	if v, ok := envFloat("VTRACE_LENGTH_THRESHOLD"); ok {
		cfg.LengthThreshold = v
	}
	if v, ok := envFloat("VTRACE_SPLICE_THRESHOLD"); ok {
		cfg.SpliceThreshold = v
	}
	if v, ok := envInt("VTRACE_MAX_ITERATIONS"); ok {
		cfg.MaxIterations = v
	}
	if v, ok := envInt("VTRACE_PATH_PRECISION"); ok {
		cfg.PathPrecision = v
	}
	if v, ok := os.LookupEnv("VTRACE_LOG_LEVEL"); ok {
		opts.LogLevel = v
	}
}

func envInt(name string) (int, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(name string) (float64, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func defaultOutputPath(input string) string {
	if dot := strings.LastIndexByte(input, '.'); dot > strings.LastIndexByte(input, '/') {
		return input[:dot] + ".svg"
	}
	return input + ".svg"
}
