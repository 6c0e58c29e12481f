package cli

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/willibrandon/mtlog/core"

	"github.com/Fepozopo/vtrace/pkg/vtrace"
)

// Run is the one-shot batch entry point cmd/vtrace/main.go calls: load
// config, decode the input image, vectorize it, write the SVG. With
// -watch it instead loops, re-vectorizing the same decoded buffer after
// each Enter keypress so a user can retune cfg-affecting VTRACE_* env vars
// between runs. One BinaryImageCache is reused across iterations, so the
// per-cluster binary images are not rebuilt when a cluster's pixels are
// unchanged; keying, clustering and merging still run on every iteration.
func Run(args []string) int {
	cfg, opts, err := LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vtrace: %v\n", err)
		return 2
	}
	if opts.Update {
		if err := CheckForUpdate(); err != nil {
			fmt.Fprintf(os.Stderr, "vtrace: %v\n", err)
			return 1
		}
		return 0
	}
	if opts.InputPath == "" {
		fmt.Fprintln(os.Stderr, "vtrace: usage: vtrace [flags] <input-image>")
		return 2
	}

	logger := NewLogger(opts.LogLevel)
	runID := RunID()

	pixels, w, h, err := Decode(opts.InputPath)
	if err != nil {
		logger.Error("run {RunID} failed to decode {Path}: {Error}", runID, opts.InputPath, err)
		return 1
	}

	if opts.Watch {
		cfg.Cache = vtrace.NewBinaryImageCache()
		return runWatch(logger, runID, pixels, w, h, cfg, opts)
	}

	return runOnce(logger, runID, pixels, w, h, cfg, opts.OutputPath)
}

func runOnce(logger core.Logger, runID string, pixels []byte, w, h int, cfg vtrace.Config, outPath string) int {
	start := time.Now()
	stats, svg := vtrace.VtraceWithStats(append([]byte(nil), pixels...), w, h, cfg)
	LogRun(logger, runID, w, h, stats, len(svg), time.Since(start))

	if err := os.WriteFile(outPath, []byte(svg), 0o644); err != nil {
		logger.Error("run {RunID} failed to write {Path}: {Error}", runID, outPath, err)
		return 1
	}
	logger.Information("run {RunID} wrote {Path}", runID, outPath)
	return 0
}

func runWatch(logger core.Logger, runID string, pixels []byte, w, h int, cfg vtrace.Config, opts Options) int {
	reader := bufio.NewReader(os.Stdin)
	logger.Information("run {RunID} watch mode: edit {EnvFile} then press Enter to re-vectorize, Ctrl-D to stop", runID, opts.EnvFile)

	for {
		if code := runOnce(logger, runID, pixels, w, h, cfg, opts.OutputPath); code != 0 {
			return code
		}
		if _, err := reader.ReadString('\n'); err != nil {
			return 0
		}
		if err := ReloadEnvFile(&cfg, &opts); err != nil {
			logger.Error("run {RunID} failed to reload {EnvFile}: {Error}", runID, opts.EnvFile, err)
		}
	}
}
