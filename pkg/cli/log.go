package cli

import (
	"time"

	"github.com/google/uuid"
	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"

	"github.com/Fepozopo/vtrace/pkg/vtrace"
)

// NewLogger builds a console-sinked mtlog logger at the given level, in the
// same style as willibrandon-aseprite-mcp's createLogger: one shared logger
// for the whole run, console output, level set from CLI/env/-loglevel.
func NewLogger(level string) core.Logger {
	var opts []mtlog.Option
	switch level {
	case "debug":
		opts = append(opts, mtlog.WithMinimumLevel(core.DebugLevel))
	case "warn":
		opts = append(opts, mtlog.WithMinimumLevel(core.WarningLevel))
	case "error":
		opts = append(opts, mtlog.WithMinimumLevel(core.ErrorLevel))
	default:
		opts = append(opts, mtlog.WithMinimumLevel(core.InformationLevel))
	}
	return mtlog.New(opts...)
}

// RunID is a per-invocation correlation id, attached to every structured
// log line emitted during that run so a batch of parallel vtrace calls can
// be told apart in aggregated log output.
func RunID() string {
	return uuid.NewString()
}

// stage wraps one pipeline phase with start/elapsed logging, the structured
// analogue of spec.md section 8's testable properties expressed as data
// instead of only being checkable after the fact.
func stage(logger core.Logger, runID, name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	logger.Information("run {RunID} stage {Stage} completed in {ElapsedMS}ms", runID, name, elapsed.Milliseconds())
	return elapsed
}

// LogRun records one structured summary line per Vtrace invocation: input
// dimensions, keying decision, cluster/emission counts, and output size —
// the numbers VtraceWithStats exposes as vtrace.Stats.
func LogRun(logger core.Logger, runID string, w, h int, stats vtrace.Stats, svgBytes int, elapsed time.Duration) {
	logger.Information(
		"run {RunID} vtrace {Width}x{Height} keyed={UsedKeyColor} clusters={ClusterCount} emitted={EmittedCount} svgBytes={SVGBytes} elapsedMS={ElapsedMS}",
		runID, w, h, stats.UsedKeyColor, stats.ClusterCount, stats.EmittedCount, svgBytes, elapsed.Milliseconds(),
	)
}
