package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/memorylane/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	workflowRuns, _ = meter.Int64Counter("memorylane.workflow.runs",
		metric.WithDescription("Finished search and narration workflow runs"),
		metric.WithUnit("{run}"))
	playbackSegments, _ = meter.Int64Counter("memorylane.playback.segments",
		metric.WithDescription("Audio segments handed to the playback queue"),
		metric.WithUnit("{segment}"))
)
