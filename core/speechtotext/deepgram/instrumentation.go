package deepgram

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/memorylane/core/speechtotext/deepgram"

var logger = otelslog.NewLogger(scopeName)
