package metrics

import (
	"githubActivityFeed/internal/eventrow"
	"githubActivityFeed/internal/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Capturer logs render failures and counts them per event type.
type Capturer struct{}

func (Capturer) CaptureException(err error) {
	eventType, eventID := "unknown", ""
	var re *eventrow.RenderError
	if errors.As(err, &re) {
		eventType, eventID = re.Type, re.EventID
	}
	logger.Lg.Error("render_failed",
		zap.String("event_type", eventType),
		zap.String("event_id", eventID),
		zap.Error(err),
	)
	RenderFailures.WithLabelValues(eventType).Inc()
}
