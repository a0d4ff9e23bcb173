package service

import (
	"context"

	"go.uber.org/zap"
)

// ViewRecorder stores anonymous page views.
type ViewRecorder interface {
	Track(ctx context.Context, eventID string) error
}

// ViewTracker records event page views on a best-effort basis.
type ViewTracker struct {
	views ViewRecorder
	log   *zap.Logger
}

// NewViewTracker constructs a ViewTracker.
func NewViewTracker(views ViewRecorder, log *zap.Logger) *ViewTracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &ViewTracker{views: views, log: log}
}

// TrackView records one view. Failures are logged and swallowed.
func (t *ViewTracker) TrackView(ctx context.Context, eventID string) {
	if err := t.views.Track(ctx, eventID); err != nil {
		t.log.Warn("track view", zap.String("event_id", eventID), zap.Error(err))
	}
}
