package jobs

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/services"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// VideoLinkWorker backfills assessment video links. A completed application
// whose assessment has a calendar event but no video link gets the event's
// first attachment URL saved. Fire and forget per item: failures are logged
// and retried naturally on the next tick.
type VideoLinkWorker struct {
	db             *gorm.DB
	log            *logger.Logger
	assessmentRepo repos.AssessmentRepo
	statusRepo     repos.ApplicationStatusRepo
	calendar       services.CalendarService
	interval       time.Duration
}

func NewVideoLinkWorker(
	db *gorm.DB,
	baseLog *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	statusRepo repos.ApplicationStatusRepo,
	calendar services.CalendarService,
	interval time.Duration,
) *VideoLinkWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &VideoLinkWorker{
		db:             db,
		log:            baseLog.With("component", "VideoLinkWorker"),
		assessmentRepo: assessmentRepo,
		statusRepo:     statusRepo,
		calendar:       calendar,
		interval:       interval,
	}
}

func (w *VideoLinkWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

func (w *VideoLinkWorker) runOnce(ctx context.Context) {
	status, err := w.statusRepo.GetOrCreateByName(ctx, nil, types.StatusCompleted)
	if err != nil {
		w.log.Warn("Failed to resolve completed status", "error", err)
		return
	}
	assessments, err := w.assessmentRepo.ListAwaitingVideoLink(ctx, nil, status.ID)
	if err != nil {
		w.log.Warn("Failed to list assessments awaiting video link", "error", err)
		return
	}
	for _, assessment := range assessments {
		event, err := w.calendar.GetEvent(ctx, assessment.EventID)
		if err != nil {
			w.log.Warn("Failed to fetch calendar event", "assessment_id", assessment.ID, "event_id", assessment.EventID, "error", err)
			continue
		}
		if event.AttachmentURL == "" {
			continue
		}
		if err := w.assessmentRepo.UpdateVideoLink(ctx, nil, assessment.ID, event.AttachmentURL); err != nil {
			w.log.Warn("Failed to save video link", "assessment_id", assessment.ID, "error", err)
			continue
		}
		w.log.Info("Backfilled assessment video link", "assessment_id", assessment.ID)
	}
}
