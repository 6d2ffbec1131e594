package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/services"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type fakeCalendar struct {
	events map[string]*services.CalendarEvent
	calls  int
}

func (f *fakeCalendar) CreateEvent(ctx context.Context, summary, description string, attendeeEmails []string, start, end time.Time) (*services.CalendarEvent, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeCalendar) GetEvent(ctx context.Context, eventID string) (*services.CalendarEvent, error) {
	f.calls++
	event, ok := f.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %q not found", eventID)
	}
	return event, nil
}

func seedAssessment(t *testing.T, db *gorm.DB, statusID uint, eventID, videoLink string) uint {
	t.Helper()
	application := types.Application{ClientID: 1, UserID: 1, StatusID: statusID}
	if err := db.Create(&application).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	assessment := types.Assessment{
		ApplicationID: application.ID,
		EventID:       eventID,
		VideoLink:     videoLink,
	}
	if err := db.Create(&assessment).Error; err != nil {
		t.Fatalf("seed assessment: %v", err)
	}
	return assessment.ID
}

func TestRunOnceBackfillsMissingVideoLinks(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	assessmentRepo := repos.NewAssessmentRepo(db, log)
	statusRepo := repos.NewApplicationStatusRepo(db, log)

	completed, err := statusRepo.GetOrCreateByName(context.Background(), nil, types.StatusCompleted)
	if err != nil {
		t.Fatalf("resolve status: %v", err)
	}
	pending, err := statusRepo.GetOrCreateByName(context.Background(), nil, types.StatusPending)
	if err != nil {
		t.Fatalf("resolve status: %v", err)
	}

	waiting := seedAssessment(t, db, completed.ID, "evt-1", "")
	alreadyLinked := seedAssessment(t, db, completed.ID, "evt-2", "https://example.com/existing")
	notCompleted := seedAssessment(t, db, pending.ID, "evt-3", "")
	noEvent := seedAssessment(t, db, completed.ID, "", "")

	calendar := &fakeCalendar{events: map[string]*services.CalendarEvent{
		"evt-1": {ID: "evt-1", AttachmentURL: "https://example.com/recording.mp4"},
	}}
	worker := NewVideoLinkWorker(db, log, assessmentRepo, statusRepo, calendar, time.Minute)

	worker.runOnce(context.Background())

	var got types.Assessment
	if err := db.First(&got, waiting).Error; err != nil {
		t.Fatalf("load assessment: %v", err)
	}
	if got.VideoLink != "https://example.com/recording.mp4" {
		t.Fatalf("want video link backfilled, got %q", got.VideoLink)
	}

	for _, id := range []uint{alreadyLinked, notCompleted, noEvent} {
		var untouched types.Assessment
		if err := db.First(&untouched, id).Error; err != nil {
			t.Fatalf("load assessment: %v", err)
		}
		if id == alreadyLinked && untouched.VideoLink != "https://example.com/existing" {
			t.Fatalf("existing link overwritten: %q", untouched.VideoLink)
		}
		if id != alreadyLinked && untouched.VideoLink != "" {
			t.Fatalf("assessment %d should not be touched, got %q", id, untouched.VideoLink)
		}
	}
	if calendar.calls != 1 {
		t.Fatalf("want one calendar lookup, got %d", calendar.calls)
	}
}

func TestRunOnceSwallowsCalendarFailures(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	assessmentRepo := repos.NewAssessmentRepo(db, log)
	statusRepo := repos.NewApplicationStatusRepo(db, log)

	completed, err := statusRepo.GetOrCreateByName(context.Background(), nil, types.StatusCompleted)
	if err != nil {
		t.Fatalf("resolve status: %v", err)
	}
	id := seedAssessment(t, db, completed.ID, "evt-missing", "")

	calendar := &fakeCalendar{events: map[string]*services.CalendarEvent{}}
	worker := NewVideoLinkWorker(db, log, assessmentRepo, statusRepo, calendar, time.Minute)

	worker.runOnce(context.Background())

	var got types.Assessment
	if err := db.First(&got, id).Error; err != nil {
		t.Fatalf("load assessment: %v", err)
	}
	if got.VideoLink != "" {
		t.Fatalf("video link should stay empty on lookup failure, got %q", got.VideoLink)
	}
}
