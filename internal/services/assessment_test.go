package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/repos/testutil"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type fakeScheduleCalendar struct {
	created int
	events  map[string]*CalendarEvent
}

func (f *fakeScheduleCalendar) CreateEvent(ctx context.Context, summary, description string, attendeeEmails []string, start, end time.Time) (*CalendarEvent, error) {
	f.created++
	event := &CalendarEvent{
		ID:       fmt.Sprintf("evt-%d", f.created),
		MeetLink: fmt.Sprintf("https://meet.example.com/%d", f.created),
	}
	if f.events == nil {
		f.events = map[string]*CalendarEvent{}
	}
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeScheduleCalendar) GetEvent(ctx context.Context, eventID string) (*CalendarEvent, error) {
	event, ok := f.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	return event, nil
}

type fakeVideo struct {
	rooms     int
	completed []string
	recording *RecordingInfo
}

func (f *fakeVideo) CreateRoom(ctx context.Context, roomName string) (*VideoRoomInfo, error) {
	f.rooms++
	return &VideoRoomInfo{SID: fmt.Sprintf("RM%d", f.rooms), Name: roomName, Status: "in-progress"}, nil
}

func (f *fakeVideo) CompleteRoom(ctx context.Context, roomSID string) error {
	f.completed = append(f.completed, roomSID)
	return nil
}

func (f *fakeVideo) GetRoom(ctx context.Context, roomSID string) (*VideoRoomInfo, error) {
	return &VideoRoomInfo{SID: roomSID, Status: "in-progress"}, nil
}

func (f *fakeVideo) LatestRecording(ctx context.Context, roomSID string) (*RecordingInfo, error) {
	return f.recording, nil
}

func (f *fakeVideo) AccessToken(identity, roomName string) (string, error) {
	return "token-" + identity + "-" + roomName, nil
}

func newAssessmentFixture(t *testing.T) (*gorm.DB, AssessmentService, *fakeScheduleCalendar, *fakeVideo, *fakeMail) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	calendar := &fakeScheduleCalendar{}
	video := &fakeVideo{}
	mail := &fakeMail{}
	svc := NewAssessmentService(
		db,
		log,
		repos.NewAssessmentRepo(db, log),
		repos.NewAssessmentNoteRepo(db, log),
		repos.NewVideoRoomRepo(db, log),
		repos.NewApplicationRepo(db, log),
		repos.NewApplicationStatusRepo(db, log),
		calendar,
		video,
		mail,
	)
	return db, svc, calendar, video, mail
}

func seedApplicationWithClient(t *testing.T, db *gorm.DB) *types.Application {
	t.Helper()
	client := types.Client{FirstName: "Jo", LastName: "Client", Email: "jo@example.com"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	status := types.ApplicationStatus{Name: types.StatusPending}
	if err := db.Create(&status).Error; err != nil {
		t.Fatalf("seed status: %v", err)
	}
	application := types.Application{ClientID: client.ID, UserID: 1, StatusID: status.ID}
	if err := db.Create(&application).Error; err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return &application
}

func TestScheduleCreatesAssessmentAndMovesApplicationToScheduled(t *testing.T) {
	db, svc, calendar, _, mail := newAssessmentFixture(t)
	application := seedApplicationWithClient(t, db)
	when := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	assessment, err := svc.Schedule(context.Background(), ScheduleInput{
		ApplicationID:     application.ID,
		Message:           "On-site walkthrough",
		ScheduledDateTime: when,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if assessment.EventID != "evt-1" {
		t.Fatalf("event not recorded: %q", assessment.EventID)
	}
	if !assessment.EndDateTime.Equal(when.Add(time.Hour)) {
		t.Fatalf("want default one hour slot, got %v", assessment.EndDateTime)
	}
	if calendar.created != 1 {
		t.Fatalf("want a single calendar event, got %d", calendar.created)
	}
	if len(mail.sent) != 1 || mail.sent[0][0] != "jo@example.com" {
		t.Fatalf("want invite mailed to client, got %v", mail.sent)
	}

	var got types.Application
	if err := db.Preload("Status").First(&got, application.ID).Error; err != nil {
		t.Fatalf("load application: %v", err)
	}
	if got.Status == nil || got.Status.Name != types.StatusScheduled {
		t.Fatalf("application not moved to scheduled: %+v", got.Status)
	}
}

func TestScheduleAgainUpdatesTheExistingAssessment(t *testing.T) {
	db, svc, _, _, _ := newAssessmentFixture(t)
	application := seedApplicationWithClient(t, db)
	first := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 3)

	if _, err := svc.Schedule(context.Background(), ScheduleInput{ApplicationID: application.ID, ScheduledDateTime: first}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	rescheduled, err := svc.Schedule(context.Background(), ScheduleInput{ApplicationID: application.ID, ScheduledDateTime: second})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !rescheduled.ScheduledDateTime.Equal(second) {
		t.Fatalf("reschedule not stored: %v", rescheduled.ScheduledDateTime)
	}
	if rescheduled.EventID != "evt-2" {
		t.Fatalf("want fresh calendar event on reschedule, got %q", rescheduled.EventID)
	}

	var count int64
	if err := db.Model(&types.Assessment{}).Where("application_id = ?", application.ID).Count(&count).Error; err != nil {
		t.Fatalf("count assessments: %v", err)
	}
	if count != 1 {
		t.Fatalf("want one assessment per application, got %d", count)
	}
}

func TestOpenVideoRoomReusesLiveRoom(t *testing.T) {
	db, svc, _, video, _ := newAssessmentFixture(t)
	application := seedApplicationWithClient(t, db)
	assessment, err := svc.Schedule(context.Background(), ScheduleInput{
		ApplicationID:     application.ID,
		ScheduledDateTime: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	room, err := svc.OpenVideoRoom(context.Background(), assessment.ID)
	if err != nil {
		t.Fatalf("open room: %v", err)
	}
	again, err := svc.OpenVideoRoom(context.Background(), assessment.ID)
	if err != nil {
		t.Fatalf("reopen room: %v", err)
	}
	if video.rooms != 1 {
		t.Fatalf("want live room reused, got %d rooms created", video.rooms)
	}
	if again.RoomSID != room.RoomSID {
		t.Fatalf("room identity changed: %q vs %q", again.RoomSID, room.RoomSID)
	}
}

func TestCloseVideoRoomSavesRecording(t *testing.T) {
	db, svc, _, video, _ := newAssessmentFixture(t)
	application := seedApplicationWithClient(t, db)
	assessment, err := svc.Schedule(context.Background(), ScheduleInput{
		ApplicationID:     application.ID,
		ScheduledDateTime: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	room, err := svc.OpenVideoRoom(context.Background(), assessment.ID)
	if err != nil {
		t.Fatalf("open room: %v", err)
	}
	video.recording = &RecordingInfo{SID: "RT1", MediaURL: "https://video.example.com/RT1"}

	if err := svc.CloseVideoRoom(context.Background(), assessment.ID); err != nil {
		t.Fatalf("close room: %v", err)
	}
	if len(video.completed) != 1 || video.completed[0] != room.RoomSID {
		t.Fatalf("room not completed upstream: %v", video.completed)
	}

	var recording types.VideoRecording
	if err := db.Where("video_room_id = ?", room.ID).First(&recording).Error; err != nil {
		t.Fatalf("load recording: %v", err)
	}
	if recording.RecordingURL != "https://video.example.com/RT1" {
		t.Fatalf("recording url not stored: %q", recording.RecordingURL)
	}
}

func TestJoinLinkPrefersBackfilledVideoLink(t *testing.T) {
	db, svc, calendar, _, _ := newAssessmentFixture(t)
	application := seedApplicationWithClient(t, db)
	assessment, err := svc.Schedule(context.Background(), ScheduleInput{
		ApplicationID:     application.ID,
		ScheduledDateTime: time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	link, err := svc.JoinLink(context.Background(), assessment.ID)
	if err != nil {
		t.Fatalf("join link: %v", err)
	}
	if link != calendar.events[assessment.EventID].MeetLink {
		t.Fatalf("want live event link, got %q", link)
	}

	if err := db.Model(&types.Assessment{}).Where("id = ?", assessment.ID).
		Update("video_link", "https://drive.example.com/rec.mp4").Error; err != nil {
		t.Fatalf("backfill link: %v", err)
	}
	link, err = svc.JoinLink(context.Background(), assessment.ID)
	if err != nil {
		t.Fatalf("join link: %v", err)
	}
	if link != "https://drive.example.com/rec.mp4" {
		t.Fatalf("want backfilled link preferred, got %q", link)
	}
}
