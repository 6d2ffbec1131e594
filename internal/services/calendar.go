package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
)

// CalendarService manages the assessment calendar: scheduling creates an
// event with a conference attached, and the video-link worker later reads
// the event back to pick up the recording attachment.
type CalendarService interface {
	CreateEvent(ctx context.Context, summary, description string, attendeeEmails []string, start, end time.Time) (*CalendarEvent, error)
	GetEvent(ctx context.Context, eventID string) (*CalendarEvent, error)
}

type CalendarEvent struct {
	ID            string
	MeetLink      string
	AttachmentURL string
}

type calendarService struct {
	log        *logger.Logger
	svc        *calendar.Service
	calendarID string
	timezone   string
}

func NewCalendarService(log *logger.Logger) (CalendarService, error) {
	serviceLog := log.With("service", "CalendarService")
	calendarID := os.Getenv("GOOGLE_CALENDAR_ID")
	if calendarID == "" {
		calendarID = "primary"
	}
	timezone := os.Getenv("GOOGLE_CALENDAR_TIMEZONE")
	if timezone == "" {
		timezone = "UTC"
	}
	saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	ctx := context.Background()
	var svc *calendar.Service
	var err error
	if saPath != "" {
		svc, err = calendar.NewService(ctx, option.WithCredentialsFile(saPath), option.WithScopes(calendar.CalendarScope))
	} else {
		serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set, falling back to ADC")
		svc, err = calendar.NewService(ctx, option.WithScopes(calendar.CalendarScope))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &calendarService{
		log:        serviceLog,
		svc:        svc,
		calendarID: calendarID,
		timezone:   timezone,
	}, nil
}

func (cs *calendarService) CreateEvent(ctx context.Context, summary, description string, attendeeEmails []string, start, end time.Time) (*CalendarEvent, error) {
	attendees := make([]*calendar.EventAttendee, 0, len(attendeeEmails))
	for _, email := range attendeeEmails {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	event := &calendar.Event{
		Summary:     summary,
		Description: description,
		Attendees:   attendees,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: cs.timezone},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: cs.timezone},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: uuid.New().String(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		},
	}
	created, err := cs.svc.Events.Insert(cs.calendarID, event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return eventFromAPI(created), nil
}

func (cs *calendarService) GetEvent(ctx context.Context, eventID string) (*CalendarEvent, error) {
	event, err := cs.svc.Events.Get(cs.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar event %q: %w", eventID, err)
	}
	return eventFromAPI(event), nil
}

func eventFromAPI(event *calendar.Event) *CalendarEvent {
	out := &CalendarEvent{ID: event.Id, MeetLink: event.HangoutLink}
	if len(event.Attachments) > 0 {
		out.AttachmentURL = event.Attachments[0].FileUrl
	}
	return out
}
