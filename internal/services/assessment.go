package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/repos"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

// ScheduleInput describes one assessment booking.
type ScheduleInput struct {
	ApplicationID     uint
	Message           string
	Summary           string
	ScheduledDateTime time.Time
	EndDateTime       time.Time
	ClientLocation    string
}

type AssessmentService interface {
	// Schedule books the assessment: calendar event with a conference,
	// invite mail to client and assessor, application moved to Scheduled.
	Schedule(ctx context.Context, input ScheduleInput) (*types.Assessment, error)
	GetByApplicationID(ctx context.Context, applicationID uint) (*types.Assessment, error)
	UpdateSummary(ctx context.Context, assessmentID uint, summary string) error

	CreateNote(ctx context.Context, note *types.AssessmentNote) (*types.AssessmentNote, error)
	UpdateNote(ctx context.Context, note *types.AssessmentNote) error
	ListNotesByClaimIDs(ctx context.Context, claimIDs []uint) ([]*types.AssessmentNote, error)

	OpenVideoRoom(ctx context.Context, assessmentID uint) (*types.VideoRoom, error)
	CloseVideoRoom(ctx context.Context, assessmentID uint) error
	RoomToken(ctx context.Context, assessmentID uint, identity string) (string, error)
	JoinLink(ctx context.Context, assessmentID uint) (string, error)
}

type assessmentService struct {
	db              *gorm.DB
	log             *logger.Logger
	assessmentRepo  repos.AssessmentRepo
	noteRepo        repos.AssessmentNoteRepo
	roomRepo        repos.VideoRoomRepo
	applicationRepo repos.ApplicationRepo
	statusRepo      repos.ApplicationStatusRepo
	calendar        CalendarService
	video           VideoService
	mail            MailService
}

func NewAssessmentService(
	db *gorm.DB,
	log *logger.Logger,
	assessmentRepo repos.AssessmentRepo,
	noteRepo repos.AssessmentNoteRepo,
	roomRepo repos.VideoRoomRepo,
	applicationRepo repos.ApplicationRepo,
	statusRepo repos.ApplicationStatusRepo,
	calendar CalendarService,
	video VideoService,
	mail MailService,
) AssessmentService {
	return &assessmentService{
		db:              db,
		log:             log.With("service", "AssessmentService"),
		assessmentRepo:  assessmentRepo,
		noteRepo:        noteRepo,
		roomRepo:        roomRepo,
		applicationRepo: applicationRepo,
		statusRepo:      statusRepo,
		calendar:        calendar,
		video:           video,
		mail:            mail,
	}
}

func (as *assessmentService) Schedule(ctx context.Context, input ScheduleInput) (*types.Assessment, error) {
	application, err := as.applicationRepo.GetByID(ctx, nil, input.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("application not found: %w", err)
	}
	if input.ScheduledDateTime.IsZero() {
		return nil, fmt.Errorf("scheduled date time is required")
	}
	if input.EndDateTime.IsZero() {
		input.EndDateTime = input.ScheduledDateTime.Add(time.Hour)
	}

	var attendees []string
	if application.Client != nil && application.Client.Email != "" {
		attendees = append(attendees, application.Client.Email)
	}
	if application.Assessor != nil && application.Assessor.Email != "" {
		attendees = append(attendees, application.Assessor.Email)
	}

	summary := input.Summary
	if summary == "" {
		summary = fmt.Sprintf("Assessment for application #%d", application.ID)
	}
	event, err := as.calendar.CreateEvent(ctx, summary, input.Message, attendees, input.ScheduledDateTime, input.EndDateTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar event: %w", err)
	}

	var assessment *types.Assessment
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, gErr := as.assessmentRepo.GetByApplicationID(ctx, tx, application.ID)
		if gErr != nil && !errors.Is(gErr, gorm.ErrRecordNotFound) {
			return gErr
		}
		if existing != nil {
			existing.Message = input.Message
			existing.Summary = summary
			existing.ScheduledDateTime = input.ScheduledDateTime
			existing.EndDateTime = input.EndDateTime
			existing.EventID = event.ID
			existing.ClientLocation = input.ClientLocation
			if uErr := as.assessmentRepo.Update(ctx, tx, existing); uErr != nil {
				return uErr
			}
			assessment = existing
		} else {
			created, cErr := as.assessmentRepo.Create(ctx, tx, &types.Assessment{
				ApplicationID:     application.ID,
				Message:           input.Message,
				Summary:           summary,
				ScheduledDateTime: input.ScheduledDateTime,
				EndDateTime:       input.EndDateTime,
				EventID:           event.ID,
				ClientLocation:    input.ClientLocation,
			})
			if cErr != nil {
				return cErr
			}
			assessment = created
		}
		status, sErr := as.statusRepo.GetOrCreateByName(ctx, tx, types.StatusScheduled)
		if sErr != nil {
			return sErr
		}
		return as.applicationRepo.UpdateStatus(ctx, tx, application.ID, status.ID)
	})
	if err != nil {
		return nil, err
	}

	if as.mail != nil && len(attendees) > 0 {
		body := fmt.Sprintf(
			"<p>An assessment has been scheduled for %s.</p><p>Join: <a href=%q>%s</a></p>",
			input.ScheduledDateTime.Format("2006-01-02 15:04"), event.MeetLink, event.MeetLink,
		)
		if mErr := as.mail.Send(ctx, attendees, "Assessment scheduled", body); mErr != nil {
			as.log.Warn("Failed to send schedule mail", "application_id", application.ID, "error", mErr)
		}
	}
	return assessment, nil
}

func (as *assessmentService) GetByApplicationID(ctx context.Context, applicationID uint) (*types.Assessment, error) {
	return as.assessmentRepo.GetByApplicationID(ctx, nil, applicationID)
}

func (as *assessmentService) UpdateSummary(ctx context.Context, assessmentID uint, summary string) error {
	assessment, err := as.assessmentRepo.GetByID(ctx, nil, assessmentID)
	if err != nil {
		return err
	}
	assessment.Summary = summary
	return as.assessmentRepo.Update(ctx, nil, assessment)
}

func (as *assessmentService) CreateNote(ctx context.Context, note *types.AssessmentNote) (*types.AssessmentNote, error) {
	if _, err := as.assessmentRepo.GetByID(ctx, nil, note.AssessmentID); err != nil {
		return nil, fmt.Errorf("assessment not found: %w", err)
	}
	return as.noteRepo.Create(ctx, nil, note)
}

func (as *assessmentService) UpdateNote(ctx context.Context, note *types.AssessmentNote) error {
	existing, err := as.noteRepo.GetByID(ctx, nil, note.ID)
	if err != nil {
		return err
	}
	existing.Note = note.Note
	if note.File != "" {
		existing.File = note.File
	}
	return as.noteRepo.Update(ctx, nil, existing)
}

func (as *assessmentService) ListNotesByClaimIDs(ctx context.Context, claimIDs []uint) ([]*types.AssessmentNote, error) {
	return as.noteRepo.ListByClaimIDs(ctx, nil, claimIDs)
}

func (as *assessmentService) OpenVideoRoom(ctx context.Context, assessmentID uint) (*types.VideoRoom, error) {
	if _, err := as.assessmentRepo.GetByID(ctx, nil, assessmentID); err != nil {
		return nil, fmt.Errorf("assessment not found: %w", err)
	}
	existing, err := as.roomRepo.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil && existing.RoomStatus == "in-progress" {
		return existing, nil
	}

	roomName := RoomNameForAssessment(assessmentID)
	info, err := as.video.CreateRoom(ctx, roomName)
	if err != nil {
		return nil, fmt.Errorf("failed to create video room: %w", err)
	}
	if existing != nil {
		existing.RoomName = info.Name
		existing.RoomSID = info.SID
		existing.RoomStatus = info.Status
		if err := as.roomRepo.Update(ctx, nil, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	return as.roomRepo.Create(ctx, nil, &types.VideoRoom{
		AssessmentID: assessmentID,
		RoomName:     info.Name,
		RoomSID:      info.SID,
		RoomStatus:   info.Status,
	})
}

func (as *assessmentService) CloseVideoRoom(ctx context.Context, assessmentID uint) error {
	room, err := as.roomRepo.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return fmt.Errorf("video room not found: %w", err)
	}
	if err := as.video.CompleteRoom(ctx, room.RoomSID); err != nil {
		return err
	}
	room.RoomStatus = "completed"
	if err := as.roomRepo.Update(ctx, nil, room); err != nil {
		return err
	}
	recording, err := as.video.LatestRecording(ctx, room.RoomSID)
	if err != nil {
		as.log.Warn("Failed to fetch room recording", "room_sid", room.RoomSID, "error", err)
		return nil
	}
	if recording == nil {
		return nil
	}
	if err := as.roomRepo.SaveRecording(ctx, nil, &types.VideoRecording{
		VideoRoomID:  room.ID,
		RecordingSID: recording.SID,
		RecordingURL: recording.MediaURL,
	}); err != nil {
		as.log.Warn("Failed to save room recording", "room_sid", room.RoomSID, "error", err)
	}
	return nil
}

func (as *assessmentService) RoomToken(ctx context.Context, assessmentID uint, identity string) (string, error) {
	room, err := as.roomRepo.GetByAssessmentID(ctx, nil, assessmentID)
	if err != nil {
		return "", fmt.Errorf("video room not found: %w", err)
	}
	return as.video.AccessToken(identity, room.RoomName)
}

// JoinLink prefers the backfilled video link, falling back to the live
// calendar event's conference link.
func (as *assessmentService) JoinLink(ctx context.Context, assessmentID uint) (string, error) {
	assessment, err := as.assessmentRepo.GetByID(ctx, nil, assessmentID)
	if err != nil {
		return "", err
	}
	if assessment.VideoLink != "" {
		return assessment.VideoLink, nil
	}
	if assessment.EventID == "" {
		return "", fmt.Errorf("assessment has no scheduled event")
	}
	event, err := as.calendar.GetEvent(ctx, assessment.EventID)
	if err != nil {
		return "", err
	}
	return event.MeetLink, nil
}
