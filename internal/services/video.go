package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/utils"
)

// VideoService fronts the Twilio Video REST API for assessment rooms. Room
// access is granted through short-lived JWTs carrying a video grant.
type VideoService interface {
	CreateRoom(ctx context.Context, roomName string) (*VideoRoomInfo, error)
	CompleteRoom(ctx context.Context, roomSID string) error
	GetRoom(ctx context.Context, roomSID string) (*VideoRoomInfo, error)
	LatestRecording(ctx context.Context, roomSID string) (*RecordingInfo, error)
	AccessToken(identity, roomName string) (string, error)
}

type VideoRoomInfo struct {
	SID    string `json:"sid"`
	Name   string `json:"unique_name"`
	Status string `json:"status"`
}

type RecordingInfo struct {
	SID      string `json:"sid"`
	Status   string `json:"status"`
	Duration int    `json:"duration"`
	MediaURL string
}

type recordingList struct {
	Recordings []struct {
		SID      string            `json:"sid"`
		Status   string            `json:"status"`
		Duration int               `json:"duration"`
		Links    map[string]string `json:"links"`
	} `json:"recordings"`
}

type videoConfig struct {
	accountSID   string
	apiKey       string
	apiKeySecret string
	baseURL      string
	timeout      time.Duration
	tokenTTL     time.Duration
}

type videoService struct {
	log    *logger.Logger
	cfg    videoConfig
	client *resty.Client
}

func NewVideoService(log *logger.Logger) (VideoService, error) {
	serviceLog := log.With("service", "VideoService")
	cfg := videoConfig{
		accountSID:   strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		apiKey:       strings.TrimSpace(os.Getenv("TWILIO_API_KEY")),
		apiKeySecret: strings.TrimSpace(os.Getenv("TWILIO_API_KEY_SECRET")),
		baseURL:      strings.TrimSpace(os.Getenv("TWILIO_VIDEO_BASE_URL")),
		timeout:      time.Duration(utils.GetEnvAsInt("TWILIO_TIMEOUT_SECONDS", 30, serviceLog)) * time.Second,
		tokenTTL:     time.Duration(utils.GetEnvAsInt("TWILIO_TOKEN_TTL_MINUTES", 60, serviceLog)) * time.Minute,
	}
	if cfg.accountSID == "" {
		return nil, fmt.Errorf("missing TWILIO_ACCOUNT_SID")
	}
	if cfg.apiKey == "" || cfg.apiKeySecret == "" {
		return nil, fmt.Errorf("missing TWILIO_API_KEY or TWILIO_API_KEY_SECRET")
	}
	if cfg.baseURL == "" {
		cfg.baseURL = "https://video.twilio.com/v1"
	}
	cfg.baseURL = strings.TrimRight(cfg.baseURL, "/")

	client := resty.New().
		SetBaseURL(cfg.baseURL).
		SetTimeout(cfg.timeout).
		SetBasicAuth(cfg.apiKey, cfg.apiKeySecret).
		SetRetryCount(3)

	return &videoService{
		log:    serviceLog,
		cfg:    cfg,
		client: client,
	}, nil
}

func (vs *videoService) CreateRoom(ctx context.Context, roomName string) (*VideoRoomInfo, error) {
	var room VideoRoomInfo
	resp, err := vs.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"UniqueName":                  roomName,
			"Type":                        "group",
			"RecordParticipantsOnConnect": "true",
		}).
		SetResult(&room).
		Post("/Rooms")
	if err != nil {
		return nil, fmt.Errorf("failed to create video room: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create video room returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &room, nil
}

func (vs *videoService) CompleteRoom(ctx context.Context, roomSID string) error {
	resp, err := vs.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"Status": "completed"}).
		Post("/Rooms/" + roomSID)
	if err != nil {
		return fmt.Errorf("failed to complete video room %q: %w", roomSID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("complete video room returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

func (vs *videoService) GetRoom(ctx context.Context, roomSID string) (*VideoRoomInfo, error) {
	var room VideoRoomInfo
	resp, err := vs.client.R().
		SetContext(ctx).
		SetResult(&room).
		Get("/Rooms/" + roomSID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video room %q: %w", roomSID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get video room returned %d: %s", resp.StatusCode(), resp.String())
	}
	return &room, nil
}

func (vs *videoService) LatestRecording(ctx context.Context, roomSID string) (*RecordingInfo, error) {
	var list recordingList
	resp, err := vs.client.R().
		SetContext(ctx).
		SetQueryParam("GroupingSid", roomSID).
		SetQueryParam("PageSize", "1").
		SetResult(&list).
		Get("/Recordings")
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings for room %q: %w", roomSID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list recordings returned %d: %s", resp.StatusCode(), resp.String())
	}
	if len(list.Recordings) == 0 {
		return nil, nil
	}
	rec := list.Recordings[0]
	return &RecordingInfo{
		SID:      rec.SID,
		Status:   rec.Status,
		Duration: rec.Duration,
		MediaURL: rec.Links["media"],
	}, nil
}

// AccessToken mints a Twilio video grant JWT for one participant in one room.
func (vs *videoService) AccessToken(identity, roomName string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"jti": fmt.Sprintf("%s-%d", vs.cfg.apiKey, now.Unix()),
		"iss": vs.cfg.apiKey,
		"sub": vs.cfg.accountSID,
		"iat": now.Unix(),
		"exp": now.Add(vs.cfg.tokenTTL).Unix(),
		"grants": map[string]interface{}{
			"identity": identity,
			"video": map[string]interface{}{
				"room": roomName,
			},
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["cty"] = "twilio-fpa;v=1"
	signed, err := token.SignedString([]byte(vs.cfg.apiKeySecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign video access token: %w", err)
	}
	return signed, nil
}

// RoomNameForAssessment builds a collision-free room name.
func RoomNameForAssessment(assessmentID uint) string {
	return fmt.Sprintf("assessment-%d-%s", assessmentID, uuid.New().String()[:8])
}
