package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type VideoRoomRepo interface {
	Create(ctx context.Context, tx *gorm.DB, room *types.VideoRoom) (*types.VideoRoom, error)
	Update(ctx context.Context, tx *gorm.DB, room *types.VideoRoom) error
	GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uint) (*types.VideoRoom, error)
	GetByRoomName(ctx context.Context, tx *gorm.DB, roomName string) (*types.VideoRoom, error)
	SaveRecording(ctx context.Context, tx *gorm.DB, recording *types.VideoRecording) error
}

type videoRoomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoRoomRepo(db *gorm.DB, baseLog *logger.Logger) VideoRoomRepo {
	return &videoRoomRepo{db: db, log: baseLog.With("repo", "VideoRoomRepo")}
}

func (r *videoRoomRepo) Create(ctx context.Context, tx *gorm.DB, room *types.VideoRoom) (*types.VideoRoom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (r *videoRoomRepo) Update(ctx context.Context, tx *gorm.DB, room *types.VideoRoom) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(room).Error
}

func (r *videoRoomRepo) GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uint) (*types.VideoRoom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var room types.VideoRoom
	if err := transaction.WithContext(ctx).Where("assessment_id = ?", assessmentID).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *videoRoomRepo) GetByRoomName(ctx context.Context, tx *gorm.DB, roomName string) (*types.VideoRoom, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var room types.VideoRoom
	if err := transaction.WithContext(ctx).Where("room_name = ?", roomName).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *videoRoomRepo) SaveRecording(ctx context.Context, tx *gorm.DB, recording *types.VideoRecording) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(recording).Error
}
