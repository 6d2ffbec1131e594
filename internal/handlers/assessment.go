package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bramwell/claimsdesk-backend/internal/requestdata"
	"github.com/bramwell/claimsdesk-backend/internal/services"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
	fileStore         services.FileStoreService
}

func NewAssessmentHandler(assessmentService services.AssessmentService, fileStore services.FileStoreService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService, fileStore: fileStore}
}

func (ah *AssessmentHandler) Schedule(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Message           string    `json:"message"`
		Summary           string    `json:"summary"`
		ScheduledDateTime time.Time `json:"scheduled_date_time" binding:"required"`
		EndDateTime       time.Time `json:"end_date_time"`
		ClientLocation    string    `json:"client_location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	assessment, err := ah.assessmentService.Schedule(c.Request.Context(), services.ScheduleInput{
		ApplicationID:     id,
		Message:           req.Message,
		Summary:           req.Summary,
		ScheduledDateTime: req.ScheduledDateTime,
		EndDateTime:       req.EndDateTime,
		ClientLocation:    req.ClientLocation,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "assessment scheduled", assessment)
}

func (ah *AssessmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	assessment, err := ah.assessmentService.GetByApplicationID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "assessment not found")
		return
	}
	respondOK(c, "assessment", assessment)
}

func (ah *AssessmentHandler) UpdateSummary(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Summary string `json:"summary" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ah.assessmentService.UpdateSummary(c.Request.Context(), id, req.Summary); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "summary updated", nil)
}

// CreateNote accepts multipart form data: note text plus an optional file
// stored under a fresh object key.
func (ah *AssessmentHandler) CreateNote(c *gin.Context) {
	assessmentID, err := strconv.ParseUint(c.PostForm("assessment_id"), 10, 64)
	if err != nil || assessmentID == 0 {
		respondError(c, http.StatusBadRequest, "invalid assessment_id")
		return
	}
	claimID, err := strconv.ParseUint(c.PostForm("claim_id"), 10, 64)
	if err != nil || claimID == 0 {
		respondError(c, http.StatusBadRequest, "invalid claim_id")
		return
	}
	note := &types.AssessmentNote{
		AssessmentID: uint(assessmentID),
		ClaimID:      uint(claimID),
		Note:         c.PostForm("note"),
	}
	key, ok := ah.saveUploadedFile(c, "notes")
	if !ok {
		return
	}
	note.File = key
	created, err := ah.assessmentService.CreateNote(c.Request.Context(), note)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "note created", created)
}

func (ah *AssessmentHandler) UpdateNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	note := &types.AssessmentNote{
		ID:   id,
		Note: c.PostForm("note"),
	}
	key, ok := ah.saveUploadedFile(c, "notes")
	if !ok {
		return
	}
	note.File = key
	if err := ah.assessmentService.UpdateNote(c.Request.Context(), note); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "note updated", nil)
}

func (ah *AssessmentHandler) OpenVideoRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := ah.assessmentService.OpenVideoRoom(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "video room opened", room)
}

func (ah *AssessmentHandler) CloseVideoRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ah.assessmentService.CloseVideoRoom(c.Request.Context(), id); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "video room closed", nil)
}

func (ah *AssessmentHandler) RoomToken(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, http.StatusBadRequest, "not authenticated")
		return
	}
	identity := fmt.Sprintf("user-%d", rd.UserID)
	token, err := ah.assessmentService.RoomToken(c.Request.Context(), id, identity)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "room token", gin.H{"token": token})
}

func (ah *AssessmentHandler) JoinLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	link, err := ah.assessmentService.JoinLink(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "join link", gin.H{"link": link})
}

// saveUploadedFile stores the optional "file" form part and returns its
// object key, or "" when no file was sent. ok is false when the response
// has already been written.
func (ah *AssessmentHandler) saveUploadedFile(c *gin.Context, prefix string) (string, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", true
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read uploaded file")
		return "", false
	}
	defer file.Close()
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), filepath.Ext(fileHeader.Filename))
	if err := ah.fileStore.Upload(c.Request.Context(), key, file); err != nil {
		respondError(c, http.StatusBadRequest, "failed to store uploaded file")
		return "", false
	}
	return key, true
}
