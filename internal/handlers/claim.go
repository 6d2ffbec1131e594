package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bramwell/claimsdesk-backend/internal/services"
)

type ClaimHandler struct {
	claimService      services.ClaimService
	categoryService   services.CategoryService
	claimTreeService  services.ClaimTreeService
	reassignService   services.ReassignService
	assessmentService services.AssessmentService
	reportService     services.ReportService
	fileStore         services.FileStoreService
}

func NewClaimHandler(
	claimService services.ClaimService,
	categoryService services.CategoryService,
	claimTreeService services.ClaimTreeService,
	reassignService services.ReassignService,
	assessmentService services.AssessmentService,
	reportService services.ReportService,
	fileStore services.FileStoreService,
) *ClaimHandler {
	return &ClaimHandler{
		claimService:      claimService,
		categoryService:   categoryService,
		claimTreeService:  claimTreeService,
		reassignService:   reassignService,
		assessmentService: assessmentService,
		reportService:     reportService,
		fileStore:         fileStore,
	}
}

func (ch *ClaimHandler) Create(c *gin.Context) {
	var req struct {
		ApplicationID     uint `json:"application_id" binding:"required"`
		ApplicationTypeID uint `json:"application_type_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	claim, err := ch.claimService.Create(c.Request.Context(), req.ApplicationID, req.ApplicationTypeID)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "claim created", claim)
}

func (ch *ClaimHandler) ListByApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	claims, err := ch.claimService.ListByApplicationID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "claims", claims)
}

// Info returns the whole claim view: assignments, materialized form trees
// with this claim's answers, and assessment notes.
func (ch *ClaimHandler) Info(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	assignments, err := ch.claimService.GetAssignments(ctx, id)
	if err != nil {
		respondError(c, http.StatusNotFound, "claim not found")
		return
	}
	data := gin.H{"assignments": assignments}
	if assignments.What != nil {
		tree, err := ch.claimTreeService.WhatForClaim(ctx, assignments.What.WhatID, id)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		data["what_details"] = tree
	}
	if assignments.How != nil {
		tree, err := ch.claimTreeService.HowForClaim(ctx, assignments.How.HowID, id)
		if err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		data["how_details"] = tree
	}
	notes, err := ch.assessmentService.ListNotesByClaimIDs(ctx, []uint{id})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	data["notes"] = notes
	respondOK(c, "claim info", data)
}

func (ch *ClaimHandler) CreateCause(c *gin.Context) {
	var req struct {
		ApplicationTypeID uint   `json:"application_type_id" binding:"required"`
		Name              string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cause, err := ch.categoryService.CreateCause(c.Request.Context(), req.ApplicationTypeID, req.Name)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "cause category created", cause)
}

func (ch *ClaimHandler) RenameCause(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.categoryService.RenameCause(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "cause category renamed", nil)
}

func (ch *ClaimHandler) ListCauses(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	causes, err := ch.categoryService.ListCauses(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "cause categories", causes)
}

func (ch *ClaimHandler) DeleteCause(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := ch.categoryService.DeleteCause(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "cause category deleted", gin.H{"deleted": counts})
}

func (ch *ClaimHandler) CreateWhat(c *gin.Context) {
	var req struct {
		CauseID uint   `json:"cause_id" binding:"required"`
		Name    string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	what, err := ch.categoryService.CreateWhat(c.Request.Context(), req.CauseID, req.Name)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "what category created", what)
}

func (ch *ClaimHandler) RenameWhat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.categoryService.RenameWhat(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "what category renamed", nil)
}

func (ch *ClaimHandler) ListWhats(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	whats, err := ch.categoryService.ListWhats(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "what categories", whats)
}

func (ch *ClaimHandler) DeleteWhat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := ch.categoryService.DeleteWhat(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "what category deleted", gin.H{"deleted": counts})
}

func (ch *ClaimHandler) CreateHow(c *gin.Context) {
	var req struct {
		CauseID uint   `json:"cause_id" binding:"required"`
		Name    string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	how, err := ch.categoryService.CreateHow(c.Request.Context(), req.CauseID, req.Name)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "how category created", how)
}

func (ch *ClaimHandler) RenameHow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.categoryService.RenameHow(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "how category renamed", nil)
}

func (ch *ClaimHandler) ListHows(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hows, err := ch.categoryService.ListHows(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "how categories", hows)
}

func (ch *ClaimHandler) DeleteHow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := ch.categoryService.DeleteHow(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "how category deleted", gin.H{"deleted": counts})
}

type titleRequest struct {
	Title string `json:"title" binding:"required"`
}

func (ch *ClaimHandler) CreateWhatTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	title, err := ch.categoryService.CreateWhatTitle(c.Request.Context(), id, req.Title)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "title created", title)
}

func (ch *ClaimHandler) RenameWhatTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.categoryService.RenameWhatTitle(c.Request.Context(), id, req.Title); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "title renamed", nil)
}

func (ch *ClaimHandler) DeleteWhatTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := ch.categoryService.DeleteWhatTitle(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "title deleted", gin.H{"deleted": counts})
}

func (ch *ClaimHandler) CreateHowTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	title, err := ch.categoryService.CreateHowTitle(c.Request.Context(), id, req.Title)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "title created", title)
}

func (ch *ClaimHandler) RenameHowTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.categoryService.RenameHowTitle(c.Request.Context(), id, req.Title); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "title renamed", nil)
}

func (ch *ClaimHandler) DeleteHowTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := ch.categoryService.DeleteHowTitle(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "title deleted", gin.H{"deleted": counts})
}

type questionRequest struct {
	Question      string   `json:"question" binding:"required"`
	QuestionType  string   `json:"question_type" binding:"required"`
	IsMandatory   bool     `json:"is_mandatory"`
	HasOtherField bool     `json:"has_other_field"`
	Options       []string `json:"options"`
}

func (qr questionRequest) toInput() services.QuestionInput {
	return services.QuestionInput{
		Question:      qr.Question,
		QuestionType:  qr.QuestionType,
		IsMandatory:   qr.IsMandatory,
		HasOtherField: qr.HasOtherField,
		Options:       qr.Options,
	}
}

func (ch *ClaimHandler) CreateWhatQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := ch.categoryService.CreateWhatQuestion(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "question created", question)
}

func (ch *ClaimHandler) UpdateWhatQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := ch.categoryService.UpdateWhatQuestion(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "question updated", question)
}

func (ch *ClaimHandler) DeleteWhatQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := ch.categoryService.DeleteWhatQuestion(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "question deleted", gin.H{"deleted": counts})
}

func (ch *ClaimHandler) CreateHowQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := ch.categoryService.CreateHowQuestion(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "question created", question)
}

func (ch *ClaimHandler) UpdateHowQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := ch.categoryService.UpdateHowQuestion(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "question updated", question)
}

func (ch *ClaimHandler) DeleteHowQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := ch.categoryService.DeleteHowQuestion(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "question deleted", gin.H{"deleted": counts})
}

// WhatQuestions is the definition view: full structure, no answers.
func (ch *ClaimHandler) WhatQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tree, err := ch.claimTreeService.WhatDefinition(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "questions", tree)
}

func (ch *ClaimHandler) HowQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tree, err := ch.claimTreeService.HowDefinition(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "questions", tree)
}

// ClaimWhatQuestions is the case view: answers scoped to the claim, empty
// titles dropped, file/date answers transformed for display.
func (ch *ClaimHandler) ClaimWhatQuestions(c *gin.Context) {
	claimID, ok := pathID(c, "id")
	if !ok {
		return
	}
	whatID, ok := pathID(c, "whatId")
	if !ok {
		return
	}
	tree, err := ch.claimTreeService.WhatForClaim(c.Request.Context(), whatID, claimID)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "questions", tree)
}

func (ch *ClaimHandler) ClaimHowQuestions(c *gin.Context) {
	claimID, ok := pathID(c, "id")
	if !ok {
		return
	}
	howID, ok := pathID(c, "howId")
	if !ok {
		return
	}
	tree, err := ch.claimTreeService.HowForClaim(c.Request.Context(), howID, claimID)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "questions", tree)
}

type answerRequest struct {
	Answers []struct {
		QuestionID   uint   `json:"question_id" binding:"required"`
		Answer       string `json:"answer"`
		QuestionType string `json:"question_type"`
	} `json:"answers" binding:"required"`
}

// toSubmissions resolves the wire convention: question_type "other" marks
// the free-text companion value of an other-enabled question.
func (ar answerRequest) toSubmissions() []services.AnswerSubmission {
	subs := make([]services.AnswerSubmission, 0, len(ar.Answers))
	for _, answer := range ar.Answers {
		subs = append(subs, services.AnswerSubmission{
			QuestionID: answer.QuestionID,
			Value:      answer.Answer,
			IsOther:    answer.QuestionType == "other",
		})
	}
	return subs
}

func (ch *ClaimHandler) SaveWhatAnswers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.claimService.SaveWhatAnswers(c.Request.Context(), id, req.toSubmissions()); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "answers saved", nil)
}

func (ch *ClaimHandler) SaveHowAnswers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.claimService.SaveHowAnswers(c.Request.Context(), id, req.toSubmissions()); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "answers saved", nil)
}

// UploadAnswerFile stores a file-question upload and returns the object key
// to submit as the answer value.
func (ch *ClaimHandler) UploadAnswerFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	defer file.Close()
	key := fmt.Sprintf("answers/%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))
	if err := ch.fileStore.Upload(c.Request.Context(), key, file); err != nil {
		respondError(c, http.StatusBadRequest, "failed to store uploaded file")
		return
	}
	respondCreated(c, "file stored", gin.H{"key": key})
}

func (ch *ClaimHandler) AssignWhat(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		WhatID uint `json:"what_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.reassignService.AssignWhat(c.Request.Context(), id, req.WhatID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "what category assigned", nil)
}

func (ch *ClaimHandler) AssignHow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		HowID uint `json:"how_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.reassignService.AssignHow(c.Request.Context(), id, req.HowID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "how category assigned", nil)
}

func (ch *ClaimHandler) AssignCause(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		CauseID uint `json:"cause_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ch.reassignService.AssignCause(c.Request.Context(), id, req.CauseID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "cause category assigned", nil)
}

func (ch *ClaimHandler) PreviewReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := ch.reportService.PreviewClaimReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "report preview", report)
}

func (ch *ClaimHandler) GenerateReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	url, err := ch.reportService.GenerateClaimReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "report generated", gin.H{"url": url})
}
