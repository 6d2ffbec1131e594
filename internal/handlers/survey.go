package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bramwell/claimsdesk-backend/internal/services"
)

type SurveyHandler struct {
	surveyService   services.SurveyService
	adminService    services.SurveyAdminService
	treeService     services.SurveyTreeService
	reassignService services.ReassignService
	reportService   services.ReportService
}

func NewSurveyHandler(
	surveyService services.SurveyService,
	adminService services.SurveyAdminService,
	treeService services.SurveyTreeService,
	reassignService services.ReassignService,
	reportService services.ReportService,
) *SurveyHandler {
	return &SurveyHandler{
		surveyService:   surveyService,
		adminService:    adminService,
		treeService:     treeService,
		reassignService: reassignService,
		reportService:   reportService,
	}
}

// Create opens one survey per requested type under the application.
func (sh *SurveyHandler) Create(c *gin.Context) {
	var req struct {
		ApplicationID      uint   `json:"application_id" binding:"required"`
		ApplicationTypeIDs []uint `json:"application_type_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	surveys, err := sh.surveyService.CreateMany(c.Request.Context(), req.ApplicationID, req.ApplicationTypeIDs)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "surveys created", surveys)
}

func (sh *SurveyHandler) ListByApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	surveys, err := sh.surveyService.ListByApplicationID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "surveys", surveys)
}

func (sh *SurveyHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	survey, err := sh.surveyService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "survey not found")
		return
	}
	respondOK(c, "survey", survey)
}

func (sh *SurveyHandler) ChangeType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ApplicationTypeID uint `json:"application_type_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sh.reassignService.ChangeSurveyType(c.Request.Context(), id, req.ApplicationTypeID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "survey type changed", nil)
}

func (sh *SurveyHandler) CreateCategory(c *gin.Context) {
	var req struct {
		ApplicationTypeID uint   `json:"application_type_id" binding:"required"`
		Name              string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	category, err := sh.adminService.CreateCategory(c.Request.Context(), req.ApplicationTypeID, req.Name)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "survey category created", category)
}

func (sh *SurveyHandler) RenameCategory(c *gin.Context) {
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
	if err := sh.adminService.RenameCategory(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "survey category renamed", nil)
}

func (sh *SurveyHandler) ListCategories(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categories, err := sh.adminService.ListCategories(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "survey categories", categories)
}

func (sh *SurveyHandler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := sh.adminService.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "survey category deleted", gin.H{"deleted": counts})
}

func (sh *SurveyHandler) CreateCategoryType(c *gin.Context) {
	var req struct {
		CategoryID uint   `json:"category_id" binding:"required"`
		Name       string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	categoryType, err := sh.adminService.CreateCategoryType(c.Request.Context(), req.CategoryID, req.Name)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "survey category type created", categoryType)
}

func (sh *SurveyHandler) RenameCategoryType(c *gin.Context) {
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
	if err := sh.adminService.RenameCategoryType(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "survey category type renamed", nil)
}

func (sh *SurveyHandler) ListCategoryTypes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryTypes, err := sh.adminService.ListCategoryTypes(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "survey category types", categoryTypes)
}

func (sh *SurveyHandler) DeleteCategoryType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := sh.adminService.DeleteCategoryType(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "survey category type deleted", gin.H{"deleted": counts})
}

func (sh *SurveyHandler) CreateTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	title, err := sh.adminService.CreateTitle(c.Request.Context(), id, req.Title)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "title created", title)
}

func (sh *SurveyHandler) RenameTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sh.adminService.RenameTitle(c.Request.Context(), id, req.Title); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "title renamed", nil)
}

func (sh *SurveyHandler) DeleteTitle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := sh.adminService.DeleteTitle(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "title deleted", gin.H{"deleted": counts})
}

type surveyQuestionRequest struct {
	questionRequest
	Number int `json:"number"`
}

func (sh *SurveyHandler) CreateQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req surveyQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := sh.adminService.CreateQuestion(c.Request.Context(), id, req.Number, req.toInput())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "question created", question)
}

func (sh *SurveyHandler) UpdateQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req surveyQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	question, err := sh.adminService.UpdateQuestion(c.Request.Context(), id, req.Number, req.toInput())
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "question updated", question)
}

func (sh *SurveyHandler) DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	counts, err := sh.adminService.DeleteQuestion(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "question deleted", gin.H{"deleted": counts})
}

// TitleQuestions is the definition view under one category type.
func (sh *SurveyHandler) TitleQuestions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	titles, err := sh.treeService.TitleDefinition(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "questions", titles)
}

// SurveyTitleQuestions is the case view for one survey under a category type.
func (sh *SurveyHandler) SurveyTitleQuestions(c *gin.Context) {
	surveyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	categoryTypeID, ok := pathID(c, "categoryTypeId")
	if !ok {
		return
	}
	titles, err := sh.treeService.TitlesForSurvey(c.Request.Context(), categoryTypeID, surveyID)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "questions", titles)
}

// Tree returns the survey's full category tree with answers in place.
func (sh *SurveyHandler) Tree(c *gin.Context) {
	surveyID, ok := pathID(c, "id")
	if !ok {
		return
	}
	survey, err := sh.surveyService.GetByID(c.Request.Context(), surveyID)
	if err != nil {
		respondError(c, http.StatusNotFound, "survey not found")
		return
	}
	tree, err := sh.treeService.CategoryTree(c.Request.Context(), survey.ApplicationTypeID, surveyID)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "survey tree", tree)
}

func (sh *SurveyHandler) SaveAnswers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sh.surveyService.SaveAnswers(c.Request.Context(), id, req.toSubmissions()); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "answers saved", nil)
}

func (sh *SurveyHandler) PreviewReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	report, err := sh.reportService.PreviewSurveyReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "report preview", report)
}

func (sh *SurveyHandler) GenerateReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	url, err := sh.reportService.GenerateSurveyReport(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "report generated", gin.H{"url": url})
}
