package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bramwell/claimsdesk-backend/internal/requestdata"
	"github.com/bramwell/claimsdesk-backend/internal/services"
	"github.com/bramwell/claimsdesk-backend/internal/types"
)

type ApplicationHandler struct {
	applicationService services.ApplicationService
	userService        services.UserService
}

func NewApplicationHandler(applicationService services.ApplicationService, userService services.UserService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService, userService: userService}
}

func (ah *ApplicationHandler) Create(c *gin.Context) {
	var req struct {
		Client struct {
			FirstName   string `json:"first_name" binding:"required"`
			LastName    string `json:"last_name" binding:"required"`
			Email       string `json:"email" binding:"required,email"`
			IDNumber    string `json:"id_number"`
			PhoneNumber string `json:"phone_number"`
			PolicyNo    string `json:"policy_no"`
			Location    string `json:"location"`
			InsurerID   *uint  `json:"insurer_id"`
		} `json:"client" binding:"required"`
		Incident *struct {
			DateOfIncident time.Time `json:"date_of_incident"`
			StreetAddress  string    `json:"street_address"`
			City           string    `json:"city"`
			Province       string    `json:"province"`
			PostalCode     string    `json:"postal_code"`
		} `json:"incident"`
		Business *struct {
			BusinessName  string `json:"business_name" binding:"required"`
			BusinessEmail string `json:"business_email"`
			RegNumber     string `json:"reg_number"`
			VatNumber     string `json:"vat_number"`
			PhoneNo       string `json:"phone_no"`
		} `json:"business"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	input := services.CreateApplicationInput{
		Client: types.Client{
			FirstName:   req.Client.FirstName,
			LastName:    req.Client.LastName,
			Email:       req.Client.Email,
			IDNumber:    req.Client.IDNumber,
			PhoneNumber: req.Client.PhoneNumber,
			PolicyNo:    req.Client.PolicyNo,
			Location:    req.Client.Location,
			InsurerID:   req.Client.InsurerID,
		},
	}
	if req.Incident != nil {
		input.Incident = &types.ClientIncident{
			DateOfIncident: req.Incident.DateOfIncident,
			StreetAddress:  req.Incident.StreetAddress,
			City:           req.Incident.City,
			Province:       req.Incident.Province,
			PostalCode:     req.Incident.PostalCode,
		}
	}
	if req.Business != nil {
		input.Business = &types.Business{
			BusinessName:  req.Business.BusinessName,
			BusinessEmail: req.Business.BusinessEmail,
			RegNumber:     req.Business.RegNumber,
			VatNumber:     req.Business.VatNumber,
			PhoneNo:       req.Business.PhoneNo,
		}
	}
	application, err := ah.applicationService.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "application created", application)
}

// List scopes to the caller: admins see everything, assessors only their
// assigned applications.
func (ah *ApplicationHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		respondError(c, http.StatusBadRequest, "not authenticated")
		return
	}
	var (
		applications []*types.Application
		err          error
	)
	if rd.Role == types.RoleAssessor {
		applications, err = ah.applicationService.ListForAssessor(c.Request.Context(), rd.UserID)
	} else {
		applications, err = ah.applicationService.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "applications", applications)
}

func (ah *ApplicationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	application, err := ah.applicationService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, "application not found")
		return
	}
	respondOK(c, "application", application)
}

func (ah *ApplicationHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ah.applicationService.ChangeStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "status updated", nil)
}

func (ah *ApplicationHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ah.applicationService.ChangeStatus(c.Request.Context(), id, types.StatusCompleted); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "application completed", nil)
}

func (ah *ApplicationHandler) AssignAssessor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		AssessorID uint `json:"assessor_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ah.applicationService.AssignAssessor(c.Request.Context(), id, req.AssessorID); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "assessor assigned", nil)
}

func (ah *ApplicationHandler) ListTypes(c *gin.Context) {
	applicationTypes, err := ah.applicationService.ListTypes(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "application types", applicationTypes)
}

func (ah *ApplicationHandler) ListLogs(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	logs, err := ah.applicationService.ListLogs(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "application logs", logs)
}

func (ah *ApplicationHandler) ListAssessors(c *gin.Context) {
	assessors, err := ah.userService.ListAssessors(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "assessors", assessors)
}

func (ah *ApplicationHandler) UpdateClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		FirstName   string `json:"first_name" binding:"required"`
		LastName    string `json:"last_name" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		IDNumber    string `json:"id_number"`
		PhoneNumber string `json:"phone_number"`
		PolicyNo    string `json:"policy_no"`
		Location    string `json:"location"`
		InsurerID   *uint  `json:"insurer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	client := types.Client{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		IDNumber:    req.IDNumber,
		PhoneNumber: req.PhoneNumber,
		PolicyNo:    req.PolicyNo,
		Location:    req.Location,
		InsurerID:   req.InsurerID,
	}
	if err := ah.applicationService.UpdateClient(c.Request.Context(), &client); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "client updated", client)
}

func (ah *ApplicationHandler) UpsertBusiness(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		BusinessName  string `json:"business_name" binding:"required"`
		BusinessEmail string `json:"business_email"`
		RegNumber     string `json:"reg_number"`
		VatNumber     string `json:"vat_number"`
		PhoneNo       string `json:"phone_no"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	business := types.Business{
		ClientID:      id,
		BusinessName:  req.BusinessName,
		BusinessEmail: req.BusinessEmail,
		RegNumber:     req.RegNumber,
		VatNumber:     req.VatNumber,
		PhoneNo:       req.PhoneNo,
	}
	if err := ah.applicationService.UpsertBusiness(c.Request.Context(), &business); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "business saved", business)
}

func (ah *ApplicationHandler) UpsertIncident(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		DateOfIncident time.Time `json:"date_of_incident"`
		StreetAddress  string    `json:"street_address"`
		City           string    `json:"city"`
		Province       string    `json:"province"`
		PostalCode     string    `json:"postal_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	incident := types.ClientIncident{
		ClientID:       id,
		DateOfIncident: req.DateOfIncident,
		StreetAddress:  req.StreetAddress,
		City:           req.City,
		Province:       req.Province,
		PostalCode:     req.PostalCode,
	}
	if err := ah.applicationService.UpsertIncident(c.Request.Context(), &incident); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "incident saved", incident)
}

func (ah *ApplicationHandler) CreateProvider(c *gin.Context) {
	var req struct {
		InsuranceName string `json:"insurance_name" binding:"required"`
		ContactNo     string `json:"contact_no"`
		Email         string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	provider, err := ah.applicationService.CreateProvider(c.Request.Context(), &types.InsuranceProvider{
		InsuranceName: req.InsuranceName,
		ContactNo:     req.ContactNo,
		Email:         req.Email,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondCreated(c, "insurance provider created", provider)
}

func (ah *ApplicationHandler) UpdateProvider(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		InsuranceName string `json:"insurance_name" binding:"required"`
		ContactNo     string `json:"contact_no"`
		Email         string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	provider := types.InsuranceProvider{
		ID:            id,
		InsuranceName: req.InsuranceName,
		ContactNo:     req.ContactNo,
		Email:         req.Email,
	}
	if err := ah.applicationService.UpdateProvider(c.Request.Context(), &provider); err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "insurance provider updated", provider)
}

func (ah *ApplicationHandler) DeleteProvider(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detached, err := ah.applicationService.DeleteProvider(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, "insurance provider deleted", gin.H{"clients_detached": detached})
}

func (ah *ApplicationHandler) ListProviders(c *gin.Context) {
	providers, err := ah.applicationService.ListProviders(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondOK(c, "insurance providers", providers)
}
