package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/services"
)

type AssociationHandler struct {
	log          *logger.Logger
	associations services.AssociationService
	queries      services.MembershipQueryService
}

func NewAssociationHandler(
	log *logger.Logger,
	associations services.AssociationService,
	queries services.MembershipQueryService,
) *AssociationHandler {
	return &AssociationHandler{
		log:          log.With("handler", "AssociationHandler"),
		associations: associations,
		queries:      queries,
	}
}

type associateRequest struct {
	ClientID       uuid.UUID `json:"client_id" binding:"required"`
	PlanID         uuid.UUID `json:"plan_id" binding:"required"`
	Price          float64   `json:"price"`
	DurationMonths int       `json:"duration_months" binding:"required"`
	StartDate      time.Time `json:"start_date"`
	Conditions     string    `json:"conditions"`
}

func (h *AssociationHandler) Associate(c *gin.Context) {
	var req associateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	contractID, err := h.associations.Associate(c.Request.Context(), req.ClientID, req.PlanID, services.ContractTerms{
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
		StartDate:      req.StartDate,
		Conditions:     req.Conditions,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract_id": contractID})
}

type disassociateRequest struct {
	ClientID uuid.UUID `json:"client_id" binding:"required"`
	PlanID   uuid.UUID `json:"plan_id" binding:"required"`
	Force    bool      `json:"force"`
}

func (h *AssociationHandler) Disassociate(c *gin.Context) {
	var req disassociateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.associations.Disassociate(c.Request.Context(), req.ClientID, req.PlanID, req.Force)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

type renewRequest struct {
	AdditionalMonths int `json:"additional_months" binding:"required"`
}

func (h *AssociationHandler) RenewContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_contract_id", err)
		return
	}

	var req renewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	if err := h.associations.Renew(c.Request.Context(), id, req.AdditionalMonths); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"renewed": true})
}

func (h *AssociationHandler) ExpireDueContracts(c *gin.Context) {
	expired, err := h.associations.ExpireDue(c.Request.Context(), time.Now().UTC())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"expired": expired})
}

func (h *AssociationHandler) CheckReferences(c *gin.Context) {
	drift, err := h.queries.CheckReferences(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"drift": drift, "consistent": len(drift) == 0})
}
