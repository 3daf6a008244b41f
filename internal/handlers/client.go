package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/repos"
	"github.com/yungbote/gymbridge-backend/internal/services"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

type ClientHandler struct {
	log          *logger.Logger
	clientRepo   repos.ClientRepo
	trackingRepo repos.TrackingRecordRepo
	queries      services.MembershipQueryService
	associations services.AssociationService
}

func NewClientHandler(
	log *logger.Logger,
	clientRepo repos.ClientRepo,
	trackingRepo repos.TrackingRecordRepo,
	queries services.MembershipQueryService,
	associations services.AssociationService,
) *ClientHandler {
	return &ClientHandler{
		log:          log.With("handler", "ClientHandler"),
		clientRepo:   clientRepo,
		trackingRepo: trackingRepo,
		queries:      queries,
		associations: associations,
	}
}

type createClientRequest struct {
	Name      string     `json:"name" binding:"required"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birth_date"`
	Level     string     `json:"level"`
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Level == "" {
		req.Level = types.LevelBeginner
	}

	row, err := h.clientRepo.Create(c.Request.Context(), nil, &types.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Level:     req.Level,
	})
	if err != nil {
		h.log.Error("CreateClient failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "create_client_failed", err)
		return
	}
	RespondOK(c, gin.H{"client": row})
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	rows, err := h.clientRepo.List(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("ListClients failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_clients_failed", err)
		return
	}
	RespondOK(c, gin.H{"clients": rows})
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}

	row, err := h.clientRepo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "client_not_found", err)
			return
		}
		h.log.Error("GetClient failed", "error", err, "client_id", id)
		RespondError(c, http.StatusInternalServerError, "get_client_failed", err)
		return
	}
	RespondOK(c, gin.H{"client": row})
}

func (h *ClientHandler) GetClientPlans(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}

	views, err := h.queries.PlansForClient(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plans": views})
}

func (h *ClientHandler) GetAvailablePlans(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}

	plans, err := h.queries.AvailablePlansForClient(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"plans": plans})
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}
	force := c.Query("force") == "true"

	if err := h.associations.RemoveClient(c.Request.Context(), id, force); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

type createTrackingRequest struct {
	PlanID     uuid.UUID `json:"plan_id" binding:"required"`
	WeightKG   float64   `json:"weight_kg"`
	HeightCM   float64   `json:"height_cm"`
	BodyFatPct float64   `json:"body_fat_pct"`
	Notes      string    `json:"notes"`
	MeasuredAt time.Time `json:"measured_at"`
}

func (h *ClientHandler) CreateTrackingRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}

	var req createTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.MeasuredAt.IsZero() {
		req.MeasuredAt = time.Now().UTC()
	}

	row, err := h.trackingRepo.Create(c.Request.Context(), nil, &types.TrackingRecord{
		ClientID:   id,
		PlanID:     req.PlanID,
		WeightKG:   req.WeightKG,
		HeightCM:   req.HeightCM,
		BodyFatPct: req.BodyFatPct,
		Notes:      req.Notes,
		MeasuredAt: req.MeasuredAt,
	})
	if err != nil {
		h.log.Error("CreateTrackingRecord failed", "error", err, "client_id", id)
		RespondError(c, http.StatusInternalServerError, "create_tracking_failed", err)
		return
	}
	RespondOK(c, gin.H{"tracking_record": row})
}

func (h *ClientHandler) ListTrackingRecords(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_client_id", err)
		return
	}

	rows, err := h.trackingRepo.GetByClientID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("ListTrackingRecords failed", "error", err, "client_id", id)
		RespondError(c, http.StatusInternalServerError, "list_tracking_failed", err)
		return
	}
	RespondOK(c, gin.H{"tracking_records": rows})
}
