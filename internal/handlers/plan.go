package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/repos"
	"github.com/yungbote/gymbridge-backend/internal/types"
)

type PlanHandler struct {
	log      *logger.Logger
	planRepo repos.PlanRepo
}

func NewPlanHandler(log *logger.Logger, planRepo repos.PlanRepo) *PlanHandler {
	return &PlanHandler{
		log:      log.With("handler", "PlanHandler"),
		planRepo: planRepo,
	}
}

type createPlanRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Level        string  `json:"level"`
	MonthlyPrice float64 `json:"monthly_price"`
}

func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Level == "" {
		req.Level = types.LevelBeginner
	}

	row, err := h.planRepo.Create(c.Request.Context(), nil, &types.Plan{
		Name:         req.Name,
		Description:  req.Description,
		Level:        req.Level,
		MonthlyPrice: req.MonthlyPrice,
		State:        types.PlanStateActive,
	})
	if err != nil {
		h.log.Error("CreatePlan failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "create_plan_failed", err)
		return
	}
	RespondOK(c, gin.H{"plan": row})
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	state := c.Query("state")

	var (
		rows []*types.Plan
		err  error
	)
	if state != "" {
		rows, err = h.planRepo.ListByState(c.Request.Context(), nil, state)
	} else {
		rows, err = h.planRepo.List(c.Request.Context(), nil)
	}
	if err != nil {
		h.log.Error("ListPlans failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "list_plans_failed", err)
		return
	}
	RespondOK(c, gin.H{"plans": rows})
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_plan_id", err)
		return
	}

	row, err := h.planRepo.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			RespondError(c, http.StatusNotFound, "plan_not_found", err)
			return
		}
		h.log.Error("GetPlan failed", "error", err, "plan_id", id)
		RespondError(c, http.StatusInternalServerError, "get_plan_failed", err)
		return
	}
	RespondOK(c, gin.H{"plan": row})
}
