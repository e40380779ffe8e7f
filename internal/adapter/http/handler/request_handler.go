package handler

import (
	"math"
	"strconv"

	"pago-gateway/internal/adapter/http/dto"
	"pago-gateway/internal/adapter/http/middleware"
	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
	"pago-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequestHandler serves payment requests: settlement polling, creation by
// agents, and listing.
type RequestHandler struct {
	settlementSvc ports.SettlementService
	requestSvc    ports.RequestService
	reportingSvc  ports.ReportingService
}

func NewRequestHandler(
	settlementSvc ports.SettlementService,
	requestSvc ports.RequestService,
	reportingSvc ports.ReportingService,
) *RequestHandler {
	return &RequestHandler{
		settlementSvc: settlementSvc,
		requestSvc:    requestSvc,
		reportingSvc:  reportingSvc,
	}
}

// Verify handles GET /api/v1/requests/:reference.
// 200 settled, 202 not on the ledger yet, 409 the ledger transaction does
// not match, 503 store or ledger unavailable.
func (h *RequestHandler) Verify(c *gin.Context) {
	intent, err := h.settlementSvc.Verify(c.Request.Context(), c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewIntentResponse(intent))
}

// Create handles POST /api/v1/requests.
func (h *RequestHandler) Create(c *gin.Context) {
	agent, ok := middleware.AgentFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	intent, err := h.requestSvc.CreateForAgent(c.Request.Context(), agent, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, intent.Reference)
	response.Created(c, dto.NewIntentResponse(intent))
}

// List handles GET /api/v1/requests.
func (h *RequestHandler) List(c *gin.Context) {
	agent, ok := middleware.AgentFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.IntentListParams{
		AgentID:  agent.ID,
		Page:     page,
		PageSize: pageSize,
	}
	if s := c.Query("state"); s != "" {
		state := domain.IntentState(s)
		if state != domain.IntentStateCreated && state != domain.IntentStateSettled {
			response.Error(c, apperror.Validation("invalid state: must be CREATED or SETTLED"))
			return
		}
		params.State = &state
	}
	if o := c.Query("origin"); o != "" {
		origin := domain.IntentOrigin(o)
		if origin != domain.IntentOriginCheckout && origin != domain.IntentOriginAgent {
			response.Error(c, apperror.Validation("invalid origin: must be CHECKOUT or AGENT"))
			return
		}
		params.Origin = &origin
	}

	intents, total, err := h.reportingSvc.ListIntents(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.IntentResponse, 0, len(intents))
	for i := range intents {
		items = append(items, dto.NewIntentResponse(&intents[i]))
	}

	response.OK(c, dto.IntentListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	})
}
