package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pago-gateway/internal/adapter/http/middleware"
	"pago-gateway/internal/core/domain"
	"pago-gateway/internal/core/ports"
	"pago-gateway/internal/core/ports/mocks"
	"pago-gateway/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testReference = "7owWEdQ5ZSeBPjDXuRvvhTuWWaXBBrdNCLRLT8rxQYNA"

func testIntent(state domain.IntentState) *domain.PaymentIntent {
	memo := "ord-1,5.00"
	p := &domain.PaymentIntent{
		Reference: testReference,
		AgentID:   "website",
		Origin:    domain.IntentOriginCheckout,
		Recipient: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		Amount:    domain.MustParseAmount("5.00"),
		Memo:      &memo,
		URL:       "solana:9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin?amount=5.00",
		State:     state,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if state == domain.IntentStateSettled {
		sig := "5sig"
		now := time.Date(2026, 1, 2, 3, 5, 0, 0, time.UTC)
		p.Signature = &sig
		p.UpdatedAt = &now
	}
	return p
}

func testAgent() *domain.Agent {
	return &domain.Agent{
		ID:       "agent-1",
		UserID:   "uid-1",
		Forename: "Ada",
		Surname:  "Lovelace",
		Merchant: domain.Merchant{ID: "m-1", Name: "Shop"},
		Wallets: []domain.ReceivingWallet{{
			Address:   "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
			AgentID:   "agent-1",
			Label:     "Primary",
			CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Checkout Handler Tests ---

func TestCheckout_Redirects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCheckout := mocks.NewMockCheckoutService(ctrl)
	h := NewCheckoutHandler(mockCheckout)

	mockCheckout.EXPECT().Resolve(gomock.Any(), ports.CheckoutRequest{
		OrderID: "ord-1",
		Amount:  "5.00",
	}).Return(testIntent(domain.IntentStateCreated), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/checkouts/ord-1-5.00-300", nil)
	c.Params = gin.Params{{Key: "checkout", Value: "ord-1-5.00-300"}}

	h.Checkout(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/requests/"+testReference+"-300", w.Header().Get("Location"))
	assert.Equal(t, testReference, c.GetString(middleware.CtxResourceID))
}

func TestCheckout_InvalidPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewCheckoutHandler(mocks.NewMockCheckoutService(ctrl))

	for _, path := range []string{"ord-1", "-5.00-300", "ord,1-5.00-300", "ord-1-5.00-big"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/checkouts/x", nil)
			c.Params = gin.Params{{Key: "checkout", Value: path}}

			h.Checkout(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "VAL_001", decode(t, w)["error_code"])
		})
	}
}

func TestCheckout_StoreUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCheckout := mocks.NewMockCheckoutService(ctrl)
	h := NewCheckoutHandler(mockCheckout)

	mockCheckout.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrStoreUnavailable(errors.New("connection refused")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/checkouts/ord-1-5.00-300", nil)
	c.Params = gin.Params{{Key: "checkout", Value: "ord-1-5.00-300"}}

	h.Checkout(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "SYS_001", resp["error_code"])
	assert.Equal(t, true, resp["retriable"])
}

// --- Request Handler Tests ---

func newRequestHandler(ctrl *gomock.Controller) (*RequestHandler, *mocks.MockSettlementService, *mocks.MockRequestService, *mocks.MockReportingService) {
	settlement := mocks.NewMockSettlementService(ctrl)
	requests := mocks.NewMockRequestService(ctrl)
	reporting := mocks.NewMockReportingService(ctrl)
	return NewRequestHandler(settlement, requests, reporting), settlement, requests, reporting
}

func TestVerify_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		intent    *domain.PaymentIntent
		err       error
		wantCode  int
		wantError string
	}{
		{name: "settled", intent: testIntent(domain.IntentStateSettled), wantCode: http.StatusOK},
		{name: "pending", err: apperror.ErrNotYetSettled(), wantCode: http.StatusAccepted, wantError: "SET_001"},
		{name: "unknown reference", err: apperror.ErrNotFound("Payment intent"), wantCode: http.StatusNotFound, wantError: "PAY_003"},
		{name: "mismatch", err: apperror.ErrSettlementMismatch("amount_mismatch"), wantCode: http.StatusConflict, wantError: "SET_002"},
		{name: "ledger down", err: apperror.ErrLedgerUnavailable(errors.New("timeout")), wantCode: http.StatusServiceUnavailable, wantError: "SYS_002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			h, settlement, _, _ := newRequestHandler(ctrl)
			settlement.EXPECT().Verify(gomock.Any(), testReference).Return(tt.intent, tt.err)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/requests/"+testReference, nil)
			c.Params = gin.Params{{Key: "reference", Value: testReference}}

			h.Verify(c)

			assert.Equal(t, tt.wantCode, w.Code)
			resp := decode(t, w)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp["error_code"])
				return
			}
			data := resp["data"].(map[string]interface{})
			assert.Equal(t, "SETTLED", data["state"])
			assert.Equal(t, "5sig", data["signature"])
			assert.Equal(t, "5.00", data["amount"])
		})
	}
}

func TestVerify_PendingIsRetriable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, settlement, _, _ := newRequestHandler(ctrl)
	settlement.EXPECT().Verify(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrNotYetSettled())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/requests/x", nil)
	c.Params = gin.Params{{Key: "reference", Value: "x"}}

	h.Verify(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, true, decode(t, w)["retriable"])
}

func TestCreateRequest_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, requests, _ := newRequestHandler(ctrl)
	agent := testAgent()

	intent := testIntent(domain.IntentStateCreated)
	intent.Origin = domain.IntentOriginAgent
	requests.EXPECT().CreateForAgent(gomock.Any(), agent, "12.50").Return(intent, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/requests", bytes.NewReader([]byte(`{"amount":"12.50"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgent, agent)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, testReference, data["reference"])
	assert.Equal(t, "AGENT", data["origin"])
	assert.Equal(t, testReference, c.GetString(middleware.CtxResourceID))
}

func TestCreateRequest_NoAgent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, _ := newRequestHandler(ctrl)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/requests", bytes.NewReader([]byte(`{"amount":"1"}`)))

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRequest_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, _ := newRequestHandler(ctrl)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/requests", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgent, testAgent())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", decode(t, w)["error_code"])
}

func TestCreateRequest_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, requests, _ := newRequestHandler(ctrl)
	requests.EXPECT().CreateForAgent(gomock.Any(), gomock.Any(), "-1").Return(nil, apperror.ErrInvalidAmount())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/requests", bytes.NewReader([]byte(`{"amount":"-1"}`)))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAgent, testAgent())

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PAY_001", decode(t, w)["error_code"])
}

func TestListRequests_Paginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, reporting := newRequestHandler(ctrl)
	settled := domain.IntentStateSettled
	reporting.EXPECT().ListIntents(gomock.Any(), ports.IntentListParams{
		AgentID:  "agent-1",
		State:    &settled,
		Page:     2,
		PageSize: 10,
	}).Return([]domain.PaymentIntent{*testIntent(domain.IntentStateSettled)}, int64(11), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/requests?page=2&page_size=10&state=SETTLED", nil)
	c.Set(middleware.CtxAgent, testAgent())

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(11), data["total"])
	assert.Equal(t, float64(2), data["total_pages"])
	assert.Len(t, data["items"], 1)
}

func TestListRequests_ClampsPageSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, reporting := newRequestHandler(ctrl)
	reporting.EXPECT().ListIntents(gomock.Any(), ports.IntentListParams{
		AgentID:  "agent-1",
		Page:     1,
		PageSize: 20,
	}).Return(nil, int64(0), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/requests?page=0&page_size=500", nil)
	c.Set(middleware.CtxAgent, testAgent())

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, data["items"])
	assert.Equal(t, float64(0), data["total_pages"])
}

func TestListRequests_InvalidFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, _, _, _ := newRequestHandler(ctrl)

	for _, q := range []string{"state=PAID", "origin=POS"} {
		t.Run(q, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/requests?"+q, nil)
			c.Set(middleware.CtxAgent, testAgent())

			h.List(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// --- Session Handler Tests ---

func TestStartSession_SetsCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessions := mocks.NewMockSessionService(ctrl)
	h := NewSessionHandler(mockSessions, true)

	agent := testAgent()
	mockSessions.EXPECT().Start(gomock.Any(), "id-token").Return(&ports.Session{
		Token:    "id-token",
		MaxAge:   time.Hour,
		Identity: &ports.Identity{UserID: "uid-1"},
		Agent:    agent,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/me", nil)
	c.Request.Header.Set("Authorization", "Bearer id-token")

	h.Start(c)

	assert.Equal(t, http.StatusOK, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "session=id-token")
	assert.Contains(t, cookie, "Max-Age=3600")
	assert.Contains(t, cookie, "HttpOnly")
	assert.Contains(t, cookie, "Secure")
	assert.Contains(t, cookie, "SameSite=Strict")

	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "agent-1", data["id"])
	assert.Len(t, data["wallets"], 1)
	assert.Equal(t, "agent-1", c.GetString(middleware.CtxAgentID))
}

func TestStartSession_MissingBearer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewSessionHandler(mocks.NewMockSessionService(ctrl), false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/me", nil)

	h.Start(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestStartSession_StaleSignInClearsCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessions := mocks.NewMockSessionService(ctrl)
	h := NewSessionHandler(mockSessions, false)
	mockSessions.EXPECT().Start(gomock.Any(), "old").Return(nil, apperror.ErrSessionExpired())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/me", nil)
	c.Request.Header.Set("Authorization", "Bearer old")

	h.Start(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
	assert.Equal(t, "AUTH_002", decode(t, w)["error_code"])
}

func TestStartSession_IdentityUnavailableKeepsCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSessions := mocks.NewMockSessionService(ctrl)
	h := NewSessionHandler(mockSessions, false)
	mockSessions.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrIdentityUnavailable(errors.New("certs fetch failed")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/me", nil)
	c.Request.Header.Set("Authorization", "Bearer tok")

	h.Start(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

// --- Dashboard Handler Tests ---

func TestDashboardStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	mockReporting.EXPECT().GetDashboardStats(gomock.Any(), "agent-1", "week").Return(&ports.IntentStats{
		Total:         3,
		Created:       1,
		Settled:       2,
		SettledVolume: "10.50",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats?period=week", nil)
	c.Set(middleware.CtxAgent, testAgent())

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["settled"])
	assert.Equal(t, "10.50", data["settled_volume"])
}

func TestDashboardStats_DefaultPeriod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)
	mockReporting.EXPECT().GetDashboardStats(gomock.Any(), "agent-1", "all").Return(&ports.IntentStats{SettledVolume: "0"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	c.Set(middleware.CtxAgent, testAgent())

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// --- Health Tests ---

func TestHealthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	healthy := mocks.NewMockHealthChecker(ctrl)
	healthy.EXPECT().Name().Return("postgres").AnyTimes()
	healthy.EXPECT().Ping(gomock.Any()).Return(nil)

	down := mocks.NewMockHealthChecker(ctrl)
	down.EXPECT().Name().Return("solana").AnyTimes()
	down.EXPECT().Ping(gomock.Any()).Return(errors.New("node is behind"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(healthy, down)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "healthy", deps["postgres"].(map[string]interface{})["status"])
	assert.Equal(t, "node is behind", deps["solana"].(map[string]interface{})["error"])
}

// --- Router Tests ---

func newTestRouter(t *testing.T, ctrl *gomock.Controller) (*gin.Engine, *mocks.MockCheckoutService, *mocks.MockSessionService, *mocks.MockAuditService) {
	t.Helper()
	checkout := mocks.NewMockCheckoutService(ctrl)
	sessions := mocks.NewMockSessionService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)

	r := SetupRouter(RouterDeps{
		CheckoutSvc:   checkout,
		SettlementSvc: mocks.NewMockSettlementService(ctrl),
		RequestSvc:    mocks.NewMockRequestService(ctrl),
		SessionSvc:    sessions,
		ReportingSvc:  mocks.NewMockReportingService(ctrl),
		AuditSvc:      audit,
		Logger:        zerolog.Nop(),
	})
	return r, checkout, sessions, audit
}

func TestRouter_CheckoutIsAudited(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, checkout, _, audit := newTestRouter(t, ctrl)
	checkout.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(testIntent(domain.IntentStateCreated), nil)
	audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ interface{}, entry *domain.AuditLog) {
		assert.Equal(t, domain.AuditActionCheckout, entry.Action)
		assert.Equal(t, testReference, entry.ResourceID)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/checkouts/ord-1-5.00-300", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_AgentRoutesRequireIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, _, _, _ := newTestRouter(t, ctrl)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/requests"},
		{http.MethodGet, "/api/v1/requests"},
		{http.MethodGet, "/api/v1/dashboard/stats"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(route.method, route.path, strings.NewReader(`{}`)))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_SessionCookieAuthenticates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	checkout := mocks.NewMockCheckoutService(ctrl)
	sessions := mocks.NewMockSessionService(ctrl)
	reporting := mocks.NewMockReportingService(ctrl)
	r := SetupRouter(RouterDeps{
		CheckoutSvc:   checkout,
		SettlementSvc: mocks.NewMockSettlementService(ctrl),
		RequestSvc:    mocks.NewMockRequestService(ctrl),
		SessionSvc:    sessions,
		ReportingSvc:  reporting,
		Logger:        zerolog.Nop(),
	})

	sessions.EXPECT().Authenticate(gomock.Any(), "cookie-token").Return(testAgent(), nil)
	reporting.EXPECT().GetDashboardStats(gomock.Any(), "agent-1", "all").Return(&ports.IntentStats{SettledVolume: "0"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "cookie-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwagger(t *testing.T) {
	empty := SetupRouter(RouterDeps{Logger: zerolog.Nop()})
	w := httptest.NewRecorder()
	empty.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/spec", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	r := SetupRouter(RouterDeps{OpenAPISpec: []byte("openapi: 3.0.3"), Logger: zerolog.Nop()})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/spec", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "openapi: 3.0.3", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/swagger/spec")
}
