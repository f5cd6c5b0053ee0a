package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/internal/config"
	"github.com/sangkips/pos-multicurrency/internal/domain/entity"
	"github.com/sangkips/pos-multicurrency/internal/infrastructure/repository"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/handler"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/routes"
	"github.com/sangkips/pos-multicurrency/internal/testutil"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/metrics"
	"github.com/sangkips/pos-multicurrency/pkg/printer"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type routesSuite struct {
	suite.Suite

	f      *testutil.Fixtures
	router *gin.Engine
	jwt    *utils.JWTManager
	logs   *bytes.Buffer
	db     *gorm.DB
}

func TestRoutesSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(routesSuite))
}

func (s *routesSuite) SetupTest() {
	db := testutil.NewDB(s.T())
	s.db = db
	s.f = testutil.Seed(s.T(), db)
	s.jwt = utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	s.logs = &bytes.Buffer{}
	log := logger.New(logger.Options{ServiceName: "pos-test", Level: logger.ParseLevel("debug"), Output: s.logs})
	registry := prometheus.NewRegistry()

	currencyRepo := repository.NewCurrencyRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	configRepo := repository.NewConfigRepository(db)
	userRepo := repository.NewUserRepository(db)
	txManager := repository.NewTransactionManager(db)

	rates := service.NewRateService(currencyRepo, repository.NewCompanyRepository(db), sessionRepo, paymentRepo)
	recomputer := service.NewRecomputer(orderRepo, sessionRepo, metrics.NewRecomputeMetrics(registry), log)
	orders := service.NewOrderService(sessionRepo, orderRepo, paymentRepo, repository.NewPaymentMethodRepository(db),
		currencyRepo, txManager, rates, recomputer, log)

	h := &routes.Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(userRepo, s.jwt)),
		Config:   handler.NewConfigHandler(service.NewConfigService(configRepo, currencyRepo, userRepo, txManager, rates, log), rates),
		Currency: handler.NewCurrencyHandler(rates),
		Order:    handler.NewOrderHandler(orders),
		Payment:  handler.NewPaymentHandler(service.NewPaymentService(paymentRepo, sessionRepo, currencyRepo, txManager, recomputer, log)),
		Session:  handler.NewSessionHandler(service.NewSessionService(sessionRepo, configRepo, paymentRepo, txManager, recomputer, log)),
		RPC:      handler.NewRPCHandler(rates),
		Printer:  handler.NewPrinterHandler(service.NewPrinterService(printer.NewNullPrinter(), orders, printer.TypeNone, "Shop", 32, log)),
	}

	cfg := &config.Config{
		App:       config.AppConfig{Name: "pos-test"},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
	}
	s.router = routes.Setup(h, &routes.Deps{
		JWTManager:      s.jwt,
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: repository.NewIdempotencyRepository(db),
		RPCMetrics:      metrics.NewRPCMetrics(registry),
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
}

func (s *routesSuite) token(u entity.User) string {
	token, err := s.jwt.GenerateAccessToken(u.ID, u.Email, u.CompanyID, u.GroupNames())
	s.Require().NoError(err)
	return token
}

type call struct {
	method  string
	path    string
	body    any
	user    *entity.User
	headers map[string]string
}

func (s *routesSuite) do(c call) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if c.body != nil {
		s.Require().NoError(json.NewEncoder(&body).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.user != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(*c.user))
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func (s *routesSuite) syncOrder(name, key string) *httptest.ResponseRecorder {
	return s.do(call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/pos/sessions/%d/orders", s.f.Session.ID),
		user:   &s.f.Cashier,
		body: map[string]any{
			"name":         name,
			"amount_total": "108.70",
			"payment_ids": []map[string]any{
				{"payment_method_id": s.f.Cash.ID, "payment_currency_id": s.f.EUR.ID, "payment_currency_amount": "100", "exchange_rate": "0.92"},
				{"payment_method_id": s.f.Cash.ID, "amount": "0.00"},
			},
		},
		headers: map[string]string{"Idempotency-Key": key},
	})
}

func (s *routesSuite) TestHealth() {
	w := s.do(call{method: http.MethodGet, path: "/health"})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok","service":"pos-test"}`, w.Body.String())
}

func (s *routesSuite) TestAuthentication() {
	w := s.do(call{method: http.MethodPost, path: "/pos/multi_currency/rates"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(call{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   map[string]string{"email": s.f.Cashier.Email, "password": testutil.Password},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(decode[envelope](s.T(), w).Data, &login))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), s.f.Cashier.Email)

	w = s.do(call{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   map[string]string{"email": s.f.Cashier.Email, "password": "wrong-password"},
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *routesSuite) TestRPCRates() {
	w := s.do(call{method: http.MethodPost, path: "/pos/multi_currency/rates", user: &s.f.Cashier})
	s.Require().Equal(http.StatusOK, w.Code)

	out := decode[map[string]any](s.T(), w)
	s.Equal(float64(s.f.USD.ID), out["base_currency_id"])
	rates := out["rates"].(map[string]any)
	s.Equal(1.0, rates[fmt.Sprint(s.f.USD.ID)])
	s.Equal(0.92, rates[fmt.Sprint(s.f.EUR.ID)])
	s.Equal(1.0, rates[fmt.Sprint(s.f.JPY.ID)])
	s.NotContains(out, "success")
}

func (s *routesSuite) TestRPCStatisticsErrors() {
	w := s.do(call{method: http.MethodPost, path: "/pos/multi_currency/statistics", user: &s.f.Cashier, body: map[string]any{}})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"error":"session_id is required"}`, w.Body.String())

	w = s.do(call{method: http.MethodPost, path: "/pos/multi_currency/statistics", user: &s.f.Cashier, body: map[string]any{"session_id": 9999}})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"error":"Session not found"}`, w.Body.String())

	metricsBody := s.do(call{method: http.MethodGet, path: "/metrics"}).Body.String()
	s.Contains(metricsBody, `pos_multi_currency_rpc_calls_total{method="get_multi_currency_statistics",outcome="error"} 2`)
}

func (s *routesSuite) TestRPCStatisticsMalformedSessionID() {
	s.logs.Reset()
	w := s.do(call{method: http.MethodPost, path: "/pos/multi_currency/statistics", user: &s.f.Cashier, body: map[string]any{"session_id": "abc"}})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"error":"session_id is required"}`, w.Body.String())

	s.Contains(s.logs.String(), "request body not bound")
	s.Contains(s.logs.String(), `"level":"debug"`)
	s.NotContains(s.logs.String(), "request error")
}

func (s *routesSuite) TestConfigStatisticsEmptyResult() {
	path := fmt.Sprintf("/api/v1/pos/configs/%d/multi_currency/statistics", s.f.Config.ID)

	w := s.do(call{method: http.MethodPost, path: path, user: &s.f.Cashier, body: map[string]any{}})
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"statistics":[],"session_id":null}`, w.Body.String())

	w = s.do(call{method: http.MethodPost, path: path, user: &s.f.Cashier, body: map[string]any{"session_id": 9999}})
	s.JSONEq(`{"statistics":[],"session_id":9999}`, w.Body.String())
}

func (s *routesSuite) TestOrderSyncFlow() {
	w := s.do(call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/pos/sessions/%d/orders", s.f.Session.ID),
		user:   &s.f.Cashier,
		body:   map[string]any{"name": "Order-1"},
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.syncOrder("Order-1", "key-1")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	first := w.Body.String()

	var order entity.OrderUIPayload
	s.Require().NoError(json.Unmarshal(decode[envelope](s.T(), w).Data, &order))
	s.True(order.HasForeignPayments)
	s.Equal(1, order.ForeignCurrencyCount)
	s.InDelta(108.70, order.TotalForeignAmount, 1e-9, "sum of base-currency amounts")
	s.Require().Len(order.Payments, 2)
	s.InDelta(108.70, order.Payments[0].Amount, 1e-9)

	replay := s.syncOrder("Order-1", "key-1")
	s.Equal(http.StatusCreated, replay.Code)
	s.Equal("true", replay.Header().Get("X-Idempotency-Replayed"))
	s.Equal(first, replay.Body.String())

	again := s.syncOrder("Order-1", "key-2")
	s.Equal(http.StatusOK, again.Code)

	w = s.do(call{method: http.MethodPost, path: "/pos/multi_currency/statistics", user: &s.f.Cashier, body: map[string]any{"session_id": s.f.Session.ID}})
	s.Require().Equal(http.StatusOK, w.Code)
	stats := decode[map[string]any](s.T(), w)
	s.Equal(float64(s.f.Session.ID), stats["session_id"])
	rows := stats["statistics"].([]any)
	s.Require().Len(rows, 1)
	row := rows[0].(map[string]any)
	s.Equal("EUR", row["currency_name"])
	s.Equal(100.0, row["total_amount"])
	s.Equal(1.0, row["transaction_count"])

	w = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/api/v1/pos/orders/%d/receipt", order.ID), user: &s.f.Cashier})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "1 USD = 0.9200 EUR")

	w = s.do(call{method: http.MethodPost, path: fmt.Sprintf("/api/v1/pos/orders/%d/receipt/print", order.ID), user: &s.f.Cashier})
	s.Equal(http.StatusOK, w.Code)

	w = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/api/v1/pos/sessions/%d", s.f.Session.ID), user: &s.f.Cashier})
	s.Require().Equal(http.StatusOK, w.Code)
	var session entity.PosSession
	s.Require().NoError(json.Unmarshal(decode[envelope](s.T(), w).Data, &session))
	s.True(session.HasForeignPayments)
	s.Equal(1, session.ForeignPaymentCount)
}

func (s *routesSuite) TestOrderSyncReusesExpiredKey() {
	s.Require().NoError(s.db.Create(&entity.IdempotencyKey{
		Key: "key-1", UserID: s.f.Cashier.ID, Endpoint: "POST /stale", ResponseCode: http.StatusCreated,
		ResponseBody: `{"stale":true}`, ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}).Error)

	w := s.syncOrder("Order-1", "key-1")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Empty(w.Header().Get("X-Idempotency-Replayed"))

	replay := s.syncOrder("Order-1", "key-1")
	s.Equal("true", replay.Header().Get("X-Idempotency-Replayed"))
	s.Equal(w.Body.String(), replay.Body.String())
}

func (s *routesSuite) TestPaymentDeleteRecomputesOrder() {
	w := s.syncOrder("Order-1", "key-1")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var order entity.OrderUIPayload
	s.Require().NoError(json.Unmarshal(decode[envelope](s.T(), w).Data, &order))

	foreignID := order.Payments[0].ID
	w = s.do(call{method: http.MethodDelete, path: fmt.Sprintf("/api/v1/pos/payments/%d", foreignID), user: &s.f.Cashier})
	s.Require().Equal(http.StatusNoContent, w.Code)

	w = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/api/v1/pos/orders/%d/ui", order.ID), user: &s.f.Cashier})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(decode[envelope](s.T(), w).Data, &order))
	s.False(order.HasForeignPayments)
	s.Len(order.Payments, 1)

	w = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/api/v1/pos/payments/%d", foreignID), user: &s.f.Cashier})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *routesSuite) TestManagerOnlyRoutes() {
	path := fmt.Sprintf("/api/v1/currencies/%d/rates", s.f.GBP.ID)
	body := map[string]any{"rate": "0.8"}

	w := s.do(call{method: http.MethodPost, path: path, user: &s.f.Cashier, body: body})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.do(call{method: http.MethodPost, path: path, user: &s.f.Editor, body: body})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/v1/pos/configs/%d/multi_currency", s.f.Config.ID),
		user:   &s.f.Editor,
		body:   map[string]any{"multi_currency_enabled": true, "multi_currency_ids": []uint{}},
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	resp := decode[envelope](s.T(), w)
	s.Equal(service.MsgCurrenciesRequired, resp.Message)
}

func (s *routesSuite) TestMultiCurrencyConfig() {
	w := s.do(call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/v1/pos/configs/%d/multi_currency/config", s.f.Config.ID),
		user:   &s.f.Editor,
	})
	s.Require().Equal(http.StatusOK, w.Code)

	var out service.MultiCurrencyConfig
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &out))
	s.True(out.Enabled)
	s.True(out.CanEditRate)
	s.Require().NotNil(out.BaseCurrency)
	s.Equal(s.f.USD.ID, out.BaseCurrency.ID)

	ids := make([]uint, 0, len(out.Currencies))
	for _, c := range out.Currencies {
		ids = append(ids, c.ID)
	}
	assert.Equal(s.T(), []uint{s.f.EUR.ID, s.f.GBP.ID, s.f.USD.ID}, ids)
}

func (s *routesSuite) TestConversionAndCurrencies() {
	w := s.do(call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/v1/currencies/conversion?from=%d&to=%d", s.f.EUR.ID, s.f.GBP.ID),
		user:   &s.f.Cashier,
	})
	s.Require().Equal(http.StatusOK, w.Code)
	var conv service.ConversionResult
	s.Require().NoError(json.Unmarshal(decode[envelope](s.T(), w).Data, &conv))
	s.InDelta(0.858696, conv.Rate, 1e-9)

	w = s.do(call{method: http.MethodGet, path: "/api/v1/currencies/conversion", user: &s.f.Cashier})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(call{method: http.MethodGet, path: "/api/v1/currencies?active=false", user: &s.f.Cashier})
	s.Require().Equal(http.StatusOK, w.Code)
	var currencies []service.CurrencyInfo
	s.Require().NoError(json.Unmarshal(decode[envelope](s.T(), w).Data, &currencies))
	s.Len(currencies, 5)
}

func (s *routesSuite) TestInvalidPathID() {
	w := s.do(call{method: http.MethodGet, path: "/api/v1/pos/orders/abc/ui", user: &s.f.Cashier})
	s.Equal(http.StatusBadRequest, w.Code)
}
