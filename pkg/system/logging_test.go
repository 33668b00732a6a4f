package system

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetReqLoggerFallbackWhenContextNil(t *testing.T) {
	fallback := zap.NewNop().Sugar()
	require.Same(t, fallback, GetReqLogger(nil, fallback))
}

func TestGetReqLoggerFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	fallback := zap.NewNop().Sugar()
	stored := zap.NewNop().Sugar()
	ctx.Set(ReqLoggerKey, stored)
	require.Same(t, stored, GetReqLogger(ctx, fallback))
}

func TestGetReqLoggerIgnoresInvalidTypes(t *testing.T) {
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	fallback := zap.NewNop().Sugar()
	ctx.Set(ReqLoggerKey, "not-a-logger")
	require.Same(t, fallback, GetReqLogger(ctx, fallback))
}

func TestRequestLoggerStoresLoggerAndHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zap.DebugLevel)
	base := zap.New(core).Sugar()

	engine := gin.New()
	engine.Use(RequestLogger(base))
	engine.GET("/probe", func(c *gin.Context) {
		GetReqLogger(c, base).Infow("handled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	engine.ServeHTTP(w, req)

	require.NotEmpty(t, w.Header().Get(RequestIDHeader))

	entries := recorded.All()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].ContextMap(), "requestID")
}

func TestRequestLoggerKeepsInboundID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(RequestLogger(zap.NewNop().Sugar()))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(RequestIDHeader, "caller-chosen-id")
	engine.ServeHTTP(w, req)

	require.Equal(t, "caller-chosen-id", w.Header().Get(RequestIDHeader))
}

func TestDeliveryFields(t *testing.T) {
	require.Equal(t, []interface{}{"account", "general", "mode", "bcc"}, DeliveryFields("general", "bcc"))
	require.Equal(t, []interface{}{"account", "general"}, DeliveryFields("general", ""))
}
