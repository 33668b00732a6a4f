// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReqLoggerKey is the context key used to store request-scoped logger in gin context.
const ReqLoggerKey = "reqLogger"

// RequestIDHeader carries the request correlation ID on both requests and responses.
const RequestIDHeader = "X-Request-Id"

// GetReqLogger returns the request-scoped sugared logger from gin.Context if present,
// otherwise returns a fallback sugared logger derived from the provided zap.Logger.
func GetReqLogger(c *gin.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return fallback
	}
	if v, ok := c.Get(ReqLoggerKey); ok {
		if l, ok2 := v.(*zap.SugaredLogger); ok2 {
			return l
		}
	}
	return fallback
}

// RequestLogger returns middleware that stores a request-scoped logger under
// ReqLoggerKey. The logger carries a correlation ID taken from the inbound
// X-Request-Id header when present, freshly generated otherwise; the ID is
// echoed back on the response so callers can match reports to sends.
func RequestLogger(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(ReqLoggerKey, base.With("requestID", reqID))
		c.Header(RequestIDHeader, reqID)
		c.Next()
	}
}

// DeliveryFields returns a variadic slice of key/value pairs suitable for passing
// to SugaredLogger.With or Infow/Errorw calls when logging a dispatch. If mode is
// empty it will only include the "account" key; otherwise it includes both.
func DeliveryFields(account, mode string) []interface{} {
	if mode == "" {
		return []interface{}{"account", account}
	}
	return []interface{}{"account", account, "mode", mode}
}
