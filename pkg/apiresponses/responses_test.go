/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apiresponses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondErrorPassesKindThrough(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, http.StatusInternalServerError, "transport_error", "smtp send failed: 550 relay denied")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, c.IsAborted())
	resp := decodeError(t, w)
	assert.Equal(t, "transport_error", resp.Error)
	assert.Equal(t, "smtp send failed: 550 relay denied", resp.Message)
	assert.Empty(t, resp.Details)
}

func TestRespondErrorOmitsEmptyDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondError(c, http.StatusBadRequest, "validation_error", "invalid email")

	assert.NotContains(t, w.Body.String(), "details")
}

func TestRespondValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondValidationError(c, "either template or html must be provided")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "validation_error", resp.Error)
	assert.Equal(t, "either template or html must be provided", resp.Message)
}

func TestRespondValidationErrorWithDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondValidationErrorWithDetails(c, "request validation failed", `subject failed "required" validation`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "validation_error", resp.Error)
	assert.Equal(t, "request validation failed", resp.Message)
	assert.Equal(t, `subject failed "required" validation`, resp.Details)
}

func TestRespondNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondNotFound(c, "account", "marketing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "not_found", resp.Error)
	assert.Equal(t, "account not found: marketing", resp.Message)
}

func TestRespondRateLimitedDefaultMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondRateLimited(c, "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "rate_limited", resp.Error)
	assert.Equal(t, "rate limit exceeded", resp.Message)
}

func TestRespondInternalErrorSanitizesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondInternalError(c, "dispatch send request", errors.New("password=hunter2 leaked"), zap.NewNop().Sugar())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "internal_error", resp.Error)
	assert.Equal(t, "failed to dispatch send request", resp.Message)
	assert.NotContains(t, w.Body.String(), "hunter2", "the underlying error must stay in the logs")
}

func TestRespondInternalErrorNilLogger(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondInternalError(c, "render template", errors.New("boom"), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
