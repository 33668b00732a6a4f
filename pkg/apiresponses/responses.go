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
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIError is the wire shape of every non-2xx response body.
type APIError struct {
	// Error identifies the failure class, e.g. "validation_error" or
	// "transport_error". Stable across releases.
	Error string `json:"error"`
	// Message explains the failure to a human.
	Message string `json:"message"`
	// Details carries optional free-form context, such as the field list
	// from a failed request binding.
	Details string `json:"details,omitempty"`
}

// RespondError writes an error payload and aborts the handler chain.
// Callers that already classified their failure pass the kind through.
func RespondError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, APIError{Error: kind, Message: message})
}

// RespondErrorWithDetails is RespondError with extra context attached.
func RespondErrorWithDetails(c *gin.Context, status int, kind, message, details string) {
	c.AbortWithStatusJSON(status, APIError{Error: kind, Message: message, Details: details})
}

// RespondValidationError rejects the request as a caller mistake.
func RespondValidationError(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, "validation_error", message)
}

// RespondValidationErrorWithDetails rejects the request and names the
// offending fields.
func RespondValidationErrorWithDetails(c *gin.Context, message, details string) {
	RespondErrorWithDetails(c, http.StatusBadRequest, "validation_error", message, details)
}

// RespondNotFound answers 404 for a resource no configuration entry
// matches, e.g. an unknown account name.
func RespondNotFound(c *gin.Context, resourceType, resourceName string) {
	RespondError(c, http.StatusNotFound, "not_found", fmt.Sprintf("%s not found: %s", resourceType, resourceName))
}

// RespondRateLimited answers 429. An empty message falls back to a
// generic one.
func RespondRateLimited(c *gin.Context, message string) {
	if message == "" {
		message = "rate limit exceeded"
	}
	RespondError(c, http.StatusTooManyRequests, "rate_limited", message)
}

// RespondInternalError answers a sanitized 500. The caller names the
// operation that failed; the underlying error goes to the log only so
// provider responses and credentials never leak into an API body.
func RespondInternalError(c *gin.Context, operation string, err error, log *zap.SugaredLogger) {
	if log != nil {
		log.Errorw(fmt.Sprintf("Failed to %s", operation), "error", err)
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", "failed to "+operation)
}
