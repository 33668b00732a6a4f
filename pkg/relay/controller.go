// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/telekom/mailgate/pkg/apiresponses"
	"github.com/telekom/mailgate/pkg/system"
)

// RelayController serves the send endpoints. The bare route delivers via
// the default account, the parameterized route via a named one.
type RelayController struct {
	service  *Service
	handlers []gin.HandlerFunc
	log      *zap.SugaredLogger
}

func (rc *RelayController) BasePath() string { return "" }

func (rc *RelayController) Register(rg *gin.RouterGroup) error {
	rg.POST("/send-email", instrument("sendEmail", rc.handleSend))
	rg.POST("/send-email/:account", instrument("sendEmailAccount", rc.handleSend))
	return nil
}

// Handlers returns the middlewares applied to every relay route, typically
// the rate limiter when it is enabled.
func (rc *RelayController) Handlers() []gin.HandlerFunc {
	return rc.handlers
}

func (rc *RelayController) handleSend(c *gin.Context) {
	accountName := c.Param("account")
	log := system.GetReqLogger(c, rc.log)

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rc.respondBindError(c, err)
		return
	}
	log.Debugw("send request received", "account", accountName, "recipients", len(req.Recipients))

	result, err := rc.service.Dispatch(c.Request.Context(), accountName, &req)
	if err != nil {
		rc.respondDispatchError(c, log, accountName, err)
		return
	}
	c.JSON(result.HTTPStatus(), result)
}

// respondBindError turns binding failures into 400s. Field-level validator
// failures get collapsed into a readable details line.
func (rc *RelayController) respondBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed %q validation", strings.ToLower(fe.Field()), fe.Tag()))
		}
		apiresponses.RespondValidationErrorWithDetails(c, "request validation failed", strings.Join(parts, "; "))
		return
	}
	apiresponses.RespondValidationError(c, "invalid request body: "+err.Error())
}

// respondDispatchError maps a relay failure onto the wire. Transport and
// configuration messages pass through unredacted so the caller learns the
// actual rejection reason; only unclassified errors get sanitized, logged
// with the request-scoped logger so the cause can be found by request ID.
func (rc *RelayController) respondDispatchError(c *gin.Context, log *zap.SugaredLogger, accountName string, err error) {
	switch kind := KindOf(err); kind {
	case KindNotFound:
		apiresponses.RespondNotFound(c, "account", accountName)
	case KindInternal:
		apiresponses.RespondInternalError(c, "dispatch send request", err, log)
	default:
		apiresponses.RespondError(c, HTTPStatus(err), kind.String(), err.Error())
	}
}

// NewRelayController wires the send endpoints to a relay service. Extra
// handlers run in front of every route registered here.
func NewRelayController(service *Service, log *zap.SugaredLogger, handlers ...gin.HandlerFunc) *RelayController {
	return &RelayController{
		service:  service,
		handlers: handlers,
		log:      log.Named("relay-api"),
	}
}
