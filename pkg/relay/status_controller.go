package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telekom/mailgate/pkg/version"
)

// StatusController serves the operator endpoints: liveness, build info and
// the configured account listing.
type StatusController struct {
	service *Service
}

func (sc *StatusController) BasePath() string { return "" }

func (sc *StatusController) Register(rg *gin.RouterGroup) error {
	rg.GET("/health", instrument("health", sc.handleHealth))
	rg.GET("/version", instrument("version", sc.handleVersion))
	rg.GET("/accounts", instrument("listAccounts", sc.handleAccounts))
	return nil
}

func (sc *StatusController) Handlers() []gin.HandlerFunc { return nil }

func (sc *StatusController) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
	})
}

func (sc *StatusController) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.GetBuildInfo())
}

func (sc *StatusController) handleAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"accounts": sc.service.Accounts()})
}

func NewStatusController(service *Service) *StatusController {
	return &StatusController{service: service}
}
