package ask

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/metropolia-apps/faq-core/internal/middleware"
	"github.com/metropolia-apps/faq-core/internal/pkg/response"
	"github.com/metropolia-apps/faq-core/internal/validate"
)

// Handler serves the public question endpoint.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ask", h.ask)
}

// POST /ask
func (h *Handler) ask(c *gin.Context) {
	var dto askDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "Invalid request body.")
		return
	}

	q, fieldErr := validate.ValidateQuery(dto.Text, dto.Question)
	if fieldErr != nil {
		response.BadRequest(c, fieldErr.Message)
		return
	}

	answer, err := h.svc.Ask(c.Request.Context(), q)
	if err != nil {
		h.logger.Error("ask failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		response.UpstreamUnavailable(c)
		return
	}

	c.JSON(http.StatusOK, askResponse{Answer: answer})
}
