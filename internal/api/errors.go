package api

import (
	"errors"
	"net/http"

	"shop-tracker/internal/scraper"
	"shop-tracker/internal/store"
	"shop-tracker/internal/tracker"

	"github.com/gin-gonic/gin"
)

// ErrorResponse é o corpo padrão das respostas de erro
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor traduz os erros conhecidos em códigos HTTP
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		return http.StatusNotFound, "Produto não encontrado"
	case errors.Is(err, tracker.ErrQuotaExceeded):
		return http.StatusPaymentRequired, "Limite mensal de análises atingido"
	case errors.Is(err, scraper.ErrExtractionUnavailable):
		return http.StatusUnprocessableEntity, "Dados indisponíveis nesta página"
	case errors.Is(err, scraper.ErrUnsupportedPage):
		return http.StatusBadRequest, "Página não suportada"
	case errors.Is(err, store.ErrInvalidTarget),
		errors.Is(err, tracker.ErrInvalidCompetition),
		errors.Is(err, tracker.ErrNoFetcher):
		return http.StatusBadRequest, "Requisição inválida"
	}
	return http.StatusInternalServerError, "Erro interno"
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("Erro ao processar requisição")
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: message, Details: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Requisição inválida", Details: err.Error()})
}
