package api

import (
	"bytes"
	"fmt"
	"net/http"

	"shop-tracker/internal/export"
	"shop-tracker/internal/models"
	"shop-tracker/internal/store"
	"shop-tracker/internal/tracker"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler expõe o documento de monitoramento por HTTP
type Handler struct {
	tracker *tracker.Service
	store   *store.Store
	logger  *logrus.Logger
}

// NewRouter cria o engine gin com as rotas em /api
func NewRouter(svc *tracker.Service, st *store.Store, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	SetupRoutes(r.Group("/api"), svc, st, logger)
	return r
}

// SetupRoutes registra as rotas no grupo informado
func SetupRoutes(r *gin.RouterGroup, svc *tracker.Service, st *store.Store, logger *logrus.Logger) *Handler {
	h := &Handler{tracker: svc, store: st, logger: logger}

	r.GET("/storage", h.GetStorage)
	r.GET("/classify", h.Classify)
	r.POST("/extract", h.Extract)
	r.POST("/track", h.Track)

	products := r.Group("/products")
	{
		products.POST("", h.AddProduct)
		products.PATCH("/:id", h.UpdateProduct)
		products.POST("/:id/refresh", h.RefreshProduct)
		products.DELETE("/:id", h.RemoveProduct)
	}

	competitors := r.Group("/competitors")
	{
		competitors.POST("", h.AddCompetitor)
		competitors.DELETE("/:id", h.RemoveCompetitor)
	}

	alerts := r.Group("/alerts")
	{
		alerts.POST("", h.AddAlert)
		alerts.DELETE("/:id", h.RemoveAlert)
	}

	trends := r.Group("/trends")
	{
		trends.POST("", h.AddTrend)
		trends.DELETE("/:id", h.RemoveTrend)
	}

	usage := r.Group("/usage")
	{
		usage.GET("", h.GetUsage)
		usage.POST("/consume", h.ConsumeUsage)
		usage.POST("/reset", h.ResetUsage)
	}

	r.PATCH("/settings", h.UpdateSettings)
	r.DELETE("/data", h.ClearData)
	r.GET("/export", h.Export)

	return h
}

type pageRequest struct {
	URL  string `json:"url" binding:"required"`
	HTML string `json:"html"`
}

type alertRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	TargetPrice float64 `json:"targetPrice"`
}

// GetStorage retorna o documento completo
func (h *Handler) GetStorage(c *gin.Context) {
	doc, err := h.store.Read(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Classify informa a loja e o tipo de página de uma URL
func (h *Handler) Classify(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Parâmetro url é obrigatório"})
		return
	}
	site, kind := h.tracker.Classify(url)
	c.JSON(http.StatusOK, gin.H{"site": site, "kind": kind.String()})
}

// Extract extrai a página sem gravar nada
func (h *Handler) Extract(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.tracker.Extract(c.Request.Context(), req.URL, req.HTML)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Track extrai a página e começa a monitorar o produto ou seguir a loja
func (h *Handler) Track(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.tracker.TrackURL(c.Request.Context(), req.URL, req.HTML)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// AddProduct monitora um produto com dados já extraídos
func (h *Handler) AddProduct(c *gin.Context) {
	var req models.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.tracker.TrackProduct(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result.Product)
}

// UpdateProduct aplica uma atualização parcial ao produto
func (h *Handler) UpdateProduct(c *gin.Context) {
	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	product, found, err := h.store.UpdateTrackedProduct(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !found {
		h.respondError(c, store.ErrProductNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

// RefreshProduct baixa novamente a página do produto
func (h *Handler) RefreshProduct(c *gin.Context) {
	product, err := h.tracker.RefreshProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// RemoveProduct deixa de monitorar o produto
func (h *Handler) RemoveProduct(c *gin.Context) {
	if err := h.store.RemoveTrackedProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddCompetitor segue uma loja com dados já extraídos
func (h *Handler) AddCompetitor(c *gin.Context) {
	var nc models.NewCompetitor
	if err := c.ShouldBindJSON(&nc); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.tracker.TrackSeller(c.Request.Context(), nc)
	if err != nil {
		h.respondError(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, result.Competitor)
}

// RemoveCompetitor deixa de seguir a loja
func (h *Handler) RemoveCompetitor(c *gin.Context) {
	if err := h.store.RemoveCompetitor(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddAlert cria um alerta de preço
func (h *Handler) AddAlert(c *gin.Context) {
	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	alert, err := h.tracker.SetAlert(c.Request.Context(), req.ProductID, req.TargetPrice)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, alert)
}

// RemoveAlert remove um alerta de preço
func (h *Handler) RemoveAlert(c *gin.Context) {
	if err := h.store.RemovePriceAlert(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddTrend grava o resultado de uma análise de tendência
func (h *Handler) AddTrend(c *gin.Context) {
	var nt models.NewTrend
	if err := c.ShouldBindJSON(&nt); err != nil {
		badRequest(c, err)
		return
	}
	trend, err := h.tracker.RecordTrend(c.Request.Context(), nt)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, trend)
}

// RemoveTrend remove uma tendência
func (h *Handler) RemoveTrend(c *gin.Context) {
	if err := h.store.RemoveTrend(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUsage retorna a cota mensal
func (h *Handler) GetUsage(c *gin.Context) {
	usage, err := h.store.Usage(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// ConsumeUsage consome uma análise da cota
func (h *Handler) ConsumeUsage(c *gin.Context) {
	usage, err := h.tracker.ConsumeQuota(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// ResetUsage zera o contador de análises
func (h *Handler) ResetUsage(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.store.ResetUsage(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	usage, err := h.store.Usage(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// UpdateSettings aplica uma atualização parcial das preferências
func (h *Handler) UpdateSettings(c *gin.Context) {
	var upd models.SettingsUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	settings, err := h.store.UpdateSettings(c.Request.Context(), upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// ClearData apaga produtos, concorrentes, tendências e alertas
func (h *Handler) ClearData(c *gin.Context) {
	if err := h.store.ClearData(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Export gera a planilha com todo o documento
func (h *Handler) Export(c *gin.Context) {
	doc, err := h.store.Read(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, doc); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "shop-tracker.xlsx"))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
