package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/champierre/mappreview/internal/infrastructure/monitoring"
	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/preview"
	"github.com/champierre/mappreview/internal/shared/id"
	"github.com/champierre/mappreview/internal/workspace"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	registry      *workspace.Registry
	provider      *preview.Provider
	loader        *preview.Loader
	metrics       *monitoring.Metrics
	workspaceRoot string
	log           *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	registry *workspace.Registry,
	provider *preview.Provider,
	loader *preview.Loader,
	metrics *monitoring.Metrics,
	workspaceRoot string,
	log *logging.Logger,
) *Handlers {
	return &Handlers{
		registry:      registry,
		provider:      provider,
		loader:        loader,
		metrics:       metrics,
		workspaceRoot: workspaceRoot,
		log:           log,
	}
}

// PreviewRequest asks for a plain preview of a document.
type PreviewRequest struct {
	Path string `json:"path" binding:"required"`
}

// ProjectionPreviewRequest asks for a preview with a projection override.
// An empty EpsgCode is the cancelled picker: nothing happens.
type ProjectionPreviewRequest struct {
	Path     string `json:"path" binding:"required"`
	EpsgCode string `json:"epsg_code"`
}

// DiscoverRequest narrows workspace discovery to specific glob patterns.
type DiscoverRequest struct {
	Patterns []string `json:"patterns"`
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Map Preview Service",
		"version": "0.2.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"workspace": h.registry.Stats(),
		"panels":    h.loader.Stats(),
	})
}

// Preview opens (or refreshes) a document and materializes a plain preview
// panel for it. Any stale projection override is cleared before the panel
// is created, so the generated content always reflects the cleared state.
func (h *Handlers) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.registry.Open(req.Path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.metrics.DocumentsOpen.Set(float64(len(h.registry.Visible())))

	identity := preview.MakeIdentity(doc.Path)
	h.provider.ClearOverride(identity)

	panel := h.openPanel(identity, doc)
	c.JSON(http.StatusCreated, panelResponse(panel, doc))
}

// PreviewWithProjection opens a preview with a projection override chosen
// from the offered EPSG list.
func (h *Handlers) PreviewWithProjection(c *gin.Context) {
	var req ProjectionPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Cancelled picker: a normal outcome, no state change.
	if req.EpsgCode == "" {
		c.Status(http.StatusNoContent)
		return
	}

	if !preview.ValidChoice(h.provider.Settings().Projections, req.EpsgCode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown projection: " + req.EpsgCode})
		return
	}

	doc, err := h.registry.Open(req.Path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.metrics.DocumentsOpen.Set(float64(len(h.registry.Visible())))

	identity := preview.MakeIdentity(doc.Path)
	h.provider.SetOverride(identity, req.EpsgCode)

	panel := h.openPanel(identity, doc)
	c.JSON(http.StatusCreated, panelResponse(panel, doc))
}

// ProjectionChoices returns the ordered EPSG option list offered by the
// projection preview command.
func (h *Handlers) ProjectionChoices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"choices": preview.Choices(h.provider.Settings().Projections),
	})
}

// ListPanels lists all open panels
func (h *Handlers) ListPanels(c *gin.Context) {
	panels := h.loader.List()
	c.JSON(http.StatusOK, gin.H{
		"panels": panels,
		"stats":  h.loader.Stats(),
	})
}

// GetPanel serves a panel's generated document
func (h *Handlers) GetPanel(c *gin.Context) {
	panel, ok := h.loader.Get(id.PanelID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown panel"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(panel.HTML))
}

// ClosePanel discards a panel
func (h *Handlers) ClosePanel(c *gin.Context) {
	panelID := id.PanelID(c.Param("id"))
	if !h.loader.Close(panelID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown panel"})
		return
	}
	h.metrics.PanelsActive.Dec()
	c.JSON(http.StatusOK, gin.H{"closed": true, "panel_id": panelID})
}

// ListDocuments lists opened documents in resolution order
func (h *Handlers) ListDocuments(c *gin.Context) {
	docs := h.registry.Visible()
	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"stats":     h.registry.Stats(),
	})
}

// DiscoverDocuments scans the workspace root for previewable files
func (h *Handlers) DiscoverDocuments(c *gin.Context) {
	var req DiscoverRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	files, err := workspace.Discover(h.workspaceRoot, req.Patterns)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"files": files,
		"count": len(files),
	})
}

func (h *Handlers) openPanel(identity preview.Identity, doc *workspace.Document) *preview.Panel {
	start := time.Now()
	panel := h.loader.Open(identity, doc.Path)
	h.metrics.RecordPanelCreated(time.Since(start))
	h.metrics.PanelsActive.Inc()
	return panel
}

func panelResponse(panel *preview.Panel, doc *workspace.Document) gin.H {
	return gin.H{
		"panel_id": panel.ID,
		"identity": panel.Identity,
		"format":   doc.Format,
		"url":      "/panels/" + panel.ID.String(),
	}
}
