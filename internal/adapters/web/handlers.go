package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"inventory-ops/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handler holds the ApplicationService, the chi router, and the pending command store.
type Handler struct {
	svc     app.ApplicationService
	router  chi.Router
	pending *pendingStore
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{
		svc:     svc,
		pending: newPendingStore(),
	}
	h.pending.startPurge(context.Background())

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Storage locations ────────────────────────────────────────────────────
	r.Get("/api/locations", h.locationTree)
	r.Post("/api/locations/warehouses", h.createWarehouse)
	r.Put("/api/locations/warehouses/{id}", h.updateWarehouse)
	r.Post("/api/locations", h.createLocation)
	r.Patch("/api/locations/{id}", h.renameLocation)
	r.Delete("/api/locations/{id}", h.deleteLocation)

	// ── Products and stock ───────────────────────────────────────────────────
	r.Get("/api/products", h.listProducts)
	r.Post("/api/products", h.createProduct)
	r.Get("/api/products/{sku}", h.getProduct)
	r.Put("/api/products/{sku}", h.updateProduct)
	r.Delete("/api/products/{sku}", h.deleteProduct)
	r.Post("/api/products/{sku}/stock", h.setStockLevels)
	r.Get("/api/products/{sku}/sources", h.stockSources)
	r.Post("/api/products/{sku}/assign", h.assignStock)

	// ── Channel listings ─────────────────────────────────────────────────────
	r.Post("/api/products/{sku}/listings", h.linkChannel)
	r.Delete("/api/products/{sku}/listings/{listingID}", h.unlinkChannel)
	r.Post("/api/products/{sku}/listings/{listingID}/pause", h.pauseListing)
	r.Post("/api/products/{sku}/listings/{listingID}/activate", h.activateListing)

	// ── Bulk rules ───────────────────────────────────────────────────────────
	r.Post("/api/bulk/pause-rule", h.applyPauseRule)
	r.Post("/api/bulk/visibility-rule", h.applyVisibilityRule)

	// ── Categories ───────────────────────────────────────────────────────────
	r.Get("/api/categories", h.listCategories)
	r.Post("/api/categories", h.addCategory)
	r.Delete("/api/categories/{name}", h.removeCategory)

	// ── Reports ──────────────────────────────────────────────────────────────
	r.Get("/api/reports/valuation", h.valuationReport)
	r.Get("/api/reports/low-stock", h.lowStockReport)

	// ── State persistence ────────────────────────────────────────────────────
	r.Post("/api/state/save", h.saveState)
	r.Post("/api/state/load", h.loadState)

	// ── Assistant chat ───────────────────────────────────────────────────────
	r.Post("/chat", h.chatMessage)
	r.Post("/chat/confirm", h.chatConfirm)

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// ── Locations ─────────────────────────────────────────────────────────────────

func (h *Handler) locationTree(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetLocationTree(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"warehouses": res.Warehouses})
}

func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		City    string `json:"city"`
		Region  string `json:"region"`
		Address string `json:"address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateWarehouse(r.Context(), app.CreateWarehouseRequest{
		Name: req.Name, City: req.City, Region: req.Region, Address: req.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"id": res.ID, "path": res.Path})
}

func (h *Handler) updateWarehouse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		City    string `json:"city"`
		Region  string `json:"region"`
		Address string `json:"address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.svc.UpdateWarehouse(r.Context(), app.UpdateWarehouseRequest{
		ID: chi.URLParam(r, "id"), Name: req.Name, City: req.City,
		Region: req.Region, Address: req.Address,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *Handler) createLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParentID string `json:"parent_id"`
		Kind     string `json:"kind"`
		Name     string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateLocation(r.Context(), app.CreateLocationRequest{
		ParentID: req.ParentID, Kind: req.Kind, Name: req.Name,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"id": res.ID, "path": res.Path})
}

func (h *Handler) renameLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.RenameLocation(r.Context(), chi.URLParam(r, "id"), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *Handler) deleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// ── Products ──────────────────────────────────────────────────────────────────

// productRequestBody is shared by createProduct and updateProduct.
type productRequestBody struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Stock     int             `json:"stock"`
	Committed int             `json:"committed"`
	MinStock  int             `json:"min_stock"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

func (b productRequestBody) toRequest() app.ProductRequest {
	return app.ProductRequest{
		SKU:       b.SKU,
		Name:      b.Name,
		Category:  b.Category,
		Stock:     b.Stock,
		Committed: b.Committed,
		MinStock:  b.MinStock,
		UnitCost:  b.UnitCost,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"products": res.Products})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.CreateProduct(r.Context(), req.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "sku"), req.toRequest())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "sku")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *Handler) setStockLevels(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Stock     int `json:"stock"`
		Committed int `json:"committed"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.SetStockLevels(r.Context(), chi.URLParam(r, "sku"), req.Stock, req.Committed)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

// ── Stock allocation ──────────────────────────────────────────────────────────

func (h *Handler) stockSources(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetStockSources(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"sku": res.SKU, "stock": res.Stock, "sources": res.Sources})
}

func (h *Handler) assignStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetLocationID string `json:"target_location_id"`
		SourceLocationID string `json:"source_location_id"`
		Quantity         int    `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.AssignStock(r.Context(), app.AssignStockRequest{
		SKU:              chi.URLParam(r, "sku"),
		TargetLocationID: req.TargetLocationID,
		SourceLocationID: req.SourceLocationID,
		Quantity:         req.Quantity,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"sku": res.SKU, "stock": res.Stock, "sources": res.Sources})
}

// ── Channel listings ──────────────────────────────────────────────────────────

func (h *Handler) linkChannel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Platform          string `json:"platform"`
		ExternalID        string `json:"external_id"`
		Title             string `json:"title"`
		URL               string `json:"url"`
		BufferStock       int    `json:"buffer_stock"`
		AutoPauseEnabled  bool   `json:"auto_pause_enabled"`
		MaxVisibleStock   int    `json:"max_visible_stock"`
		MaxVisibleEnabled bool   `json:"max_visible_enabled"`
		ShippingMode      string `json:"shipping_mode"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.LinkChannel(r.Context(), chi.URLParam(r, "sku"), app.ListingRequest{
		Platform:          req.Platform,
		ExternalID:        req.ExternalID,
		Title:             req.Title,
		URL:               req.URL,
		BufferStock:       req.BufferStock,
		AutoPauseEnabled:  req.AutoPauseEnabled,
		MaxVisibleStock:   req.MaxVisibleStock,
		MaxVisibleEnabled: req.MaxVisibleEnabled,
		ShippingMode:      req.ShippingMode,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Listing)
}

func (h *Handler) unlinkChannel(w http.ResponseWriter, r *http.Request) {
	err := h.svc.UnlinkChannel(r.Context(), chi.URLParam(r, "sku"), chi.URLParam(r, "listingID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *Handler) pauseListing(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.PauseListing(r.Context(), chi.URLParam(r, "sku"), chi.URLParam(r, "listingID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

func (h *Handler) activateListing(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ActivateListing(r.Context(), chi.URLParam(r, "sku"), chi.URLParam(r, "listingID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, res.Product)
}

// ── Bulk rules ────────────────────────────────────────────────────────────────

type bulkRuleBody struct {
	SKUs      []string `json:"skus"`
	Enabled   bool     `json:"enabled"`
	Threshold int      `json:"threshold"`
}

func (h *Handler) applyPauseRule(w http.ResponseWriter, r *http.Request) {
	var req bulkRuleBody
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ApplyPauseRule(r.Context(), app.BulkRuleRequest{
		SKUs: req.SKUs, Enabled: req.Enabled, Threshold: req.Threshold,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"selected": res.Selected, "touched": res.Touched})
}

func (h *Handler) applyVisibilityRule(w http.ResponseWriter, r *http.Request) {
	var req bulkRuleBody
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.ApplyVisibilityRule(r.Context(), app.BulkRuleRequest{
		SKUs: req.SKUs, Enabled: req.Enabled, Threshold: req.Threshold,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"selected": res.Selected, "touched": res.Touched})
}

// ── Categories ────────────────────────────────────────────────────────────────

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"categories": cats})
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.AddCategory(r.Context(), req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *Handler) removeCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveCategory(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (h *Handler) valuationReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetValuationReport(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) lowStockReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetLowStockReport(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

// ── State persistence ─────────────────────────────────────────────────────────

func (h *Handler) saveState(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SaveState(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h *Handler) loadState(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.LoadState(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
