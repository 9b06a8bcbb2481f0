package inventory

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lumicafe/storefront/internal/catalog"
	"github.com/lumicafe/storefront/internal/platform/httpx"
	"github.com/lumicafe/storefront/internal/shared"
)

// Handler exposes the back-office inventory surface.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.editView)
	r.Patch("/{itemID}", h.stageOverrides)
	r.Post("/{itemID}/adjust", h.adjustStock)
	r.Put("/{itemID}/adjustments", h.setAdjustment)
	r.Post("/commit", h.commit)
	r.Delete("/changes", h.discard)
}

type overridesRequest struct {
	TrackInventory    *bool    `json:"track_inventory"`
	StockQuantity     *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	ClearStock        bool     `json:"clear_stock"`
	LowStockThreshold *int     `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	BasePrice         *float64 `json:"base_price" validate:"omitempty,gte=0"`
	Available         *bool    `json:"available"`
}

type adjustRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type adjustmentRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=in out"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type commitRequest struct {
	Actor string `json:"actor"`
}

func (h *Handler) editView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.EditView(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) stageOverrides(w http.ResponseWriter, r *http.Request) {
	var req overridesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	patch := catalog.ItemPatch{
		TrackInventory:    req.TrackInventory,
		StockQuantity:     req.StockQuantity,
		ClearStock:        req.ClearStock,
		LowStockThreshold: req.LowStockThreshold,
		BasePrice:         req.BasePrice,
		Available:         req.Available,
	}
	if err := h.service.StageOverrides(r.Context(), chi.URLParam(r, "itemID"), patch); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.AdjustStock(r.Context(), chi.URLParam(r, "itemID"), req.Delta); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAdjustment(w http.ResponseWriter, r *http.Request) {
	var req adjustmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	err := h.service.SetAdjustment(r.Context(), chi.URLParam(r, "itemID"), AdjustmentKind(req.Kind), req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
			return
		}
	}
	report, err := h.service.Commit(r.Context(), CommitInput{
		Actor:          req.Actor,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	// Per-item failures are part of the report, not an HTTP error.
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) discard(w http.ResponseWriter, r *http.Request) {
	h.service.DiscardChanges()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrCommitInProgress):
		httpx.Problem(w, http.StatusConflict, "Commit In Progress", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate Request", "this commit was already processed")
	case errors.Is(err, ErrInvalidAdjustmentKind):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("inventory request", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
