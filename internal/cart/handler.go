package cart

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

// Handler exposes the cart HTTP surface.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes attaches cart routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{cartID}", h.get)
	r.Delete("/{cartID}", h.clear)
	r.Post("/{cartID}/items", h.addItem)
	r.Patch("/{cartID}/items/{lineID}", h.updateLine)
	r.Delete("/{cartID}/items/{lineID}", h.removeLine)
}

type addItemRequest struct {
	ItemID      string   `json:"item_id" validate:"required"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	VariationID string   `json:"variation_id"`
	AddOnIDs    []string `json:"add_on_ids"`
}

type updateLineRequest struct {
	Quantity int `json:"quantity"`
}

type lineResponse struct {
	Line
	DisplayUnitPrice string `json:"display_unit_price"`
}

type cartResponse struct {
	CartID         string         `json:"cart_id"`
	Lines          []lineResponse `json:"lines"`
	TotalPrice     float64        `json:"total_price"`
	DisplayTotal   string         `json:"display_total"`
	TotalItemCount int            `json:"total_item_count"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	cartID, err := h.service.Create(r.Context())
	if err != nil {
		h.logger.Error("create cart", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"cart_id": cartID})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	ledger, err := h.service.Get(r.Context(), cartID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCartResponse(cartID, ledger))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	var req addItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	ledger, err := h.service.AddItem(r.Context(), cartID, AddItemInput{
		ItemID:      req.ItemID,
		Quantity:    req.Quantity,
		VariationID: req.VariationID,
		AddOnIDs:    req.AddOnIDs,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCartResponse(cartID, ledger))
}

func (h *Handler) updateLine(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	var req updateLineRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	ledger, err := h.service.UpdateLine(r.Context(), cartID, chi.URLParam(r, "lineID"), req.Quantity)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCartResponse(cartID, ledger))
}

func (h *Handler) removeLine(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	ledger, err := h.service.RemoveLine(r.Context(), cartID, chi.URLParam(r, "lineID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCartResponse(cartID, ledger))
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCartNotFound), errors.Is(err, ErrLineNotFound), errors.Is(err, catalog.ErrItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrOutOfStock):
		httpx.Problem(w, http.StatusConflict, "Out of Stock", err.Error())
	case errors.Is(err, ErrItemUnavailable), errors.Is(err, ErrUnknownSelection):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Selection", err.Error())
	default:
		h.logger.Error("cart request", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func toCartResponse(cartID string, ledger *Ledger) cartResponse {
	lines := make([]lineResponse, 0, len(ledger.Lines))
	for _, line := range ledger.Lines {
		lines = append(lines, lineResponse{Line: line, DisplayUnitPrice: shared.FormatPHP(line.UnitPrice)})
	}
	return cartResponse{
		CartID:         cartID,
		Lines:          lines,
		TotalPrice:     ledger.TotalPrice(),
		DisplayTotal:   shared.FormatPHP(ledger.TotalPrice()),
		TotalItemCount: ledger.TotalItemCount(),
	}
}
