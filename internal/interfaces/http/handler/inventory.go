package handler

import (
	apporder "github.com/distriflow/backend/internal/application/order"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler exposes the stock ledger history
type InventoryHandler struct {
	BaseHandler
	orders *apporder.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(orders *apporder.Service) *InventoryHandler {
	return &InventoryHandler{orders: orders}
}

// ListMovements handles GET /admin/products/:id/movements. An optional
// variant_id query narrows the history to one variant.
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	productID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := listFilter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var variantID *uuid.UUID
	if raw := c.Query("variant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Identifiant de variante invalide")
			return
		}
		variantID = &id
	}

	page, err := h.orders.ListStockMovements(c.Request.Context(), ident, productID, variantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListLowStock handles GET /admin/stock/alerts
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	alerts, err := h.orders.ListLowStockAlerts(c.Request.Context(), ident)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}
