package handler

import (
	apporder "github.com/distriflow/backend/internal/application/order"
	"github.com/distriflow/backend/internal/domain/order"
	"github.com/distriflow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler exposes the order lifecycle API
type OrderHandler struct {
	BaseHandler
	orders *apporder.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create handles POST /orders. Clients order for themselves; staff may pass
// for_client_id to order on behalf of a client.
func (h *OrderHandler) Create(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var input apporder.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.CreateOrder(c.Request.Context(), ident, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orders.GetOrder(c.Request.Context(), ident, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /orders. Clients see their own orders; staff name a
// client via the client_id query parameter.
func (h *OrderHandler) List(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := listFilter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var forClientID *uuid.UUID
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Identifiant client invalide")
			return
		}
		forClientID = &id
	}

	page, err := h.orders.ListClientOrders(c.Request.Context(), ident, forClientID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListByStatus handles GET /admin/orders?status=...
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	filter, err := listFilter(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	status := order.OrderStatus(c.Query("status"))

	page, err := h.orders.ListOrdersByStatus(c.Request.Context(), ident, status, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paginated(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddItem handles POST /orders/:id/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var input apporder.LineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.AddOrderItem(c.Request.Context(), ident, orderID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItemsRequest batches several product lines into one guarded mutation
type AddItemsRequest struct {
	Items []apporder.LineInput `json:"items" binding:"required,min=1,dive"`
}

// AddItems handles POST /orders/:id/items/batch
func (h *OrderHandler) AddItems(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.AddOrderItems(c.Request.Context(), ident, orderID, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLinesRequest batches option-selection lines resolved to variants
// server-side
type AddLinesRequest struct {
	Lines []apporder.OptionLineInput `json:"lines" binding:"required,min=1,dive"`
}

// AddLines handles POST /orders/:id/lines
func (h *OrderHandler) AddLines(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req AddLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.AddOrderLines(c.Request.Context(), ident, orderID, req.Lines)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItemRequest sets a new absolute quantity on one line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// UpdateItem handles PUT /orders/:id/items/:itemId
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	itemID, err := pathUUID(c, "itemId")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.UpdateOrderItem(c.Request.Context(), ident, orderID, itemID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItemsRequest carries several quantity changes applied atomically
type UpdateItemsRequest struct {
	Changes []apporder.QuantityChange `json:"changes" binding:"required,min=1,dive"`
}

// UpdateItems handles PUT /orders/:id/items
func (h *OrderHandler) UpdateItems(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.UpdateOrderItems(c.Request.Context(), ident, orderID, req.Changes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orders.CancelOrder(c.Request.Context(), ident, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Prepare handles POST /admin/orders/:id/prepare
func (h *OrderHandler) Prepare(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orders.PrepareOrder(c.Request.Context(), ident, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Ship handles POST /admin/orders/:id/ship
func (h *OrderHandler) Ship(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var input apporder.ShipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.ShipOrder(c.Request.Context(), ident, orderID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deliver handles POST /admin/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var input apporder.DeliverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, middleware.BindingErrorMessage(err))
		return
	}

	resp, err := h.orders.DeliverOrder(c.Request.Context(), ident, orderID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve handles POST /admin/orders/:id/approve
func (h *OrderHandler) Approve(c *gin.Context) {
	ident, err := identity(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orders.ApproveOrder(c.Request.Context(), ident, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
