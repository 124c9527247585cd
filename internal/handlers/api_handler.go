package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"

	"syndicate_armory/internal/models"
	"syndicate_armory/internal/services"

	"github.com/gin-gonic/gin"
)

type APIHandler struct {
	orderService    services.OrderService
	queryService    services.QueryService
	trackingService services.TrackingService
	staffService    services.StaffService
}

func NewAPIHandler(
	orderService services.OrderService,
	queryService services.QueryService,
	trackingService services.TrackingService,
	staffService services.StaffService,
) *APIHandler {
	return &APIHandler{
		orderService:    orderService,
		queryService:    queryService,
		trackingService: trackingService,
		staffService:    staffService,
	}
}

// Liveness only, no dependency checks.
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *APIHandler) TrackOrder(c *gin.Context) {
	order, err := h.trackingService.Lookup(c.Param("trackingId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) QueuePosition(c *gin.Context) {
	ahead, err := h.trackingService.QueuePosition(c.Param("trackingId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ordersAhead": ahead})
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var input services.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.CreateOrder(input)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) Login(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		AccessCode string `json:"accessCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	operator, err := h.staffService.Login(req.Name, req.AccessCode)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, operator)
}

func (h *APIHandler) ListOrders(c *gin.Context) {
	result, err := h.queryService.ListOrders(queryParamsFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *APIHandler) ExportOrders(c *gin.Context) {
	orders, err := h.queryService.FilteredOrders(queryParamsFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export orders"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="syndicate_orders.csv"`)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"Order ID", "Tracking ID", "Status", "Total", "Date", "Buyer"})
	for _, o := range orders {
		w.Write([]string{
			o.ID,
			o.TrackingID,
			string(o.Status),
			strconv.FormatInt(o.TotalPrice, 10),
			o.CreatedAt.Format("2006-01-02 15:04"),
			o.BuyerName,
		})
	}
	w.Flush()
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrderByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) Stats(c *gin.Context) {
	stats, err := h.queryService.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *APIHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
		Actor  string             `json:"actor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.ChangeStatus(c.Param("id"), req.Status, req.Actor)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) TogglePayment(c *gin.Context) {
	h.toggleFlag(c, h.orderService.TogglePayment)
}

func (h *APIHandler) ToggleTreasury(c *gin.Context) {
	h.toggleFlag(c, h.orderService.ToggleTreasury)
}

func (h *APIHandler) toggleFlag(c *gin.Context, toggle func(id, actor string) (*models.Order, error)) {
	var req struct {
		Actor string `json:"actor" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := toggle(c.Param("id"), req.Actor)
	if err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) writeMutationError(c *gin.Context, err error) {
	var transitionErr *services.InvalidTransitionError
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": transitionErr.Error(),
			"from":  transitionErr.From,
			"to":    transitionErr.To,
		})
	case errors.Is(err, services.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
	}
}

func queryParamsFrom(c *gin.Context) services.QueryParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(services.DefaultPageSize)))

	return services.QueryParams{
		Search:   c.Query("search"),
		Status:   models.OrderStatus(c.Query("status")),
		Sort:     services.SortDirection(c.DefaultQuery("sort", string(services.SortDesc))),
		Page:     page,
		PageSize: pageSize,
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, services.ErrEmptyItems) ||
		errors.Is(err, services.ErrQuantityInvalid) ||
		errors.Is(err, services.ErrPriceInvalid)
}
