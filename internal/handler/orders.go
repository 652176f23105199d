package handler

import (
	"net/http"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// Commit checks out an e-commerce cart as one all-or-nothing batch.
func (h *OrdersHandler) Commit(c *gin.Context) {
	var req dto.CommitOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CommitOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
