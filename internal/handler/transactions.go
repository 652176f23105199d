package handler

import (
	"net/http"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/service"

	"github.com/gin-gonic/gin"
)

type TransactionsHandler struct{ svc service.LedgerService }

func NewTransactionsHandler(svc service.LedgerService) *TransactionsHandler {
	return &TransactionsHandler{svc: svc}
}

// Append records one manual in/out movement.
func (h *TransactionsHandler) Append(c *gin.Context) {
	var req dto.AppendMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Append(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *TransactionsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListMovements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Grouped returns movements reassembled into logical batches by their shared
// reference. Optional ?reference= narrows to one batch.
func (h *TransactionsHandler) Grouped(c *gin.Context) {
	resp, err := h.svc.GroupByReference(c.Request.Context(), c.Query("reference"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
