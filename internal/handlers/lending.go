package handlers

import (
	"errors"
	"net/http"

	"lending_service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgItemLent         = "item lent successfully"
	msgItemReturned     = "item returned successfully"
	msgItemNotAvailable = "item not available for loan"
	msgItemNotBorrowed  = "item is not borrowed or does not exist"
)

// @Summary      Loan item
// @Description  Marks an available item as borrowed by the user. The user id is not checked.
// @Tags         lending
// @Produce      json
// @Param        id      path  string  true  "Item ID"
// @Param        userId  path  string  true  "Borrower user ID"
// @Success      200  {object}  map[string]interface{}  "message, id, userId, item"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/items/{id}/loan/{userId} [post]
func (h *Handler) loanItem(c *gin.Context) {
	id, userID := c.Param("id"), c.Param("userId")
	it, err := h.services.Lending.LoanItem(c.Request.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotAvailable) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgItemNotAvailable})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "item_loan_failed", err, "id", id, "user_id", userID)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": msgItemLent,
		"id":      id,
		"userId":  userID,
		"item":    it,
	})
}

// @Summary      Return item
// @Description  Marks a borrowed item as available again. A trailing user id segment is accepted and ignored.
// @Tags         lending
// @Produce      json
// @Param        id      path  string  true   "Item ID"
// @Param        userId  path  string  false  "Ignored"
// @Success      200  {object}  map[string]interface{}  "message, id, item"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/items/{id}/return/{userId} [post]
func (h *Handler) returnItem(c *gin.Context) {
	id := c.Param("id")
	it, err := h.services.Lending.ReturnItem(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotBorrowed) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgItemNotBorrowed})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "item_return_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": msgItemReturned,
		"id":      id,
		"item":    it,
	})
}
