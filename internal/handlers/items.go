package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"lending_service/internal/models"
	"lending_service/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgItemNotFound   = "item not found"
	msgItemRemoved    = "item removed successfully"
	msgItemsRemoved   = "all %d items removed successfully"
	msgNoItems        = "no items to remove"
	msgItemsRemoveErr = "failed to remove items"
)

// bindPayload reads a free-form JSON object. An empty body is an empty object.
func bindPayload(c *gin.Context) (map[string]any, error) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// @Summary      Create item
// @Description  Any JSON object is accepted. The item always starts available: borrowed=false, borrowerId=null.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  object  false  "Item fields"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/items [post]
func (h *Handler) createItem(c *gin.Context) {
	payload, err := bindPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": errInvalidBodyPref + err.Error()})
		return
	}
	it, err := h.services.Items.CreateItem(c.Request.Context(), payload)
	if err != nil {
		h.itemError(c, "item_create_failed", err, "")
		return
	}
	c.JSON(http.StatusCreated, it)
}

// @Summary      List items
// @Tags         items
// @Produce      json
// @Success      200  {array}   map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/items [get]
func (h *Handler) listItems(c *gin.Context) {
	items, err := h.services.Items.ListItems(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "item_list_failed", err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// @Summary      Get item
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "Item ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/items/{id} [get]
func (h *Handler) getItem(c *gin.Context) {
	id := c.Param("id")
	it, err := h.services.Items.GetItem(c.Request.Context(), id)
	if err != nil {
		h.itemError(c, "item_get_failed", err, id)
		return
	}
	c.JSON(http.StatusOK, it)
}

// @Summary      Update item
// @Description  Sets the given fields and echoes them. Borrow-state keys are ignored; use loan/return.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "Item ID"
// @Param        body  body  object  true  "Fields to set"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/items/{id} [put]
func (h *Handler) updateItem(c *gin.Context) {
	id := c.Param("id")
	payload, err := bindPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": errInvalidBodyPref + err.Error()})
		return
	}
	applied, err := h.services.Items.UpdateItem(c.Request.Context(), id, payload)
	if err != nil {
		h.itemError(c, "item_update_failed", err, id)
		return
	}
	c.JSON(http.StatusOK, applied)
}

// @Summary      Delete item
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "Item ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/items/{id} [delete]
func (h *Handler) deleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Items.DeleteItem(c.Request.Context(), id); err != nil {
		h.itemError(c, "item_delete_failed", err, id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgItemRemoved})
}

// @Summary      Delete all items
// @Tags         items
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message, deleted"
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string  "message, error"
// @Router       /api/v1/items [delete]
func (h *Handler) deleteAllItems(c *gin.Context) {
	n, err := h.services.Items.DeleteAllItems(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("items_clear_failed", "err", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgItemsRemoveErr, "error": err.Error()})
		return
	}
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": msgNoItems})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf(msgItemsRemoved, n),
		"deleted": n,
	})
}

func (h *Handler) itemError(c *gin.Context, logKey string, err error, id string) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgItemNotFound})
	case errors.Is(err, service.ErrInvalidField):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, "id", id)
	}
}
