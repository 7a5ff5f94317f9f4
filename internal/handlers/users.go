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
	msgUserNotFound = "user not found"
	msgUserRemoved  = "user %s removed successfully"
)

// @Summary      Create user
// @Description  Name and email are taken from the path as-is; no validation is applied.
// @Tags         users
// @Produce      json
// @Param        name   path  string  true  "User name"
// @Param        email  path  string  true  "User email"
// @Success      201  {object}  models.User
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users/{name}/{email} [post]
func (h *Handler) createUser(c *gin.Context) {
	name, email := c.Param("id"), c.Param("email")
	u, err := h.services.Users.CreateUser(c.Request.Context(), name, email)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "user_create_failed", err, "name", name)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.User
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users [get]
func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.services.Users.ListUsers(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errInternal, "user_list_failed", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	c.JSON(http.StatusOK, users)
}

// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path  string  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id := c.Param("id")
	u, err := h.services.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.userError(c, "user_get_failed", err, id)
		return
	}
	c.JSON(http.StatusOK, u)
}

// @Summary      Update user
// @Description  Sets the submitted fields and echoes the submitted body. An empty body changes nothing.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "User ID"
// @Param        body  body  models.UserPatch  false  "Fields to set"
// @Success      200  {object}  models.UserPatch
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	id := c.Param("id")
	var p models.UserPatch
	if err := c.ShouldBindJSON(&p); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Users.UpdateUser(c.Request.Context(), id, p); err != nil {
		h.userError(c, "user_update_failed", err, id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete user
// @Description  Items that reference the user keep their borrowerId.
// @Tags         users
// @Produce      json
// @Param        id   path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id := c.Param("id")
	u, err := h.services.Users.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.userError(c, "user_delete_failed", err, id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf(msgUserRemoved, u.Name)})
}

func (h *Handler) userError(c *gin.Context, logKey string, err error, id string) {
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
		return
	}
	h.logAndJSONError(c, http.StatusInternalServerError, errInternal, logKey, err, "id", id)
}
