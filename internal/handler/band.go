package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwaldr/gigpack-server/internal/repository"
)

// BandHandler manages bands and their membership.  Only the band owner
// may mutate; members gain read access to the band's gigs.
type BandHandler struct {
	Bands *repository.BandRepo
}

func NewBandHandler(bands *repository.BandRepo) *BandHandler {
	return &BandHandler{Bands: bands}
}

type bandReq struct {
	Name string `json:"name"`
}

type memberReq struct {
	UserID uint64 `json:"user_id"`
	Role   string `json:"role"`
}

// Create makes a new band owned by the caller.
func (h *BandHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bandReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Bands.Create(ctx, req.Name, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create band failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}

// List returns all bands the caller owns or belongs to.
func (h *BandHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bands, err := h.Bands.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bands": bands})
}

// Get returns one band with its member list.
func (h *BandHandler) Get(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bandID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	band, err := h.Bands.GetByID(ctx, bandID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "band not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	members, err := h.Bands.Members(ctx, bandID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"band": band, "members": members})
}

// Rename changes the band name.  Owner only.
func (h *BandHandler) Rename(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bandID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band id"})
	}
	var req bandReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bands.Rename(ctx, bandID, uid, req.Name); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "band not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rename failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": bandID, "name": req.Name})
}

// Delete removes a band.  Its gigs survive: they fall back to the
// caller as directly owned gigs.
func (h *BandHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bandID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bands.Delete(ctx, bandID, uid); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "band not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AddMember links a user account to the band.
func (h *BandHandler) AddMember(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bandID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band id"})
	}
	var req memberReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id required"})
	}
	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = "Member"
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bands.AddMember(ctx, bandID, uid, req.UserID, role); err != nil {
		switch {
		case err == sql.ErrNoRows, errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "band not found"})
		case errors.Is(err, repository.ErrInvalidReference):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown user id"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add member failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveMember unlinks a user from the band.  The owner cannot remove
// themselves.
func (h *BandHandler) RemoveMember(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bandID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid band id"})
	}
	memberID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bands.RemoveMember(ctx, bandID, uid, memberID); err != nil {
		switch {
		case err == sql.ErrNoRows, errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "band not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot remove the owner"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove member failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
