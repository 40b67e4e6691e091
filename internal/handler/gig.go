package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwaldr/gigpack-server/internal/repository"
)

// GigHandler serves the read side of gigs: the dashboard list, the full
// pack detail, and deletion.  Mutation of pack contents goes through
// the save endpoint only.
type GigHandler struct {
	Gigs *repository.GigRepo
}

func NewGigHandler(gigs *repository.GigRepo) *GigHandler {
	return &GigHandler{Gigs: gigs}
}

// List returns the headers of every gig visible to the caller: owned
// directly, owned through a band, reachable as a band member, or linked
// via a lineup role.
func (h *GigHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	gigs, err := h.Gigs.ListForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"gigs": gigs})
}

// Get returns the full pack of one gig.  Missing and inaccessible gigs
// are both reported as 404 so foreign ids stay indistinguishable from
// unused ones.
func (h *GigHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	gigID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gig id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Gigs.CanView(ctx, gigID, uid); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	pack, err := h.Gigs.LoadPack(ctx, gigID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, pack)
}

// Delete removes a gig and all of its pack contents.  Only the managing
// party may delete.
func (h *GigHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	gigID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid gig id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Gigs.CanManage(ctx, gigID, uid); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Gigs.Delete(ctx, gigID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
