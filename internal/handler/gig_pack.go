package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwaldr/gigpack-server/internal/gigpack"
	"github.com/mwaldr/gigpack-server/internal/queue"
	"github.com/mwaldr/gigpack-server/internal/repository"
	queue_publisher "github.com/mwaldr/gigpack-server/internal/service"
)

// PackHandler exposes the save transaction and the share token
// management endpoints.
type PackHandler struct {
	Saver  *gigpack.Saver
	Gigs   *repository.GigRepo
	Shares *repository.ShareTokenRepo
}

func NewPackHandler(saver *gigpack.Saver, gigs *repository.GigRepo, shares *repository.ShareTokenRepo) *PackHandler {
	return &PackHandler{Saver: saver, Gigs: gigs, Shares: shares}
}

// Save handles POST /v1/gigs/pack: the atomic create-or-update of a
// full gig pack.  The submission is normalized and validated up front;
// a field map is returned on 400 so clients can highlight the offending
// inputs.  After a successful commit one broker event is published per
// freshly invited collaborator; publish failures are logged by the
// publisher and never fail the request, since the notification row is
// already durable.
func (h *PackHandler) Save(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req gigpack.SaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Normalize()
	if problems := req.Validate(); len(problems) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": problems})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	res, err := h.Saver.Save(ctx, uid, &req)
	if err != nil {
		switch {
		case errors.Is(err, gigpack.ErrUnauthenticated):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		case errors.Is(err, gigpack.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "gig not found"})
		case errors.Is(err, repository.ErrInvalidReference):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown referenced id"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflicting data"})
		}
		c.Logger().Errorf("save pack failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save failed"})
	}

	for _, inv := range res.Invited {
		ev := queue.InviteNotificationEvent{
			RoleID:    inv.RoleID,
			GigID:     res.ID,
			GigTitle:  req.Gig.Title,
			GigDate:   req.Gig.GigDate,
			UserID:    inv.UserID,
			Role:      inv.Role,
			Name:      inv.Name,
			InvitedBy: uid,
			InvitedAt: time.Now().UTC().Format(time.RFC3339),
		}
		// Fire and forget: the durable notification row is the source of
		// truth, the broker event only speeds up delivery.
		_ = queue_publisher.PublishInviteNotification(c.Request().Context(), ev)
	}

	status := http.StatusOK
	if !req.IsEditing {
		status = http.StatusCreated
	}
	return c.JSON(status, res)
}

// GetShare returns the gig's active share token, if any.
func (h *PackHandler) GetShare(c echo.Context) error {
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
	tok, err := h.Shares.GetActiveByGig(ctx, gigID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no active share"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, tok)
}

// DeactivateShare unpublishes the gig's public page by turning off its
// active share tokens.  The next save mints a fresh slug.
func (h *PackHandler) DeactivateShare(c echo.Context) error {
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
	if err := h.Shares.Deactivate(ctx, gigID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
