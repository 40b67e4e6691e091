package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwaldr/gigpack-server/internal/model"
	"github.com/mwaldr/gigpack-server/internal/repository"
)

// InvitationHandler serves the collaborator's side of lineup
// invitations: listing them and answering accept/decline.
type InvitationHandler struct {
	Roles *repository.RoleRepo
}

func NewInvitationHandler(roles *repository.RoleRepo) *InvitationHandler {
	return &InvitationHandler{Roles: roles}
}

// List returns every invitation linked to the caller's account, newest
// gig first.  The ?status= query filters by invitation status.
func (h *InvitationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Roles.ListInvitationsForUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if status := c.QueryParam("status"); status != "" {
		filtered := make([]repository.InvitationDetail, 0, len(items))
		for _, it := range items {
			if it.InvitationStatus == status {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	return c.JSON(http.StatusOK, echo.Map{"invitations": items})
}

// Accept records the caller's yes on a role invitation.
func (h *InvitationHandler) Accept(c echo.Context) error {
	return h.answer(c, model.InviteAccepted)
}

// Decline records the caller's no.  The role row stays in the lineup;
// the organizer sees the declined status and decides what to do.
func (h *InvitationHandler) Decline(c echo.Context) error {
	return h.answer(c, model.InviteDeclined)
}

func (h *InvitationHandler) answer(c echo.Context, status string) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roleID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid invitation id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Roles.AnswerInvitation(ctx, roleID, uid, status); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"role_id": roleID, "invitation_status": status})
}
