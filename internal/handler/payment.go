package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwaldr/gigpack-server/internal/model"
	"github.com/mwaldr/gigpack-server/internal/repository"
)

// PaymentHandler tracks lineup fees.  Amounts are integer cents; only
// the gig's managing party may read or change them.
type PaymentHandler struct {
	Gigs  *repository.GigRepo
	Roles *repository.RoleRepo
}

func NewPaymentHandler(gigs *repository.GigRepo, roles *repository.RoleRepo) *PaymentHandler {
	return &PaymentHandler{Gigs: gigs, Roles: roles}
}

var validPayStatuses = map[string]bool{
	model.PayUnpaid:  true,
	model.PayPartial: true,
	model.PayPaid:    true,
}

type paymentReq struct {
	FeeCents      uint32 `json:"fee_cents"`
	PaymentStatus string `json:"payment_status"`
}

// Summary returns all roles of a gig with their fee fields plus the
// paid/total aggregate.
func (h *PaymentHandler) Summary(c echo.Context) error {
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
	sum, err := h.Roles.PaymentsByGig(ctx, gigID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, sum)
}

// UpdateRole sets the fee and payment status of one lineup role.
func (h *PaymentHandler) UpdateRole(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roleID, ok := pathID(c, "roleId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role id"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PaymentStatus = strings.ToUpper(strings.TrimSpace(req.PaymentStatus))
	if !validPayStatuses[req.PaymentStatus] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_status must be one of UNPAID, PARTIAL, PAID"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role, err := h.Roles.GetByID(ctx, roleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Gigs.CanManage(ctx, role.GigID, uid); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if err := h.Roles.UpdatePayment(ctx, roleID, req.FeeCents, req.PaymentStatus); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "role not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"role_id":        roleID,
		"fee_cents":      req.FeeCents,
		"payment_status": req.PaymentStatus,
	})
}
