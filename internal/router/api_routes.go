package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mwaldr/gigpack-server/internal/handler"
	"github.com/mwaldr/gigpack-server/internal/middleware"
)

// APIHandlers bundles every handler mounted under the protected /v1
// prefix so RegisterAPI takes one argument instead of seven.
type APIHandlers struct {
	Gigs          *handler.GigHandler
	Pack          *handler.PackHandler
	Bands         *handler.BandHandler
	Contacts      *handler.ContactHandler
	Invitations   *handler.InvitationHandler
	Payments      *handler.PaymentHandler
	Notifications *handler.NotificationHandler
}

// RegisterAPI registers all authenticated resource routes under /v1.
// Every route in this group requires a valid access token.
func RegisterAPI(e *echo.Echo, h APIHandlers, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	// Gigs: list and detail are read-only; the pack save endpoint is the
	// single write path for gig contents.
	g.GET("/gigs", h.Gigs.List)
	g.POST("/gigs/pack", h.Pack.Save)
	g.GET("/gigs/:id", h.Gigs.Get)
	g.DELETE("/gigs/:id", h.Gigs.Delete)

	// Share link management for a gig's public page.
	g.GET("/gigs/:id/share", h.Pack.GetShare)
	g.DELETE("/gigs/:id/share", h.Pack.DeactivateShare)

	// Lineup payments.
	g.GET("/gigs/:id/payments", h.Payments.Summary)
	g.PATCH("/roles/:roleId/payment", h.Payments.UpdateRole)

	// Bands and membership.
	g.POST("/bands", h.Bands.Create)
	g.GET("/bands", h.Bands.List)
	g.GET("/bands/:id", h.Bands.Get)
	g.PATCH("/bands/:id", h.Bands.Rename)
	g.DELETE("/bands/:id", h.Bands.Delete)
	g.POST("/bands/:id/members", h.Bands.AddMember)
	g.DELETE("/bands/:id/members/:userId", h.Bands.RemoveMember)

	// Private contact book.
	g.POST("/contacts", h.Contacts.Create)
	g.GET("/contacts", h.Contacts.List)
	g.GET("/contacts/:id", h.Contacts.Get)
	g.PATCH("/contacts/:id", h.Contacts.Update)
	g.DELETE("/contacts/:id", h.Contacts.Delete)

	// Invitations from the collaborator's point of view.
	g.GET("/invitations", h.Invitations.List)
	g.POST("/invitations/:id/accept", h.Invitations.Accept)
	g.POST("/invitations/:id/decline", h.Invitations.Decline)

	// In-app notification feed.
	g.GET("/notifications", h.Notifications.List)
	g.POST("/notifications/:id/read", h.Notifications.MarkRead)
}
