package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwaldr/gigpack-server/internal/model"
	"github.com/mwaldr/gigpack-server/internal/repository"
)

// PublicHandler serves the read-only share page resolved by slug.  No
// authentication is applied; the response is sanitized so private notes
// and money fields never leave the server.
type PublicHandler struct {
	Gigs   *repository.GigRepo
	Shares *repository.ShareTokenRepo
}

func NewPublicHandler(gigs *repository.GigRepo, shares *repository.ShareTokenRepo) *PublicHandler {
	return &PublicHandler{Gigs: gigs, Shares: shares}
}

// publicGig is the sanitized header shown to anyone holding the link.
type publicGig struct {
	Title          string `json:"title"`
	GigDate        string `json:"gig_date"`
	VenueName      string `json:"venue_name"`
	VenueAddress   string `json:"venue_address"`
	AccentColor    string `json:"accent_color"`
	HeaderImageURL string `json:"header_image_url"`
	Theme          string `json:"theme"`
	Notes          string `json:"notes"`
	Status         string `json:"status"`
}

// publicRole strips linkage and fee fields from a lineup entry.
type publicRole struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type publicPack struct {
	Gig       publicGig              `json:"gig"`
	Schedule  []model.ScheduleItem   `json:"schedule"`
	Materials []model.MaterialItem   `json:"materials"`
	Packing   []model.PackingItem    `json:"packing"`
	Setlist   []model.SetlistSection `json:"setlist"`
	Roles     []publicRole           `json:"roles"`
}

// GetBySlug handles GET /v1/pack/:slug.  An unknown or deactivated slug
// yields 404 with no further detail.
func (h *PublicHandler) GetBySlug(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	gigID, err := h.Shares.GigIDBySlug(ctx, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	pack, err := h.Gigs.LoadPack(ctx, gigID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := publicPack{
		Gig: publicGig{
			Title:          pack.Gig.Title,
			GigDate:        pack.Gig.GigDate,
			VenueName:      pack.Gig.VenueName,
			VenueAddress:   pack.Gig.VenueAddress,
			AccentColor:    pack.Gig.AccentColor,
			HeaderImageURL: pack.Gig.HeaderImageURL,
			Theme:          pack.Gig.Theme,
			Notes:          pack.Gig.Notes,
			Status:         pack.Gig.Status,
		},
		Schedule:  pack.Schedule,
		Materials: pack.Materials,
		Packing:   pack.Packing,
		Setlist:   pack.Setlist,
		Roles:     make([]publicRole, 0, len(pack.Roles)),
	}
	for _, r := range pack.Roles {
		out.Roles = append(out.Roles, publicRole{Role: r.Role, Name: r.Name})
	}
	return c.JSON(http.StatusOK, out)
}
