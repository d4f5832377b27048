// Package http provides HTTP transport for the sourcing pipeline
package http

import (
	stdhttp "net/http"

	"dealscout/internal/modkit/httpkit"
	perr "dealscout/internal/platform/errors"
	"dealscout/internal/services/sourcing/domain"
)

// ownerHeader identifies the requesting buyer; auth proper sits in front
const ownerHeader = "X-Owner-ID"

// Register mounts sourcing endpoints on the given router
func Register(r httpkit.Router, searcher domain.SearcherPort, offers domain.OffersPort) {
	h := &handlers{searcher: searcher, offers: offers}

	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)
	httpkit.Post(r, "/search/reset", h.reset)
	httpkit.Get(r, "/offers", h.listOffers)
	httpkit.PatchJSON[likedInput](r, "/offers/{id}/liked", h.setLiked)
	httpkit.PatchJSON[selectedInput](r, "/offers/{id}/selected", h.setSelected)
	httpkit.PatchJSON[commentInput](r, "/offers/{id}/comment", h.setComment)
}

type handlers struct {
	searcher domain.SearcherPort
	offers   domain.OffersPort
}

func owner(r *stdhttp.Request) (string, error) {
	id := r.Header.Get(ownerHeader)
	if id == "" {
		return "", perr.Unauthorizedf("missing %s header", ownerHeader)
	}
	return id, nil
}

type likedInput struct {
	Liked bool `json:"liked"`
}

type selectedInput struct {
	Selected bool `json:"selected"`
}

type commentInput struct {
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

type resetResp struct {
	Removed int `json:"removed"`
}

// swagger:route POST /sourcing/search Sourcing sourcingSearch
// @Summary Run a sourcing search and persist the ranked offers
// @Tags Sourcing
// @Accept json
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Param payload body domain.SearchInput true "Search"
// @Success 200 {object} domain.SearchOutput "ok"
// @Router /sourcing/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	own, err := owner(r)
	if err != nil {
		return nil, err
	}
	return h.searcher.SearchAndPersist(r.Context(), own, in)
}

// swagger:route POST /sourcing/search/reset Sourcing sourcingReset
// @Summary Clear persisted offers, keeping liked and selected ones
// @Tags Sourcing
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Success 200 {object} resetResp "ok"
// @Router /sourcing/search/reset [post]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	own, err := owner(r)
	if err != nil {
		return nil, err
	}
	removed, err := h.offers.ResetOffers(r.Context(), own)
	if err != nil {
		return nil, err
	}
	return resetResp{Removed: removed}, nil
}

// swagger:route GET /sourcing/offers Sourcing sourcingListOffers
// @Summary List persisted offers for the owner, best score first
// @Tags Sourcing
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Success 200 {array} domain.Offer "ok"
// @Router /sourcing/offers [get]
func (h *handlers) listOffers(r *stdhttp.Request) (any, error) {
	own, err := owner(r)
	if err != nil {
		return nil, err
	}
	return h.offers.ListOffers(r.Context(), own)
}

// swagger:route PATCH /sourcing/offers/{id}/liked Sourcing sourcingSetLiked
// @Summary Toggle the liked flag on one offer
// @Tags Sourcing
// @Accept json
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Param id path string true "Offer id"
// @Success 204 "no content"
// @Router /sourcing/offers/{id}/liked [patch]
func (h *handlers) setLiked(r *stdhttp.Request, in likedInput) (any, error) {
	own, err := owner(r)
	if err != nil {
		return nil, err
	}
	if err := h.offers.SetLiked(r.Context(), own, httpkit.Param(r, "id"), in.Liked); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route PATCH /sourcing/offers/{id}/selected Sourcing sourcingSetSelected
// @Summary Toggle the selected flag on one offer
// @Tags Sourcing
// @Accept json
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Param id path string true "Offer id"
// @Success 204 "no content"
// @Router /sourcing/offers/{id}/selected [patch]
func (h *handlers) setSelected(r *stdhttp.Request, in selectedInput) (any, error) {
	own, err := owner(r)
	if err != nil {
		return nil, err
	}
	if err := h.offers.SetSelected(r.Context(), own, httpkit.Param(r, "id"), in.Selected); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

// swagger:route PATCH /sourcing/offers/{id}/comment Sourcing sourcingSetComment
// @Summary Set or clear the buyer's note on one offer
// @Tags Sourcing
// @Accept json
// @Produce json
// @Param X-Owner-ID header string true "Owner"
// @Param id path string true "Offer id"
// @Success 204 "no content"
// @Router /sourcing/offers/{id}/comment [patch]
func (h *handlers) setComment(r *stdhttp.Request, in commentInput) (any, error) {
	own, err := owner(r)
	if err != nil {
		return nil, err
	}
	if err := h.offers.SetComment(r.Context(), own, httpkit.Param(r, "id"), in.Comment); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
