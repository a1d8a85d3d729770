package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"syndicated-loan-service/internal/usecase/syndicate"
)

type SyndicateHandler struct{ uc *syndicate.Usecase }

func NewSyndicateHandler(uc *syndicate.Usecase) *SyndicateHandler { return &SyndicateHandler{uc: uc} }

type createSyndicateReq struct {
	Name           string   `json:"name"             validate:"required,max=255"`
	BorrowerID     uint64   `json:"borrower_id"      validate:"required"`
	LeadInvestorID uint64   `json:"lead_investor_id" validate:"required"`
	MemberIDs      []uint64 `json:"member_ids"       validate:"dive,gt=0"`
}

func (h *SyndicateHandler) Create(c echo.Context) error {
	var req createSyndicateReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	s, err := h.uc.Create(c.Request().Context(), syndicate.CreateInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *SyndicateHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	s, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *SyndicateHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
