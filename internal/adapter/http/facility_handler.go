package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"syndicated-loan-service/internal/usecase/facility"
)

type FacilityHandler struct{ uc *facility.Usecase }

func NewFacilityHandler(uc *facility.Usecase) *FacilityHandler { return &FacilityHandler{uc: uc} }

type sharePieReq struct {
	InvestorID uint64 `json:"investor_id" validate:"required"`
	Share      string `json:"share"       validate:"required,share"`
}

type facilityReq struct {
	SyndicateID  uint64        `json:"syndicate_id"`
	Name         string        `json:"name"          validate:"required,max=255"`
	Commitment   string        `json:"commitment"    validate:"required,amount"`
	Currency     string        `json:"currency"      validate:"required,currency"`
	InterestRate string        `json:"interest_rate" validate:"required,rate"`
	StartDate    string        `json:"start_date"    validate:"required,datetime=2006-01-02"`
	EndDate      string        `json:"end_date"      validate:"required,datetime=2006-01-02"`
	SharePies    []sharePieReq `json:"share_pies"    validate:"required,min=1,dive"`
}

func (r facilityReq) input() facility.Input {
	pies := make([]facility.SharePieInput, 0, len(r.SharePies))
	for _, p := range r.SharePies {
		pies = append(pies, facility.SharePieInput{InvestorID: p.InvestorID, Share: decimalOf(p.Share)})
	}
	return facility.Input{
		SyndicateID:  r.SyndicateID,
		Name:         r.Name,
		Commitment:   amountOf(r.Commitment),
		Currency:     r.Currency,
		InterestRate: decimalOf(r.InterestRate),
		StartDate:    dateOf(r.StartDate),
		EndDate:      dateOf(r.EndDate),
		SharePies:    pies,
	}
}

func (h *FacilityHandler) Create(c echo.Context) error {
	var req facilityReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	if req.SyndicateID == 0 {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: "SyndicateID", Message: "is required"}},
		})
	}
	f, err := h.uc.Create(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// Update ignores syndicate_id; a facility never moves between syndicates.
func (h *FacilityHandler) Update(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var req facilityReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	f, err := h.uc.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FacilityHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	f, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FacilityHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
