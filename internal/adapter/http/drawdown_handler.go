package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"syndicated-loan-service/internal/usecase/drawdown"
)

type DrawdownHandler struct{ uc *drawdown.Usecase }

func NewDrawdownHandler(uc *drawdown.Usecase) *DrawdownHandler { return &DrawdownHandler{uc: uc} }

type amountPieReq struct {
	InvestorID uint64 `json:"investor_id" validate:"required"`
	Amount     string `json:"amount"      validate:"required,amount"`
}

type createDrawdownReq struct {
	FacilityID   uint64         `json:"facility_id"   validate:"required"`
	Amount       string         `json:"amount"        validate:"required,amount"`
	Currency     string         `json:"currency"      validate:"required,currency"`
	Purpose      string         `json:"purpose"       validate:"max=255"`
	DrawdownDate string         `json:"drawdown_date" validate:"required,datetime=2006-01-02"`
	AmountPies   []amountPieReq `json:"amount_pies"   validate:"omitempty,dive"`
}

func (h *DrawdownHandler) Create(c echo.Context) error {
	var req createDrawdownReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	in := drawdown.CreateInput{
		FacilityID:   req.FacilityID,
		Amount:       amountOf(req.Amount),
		Currency:     req.Currency,
		Purpose:      req.Purpose,
		DrawdownDate: dateOf(req.DrawdownDate),
	}
	for _, p := range req.AmountPies {
		in.AmountPies = append(in.AmountPies, drawdown.AmountPieInput{InvestorID: p.InvestorID, Amount: amountOf(p.Amount)})
	}
	d, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *DrawdownHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	d, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DrawdownHandler) Delete(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
