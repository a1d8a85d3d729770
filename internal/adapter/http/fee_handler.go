package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "syndicated-loan-service/internal/domain/fee"
	"syndicated-loan-service/internal/usecase/fee"
)

type FeeHandler struct{ uc *fee.Usecase }

func NewFeeHandler(uc *fee.Usecase) *FeeHandler { return &FeeHandler{uc: uc} }

type createFeeReq struct {
	FacilityID          uint64  `json:"facility_id"           validate:"required"`
	BorrowerID          uint64  `json:"borrower_id"           validate:"required"`
	FeeType             string  `json:"fee_type"              validate:"required,oneof=ARRANGEMENT AGENT COMMITMENT LATE"`
	RecipientInvestorID *uint64 `json:"recipient_investor_id" validate:"omitempty,gt=0"`
	Amount              string  `json:"amount"                validate:"required,amount"`
	Currency            string  `json:"currency"              validate:"required,currency"`
	FeeDate             string  `json:"fee_date"              validate:"omitempty,datetime=2006-01-02"`
	Description         string  `json:"description"           validate:"max=255"`
}

func (h *FeeHandler) Create(c echo.Context) error {
	var req createFeeReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.uc.Create(c.Request().Context(), fee.Input{
		FacilityID:          req.FacilityID,
		BorrowerID:          req.BorrowerID,
		FeeType:             domain.Type(req.FeeType),
		RecipientInvestorID: req.RecipientInvestorID,
		Amount:              amountOf(req.Amount),
		Currency:            req.Currency,
		FeeDate:             dateOf(req.FeeDate),
		Description:         req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *FeeHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	p, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
