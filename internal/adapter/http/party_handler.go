package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"syndicated-loan-service/internal/usecase/party"
)

type PartyHandler struct{ uc *party.Usecase }

func NewPartyHandler(uc *party.Usecase) *PartyHandler { return &PartyHandler{uc: uc} }

type borrowerReq struct {
	Name         string `json:"name"          validate:"required,max=255"`
	Email        string `json:"email"         validate:"omitempty,email"`
	Phone        string `json:"phone"         validate:"max=32"`
	CompanyName  string `json:"company_name"  validate:"max=255"`
	CreditLimit  string `json:"credit_limit"  validate:"required,amount"`
	CreditRating string `json:"credit_rating" validate:"max=16"`
}

func (r borrowerReq) input() party.BorrowerInput {
	return party.BorrowerInput{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		CompanyName:  r.CompanyName,
		CreditLimit:  amountOf(r.CreditLimit),
		CreditRating: r.CreditRating,
	}
}

type investorReq struct {
	Name               string `json:"name"                validate:"required,max=255"`
	Email              string `json:"email"               validate:"omitempty,email"`
	Phone              string `json:"phone"               validate:"max=32"`
	InvestorType       string `json:"investor_type"       validate:"required,oneof=BANK FUND INSURER OTHER"`
	InvestmentCapacity string `json:"investment_capacity" validate:"required,amount"`
}

func (r investorReq) input() party.InvestorInput {
	return party.InvestorInput{
		Name:               r.Name,
		Email:              r.Email,
		Phone:              r.Phone,
		InvestorType:       r.InvestorType,
		InvestmentCapacity: amountOf(r.InvestmentCapacity),
	}
}

func (h *PartyHandler) CreateBorrower(c echo.Context) error {
	var req borrowerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	b, err := h.uc.CreateBorrower(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *PartyHandler) GetBorrower(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	b, err := h.uc.GetBorrower(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *PartyHandler) UpdateBorrower(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var req borrowerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	b, err := h.uc.UpdateBorrower(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *PartyHandler) DeleteBorrower(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.DeleteBorrower(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PartyHandler) CompleteBorrower(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	b, err := h.uc.CompleteBorrower(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *PartyHandler) CreateInvestor(c echo.Context) error {
	var req investorReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	inv, err := h.uc.CreateInvestor(c.Request().Context(), req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, inv)
}

func (h *PartyHandler) GetInvestor(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	inv, err := h.uc.GetInvestor(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *PartyHandler) UpdateInvestor(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var req investorReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	inv, err := h.uc.UpdateInvestor(c.Request().Context(), id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *PartyHandler) DeleteInvestor(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	if err := h.uc.DeleteInvestor(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PartyHandler) CompleteInvestor(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	inv, err := h.uc.CompleteInvestor(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}
