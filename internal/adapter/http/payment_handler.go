package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"syndicated-loan-service/internal/usecase/payment"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type installmentReq struct {
	DueDate         string `json:"due_date"         validate:"required,datetime=2006-01-02"`
	PrincipalAmount string `json:"principal_amount" validate:"omitempty,amount"`
	InterestAmount  string `json:"interest_amount"  validate:"omitempty,amount"`
}

type paymentReq struct {
	PrincipalAmount string `json:"principal_amount" validate:"omitempty,amount"`
	InterestAmount  string `json:"interest_amount"  validate:"omitempty,amount"`
	PaymentDate     string `json:"payment_date"     validate:"omitempty,datetime=2006-01-02"`
}

type payInstallmentReq struct {
	PaymentDate string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *PaymentHandler) ScheduleInstallment(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var req installmentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	d, err := h.uc.ScheduleInstallment(c.Request().Context(), id, payment.InstallmentInput{
		DueDate:         dateOf(req.DueDate),
		PrincipalAmount: amountOf(req.PrincipalAmount),
		InterestAmount:  amountOf(req.InterestAmount),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var req paymentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.uc.ProcessPayment(c.Request().Context(), payment.PaymentInput{
		LoanID:          id,
		PrincipalAmount: amountOf(req.PrincipalAmount),
		InterestAmount:  amountOf(req.InterestAmount),
		PaymentDate:     dateOf(req.PaymentDate),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) PayInstallment(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	var req payInstallmentReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p, err := h.uc.ProcessScheduledPayment(c.Request().Context(), id, dateOf(req.PaymentDate))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	p, err := h.uc.GetPayment(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) Cancel(c echo.Context) error {
	id, ok, err := pathID(c, "id")
	if !ok {
		return err
	}
	p, err := h.uc.CancelPayment(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
