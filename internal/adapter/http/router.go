package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	System     *Handler
	Parties    *PartyHandler
	Syndicates *SyndicateHandler
	Facilities *FacilityHandler
	Drawdowns  *DrawdownHandler
	Loans      *LoanHandler
	Payments   *PaymentHandler
	Fees       *FeeHandler
}

// NewRouter builds the echo instance. idem guards every mutating route;
// pass nil to run without the idempotency store.
func NewRouter(h Handlers, idem echo.MiddlewareFunc, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(middleware.Recover(), requestLogger(log))

	e.GET("/health", h.System.Health)
	e.GET("/ready", h.System.Ready)
	e.GET("/metrics", h.System.Metrics())

	api := e.Group("")
	if idem != nil {
		api.Use(idem)
	}

	api.POST("/borrowers", h.Parties.CreateBorrower)
	api.GET("/borrowers/:id", h.Parties.GetBorrower)
	api.PUT("/borrowers/:id", h.Parties.UpdateBorrower)
	api.DELETE("/borrowers/:id", h.Parties.DeleteBorrower)
	api.POST("/borrowers/:id/complete", h.Parties.CompleteBorrower)

	api.POST("/investors", h.Parties.CreateInvestor)
	api.GET("/investors/:id", h.Parties.GetInvestor)
	api.PUT("/investors/:id", h.Parties.UpdateInvestor)
	api.DELETE("/investors/:id", h.Parties.DeleteInvestor)
	api.POST("/investors/:id/complete", h.Parties.CompleteInvestor)

	api.POST("/syndicates", h.Syndicates.Create)
	api.GET("/syndicates/:id", h.Syndicates.Get)
	api.DELETE("/syndicates/:id", h.Syndicates.Delete)

	api.POST("/facilities", h.Facilities.Create)
	api.GET("/facilities/:id", h.Facilities.Get)
	api.PUT("/facilities/:id", h.Facilities.Update)
	api.DELETE("/facilities/:id", h.Facilities.Delete)

	api.POST("/drawdowns", h.Drawdowns.Create)
	api.GET("/drawdowns/:id", h.Drawdowns.Get)
	api.DELETE("/drawdowns/:id", h.Drawdowns.Delete)

	api.GET("/loans/:id", h.Loans.Get)
	api.POST("/loans/:id/installments", h.Payments.ScheduleInstallment)
	api.POST("/loans/:id/payments", h.Payments.ProcessPayment)
	api.POST("/installments/:id/pay", h.Payments.PayInstallment)
	api.GET("/payments/:id", h.Payments.Get)
	api.POST("/payments/:id/cancel", h.Payments.Cancel)

	api.POST("/fees", h.Fees.Create)
	api.GET("/fees/:id", h.Fees.Get)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
