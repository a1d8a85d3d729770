package drawdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"syndicated-loan-service/internal/domain/apperr"
	domain "syndicated-loan-service/internal/domain/drawdown"
	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/testutil/fixture"
	"syndicated-loan-service/internal/testutil/harness"
)

var drawDate = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Usecase, *harness.Harness, fixture.Deal) {
	t.Helper()
	h := harness.New(t)
	deal := fixture.NewDeal(t, h.DB)
	return NewUsecase(h.UoW, h.Dispatcher, h.Notifier, h.Metrics, h.Log), h, deal
}

func investorAmount(t *testing.T, h *harness.Harness, id uint64) money.Amount {
	t.Helper()
	var inv party.Investor
	if err := h.DB.First(&inv, id).Error; err != nil {
		t.Fatalf("load investor: %v", err)
	}
	return inv.CurrentInvestmentAmount
}

func facilityStatus(t *testing.T, h *harness.Harness, id uint64) facility.Status {
	t.Helper()
	var f facility.Facility
	if err := h.DB.First(&f, id).Error; err != nil {
		t.Fatalf("load facility: %v", err)
	}
	return f.Status
}

func TestUsecase_Create_SplitsBySharePies(t *testing.T) {
	ctx := context.Background()
	uc, h, deal := setup(t)

	d, err := uc.Create(ctx, CreateInput{
		FacilityID:   deal.Facility.ID,
		Amount:       money.FromInt(1_000_000),
		Currency:     "USD",
		DrawdownDate: drawDate,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := []money.Amount{money.FromInt(400_000), money.FromInt(350_000), money.FromInt(250_000)}
	if len(d.AmountPies) != len(want) {
		t.Fatalf("pies = %d, want %d", len(d.AmountPies), len(want))
	}
	for i, w := range want {
		p := d.AmountPies[i]
		if p.InvestorID != deal.Investors[i].ID || !p.Amount.Equal(w) {
			t.Fatalf("pie %d = %d/%s, want %d/%s", i, p.InvestorID, p.Amount, deal.Investors[i].ID, w)
		}
		if got := investorAmount(t, h, deal.Investors[i].ID); !got.Equal(w) {
			t.Fatalf("investor %d invested %s, want %s", i, got, w)
		}
	}

	var l loan.Loan
	if err := h.DB.First(&l, d.LoanID).Error; err != nil {
		t.Fatalf("load loan: %v", err)
	}
	if l.Status != loan.StatusDraft || !l.Principal.Equal(money.FromInt(1_000_000)) || !l.OutstandingBalance.Equal(l.Principal) {
		t.Fatalf("unexpected loan: %+v", l)
	}
	if l.BorrowerID != deal.Borrower.ID {
		t.Fatalf("loan borrower = %d", l.BorrowerID)
	}
	if got := facilityStatus(t, h, deal.Facility.ID); got != facility.StatusFixed {
		t.Fatalf("facility = %s", got)
	}
}

func TestUsecase_Create_RemainderGoesToLastPie(t *testing.T) {
	ctx := context.Background()
	h := harness.New(t)
	deal := fixture.NewDeal(t, h.DB, "0.33333333", "0.33333333", "0.33333334")
	uc := NewUsecase(h.UoW, h.Dispatcher, h.Notifier, h.Metrics, h.Log)

	d, err := uc.Create(ctx, CreateInput{FacilityID: deal.Facility.ID, Amount: money.FromInt(100), DrawdownDate: drawDate})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := []string{"33.33", "33.33", "33.34"}
	for i, w := range want {
		if !d.AmountPies[i].Amount.Equal(money.MustParse(w)) {
			t.Fatalf("pie %d = %s, want %s", i, d.AmountPies[i].Amount, w)
		}
	}
	if !d.PieTotal().Equal(money.FromInt(100)) {
		t.Fatalf("pies sum to %s", d.PieTotal())
	}
}

func TestUsecase_FacilityLifecycle(t *testing.T) {
	ctx := context.Background()
	uc, h, deal := setup(t)

	if got := facilityStatus(t, h, deal.Facility.ID); got != facility.StatusDraft {
		t.Fatalf("new facility = %s", got)
	}
	d, err := uc.Create(ctx, CreateInput{FacilityID: deal.Facility.ID, Amount: money.FromInt(500_000), DrawdownDate: drawDate})
	if err != nil {
		t.Fatalf("first drawdown: %v", err)
	}
	if got := facilityStatus(t, h, deal.Facility.ID); got != facility.StatusFixed {
		t.Fatalf("after drawdown = %s", got)
	}

	_, err = uc.Create(ctx, CreateInput{FacilityID: deal.Facility.ID, Amount: money.FromInt(1), DrawdownDate: drawDate})
	if !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("second drawdown: want ErrBusinessRule, got %v", err)
	}
	if got := facilityStatus(t, h, deal.Facility.ID); got != facility.StatusFixed {
		t.Fatalf("after rejected drawdown = %s", got)
	}

	if err := uc.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := facilityStatus(t, h, deal.Facility.ID); got != facility.StatusDraft {
		t.Fatalf("after all drawdowns removed = %s", got)
	}
	for _, inv := range deal.Investors {
		if got := investorAmount(t, h, inv.ID); !got.IsZero() {
			t.Fatalf("investor %d still holds %s", inv.ID, got)
		}
	}
	var loans int64
	h.DB.Model(&loan.Loan{}).Count(&loans)
	if loans != 0 {
		t.Fatalf("loan left behind")
	}
}

func TestUsecase_Create_ExplicitPies(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		pies    func(deal fixture.Deal) []AmountPieInput
		wantErr error
	}{
		{
			name: "valid",
			pies: func(deal fixture.Deal) []AmountPieInput {
				return []AmountPieInput{
					{InvestorID: deal.Investors[2].ID, Amount: money.FromInt(700)},
					{InvestorID: deal.Investors[0].ID, Amount: money.FromInt(300)},
				}
			},
		},
		{
			name: "sum mismatch",
			pies: func(deal fixture.Deal) []AmountPieInput {
				return []AmountPieInput{{InvestorID: deal.Investors[0].ID, Amount: money.FromInt(999)}}
			},
			wantErr: apperr.ErrBusinessRule,
		},
		{
			name: "outsider",
			pies: func(deal fixture.Deal) []AmountPieInput {
				return []AmountPieInput{{InvestorID: 9_999, Amount: money.FromInt(1_000)}}
			},
			wantErr: apperr.ErrBusinessRule,
		},
		{
			name: "duplicate investor",
			pies: func(deal fixture.Deal) []AmountPieInput {
				return []AmountPieInput{
					{InvestorID: deal.Investors[0].ID, Amount: money.FromInt(500)},
					{InvestorID: deal.Investors[0].ID, Amount: money.FromInt(500)},
				}
			},
			wantErr: apperr.ErrBusinessRule,
		},
		{
			name: "zero pie",
			pies: func(deal fixture.Deal) []AmountPieInput {
				return []AmountPieInput{
					{InvestorID: deal.Investors[0].ID, Amount: money.FromInt(1_000)},
					{InvestorID: deal.Investors[1].ID, Amount: money.Zero},
				}
			},
			wantErr: apperr.ErrBusinessRule,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc, h, deal := setup(t)
			d, err := uc.Create(ctx, CreateInput{
				FacilityID:   deal.Facility.ID,
				Amount:       money.FromInt(1_000),
				DrawdownDate: drawDate,
				AmountPies:   tc.pies(deal),
			})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				var n int64
				h.DB.Model(&loan.Loan{}).Count(&n)
				if n != 0 {
					t.Fatalf("orphaned loan after failed drawdown")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if d.AmountPies[0].InvestorID != deal.Investors[2].ID {
				t.Fatalf("explicit pie order not kept: %+v", d.AmountPies)
			}
		})
	}
}

func TestUsecase_Create_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		in      func(deal fixture.Deal) CreateInput
		wantErr error
	}{
		{"unknown facility", func(fixture.Deal) CreateInput {
			return CreateInput{FacilityID: 404, Amount: money.FromInt(1), DrawdownDate: drawDate}
		}, apperr.ErrNotFound},
		{"zero amount", func(d fixture.Deal) CreateInput {
			return CreateInput{FacilityID: d.Facility.ID, DrawdownDate: drawDate}
		}, apperr.ErrBusinessRule},
		{"above commitment", func(d fixture.Deal) CreateInput {
			return CreateInput{FacilityID: d.Facility.ID, Amount: money.FromInt(1_000_001), DrawdownDate: drawDate}
		}, apperr.ErrBusinessRule},
		{"currency mismatch", func(d fixture.Deal) CreateInput {
			return CreateInput{FacilityID: d.Facility.ID, Amount: money.FromInt(1), Currency: "EUR", DrawdownDate: drawDate}
		}, apperr.ErrBusinessRule},
		{"before term", func(d fixture.Deal) CreateInput {
			return CreateInput{FacilityID: d.Facility.ID, Amount: money.FromInt(1), DrawdownDate: fixture.Start.AddDate(0, 0, -1)}
		}, apperr.ErrBusinessRule},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, deal := setup(t)
			if _, err := uc.Create(ctx, tc.in(deal)); !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUsecase_Create_CapacityExceededRollsBack(t *testing.T) {
	ctx := context.Background()
	uc, h, deal := setup(t)
	h.DB.Model(deal.Investors[1]).Update("investment_capacity", money.FromInt(100))

	_, err := uc.Create(ctx, CreateInput{FacilityID: deal.Facility.ID, Amount: money.FromInt(1_000_000), DrawdownDate: drawDate})
	if !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("want ErrBusinessRule, got %v", err)
	}
	var loans, drawdowns int64
	h.DB.Model(&loan.Loan{}).Count(&loans)
	h.DB.Model(&domain.Drawdown{}).Count(&drawdowns)
	if loans != 0 || drawdowns != 0 {
		t.Fatalf("partial drawdown persisted: loans=%d drawdowns=%d", loans, drawdowns)
	}
	if got := investorAmount(t, h, deal.Investors[0].ID); !got.IsZero() {
		t.Fatalf("investor #1 kept %s", got)
	}
	if got := facilityStatus(t, h, deal.Facility.ID); got != facility.StatusDraft {
		t.Fatalf("facility = %s", got)
	}
}

func TestUsecase_Delete_RefusesPaidLoan(t *testing.T) {
	ctx := context.Background()
	uc, h, deal := setup(t)
	d, err := uc.Create(ctx, CreateInput{FacilityID: deal.Facility.ID, Amount: money.FromInt(1_000), DrawdownDate: drawDate})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	h.DB.Model(&loan.Loan{}).Where("id = ?", d.LoanID).Update("status", loan.StatusActive)

	if err := uc.Delete(ctx, d.ID); !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("want ErrBusinessRule, got %v", err)
	}
	if got, err := uc.Get(ctx, d.ID); err != nil || got.ID != d.ID {
		t.Fatalf("drawdown should survive: %v", err)
	}
}
