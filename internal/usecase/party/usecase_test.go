package party

import (
	"context"
	"errors"
	"testing"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/money"
	domain "syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/testutil/fixture"
	"syndicated-loan-service/internal/testutil/harness"
)

func newUsecase(t *testing.T) (*Usecase, *harness.Harness) {
	t.Helper()
	h := harness.New(t)
	return NewUsecase(h.UoW, h.Manager), h
}

func TestUsecase_CreateBorrower(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		in      BorrowerInput
		wantErr error
	}{
		{
			name: "happy path",
			in:   BorrowerInput{Name: "Acme", Email: "cfo@acme.test", CreditLimit: money.FromInt(5_000_000)},
		},
		{
			name:    "missing name",
			in:      BorrowerInput{Name: "  "},
			wantErr: apperr.ErrBusinessRule,
		},
		{
			name:    "negative limit",
			in:      BorrowerInput{Name: "Acme", CreditLimit: money.FromInt(-1)},
			wantErr: apperr.ErrBusinessRule,
		},
		{
			name:    "sub-cent limit",
			in:      BorrowerInput{Name: "Acme", CreditLimit: money.MustParse("10.001")},
			wantErr: apperr.ErrBusinessRule,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc, _ := newUsecase(t)
			got, err := uc.CreateBorrower(ctx, tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got.ID == 0 || got.Status != domain.StatusDraft {
				t.Fatalf("unexpected borrower: %+v", got)
			}
		})
	}
}

func TestUsecase_UpdateBorrower_KeepsStatus(t *testing.T) {
	ctx := context.Background()
	uc, h := newUsecase(t)
	b, _ := fixture.Parties(t, h.DB, 1)
	h.DB.Model(b).Update("status", domain.StatusRestricted)

	got, err := uc.UpdateBorrower(ctx, b.ID, BorrowerInput{Name: "Acme Holdings", CreditLimit: money.FromInt(1)})
	if err != nil {
		t.Fatalf("UpdateBorrower: %v", err)
	}
	if got.Name != "Acme Holdings" || got.Status != domain.StatusRestricted {
		t.Fatalf("unexpected borrower: %+v", got)
	}
	if _, err := uc.UpdateBorrower(ctx, 999, BorrowerInput{Name: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUsecase_DeleteBorrower(t *testing.T) {
	ctx := context.Background()
	uc, h := newUsecase(t)

	free, err := uc.CreateBorrower(ctx, BorrowerInput{Name: "Solo"})
	if err != nil {
		t.Fatalf("CreateBorrower: %v", err)
	}
	if err := uc.DeleteBorrower(ctx, free.ID); err != nil {
		t.Fatalf("DeleteBorrower: %v", err)
	}
	if _, err := uc.GetBorrower(ctx, free.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	deal := fixture.NewDeal(t, h.DB)
	if err := uc.DeleteBorrower(ctx, deal.Borrower.ID); !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("borrower in a syndicate: want ErrBusinessRule, got %v", err)
	}
	h.DB.Model(deal.Borrower).Update("status", domain.StatusRestricted)
	if err := uc.DeleteBorrower(ctx, deal.Borrower.ID); !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("restricted borrower: want ErrBusinessRule, got %v", err)
	}
}

func TestUsecase_CompleteInvestor(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUsecase(t)

	inv, err := uc.CreateInvestor(ctx, InvestorInput{Name: "Fund", InvestorType: "FUND"})
	if err != nil {
		t.Fatalf("CreateInvestor: %v", err)
	}
	got, err := uc.CompleteInvestor(ctx, inv.ID)
	if err != nil {
		t.Fatalf("CompleteInvestor: %v", err)
	}
	if got.Status != domain.StatusCompleted {
		t.Fatalf("status = %s", got.Status)
	}
	// completion is idempotent
	if _, err := uc.CompleteInvestor(ctx, inv.ID); err != nil {
		t.Fatalf("second CompleteInvestor: %v", err)
	}
	if err := uc.DeleteInvestor(ctx, inv.ID); !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("completed investor: want ErrBusinessRule, got %v", err)
	}
}

func TestUsecase_InvestorValidation(t *testing.T) {
	ctx := context.Background()
	uc, h := newUsecase(t)

	if _, err := uc.CreateInvestor(ctx, InvestorInput{Name: "X", InvestorType: "HEDGE"}); !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("unknown type: want ErrBusinessRule, got %v", err)
	}

	_, invs := fixture.Parties(t, h.DB, 1)
	h.DB.Model(invs[0]).Update("current_investment_amount", money.FromInt(500))
	_, err := uc.UpdateInvestor(ctx, invs[0].ID, InvestorInput{Name: "A", InvestorType: "BANK", InvestmentCapacity: money.FromInt(100)})
	if !errors.Is(err, apperr.ErrBusinessRule) {
		t.Fatalf("capacity below invested: want ErrBusinessRule, got %v", err)
	}
	got, err := uc.UpdateInvestor(ctx, invs[0].ID, InvestorInput{Name: "A", InvestorType: "BANK", InvestmentCapacity: money.FromInt(1_000)})
	if err != nil {
		t.Fatalf("UpdateInvestor: %v", err)
	}
	if !got.InvestmentCapacity.Equal(money.FromInt(1_000)) || got.Version != 1 {
		t.Fatalf("unexpected investor: %+v", got)
	}
}
