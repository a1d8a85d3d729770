package partymock

import (
	"context"
	"errors"
	"testing"

	"syndicated-loan-service/internal/domain/party"
)

func TestInvestorRepo_ForUpdateFallsBackToFind(t *testing.T) {
	ctx := context.Background()
	want := &party.Investor{ID: 3}
	m := &InvestorRepo{
		FindByIDFn: func(_ context.Context, id uint64) (*party.Investor, error) {
			if id != 3 {
				t.Fatalf("id mismatch: %d", id)
			}
			return want, nil
		},
	}
	got, err := m.FindByIDForUpdate(ctx, 3)
	if err != nil || got != want {
		t.Fatalf("FindByIDForUpdate: got %v, %v", got, err)
	}
}

func TestBorrowerRepo_ForUpdateFallsBackToFind(t *testing.T) {
	want := &party.Borrower{ID: 5}
	m := &BorrowerRepo{FindByIDFn: func(context.Context, uint64) (*party.Borrower, error) { return want, nil }}
	if got, err := m.FindByIDForUpdate(context.Background(), 5); err != nil || got != want {
		t.Fatalf("FindByIDForUpdate: got %v, %v", got, err)
	}
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	b := &BorrowerRepo{}
	if _, err := b.FindByID(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("BorrowerRepo.FindByID default: got %v", err)
	}
	if err := b.Save(ctx, &party.Borrower{}); err != nil {
		t.Fatalf("BorrowerRepo.Save default: got %v", err)
	}
	i := &InvestorRepo{}
	if _, err := i.ExistsByID(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("InvestorRepo.ExistsByID default: got %v", err)
	}
	if err := i.Create(ctx, &party.Investor{}); err != nil {
		t.Fatalf("InvestorRepo.Create default: got %v", err)
	}
}
