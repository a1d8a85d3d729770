package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/drawdown"
	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/loan"
	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/domain/payment"
	"syndicated-loan-service/internal/domain/syndicate"
	"syndicated-loan-service/internal/testutil/sqlitedb"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return sqlitedb.Open(t, Models()...)
}

type seed struct {
	borrower  *party.Borrower
	investors []*party.Investor
	syndicate *syndicate.Syndicate
	facility  *facility.Facility
}

// seedFacility creates a borrower, three investors (the first is lead) and a
// DRAFT facility split 0.4/0.35/0.25.
func seedFacility(t *testing.T, db *gorm.DB) seed {
	t.Helper()
	ctx := context.Background()
	r := NewRepos(db)

	b := &party.Borrower{Name: "Acme", CreditLimit: money.FromInt(10_000_000), Status: party.StatusDraft}
	if err := r.Borrowers.Create(ctx, b); err != nil {
		t.Fatalf("create borrower: %v", err)
	}
	var invs []*party.Investor
	for _, name := range []string{"Lead Bank", "Fund B", "Fund C"} {
		inv := &party.Investor{Name: name, InvestorType: party.InvestorBank, Status: party.StatusDraft}
		if err := r.Investors.Create(ctx, inv); err != nil {
			t.Fatalf("create investor: %v", err)
		}
		invs = append(invs, inv)
	}
	s := &syndicate.Syndicate{
		Name:           "Acme club",
		BorrowerID:     b.ID,
		LeadInvestorID: invs[0].ID,
		Members: []syndicate.Member{
			{InvestorID: invs[0].ID}, {InvestorID: invs[1].ID}, {InvestorID: invs[2].ID},
		},
		Status: syndicate.StatusDraft,
	}
	if err := r.Syndicates.Create(ctx, s); err != nil {
		t.Fatalf("create syndicate: %v", err)
	}
	f := &facility.Facility{
		SyndicateID:  s.ID,
		Name:         "Term A",
		Commitment:   money.FromInt(1_000_000),
		Currency:     "USD",
		InterestRate: decimal.RequireFromString("0.05"),
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       facility.StatusDraft,
		SharePies: []facility.SharePie{
			{InvestorID: invs[0].ID, Share: decimal.RequireFromString("0.4")},
			{InvestorID: invs[1].ID, Share: decimal.RequireFromString("0.35")},
			{InvestorID: invs[2].ID, Share: decimal.RequireFromString("0.25")},
		},
	}
	if err := r.Facilities.Create(ctx, f); err != nil {
		t.Fatalf("create facility: %v", err)
	}
	return seed{borrower: b, investors: invs, syndicate: s, facility: f}
}

func TestFacilityRepository_CreateAndFind(t *testing.T) {
	db := openTestDB(t)
	s := seedFacility(t, db)
	repo := NewFacilityRepository(db)

	got, err := repo.FindByID(context.Background(), s.facility.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.Commitment.Equal(money.FromInt(1_000_000)) {
		t.Errorf("commitment = %s", got.Commitment)
	}
	if len(got.SharePies) != 3 {
		t.Fatalf("share pies = %d, want 3", len(got.SharePies))
	}
	for i, want := range []string{"0.4", "0.35", "0.25"} {
		if !got.SharePies[i].Share.Equal(decimal.RequireFromString(want)) {
			t.Errorf("pie %d share = %s, want %s", i, got.SharePies[i].Share, want)
		}
	}
}

func TestFindByID_NotFound(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := NewLoanRepository(db).FindByID(ctx, 404)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *apperr.NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "loan" || nf.ID != 404 {
		t.Fatalf("unexpected error detail: %#v", err)
	}
	if _, err := NewFacilityRepository(db).FindByIDForUpdate(ctx, 1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for facility, got %v", err)
	}
}

func TestSave_BumpsVersion(t *testing.T) {
	db := openTestDB(t)
	repo := NewBorrowerRepository(db)
	ctx := context.Background()

	b := &party.Borrower{Name: "Acme", CreditLimit: money.Zero, Status: party.StatusDraft}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	b.Status = party.StatusRestricted
	if err := repo.Save(ctx, b); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if b.Version != 1 {
		t.Fatalf("version = %d, want 1", b.Version)
	}
	got, err := repo.FindByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != party.StatusRestricted || got.Version != 1 {
		t.Fatalf("unexpected borrower: %+v", got)
	}
}

func TestSave_StaleCopyConflicts(t *testing.T) {
	db := openTestDB(t)
	repo := NewInvestorRepository(db)
	ctx := context.Background()

	inv := &party.Investor{Name: "Fund", InvestorType: party.InvestorFund, Status: party.StatusDraft}
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, _ := repo.FindByID(ctx, inv.ID)
	second, _ := repo.FindByID(ctx, inv.ID)

	first.CurrentInvestmentAmount = money.FromInt(10)
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second.CurrentInvestmentAmount = money.FromInt(20)
	err := repo.Save(ctx, second)
	if !errors.Is(err, apperr.ErrConcurrentUpdate) {
		t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
	}
	if second.Version != 0 {
		t.Fatalf("version should be restored after conflict, got %d", second.Version)
	}

	got, _ := repo.FindByID(ctx, inv.ID)
	if !got.CurrentInvestmentAmount.Equal(money.FromInt(10)) {
		t.Fatalf("stale write leaked: %s", got.CurrentInvestmentAmount)
	}
}

func TestFacilityRepository_ParticipantsAndCounts(t *testing.T) {
	db := openTestDB(t)
	s := seedFacility(t, db)
	repo := NewFacilityRepository(db)
	ctx := context.Background()

	ids, err := repo.ParticipantInvestorIDs(ctx, s.facility.ID)
	if err != nil {
		t.Fatalf("ParticipantInvestorIDs: %v", err)
	}
	want := []uint64{s.investors[0].ID, s.investors[1].ID, s.investors[2].ID}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}

	tests := []struct {
		name string
		fn   func() (int64, error)
		want int64
	}{
		{"by syndicate", func() (int64, error) { return repo.CountBySyndicateID(ctx, s.syndicate.ID) }, 1},
		{"by borrower", func() (int64, error) { return repo.CountByBorrowerID(ctx, s.borrower.ID) }, 1},
		{"by investor", func() (int64, error) { return repo.CountByInvestorID(ctx, s.investors[2].ID) }, 1},
		{"unknown investor", func() (int64, error) { return repo.CountByInvestorID(ctx, 999) }, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFacilityRepository_ParticipantsIncludeLeadWithoutPie(t *testing.T) {
	db := openTestDB(t)
	s := seedFacility(t, db)
	repo := NewFacilityRepository(db)
	ctx := context.Background()

	pies := []facility.SharePie{
		{InvestorID: s.investors[1].ID, Share: decimal.RequireFromString("0.5")},
		{InvestorID: s.investors[2].ID, Share: decimal.RequireFromString("0.5")},
	}
	if err := repo.ReplaceSharePies(ctx, s.facility.ID, pies); err != nil {
		t.Fatalf("ReplaceSharePies: %v", err)
	}
	ids, err := repo.ParticipantInvestorIDs(ctx, s.facility.ID)
	if err != nil {
		t.Fatalf("ParticipantInvestorIDs: %v", err)
	}
	want := []uint64{s.investors[1].ID, s.investors[2].ID, s.investors[0].ID}
	if len(ids) != 3 || ids[0] != want[0] || ids[1] != want[1] || ids[2] != want[2] {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	n, _ := repo.CountByInvestorID(ctx, s.investors[0].ID)
	if n != 1 {
		t.Fatalf("lead should still count as participant, got %d", n)
	}
}

func TestFacilityRepository_DeleteRemovesPies(t *testing.T) {
	db := openTestDB(t)
	s := seedFacility(t, db)
	repo := NewFacilityRepository(db)
	ctx := context.Background()

	if err := repo.Delete(ctx, s.facility.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var pies int64
	db.Model(&facility.SharePie{}).Count(&pies)
	if pies != 0 {
		t.Fatalf("share pies left behind: %d", pies)
	}
	if err := repo.Delete(ctx, s.facility.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestDrawdownRepository_FindByLoanID(t *testing.T) {
	db := openTestDB(t)
	s := seedFacility(t, db)
	r := NewRepos(db)
	ctx := context.Background()

	l := &loan.Loan{
		FacilityID: s.facility.ID, BorrowerID: s.borrower.ID,
		Principal: money.FromInt(100), OutstandingBalance: money.FromInt(100),
		Currency: "USD", StartDate: time.Now().UTC(), Status: loan.StatusDraft,
	}
	if err := r.Loans.Create(ctx, l); err != nil {
		t.Fatalf("create loan: %v", err)
	}
	d := &drawdown.Drawdown{
		FacilityID: s.facility.ID, BorrowerID: s.borrower.ID, LoanID: l.ID,
		Amount: money.FromInt(100), Currency: "USD", DrawdownDate: time.Now().UTC(),
		AmountPies: []drawdown.AmountPie{
			{InvestorID: s.investors[0].ID, Amount: money.FromInt(60)},
			{InvestorID: s.investors[1].ID, Amount: money.FromInt(40)},
		},
	}
	if err := r.Drawdowns.Create(ctx, d); err != nil {
		t.Fatalf("create drawdown: %v", err)
	}

	got, err := r.Drawdowns.FindByLoanID(ctx, l.ID)
	if err != nil {
		t.Fatalf("FindByLoanID: %v", err)
	}
	if got.ID != d.ID || len(got.AmountPies) != 2 || !got.PieTotal().Equal(money.FromInt(100)) {
		t.Fatalf("unexpected drawdown: %+v", got)
	}
	if _, err := r.Drawdowns.FindByLoanID(ctx, l.ID+1); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n, _ := r.Drawdowns.CountByFacilityID(ctx, s.facility.ID); n != 1 {
		t.Fatalf("CountByFacilityID = %d", n)
	}
}

func TestPaymentRepository_Counts(t *testing.T) {
	db := openTestDB(t)
	r := NewRepos(db)
	ctx := context.Background()

	for _, st := range []payment.Status{payment.StatusCompleted, payment.StatusCancelled, payment.StatusCompleted} {
		p := &payment.Payment{
			LoanID: 7, PaymentDate: time.Now().UTC(), Currency: "USD",
			PrincipalAmount: money.FromInt(1), InterestAmount: money.Zero, Status: st,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}
	if n, _ := r.Payments.CountCompletedByLoanID(ctx, 7); n != 2 {
		t.Fatalf("completed = %d, want 2", n)
	}
	if n, _ := r.Payments.CountByLoanID(ctx, 7); n != 3 {
		t.Fatalf("all = %d, want 3", n)
	}
}

func TestPaymentRepository_RepaidPrincipal(t *testing.T) {
	db := openTestDB(t)
	r := NewRepos(db)
	ctx := context.Background()

	book := func(loanID uint64, st payment.Status, a, b string) {
		t.Helper()
		p := &payment.Payment{
			LoanID: loanID, PaymentDate: time.Now().UTC(), Currency: "USD",
			PrincipalAmount: money.MustParse(a).Add(money.MustParse(b)), InterestAmount: money.Zero, Status: st,
			Distributions: []payment.Distribution{
				{InvestorID: 1, PrincipalAmount: money.MustParse(a), InterestAmount: money.Zero},
				{InvestorID: 2, PrincipalAmount: money.MustParse(b), InterestAmount: money.Zero},
			},
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			t.Fatalf("create payment: %v", err)
		}
	}
	book(7, payment.StatusCompleted, "0.10", "0.20")
	book(7, payment.StatusCompleted, "0.10", "0.10")
	book(7, payment.StatusCancelled, "5.00", "5.00")
	book(7, payment.StatusPending, "1.00", "1.00")
	book(8, payment.StatusCompleted, "9.00", "9.00")

	got, err := r.Payments.RepaidPrincipal(ctx, 7)
	if err != nil {
		t.Fatalf("RepaidPrincipal: %v", err)
	}
	if len(got) != 2 || got[1].String() != "0.20" || got[2].String() != "0.30" {
		t.Fatalf("repaid = %v", got)
	}

	none, err := r.Payments.RepaidPrincipal(ctx, 99)
	if err != nil || len(none) != 0 {
		t.Fatalf("unpaid loan: %v %v", none, err)
	}
}
