// Package fixture seeds a small syndicated deal for tests.
package fixture

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"syndicated-loan-service/internal/domain/facility"
	"syndicated-loan-service/internal/domain/money"
	"syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/domain/syndicate"
)

var (
	Start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	End   = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
)

type Deal struct {
	Borrower  *party.Borrower
	Investors []*party.Investor
	Syndicate *syndicate.Syndicate
	Facility  *facility.Facility
}

// Parties creates one borrower and n investors, all DRAFT. The first
// investor acts as lead bank.
func Parties(t testing.TB, db *gorm.DB, n int) (*party.Borrower, []*party.Investor) {
	t.Helper()
	b := &party.Borrower{
		Name:        "Acme Corp",
		Email:       "treasury@acme.test",
		CompanyName: "Acme Corp",
		CreditLimit: money.FromInt(50_000_000),
		Status:      party.StatusDraft,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("seed borrower: %v", err)
	}
	invs := make([]*party.Investor, 0, n)
	for i := 0; i < n; i++ {
		inv := &party.Investor{
			Name:               string(rune('A'+i)) + " Capital",
			InvestorType:       party.InvestorBank,
			InvestmentCapacity: money.FromInt(10_000_000),
			Status:             party.StatusDraft,
		}
		if err := db.Create(inv).Error; err != nil {
			t.Fatalf("seed investor: %v", err)
		}
		invs = append(invs, inv)
	}
	return b, invs
}

// Syndicate groups every investor under the borrower.
func Syndicate(t testing.TB, db *gorm.DB, b *party.Borrower, invs []*party.Investor) *syndicate.Syndicate {
	t.Helper()
	s := &syndicate.Syndicate{
		Name:           b.Name + " club",
		BorrowerID:     b.ID,
		LeadInvestorID: invs[0].ID,
		Status:         syndicate.StatusDraft,
	}
	for _, inv := range invs {
		s.Members = append(s.Members, syndicate.Member{InvestorID: inv.ID})
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed syndicate: %v", err)
	}
	return s
}

// NewDeal seeds a DRAFT facility of 1,000,000.00 USD whose SharePies follow
// shares, one investor per share.
func NewDeal(t testing.TB, db *gorm.DB, shares ...string) Deal {
	t.Helper()
	if len(shares) == 0 {
		shares = []string{"0.4", "0.35", "0.25"}
	}
	b, invs := Parties(t, db, len(shares))
	s := Syndicate(t, db, b, invs)
	f := &facility.Facility{
		SyndicateID:  s.ID,
		Name:         "Term Loan A",
		Commitment:   money.FromInt(1_000_000),
		Currency:     "USD",
		InterestRate: decimal.RequireFromString("0.055"),
		StartDate:    Start,
		EndDate:      End,
		Status:       facility.StatusDraft,
	}
	for i, sh := range shares {
		f.SharePies = append(f.SharePies, facility.SharePie{
			InvestorID: invs[i].ID,
			Share:      decimal.RequireFromString(sh),
		})
	}
	if err := db.Create(f).Error; err != nil {
		t.Fatalf("seed facility: %v", err)
	}
	return Deal{Borrower: b, Investors: invs, Syndicate: s, Facility: f}
}
