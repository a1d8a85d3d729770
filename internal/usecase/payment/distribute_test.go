package payment

import (
	"testing"

	"syndicated-loan-service/internal/domain/drawdown"
	"syndicated-loan-service/internal/domain/money"
)

func TestDistribute_PrincipalFollowsHeldAmounts(t *testing.T) {
	pies := func(amounts ...string) *drawdown.Drawdown {
		dd := &drawdown.Drawdown{ID: 1}
		for i, a := range amounts {
			dd.AmountPies = append(dd.AmountPies, drawdown.AmountPie{InvestorID: uint64(i + 1), Amount: money.MustParse(a)})
		}
		return dd
	}

	tests := []struct {
		name      string
		dd        *drawdown.Drawdown
		repaid    map[uint64]money.Amount
		principal string
		interest  string
		want      []string
		wantInt   []string
	}{
		{
			name:      "nothing repaid splits by pies",
			dd:        pies("0.50", "0.50"),
			principal: "0.01",
			interest:  "0.01",
			want:      []string{"0.01", "0.00"},
			wantInt:   []string{"0.01", "0.00"},
		},
		{
			name:      "fully repaid investor gets no principal",
			dd:        pies("0.50", "0.50"),
			repaid:    map[uint64]money.Amount{1: money.MustParse("0.50"), 2: money.MustParse("0.49")},
			principal: "0.01",
			interest:  "0.01",
			want:      []string{"0.00", "0.01"},
			wantInt:   []string{"0.01", "0.00"},
		},
		{
			name:      "payoff returns exactly what is held",
			dd:        pies("333333.34", "333333.33", "333333.33"),
			repaid:    map[uint64]money.Amount{1: money.MustParse("324999.61"), 2: money.MustParse("324999.61"), 3: money.MustParse("324999.66")},
			principal: "25000.12",
			interest:  "0",
			want:      []string{"8333.73", "8333.72", "8333.67"},
			wantInt:   []string{"0.00", "0.00", "0.00"},
		},
		{
			name:      "remainder never goes negative",
			dd:        pies("0.25", "0.25", "0.25", "0.25"),
			principal: "0.02",
			interest:  "0",
			want:      []string{"0.01", "0.01", "0.00", "0.00"},
			wantInt:   []string{"0.00", "0.00", "0.00", "0.00"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := distribute(tt.dd, tt.repaid, money.MustParse(tt.principal), money.MustParse(tt.interest))
			if err != nil {
				t.Fatalf("distribute: %v", err)
			}
			principal := make([]money.Amount, len(got))
			interest := make([]money.Amount, len(got))
			for i, d := range got {
				principal[i], interest[i] = d.PrincipalAmount, d.InterestAmount
			}
			assertAmounts(t, "principal", principal, tt.want...)
			assertAmounts(t, "interest", interest, tt.wantInt...)
			if !money.Sum(principal...).Equal(money.MustParse(tt.principal)) {
				t.Fatalf("principal sums to %s", money.Sum(principal...))
			}
		})
	}
}
