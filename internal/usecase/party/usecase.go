package party

import (
	"context"
	"strings"

	"syndicated-loan-service/internal/domain/apperr"
	"syndicated-loan-service/internal/domain/money"
	domain "syndicated-loan-service/internal/domain/party"
	"syndicated-loan-service/internal/domain/uow"
	"syndicated-loan-service/internal/usecase/lifecycle"
)

// Usecase is the self-service side of borrowers and investors. Status is
// owned by the lifecycle cascades; the only manual move is completion.
type Usecase struct {
	uow uow.UnitOfWork
	mgr *lifecycle.Manager
}

func NewUsecase(tx uow.UnitOfWork, mgr *lifecycle.Manager) *Usecase {
	return &Usecase{uow: tx, mgr: mgr}
}

func (in BorrowerInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Rule("borrower name is required")
	}
	if in.CreditLimit.IsNegative() || !in.CreditLimit.HasCentPrecision() {
		return apperr.Rule("credit limit %s must be a non-negative amount with at most %d decimals", in.CreditLimit, money.Places)
	}
	return nil
}

func (in InvestorInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Rule("investor name is required")
	}
	switch domain.InvestorType(in.InvestorType) {
	case domain.InvestorBank, domain.InvestorFund, domain.InvestorInsurer, domain.InvestorOther:
	default:
		return apperr.Rule("unknown investor type %q", in.InvestorType)
	}
	if in.InvestmentCapacity.IsNegative() || !in.InvestmentCapacity.HasCentPrecision() {
		return apperr.Rule("investment capacity %s must be a non-negative amount with at most %d decimals", in.InvestmentCapacity, money.Places)
	}
	return nil
}

func (u *Usecase) CreateBorrower(ctx context.Context, in BorrowerInput) (*domain.Borrower, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b := &domain.Borrower{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		CompanyName:  in.CompanyName,
		CreditLimit:  in.CreditLimit,
		CreditRating: in.CreditRating,
		Status:       domain.StatusDraft,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Borrowers.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (u *Usecase) GetBorrower(ctx context.Context, id uint64) (*domain.Borrower, error) {
	var out *domain.Borrower
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Borrowers.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (u *Usecase) UpdateBorrower(ctx context.Context, id uint64, in BorrowerInput) (*domain.Borrower, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *domain.Borrower
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Borrowers.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		b.Name = in.Name
		b.Email = in.Email
		b.Phone = in.Phone
		b.CompanyName = in.CompanyName
		b.CreditLimit = in.CreditLimit
		b.CreditRating = in.CreditRating
		if err := r.Borrowers.Save(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	return out, err
}

// DeleteBorrower only removes a DRAFT borrower no syndicate refers to.
func (u *Usecase) DeleteBorrower(ctx context.Context, id uint64) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		b, err := r.Borrowers.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.Status != domain.StatusDraft {
			return apperr.Rule("borrower %d is %s and cannot be deleted", id, b.Status)
		}
		n, err := r.Syndicates.CountByBorrowerID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Rule("borrower %d still belongs to %d syndicate(s)", id, n)
		}
		return r.Borrowers.Delete(ctx, id)
	})
}

func (u *Usecase) CompleteBorrower(ctx context.Context, id uint64) (*domain.Borrower, error) {
	var out *domain.Borrower
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := u.mgr.BorrowerToCompleted(ctx, r, id); err != nil {
			return err
		}
		var err error
		out, err = r.Borrowers.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (u *Usecase) CreateInvestor(ctx context.Context, in InvestorInput) (*domain.Investor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	i := &domain.Investor{
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		InvestorType:       domain.InvestorType(in.InvestorType),
		InvestmentCapacity: in.InvestmentCapacity,
		Status:             domain.StatusDraft,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		return r.Investors.Create(ctx, i)
	})
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (u *Usecase) GetInvestor(ctx context.Context, id uint64) (*domain.Investor, error) {
	var out *domain.Investor
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Investors.FindByID(ctx, id)
		return err
	})
	return out, err
}

// UpdateInvestor never lowers the capacity below what is already invested.
func (u *Usecase) UpdateInvestor(ctx context.Context, id uint64, in InvestorInput) (*domain.Investor, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *domain.Investor
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		i, err := r.Investors.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.InvestmentCapacity.IsPositive() && in.InvestmentCapacity.LessThan(i.CurrentInvestmentAmount) {
			return apperr.Rule("investor %d: capacity %s is below the current investment %s", id, in.InvestmentCapacity, i.CurrentInvestmentAmount)
		}
		i.Name = in.Name
		i.Email = in.Email
		i.Phone = in.Phone
		i.InvestorType = domain.InvestorType(in.InvestorType)
		i.InvestmentCapacity = in.InvestmentCapacity
		if err := r.Investors.Save(ctx, i); err != nil {
			return err
		}
		out = i
		return nil
	})
	return out, err
}

func (u *Usecase) DeleteInvestor(ctx context.Context, id uint64) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		i, err := r.Investors.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if i.Status != domain.StatusDraft {
			return apperr.Rule("investor %d is %s and cannot be deleted", id, i.Status)
		}
		n, err := r.Syndicates.CountByInvestorID(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Rule("investor %d still belongs to %d syndicate(s)", id, n)
		}
		return r.Investors.Delete(ctx, id)
	})
}

func (u *Usecase) CompleteInvestor(ctx context.Context, id uint64) (*domain.Investor, error) {
	var out *domain.Investor
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := u.mgr.InvestorToCompleted(ctx, r, id); err != nil {
			return err
		}
		var err error
		out, err = r.Investors.FindByID(ctx, id)
		return err
	})
	return out, err
}
