package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"lending-backend/internal/config"
	domain "lending-backend/internal/domain/user"
	"lending-backend/pkg/id"
	"lending-backend/pkg/risk"
	"lending-backend/pkg/validate"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	minCreditScore = 300
	maxCreditScore = 850
)

type Usecase struct {
	users  domain.Repository
	policy config.Lending
	table  risk.ScoringTable
	now    func() time.Time
	cost   int
}

func NewUsecase(users domain.Repository, policy config.Lending, table risk.ScoringTable, now func() time.Time) *Usecase {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Usecase{users: users, policy: policy, table: table, now: now, cost: bcrypt.DefaultCost}
}

// WithBcryptCost lowers the hashing cost in tests.
func (u *Usecase) WithBcryptCost(cost int) *Usecase {
	u.cost = cost
	return u
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	var v validate.Collector
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		v.Fail("role", "role must be borrower or investor")
	}
	if in.Name == "" {
		v.Fail("name", "name is required")
	}
	v.Add("email", validate.Email(in.Email))
	v.Add("tax_id", taxID(in.TaxID))
	v.Add("phone", validate.Phone(in.Phone))
	v.Add("password", validate.Password(in.Password))
	if role == domain.RoleBorrower {
		if in.CreditScore < minCreditScore || in.CreditScore > maxCreditScore {
			v.Fail("credit_score", "credit score must be between 300 and 850")
		}
		if in.MonthlyIncome <= 0 {
			v.Fail("monthly_income", "monthly income must be greater than zero")
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	switch _, err := u.users.GetByEmail(ctx, in.Email); {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return nil, err
	}

	usr := &domain.User{
		UserID:       id.NewID32(),
		Role:         role,
		Name:         in.Name,
		Email:        in.Email,
		TaxID:        validate.Digits(in.TaxID),
		Phone:        in.Phone,
		PasswordHash: string(hash),
	}
	if role == domain.RoleBorrower {
		usr.CreditScore = in.CreditScore
		usr.MonthlyIncome = in.MonthlyIncome
		usr.CreditLimit = u.policy.DefaultCreditLimit
	}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return toDTO(usr)
}

func (u *Usecase) Get(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTO(usr)
}

// Authenticate checks a password against the stored bcrypt hash.
func (u *Usecase) Authenticate(ctx context.Context, email, password string) (*UserDTO, error) {
	usr, err := u.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return toDTO(usr)
}

var ErrBadCredentials = errors.New("invalid email or password")

// AssessRisk scores the investor's quiz answers and stores the result.
func (u *Usecase) AssessRisk(ctx context.Context, userID string, answers []string) (*RiskProfileDTO, error) {
	usr, err := u.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if usr.Role != domain.RoleInvestor {
		return nil, domain.ErrWrongRole
	}
	res, err := risk.InvestorProfile(answers, u.table)
	if err != nil {
		var unknown *risk.UnknownAnswerError
		switch {
		case errors.Is(err, risk.ErrNoAnswers):
			return nil, (&validate.Collector{}).Fail("answers", "at least one answer is required").Err()
		case errors.As(err, &unknown):
			return nil, (&validate.Collector{}).Fail("answers", unknown.Error()).Err()
		}
		return nil, err
	}
	score := res.Score
	usr.RiskScore = &score
	usr.RiskProfile = string(res.Profile)
	if err := u.users.Save(ctx, usr); err != nil {
		return nil, err
	}
	return &RiskProfileDTO{UserID: usr.UserID, Score: res.Score, Profile: string(res.Profile)}, nil
}

func (u *Usecase) load(ctx context.Context, userID string) (*domain.User, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return usr, nil
}

func toDTO(usr *domain.User) (*UserDTO, error) {
	p, err := usr.Profile()
	if err != nil {
		return nil, err
	}
	return &UserDTO{
		UserID:    usr.UserID,
		Role:      string(usr.Role),
		Name:      usr.Name,
		Email:     usr.Email,
		Profile:   p,
		CreatedAt: usr.CreatedAt,
	}, nil
}

// 14 digits is a business registration number, anything else is checked as
// an individual tax id.
func taxID(s string) validate.Result {
	if len(validate.Digits(s)) == 14 {
		return validate.BusinessTaxID(s)
	}
	return validate.TaxID(s)
}
