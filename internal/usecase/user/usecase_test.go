package user

import (
	"context"
	"errors"
	"testing"

	"lending-backend/internal/config"
	domain "lending-backend/internal/domain/user"
	"lending-backend/internal/testutil/memstore"
	"lending-backend/pkg/risk"
	"lending-backend/pkg/validate"

	"golang.org/x/crypto/bcrypt"
)

func newUsecase(t *testing.T) (*Usecase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	uc := NewUsecase(store.Repos().Users, config.DefaultLending(), risk.DefaultScoringTable(), nil).
		WithBcryptCost(bcrypt.MinCost)
	return uc, store
}

func borrowerInput() RegisterInput {
	return RegisterInput{
		Role:          "borrower",
		Name:          "Ana Souza",
		Email:         "Ana@Example.com ",
		TaxID:         "123.456.789-01",
		Phone:         "(11) 98765-4321",
		Password:      "Secret123",
		CreditScore:   720,
		MonthlyIncome: 5000,
	}
}

func TestRegister_Borrower(t *testing.T) {
	uc, store := newUsecase(t)
	ctx := context.Background()

	dto, err := uc.Register(ctx, borrowerInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(dto.UserID) != 32 || dto.Email != "ana@example.com" || dto.Role != "borrower" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
	bp, ok := dto.Profile.(domain.BorrowerProfile)
	if !ok {
		t.Fatalf("profile is %T, want BorrowerProfile", dto.Profile)
	}
	if bp.CreditLimit != 50_000 || bp.CreditScore != 720 {
		t.Fatalf("borrower profile: %+v", bp)
	}

	stored, err := store.Repos().Users.GetByUserID(ctx, dto.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.TaxID != "12345678901" {
		t.Fatalf("tax id stored as %q", stored.TaxID)
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Secret123")) != nil {
		t.Fatal("password hash does not verify")
	}

	if _, err := uc.Register(ctx, borrowerInput()); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate email: want ErrEmailTaken, got %v", err)
	}
}

func TestRegister_ValidationCollectsEveryField(t *testing.T) {
	uc, _ := newUsecase(t)
	_, err := uc.Register(context.Background(), RegisterInput{
		Role:     "borrower",
		Email:    "not-an-email",
		TaxID:    "123",
		Phone:    "11987654321",
		Password: "short",
	})
	var ve *validate.Error
	if !errors.As(err, &ve) {
		t.Fatalf("want *validate.Error, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"name", "email", "tax_id", "phone", "password", "credit_score", "monthly_income"} {
		if !fields[want] {
			t.Errorf("missing error for %s in %+v", want, ve.Fields)
		}
	}
}

func TestRegister_InvestorWithBusinessTaxID(t *testing.T) {
	uc, _ := newUsecase(t)
	in := borrowerInput()
	in.Role = "investor"
	in.Email = "fund@example.com"
	in.TaxID = "12.345.678/0001-95"
	in.CreditScore, in.MonthlyIncome = 0, 0

	dto, err := uc.Register(context.Background(), in)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := dto.Profile.(domain.InvestorProfile); !ok {
		t.Fatalf("profile is %T, want InvestorProfile", dto.Profile)
	}
}

func TestAuthenticate(t *testing.T) {
	uc, _ := newUsecase(t)
	ctx := context.Background()
	dto, err := uc.Register(ctx, borrowerInput())
	if err != nil {
		t.Fatal(err)
	}
	got, err := uc.Authenticate(ctx, "ANA@example.com", "Secret123")
	if err != nil || got.UserID != dto.UserID {
		t.Fatalf("Authenticate: %+v %v", got, err)
	}
	if _, err := uc.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := uc.Authenticate(ctx, "nobody@example.com", "Secret123"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestAssessRisk(t *testing.T) {
	uc, store := newUsecase(t)
	ctx := context.Background()

	in := borrowerInput()
	in.Role, in.Email = "investor", "inv@example.com"
	inv, err := uc.Register(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	res, err := uc.AssessRisk(ctx, inv.UserID, []string{"b", "c", "C", "d"})
	if err != nil {
		t.Fatalf("AssessRisk: %v", err)
	}
	// mean weight 3 of 4 -> score 3.0 -> aggressive
	if res.Score != 3 || res.Profile != string(risk.ProfileAggressive) {
		t.Fatalf("unexpected result %+v", res)
	}
	stored, _ := store.Repos().Users.GetByUserID(ctx, inv.UserID)
	if stored.RiskScore == nil || *stored.RiskScore != 3 || stored.RiskProfile != "aggressive" {
		t.Fatalf("risk not persisted: %+v", stored)
	}

	var ve *validate.Error
	if _, err := uc.AssessRisk(ctx, inv.UserID, nil); !errors.As(err, &ve) {
		t.Fatalf("no answers: want validation error, got %v", err)
	}
	if _, err := uc.AssessRisk(ctx, inv.UserID, []string{"a", "z"}); !errors.As(err, &ve) {
		t.Fatalf("unknown answer: want validation error, got %v", err)
	}

	bor, err := uc.Register(ctx, borrowerInput())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.AssessRisk(ctx, bor.UserID, []string{"a"}); !errors.Is(err, domain.ErrWrongRole) {
		t.Fatalf("borrower quiz: want ErrWrongRole, got %v", err)
	}
	if _, err := uc.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get missing: %v", err)
	}
}
