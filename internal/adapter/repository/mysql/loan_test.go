package mysql

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	domain "lending-backend/internal/domain/loan"
	userDomain "lending-backend/internal/domain/user"
	"lending-backend/pkg/id"

	"github.com/DATA-DOG/go-sqlmock"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// openTestDB creates an in-memory sqlite DB with every service table.
// A single connection keeps the in-memory database shared across queries.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeLoan(loanID, borrowerID string) *domain.Loan {
	return &domain.Loan{
		LoanID:         loanID,
		BorrowerID:     borrowerID,
		Principal:      10_000.00,
		Rate:           12,
		TermMonths:     12,
		State:          domain.StatePending,
		StateUpdatedAt: time.Now().UTC(),
	}
}

func TestCreateAndGetByLoanID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	borrower := id.NewID32()

	l := makeLoan(loanID, borrower)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.LoanID != loanID || got.BorrowerID != borrower || got.Principal != 10_000 || got.TermMonths != 12 {
		t.Errorf("unexpected loan: %+v", got)
	}

	locked, err := repo.GetByLoanIDForUpdate(ctx, loanID)
	if err != nil || locked.ID != l.ID {
		t.Fatalf("GetByLoanIDForUpdate: loan=%+v err=%v", locked, err)
	}
}

func TestSaveUpdates(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "dddddddddddddddddddddddddddddddd")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	l.FundedAmount = 2_500
	l.FundingProgress = 25
	l.State = domain.StateFunding
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.FundedAmount != 2_500 || got.FundingProgress != 25 || got.State != domain.StateFunding {
		t.Errorf("loan not updated: %+v", got)
	}
}

func TestFundingProgressKeepsFullPrecision(t *testing.T) {
	s, err := schema.Parse(&domain.Loan{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	col := gormmysql.Dialector{}.DataTypeOf(s.LookUpField("funding_progress"))
	if strings.HasPrefix(strings.ToLower(col), "decimal") {
		t.Fatalf("funding_progress column %q rounds to a fixed scale", col)
	}

	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	loanID := id.NewID32()
	l := makeLoan(loanID, "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	l.Principal = 30_000
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := domain.ApplyInvestment(l, 333.33, time.Now().UTC()); err != nil {
		t.Fatalf("ApplyInvestment: %v", err)
	}
	if err := repo.Save(ctx, l); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByLoanID(ctx, loanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	want := domain.FundingProgress(333.33, 30_000)
	if math.Abs(got.FundingProgress-want) > 1e-9 {
		t.Fatalf("progress %v, want %v", got.FundingProgress, want)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)

	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGetOpenLoanByBorrowerID(t *testing.T) {
	db := openTestDB(t)
	repo := NewLoanRepository(db)
	ctx := context.Background()

	b1 := "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	now := time.Now().UTC()

	seed := func(loanID string, st domain.State, age time.Duration) {
		l := makeLoan(loanID, b1)
		l.State = st
		l.StateUpdatedAt = now.Add(-age)
		if err := repo.Create(ctx, l); err != nil {
			t.Fatal(err)
		}
	}
	seed("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", domain.StateActive, 3*time.Hour)
	seed("cccccccccccccccccccccccccccccccc", domain.StatePending, 2*time.Hour)
	wantID := "dddddddddddddddddddddddddddddddd"
	seed(wantID, domain.StateFunding, time.Hour)

	got, err := repo.GetOpenLoanByBorrowerID(ctx, b1)
	if err != nil {
		t.Fatalf("GetOpenLoanByBorrowerID error: %v", err)
	}
	if got.LoanID != wantID {
		t.Fatalf("unexpected loan: %+v", got)
	}

	if _, err := repo.GetOpenLoanByBorrowerID(ctx, "cccccccccccccccccccccccccccccccc"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for borrower without open loans, got %v", err)
	}

	all, err := repo.ListByBorrowerID(ctx, b1)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByBorrowerID: n=%d err=%v", len(all), err)
	}

	open, err := repo.ListByStates(ctx, []domain.State{domain.StatePending, domain.StateFunding}, 0)
	if err != nil || len(open) != 2 {
		t.Fatalf("ListByStates(open): n=%d err=%v", len(open), err)
	}
	limited, err := repo.ListByStates(ctx, nil, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("ListByStates(limit 1): n=%d err=%v", len(limited), err)
	}
}

func TestGetByLoanIDForUpdate_MySQLLocksRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `loans` WHERE loan_id = ?")+".*FOR UPDATE").
		WithArgs("LN-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "loan_id", "state"}).AddRow(7, "LN-1", "funding"))

	got, err := NewLoanRepository(db).GetByLoanIDForUpdate(context.Background(), "LN-1")
	if err != nil {
		t.Fatalf("GetByLoanIDForUpdate: %v", err)
	}
	if got.ID != 7 || got.State != domain.StateFunding {
		t.Fatalf("unexpected loan: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByUserIDForUpdate_MySQLLocksRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer sqlDB.Close()

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE user_id = ?")+".*FOR UPDATE").
		WithArgs("U-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "role"}).AddRow(3, "U-1", "borrower"))

	got, err := NewUserRepository(db).GetByUserIDForUpdate(context.Background(), "U-1")
	if err != nil {
		t.Fatalf("GetByUserIDForUpdate: %v", err)
	}
	if got.ID != 3 || got.Role != userDomain.RoleBorrower {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
