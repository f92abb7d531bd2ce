package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lending-backend/pkg/risk"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Lending.MaxLoanAmount != 50_000 || c.Lending.MinLoanAmount != 1_000 || c.Lending.MinInvestmentAmount != 100 {
		t.Fatalf("unexpected lending defaults: %+v", c.Lending)
	}
	if c.DBDriver != "mysql" || c.DBPort != "3306" {
		t.Fatalf("driver=%s port=%s", c.DBDriver, c.DBPort)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !strings.Contains(c.DSN(), "@tcp(mysql:3306)/lending?") {
		t.Fatalf("unexpected dsn %q", c.DSN())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("MAX_LOAN_AMOUNT", "20000")
	t.Setenv("DELINQUENCY_THRESHOLD_DAYS", "30")
	t.Setenv("DISPATCH_INTERVAL", "1s")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DBPort != "5432" || !strings.HasPrefix(c.DSN(), "host=pg port=5432 ") {
		t.Fatalf("postgres dsn %q", c.DSN())
	}
	if len(c.KafkaBrokers) != 2 || c.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers %v", c.KafkaBrokers)
	}
	if c.Lending.MaxLoanAmount != 20_000 || c.Lending.DelinquencyThresholdDays != 30 || c.DispatchInterval != time.Second {
		t.Fatalf("overrides not applied: %+v", c)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
lending:
  max_loan_amount: 30000
  min_loan_amount: 500
  min_investment_amount: 50
  max_term_months: 36
  default_credit_limit: 10000
  delinquency_threshold_days: 60
  payment_due_reminder_days: 5
risk:
  weights: {a: 0, b: 2, c: 4}
  max_weight: 4
  conservative_below: 1
  moderate_below: 3
workers:
  delinquency_interval: 30m
  dispatch_batch: 10
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MIN_INVESTMENT_AMOUNT", "75") // env wins over file

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Lending.MaxLoanAmount != 30_000 || c.Lending.MinInvestmentAmount != 75 || c.Lending.DelinquencyThresholdDays != 60 {
		t.Fatalf("lending from file: %+v", c.Lending)
	}
	if len(c.Risk.Weights) != 3 || c.Risk.ModerateBelow != 3 {
		t.Fatalf("risk from file: %+v", c.Risk)
	}
	if c.DelinquencyInterval != 30*time.Minute || c.DispatchBatch != 10 {
		t.Fatalf("workers from file: %v %d", c.DelinquencyInterval, c.DispatchBatch)
	}
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("lending: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: "mysql", DBHost: "h", DBPort: "3306", DBName: "d", DBUser: "u",
			JWTSecret: "x", Lending: DefaultLending(),
		}
	}
	cases := map[string]func(c *Config){
		"bad driver":  func(c *Config) { c.DBDriver = "oracle" },
		"bad port":    func(c *Config) { c.DBPort = "not-a-port" },
		"no secret":   func(c *Config) { c.JWTSecret = "" },
		"loan bounds": func(c *Config) { c.Lending.MaxLoanAmount = 10 },
		"threshold":   func(c *Config) { c.Lending.DelinquencyThresholdDays = 0 },
		"risk table":  func(c *Config) { c.Risk.Weights = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			c.Risk = risk.DefaultScoringTable()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
