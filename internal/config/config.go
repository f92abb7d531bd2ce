package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"lending-backend/pkg/risk"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Lending holds the policy values the lending core reads instead of literals.
type Lending struct {
	MaxLoanAmount            float64 `yaml:"max_loan_amount"`
	MinLoanAmount            float64 `yaml:"min_loan_amount"`
	MinInvestmentAmount      float64 `yaml:"min_investment_amount"`
	MaxTermMonths            int     `yaml:"max_term_months"`
	DefaultCreditLimit       float64 `yaml:"default_credit_limit"`
	DelinquencyThresholdDays int     `yaml:"delinquency_threshold_days"`
	PaymentDueReminderDays   int     `yaml:"payment_due_reminder_days"`
}

type Config struct {
	AppPort string

	DBDriver string // mysql | postgres
	DBHost   string
	DBPort   string
	DBName   string
	DBUser   string
	DBPass   string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int
	JWTSecret    string

	KafkaBrokers []string
	KafkaTopic   string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	PresignTTL  time.Duration

	DelinquencyInterval time.Duration
	DispatchInterval    time.Duration
	DispatchBatch       int

	Lending Lending
	Risk    risk.ScoringTable
}

// configFile mirrors the optional YAML file pointed to by CONFIG_FILE.
type configFile struct {
	Lending *Lending           `yaml:"lending"`
	Risk    *risk.ScoringTable `yaml:"risk"`
	Workers struct {
		DelinquencyInterval string `yaml:"delinquency_interval"`
		DispatchInterval    string `yaml:"dispatch_interval"`
		DispatchBatch       int    `yaml:"dispatch_batch"`
	} `yaml:"workers"`
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, dst *int) {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(k string, dst *float64) {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(k string, dst *time.Duration) {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func DefaultLending() Lending {
	return Lending{
		MaxLoanAmount:            50_000,
		MinLoanAmount:            1_000,
		MinInvestmentAmount:      100,
		MaxTermMonths:            60,
		DefaultCreditLimit:       50_000,
		DelinquencyThresholdDays: 90,
		PaymentDueReminderDays:   3,
	}
}

// Load resolves configuration in order: defaults -> CONFIG_FILE (yaml) -> env.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		DBDriver: getenv("DB_DRIVER", "mysql"),
		DBHost:   getenv("DB_HOST", "mysql"),
		DBName:   getenv("DB_NAME", "lending"),
		DBUser:   getenv("DB_USER", "lending"),
		DBPass:   getenv("DB_PASS", "lending"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,
		JWTSecret:    os.Getenv("JWT_SECRET"),

		KafkaTopic: getenv("KAFKA_TOPIC", "lending.notifications"),

		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getenv("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		PresignTTL:  15 * time.Minute,

		DelinquencyInterval: time.Hour,
		DispatchInterval:    5 * time.Second,
		DispatchBatch:       100,

		Lending: DefaultLending(),
		Risk:    risk.DefaultScoringTable(),
	}
	defaultPort := "3306"
	if c.DBDriver == "postgres" {
		defaultPort = "5432"
	}
	c.DBPort = getenv("DB_PORT", defaultPort)

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := c.loadFile(path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.KafkaBrokers = append(c.KafkaBrokers, b)
			}
		}
	}
	envInt("REDIS_DB", &c.RedisDB)
	envInt("IDEMPOTENCY_TTL_SECONDS", &c.IdempTTLSecs)
	envDuration("PRESIGN_TTL", &c.PresignTTL)
	envDuration("DELINQUENCY_INTERVAL", &c.DelinquencyInterval)
	envDuration("DISPATCH_INTERVAL", &c.DispatchInterval)
	envInt("DISPATCH_BATCH", &c.DispatchBatch)

	envFloat("MAX_LOAN_AMOUNT", &c.Lending.MaxLoanAmount)
	envFloat("MIN_LOAN_AMOUNT", &c.Lending.MinLoanAmount)
	envFloat("MIN_INVESTMENT_AMOUNT", &c.Lending.MinInvestmentAmount)
	envFloat("DEFAULT_CREDIT_LIMIT", &c.Lending.DefaultCreditLimit)
	envInt("MAX_TERM_MONTHS", &c.Lending.MaxTermMonths)
	envInt("DELINQUENCY_THRESHOLD_DAYS", &c.Lending.DelinquencyThresholdDays)
	envInt("PAYMENT_DUE_REMINDER_DAYS", &c.Lending.PaymentDueReminderDays)
	return c, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Lending != nil {
		c.Lending = *f.Lending
	}
	if f.Risk != nil {
		c.Risk = *f.Risk
	}
	if v := f.Workers.DelinquencyInterval; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("workers.delinquency_interval: %w", err)
		}
		c.DelinquencyInterval = d
	}
	if v := f.Workers.DispatchInterval; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("workers.dispatch_interval: %w", err)
		}
		c.DispatchInterval = d
	}
	if f.Workers.DispatchBatch > 0 {
		c.DispatchBatch = f.Workers.DispatchBatch
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" || c.DBPort == "" || c.DBName == "" || c.DBUser == "" {
		return errors.New("missing database config (DB_HOST/PORT/NAME/USER)")
	}
	if c.DBDriver != "mysql" && c.DBDriver != "postgres" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.DBPort); err != nil {
		return fmt.Errorf("invalid DB_PORT %q: %w", c.DBPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if err := c.Lending.Validate(); err != nil {
		return err
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("risk table: %w", err)
	}
	return nil
}

func (l Lending) Validate() error {
	switch {
	case l.MinLoanAmount <= 0 || l.MaxLoanAmount < l.MinLoanAmount:
		return fmt.Errorf("invalid loan bounds [%.2f, %.2f]", l.MinLoanAmount, l.MaxLoanAmount)
	case l.MaxTermMonths <= 0:
		return errors.New("max term must be at least one month")
	case l.MinInvestmentAmount <= 0:
		return errors.New("min investment amount must be positive")
	case l.DefaultCreditLimit <= 0:
		return errors.New("default credit limit must be positive")
	case l.DelinquencyThresholdDays <= 0:
		return errors.New("delinquency threshold must be positive")
	case l.PaymentDueReminderDays < 0:
		return errors.New("payment due reminder days must not be negative")
	}
	return nil
}

func (c *Config) dbAddr() string { return net.JoinHostPort(c.DBHost, c.DBPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.DBUser, c.DBPass, c.dbAddr(), c.DBName)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
}
