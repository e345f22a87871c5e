// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Config holds all application configuration.
// Values are loaded from environment variables with defaults.
type Config struct {
	Port    int
	APIURL  *url.URL
	DataDir string

	Engine Engine
}

// Engine configures the budgeting engine.
type Engine struct {
	// Maximum number of active envelopes per owner
	MaxEnvelopes int

	// Income dedup on confirmation. An unlinked income entry is a candidate
	// when its amount is within AmountTolerance (relative) of the confirmed
	// amount and its date within Days of the expected pay date.
	IncomeMatchAmountTolerance decimal.Decimal
	IncomeMatchDays            int
	IncomeCategory             string
	IncomeCategoryPatterns     []string

	// Number of calendar months, ending with the current one, that recurring
	// reconciliation scans for due postings
	RecurringWindowMonths int

	InstanceHistoryLimit int

	Currency currency.Unit
	Location *time.Location
}

// DefaultEngine returns the engine configuration used when no environment
// variables are set.
func DefaultEngine() Engine {
	return Engine{
		MaxEnvelopes:               7,
		IncomeMatchAmountTolerance: decimal.NewFromFloat(0.1),
		IncomeMatchDays:            2,
		IncomeCategory:             "Salary",
		IncomeCategoryPatterns:     []string{"*salary*", "*income*", "*sahod*"},
		RecurringWindowMonths:      2,
		InstanceHistoryLimit:       10,
		Currency:                   currency.MustParseISO("PHP"),
		Location:                   manila(),
	}
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	apiURL, err := url.Parse(getEnv("API_URL", "http://localhost:8080"))
	if err != nil {
		return nil, fmt.Errorf("environment variable API_URL must be a valid URL: %w", err)
	}

	port := 8080
	e := DefaultEngine()
	e.IncomeCategory = getEnv("INCOME_CATEGORY", e.IncomeCategory)

	ints := []struct {
		key   string
		value *int
	}{
		{"PORT", &port},
		{"MAX_ENVELOPES", &e.MaxEnvelopes},
		{"INCOME_MATCH_DAYS", &e.IncomeMatchDays},
		{"RECURRING_WINDOW_MONTHS", &e.RecurringWindowMonths},
		{"INSTANCE_HISTORY_LIMIT", &e.InstanceHistoryLimit},
	}

	for _, i := range ints {
		if err := getEnvInt(i.key, i.value); err != nil {
			return nil, err
		}
	}

	if v, ok := os.LookupEnv("INCOME_CATEGORY_PATTERNS"); ok {
		e.IncomeCategoryPatterns = strings.Fields(strings.ToLower(v))
	}

	if v, ok := os.LookupEnv("INCOME_MATCH_AMOUNT_TOLERANCE"); ok {
		tolerance, err := decimal.NewFromString(v)
		if err != nil || tolerance.IsNegative() {
			return nil, fmt.Errorf("INCOME_MATCH_AMOUNT_TOLERANCE must be a non-negative decimal, got %q", v)
		}
		e.IncomeMatchAmountTolerance = tolerance
	}

	if v, ok := os.LookupEnv("CURRENCY"); ok {
		unit, err := currency.ParseISO(v)
		if err != nil {
			return nil, fmt.Errorf("CURRENCY must be an ISO 4217 code: %w", err)
		}
		e.Currency = unit
	}

	if v, ok := os.LookupEnv("TIMEZONE"); ok {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return nil, fmt.Errorf("TIMEZONE must be an IANA time zone name: %w", err)
		}
		e.Location = loc
	}

	if e.MaxEnvelopes < 1 {
		return nil, fmt.Errorf("MAX_ENVELOPES must be at least 1, got %d", e.MaxEnvelopes)
	}

	if e.IncomeMatchDays < 0 {
		return nil, fmt.Errorf("INCOME_MATCH_DAYS must not be negative, got %d", e.IncomeMatchDays)
	}

	if e.InstanceHistoryLimit < 1 {
		return nil, fmt.Errorf("INSTANCE_HISTORY_LIMIT must be at least 1, got %d", e.InstanceHistoryLimit)
	}

	if e.RecurringWindowMonths < 1 {
		return nil, fmt.Errorf("RECURRING_WINDOW_MONTHS must be at least 1, got %d", e.RecurringWindowMonths)
	}

	return &Config{
		Port:    port,
		APIURL:  apiURL,
		DataDir: getEnv("DATA_DIR", "data"),
		Engine:  e,
	}, nil
}

// manila returns the Asia/Manila location, falling back to a fixed
// UTC+8 zone when no time zone database is available.
func manila() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getEnvInt sets target to the integer value of key if it is set.
func getEnvInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, v)
	}

	*target = i
	return nil
}
