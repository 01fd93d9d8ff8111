/*
Package config loads server settings and the operator's default
simulation assumptions from a YAML file, with environment overrides.

PURPOSE:
  The dashboard frontend sends full parameter sets with every projection
  request, but the operator's house defaults (session price, tax regime,
  facility size, the named staff) live here so every client starts from
  the same assumptions. Server plumbing (port, database path) lives next
  to them.

PRECEDENCE:
  defaults < YAML file < environment variables

ENVIRONMENT:
  PORT         HTTP port
  SQLITE_PATH  database file
  LOG_LEVEL    read by the logging package, not here
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/clinsim/planning-engine/forecast"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port       int    `yaml:"port"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"server"`

	// Defaults are the operator's house assumptions, served to clients
	// and used when a projection request omits a field group.
	Defaults Assumptions `yaml:"defaults"`
}

// Assumptions is the YAML/operator-facing shape of the simulation
// parameters. Percentages are 0..100 here; the engine works in
// fractions.
type Assumptions struct {
	SessionPrice   float64 `yaml:"session_price"`
	ClinicSharePct float64 `yaml:"clinic_share_pct"`
	TaxBase        string  `yaml:"tax_base"` // total_revenue | clinic_share
	TaxPct         float64 `yaml:"tax_pct"`

	MonthsBeforeOperating int `yaml:"months_before_operating"`
	InitialClients        int `yaml:"initial_clients"`

	CeilingPolicy string `yaml:"ceiling_policy"` // none | anchor | anchor_and_associate
	Anchor        Staff  `yaml:"anchor"`
	Associate     Staff  `yaml:"associate"`

	WeekdaysPerWeek    int `yaml:"weekdays_per_week"`
	WeeksPerMonth      int `yaml:"weeks_per_month"`
	HoursPerDayPerRoom int `yaml:"hours_per_day_per_room"`
	Rooms              int `yaml:"rooms"`

	MonthlyClientGrowth int `yaml:"monthly_client_growth"`
	InvestorStartMonth  int `yaml:"investor_start_month"`

	ClientsPerNewHire int `yaml:"clients_per_new_hire"`
	HireCapacity      int `yaml:"hire_capacity"`

	InitialHealthBalance float64 `yaml:"initial_health_balance"`
	BreakevenTarget      float64 `yaml:"breakeven_target"`

	FinancialCategories []string `yaml:"financial_categories"`
	InvestorCategory    string   `yaml:"investor_category"`
}

// Staff mirrors forecast.StaffMember for YAML.
type Staff struct {
	Name            string  `yaml:"name"`
	MonthlySessions int     `yaml:"monthly_sessions"`
	SessionPrice    float64 `yaml:"session_price"`
}

// Load reads config from a YAML file (missing file is fine), then
// applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Server.SQLitePath = v
	}

	// Defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.SQLitePath == "" {
		cfg.Server.SQLitePath = "data/clinic.db"
	}
	cfg.Defaults = cfg.Defaults.withHouseDefaults()

	return cfg, nil
}

// withHouseDefaults fills zero fields with the clinic's standing
// assumptions.
func (a Assumptions) withHouseDefaults() Assumptions {
	if a.SessionPrice == 0 {
		a.SessionPrice = 300
	}
	if a.ClinicSharePct == 0 {
		a.ClinicSharePct = 60
	}
	if a.TaxBase == "" {
		a.TaxBase = string(forecast.TaxBaseTotalRevenue)
	}
	if a.TaxPct == 0 {
		a.TaxPct = 15
	}
	if a.InitialClients == 0 {
		a.InitialClients = 15
	}
	if a.CeilingPolicy == "" {
		a.CeilingPolicy = string(forecast.CeilingNone)
	}
	if a.Anchor == (Staff{}) {
		a.Anchor = Staff{Name: "Luiza", MonthlySessions: 100, SessionPrice: 300}
	}
	if a.Associate == (Staff{}) {
		a.Associate = Staff{Name: "Noelia", MonthlySessions: 150, SessionPrice: 350}
	}
	if a.WeekdaysPerWeek == 0 {
		a.WeekdaysPerWeek = 5
	}
	if a.WeeksPerMonth == 0 {
		a.WeeksPerMonth = 4
	}
	if a.HoursPerDayPerRoom == 0 {
		a.HoursPerDayPerRoom = 12
	}
	if a.Rooms == 0 {
		a.Rooms = 3
	}
	if a.MonthlyClientGrowth == 0 {
		a.MonthlyClientGrowth = 5
	}
	if a.InvestorStartMonth == 0 {
		a.InvestorStartMonth = 8
	}
	if a.HireCapacity == 0 {
		a.HireCapacity = 30
	}
	if a.BreakevenTarget == 0 {
		a.BreakevenTarget = 250000
	}
	return a
}

// Parameters converts the operator-facing assumptions into the engine's
// parameter value (percentages become fractions).
func (a Assumptions) Parameters() forecast.Parameters {
	pct := decimal.NewFromInt(100)
	return forecast.Parameters{
		SessionPrice: decimal.NewFromFloat(a.SessionPrice),
		ClinicShare:  decimal.NewFromFloat(a.ClinicSharePct).Div(pct),
		TaxBase:      forecast.TaxBase(a.TaxBase),
		TaxRate:      decimal.NewFromFloat(a.TaxPct).Div(pct),

		MonthsBeforeOperating: a.MonthsBeforeOperating,
		InitialClients:        a.InitialClients,

		CeilingPolicy: forecast.CeilingPolicy(a.CeilingPolicy),
		Anchor:        a.Anchor.member(),
		Associate:     a.Associate.member(),

		WeekdaysPerWeek:    a.WeekdaysPerWeek,
		WeeksPerMonth:      a.WeeksPerMonth,
		HoursPerDayPerRoom: a.HoursPerDayPerRoom,
		Rooms:              a.Rooms,

		MonthlyClientGrowth: a.MonthlyClientGrowth,
		InvestorStartMonth:  a.InvestorStartMonth,

		ClientsPerNewHire: a.ClientsPerNewHire,
		HireCapacity:      a.HireCapacity,

		InitialHealthBalance: decimal.NewFromFloat(a.InitialHealthBalance),

		FinancialCategories: a.FinancialCategories,
		InvestorCategory:    a.InvestorCategory,
	}
}

func (s Staff) member() forecast.StaffMember {
	return forecast.StaffMember{
		Name:            s.Name,
		MonthlySessions: s.MonthlySessions,
		SessionPrice:    decimal.NewFromFloat(s.SessionPrice),
	}
}
