// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"github.com/iwvelando/biomass-estimator/pkg/estimate"
	"github.com/iwvelando/biomass-estimator/pkg/scenario"
	"github.com/iwvelando/biomass-estimator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for biomass-estimator.
type Configuration struct {
	PitchMode bool                        `json:"pitchMode" yaml:"pitchMode"`
	Factory   FactoryConfig               `json:"factory" yaml:"factory"`
	Transport estimate.TransportInputs    `json:"transport" yaml:"transport"`
	Risks     RiskConfig                  `json:"risks" yaml:"risks"`
	Breakeven BreakevenConfig             `json:"breakeven" yaml:"breakeven"`
	Carbon    estimate.CarbonCreditInputs `json:"carbon" yaml:"carbon"`
	GCV       GCVConfig                   `json:"gcv" yaml:"gcv"`
	Scenario  ScenarioConfig              `json:"scenario" yaml:"scenario"`
	Chart     ChartConfig                 `json:"chart" yaml:"chart"`
	Logging   LoggingConfig               `json:"logging,omitempty" yaml:"logging,omitempty"`
	Output    OutputConfig                `json:"output,omitempty" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`         // json, console
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // pretty, csv, json
}

// FactoryConfig selects the plant size.
type FactoryConfig struct {
	Template   string  `json:"template" yaml:"template"` // Custom, Basic, Premium
	TonsPerDay float64 `json:"tonsPerDay" yaml:"tonsPerDay"`
}

// RiskConfig lists the risk IDs to simulate.
type RiskConfig struct {
	Selected []string `json:"selected" yaml:"selected"`
}

// BreakevenConfig holds the expected monthly profit. The total cost is the
// factory setup total.
type BreakevenConfig struct {
	MonthlyProfit float64 `json:"monthlyProfit" yaml:"monthlyProfit"`
}

// GCVConfig drives the simple GCV pricing calculator. A zero GCV takes the
// value of Biomass from the simple catalog.
type GCVConfig struct {
	Biomass    string  `json:"biomass" yaml:"biomass"`
	GCV        float64 `json:"gcv" yaml:"gcv"`
	CostPerTon float64 `json:"costPerTon" yaml:"costPerTon"`
}

// ScenarioConfig selects a combined scenario preset or custom values.
type ScenarioConfig struct {
	Template string          `json:"template" yaml:"template"` // Custom, Basic, Semi-Automated, Premium Export, Torrefied Biomass
	Custom   scenario.Custom `json:"custom" yaml:"custom"`
}

// ChartConfig controls the decorative chart jitter. With Jitter off the
// series is deterministic.
type ChartConfig struct {
	Jitter bool   `json:"jitter" yaml:"jitter"`
	Seed   uint64 `json:"seed" yaml:"seed"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

// Default returns the configuration the dashboard opens with.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults are static; a decode failure is a programming error.
		panic(fmt.Sprintf("invalid default configuration: %v", err))
	}
	return conf
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	custom := scenario.DefaultCustom()
	pitch := scenario.Pitch()

	v.SetDefault("pitchMode", false)
	v.SetDefault("factory.template", scenario.TemplateCustom)
	v.SetDefault("factory.tonsPerDay", pitch.TonsPerDay)
	v.SetDefault("transport.distanceKm", pitch.Transport.DistanceKm)
	v.SetDefault("transport.tons", pitch.Transport.Tons)
	v.SetDefault("transport.ratePerTonKm", pitch.Transport.RatePerTonKm)
	v.SetDefault("risks.selected", []string{})
	v.SetDefault("breakeven.monthlyProfit", pitch.MonthlyProfit)
	v.SetDefault("carbon.monthlyTons", pitch.Carbon.MonthlyTons)
	v.SetDefault("carbon.creditRatePerTon", pitch.Carbon.CreditRatePerTon)
	v.SetDefault("gcv.biomass", estimate.SimpleCatalog()[0].Name)
	v.SetDefault("gcv.gcv", 0)
	v.SetDefault("gcv.costPerTon", estimate.DefaultCostPerTon)
	v.SetDefault("scenario.template", scenario.TemplateCustom)
	v.SetDefault("scenario.custom.mode", custom.Mode)
	v.SetDefault("scenario.custom.biomass", custom.Biomass)
	v.SetDefault("scenario.custom.gcv", custom.GCV)
	v.SetDefault("scenario.custom.tons", custom.Tons)
	v.SetDefault("scenario.custom.rawMaterialCost", custom.RawMaterialCost)
	v.SetDefault("scenario.custom.laborCost", custom.LaborCost)
	v.SetDefault("scenario.custom.electricityCost", custom.ElectricityCost)
	v.SetDefault("scenario.custom.maintenanceCost", custom.MaintenanceCost)
	v.SetDefault("scenario.custom.creditPerTon", custom.CreditPerTon)
	v.SetDefault("chart.jitter", false)
	v.SetDefault("chart.seed", 0)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ApplyPitchMode replaces the user inputs with the pitch defaults when pitch
// mode is on. Templates other than custom keep their preset values.
func (c *Configuration) ApplyPitchMode() {
	if !c.PitchMode {
		return
	}
	pitch := scenario.Pitch()
	c.Factory.TonsPerDay = pitch.TonsPerDay
	c.Transport = pitch.Transport
	c.Risks.Selected = append([]string(nil), pitch.Risks...)
	c.Breakeven.MonthlyProfit = pitch.MonthlyProfit
	c.Carbon = pitch.Carbon
}

// GCVInputs resolves the simple GCV pricing inputs, taking the GCV from the
// simple catalog when none is set.
func (c *Configuration) GCVInputs() (estimate.GcvPricingInputs, error) {
	in := estimate.GcvPricingInputs{GCV: c.GCV.GCV, CostPerTon: c.GCV.CostPerTon}
	if in.GCV != 0 {
		return in, nil
	}
	entry, err := estimate.SimpleCatalog().Lookup(c.GCV.Biomass)
	if err != nil {
		return in, err
	}
	in.GCV = entry.GCV
	return in, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Out-of-range values are computed anyway.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if _, err := scenario.ResolveFactory(c.Factory.Template, c.Factory.TonsPerDay); err != nil {
		warnings = append(warnings, err.Error())
	} else if isCustom(c.Factory.Template) {
		warnings = validation.Collect(warnings,
			validation.ValidateRange("factory.tonsPerDay", c.Factory.TonsPerDay, constants.MinTonsPerDay, constants.MaxTonsPerDay))
	}

	warnings = validation.Collect(warnings,
		validation.ValidateRange("transport.distanceKm", c.Transport.DistanceKm, constants.MinDistanceKm, constants.MaxDistanceKm),
		validation.ValidateRange("transport.tons", c.Transport.Tons, constants.MinTransportTons, constants.MaxTransportTons),
		validation.ValidateNonNegative("transport.ratePerTonKm", c.Transport.RatePerTonKm),
		validation.ValidateRange("carbon.monthlyTons", c.Carbon.MonthlyTons, constants.MinCarbonMonthlyTons, constants.MaxCarbonMonthlyTons),
		validation.ValidateNonNegative("carbon.creditRatePerTon", c.Carbon.CreditRatePerTon),
		validation.ValidateNonNegative("gcv.gcv", c.GCV.GCV),
		validation.ValidateNonNegative("gcv.costPerTon", c.GCV.CostPerTon),
	)

	if c.Breakeven.MonthlyProfit == 0 {
		warnings = append(warnings, "breakeven.monthlyProfit is 0; breakeven months will be reported as 0")
	}

	for _, id := range c.Risks.Selected {
		if _, ok := estimate.LookupRisk(id); !ok {
			warnings = append(warnings, fmt.Sprintf("risk '%s' is not in the risk catalog and will be ignored", id))
		}
	}

	if c.GCV.GCV == 0 {
		simple := estimate.SimpleCatalog()
		if entry, err := simple.Lookup(c.GCV.Biomass); err != nil {
			warnings = append(warnings, err.Error())
		} else {
			for _, dup := range simple.Duplicates() {
				if dup == c.GCV.Biomass {
					warnings = append(warnings, fmt.Sprintf("biomass '%s' is listed more than once; using the last entry (%v kcal/kg)", dup, entry.GCV))
				}
			}
		}
	}

	warnings = append(warnings, c.validateScenario()...)

	return warnings
}

func (c *Configuration) validateScenario() []string {
	if !isCustom(c.Scenario.Template) {
		if _, err := scenario.ResolvePreset(c.Scenario.Template); err != nil {
			return []string{err.Error()}
		}
		return nil
	}

	custom := c.Scenario.Custom
	warnings := validation.Collect(nil,
		validation.ValidateRange("scenario.custom.tons", custom.Tons, constants.MinScenarioTons, constants.MaxScenarioTons),
		validation.ValidateNonNegative("scenario.custom.rawMaterialCost", custom.RawMaterialCost),
		validation.ValidateNonNegative("scenario.custom.laborCost", custom.LaborCost),
		validation.ValidateNonNegative("scenario.custom.electricityCost", custom.ElectricityCost),
		validation.ValidateNonNegative("scenario.custom.maintenanceCost", custom.MaintenanceCost),
		validation.ValidateNonNegative("scenario.custom.creditPerTon", custom.CreditPerTon),
	)

	switch strings.ToLower(strings.TrimSpace(custom.Mode)) {
	case scenario.ModeManual:
		warnings = validation.Collect(warnings,
			validation.ValidateRange("scenario.custom.gcv", custom.GCV, constants.MinManualGCV, constants.MaxManualGCV))
	case scenario.ModeCatalog, "":
		if _, err := estimate.ReferenceCatalog().Lookup(custom.Biomass); err != nil {
			warnings = append(warnings, err.Error())
		}
	default:
		warnings = append(warnings, fmt.Sprintf("scenario.custom.mode '%s' is not one of %s or %s",
			custom.Mode, scenario.ModeCatalog, scenario.ModeManual))
	}

	return warnings
}

func isCustom(template string) bool {
	t := strings.TrimSpace(template)
	return t == "" || strings.EqualFold(t, scenario.TemplateCustom)
}
