// Package scenario resolves named presets and custom selections into the
// input tuples consumed by the estimate calculators.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/biomass-estimator/pkg/estimate"
)

// ErrUnknownPreset is returned for a template or preset name that is not defined.
var ErrUnknownPreset = errors.New("unknown scenario preset")

// TemplateCustom selects user-supplied values instead of a preset.
const TemplateCustom = "Custom"

// Factory setup templates.
const (
	FactoryBasic   = "Basic"
	FactoryPremium = "Premium"
)

// Combined scenario presets.
const (
	PresetBasic         = "Basic"
	PresetSemiAutomated = "Semi-Automated"
	PresetPremiumExport = "Premium Export"
	PresetTorrefied     = "Torrefied Biomass"
)

// GCV input modes for custom combined scenarios.
const (
	ModeCatalog = "catalog"
	ModeManual  = "manual"
)

// Sources recorded on a resolved combined scenario.
const (
	SourcePreset  = "preset"
	SourceCatalog = "catalog"
	SourceManual  = "manual"
)

// FactoryTemplate is a named plant size.
type FactoryTemplate struct {
	Name       string  `json:"name"`
	TonsPerDay float64 `json:"tonsPerDay"`
}

var factoryTemplates = []FactoryTemplate{
	{Name: FactoryBasic, TonsPerDay: 2},
	{Name: FactoryPremium, TonsPerDay: 5},
}

// FactoryTemplates returns the named plant sizes.
func FactoryTemplates() []FactoryTemplate {
	return append([]FactoryTemplate(nil), factoryTemplates...)
}

// ResolveFactory returns the setup inputs for template, falling back to
// customTPD for the custom template or an empty name.
func ResolveFactory(template string, customTPD float64) (estimate.FactorySetupInputs, error) {
	if isCustom(template) {
		return estimate.FactorySetupInputs{TonsPerDay: customTPD}, nil
	}
	for _, t := range factoryTemplates {
		if t.Name == template {
			return estimate.FactorySetupInputs{TonsPerDay: t.TonsPerDay}, nil
		}
	}
	return estimate.FactorySetupInputs{}, fmt.Errorf("%w: factory template %q", ErrUnknownPreset, template)
}

// Preset is a named combined scenario.
type Preset struct {
	Name   string                          `json:"name"`
	Inputs estimate.CombinedScenarioInputs `json:"inputs"`
}

var presets = []Preset{
	{Name: PresetBasic, Inputs: estimate.CombinedScenarioInputs{
		Tons: 20, GCV: 2300, RawMaterialCost: 75000, LaborCost: 60000,
		ElectricityCost: 25000, MaintenanceCost: 15000, CreditPerTon: 500,
	}},
	{Name: PresetSemiAutomated, Inputs: estimate.CombinedScenarioInputs{
		Tons: 30, GCV: 3100, RawMaterialCost: 90000, LaborCost: 50000,
		ElectricityCost: 30000, MaintenanceCost: 20000, CreditPerTon: 700,
	}},
	{Name: PresetPremiumExport, Inputs: estimate.CombinedScenarioInputs{
		Tons: 50, GCV: 4200, RawMaterialCost: 110000, LaborCost: 70000,
		ElectricityCost: 35000, MaintenanceCost: 25000, CreditPerTon: 1000,
	}},
	{Name: PresetTorrefied, Inputs: estimate.CombinedScenarioInputs{
		Tons: 40, GCV: 4200, RawMaterialCost: 100000, LaborCost: 55000,
		ElectricityCost: 32000, MaintenanceCost: 22000, CreditPerTon: 1000,
	}},
}

// Presets returns the combined scenario presets in menu order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// ResolvePreset returns the fixed inputs of a named combined preset.
func ResolvePreset(name string) (estimate.CombinedScenarioInputs, error) {
	for _, p := range presets {
		if p.Name == name {
			return p.Inputs, nil
		}
	}
	return estimate.CombinedScenarioInputs{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Custom holds the user-entered values of a custom combined scenario.
type Custom struct {
	Mode            string  `json:"mode" yaml:"mode"`
	Biomass         string  `json:"biomass" yaml:"biomass"`
	GCV             float64 `json:"gcv" yaml:"gcv"`
	Tons            float64 `json:"tons" yaml:"tons"`
	RawMaterialCost float64 `json:"rawMaterialCost" yaml:"rawMaterialCost"`
	LaborCost       float64 `json:"laborCost" yaml:"laborCost"`
	ElectricityCost float64 `json:"electricityCost" yaml:"electricityCost"`
	MaintenanceCost float64 `json:"maintenanceCost" yaml:"maintenanceCost"`
	CreditPerTon    float64 `json:"creditPerTon" yaml:"creditPerTon"`
}

// DefaultCustom returns the values a custom scenario starts from.
func DefaultCustom() Custom {
	return Custom{
		Mode:            ModeCatalog,
		Biomass:         "Sugarcane Bagasse",
		GCV:             4000,
		Tons:            25,
		RawMaterialCost: 80000,
		LaborCost:       60000,
		ElectricityCost: 25000,
		MaintenanceCost: 15000,
		CreditPerTon:    700,
	}
}

// Resolved is a combined scenario ready for calculation.
type Resolved struct {
	Name   string                          `json:"name"`
	Source string                          `json:"source"`
	Inputs estimate.CombinedScenarioInputs `json:"inputs"`
	// Biomass and ReferencePrice are set for catalog selections. The reference
	// price is informational; the calculation always uses the canonical price.
	Biomass        string  `json:"biomass,omitempty"`
	ReferencePrice float64 `json:"referencePrice,omitempty"`
}

// ResolveCombined maps a template name, or custom values for the custom
// template, onto calculator inputs. Catalog mode takes the GCV from catalog.
func ResolveCombined(template string, custom Custom, catalog estimate.Catalog) (Resolved, error) {
	if !isCustom(template) {
		inputs, err := ResolvePreset(template)
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Name: template, Source: SourcePreset, Inputs: inputs}, nil
	}

	resolved := Resolved{
		Name: TemplateCustom,
		Inputs: estimate.CombinedScenarioInputs{
			Tons:            custom.Tons,
			RawMaterialCost: custom.RawMaterialCost,
			LaborCost:       custom.LaborCost,
			ElectricityCost: custom.ElectricityCost,
			MaintenanceCost: custom.MaintenanceCost,
			CreditPerTon:    custom.CreditPerTon,
		},
	}

	switch strings.ToLower(strings.TrimSpace(custom.Mode)) {
	case ModeManual:
		resolved.Source = SourceManual
		resolved.Inputs.GCV = custom.GCV
	case ModeCatalog, "":
		entry, err := catalog.Lookup(custom.Biomass)
		if err != nil {
			return Resolved{}, err
		}
		resolved.Source = SourceCatalog
		resolved.Biomass = entry.Name
		resolved.ReferencePrice = entry.Price
		resolved.Inputs.GCV = entry.GCV
	default:
		return Resolved{}, fmt.Errorf("unknown GCV input mode %q", custom.Mode)
	}

	return resolved, nil
}

// PitchDefaults are the values shown when inputs are hidden for a client pitch.
type PitchDefaults struct {
	TonsPerDay    float64                     `json:"tonsPerDay"`
	Transport     estimate.TransportInputs    `json:"transport"`
	Risks         []string                    `json:"risks"`
	MonthlyProfit float64                     `json:"monthlyProfit"`
	Carbon        estimate.CarbonCreditInputs `json:"carbon"`
}

// Pitch returns the pitch-mode defaults. No risks are selected in a pitch.
func Pitch() PitchDefaults {
	return PitchDefaults{
		TonsPerDay:    2,
		Transport:     estimate.TransportInputs{DistanceKm: 120, Tons: 10, RatePerTonKm: 6.5},
		Risks:         []string{},
		MonthlyProfit: 75000,
		Carbon:        estimate.CarbonCreditInputs{MonthlyTons: 30, CreditRatePerTon: 700},
	}
}

func isCustom(template string) bool {
	t := strings.TrimSpace(template)
	return t == "" || strings.EqualFold(t, TemplateCustom)
}
