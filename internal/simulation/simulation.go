// Package simulation runs every estimator for one configuration and collects
// the results into a single record.
package simulation

import (
	"fmt"
	"time"

	"github.com/iwvelando/biomass-estimator/internal/config"
	"github.com/iwvelando/biomass-estimator/pkg/estimate"
	"github.com/iwvelando/biomass-estimator/pkg/scenario"
	"go.uber.org/zap"
)

// Simulation holds all results computed from one configuration.
type Simulation struct {
	PitchMode bool `json:"pitchMode"`

	Factory   estimate.FactorySetupResult `json:"factory"`
	Transport estimate.TransportResult    `json:"transport"`
	Risk      estimate.RiskResult         `json:"risk"`
	Breakeven estimate.BreakevenResult    `json:"breakeven"`
	Carbon    estimate.CarbonCreditResult `json:"carbon"`

	GCVInputs estimate.GcvPricingInputs `json:"gcvInputs"`
	GCV       estimate.GcvPricingResult `json:"gcv"`
	GCVCurve  []estimate.PricePoint     `json:"gcvCurve"`

	Scenario    scenario.Resolved               `json:"scenario"`
	Combined    estimate.CombinedScenarioResult `json:"combined"`
	Catalog     estimate.Catalog                `json:"catalog"`
	MarketChart []estimate.PricePoint           `json:"marketChart"`
	LivePrice   int                             `json:"livePrice"`
}

// GetSimulation resolves presets and evaluates every calculator once. The
// breakeven forecast uses the factory setup total as its cost.
func GetSimulation(logger *zap.Logger, conf config.Configuration) (Simulation, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conf.ApplyPitchMode()

	var sim Simulation
	sim.PitchMode = conf.PitchMode

	factoryInputs, err := scenario.ResolveFactory(conf.Factory.Template, conf.Factory.TonsPerDay)
	if err != nil {
		return sim, fmt.Errorf("failed to resolve factory setup: %w", err)
	}
	sim.Factory = estimate.FactorySetup(factoryInputs)
	logger.Debug("computed factory setup cost",
		zap.String("op", "simulation.GetSimulation"),
		zap.Float64("tonsPerDay", factoryInputs.TonsPerDay),
		zap.Float64("total", sim.Factory.Total),
	)

	sim.Transport = estimate.TransportCost(conf.Transport)
	sim.Risk = estimate.SimulateRisks(conf.Risks.Selected)
	sim.Breakeven = estimate.Breakeven(estimate.BreakevenInputs{
		TotalCost:     sim.Factory.Total,
		MonthlyProfit: conf.Breakeven.MonthlyProfit,
	})
	sim.Carbon = estimate.CarbonCredit(conf.Carbon)

	sim.GCVInputs, err = conf.GCVInputs()
	if err != nil {
		return sim, fmt.Errorf("failed to resolve GCV pricing inputs: %w", err)
	}
	sim.GCV = estimate.GcvPricing(sim.GCVInputs)
	sim.GCVCurve = estimate.ReferenceCurvePoints()

	sim.Catalog = estimate.ReferenceCatalog()
	sim.Scenario, err = scenario.ResolveCombined(conf.Scenario.Template, conf.Scenario.Custom, sim.Catalog)
	if err != nil {
		return sim, fmt.Errorf("failed to resolve combined scenario: %w", err)
	}
	sim.Combined = estimate.CombinedScenario(sim.Scenario.Inputs)
	logger.Debug("computed combined scenario",
		zap.String("op", "simulation.GetSimulation"),
		zap.String("scenario", sim.Scenario.Name),
		zap.String("source", sim.Scenario.Source),
		zap.Float64("price", sim.Combined.Price),
		zap.Float64("profitWithCredit", sim.Combined.ProfitWithCredit),
	)

	src := RandomSource(conf.Chart)
	sim.MarketChart = estimate.JitteredSeries(sim.Catalog, src)
	sim.LivePrice = estimate.LivePrice(src)

	return sim, nil
}

// RandomSource returns the chart jitter source for a chart configuration. With
// jitter off it is estimate.ZeroJitter; a zero seed draws one from the clock.
func RandomSource(chart config.ChartConfig) estimate.RandomSource {
	if !chart.Jitter {
		return estimate.ZeroJitter
	}
	seed := chart.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return estimate.NewSeededSource(seed)
}
