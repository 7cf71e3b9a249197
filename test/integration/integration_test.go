package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/biomass-estimator/internal/config"
	"github.com/iwvelando/biomass-estimator/internal/simulation"
	"github.com/iwvelando/biomass-estimator/internal/store"
	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"github.com/iwvelando/biomass-estimator/pkg/estimate"
	"github.com/iwvelando/biomass-estimator/pkg/mathutil"
	"github.com/iwvelando/biomass-estimator/pkg/output"
	"github.com/iwvelando/biomass-estimator/pkg/scenario"
	"github.com/iwvelando/biomass-estimator/pkg/testutil"
	"go.uber.org/zap"
)

const testConfigPath = "../test_config.yaml"

func loadTestSimulation(t *testing.T) simulation.Simulation {
	t.Helper()

	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	sim, err := simulation.GetSimulation(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("GetSimulation() error = %v", err)
	}
	return sim
}

// TestMainIntegrationBaseline checks every calculator against figures worked
// out by hand for the test configuration.
func TestMainIntegrationBaseline(t *testing.T) {
	sim := loadTestSimulation(t)

	baselineChecks := []struct {
		name      string
		got       float64
		want      float64
		tolerance float64
	}{
		{"factory tons per day", sim.Factory.TonsPerDay, 5, 0},
		{"factory total", sim.Factory.Total, 21195000, 1e-6},
		{"transport cost", sim.Transport.Cost, 35000, 0},
		{"risk total loss", sim.Risk.TotalLoss, 80000, 0},
		{"breakeven months", float64(sim.Breakeven.Months), 141, 0},
		{"co2 saved", sim.Carbon.CO2Saved, 90, 1e-9},
		{"credit value", sim.Carbon.CreditValue, 72000, 1e-6},
		{"gcv", sim.GCVInputs.GCV, 4800, 0},
		{"gcv market price", sim.GCV.MarketPricePerTon, 21600, 1e-9},
		{"gcv profit", sim.GCV.ProfitPerTon, 15600, 1e-9},
		{"combined price", sim.Combined.Price, 7750, 1e-9},
		{"combined total cost", sim.Combined.TotalCost, 190000, 0},
		{"combined revenue", sim.Combined.Revenue, 232500, 1e-6},
		{"combined carbon credit", sim.Combined.CarbonCredit, 21000, 0},
		{"profit with credit", sim.Combined.ProfitWithCredit, 63500, 1e-6},
		{"breakeven tons", sim.Combined.BreakevenTons, 24.52, 1e-9},
		{"roi", mathutil.RoundTo(sim.Combined.ROI, 2), 33.42, 1e-9},
	}

	for _, check := range baselineChecks {
		if !testutil.NearlyEqual(check.got, check.want, check.tolerance) {
			t.Errorf("%s = %v, want %v", check.name, check.got, check.want)
		}
	}

	if sim.Scenario.Name != scenario.PresetSemiAutomated || sim.Scenario.Source != scenario.SourcePreset {
		t.Errorf("scenario = %+v", sim.Scenario)
	}
	if len(sim.Risk.SelectedRisks) != 2 {
		t.Errorf("selected risks = %+v", sim.Risk.SelectedRisks)
	}
}

func TestSeededChartStaysInBand(t *testing.T) {
	sim := loadTestSimulation(t)

	for i, p := range sim.MarketChart {
		if math.Abs(p.Price-sim.Catalog[i].Price) > estimate.PriceJitter {
			t.Errorf("chart point %d (%s) = %v, outside ±%d of %v",
				i, sim.Catalog[i].Name, p.Price, estimate.PriceJitter, sim.Catalog[i].Price)
		}
	}
	if sim.LivePrice < estimate.LivePriceMinimum || sim.LivePrice > estimate.LivePriceMaximum {
		t.Errorf("LivePrice = %d", sim.LivePrice)
	}

	again := loadTestSimulation(t)
	if !reflect.DeepEqual(sim.MarketChart, again.MarketChart) || sim.LivePrice != again.LivePrice {
		t.Error("a fixed seed should reproduce the chart")
	}
}

// TestCSVOutputFormat tests the long-format CSV output
func TestCSVOutputFormat(t *testing.T) {
	sim := loadTestSimulation(t)

	records, err := csv.NewReader(strings.NewReader(output.CsvString(sim))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if len(records) < 20 {
		t.Fatalf("expected a row per figure, got %d rows", len(records))
	}
	for i, record := range records {
		if len(record) != 3 {
			t.Errorf("row %d has %d fields: %v", i, len(record), record)
		}
	}

	sections := map[string]bool{}
	for _, record := range records[1:] {
		sections[record[0]] = true
	}
	for _, want := range []string{"factory", "transport", "risk", "breakeven", "carbon", "gcv", "scenario"} {
		if !sections[want] {
			t.Errorf("CSV output missing section %s", want)
		}
	}
}

// TestPrettyOutputFormat tests the pretty print output
func TestPrettyOutputFormat(t *testing.T) {
	sim := loadTestSimulation(t)

	var buf bytes.Buffer
	output.PrettyFormat(&buf, sim)
	out := buf.String()

	for _, want := range []string{
		"--- Factory setup (5 TPD) ---",
		"Total setup cost: ₹21,195,000",
		"Power Outage",
		"Fuel Price Surge",
		"Estimated breakeven: 141 months",
		"Credit Value: ₹72,000",
		"--- Combined scenario Semi-Automated (preset) ---",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty output missing %q", want)
		}
	}
}

func TestExportSections(t *testing.T) {
	sim := loadTestSimulation(t)

	for _, section := range []string{
		constants.SectionFactory, constants.SectionRisk, constants.SectionCarbon,
		constants.SectionScenario, constants.SectionCatalog,
	} {
		t.Run(section, func(t *testing.T) {
			var buf bytes.Buffer
			if err := output.WriteSection(&buf, sim, section); err != nil {
				t.Fatalf("WriteSection() error = %v", err)
			}
			if buf.Len() == 0 {
				t.Error("empty export")
			}
		})
	}
}

// TestConfigurationValidation checks that the shipped configurations are clean
// and that out-of-range values warn without stopping the computation.
func TestConfigurationValidation(t *testing.T) {
	for _, path := range []string{testConfigPath, filepath.Join("..", "..", constants.ExampleConfigFile)} {
		conf, err := config.LoadConfiguration(path)
		if err != nil {
			t.Fatalf("LoadConfiguration(%s) error = %v", path, err)
		}
		if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
			t.Errorf("%s: unexpected warnings %v", path, warnings)
		}
	}

	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	conf.Transport.DistanceKm = 5000
	conf.Carbon.MonthlyTons = 1

	if warnings := conf.ValidateConfiguration(); len(warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", warnings)
	}
	sim, err := simulation.GetSimulation(zap.NewNop(), *conf)
	if err != nil {
		t.Fatalf("out-of-range values should still compute: %v", err)
	}
	if sim.Transport.Cost != 5000*20*7 {
		t.Errorf("Transport.Cost = %v", sim.Transport.Cost)
	}
}

// TestConfigurationVariations runs every combined preset through the full pipeline.
func TestConfigurationVariations(t *testing.T) {
	tests := []struct {
		preset           string
		price            float64
		totalCost        float64
		profitWithCredit float64
		breakevenTons    float64
		roi              float64
	}{
		{scenario.PresetBasic, 5750, 175000, -50000, 30.43, -28.57},
		{scenario.PresetSemiAutomated, 7750, 190000, 63500, 24.52, 33.42},
		{scenario.PresetPremiumExport, 10500, 240000, 335000, 22.86, 139.58},
		{scenario.PresetTorrefied, 10500, 209000, 251000, 19.9, 120.1},
	}

	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			conf := config.Default()
			conf.Scenario.Template = tt.preset

			sim, err := simulation.GetSimulation(zap.NewNop(), *conf)
			if err != nil {
				t.Fatalf("GetSimulation() error = %v", err)
			}

			r := sim.Combined
			if !testutil.NearlyEqual(r.Price, tt.price, 1e-9) ||
				r.TotalCost != tt.totalCost ||
				!testutil.NearlyEqual(r.ProfitWithCredit, tt.profitWithCredit, 1e-6) ||
				!testutil.NearlyEqual(r.BreakevenTons, tt.breakevenTons, 1e-9) {
				t.Errorf("combined = %+v", r)
			}

			roi := testutil.FindMetric(output.ScenarioMetrics(r), "ROI (%)")
			if roi == nil || !testutil.NearlyEqual(roi.Value, tt.roi, 1e-9) {
				t.Errorf("ROI metric = %+v, want %v", roi, tt.roi)
			}
			if !testutil.NearlyEqual(r.EarningPerKcal, 2.5, 1e-9) {
				t.Errorf("EarningPerKcal = %v", r.EarningPerKcal)
			}
		})
	}
}

// TestDataConsistency checks the relationships between figures.
func TestDataConsistency(t *testing.T) {
	sim := loadTestSimulation(t)

	var sum float64
	for _, line := range sim.Factory.Lines {
		sum += line.Cost
	}
	if sum != sim.Factory.Total {
		t.Errorf("factory lines sum to %v, total is %v", sum, sim.Factory.Total)
	}
	if line := testutil.FindCostLine(sim.Factory.Lines, estimate.CategoryContingency); line == nil || line.Cost != 1045000 {
		t.Errorf("contingency line = %+v", line)
	}

	for i, point := range sim.Breakeven.CumulativeProfit {
		if point.Month != i+1 {
			t.Errorf("point %d has month %d", i, point.Month)
		}
		if i > 0 && point.CumulativeProfit < sim.Breakeven.CumulativeProfit[i-1].CumulativeProfit {
			t.Errorf("cumulative profit decreased at month %d", point.Month)
		}
	}

	r := sim.Combined
	if r.TotalRevenue != r.Revenue+r.CarbonCredit {
		t.Error("total revenue should be revenue plus carbon credit")
	}
	if r.ProfitWithCredit-r.ProfitWithoutCredit != r.CarbonCredit {
		t.Error("credit should be the only difference between the two profits")
	}
	if r.Price != estimate.CanonicalPrice(sim.Scenario.Inputs.GCV) {
		t.Error("combined price should be the canonical GCV price")
	}
}

func TestEndToEndWithHistory(t *testing.T) {
	ctx := context.Background()
	sim := loadTestSimulation(t)

	db, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	defer db.Close()
	if err := store.Migrate(ctx, db); err != nil {
		t.Fatalf("store.Migrate() error = %v", err)
	}

	runs := store.NewRunStore(db, zap.NewNop())
	conf := config.Default()
	saved, err := runs.Save(ctx, "cli", conf, sim)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := runs.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !strings.Contains(string(got.Config), `"pitchMode":false`) {
		t.Errorf("stored config = %s", got.Config)
	}
	if !strings.Contains(string(got.Result), `"months":141`) {
		t.Errorf("stored result missing breakeven months: %s", got.Result)
	}
}
