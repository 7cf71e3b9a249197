package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/biomass-estimator/internal/config"
	"github.com/iwvelando/biomass-estimator/internal/simulation"
	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"github.com/iwvelando/biomass-estimator/pkg/estimate"
)

func defaultSimulation(t *testing.T) simulation.Simulation {
	t.Helper()
	conf := config.Default()
	conf.Risks.Selected = []string{estimate.RiskPowerOutage, estimate.RiskMachineBreakdown}
	sim, err := simulation.GetSimulation(nil, *conf)
	if err != nil {
		t.Fatalf("GetSimulation() error = %v", err)
	}
	return sim
}

func TestPrettyFormat(t *testing.T) {
	sim := defaultSimulation(t)

	var buf bytes.Buffer
	PrettyFormat(&buf, sim)
	output := buf.String()

	expected := []string{
		"--- Factory setup (2 TPD) ---",
		"Category        | Cost",
		"Total setup cost: ₹17,160,000",
		"120 km x 10 t x ₹6.50/t/km = ₹7,800",
		"Simulated total loss: ₹130,000",
		"Estimated breakeven: 228 months",
		"Month 12 | ₹900,000",
		"CO₂ Saved: 54.00 tons",
		"Credit Value: ₹37,800",
		"market price ₹15,750 / ton, profit ₹10,750 / ton",
		"--- Combined scenario Custom (catalog) ---",
		"GCV: 2,300 kcal/kg -> Estimated Price: ₹5,750/ton",
		"Live price today: ₹10,000/ton",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat missing %q", want)
		}
	}
	if strings.Contains(output, "pitch mode") {
		t.Error("pitch banner shown without pitch mode")
	}
}

func TestPrettyFormatPitchMode(t *testing.T) {
	conf := config.Default()
	conf.PitchMode = true
	sim, err := simulation.GetSimulation(nil, *conf)
	if err != nil {
		t.Fatalf("GetSimulation() error = %v", err)
	}

	var buf bytes.Buffer
	PrettyFormat(&buf, sim)
	if !strings.HasPrefix(buf.String(), "(pitch mode") {
		t.Errorf("expected pitch banner, got %q", buf.String()[:40])
	}
}

func TestScenarioMetrics(t *testing.T) {
	r := estimate.CombinedScenarioResult{
		TotalCost:      180000,
		BreakevenTons:  31.3,
		ROI:            -10.416666666666668,
		EarningPerKcal: 2.4999999,
	}
	metrics := ScenarioMetrics(r)

	if len(metrics) != 9 {
		t.Fatalf("expected 9 metrics, got %d", len(metrics))
	}
	if metrics[0].Label != "Total Cost (₹)" || metrics[0].Value != 180000 {
		t.Errorf("first metric = %+v", metrics[0])
	}
	if metrics[7].Label != "ROI (%)" || metrics[7].Value != -10.42 {
		t.Errorf("ROI metric = %+v, want -10.42", metrics[7])
	}
	if metrics[8].Value != 2.5 {
		t.Errorf("earning per kcal = %v, want 2.5", metrics[8].Value)
	}
}

func TestCarbonSummary(t *testing.T) {
	got := CarbonSummary(estimate.CarbonCredit(estimate.CarbonCreditInputs{MonthlyTons: 30, CreditRatePerTon: 700}))
	want := "CO₂ Saved: 54.00 tons\nCredit Value: ₹37,800"
	if got != want {
		t.Errorf("CarbonSummary() = %q, want %q", got, want)
	}

	// Tonnage is not grouped; the credit value is.
	large := CarbonSummary(estimate.CarbonCredit(estimate.CarbonCreditInputs{MonthlyTons: 1000, CreditRatePerTon: 800}))
	if want := "CO₂ Saved: 1800.00 tons\nCredit Value: ₹1,440,000"; large != want {
		t.Errorf("CarbonSummary() = %q, want %q", large, want)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{30.43, "30.43"},
		{-50000, "-50000"},
		{1e21, "1000000000000000000000"},
		{0.0000001, "0.0000001"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCsvFormat(t *testing.T) {
	sim := defaultSimulation(t)

	records, err := csv.NewReader(strings.NewReader(CsvString(sim))).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV output: %v", err)
	}
	if got := strings.Join(records[0], ","); got != "section,metric,value" {
		t.Errorf("header = %q", got)
	}

	lookup := map[string]string{}
	for _, r := range records[1:] {
		lookup[r[0]+"/"+r[1]] = r[2]
	}
	tests := map[string]string{
		"factory/Total":              "17160000",
		"factory/Contingency":        "760000",
		"transport/Cost":             "7800",
		"risk/Total Loss":            "130000",
		"risk/Machine Breakdown":     "80000",
		"breakeven/Months":           "228",
		"carbon/Credit Value (₹)":    "37800",
		"gcv/Market Price (₹/ton)":   "15750",
		"scenario/Price (₹/ton)":     "5750",
		"scenario/ROI (%)":           "-10.42",
		"scenario/Breakeven Tons":    "31.3",
		"scenario/Total Revenue (₹)": "161250",
	}
	for key, want := range tests {
		if got, ok := lookup[key]; !ok || got != want {
			t.Errorf("%s = %q (present %v), want %q", key, got, ok, want)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	sim := defaultSimulation(t)

	var buf bytes.Buffer
	if err := JSONFormat(&buf, sim); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded simulation.Simulation
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Factory.Total != sim.Factory.Total || decoded.Combined != sim.Combined {
		t.Error("decoded JSON does not match the simulation")
	}
}

func TestWriteSection(t *testing.T) {
	sim := defaultSimulation(t)

	tests := []struct {
		section    string
		wantHeader string
		wantRows   int
	}{
		{constants.SectionFactory, "Category,Cost (₹)", 11},
		{constants.SectionRisk, "Risk,Loss (₹),Mitigation", 3},
		{constants.SectionScenario, "Total Cost (₹),Revenue (₹),Carbon Credit (₹),Total Revenue (₹),Profit without Credit (₹),Profit with Credit (₹),Breakeven Tons,ROI (%),Earning per kcal (₹)", 2},
		{constants.SectionCatalog, "Biomass Type,GCV (kcal/kg),Market Price (₹/ton)", 9},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteSection(&buf, sim, tt.section); err != nil {
				t.Fatalf("WriteSection() error = %v", err)
			}
			records, err := csv.NewReader(&buf).ReadAll()
			if err != nil {
				t.Fatalf("invalid CSV: %v", err)
			}
			if got := strings.Join(records[0], ","); got != tt.wantHeader {
				t.Errorf("header = %q, want %q", got, tt.wantHeader)
			}
			if len(records) != tt.wantRows {
				t.Errorf("got %d rows, want %d", len(records), tt.wantRows)
			}
		})
	}
}

func TestWriteSectionRiskColumns(t *testing.T) {
	sim := defaultSimulation(t)

	var buf bytes.Buffer
	if err := WriteSection(&buf, sim, constants.SectionRisk); err != nil {
		t.Fatalf("WriteSection() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	for _, r := range records[1:] {
		if len(r) != 3 {
			t.Errorf("row %v has %d fields", r, len(r))
		}
	}
}

func TestWriteSectionCarbonAndInvalid(t *testing.T) {
	sim := defaultSimulation(t)

	var buf bytes.Buffer
	if err := WriteSection(&buf, sim, constants.SectionCarbon); err != nil {
		t.Fatalf("WriteSection() error = %v", err)
	}
	if buf.String() != "CO₂ Saved: 54.00 tons\nCredit Value: ₹37,800\n" {
		t.Errorf("carbon summary = %q", buf.String())
	}

	if err := WriteSection(&buf, sim, "loans"); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestSectionMetadata(t *testing.T) {
	if SectionContentType(constants.SectionCarbon) != "text/plain; charset=utf-8" {
		t.Error("carbon should be plain text")
	}
	if SectionContentType(constants.SectionFactory) != "text/csv; charset=utf-8" {
		t.Error("factory should be CSV")
	}
	if SectionFileName(constants.SectionScenario) != "biomass_simulation_results.csv" {
		t.Errorf("scenario file name = %q", SectionFileName(constants.SectionScenario))
	}
}
