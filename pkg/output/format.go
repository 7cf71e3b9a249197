// Package output provides utilities for formatting and exporting simulation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/biomass-estimator/internal/simulation"
	"github.com/iwvelando/biomass-estimator/pkg/constants"
	"github.com/iwvelando/biomass-estimator/pkg/estimate"
	"github.com/iwvelando/biomass-estimator/pkg/format"
	"github.com/iwvelando/biomass-estimator/pkg/mathutil"
	"github.com/iwvelando/biomass-estimator/pkg/validation"
	"github.com/shopspring/decimal"
)

// Metric is one labelled value of a results table.
type Metric struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ScenarioMetrics returns the combined scenario results table in export order.
// ROI is rounded to 2 places and earning per kcal to 3.
func ScenarioMetrics(r estimate.CombinedScenarioResult) []Metric {
	return []Metric{
		{"Total Cost (₹)", r.TotalCost},
		{"Revenue (₹)", r.Revenue},
		{"Carbon Credit (₹)", r.CarbonCredit},
		{"Total Revenue (₹)", r.TotalRevenue},
		{"Profit without Credit (₹)", r.ProfitWithoutCredit},
		{"Profit with Credit (₹)", r.ProfitWithCredit},
		{"Breakeven Tons", r.BreakevenTons},
		{"ROI (%)", mathutil.RoundTo(r.ROI, 2)},
		{"Earning per kcal (₹)", mathutil.RoundTo(r.EarningPerKcal, 3)},
	}
}

// CarbonSummary renders the plain-text carbon savings summary.
func CarbonSummary(r estimate.CarbonCreditResult) string {
	return fmt.Sprintf("CO₂ Saved: %s tons\nCredit Value: %s", strconv.FormatFloat(r.CO2Saved, 'f', 2, 64), format.Rupees(r.CreditValue))
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, sim simulation.Simulation) {
	if sim.PitchMode {
		fmt.Fprintf(w, "(pitch mode: showing preset inputs)\n\n")
	}

	fmt.Fprintf(w, "--- Factory setup (%s TPD) ---\n", format.Number(sim.Factory.TonsPerDay, 0))
	fmt.Fprintf(w, "Category        | Cost\n")
	fmt.Fprintf(w, "________        | ____\n")
	for _, line := range sim.Factory.Lines {
		fmt.Fprintf(w, "%-15s | %s\n", line.Category, format.Rupees(line.Cost))
	}
	fmt.Fprintf(w, "Total setup cost: %s\n\n", format.Rupees(sim.Factory.Total))

	fmt.Fprintf(w, "--- Supply chain ---\n")
	fmt.Fprintf(w, "%s km x %s t x %s/t/km = %s\n\n",
		format.Number(sim.Transport.DistanceKm, 0), format.Number(sim.Transport.Tons, 0),
		format.Currency(sim.Transport.RatePerTonKm), format.Rupees(sim.Transport.Cost))

	fmt.Fprintf(w, "--- Risk simulator ---\n")
	fmt.Fprintf(w, "Simulated total loss: %s\n", format.Rupees(sim.Risk.TotalLoss))
	for _, risk := range sim.Risk.SelectedRisks {
		fmt.Fprintf(w, "%-17s | %s | %s\n", risk.Name, format.Rupees(risk.Loss), risk.Mitigation)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "--- Breakeven forecast ---\n")
	fmt.Fprintf(w, "Estimated breakeven: %d months\n", sim.Breakeven.Months)
	for _, point := range sim.Breakeven.CumulativeProfit {
		fmt.Fprintf(w, "Month %2d | %s\n", point.Month, format.Rupees(point.CumulativeProfit))
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "--- Carbon credit ---\n")
	fmt.Fprintf(w, "%s\n%s\n\n", CarbonSummary(sim.Carbon), sim.Carbon.Suggestion)

	fmt.Fprintf(w, "--- GCV pricing ---\n")
	fmt.Fprintf(w, "GCV %s kcal/kg: market price %s / ton, profit %s / ton\n\n",
		format.Number(sim.GCVInputs.GCV, 0), format.Rupees(sim.GCV.MarketPricePerTon), format.Rupees(sim.GCV.ProfitPerTon))

	fmt.Fprintf(w, "--- Combined scenario %s (%s) ---\n", sim.Scenario.Name, sim.Scenario.Source)
	fmt.Fprintf(w, "GCV: %s kcal/kg -> Estimated Price: %s/ton\n",
		format.Number(sim.Scenario.Inputs.GCV, 0), format.Rupees(sim.Combined.Price))
	for _, m := range ScenarioMetrics(sim.Combined) {
		fmt.Fprintf(w, "%-26s | %s\n", m.Label, format.Number(m.Value, 2))
	}
	fmt.Fprintf(w, "Live price today: %s/ton\n", format.Rupees(float64(sim.LivePrice)))
}

// CsvFormat writes every figure of the simulation as section,metric,value rows.
func CsvFormat(w io.Writer, sim simulation.Simulation) error {
	cw := csv.NewWriter(w)
	rows := [][]string{{"section", "metric", "value"}}

	for _, line := range sim.Factory.Lines {
		rows = append(rows, []string{constants.SectionFactory, line.Category, formatValue(line.Cost)})
	}
	rows = append(rows,
		[]string{constants.SectionFactory, "Total", formatValue(sim.Factory.Total)},
		[]string{"transport", "Cost", formatValue(sim.Transport.Cost)},
		[]string{constants.SectionRisk, "Total Loss", formatValue(sim.Risk.TotalLoss)},
	)
	for _, risk := range sim.Risk.SelectedRisks {
		rows = append(rows, []string{constants.SectionRisk, risk.Name, formatValue(risk.Loss)})
	}
	rows = append(rows,
		[]string{"breakeven", "Months", strconv.Itoa(sim.Breakeven.Months)},
		[]string{constants.SectionCarbon, "CO2 Saved (tons)", formatValue(sim.Carbon.CO2Saved)},
		[]string{constants.SectionCarbon, "Credit Value (₹)", formatValue(sim.Carbon.CreditValue)},
		[]string{"gcv", "Market Price (₹/ton)", formatValue(sim.GCV.MarketPricePerTon)},
		[]string{"gcv", "Profit (₹/ton)", formatValue(sim.GCV.ProfitPerTon)},
		[]string{constants.SectionScenario, "Price (₹/ton)", formatValue(sim.Combined.Price)},
	)
	for _, m := range ScenarioMetrics(sim.Combined) {
		rows = append(rows, []string{constants.SectionScenario, m.Label, formatValue(m.Value)})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// CsvString returns CsvFormat as a string.
func CsvString(sim simulation.Simulation) string {
	var b strings.Builder
	if err := CsvFormat(&b, sim); err != nil {
		return ""
	}
	return b.String()
}

// JSONFormat writes the simulation as indented JSON.
func JSONFormat(w io.Writer, sim simulation.Simulation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sim); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// WriteSection exports one table: factory, risk, scenario and catalog as CSV,
// carbon as the plain-text summary.
func WriteSection(w io.Writer, sim simulation.Simulation, section string) error {
	if err := validation.ValidateSection(section); err != nil {
		return err
	}

	if section == constants.SectionCarbon {
		_, err := io.WriteString(w, CarbonSummary(sim.Carbon)+"\n")
		return err
	}

	var rows [][]string
	switch section {
	case constants.SectionFactory:
		rows = append(rows, []string{"Category", "Cost (₹)"})
		for _, line := range sim.Factory.Lines {
			rows = append(rows, []string{line.Category, formatValue(line.Cost)})
		}
	case constants.SectionRisk:
		rows = append(rows, []string{"Risk", "Loss (₹)", "Mitigation"})
		for _, risk := range sim.Risk.SelectedRisks {
			rows = append(rows, []string{risk.Name, formatValue(risk.Loss), risk.Mitigation})
		}
	case constants.SectionScenario:
		metrics := ScenarioMetrics(sim.Combined)
		header := make([]string, 0, len(metrics))
		values := make([]string, 0, len(metrics))
		for _, m := range metrics {
			header = append(header, m.Label)
			values = append(values, formatValue(m.Value))
		}
		rows = append(rows, header, values)
	case constants.SectionCatalog:
		rows = append(rows, []string{"Biomass Type", "GCV (kcal/kg)", "Market Price (₹/ton)"})
		for _, entry := range sim.Catalog {
			rows = append(rows, []string{entry.Name, formatValue(entry.GCV), formatValue(entry.Price)})
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s CSV: %w", section, err)
	}
	return nil
}

// SectionContentType is the MIME type of an exported section.
func SectionContentType(section string) string {
	if section == constants.SectionCarbon {
		return "text/plain; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// SectionFileName is the download name of an exported section.
func SectionFileName(section string) string {
	switch section {
	case constants.SectionFactory:
		return "factory_setup_cost.csv"
	case constants.SectionRisk:
		return "risk_report.csv"
	case constants.SectionCarbon:
		return "carbon_summary.txt"
	case constants.SectionScenario:
		return "biomass_simulation_results.csv"
	case constants.SectionCatalog:
		return "biomass_gcv_price_table.csv"
	}
	return section + ".csv"
}

// formatValue writes the shortest exact decimal form, never exponent notation.
func formatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).String()
}
