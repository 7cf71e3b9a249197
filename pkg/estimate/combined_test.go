package estimate

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iwvelando/biomass-estimator/pkg/mathutil"
)

func basicInputs() CombinedScenarioInputs {
	return CombinedScenarioInputs{
		Tons:            20,
		GCV:             2300,
		RawMaterialCost: 75000,
		LaborCost:       60000,
		ElectricityCost: 25000,
		MaintenanceCost: 15000,
		CreditPerTon:    500,
	}
}

func TestCombinedScenario_Basic(t *testing.T) {
	result := CombinedScenario(basicInputs())

	nearlyEqual(t, "price", result.Price, 5750)
	nearlyEqual(t, "totalCost", result.TotalCost, 175000)
	nearlyEqual(t, "revenue", result.Revenue, 115000)
	nearlyEqual(t, "carbonCredit", result.CarbonCredit, 10000)
	nearlyEqual(t, "totalRevenue", result.TotalRevenue, 125000)
	nearlyEqual(t, "profitWithoutCredit", result.ProfitWithoutCredit, -60000)
	nearlyEqual(t, "profitWithCredit", result.ProfitWithCredit, -50000)
	nearlyEqual(t, "breakevenTons", result.BreakevenTons, 30.43)
	nearlyEqual(t, "roi", mathutil.RoundTo(result.ROI, 2), -28.57)
	nearlyEqual(t, "earningPerKcal", result.EarningPerKcal, 2.5)
}

func TestCombinedScenario_ZeroDenominators(t *testing.T) {
	result := CombinedScenario(CombinedScenarioInputs{Tons: 10, CreditPerTon: 700})

	for name, v := range map[string]float64{
		"price":          result.Price,
		"breakevenTons":  result.BreakevenTons,
		"roi":            result.ROI,
		"earningPerKcal": result.EarningPerKcal,
	} {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
	nearlyEqual(t, "totalRevenue", result.TotalRevenue, 7000)
}

func TestCombinedScenario_Idempotent(t *testing.T) {
	in := basicInputs()
	in.GCV = 3100

	first := CombinedScenario(in)
	second := CombinedScenario(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ: %+v vs %+v", first, second)
	}
}

func TestCanonicalPriceIgnoresReferencePrice(t *testing.T) {
	entry, err := ReferenceCatalog().Lookup("Rice Husk")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	in := basicInputs()
	in.GCV = entry.GCV
	result := CombinedScenario(in)

	nearlyEqual(t, "price", result.Price, 7750)
	if result.Price == entry.Price {
		t.Fatal("reference price leaked into financial price")
	}
}

func TestCatalogLookup(t *testing.T) {
	simple := SimpleCatalog()

	entry, err := simple.Lookup("Rice Husk")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if entry.GCV != 3100 {
		t.Errorf("Rice Husk GCV = %v, want later entry 3100", entry.GCV)
	}

	entry, err = simple.Lookup("Groundnut Shell")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if entry.GCV != 4000 {
		t.Errorf("Groundnut Shell GCV = %v, want later entry 4000", entry.GCV)
	}

	if _, err := simple.Lookup("Pine Needles"); !errors.Is(err, ErrUnknownBiomass) {
		t.Errorf("expected ErrUnknownBiomass, got %v", err)
	}
}

func TestCatalogResolved(t *testing.T) {
	simple := SimpleCatalog()
	if len(simple) != 14 {
		t.Fatalf("expected 14 raw entries, got %d", len(simple))
	}

	resolved := simple.Resolved()
	if len(resolved) != 12 {
		t.Fatalf("expected 12 resolved entries, got %d", len(resolved))
	}
	if resolved[1].Name != "Rice Husk" || resolved[1].GCV != 3100 {
		t.Errorf("Rice Husk should keep first position with last value, got %+v", resolved[1])
	}
	if resolved[3].Name != "Groundnut Shell" || resolved[3].GCV != 4000 {
		t.Errorf("Groundnut Shell should keep first position with last value, got %+v", resolved[3])
	}

	if dups := simple.Duplicates(); !reflect.DeepEqual(dups, []string{"Rice Husk", "Groundnut Shell"}) {
		t.Errorf("Duplicates() = %v", dups)
	}
	if dups := ReferenceCatalog().Duplicates(); len(dups) != 0 {
		t.Errorf("reference catalog should be unique, got %v", dups)
	}
}

func TestJitteredSeries(t *testing.T) {
	catalog := ReferenceCatalog()

	flat := JitteredSeries(catalog, ZeroJitter)
	for i, p := range flat {
		if p.GCV != catalog[i].GCV || p.Price != catalog[i].Price {
			t.Errorf("zero jitter changed entry %d: %+v", i, p)
		}
	}

	if !reflect.DeepEqual(JitteredSeries(catalog, nil), flat) {
		t.Error("nil source should behave as ZeroJitter")
	}

	a := JitteredSeries(catalog, NewSeededSource(42))
	b := JitteredSeries(catalog, NewSeededSource(42))
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce the same series")
	}
	for i, p := range a {
		if math.Abs(p.Price-catalog[i].Price) > PriceJitter {
			t.Errorf("entry %d jitter out of range: %v vs %v", i, p.Price, catalog[i].Price)
		}
	}
}

func TestLivePrice(t *testing.T) {
	if got := LivePrice(ZeroJitter); got != 10000 {
		t.Errorf("LivePrice(ZeroJitter) = %d, want 10000", got)
	}

	src := NewSeededSource(7)
	for i := 0; i < 100; i++ {
		price := LivePrice(src)
		if price < LivePriceMinimum || price > LivePriceMaximum {
			t.Fatalf("live price %d out of range", price)
		}
	}
}
