package main

import (
	"strings"
	"testing"

	"github.com/iwvelando/biomass-estimator/internal/config"
	"github.com/iwvelando/biomass-estimator/pkg/scenario"
)

func TestPrepareConfiguration(t *testing.T) {
	tests := []struct {
		name         string
		pitchFlag    bool
		pitchConfig  bool
		wantWarnings int
	}{
		{"Out-of-range inputs warn", false, false, 2},
		{"Pitch flag replaces the inputs before validation", true, false, 0},
		{"Pitch mode from the config file", false, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := config.Default()
			conf.PitchMode = tt.pitchConfig
			conf.Transport.DistanceKm = 5000
			conf.Carbon.MonthlyTons = 1

			warnings := prepareConfiguration(conf, tt.pitchFlag)
			if len(warnings) != tt.wantWarnings {
				t.Fatalf("warnings = %v, want %d", warnings, tt.wantWarnings)
			}
			if tt.wantWarnings > 0 && !strings.Contains(strings.Join(warnings, "\n"), "transport.distanceKm") {
				t.Errorf("missing distance warning in %v", warnings)
			}

			pitched := tt.pitchFlag || tt.pitchConfig
			if conf.PitchMode != pitched {
				t.Errorf("PitchMode = %v, want %v", conf.PitchMode, pitched)
			}
			if pitched && conf.Transport != scenario.Pitch().Transport {
				t.Errorf("Transport = %+v, want pitch defaults", conf.Transport)
			}
		})
	}
}
