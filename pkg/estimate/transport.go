package estimate

// TransportInputs describes one haul of raw material or pellets.
type TransportInputs struct {
	DistanceKm   float64 `json:"distanceKm" yaml:"distanceKm"`
	Tons         float64 `json:"tons" yaml:"tons"`
	RatePerTonKm float64 `json:"ratePerTonKm" yaml:"ratePerTonKm"`
}

// TransportResult is the estimated haulage cost.
type TransportResult struct {
	TransportInputs
	Cost float64 `json:"cost"`
}

// TransportCost returns distance × tons × rate.
func TransportCost(in TransportInputs) TransportResult {
	return TransportResult{
		TransportInputs: in,
		Cost:            in.DistanceKm * in.Tons * in.RatePerTonKm,
	}
}
