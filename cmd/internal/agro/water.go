// Package agro implements the stateless agronomy estimation endpoints:
// water volume prediction and fertilizer dosage recommendation. Both are
// pure table lookups with multiplicative adjustment factors; they hold no
// state and perform no I/O.
package agro

import (
	"fmt"
	"math"
	"strings"
)

// Water estimation defaults applied when the request omits conditions.
const (
	DefaultTemperature = 25.0
	DefaultHumidity    = 50.0

	// defaultBaseWater is used for crops missing from the lookup table.
	defaultBaseWater = 10000.0
)

// baseWaterRequirements is liters per hectare per season, by crop.
var baseWaterRequirements = map[string]float64{
	"Rice":      15000,
	"Wheat":     6000,
	"Maize":     8000,
	"Cotton":    10000,
	"Sugarcane": 18000,
	"Potato":    5000,
	"Tomato":    7000,
	"Onion":     4000,
	"Chili":     6000,
	"Soybean":   7000,
}

// soilWaterFactors adjusts for soil retention characteristics.
var soilWaterFactors = map[string]float64{
	"Clay":          0.8,
	"Silt":          0.9,
	"Sandy":         1.2,
	"Loamy":         1.0,
	"Clayey Loam":   0.85,
	"Silty Loam":    0.95,
	"Sandy Loam":    1.1,
	"Black Soil":    0.9,
	"Red Soil":      1.1,
	"Alluvial Soil": 1.0,
}

// WaterInput are the estimation parameters. Area is in hectares,
// temperature in °C, humidity in percent.
type WaterInput struct {
	CropType    string
	SoilType    string
	Area        float64
	Temperature float64
	Humidity    float64
}

// WaterEstimate is the computed plan. WaterRequirement is total liters for
// the given area.
type WaterEstimate struct {
	CropType         string  `json:"cropType"`
	SoilType         string  `json:"soilType"`
	Area             float64 `json:"area"`
	Temperature      float64 `json:"temperature"`
	Humidity         float64 `json:"humidity"`
	WaterRequirement int     `json:"waterRequirement"`
	Frequency        string  `json:"frequency"`
	Recommendations  string  `json:"recommendations"`
}

// EstimateWater computes the water requirement as
// base(crop) × soil factor × temperature factor × humidity factor × area.
// Higher temperature raises demand (+2%/°C above 25); higher humidity
// lowers it (−0.5%/point above 50).
func EstimateWater(in WaterInput) WaterEstimate {
	base, ok := baseWaterRequirements[in.CropType]
	if !ok {
		base = defaultBaseWater
	}
	soilFactor, ok := soilWaterFactors[in.SoilType]
	if !ok {
		soilFactor = 1.0
	}

	tempFactor := 1.0 + (in.Temperature-25)*0.02
	humidityFactor := 1.0 - (in.Humidity-50)*0.005

	perHectare := base * soilFactor * tempFactor * humidityFactor
	total := perHectare * in.Area

	return WaterEstimate{
		CropType:         in.CropType,
		SoilType:         in.SoilType,
		Area:             in.Area,
		Temperature:      in.Temperature,
		Humidity:         in.Humidity,
		WaterRequirement: int(math.Round(total)),
		Frequency:        wateringFrequency(in.CropType, in.SoilType),
		Recommendations:  waterRecommendations(in),
	}
}

func wateringFrequency(cropType, soilType string) string {
	switch cropType {
	case "Rice", "Sugarcane":
		return "Daily or maintain standing water"
	}
	switch soilType {
	case "Sandy", "Sandy Loam":
		return "Every 2-3 days"
	}
	return "Every 4-7 days depending on weather conditions"
}

func waterRecommendations(in WaterInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "1. Water %s crops at early morning or evening to reduce evaporation\n", in.CropType)
	b.WriteString("2. Consider installing drip irrigation to optimize water usage\n")
	if in.SoilType == "Sandy" || in.SoilType == "Sandy Loam" {
		b.WriteString("3. Add organic matter to improve water retention in sandy soil\n")
	}
	if in.Temperature > 30 {
		b.WriteString("4. Increase watering frequency during high temperature periods\n")
	}
	b.WriteString("5. Monitor soil moisture regularly and adjust watering schedule as needed\n")
	return b.String()
}
