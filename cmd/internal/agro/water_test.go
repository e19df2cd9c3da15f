package agro

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateWater(t *testing.T) {
	tests := []struct {
		name      string
		in        WaterInput
		wantTotal int
		wantFreq  string
	}{
		{
			name: "rice on clay, hot and dry",
			in: WaterInput{
				CropType: "Rice", SoilType: "Clay",
				Area: 2, Temperature: 30, Humidity: 40,
			},
			// 15000 * 0.8 * 1.10 * 1.05 * 2
			wantTotal: 27720,
			wantFreq:  "Daily or maintain standing water",
		},
		{
			name: "wheat on loam at baseline conditions",
			in: WaterInput{
				CropType: "Wheat", SoilType: "Loamy",
				Area: 1, Temperature: DefaultTemperature, Humidity: DefaultHumidity,
			},
			wantTotal: 6000,
			wantFreq:  "Every 4-7 days depending on weather conditions",
		},
		{
			name: "unknown crop and soil fall back to defaults",
			in: WaterInput{
				CropType: "Dragonfruit", SoilType: "Martian Regolith",
				Area: 1, Temperature: DefaultTemperature, Humidity: DefaultHumidity,
			},
			wantTotal: 10000,
			wantFreq:  "Every 4-7 days depending on weather conditions",
		},
		{
			name: "sandy soil waters more often",
			in: WaterInput{
				CropType: "Tomato", SoilType: "Sandy",
				Area: 1, Temperature: DefaultTemperature, Humidity: DefaultHumidity,
			},
			// 7000 * 1.2
			wantTotal: 8400,
			wantFreq:  "Every 2-3 days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateWater(tt.in)
			assert.Equal(t, tt.wantTotal, got.WaterRequirement)
			assert.Equal(t, tt.wantFreq, got.Frequency)
			assert.Equal(t, tt.in.CropType, got.CropType)
			assert.Equal(t, tt.in.Area, got.Area)
		})
	}
}

func TestEstimateWater_HumidityLowersDemand(t *testing.T) {
	dry := EstimateWater(WaterInput{CropType: "Maize", SoilType: "Loamy", Area: 1, Temperature: 25, Humidity: 30})
	humid := EstimateWater(WaterInput{CropType: "Maize", SoilType: "Loamy", Area: 1, Temperature: 25, Humidity: 80})
	assert.Greater(t, dry.WaterRequirement, humid.WaterRequirement)
}

func TestWaterRecommendations_ConditionalLines(t *testing.T) {
	sandyHot := EstimateWater(WaterInput{CropType: "Cotton", SoilType: "Sandy", Area: 1, Temperature: 35, Humidity: 50})
	assert.Contains(t, sandyHot.Recommendations, "organic matter to improve water retention")
	assert.Contains(t, sandyHot.Recommendations, "Increase watering frequency during high temperature")

	mild := EstimateWater(WaterInput{CropType: "Cotton", SoilType: "Loamy", Area: 1, Temperature: 25, Humidity: 50})
	assert.NotContains(t, mild.Recommendations, "organic matter")
	assert.NotContains(t, mild.Recommendations, "high temperature")
	assert.True(t, strings.HasPrefix(mild.Recommendations, "1. Water Cotton crops"))
}
