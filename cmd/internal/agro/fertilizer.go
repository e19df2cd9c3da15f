package agro

import (
	"fmt"
	"math"
	"strings"
)

// Fertilizer defaults applied when the request omits soil nutrient levels
// (N-P-K in kg/ha).
const (
	DefaultNitrogen   = 40.0
	DefaultPhosphorus = 30.0
	DefaultPotassium  = 20.0
)

// npk is a nutrient triple in kg/ha.
type npk struct {
	N, P, K float64
}

// cropNutrientRequirements is the ideal N-P-K demand per crop.
var cropNutrientRequirements = map[string]npk{
	"Rice":      {N: 120, P: 60, K: 60},
	"Wheat":     {N: 120, P: 60, K: 40},
	"Maize":     {N: 150, P: 75, K: 80},
	"Cotton":    {N: 160, P: 80, K: 80},
	"Sugarcane": {N: 200, P: 100, K: 80},
	"Potato":    {N: 150, P: 100, K: 120},
	"Tomato":    {N: 100, P: 90, K: 80},
	"Onion":     {N: 110, P: 70, K: 70},
	"Chili":     {N: 120, P: 80, K: 80},
	"Soybean":   {N: 30, P: 80, K: 40},
}

// soilNutrientAdjustments scales demand per soil type.
var soilNutrientAdjustments = map[string]npk{
	"Clay":          {N: 0.9, P: 1.1, K: 0.8},
	"Silt":          {N: 1.0, P: 1.0, K: 0.9},
	"Sandy":         {N: 1.2, P: 0.9, K: 1.2},
	"Loamy":         {N: 1.0, P: 1.0, K: 1.0},
	"Clayey Loam":   {N: 0.9, P: 1.1, K: 0.9},
	"Silty Loam":    {N: 1.0, P: 1.0, K: 0.9},
	"Sandy Loam":    {N: 1.1, P: 0.9, K: 1.1},
	"Black Soil":    {N: 0.8, P: 1.2, K: 0.8},
	"Red Soil":      {N: 1.1, P: 0.9, K: 1.0},
	"Alluvial Soil": {N: 1.0, P: 1.0, K: 1.0},
}

var (
	defaultRequirement = npk{N: 100, P: 60, K: 60}
	defaultAdjustment  = npk{N: 1.0, P: 1.0, K: 1.0}
)

// Deficit-to-product conversion multipliers.
const (
	ureaPerKgN = 2.17 // Urea is 46% N
	sspPerKgP  = 6.25 // Single Super Phosphate is 16% P
	mopPerKgK  = 1.67 // Muriate of Potash is 60% K
)

// FertilizerInput carries the crop/soil pair and current nutrient levels.
type FertilizerInput struct {
	CropType   string
	SoilType   string
	Nitrogen   float64
	Phosphorus float64
	Potassium  float64
}

// Fertilizer is one recommended product with a dosage.
type Fertilizer struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

// FertilizerPlan is the computed recommendation.
type FertilizerPlan struct {
	CropType               string       `json:"cropType"`
	SoilType               string       `json:"soilType"`
	Nitrogen               float64      `json:"nitrogen"`
	Phosphorus             float64      `json:"phosphorus"`
	Potassium              float64      `json:"potassium"`
	RecommendedFertilizers []Fertilizer `json:"recommendedFertilizers"`
	Recommendations        string       `json:"recommendations"`
}

// RecommendFertilizer computes nutrient deficits against soil-adjusted crop
// demand and converts each deficit into a product dosage. Organic compost
// is always included; an NPK complex is added only when all three nutrients
// are deficient.
func RecommendFertilizer(in FertilizerInput) FertilizerPlan {
	req, ok := cropNutrientRequirements[in.CropType]
	if !ok {
		req = defaultRequirement
	}
	adj, ok := soilNutrientAdjustments[in.SoilType]
	if !ok {
		adj = defaultAdjustment
	}

	nDeficit := math.Max(0, req.N*adj.N-in.Nitrogen)
	pDeficit := math.Max(0, req.P*adj.P-in.Phosphorus)
	kDeficit := math.Max(0, req.K*adj.K-in.Potassium)

	fertilizers := make([]Fertilizer, 0, 5)

	if nDeficit > 0 {
		fertilizers = append(fertilizers, Fertilizer{
			Name:   "Urea (46% Nitrogen)",
			Amount: int(math.Round(nDeficit * ureaPerKgN)),
			Unit:   "kg/ha",
		})
	}
	if pDeficit > 0 {
		fertilizers = append(fertilizers, Fertilizer{
			Name:   "Single Super Phosphate (16% Phosphate)",
			Amount: int(math.Round(pDeficit * sspPerKgP)),
			Unit:   "kg/ha",
		})
	}
	if kDeficit > 0 {
		fertilizers = append(fertilizers, Fertilizer{
			Name:   "Muriate of Potash (60% Potassium)",
			Amount: int(math.Round(kDeficit * mopPerKgK)),
			Unit:   "kg/ha",
		})
	}

	fertilizers = append(fertilizers, Fertilizer{
		Name:   "Organic Compost",
		Amount: 2000,
		Unit:   "kg/ha",
	})

	if nDeficit > 0 && pDeficit > 0 && kDeficit > 0 {
		fertilizers = append(fertilizers, Fertilizer{
			Name:   "NPK 19-19-19 Complex",
			Amount: 200,
			Unit:   "kg/ha",
		})
	}

	return FertilizerPlan{
		CropType:               in.CropType,
		SoilType:               in.SoilType,
		Nitrogen:               in.Nitrogen,
		Phosphorus:             in.Phosphorus,
		Potassium:              in.Potassium,
		RecommendedFertilizers: fertilizers,
		Recommendations:        fertilizerRecommendations(in),
	}
}

func fertilizerRecommendations(in FertilizerInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "1. Apply Nitrogen fertilizers in 2-3 split doses for %s\n", in.CropType)
	b.WriteString("2. Apply Phosphorus fertilizers at the time of sowing/planting\n")
	b.WriteString("3. Apply Potassium fertilizers before flowering and fruiting stages\n")
	b.WriteString("4. Incorporate organic matter into the soil before planting\n")

	switch in.SoilType {
	case "Sandy", "Sandy Loam":
		b.WriteString("5. Apply fertilizers in smaller, more frequent doses to prevent leaching in sandy soils\n")
	case "Clay", "Clayey Loam":
		b.WriteString("5. Improve soil drainage before applying fertilizers in clay soils\n")
	}
	return b.String()
}
