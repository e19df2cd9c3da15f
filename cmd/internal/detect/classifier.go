// Package detect exposes the plant disease detection endpoint.
//
// The shipped classifier is an explicitly labeled stub: it returns a
// pseudo-random pick from a fixed candidate set instead of scoring the
// image. The Classifier interface is the seam where a real model goes.
package detect

import (
	"context"
	"io"
	"math/rand/v2"
)

// Result is the fixed-shape detection outcome.
type Result struct {
	DetectedDisease string  `json:"detectedDisease"`
	Confidence      float64 `json:"confidence"`
	Recommendations string  `json:"recommendations"`
}

// Input carries the uploaded image plus an optional free-text prompt.
// Image persistence is out of scope: the reader is consumed and discarded.
type Input struct {
	Filename string
	Prompt   string
	Image    io.Reader
}

// Classifier scores a plant image for diseases.
type Classifier interface {
	Classify(ctx context.Context, in Input) (Result, error)
}

// candidates is the stub's fixed result set.
var candidates = []Result{
	{
		DetectedDisease: "Early Blight",
		Confidence:      0.92,
		Recommendations: "1. Remove affected leaves to prevent spread\n" +
			"2. Apply copper-based fungicide\n" +
			"3. Ensure adequate spacing between plants for better air circulation\n" +
			"4. Water at the base of plants, avoid wetting the foliage\n" +
			"5. Rotate crops in future plantings",
	},
	{
		DetectedDisease: "Powdery Mildew",
		Confidence:      0.85,
		Recommendations: "1. Prune infected leaves and stems\n" +
			"2. Apply fungicide specifically for powdery mildew\n" +
			"3. Improve air circulation around the plants\n" +
			"4. Avoid overhead watering to reduce humidity\n" +
			"5. Use resistant plant varieties if possible",
	},
	{
		DetectedDisease: "Leaf Spot",
		Confidence:      0.88,
		Recommendations: "1. Remove affected leaves to limit the spread\n" +
			"2. Apply fungicides to control the spread of the disease\n" +
			"3. Avoid wetting the foliage during watering\n" +
			"4. Ensure proper spacing between plants for better air circulation",
	},
	{
		DetectedDisease: "Bacterial Blight",
		Confidence:      0.80,
		Recommendations: "1. Remove and dispose of infected plant parts\n" +
			"2. Use copper-based bactericides for treatment\n" +
			"3. Improve plant spacing to reduce humidity around plants\n" +
			"4. Avoid overhead irrigation\n" +
			"5. Ensure proper sanitation and clean tools after use",
	},
	{
		DetectedDisease: "Downy Mildew",
		Confidence:      0.90,
		Recommendations: "1. Prune infected leaves and dispose of them properly\n" +
			"2. Use fungicides for mildew control\n" +
			"3. Water the plants at the base to avoid wetting leaves\n" +
			"4. Increase airflow around plants to reduce humidity\n" +
			"5. Practice crop rotation to avoid soil-borne diseases",
	},
	{
		DetectedDisease: "Fusarium Wilt",
		Confidence:      0.87,
		Recommendations: "1. Remove and destroy infected plants to limit disease spread\n" +
			"2. Solarize the soil or use resistant varieties\n" +
			"3. Avoid over-watering, as Fusarium thrives in wet soil\n" +
			"4. Practice crop rotation to prevent recurrence in future crops",
	},
}

// Candidates returns the stub's fixed result set. Exposed for tests and
// for callers that need to document the placeholder behavior.
func Candidates() []Result {
	out := make([]Result, len(candidates))
	copy(out, candidates)
	return out
}

// StubClassifier is a placeholder pending a real scorer. It drains the
// image (nothing is stored) and picks a candidate at random.
type StubClassifier struct{}

// Classify implements Classifier.
func (StubClassifier) Classify(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if in.Image != nil {
		if _, err := io.Copy(io.Discard, in.Image); err != nil {
			return Result{}, err
		}
	}
	return candidates[rand.IntN(len(candidates))], nil
}
