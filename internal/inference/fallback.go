package inference

import (
	"sort"
	"strings"

	"github.com/krishimitra/server/internal/domain"
)

// healthCategory buckets a 0-100 soil health index.
func healthCategory(index float64) string {
	switch {
	case index >= 75:
		return "Good"
	case index >= 50:
		return "Moderate"
	default:
		return "Poor"
	}
}

// HeuristicSoilHealth scores soil health without the trained model. Each
// out-of-range feature raises an issue flag and costs points from a perfect
// score. The result is deterministic for a given input, which keeps the
// dashboard stable when the model server is down.
func HeuristicSoilHealth(f SoilFeatures) *domain.SoilHealth {
	issues := map[string]bool{
		"Acidic_pH":           f.PH < 6.0,
		"Alkaline_pH":         f.PH > 7.5,
		"Low_Nitrogen":        f.NitrogenPPM < 1000,
		"High_Nitrogen":       f.NitrogenPPM > 3000,
		"Low_Phosphorus":      f.PhosphorusPPM < 10,
		"High_Phosphorus":     f.PhosphorusPPM > 50,
		"Low_Potassium":       f.PotassiumPPM < 100,
		"High_Potassium":      f.PotassiumPPM > 400,
		"Low_Organic_Carbon":  f.OrganicCarbonPercent < 0.75,
		"High_Organic_Carbon": f.OrganicCarbonPercent > 3.0,
		"High_Salinity":       f.SalinityDSM > 1.5,
		"Poor_Texture":        f.ClayContentPercent < 10 || f.ClayContentPercent > 50,
		"Low_Soil_Moisture":   f.SoilMoisturePercent < 30,
		"High_Soil_Moisture":  f.SoilMoisturePercent > 70,
	}

	index := 100.0
	var active []string
	for name, flagged := range issues {
		if flagged {
			active = append(active, name)
			index -= 12
		}
	}
	if index < 0 {
		index = 0
	}
	sort.Strings(active)

	return &domain.SoilHealth{
		HealthIndex:    index,
		HealthCategory: healthCategory(index),
		Issues:         issues,
		ActiveIssues:   active,
	}
}

// cropRule scores one candidate crop from agronomic ranges.
type cropRule struct {
	crop        string
	minRain     float64
	maxRain     float64
	minTemp     float64
	maxTemp     float64
	minPH       float64
	maxPH       float64
	minHumidity float64
}

var cropRules = []cropRule{
	{crop: "rice", minRain: 1000, maxRain: 3000, minTemp: 20, maxTemp: 35, minPH: 5.0, maxPH: 7.5, minHumidity: 70},
	{crop: "wheat", minRain: 300, maxRain: 1000, minTemp: 10, maxTemp: 25, minPH: 6.0, maxPH: 7.5},
	{crop: "maize", minRain: 500, maxRain: 1200, minTemp: 18, maxTemp: 32, minPH: 5.5, maxPH: 7.5},
	{crop: "cotton", minRain: 500, maxRain: 1100, minTemp: 21, maxTemp: 35, minPH: 6.0, maxPH: 8.0},
	{crop: "sugarcane", minRain: 1100, maxRain: 3000, minTemp: 20, maxTemp: 38, minPH: 6.0, maxPH: 8.0, minHumidity: 60},
	{crop: "chickpea", minRain: 300, maxRain: 900, minTemp: 15, maxTemp: 30, minPH: 6.0, maxPH: 8.0},
	{crop: "millet", minRain: 250, maxRain: 800, minTemp: 22, maxTemp: 38, minPH: 5.5, maxPH: 8.0},
}

// HeuristicCropRecommendations ranks crops by how well the features fit
// simple agronomic ranges. Top five are returned, best first.
func HeuristicCropRecommendations(f CropFeatures) []domain.CropRecommendation {
	type scored struct {
		crop  string
		score float64
	}

	var results []scored
	for _, rule := range cropRules {
		score := 0.0
		if f.Rainfall >= rule.minRain && f.Rainfall <= rule.maxRain {
			score += 0.35
		}
		if f.Temperature >= rule.minTemp && f.Temperature <= rule.maxTemp {
			score += 0.3
		}
		if f.PH >= rule.minPH && f.PH <= rule.maxPH {
			score += 0.2
		}
		if rule.minHumidity == 0 || f.Humidity >= rule.minHumidity {
			score += 0.15
		}
		results = append(results, scored{crop: rule.crop, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]domain.CropRecommendation, 0, 5)
	for _, r := range results {
		if len(out) == 5 {
			break
		}
		out = append(out, domain.CropRecommendation{Crop: r.crop, ConfidenceScore: r.score})
	}
	return out
}

// FormatDiseaseName converts the classifier's raw label, e.g.
// "Tomato___Late_blight", to a readable form.
func FormatDiseaseName(raw string) string {
	parts := strings.Split(raw, "___")
	if len(parts) != 2 {
		return raw
	}
	plant := parts[0]
	condition := strings.ReplaceAll(parts[1], "_", " ")
	if strings.EqualFold(condition, "healthy") {
		return "Healthy " + plant
	}
	return plant + " " + condition
}

// IsHealthyLabel reports whether the raw classifier label marks a healthy
// plant.
func IsHealthyLabel(raw string) bool {
	return strings.HasSuffix(strings.ToLower(raw), "healthy")
}

var diseaseTreatments = map[string]string{
	"Tomato___Late_blight":          "Apply copper-based fungicides as soon as symptoms appear. Remove and destroy infected plant parts. Ensure good air circulation around plants.",
	"Tomato___Early_blight":         "Remove infected leaves immediately. Apply fungicides containing chlorothalonil, copper, or mancozeb. Ensure adequate spacing between plants for air circulation.",
	"Tomato___Leaf_Mold":            "Improve air circulation by pruning and spacing plants. Apply fungicides containing chlorothalonil or copper. Remove and destroy infected leaves.",
	"Tomato___Bacterial_spot":       "Apply copper-based bactericides. Avoid overhead watering. Remove infected plant debris. Rotate crops with non-solanaceous plants.",
	"Potato___Late_blight":          "Apply fungicides containing chlorothalonil or copper. Remove infected plants to prevent spread. Destroy all plant debris after harvest.",
	"Potato___Early_blight":         "Apply fungicides containing chlorothalonil or copper. Remove lower infected leaves. Ensure proper plant spacing for air circulation.",
	"Apple___Apple_scab":            "Apply fungicides containing myclobutanil or captan. Rake and destroy fallen leaves. Prune trees to improve air circulation.",
	"Apple___Black_rot":             "Prune out infected branches. Apply fungicides containing captan or thiophanate-methyl. Remove mummified fruits from trees and ground.",
	"Grape___Black_rot":             "Apply fungicides containing myclobutanil or captan. Remove mummified berries. Prune to improve air circulation.",
	"Corn_(maize)___Common_rust_":   "Apply fungicides containing azoxystrobin or propiconazole. Plant resistant varieties in future seasons.",
	"Pepper,_bell___Bacterial_spot": "Apply copper-based bactericides. Avoid overhead watering. Remove infected plant debris. Rotate crops with non-solanaceous plants.",
}

var diseasePreventions = map[string]string{
	"Tomato___Late_blight":          "Use disease-resistant varieties. Avoid overhead watering. Rotate crops. Remove plant debris at the end of the season. Space plants for good air circulation.",
	"Tomato___Early_blight":         "Rotate crops with non-solanaceous plants. Mulch around plants. Water at the base of plants. Use disease-resistant varieties when available.",
	"Tomato___Leaf_Mold":            "Avoid high humidity in greenhouses. Space plants properly. Use resistant varieties. Avoid wetting leaves when watering.",
	"Tomato___Bacterial_spot":       "Use disease-free seeds and transplants. Rotate crops. Avoid working with wet plants. Disinfect garden tools regularly.",
	"Potato___Late_blight":          "Plant resistant varieties. Use certified disease-free seed potatoes. Avoid overhead irrigation. Destroy volunteer potatoes.",
	"Potato___Early_blight":         "Rotate crops. Use certified disease-free seed potatoes. Mulch around plants. Avoid overhead irrigation.",
	"Apple___Apple_scab":            "Plant resistant varieties. Space trees adequately. Prune regularly for good air circulation. Clean up fallen leaves in autumn.",
	"Apple___Black_rot":             "Prune out dead or diseased wood. Remove nearby wild or abandoned apple trees. Clean up fallen fruit promptly.",
	"Grape___Black_rot":             "Prune vines properly. Remove mummified berries. Apply dormant sprays. Maintain good air circulation in the canopy.",
	"Corn_(maize)___Common_rust_":   "Plant resistant hybrids. Avoid late planting. Maintain balanced soil fertility. Rotate crops.",
	"Pepper,_bell___Bacterial_spot": "Use disease-free seeds and transplants. Rotate crops. Avoid overhead irrigation. Disinfect garden tools.",
}

const (
	genericTreatment  = "Consult with a local agricultural extension for specific treatment recommendations based on your location and severity of the disease."
	genericPrevention = "Practice crop rotation, maintain good garden hygiene, use disease-resistant varieties when available, and ensure proper spacing for air circulation."
)

// DiseaseTreatment returns the canned treatment for a raw classifier label.
func DiseaseTreatment(raw string) string {
	if t, ok := diseaseTreatments[raw]; ok {
		return t
	}
	return genericTreatment
}

// DiseasePrevention returns the canned prevention tips for a raw label.
func DiseasePrevention(raw string) string {
	if p, ok := diseasePreventions[raw]; ok {
		return p
	}
	return genericPrevention
}
