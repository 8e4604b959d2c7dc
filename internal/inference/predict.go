package inference

import (
	"context"
	"fmt"
	"sort"

	"github.com/krishimitra/server/internal/domain"
)

// SoilFeatures is the input row for the soil health index model. Field
// names mirror the training columns of the Python model.
type SoilFeatures struct {
	PH                   float64
	NitrogenPPM          float64
	PhosphorusPPM        float64
	PotassiumPPM         float64
	OrganicCarbonPercent float64
	SalinityDSM          float64
	TemperatureC         float64
	RainfallMM           float64
	ClayContentPercent   float64
	SoilMoisturePercent  float64
}

func (f SoilFeatures) fields() map[string]any {
	return map[string]any{
		"pH":                     f.PH,
		"Nitrogen_ppm":           f.NitrogenPPM,
		"Phosphorus_ppm":         f.PhosphorusPPM,
		"Potassium_ppm":          f.PotassiumPPM,
		"Organic_Carbon_percent": f.OrganicCarbonPercent,
		"Salinity_dS_m":          f.SalinityDSM,
		"Temperature_C":          f.TemperatureC,
		"Rainfall_mm":            f.RainfallMM,
		"Clay_Content_percent":   f.ClayContentPercent,
		"Soil_Moisture_percent":  f.SoilMoisturePercent,
	}
}

// PredictSoilHealth runs the soil health index model.
func (c *Client) PredictSoilHealth(ctx context.Context, features SoilFeatures) (*domain.SoilHealth, error) {
	resp, err := c.invoke(ctx, methodSoilHealth, features.fields())
	if err != nil {
		return nil, err
	}

	m := resp.AsMap()
	index, ok := m["health_index"].(float64)
	if !ok {
		return nil, fmt.Errorf("soil health response missing health_index")
	}
	category, _ := m["health_category"].(string)
	if category == "" {
		category = healthCategory(index)
	}

	out := &domain.SoilHealth{
		HealthIndex:    index,
		HealthCategory: category,
		Issues:         map[string]bool{},
	}
	if issues, ok := m["issues"].(map[string]any); ok {
		for name, v := range issues {
			flag, _ := v.(bool)
			out.Issues[name] = flag
			if flag {
				out.ActiveIssues = append(out.ActiveIssues, name)
			}
		}
		sort.Strings(out.ActiveIssues)
	}
	return out, nil
}

// CropFeatures is the input row for the crop recommendation model.
type CropFeatures struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	Rainfall    float64 `json:"rainfall"`
}

// RecommendCrops returns the model's top crop suggestions, best first.
func (c *Client) RecommendCrops(ctx context.Context, features CropFeatures) ([]domain.CropRecommendation, error) {
	resp, err := c.invoke(ctx, methodCropRecommend, map[string]any{
		"N":           features.N,
		"P":           features.P,
		"K":           features.K,
		"temperature": features.Temperature,
		"humidity":    features.Humidity,
		"ph":          features.PH,
		"rainfall":    features.Rainfall,
	})
	if err != nil {
		return nil, err
	}

	list, ok := resp.Fields["recommendations"]
	if !ok {
		return nil, fmt.Errorf("crop response missing recommendations")
	}

	var out []domain.CropRecommendation
	for _, item := range list.GetListValue().GetValues() {
		fields := item.GetStructValue().GetFields()
		name := fields["crop"].GetStringValue()
		if name == "" {
			continue
		}
		out = append(out, domain.CropRecommendation{
			Crop:            name,
			ConfidenceScore: fields["confidence_score"].GetNumberValue(),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("crop response had no usable recommendations")
	}
	return out, nil
}

// ClassifyDisease runs the plant disease classifier on a base64 image.
// The returned name is in the model's raw "Plant___Condition" form.
func (c *Client) ClassifyDisease(ctx context.Context, imageBase64 string) (string, float64, error) {
	resp, err := c.invoke(ctx, methodPlantDisease, map[string]any{
		"image": imageBase64,
	})
	if err != nil {
		return "", 0, err
	}

	fields := resp.GetFields()
	name := fields["predicted_class"].GetStringValue()
	if name == "" {
		return "", 0, fmt.Errorf("disease response missing predicted_class")
	}
	return name, fields["confidence"].GetNumberValue(), nil
}
