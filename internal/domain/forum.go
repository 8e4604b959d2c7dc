package domain

import (
	"time"
)

// ForumPost is a community forum entry.
type ForumPost struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Language  string    `json:"language"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// CropRecommendation is one ranked crop suggestion.
type CropRecommendation struct {
	Crop            string  `json:"crop"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// DiseasePrediction is the classification result for a plant image,
// enriched with treatment and prevention guidance.
type DiseasePrediction struct {
	DiseaseName string  `json:"disease_name"`
	Confidence  float64 `json:"confidence"`
	IsHealthy   bool    `json:"is_healthy"`
	Treatment   string  `json:"treatment"`
	Prevention  string  `json:"prevention"`
}

// MarketInsight is one commodity price record from the market feed.
type MarketInsight struct {
	Commodity string  `json:"commodity"`
	State     string  `json:"state"`
	Market    string  `json:"market"`
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	Date      string  `json:"date"`
}
