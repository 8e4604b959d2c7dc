// Package market proxies mandi (wholesale market) price data from the
// AgMarknet feed and adds a short selling advisory. Like the weather
// client, every lookup degrades to fallback records instead of failing.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/krishimitra/server/internal/domain"
	"github.com/krishimitra/server/internal/llm"
)

const defaultBaseURL = "https://agmarket-api.onrender.com"

// Client fetches commodity prices from the AgMarknet proxy.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient creates a market data client.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// The upstream returns rows keyed by AgMarknet's column headers.
type priceRow struct {
	Commodity string `json:"commodity"`
	State     string `json:"state"`
	Market    string `json:"market"`
	MinPrice  string `json:"min_price"`
	MaxPrice  string `json:"max_price"`
	Date      string `json:"date"`
}

// Prices returns recent price records for the commodity in the given
// state and market, or fallback records on any failure.
func (c *Client) Prices(ctx context.Context, commodity, state, mkt string) []domain.MarketInsight {
	q := url.Values{}
	q.Set("commodity", commodity)
	q.Set("state", state)
	q.Set("market", mkt)
	reqURL := fmt.Sprintf("%s/request?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fallbackInsights(commodity, state, mkt)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Market lookup failed, using fallback prices", "error", err, "commodity", commodity)
		return fallbackInsights(commodity, state, mkt)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Market lookup failed, using fallback prices", "status", resp.StatusCode, "commodity", commodity)
		return fallbackInsights(commodity, state, mkt)
	}

	var rows []priceRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		c.logger.Warn("Market response unreadable, using fallback prices", "error", err)
		return fallbackInsights(commodity, state, mkt)
	}
	if len(rows) == 0 {
		return fallbackInsights(commodity, state, mkt)
	}

	out := make([]domain.MarketInsight, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MarketInsight{
			Commodity: row.Commodity,
			State:     row.State,
			Market:    row.Market,
			MinPrice:  parsePrice(row.MinPrice),
			MaxPrice:  parsePrice(row.MaxPrice),
			Date:      row.Date,
		})
	}
	return out
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Representative Maharashtra mandi prices, used when the feed is down.
func fallbackInsights(commodity, state, mkt string) []domain.MarketInsight {
	if commodity == "" {
		commodity = "Onion"
	}
	if state == "" {
		state = "Maharashtra"
	}
	if mkt == "" {
		mkt = "Pune"
	}
	today := time.Now().Format("02 Jan 2006")
	return []domain.MarketInsight{
		{Commodity: commodity, State: state, Market: mkt, MinPrice: 1200, MaxPrice: 1850, Date: today},
		{Commodity: commodity, State: state, Market: mkt, MinPrice: 1150, MaxPrice: 1800, Date: time.Now().AddDate(0, 0, -1).Format("02 Jan 2006")},
		{Commodity: commodity, State: state, Market: mkt, MinPrice: 1250, MaxPrice: 1900, Date: time.Now().AddDate(0, 0, -2).Format("02 Jan 2006")},
	}
}

// Service combines price records with a short selling advisory.
type Service struct {
	client *Client
	llm    llm.Client
	logger *slog.Logger
}

// NewService creates the market service. llmClient may return
// llm.ErrNoCredential; the advisory then falls back to a canned line.
func NewService(client *Client, llmClient llm.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, llm: llmClient, logger: logger}
}

// Insights is the market endpoint payload.
type Insights struct {
	Prices   []domain.MarketInsight `json:"prices"`
	Advisory string                 `json:"advisory"`
}

// Fetch returns prices with an advisory for the given commodity.
func (s *Service) Fetch(ctx context.Context, commodity, state, mkt string) *Insights {
	prices := s.client.Prices(ctx, commodity, state, mkt)
	return &Insights{
		Prices:   prices,
		Advisory: s.advisory(ctx, prices),
	}
}

func (s *Service) advisory(ctx context.Context, prices []domain.MarketInsight) string {
	fallback := "Prices are within the usual seasonal range. Compare nearby mandis before selling and avoid distress sales right after harvest."
	if s.llm == nil || len(prices) == 0 {
		return fallback
	}

	latest := prices[0]
	prompt := fmt.Sprintf(
		"You are an agricultural market advisor for Indian farmers. %s at %s mandi, %s is trading between ₹%.0f and ₹%.0f per quintal as of %s. In two short sentences, advise a smallholder farmer whether to sell now or hold, in plain language.",
		latest.Commodity, latest.Market, latest.State, latest.MinPrice, latest.MaxPrice, latest.Date)

	text, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("Market advisory generation failed, using fallback", "error", err)
		return fallback
	}
	return text
}
