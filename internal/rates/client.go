package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Client implements Provider against a frankfurter-compatible JSON endpoint
// (GET /latest?base=CZK&symbols=EUR,USD).
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (c *Client) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	out, err := c.Rates(ctx, from, []string{to})
	if err != nil {
		return decimal.Decimal{}, err
	}
	rate, ok := out[strings.ToUpper(to)]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("rate provider returned no rate for %s", to)
	}
	return rate, nil
}

func (c *Client) Rates(ctx context.Context, from string, to []string) (map[string]decimal.Decimal, error) {
	symbols := make([]string, len(to))
	for i, s := range to {
		symbols[i] = strings.ToUpper(s)
	}
	q := url.Values{}
	q.Set("base", strings.ToUpper(from))
	q.Set("symbols", strings.Join(symbols, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/latest?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rate provider request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rate provider response: %w", err)
	}
	c.log.Debug().Str("base", from).Int("rates", len(body.Rates)).Msg("fetched exchange rates")
	return body.Rates, nil
}
