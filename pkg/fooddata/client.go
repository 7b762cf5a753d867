package fooddata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Nutrient names used by FoodData Central for the tracked macros
const (
	NutrientEnergy  = "Energy"
	NutrientCarbs   = "Carbohydrate, by difference"
	NutrientProtein = "Protein"
	NutrientFat     = "Total lipid (fat)"
)

var (
	// ErrNotFound is returned when the catalog has no food for a code
	ErrNotFound = errors.New("food not found")
	// ErrBadResponse is returned when the catalog answers with an unexpected payload
	ErrBadResponse = errors.New("invalid catalog response")
)

// SearchHit is one search result
type SearchHit struct {
	FDCID       int64  `json:"fdcId"`
	Description string `json:"description"`
}

// Food is a catalog item with its nutrient amounts keyed by nutrient name
type Food struct {
	FDCID       int64
	Description string
	Nutrients   map[string]float64
}

// Client calls the USDA FoodData Central API
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Foods *[]SearchHit `json:"foods"`
}

// Search returns up to pageSize foods matching query
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]SearchHit, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(pageSize))

	body, status, err := c.get(ctx, c.baseURL+"/foods/search?"+params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("fdc search API error (%d): %s", status, truncate(body))
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}
	if resp.Foods == nil {
		return nil, ErrBadResponse
	}
	return *resp.Foods, nil
}

type foodResponse struct {
	FDCID         int64  `json:"fdcId"`
	Description   string `json:"description"`
	FoodNutrients []struct {
		Nutrient struct {
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
}

// Food fetches one item. ErrNotFound is returned when the catalog does not
// know the code or answers without a description.
func (c *Client) Food(ctx context.Context, code string) (*Food, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	body, status, err := c.get(ctx, c.baseURL+"/food/"+url.PathEscape(code)+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound, status == http.StatusBadRequest:
		return nil, ErrNotFound
	case status != http.StatusOK:
		return nil, fmt.Errorf("fdc food API error (%d): %s", status, truncate(body))
	}

	var resp foodResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse food response: %w", err)
	}
	if resp.Description == "" {
		return nil, ErrNotFound
	}

	food := &Food{
		FDCID:       resp.FDCID,
		Description: resp.Description,
		Nutrients:   make(map[string]float64, len(resp.FoodNutrients)),
	}
	for _, n := range resp.FoodNutrients {
		name := n.Nutrient.Name
		if name == "" {
			continue
		}
		// energy is listed in both kcal and kJ; keep kcal
		if name == NutrientEnergy && n.Nutrient.UnitName != "" && !strings.EqualFold(n.Nutrient.UnitName, "kcal") {
			continue
		}
		food.Nutrients[name] = n.Amount
	}
	return food, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fdc request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}
