package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dietlog-backend/pkg/imaging"
)

// PerGram is the estimated macro content of one gram of food
type PerGram struct {
	Protein float64
	Fat     float64
	Carbs   float64
}

// Client calls a TensorFlow Serving style predict endpoint hosting the
// portion independent nutrition model.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8501"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   "nutrition",
		client:  &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions []map[string]scalar `json:"predictions"`
	Error       string              `json:"error"`
}

// Estimate returns per-gram protein, fat and carbs for the image
func (c *Client) Estimate(ctx context.Context, t imaging.Tensor) (PerGram, error) {
	body, err := json.Marshal(predictRequest{Instances: [][][][]float32{t.Nested()}})
	if err != nil {
		return PerGram{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return PerGram{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return PerGram{}, fmt.Errorf("estimator request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return PerGram{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return PerGram{}, fmt.Errorf("estimator API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result predictResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return PerGram{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != "" {
		return PerGram{}, fmt.Errorf("estimator error: %s", result.Error)
	}
	if len(result.Predictions) == 0 {
		return PerGram{}, errors.New("estimator returned no predictions")
	}

	p := result.Predictions[0]
	for _, k := range []string{"protein", "fat", "carbs"} {
		if _, ok := p[k]; !ok {
			return PerGram{}, fmt.Errorf("estimator response missing %q", k)
		}
	}
	return PerGram{
		Protein: float64(p["protein"]),
		Fat:     float64(p["fat"]),
		Carbs:   float64(p["carbs"]),
	}, nil
}

// scalar decodes a number that the model may wrap in one or more arrays,
// e.g. 0.12, [0.12] or [[0.12]].
type scalar float64

func (s *scalar) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	for {
		switch x := v.(type) {
		case float64:
			*s = scalar(x)
			return nil
		case []interface{}:
			if len(x) == 0 {
				return errors.New("empty prediction array")
			}
			v = x[0]
		default:
			return fmt.Errorf("unexpected prediction value %v", x)
		}
	}
}
