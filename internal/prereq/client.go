package prereq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marinamoger/myDegreesExtension/internal/course"
	"github.com/marinamoger/myDegreesExtension/internal/logging"
)

// Client talks to the prerequisite-lookup API. The API takes one call per
// term carrying the whole course list for that term.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	log        *logging.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *logging.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type courseRef struct {
	Discipline string `json:"discipline"`
	Number     string `json:"number"`
}

type batchRequest struct {
	Term    string      `json:"term"`
	Courses []courseRef `json:"courses"`
}

type coursePrereqs struct {
	Discipline    string  `json:"discipline"`
	Number        string  `json:"number"`
	Prerequisites []Token `json:"prerequisites"`
}

type batchResponse struct {
	Courses []coursePrereqs `json:"courses"`
}

// FetchBatch looks up prerequisite formulas for a set of courses within one
// term. Codes must already be normalized; codes that do not split into a
// discipline/number pair are skipped. Every requested code appears in the
// result: courses the response omits get an empty formula, so absence of
// prerequisite data reads as "no constraints".
func (c *Client) FetchBatch(ctx context.Context, termCode string, codes []string) (map[string]Formula, error) {
	reqBody := batchRequest{Term: termCode}
	requested := make([]string, 0, len(codes))
	for _, code := range codes {
		disc, num, ok := course.Split(code)
		if !ok {
			continue
		}
		reqBody.Courses = append(reqBody.Courses, courseRef{Discipline: disc, Number: num})
		requested = append(requested, code)
	}
	if len(reqBody.Courses) == 0 {
		return map[string]Formula{}, nil
	}

	var resp batchResponse
	if err := c.post(ctx, fmt.Sprintf("%s/api/prerequisites", c.BaseURL), reqBody, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]Formula, len(requested))
	for _, code := range requested {
		out[code] = Formula{}
	}
	for _, cp := range resp.Courses {
		code := course.Normalize(cp.Discipline + " " + cp.Number)
		out[code] = BuildGroups(cp.Prerequisites)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("prerequisite API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
