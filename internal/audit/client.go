// Package audit derives the student's taken-course history from the
// institutional academic-audit feed and caches it with a TTL.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marinamoger/myDegreesExtension/internal/logging"
)

// Client talks to the identity/audit API. The audit document's schema is
// not contractually guaranteed; it is returned as an opaque tree.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Fixed institutional parameters attached to every audit fetch.
	School string
	Degree string

	log *logging.Logger
}

func NewClient(baseURL, school, degree string, timeout time.Duration, log *logging.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		School: school,
		Degree: degree,
		log:    log,
	}
}

// CurrentStudentID resolves the signed-in student's identifier.
func (c *Client) CurrentStudentID(ctx context.Context) (string, error) {
	var input struct {
		Student struct {
			ID string `json:"id"`
		} `json:"student"`
	}
	if err := c.get(ctx, fmt.Sprintf("%s/api/students/myself", c.BaseURL), &input); err != nil {
		return "", err
	}
	if input.Student.ID == "" {
		return "", fmt.Errorf("identity response carried no student id")
	}
	return input.Student.ID, nil
}

// FetchAudit retrieves the academic-audit document for a student, including
// in-progress and preregistered work.
func (c *Client) FetchAudit(ctx context.Context, studentID string) (map[string]interface{}, error) {
	q := url.Values{}
	q.Set("studentId", studentID)
	q.Set("school", c.School)
	q.Set("degree", c.Degree)
	q.Set("auditType", "AA")
	q.Set("includeInProgress", "true")
	q.Set("includePreregistered", "true")

	var doc map[string]interface{}
	if err := c.get(ctx, fmt.Sprintf("%s/api/audit?%s", c.BaseURL, q.Encode()), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("audit API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
