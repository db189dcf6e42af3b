// Package leetcode collects progress snapshots from the LeetCode GraphQL API.
package leetcode

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

	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// DefaultEndpoint is the public GraphQL endpoint.
const DefaultEndpoint = "https://leetcode.com/graphql/"

const (
	siteOrigin   = "https://leetcode.com"
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxErrorBody = 500
)

var (
	// ErrMissingCredentials is returned when the session cookie, CSRF token or user slug is not configured.
	ErrMissingCredentials = errors.New("leetcode credentials are not configured")
	// ErrGraphQL is returned when the response carries a non-empty errors array.
	ErrGraphQL = errors.New("graphql error")
)

const queryProgress = `
  query userProfileUserQuestionProgressV2($userSlug: String!) {
    userProfileUserQuestionProgressV2(userSlug: $userSlug) {
      numAcceptedQuestions {
        difficulty
        count
      }
      userSessionBeatsPercentage {
        difficulty
        percentage
      }
    }
  }
`

const querySkills = `
  query skillStats($username: String!) {
    matchedUser(username: $username) {
      tagProblemCounts {
        advanced {
          tagName
          tagSlug
          problemsSolved
        }
        intermediate {
          tagName
          tagSlug
          problemsSolved
        }
        fundamental {
          tagName
          tagSlug
          problemsSolved
        }
      }
    }
  }
`

// Credentials identify the LeetCode session to read from.
type Credentials struct {
	Cookie   string
	CSRF     string
	Username string
	UserSlug string
}

// Valid reports whether the credentials are sufficient for the progress query.
func (c Credentials) Valid() bool {
	return c.Cookie != "" && c.CSRF != "" && c.UserSlug != ""
}

// Progress is the decoded result of the progress query.
type Progress struct {
	Easy   int
	Medium int
	Hard   int
	// Beats maps a lower-cased difficulty to its beats percentage.
	Beats map[string]float64
}

type graphQLRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type progressData struct {
	Progress *struct {
		NumAcceptedQuestions []struct {
			Difficulty string `json:"difficulty"`
			Count      int    `json:"count"`
		} `json:"numAcceptedQuestions"`
		UserSessionBeatsPercentage []struct {
			Difficulty string   `json:"difficulty"`
			Percentage *float64 `json:"percentage"`
		} `json:"userSessionBeatsPercentage"`
	} `json:"userProfileUserQuestionProgressV2"`
}

type skillsData struct {
	MatchedUser *struct {
		TagProblemCounts json.RawMessage `json:"tagProblemCounts"`
	} `json:"matchedUser"`
}

// Client talks to the GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	creds      Credentials
}

// NewClient creates a client. A nil httpClient gets a 30 second timeout client.
func NewClient(creds Credentials, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   DefaultEndpoint,
		creds:      creds,
	}
}

// Credentials returns the configured credentials.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// FetchProgress runs the accepted-count query for the configured user slug.
func (c *Client) FetchProgress(ctx context.Context) (*Progress, error) {
	var data progressData
	if err := c.query(ctx, "progress", queryProgress, map[string]string{"userSlug": c.creds.UserSlug}, &data); err != nil {
		return nil, err
	}
	if data.Progress == nil {
		return nil, fmt.Errorf("%w: empty progress for user %q", ErrGraphQL, c.creds.UserSlug)
	}

	p := &Progress{}
	for _, q := range data.Progress.NumAcceptedQuestions {
		switch strings.ToLower(q.Difficulty) {
		case models.DifficultyEasy:
			p.Easy = q.Count
		case models.DifficultyMedium:
			p.Medium = q.Count
		case models.DifficultyHard:
			p.Hard = q.Count
		}
	}

	for _, b := range data.Progress.UserSessionBeatsPercentage {
		if b.Percentage == nil {
			continue
		}
		if p.Beats == nil {
			p.Beats = make(map[string]float64)
		}
		p.Beats[strings.ToLower(b.Difficulty)] = *b.Percentage
	}

	return p, nil
}

// FetchSkills returns the raw tagProblemCounts object for the configured
// username, or "{}" when the user has none.
func (c *Client) FetchSkills(ctx context.Context) (string, error) {
	username := c.creds.Username
	if username == "" {
		username = c.creds.UserSlug
	}

	var data skillsData
	if err := c.query(ctx, "skills", querySkills, map[string]string{"username": username}, &data); err != nil {
		return "", err
	}
	if data.MatchedUser == nil || len(data.MatchedUser.TagProblemCounts) == 0 ||
		string(data.MatchedUser.TagProblemCounts) == "null" {
		return "{}", nil
	}
	return string(data.MatchedUser.TagProblemCounts), nil
}

// Collect builds a progress snapshot stamped with now. The skills query is
// supplementary: its failure is logged and an empty breakdown is stored.
func (c *Client) Collect(ctx context.Context, now time.Time) (*models.ProgressSnapshot, error) {
	progress, err := c.FetchProgress(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := c.FetchSkills(ctx)
	if err != nil {
		logger.Warn("skills query failed, continuing without skills data", "error", err)
		tags = "{}"
	}

	return &models.ProgressSnapshot{
		Timestamp: now.UnixMilli(),
		Easy:      progress.Easy,
		Medium:    progress.Medium,
		Hard:      progress.Hard,
		TagsJSON:  tags,
		Beats:     progress.Beats,
	}, nil
}

func (c *Client) query(ctx context.Context, name, query string, variables map[string]string, out any) error {
	if !c.creds.Valid() {
		return ErrMissingCredentials
	}

	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", c.creds.Cookie)
	req.Header.Set("X-Csrftoken", c.creds.CSRF)
	req.Header.Set("Referer", siteOrigin)
	req.Header.Set("Origin", siteOrigin)
	req.Header.Set("User-Agent", userAgent)

	logger.Debug("leetcode request", "query", name, "variables", variables)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", name, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s request failed (status %d): %s", name, resp.StatusCode, truncate(body, maxErrorBody))
	}

	var gqlResp graphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", name, err)
	}

	if len(gqlResp.Errors) > 0 {
		messages := make([]string, 0, len(gqlResp.Errors))
		for _, e := range gqlResp.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("%w in %s: %s", ErrGraphQL, name, strings.Join(messages, "; "))
	}

	if len(gqlResp.Data) == 0 {
		return fmt.Errorf("%w in %s: missing data", ErrGraphQL, name)
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", name, err)
	}

	return nil
}

func truncate(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
