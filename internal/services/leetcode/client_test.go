package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

var testCreds = Credentials{Cookie: "LEETCODE_SESSION=abc", CSRF: "tok", Username: "alice", UserSlug: "alice-slug"}

const progressBody = `{"data":{"userProfileUserQuestionProgressV2":{
	"numAcceptedQuestions":[
		{"difficulty":"EASY","count":41},
		{"difficulty":"MEDIUM","count":77},
		{"difficulty":"HARD","count":9}],
	"userSessionBeatsPercentage":[
		{"difficulty":"EASY","percentage":88.5},
		{"difficulty":"MEDIUM","percentage":71.2},
		{"difficulty":"HARD","percentage":null}]}}}`

const skillsBody = `{"data":{"matchedUser":{"tagProblemCounts":{
	"advanced":[{"tagName":"Dynamic Programming","tagSlug":"dynamic-programming","problemsSolved":12}],
	"intermediate":[],"fundamental":[{"tagName":"Array","tagSlug":"array","problemsSolved":50}]}}}}`

func respond(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

// routeByQuery answers the progress and skills queries with the given bodies.
func routeByQuery(t *testing.T, progress, skills func() (*http.Response, error)) *http.Client {
	t.Helper()
	return &http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			var gql graphQLRequest
			require.NoError(t, json.NewDecoder(req.Body).Decode(&gql))
			if strings.Contains(gql.Query, "skillStats") {
				return skills()
			}
			return progress()
		},
	}}
}

func TestClient_RequestShape(t *testing.T) {
	var captured *http.Request
	var payload graphQLRequest

	client := NewClient(testCreds, &http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			captured = req
			require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
			return respond(http.StatusOK, progressBody), nil
		},
	}})

	_, err := client.FetchProgress(context.Background())
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, DefaultEndpoint, captured.URL.String())
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, testCreds.Cookie, captured.Header.Get("Cookie"))
	assert.Equal(t, testCreds.CSRF, captured.Header.Get("x-csrftoken"))
	assert.Equal(t, "https://leetcode.com", captured.Header.Get("Referer"))
	assert.Equal(t, "https://leetcode.com", captured.Header.Get("Origin"))
	assert.Contains(t, captured.Header.Get("User-Agent"), "Mozilla/5.0")

	assert.Contains(t, payload.Query, "userProfileUserQuestionProgressV2")
	assert.Equal(t, map[string]string{"userSlug": "alice-slug"}, payload.Variables)
}

func TestClient_FetchProgress(t *testing.T) {
	client := NewClient(testCreds, &http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(*http.Request) (*http.Response, error) {
			return respond(http.StatusOK, progressBody), nil
		},
	}})

	p, err := client.FetchProgress(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 41, p.Easy)
	assert.Equal(t, 77, p.Medium)
	assert.Equal(t, 9, p.Hard)
	assert.Equal(t, map[string]float64{"easy": 88.5, "medium": 71.2}, p.Beats)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		creds     Credentials
		roundTrip func(*http.Request) (*http.Response, error)
		target    error
		contains  string
	}{
		{
			name:   "MissingCredentials",
			creds:  Credentials{Username: "alice"},
			target: ErrMissingCredentials,
		},
		{
			name:  "Transport",
			creds: testCreds,
			roundTrip: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("net error")
			},
			contains: "net error",
		},
		{
			name:  "Status",
			creds: testCreds,
			roundTrip: func(*http.Request) (*http.Response, error) {
				return respond(http.StatusForbidden, strings.Repeat("x", 2000)), nil
			},
			contains: "status 403",
		},
		{
			name:  "GraphQLErrors",
			creds: testCreds,
			roundTrip: func(*http.Request) (*http.Response, error) {
				return respond(http.StatusOK, `{"data":null,"errors":[{"message":"That user does not exist."}]}`), nil
			},
			target:   ErrGraphQL,
			contains: "That user does not exist.",
		},
		{
			name:  "InvalidJSON",
			creds: testCreds,
			roundTrip: func(*http.Request) (*http.Response, error) {
				return respond(http.StatusOK, "<html>"), nil
			},
			contains: "failed to parse progress response",
		},
		{
			name:  "NullProgress",
			creds: testCreds,
			roundTrip: func(*http.Request) (*http.Response, error) {
				return respond(http.StatusOK, `{"data":{"userProfileUserQuestionProgressV2":null}}`), nil
			},
			target: ErrGraphQL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpClient := &http.Client{Transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					if tt.roundTrip == nil {
						t.Fatal("no request expected")
					}
					return tt.roundTrip(req)
				},
			}}

			_, err := NewClient(tt.creds, httpClient).FetchProgress(context.Background())
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestClient_StatusErrorTruncatesBody(t *testing.T) {
	client := NewClient(testCreds, &http.Client{Transport: &MockRoundTripper{
		RoundTripFunc: func(*http.Request) (*http.Response, error) {
			return respond(http.StatusBadGateway, strings.Repeat("y", 2000)), nil
		},
	}})

	_, err := client.FetchProgress(context.Background())
	require.Error(t, err)
	assert.Equal(t, maxErrorBody, strings.Count(err.Error(), "y"))
}

func TestClient_FetchSkills(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"Present", skillsBody, ""},
		{"NoUser", `{"data":{"matchedUser":null}}`, "{}"},
		{"NullCounts", `{"data":{"matchedUser":{"tagProblemCounts":null}}}`, "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var variables map[string]string
			client := NewClient(testCreds, &http.Client{Transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					var gql graphQLRequest
					require.NoError(t, json.NewDecoder(req.Body).Decode(&gql))
					variables = gql.Variables
					return respond(http.StatusOK, tt.body), nil
				},
			}})

			got, err := client.FetchSkills(context.Background())
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"username": "alice"}, variables)

			if tt.want != "" {
				assert.Equal(t, tt.want, got)
				return
			}
			assert.Contains(t, got, `"Dynamic Programming"`)
			assert.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestClient_Collect(t *testing.T) {
	now := time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)

	t.Run("WithSkills", func(t *testing.T) {
		client := NewClient(testCreds, routeByQuery(t,
			func() (*http.Response, error) { return respond(http.StatusOK, progressBody), nil },
			func() (*http.Response, error) { return respond(http.StatusOK, skillsBody), nil },
		))

		snapshot, err := client.Collect(context.Background(), now)
		require.NoError(t, err)

		assert.Equal(t, now.UnixMilli(), snapshot.Timestamp)
		assert.Equal(t, 127, snapshot.Total())
		assert.Contains(t, snapshot.TagsJSON, "Array")
		assert.InDelta(t, 88.5, snapshot.Beats["easy"], 1e-9)
	})

	t.Run("SkillsFailureIsTolerated", func(t *testing.T) {
		client := NewClient(testCreds, routeByQuery(t,
			func() (*http.Response, error) { return respond(http.StatusOK, progressBody), nil },
			func() (*http.Response, error) { return respond(http.StatusInternalServerError, "boom"), nil },
		))

		snapshot, err := client.Collect(context.Background(), now)
		require.NoError(t, err)
		assert.Equal(t, "{}", snapshot.TagsJSON)
		assert.Equal(t, 41, snapshot.Easy)
	})

	t.Run("ProgressFailureFails", func(t *testing.T) {
		client := NewClient(testCreds, routeByQuery(t,
			func() (*http.Response, error) { return respond(http.StatusUnauthorized, "denied"), nil },
			func() (*http.Response, error) { return respond(http.StatusOK, skillsBody), nil },
		))

		_, err := client.Collect(context.Background(), now)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 401")
	})
}

func TestCredentials_Valid(t *testing.T) {
	assert.True(t, testCreds.Valid())
	assert.False(t, Credentials{Cookie: "c", CSRF: "t"}.Valid())
	assert.False(t, Credentials{}.Valid())
}
