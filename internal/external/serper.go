package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"driftboard/internal/types"
)

const (
	serperNewsURL   = "https://google.serper.dev/news"
	serperSearchURL = "https://google.serper.dev/search"
)

// SerperClient calls the Serper search API for news results and the
// weather answer box.
type SerperClient struct {
	base   *BaseClient
	apiKey string
}

// NewSerperClient creates a SerperClient with the given credential.
func NewSerperClient(httpClient *http.Client, apiKey string, opts ...BaseClientOption) *SerperClient {
	return &SerperClient{
		base:   NewBaseClient(httpClient, "serper", DefaultRetryPolicy(), "driftboard", opts...),
		apiKey: apiKey,
	}
}

// serperNewsItem is the wire shape of one news result.
type serperNewsItem struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date"`
	Source   string `json:"source"`
	ImageURL string `json:"imageUrl"`
}

// AnswerBox is the weather-relevant subset of a Serper search response.
type AnswerBox struct {
	Temperature string `json:"temperature"`
	Weather     string `json:"weather"`
	// Description comes from the knowledge graph when the answer box
	// has no condition string.
	Description string `json:"-"`
}

// SearchNews returns up to ten news results for query.
func (c *SerperClient) SearchNews(ctx context.Context, query string) ([]types.NewsItem, error) {
	body, err := c.post(ctx, serperNewsURL, map[string]any{"q": query, "num": 10})
	if err != nil {
		return nil, err
	}

	var payload struct {
		News []serperNewsItem `json:"news"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"failed to decode news response",
			err,
		)
	}

	items := make([]types.NewsItem, 0, len(payload.News))
	for _, n := range payload.News {
		items = append(items, types.NewsItem{
			Title:    n.Title,
			Link:     n.Link,
			Snippet:  n.Snippet,
			Date:     n.Date,
			Source:   n.Source,
			ImageURL: n.ImageURL,
		})
	}
	return items, nil
}

// SearchWeather runs a "weather <location>" search and returns the
// answer box fields the weather adapter post-processes.
func (c *SerperClient) SearchWeather(ctx context.Context, location string) (*AnswerBox, error) {
	body, err := c.post(ctx, serperSearchURL, map[string]any{
		"q":   "weather " + location,
		"num": 1,
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		AnswerBox      AnswerBox `json:"answerBox"`
		KnowledgeGraph struct {
			Description string `json:"description"`
		} `json:"knowledgeGraph"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"failed to decode weather response",
			err,
		)
	}

	box := payload.AnswerBox
	box.Description = payload.KnowledgeGraph.Description
	return &box, nil
}

// post issues one JSON POST to the Serper API and returns the response
// body for a 2xx status.
func (c *SerperClient) post(ctx context.Context, url string, reqBody map[string]any) ([]byte, error) {
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build request", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("serper API error: %d", resp.StatusCode),
			nil,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "failed to read response body", err)
	}
	return body, nil
}
