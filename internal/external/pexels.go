package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"driftboard/internal/types"
)

const pexelsSearchURL = "https://api.pexels.com/v1/search"

// PexelsClient calls the Pexels photo search API.
type PexelsClient struct {
	base   *BaseClient
	apiKey string
}

// NewPexelsClient creates a PexelsClient with the given credential.
func NewPexelsClient(httpClient *http.Client, apiKey string, opts ...BaseClientOption) *PexelsClient {
	return &PexelsClient{
		base:   NewBaseClient(httpClient, "pexels", DefaultRetryPolicy(), "driftboard", opts...),
		apiKey: apiKey,
	}
}

// pexelsPhoto is the wire shape of one photo result.
type pexelsPhoto struct {
	ID              int64  `json:"id"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	AvgColor        string `json:"avg_color"`
	Alt             string `json:"alt"`
	Src             struct {
		Large2x string `json:"large2x"`
		Large   string `json:"large"`
	} `json:"src"`
}

// Search returns up to ten landscape photos for query.
func (c *PexelsClient) Search(ctx context.Context, query string) ([]types.Photo, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "10")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pexelsSearchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalUnexpected, "failed to build request", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("pexels API error: %d", resp.StatusCode),
			nil,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "failed to read response body", err)
	}

	var payload struct {
		Photos []pexelsPhoto `json:"photos"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			"failed to decode photos response",
			err,
		)
	}

	photos := make([]types.Photo, 0, len(payload.Photos))
	for _, p := range payload.Photos {
		photoURL := p.Src.Large2x
		if photoURL == "" {
			photoURL = p.Src.Large
		}
		alt := p.Alt
		if alt == "" {
			alt = "Beautiful photograph"
		}
		photos = append(photos, types.Photo{
			ID:              fmt.Sprintf("%d", p.ID),
			URL:             photoURL,
			Photographer:    p.Photographer,
			PhotographerURL: p.PhotographerURL,
			AvgColor:        p.AvgColor,
			Alt:             alt,
		})
	}
	return photos, nil
}
