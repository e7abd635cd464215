package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SearchResult is the subset of iTunes metadata the submission form
// offers for autofill.
type SearchResult struct {
	Name       string `json:"name"`
	Hosts      string `json:"hosts"`
	CoverImage string `json:"cover_image"`
	ListenURL  string `json:"listen_url"`
	Category   string `json:"category"`
}

// ITunesClient queries the public iTunes search API. Every request is
// bounded by Timeout so a slow upstream can never hang the form.
type ITunesClient struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

func NewITunesClient() *ITunesClient {
	return &ITunesClient{
		BaseURL: "https://itunes.apple.com/search",
		Timeout: 4 * time.Second,
		Client:  &http.Client{},
	}
}

type itunesResponse struct {
	Results []struct {
		TrackName         string `json:"trackName"`
		ArtistName        string `json:"artistName"`
		ArtworkURL600     string `json:"artworkUrl600"`
		CollectionViewURL string `json:"collectionViewUrl"`
		PrimaryGenreName  string `json:"primaryGenreName"`
	} `json:"results"`
}

// Search looks up podcasts by free-text term. Missing upstream fields come
// back as empty strings rather than errors.
func (c *ITunesClient) Search(ctx context.Context, term string, limit int) ([]SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("media", "podcast")
	q.Set("entity", "podcast")
	q.Set("term", term)
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned %d", resp.StatusCode)
	}

	var body itunesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, SearchResult{
			Name:       r.TrackName,
			Hosts:      r.ArtistName,
			CoverImage: r.ArtworkURL600,
			ListenURL:  r.CollectionViewURL,
			Category:   r.PrimaryGenreName,
		})
	}
	return results, nil
}
