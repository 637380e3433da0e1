package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://api.unsplash.com"

// Photo is the trimmed search result handed to the admin picker.
type Photo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Thumb       string `json:"thumb"`
	Regular     string `json:"regular"`
	Author      string `json:"author"`
	AuthorURL   string `json:"author_url"`
	DownloadURL string `json:"-"`
}

type SearchResult struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"totalPages"`
	Results    []Photo `json:"results"`
}

type Client struct {
	BaseURL   string
	accessKey string
	http      *http.Client
}

func NewClient(accessKey string) *Client {
	return &Client{
		BaseURL:   DefaultBaseURL,
		accessKey: accessKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool { return c != nil && c.accessKey != "" }

type apiPhoto struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Thumb   string `json:"thumb"`
		Regular string `json:"regular"`
	} `json:"urls"`
	Links struct {
		DownloadLocation string `json:"download_location"`
	} `json:"links"`
	User struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
}

func (p apiPhoto) toPhoto() Photo {
	desc := p.Description
	if desc == "" {
		desc = p.AltDescription
	}
	return Photo{
		ID:          p.ID,
		Description: desc,
		Thumb:       p.URLs.Thumb,
		Regular:     p.URLs.Regular,
		Author:      p.User.Name,
		AuthorURL:   p.User.Links.HTML,
		DownloadURL: p.Links.DownloadLocation,
	}
}

func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", "20")

	var body struct {
		Total      int        `json:"total"`
		TotalPages int        `json:"total_pages"`
		Results    []apiPhoto `json:"results"`
	}
	if err := c.get(ctx, "/search/photos?"+q.Encode(), &body); err != nil {
		return nil, err
	}

	out := &SearchResult{Total: body.Total, TotalPages: body.TotalPages, Results: make([]Photo, 0, len(body.Results))}
	for _, p := range body.Results {
		out.Results = append(out.Results, p.toPhoto())
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Photo, error) {
	var p apiPhoto
	if err := c.get(ctx, "/photos/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	photo := p.toPhoto()
	return &photo, nil
}

// TrackDownload pings the download endpoint, which the API guidelines require
// whenever a photo is used.
func (c *Client) TrackDownload(ctx context.Context, photo Photo) error {
	if photo.DownloadURL == "" {
		return c.get(ctx, "/photos/"+url.PathEscape(photo.ID)+"/download", nil)
	}
	return c.getURL(ctx, photo.DownloadURL, nil)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.getURL(ctx, c.BaseURL+path, out)
}

func (c *Client) getURL(ctx context.Context, u string, out interface{}) error {
	if !c.Configured() {
		return errors.New("unsplash access key not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Client-ID "+c.accessKey)
	req.Header.Set("Accept-Version", "v1")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "unsplash request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unsplash: unexpected status %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return errors.Wrap(json.NewDecoder(res.Body).Decode(out), "decode unsplash response")
}
