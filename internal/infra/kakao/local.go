package kakao

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

const DefaultAPIBase = "https://dapi.kakao.com"

var ErrAddressNotFound = errors.New("address not found")

type Coordinates struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves addresses with the Kakao Local API.
type Geocoder struct {
	BaseURL string
	apiKey  string
	http    *http.Client
}

func NewGeocoder(restAPIKey string) *Geocoder {
	return &Geocoder{
		BaseURL: DefaultAPIBase,
		apiKey:  restAPIKey,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *Geocoder) Configured() bool { return g != nil && g.apiKey != "" }

type addressResponse struct {
	Documents []struct {
		AddressName string `json:"address_name"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"documents"`
}

// Geocode returns the first match for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	if !g.Configured() {
		return nil, errors.New("kakao rest api key not configured")
	}

	u := g.BaseURL + "/v2/local/search/address.json?query=" + url.QueryEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "KakaoAK "+g.apiKey)

	res, err := g.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "kakao local request")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao local: unexpected status %d", res.StatusCode)
	}

	var body addressResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "decode kakao local response")
	}
	if len(body.Documents) == 0 {
		return nil, ErrAddressNotFound
	}

	doc := body.Documents[0]
	lng, err := strconv.ParseFloat(doc.X, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parse longitude")
	}
	lat, err := strconv.ParseFloat(doc.Y, 64)
	if err != nil {
		return nil, errors.Wrap(err, "parse latitude")
	}
	return &Coordinates{Address: doc.AddressName, Latitude: lat, Longitude: lng}, nil
}
