package petfinder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-reels/internal/platform/httpclient"
	"pet-reels/internal/ports/upstream"
)

const DefaultBaseURL = "https://api.petfinder.com"

var (
	ErrPetfinderNotConfigured = errors.New("petfinder client not configured")
)

// Config del cliente. ClientID/ClientSecret son las credenciales OAuth2
// client-credentials de la cuenta.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type Client struct {
	http         *httpclient.Client
	clientID     string
	clientSecret string
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(base, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.UserAgent = "pet-reels"

	return &Client{
		http:         hc,
		clientID:     strings.TrimSpace(cfg.ClientID),
		clientSecret: strings.TrimSpace(cfg.ClientSecret),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.clientID != "" && c.clientSecret != ""
}

func (c *Client) ExchangeToken(ctx context.Context) (upstream.Credential, error) {
	if !c.IsConfigured() {
		return upstream.Credential{}, ErrPetfinderNotConfigured
	}

	var out tokenResponse
	err := c.http.PostForm(ctx, "/v2/oauth2/token", url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}, &out)
	if err != nil {
		switch httpclient.StatusOf(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return upstream.Credential{}, fmt.Errorf("%w: %v", upstream.ErrAuthFailure, err)
		}
		return upstream.Credential{}, classify(ctx, err)
	}
	if out.AccessToken == "" {
		return upstream.Credential{}, fmt.Errorf("%w: empty access_token", upstream.ErrAuthFailure)
	}

	return upstream.Credential{
		AccessToken: out.AccessToken,
		ExpiresIn:   time.Duration(out.ExpiresIn) * time.Second,
	}, nil
}

func (c *Client) SearchAnimals(ctx context.Context, token string, q upstream.SearchQuery) (upstream.SearchPage, error) {
	params := url.Values{}
	params.Set("status", "adoptable")
	if q.Location != "" {
		params.Set("location", q.Location)
		if q.DistanceMiles > 0 {
			params.Set("distance", strconv.Itoa(q.DistanceMiles))
		}
	}
	switch q.Sort {
	case upstream.SortDistance:
		if q.Location != "" {
			params.Set("sort", "distance")
		}
	case upstream.SortRecent:
		params.Set("sort", "recent")
	}
	if !q.After.IsZero() {
		params.Set("after", q.After.UTC().Format(time.RFC3339))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var out searchResponse
	if err := c.http.GetJSON(ctx, "/v2/animals", params, bearer(token), &out); err != nil {
		return upstream.SearchPage{}, classify(ctx, err)
	}

	page := upstream.SearchPage{
		Listings:   make([]upstream.Listing, 0, len(out.Animals)),
		Page:       out.Pagination.CurrentPage,
		TotalPages: out.Pagination.TotalPages,
	}
	for _, a := range out.Animals {
		page.Listings = append(page.Listings, a.toListing())
	}
	return page, nil
}

func (c *Client) GetAnimal(ctx context.Context, token string, id int64) (upstream.Listing, error) {
	var out struct {
		Animal animalDTO `json:"animal"`
	}
	path := "/v2/animals/" + strconv.FormatInt(id, 10)
	if err := c.http.GetJSON(ctx, path, nil, bearer(token), &out); err != nil {
		return upstream.Listing{}, classify(ctx, err)
	}
	return out.Animal.toListing(), nil
}

func (c *Client) GetOrganization(ctx context.Context, token string, id string) (upstream.OrganizationListing, error) {
	var out struct {
		Organization organizationDTO `json:"organization"`
	}
	path := "/v2/organizations/" + url.PathEscape(id)
	if err := c.http.GetJSON(ctx, path, nil, bearer(token), &out); err != nil {
		return upstream.OrganizationListing{}, classify(ctx, err)
	}
	o := out.Organization
	return upstream.OrganizationListing{
		ID:      o.ID,
		Name:    o.Name,
		Email:   o.Email,
		Phone:   o.Phone,
		City:    o.Address.City,
		State:   o.Address.State,
		Website: o.Website,
	}, nil
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// classify traduce la respuesta HTTP a la taxonomía de upstream.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	status := httpclient.StatusOf(err)
	switch {
	case status == 0:
		// red, timeout o json inválido
		return fmt.Errorf("%w: %v", upstream.ErrTransport, err)
	case status == http.StatusUnauthorized:
		return upstream.ErrUnauthorized
	case status == http.StatusNotFound:
		return upstream.ErrNotFound
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: %v", upstream.ErrTransport, err)
	default:
		return fmt.Errorf("petfinder: %w", err)
	}
}
