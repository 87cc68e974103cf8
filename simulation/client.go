package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/simplay-cli/simplay/log"
	"github.com/simplay-cli/simplay/network"
)

// ErrNotFound is returned when the API does not know the simulation.
var ErrNotFound = errors.New("simulation not found")

// Client talks to the simulation API at a base URL.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient returns a client using the shared HTTP client.
func NewClient(base, token string) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  network.Client,
	}
}

// Get returns the metadata of one simulation.
func (c *Client) Get(ctx context.Context, id string) (Simulation, error) {
	var sim Simulation
	err := c.get(ctx, "/simulations/"+url.PathEscape(id), &sim)
	return sim, err
}

// List returns every simulation the API knows.
func (c *Client) List(ctx context.Context) ([]Simulation, error) {
	var list struct {
		Items []Simulation `json:"items"`
	}
	if err := c.get(ctx, "/simulations", &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Infof("Requesting %s", req.URL)
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error(err)
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	default:
		log.Errorf("Simulation API returned status code %d", resp.StatusCode)
		return fmt.Errorf("invalid response code %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error(err)
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
