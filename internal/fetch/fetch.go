// Package fetch downloads the current template documents from the project's
// repositories, as an alternative to the copies baked into the binary.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HttpClient lets tests substitute the transport.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultComposeURL   = "https://raw.githubusercontent.com/melodix-project/melodix-installer/main/docker-compose.yml"
	defaultLavalinkURL  = "https://raw.githubusercontent.com/melodix-project/melodix-installer/main/lavalink/application.yml"
	defaultBotURL       = "https://raw.githubusercontent.com/melodix-project/melodix/main/settings.example.json"
	defaultDashboardURL = "https://raw.githubusercontent.com/melodix-project/melodix-dashboard/main/settings.example.json"
)

// Templates is a set of downloaded template documents.
type Templates struct {
	Compose   []byte
	Lavalink  []byte
	Bot       []byte
	Dashboard []byte
}

// Fetcher downloads template documents over HTTP.
type Fetcher struct {
	client HttpClient

	ComposeURL   string
	LavalinkURL  string
	BotURL       string
	DashboardURL string
}

// New returns a Fetcher over the given client, http.DefaultClient when nil.
func New(client HttpClient) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:       client,
		ComposeURL:   defaultComposeURL,
		LavalinkURL:  defaultLavalinkURL,
		BotURL:       defaultBotURL,
		DashboardURL: defaultDashboardURL,
	}
}

// Download fetches every template document. The dashboard template is only
// fetched when withDashboard is set.
func (f *Fetcher) Download(ctx context.Context, withDashboard bool) (*Templates, error) {
	t := &Templates{}
	var err error
	if t.Compose, err = f.get(ctx, f.ComposeURL); err != nil {
		return nil, err
	}
	if t.Lavalink, err = f.get(ctx, f.LavalinkURL); err != nil {
		return nil, err
	}
	if t.Bot, err = f.get(ctx, f.BotURL); err != nil {
		return nil, err
	}
	if withDashboard {
		if t.Dashboard, err = f.get(ctx, f.DashboardURL); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer res.Body.Close()

	// http.Client doesn't treat non 2xx responses as error
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("(%d) failed to download %s", res.StatusCode, url)
	}

	return io.ReadAll(res.Body)
}
