package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	responses map[string]*http.Response
	requested []string
}

func (c *stubClient) Do(req *http.Request) (*http.Response, error) {
	c.requested = append(c.requested, req.URL.String())
	if res, ok := c.responses[req.URL.String()]; ok {
		return res, nil
	}
	return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader("not found"))}, nil
}

func response(body string) *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}
}

func TestDownload(t *testing.T) {
	f := New(&stubClient{responses: map[string]*http.Response{
		defaultComposeURL:   response("services: {}"),
		defaultLavalinkURL:  response("server: {}"),
		defaultBotURL:       response(`{"token": ""}`),
		defaultDashboardURL: response(`{"port": 8080}`),
	}})

	templates, err := f.Download(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, "services: {}", string(templates.Compose))
	assert.Equal(t, "server: {}", string(templates.Lavalink))
	assert.Equal(t, `{"token": ""}`, string(templates.Bot))
	assert.Equal(t, `{"port": 8080}`, string(templates.Dashboard))
}

func TestDownload_SkipsDashboard(t *testing.T) {
	client := &stubClient{responses: map[string]*http.Response{
		defaultComposeURL:  response("services: {}"),
		defaultLavalinkURL: response("server: {}"),
		defaultBotURL:      response("{}"),
	}}
	f := New(client)

	templates, err := f.Download(context.Background(), false)
	require.NoError(t, err)

	assert.Nil(t, templates.Dashboard)
	assert.NotContains(t, client.requested, defaultDashboardURL)
}

func TestDownload_HTTPError(t *testing.T) {
	f := New(&stubClient{responses: map[string]*http.Response{}})

	_, err := f.Download(context.Background(), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
