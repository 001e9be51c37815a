package store

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"robux-monitor/internal/types"

	"github.com/go-resty/resty/v2"
)

const githubAPIBase = "https://api.github.com"

// GistStore keeps the snapshot in one file of a private GitHub gist.
// The key is the filename inside the gist.
type GistStore struct {
	http   *resty.Client
	gistID string
	logger types.Logger
}

// NewGistStore builds a gist-backed store authenticated with a
// personal access token.
func NewGistStore(gistID, token string, logger types.Logger) *GistStore {
	c := resty.New()
	c.SetBaseURL(githubAPIBase)
	c.SetTimeout(10 * time.Second)
	c.SetHeader("Authorization", "token "+token)
	c.SetHeader("Accept", "application/vnd.github.v3+json")
	c.SetHeader("X-GitHub-Api-Version", "2022-11-28")

	return &GistStore{http: c, gistID: gistID, logger: logger}
}

// SetBaseURL points the store at a different API host. Used by tests.
func (g *GistStore) SetBaseURL(u string) {
	g.http.SetBaseURL(u)
}

type gistFile struct {
	Content string `json:"content"`
}

type gistPatch struct {
	Files map[string]gistFile `json:"files"`
}

// Read fetches the gist and returns the named file's content. A
// missing gist or file is ErrNotFound, anything else a store error.
func (g *GistStore) Read(ctx context.Context, key string) ([]byte, error) {
	var out struct {
		Files map[string]gistFile `json:"files"`
	}
	res, err := g.http.R().SetContext(ctx).SetResult(&out).Get("/gists/" + g.gistID)
	if err != nil {
		return nil, fmt.Errorf("failed to read gist: %w", err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("gist read returned status %d", res.StatusCode())
	}

	f, ok := out.Files[key]
	if !ok {
		return nil, ErrNotFound
	}
	g.logger.Debugf("read %d bytes from gist file %s", len(f.Content), key)
	return []byte(f.Content), nil
}

// Write replaces the named file's content via the gist PATCH API.
func (g *GistStore) Write(ctx context.Context, key string, data []byte) error {
	patch := gistPatch{Files: map[string]gistFile{key: {Content: string(data)}}}
	res, err := g.http.R().SetContext(ctx).SetBody(patch).Patch("/gists/" + g.gistID)
	if err != nil {
		return fmt.Errorf("failed to update gist: %w", err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("gist update returned status %d", res.StatusCode())
	}
	g.logger.Debugf("wrote %d bytes to gist file %s", len(data), key)
	return nil
}

// Close is a no-op; the gist API is stateless per request.
func (g *GistStore) Close() error { return nil }
