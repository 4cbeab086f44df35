package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// source is the raw content behind a model reference
type source struct {
	ref  string
	name string // file name used for extension based detection
	path string // local path, empty for remote sources
	data []byte
}

func isRemote(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func (r *Registry) fetch(ctx context.Context, ref string) (*source, error) {
	if ref == "" {
		return nil, fmt.Errorf("empty model reference")
	}
	if isRemote(ref) {
		return r.fetchURL(ctx, ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return &source{ref: ref, name: filepath.Base(ref), path: ref, data: data}, nil
}

func (r *Registry) fetchURL(ctx context.Context, ref string) (*source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid model url: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch model: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model body: %w", err)
	}

	u, _ := url.Parse(ref)
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		name = strings.TrimSuffix(u.Host, "/")
	}
	return &source{ref: ref, name: name, data: data}, nil
}
