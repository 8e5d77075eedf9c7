package provider

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/willie68/go_tileloader/internal/model"
)

// subDomain is used for the {s} placeholder, the servers are not load balanced
const subDomain = "a"

type xyzProvider struct {
	source model.Source
	log    *slog.Logger
	config Config
	cl     *http.Client
}

func (s *xyzProvider) Name() string {
	return s.source.Name
}

func (s *xyzProvider) Tile(ctx context.Context, tile model.Tile) (io.ReadCloser, error) {
	tileURL := s.buildURL(tile)
	s.log.Debug("requesting tile", "url", tileURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	setDefaultHeaders(req, s.config.UserAgent)
	for key, value := range s.config.Headers {
		req.Header.Set(key, value)
	}
	resp, err := s.cl.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", tileURL)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.Wrapf(ErrStatus, "status code %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// buildURL fills the placeholders of the url template
func (s *xyzProvider) buildURL(tile model.Tile) string {
	return BuildURL(s.source.URL, tile)
}

// BuildURL replaces {z}, {x}, {y}, {s} and {r} of the template
func BuildURL(template string, tile model.Tile) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(tile.Z),
		"{x}", strconv.Itoa(tile.X),
		"{y}", strconv.Itoa(tile.Y),
		"{s}", subDomain,
		"{r}", "",
	)
	return r.Replace(template)
}
