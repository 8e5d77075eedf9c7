package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aphistic/golf"
	"github.com/pkg/errors"
)

// gelfHandler forwards slog records to a gelf server
type gelfHandler struct {
	client *golf.Client
	logger *golf.Logger
	level  slog.Level
	attrs  []slog.Attr
	group  string
}

func newGelfHandler(url string, port int, level slog.Level) (*gelfHandler, error) {
	c, err := golf.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "can't create gelf client")
	}
	if port == 0 {
		port = 12201
	}
	err = c.Dial(fmt.Sprintf("udp://%s:%d", url, port))
	if err != nil {
		c.Close()
		return nil, errors.Wrapf(err, "can't dial gelf server %s:%d", url, port)
	}
	l, err := c.NewLogger()
	if err != nil {
		c.Close()
		return nil, errors.Wrap(err, "can't create gelf logger")
	}
	host, _ := os.Hostname()
	l.SetAttr("facility", "go_tileloader")
	l.SetAttr("host", host)
	return &gelfHandler{
		client: c,
		logger: l,
		level:  level,
	}, nil
}

func (h *gelfHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *gelfHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]interface{}, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		attrs[h.key(a.Key)] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[h.key(a.Key)] = a.Value.Any()
		return true
	})
	switch {
	case r.Level >= slog.LevelError:
		h.logger.Errm(attrs, "%s", r.Message)
	case r.Level >= slog.LevelWarn:
		h.logger.Warnm(attrs, "%s", r.Message)
	case r.Level >= slog.LevelInfo:
		h.logger.Infom(attrs, "%s", r.Message)
	default:
		h.logger.Dbgm(attrs, "%s", r.Message)
	}
	return nil
}

func (h *gelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

func (h *gelfHandler) WithGroup(name string) slog.Handler {
	nh := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	nh.group = name
	return &nh
}

func (h *gelfHandler) Close() error {
	return h.client.Close()
}

func (h *gelfHandler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}

// fanout sends every record to all handlers
type fanout struct {
	handlers []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: hs}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &fanout{handlers: hs}
}
