package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/samber/do/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config logging configuration
type Config struct {
	Level    string `yaml:"level" env:"LEVEL"`
	Filename string `yaml:"filename" env:"FILENAME"`
	MaxSize  int    `yaml:"maxsize" env:"MAXSIZE"` // in megabytes
	Backups  int    `yaml:"backups" env:"BACKUPS"`
	Gelfurl  string `yaml:"gelf-url" env:"GELF_URL"`
	Gelfport int    `yaml:"gelf-port" env:"GELF_PORT"`
}

var (
	root    *slog.Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	rlock   sync.RWMutex
	closers []io.Closer
)

// Init initialise the root logger with the config found in the injector
func Init(inj do.Injector) {
	cfg := do.MustInvoke[*Config](inj)
	Configure(*cfg)
}

// Configure builds the root logger from the config. Output goes to stdout,
// optional to a rotating log file and to a gelf server.
func Configure(cfg Config) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var out io.Writer = os.Stdout
	cls := make([]io.Closer, 0)
	if cfg.Filename != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.Backups,
			Compress:   true,
		}
		cls = append(cls, lj)
		out = io.MultiWriter(os.Stdout, lj)
	}

	handlers := []slog.Handler{slog.NewTextHandler(out, opts)}
	if cfg.Gelfurl != "" {
		gh, err := newGelfHandler(cfg.Gelfurl, cfg.Gelfport, opts.Level.Level())
		if err != nil {
			slog.New(handlers[0]).Error("can't connect to gelf server", "url", cfg.Gelfurl, "error", err)
		} else {
			cls = append(cls, gh)
			handlers = append(handlers, gh)
		}
	}

	var h slog.Handler = handlers[0]
	if len(handlers) > 1 {
		h = &fanout{handlers: handlers}
	}

	rlock.Lock()
	defer rlock.Unlock()
	closeAll()
	closers = cls
	root = slog.New(h)
}

// New returns a named logger derived from the root logger
func New(name string) *slog.Logger {
	rlock.RLock()
	defer rlock.RUnlock()
	return root.With("logger", name)
}

// Close releases log files and gelf connections
func Close() {
	rlock.Lock()
	defer rlock.Unlock()
	closeAll()
}

func closeAll() {
	for _, c := range closers {
		_ = c.Close()
	}
	closers = nil
}

// ParseLevel converts a level name into a slog level, unknown names are info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
