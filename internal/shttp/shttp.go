package shttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/internal/config"
	"github.com/willie68/go_tileloader/internal/logging"
)

// SHttp runs the http server of the local tile server
type SHttp struct {
	log  *slog.Logger
	port int
	srv  *http.Server
	errs chan error
}

func Init(inj do.Injector) {
	cfg := do.MustInvoke[*config.Config](inj)
	do.ProvideValue(inj, New(cfg.Port))
}

func New(port int) *SHttp {
	return &SHttp{
		log:  logging.New("shttp"),
		port: port,
		errs: make(chan error, 1),
	}
}

// Addr the listen address
func (s *SHttp) Addr() string {
	return fmt.Sprintf(":%d", s.port)
}

// StartServers starts the server in the background, errors are reported on Err
func (s *SHttp) StartServers(router http.Handler) {
	s.srv = &http.Server{
		Addr:              s.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		s.log.Info("starting http server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("error on listen and serve", "error", err)
			s.errs <- err
		}
	}()
}

// Err delivers a failure of the running server
func (s *SHttp) Err() <-chan error {
	return s.errs
}

func (s *SHttp) ShutdownServers() {
	if s.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.log.Error("shutdown http server", "error", err)
	}
}
