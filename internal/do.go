package internal

import (
	"io"

	"github.com/samber/do/v2"
	"github.com/willie68/go_tileloader/internal/config"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/prefetch"
	"github.com/willie68/go_tileloader/internal/provider"
	"github.com/willie68/go_tileloader/internal/shttp"
	"github.com/willie68/go_tileloader/internal/tilecache"
	"github.com/willie68/go_tileloader/internal/tiles"
	"github.com/willie68/go_tileloader/internal/utils/measurement"
)

// Init registers all services of the loaded config in the injector
func Init(inj do.Injector) {
	config.Init(inj)
	logging.Init(inj)
	measurement.Init(inj)
	tilecache.Init(inj)
	provider.Init(inj)
	tiles.Init(inj)
	prefetch.Init(inj)
	shttp.Init(inj)
}

// Stop closes all services with open resources
func Stop(inj do.Injector) {
	log := logging.New("internal")
	for _, c := range []io.Closer{
		do.MustInvoke[*provider.Factory](inj),
		do.MustInvoke[*tilecache.Cache](inj),
	} {
		if err := c.Close(); err != nil {
			log.Error("error on close", "error", err)
		}
	}
	logging.Close()
}
