package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/samber/do/v2"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/willie68/go_tileloader/configs"
	"github.com/willie68/go_tileloader/internal"
	"github.com/willie68/go_tileloader/internal/api"
	"github.com/willie68/go_tileloader/internal/areas"
	"github.com/willie68/go_tileloader/internal/config"
	"github.com/willie68/go_tileloader/internal/logging"
	"github.com/willie68/go_tileloader/internal/model"
	"github.com/willie68/go_tileloader/internal/prefetch"
	"github.com/willie68/go_tileloader/internal/prompt"
	"github.com/willie68/go_tileloader/internal/shttp"
	"github.com/willie68/go_tileloader/internal/tiles"
	"github.com/willie68/go_tileloader/internal/utils/measurement"
	"github.com/willie68/go_tileloader/pkg/fileutils"
)

var (
	log         *slog.Logger
	configFile  string
	showVersion bool
	initConfig  bool
	areaName    string
	bboxValue   string
	zoomValue   string
	outDir      string
	assumeYes   bool
	serve       bool
	skipDelay   bool
	port        int
)

func init() {
	flag.BoolVarP(&initConfig, "init", "i", false, "init config, writes out a default config.")
	flag.BoolVarP(&showVersion, "version", "v", false, "showing the version")
	flag.StringVarP(&configFile, "config", "c", "", "this is the path and filename to the config file, if empty the default config is used")
	flag.StringVarP(&areaName, "area", "a", "", fmt.Sprintf("preset area to download, one of: %s", strings.Join(areas.Names(), ", ")))
	flag.StringVarP(&bboxValue, "bbox", "b", "", "custom area to download: minlat,maxlat,minlon,maxlon")
	flag.StringVarP(&zoomValue, "zoom", "z", "", "zoom level or range for a custom area, e.g. 2-6")
	flag.StringVarP(&outDir, "out", "o", "", "overwrite the destination directory of the tiles")
	flag.BoolVarP(&assumeYes, "yes", "y", false, "start the download without confirmation")
	flag.BoolVarP(&serve, "serve", "s", false, "serve the tile directory via http after the download")
	flag.BoolVar(&skipDelay, "skipdelayoncache", false, "no rate limit delay after tiles already on disk")
	flag.IntVarP(&port, "port", "p", 0, "overwrite the port (8580) of the tile server")
	flag.Usage = func() {
		fmt.Printf("Usage of %s:\n", os.Args[0])
		fmt.Println("more on https://github.com/willie68/go_tileloader")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("examples:")
		fmt.Println("interactive: choose a preset area or enter a custom one")
		fmt.Printf("%s\n", os.Args[0])
		fmt.Println("download the preset europe without asking")
		fmt.Printf("%s -a europe -y\n", os.Args[0])
		fmt.Println("download a custom area with zoom 2 to 8 and serve the tiles afterwards")
		fmt.Printf("%s -b 47,55,5,15 -z 2-8 -o public/tiles -s\n", os.Args[0])
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()
	if showVersion {
		fmt.Println(config.NewVersion().String())
		return 0
	}
	if initConfig {
		fmt.Println(configs.ConfigFile)
		return 0
	}
	if configFile != "" && !fileutils.FileExists(configFile) {
		fmt.Fprint(os.Stderr, "config file doesn't exist.\r\n\r\n")
		flag.Usage()
		return 1
	}
	if err := config.Load(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		return 1
	}
	config.SetParameter(
		config.WithPort(port),
		config.WithTileDir(outDir),
		config.WithSkipDelayOnCache(skipDelay),
	)

	inj := do.New()
	internal.Init(inj)
	defer internal.Stop(inj)
	log = logging.New("main")
	log.Debug("config", "config", config.JSON())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	pr := prompt.New(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
	pr.Printf("[bold][cyan]Map tile downloader, multi source version\n")
	pr.Printf("%s\n", strings.Repeat("=", 60))

	code := 0
	area, ok, err := selectArea(ctx, pr, interactive)
	switch {
	case err != nil:
		reportError(pr, err)
		code = 1
	case ok:
		code = download(ctx, inj, pr, area)
	}

	if serve && ctx.Err() == nil && code == 0 {
		return serveTiles(ctx, inj, pr)
	}
	return code
}

// selectArea takes the area from the command line or asks the user. ok is false
// if nothing should be downloaded.
func selectArea(ctx context.Context, pr *prompt.Prompter, interactive bool) (model.Area, bool, error) {
	var (
		area model.Area
		err  error
	)
	switch {
	case areaName != "":
		area, err = areas.ByName(areaName)
		if err != nil {
			return area, false, fmt.Errorf("%w: %s", err, areaName)
		}
	case bboxValue != "":
		area.BBox, err = areas.ParseBBox(bboxValue)
		if err != nil {
			return area, false, err
		}
		if zoomValue == "" {
			return area, false, fmt.Errorf("%w: --zoom is needed for a custom area", prompt.ErrInvalidInput)
		}
		area.Zoom, err = areas.ParseZoom(zoomValue)
		if err != nil {
			return area, false, err
		}
		if err := areas.Validate(area); err != nil {
			return area, false, err
		}
	case serve && !interactive:
		return area, false, nil
	default:
		area, err = pr.SelectArea(ctx)
		if err != nil {
			return area, false, err
		}
	}

	pr.Printf("\n[green]Selected area: %s\n", areas.Title(area))
	if assumeYes {
		return area, true, nil
	}
	ok, err := pr.Confirm(ctx, "Start download?")
	if err != nil {
		return area, false, err
	}
	if !ok {
		pr.Printf("[yellow]Download canceled\n")
	}
	return area, ok, nil
}

func download(ctx context.Context, inj do.Injector, pr *prompt.Prompter, area model.Area) int {
	ts := do.MustInvoke[*tiles.Service](inj)
	pf := do.MustInvoke[*prefetch.Prefetcher](inj)

	pr.Printf("\nStarting download of map tiles...\n")
	pr.Printf("Area: %s\n", area.BBox.String())
	pr.Printf("Zoom levels: %d - %d\n", area.Zoom.Min, area.Zoom.Max)
	pr.Printf("Tile sources: %d (%s)\n", len(ts.Sources()), strings.Join(ts.Sources(), ", "))
	pr.Printf("Tiles to check: %d\n", prefetch.Count(area))

	res, err := pf.Run(ctx, area)
	printSummary(pr, res, err, config.Cache().Path, do.MustInvoke[*measurement.Service](inj))
	if err != nil {
		return 1
	}
	return 0
}

func printSummary(pr *prompt.Prompter, res prefetch.Result, err error, dir string, ms *measurement.Service) {
	if errors.Is(err, context.Canceled) {
		pr.Printf("\n[red]Interrupted by user\n")
	}
	pr.Printf("\n[bold]Download finished!\n")
	pr.Printf("Total tiles: %d\n", res.Total)
	pr.Printf("[green]Downloaded: %d[reset] (already present: %d)\n", res.Downloaded, res.Cached)
	pr.Printf("[red]Failed: %d\n", res.Failed)
	pr.Printf("Saved to: %s\n", dir)
	printSourceStats(pr, ms)
}

func printSourceStats(pr *prompt.Prompter, ms *measurement.Service) {
	for _, d := range ms.Datas() {
		name, ok := strings.CutPrefix(d.Name, "fetch:")
		if !ok || d.Count == 0 {
			continue
		}
		pr.Printf("  %-24s requests: %5d  errors: %5d  avg: %5d ms\n", name, d.Count, d.Errors, d.Average)
	}
}

func serveTiles(ctx context.Context, inj do.Injector, pr *prompt.Prompter) int {
	router, err := api.APIRoutes(inj)
	if err != nil {
		log.Error("could not create api routes", "error", err)
		return 1
	}
	sh := do.MustInvoke[*shttp.SHttp](inj)
	sh.StartServers(router)
	defer sh.ShutdownServers()

	pr.Printf("\n[green]Serving tiles on http://localhost%s%s/{z}/{x}/{y}.png, stop with ctrl+c\n", sh.Addr(), api.TilesPath)
	select {
	case <-ctx.Done():
		log.Info("server finished")
		return 0
	case err := <-sh.Err():
		log.Error("server stopped", "error", err)
		return 1
	}
}

func reportError(pr *prompt.Prompter, err error) {
	switch {
	case errors.Is(err, prompt.ErrAborted):
		pr.Printf("\n[red]Aborted by user\n")
	case errors.Is(err, prompt.ErrInvalidInput), errors.Is(err, areas.ErrSyntax),
		errors.Is(err, areas.ErrInvalidZoom), errors.Is(err, areas.ErrUnknownArea):
		pr.Printf("[red]Invalid input: %v\n", err)
	default:
		pr.Printf("[red]An error occurred: %v\n", err)
	}
}
