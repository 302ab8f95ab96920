package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/librescoot/hmi-state-controller/internal/appregistry"
	"github.com/librescoot/hmi-state-controller/internal/config"
	"github.com/librescoot/hmi-state-controller/internal/controller"
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
	"github.com/librescoot/hmi-state-controller/internal/logger"
	"github.com/librescoot/hmi-state-controller/internal/metrics"
	"github.com/librescoot/hmi-state-controller/internal/transport/redisbridge"
)

var version = "dev"

// platform implements controller.Platform from a Config. AttachController
// must be called before ActiveApplication is queried: it needs the
// controller's own Registry to identify the currently foregrounded app,
// and the controller isn't constructed until after platform is.
type platform struct {
	cfg  *config.Config
	ctrl *controller.Controller
}

func (p *platform) DefaultHMILevel() hmistate.HmiLevel { return p.cfg.ParsedDefaultLevel() }
func (p *platform) IsAttenuatedSupported() bool        { return p.cfg.AttenuatedSupported }

func (p *platform) AttachController(ctrl *controller.Controller) {
	p.ctrl = ctrl
}

// ActiveApplication scans the registry for the application currently
// holding the FULL slot. At most one application can hold it at a time,
// so the first match found is returned.
func (p *platform) ActiveApplication() (*appregistry.Application, bool) {
	if p.ctrl == nil {
		return nil, false
	}
	for _, app := range p.ctrl.Registry().Iter() {
		if app.Stack.Regular().Level == hmistate.LevelFull {
			return app, true
		}
	}
	return nil, false
}

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	cfg := config.New()
	cfg.Parse()

	if *showVersion {
		fmt.Printf("hmi-state-controller %s\n", version)
		return
	}

	var stdlog *log.Logger
	if os.Getenv("INVOCATION_ID") != "" {
		stdlog = log.New(os.Stdout, "", 0)
	} else {
		stdlog = log.New(os.Stdout, "hmi-state-controller: ", log.LstdFlags|log.Lmsgprefix)
	}
	lg := logger.NewLogger(stdlog, cfg.ParsedLogLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Infof("received termination signal")
		cancel()
	}()

	plat := &platform{cfg: cfg}

	bridge := redisbridge.New(cfg.RedisAddr(), lg.WithTag("redis"))
	if err := bridge.Connect(); err != nil {
		lg.Fatalf("connecting to Redis: %v", err)
	}

	ctrl := controller.New(metrics.Wrap(bridge), plat, lg.WithTag("controller"))
	bridge.AttachController(ctrl)
	plat.AttachController(ctrl)
	bridge.StartListening()
	defer bridge.Stop()

	go serveMetrics(cfg.MetricsAddr, lg.WithTag("metrics"))

	registerDemoApplications(ctrl, lg)

	lg.Infof("hmi-state-controller %s started", version)
	<-ctx.Done()
	lg.Infof("shutting down")
}

func serveMetrics(addr string, lg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	lg.Infof("serving metrics on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		lg.Errorf("metrics server: %v", err)
	}
}

// registerDemoApplications seeds a small fixed set of sample applications
// so the service is observable without a real head unit attached. Real
// registrations arrive over the Redis bridge in production use; this is
// scaffolding for local exploration only.
func registerDemoApplications(ctrl *controller.Controller, lg *logger.Logger) {
	demoApps := []struct {
		appID uint32
		name  string
		caps  hmistate.Capabilities
	}{
		{appID: 1, name: "media-player", caps: hmistate.Capabilities{Media: true}},
		{appID: 2, name: "navigation", caps: hmistate.Capabilities{Navi: true, Projection: true}},
		{appID: 3, name: "hands-free", caps: hmistate.Capabilities{VoiceComm: true}},
	}
	for _, d := range demoApps {
		id := uuid.New()
		hmiAppID := binary.BigEndian.Uint32(id[0:4])
		app := ctrl.OnApplicationRegistered(d.appID, hmiAppID, d.name, d.caps)
		lg.Infof("registered demo application %q (app_id=%d, hmi_app_id=%d)", d.name, app.AppID, app.HMIAppID)
	}
}
