package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/kardianos/osext"
	"github.com/sirupsen/logrus"
	yjcc "github.com/yjcc/events/internal"
	"github.com/yjcc/events/internal/clock"
	"github.com/yjcc/events/internal/ctxhelper"
	"github.com/yjcc/events/internal/kvstore"
	"github.com/yjcc/events/internal/log"
	"github.com/yjcc/events/internal/models"
	dispatchrepo "github.com/yjcc/events/internal/repos/dispatch/badger"
	eventrepo "github.com/yjcc/events/internal/repos/event/badger"
	feedbackrepo "github.com/yjcc/events/internal/repos/feedback/badger"
	sessionrepo "github.com/yjcc/events/internal/repos/session/inmem"
	"github.com/yjcc/events/internal/whatsapp"
	"golang.org/x/net/context"
)

const (
	appName    = "YJCC Events"
	appVersion = "0.1.0"
)

// Checks and tries to create the given directory recursively (or panics if this fails)
func checkAndCreateDir(path string, logger *logrus.Entry) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if e, ok := err.(*os.PathError); ok && e.Err == syscall.ENOENT {
			logger.WithField(log.FldPath, path).Info("Directory does not exist - trying to create...")
			if err = os.MkdirAll(path, os.ModePerm); err != nil {
				logger.WithError(err).Fatal("Failed to create directory")
			}
			logger.Info("Directory created successfully")
		} else {
			logger.WithError(err).Fatal("Stat has failed")
		}
	} else {
		if !fileInfo.IsDir() {
			logger.Fatalf("'%s' is not a directory. Remove the plain file if you want to continue", path)
		}
	}
}

func main() {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		panic(err)
	}

	configFile := flag.String(
		"config",
		filepath.Join(execDir, "config.json"),
		"The configuration file to load the application's configuration from",
	)
	flag.Parse()

	ctx := context.Background()

	// Initialize the logger
	logger := logrus.WithField(log.FldVersion, appVersion)
	logger.Infof("%s version %s is starting up...", appName, appVersion)
	ctx = context.WithValue(ctx, ctxhelper.KeyLogger, logger)

	// Load the main configuration file
	cs := yjcc.NewConfigService(*configFile)
	if err := cs.Load(ctx); err != nil {
		logger.WithError(err).Error("Cannot load config. Using defaults")
	}
	conf := cs.GetConfig(ctx)

	logger.Infof("Using '%s' as data directory", conf.DataDir)
	checkAndCreateDir(conf.DataDir, logger)

	// Open the key-value store that holds all persistent data
	store, err := kvstore.Open(conf.DataDir, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open data store")
	}

	gate, err := models.NewAdminGate(conf.AdminCode)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize administrator gate")
	}

	eventRepo := eventrepo.New(store, logger)
	feedbackRepo := feedbackrepo.New(store, logger)
	dispatchRepo := dispatchrepo.New(store, logger)
	sessionRepo := sessionrepo.New()

	clk := clock.NewSystem()
	messenger := whatsapp.New(conf.WhatsAppBaseURL, logger)

	evSrv := yjcc.NewEventService(eventRepo, feedbackRepo, dispatchRepo, clk, logger)
	fbSrv := yjcc.NewFeedbackService(feedbackRepo, eventRepo, clk, logger)
	sessServ := yjcc.NewSessionService(sessionRepo, gate, logger)

	notifier := yjcc.NewNotificationService(
		eventRepo,
		dispatchRepo,
		messenger,
		clk,
		conf.PollInterval(),
		logger,
	)
	notifier.Start()

	httpLogger := logger.WithField(log.FldTransport, "HTTP")

	h := yjcc.MakeHTTPHandler(
		evSrv,
		fbSrv,
		notifier,
		sessServ,
		httpLogger,
	)

	// Start listening
	errs := make(chan error)

	// Listen for stop signals that will end the service
	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		err := fmt.Errorf("%s", <-c)
		logger.Info("Caught signal to stop. Shutting down.")
		notifier.Stop()
		if err := store.Close(); err != nil {
			logger.WithError(err).Error("Failed to close data store cleanly")
		}
		errs <- err
	}()

	go func() {
		httpLogger.WithField("addr", conf.ListenAddress).Info("Starting listening port")
		errs <- http.ListenAndServe(conf.ListenAddress, h)
	}()

	// Watchdog for systemd
	go func() {
		interval, err := daemon.SdWatchdogEnabled(false)
		if err != nil || interval == 0 {
			return
		}
		logger.Info("Activating systemd watchdog goroutine")
		port := strings.Split(conf.ListenAddress, ":")[1]
		url := fmt.Sprintf("http://127.0.0.1:%s/alive", port)
		for {
			if _, err := http.Get(url); err == nil {
				daemon.SdNotify(false, "WATCHDOG=1")
			}
			time.Sleep(interval / 3)
		}
	}()

	// Notify systemd that we are ready to go (if available)
	daemon.SdNotify(false, "READY=1")

	logger.WithError(<-errs).Error("Shutdown complete")
}
