package main

import (
	"context"
	"expvar"
	"log"
	"net/http"
	_ "net/http/pprof" // register the /debug/pprof handlers

	"github.com/apper-canvas/learnhubdigital/apps/api/di"
	echoapi "github.com/apper-canvas/learnhubdigital/apps/api/echo"
	"github.com/apper-canvas/learnhubdigital/core"
	logsvc "github.com/apper-canvas/learnhubdigital/services/logger"
)

func main() {
	c := di.New()

	must(c.Invoke(func(
		conf *core.Config,
		logger *logsvc.RollbarLogger,
		closer *di.Closer,
		server echoapi.Server,
	) {
		defer logger.Sync()
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error("closing storage", err)
			}
		}()

		// =========================================================================
		// Initialize App

		logger.Info("Application initializing", "version", conf.Build, "env", conf.Env, "storage", conf.Storage.Backend)
		defer logger.Info("Application stopped")

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				logger.Error("debug server closed", err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Error("server error", err)

		case sig := <-server.ShutdownSignal():
			logger.Info("Start shutdown...", "signal", sig.String())

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error("could not stop server gracefully", err)

				if err = server.Close(); err != nil {
					logger.Error("could not force stop server", err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
