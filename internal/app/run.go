package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/parth238/VibraVision/internal/config"
	"github.com/parth238/VibraVision/internal/diagnostic"
	"github.com/parth238/VibraVision/internal/httpapi"
	"github.com/parth238/VibraVision/internal/modules/telemetry"
	"github.com/parth238/VibraVision/internal/mqtt"
)

func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"staticDir", cfg.StaticDir,
		"assetId", cfg.AssetID,
		"aiProvider", cfg.AIProvider,
		"aiTimeout", cfg.AITimeout,
		"mqttEnabled", cfg.MQTTEnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
	)

	generator, err := diagnostic.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	// The handler must be attached before Connect: the broker may deliver
	// queued messages right after CONNACK.
	var subscriber *mqtt.Subscriber
	var linkStatus httpapi.LinkStatus
	var featureSubscriber telemetry.MQTTSubscriber
	if cfg.MQTTEnabled {
		subscriber = mqtt.NewSubscriber(cfg, logger)
		linkStatus = subscriber
		featureSubscriber = subscriber
	}

	mux := httpapi.NewMux(cfg.StaticDir, linkStatus)
	telemetry.RegisterFeature(mux, generator, cfg.AITimeout, featureSubscriber, logger)

	if subscriber != nil {
		// Short timeout so a missing broker does not block startup; paho keeps retrying.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			logger.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if subscriber != nil {
		logger.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
