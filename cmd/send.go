package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/parth238/VibraVision/internal/logging"
	"github.com/parth238/VibraVision/internal/mqtt"
	shared "github.com/parth238/VibraVision/shared/types"
)

func newSendCmd() *cobra.Command {
	var (
		frequency float64
		intensity float64
		baseURL   string
		sensorID  string
		viaMQTT   bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one vibration reading as an edge sensor would",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			telemetry := shared.NewVibrationTelemetry(sensorID, frequency, intensity)
			if viaMQTT {
				return sendMQTT(ctx, telemetry)
			}
			return sendHTTP(ctx, cmd.OutOrStdout(), baseURL, telemetry)
		},
	}

	cmd.Flags().Float64Var(&frequency, "frequency", 0, "sway frequency in Hz")
	cmd.Flags().Float64Var(&intensity, "intensity", 0, "displacement intensity in AU")
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:3000", "relay base URL")
	cmd.Flags().StringVar(&sensorID, "sensor-id", "edge-sim", "sensor id sent over MQTT")
	cmd.Flags().BoolVar(&viaMQTT, "mqtt", false, "publish to the MQTT topic instead of POSTing")
	_ = cmd.MarkFlagRequired("frequency")
	_ = cmd.MarkFlagRequired("intensity")
	cmd.MarkFlagsMutuallyExclusive("url", "mqtt")
	return cmd
}

// sendHTTP posts the reading and prints the relay's response.
func sendHTTP(ctx context.Context, out io.Writer, baseURL string, t shared.VibrationTelemetry) error {
	body, err := json.Marshal(map[string]float64{
		"frequency": *t.Frequency,
		"intensity": *t.Intensity,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + "/api/telemetry"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("post telemetry: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	fmt.Fprintf(out, "%d %s\n", resp.StatusCode, bytes.TrimSpace(respBody))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay returned %s", resp.Status)
	}
	return nil
}

func sendMQTT(ctx context.Context, t shared.VibrationTelemetry) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg, version, appName)

	pub := mqtt.NewPublisher(cfg, logger)
	defer pub.Disconnect()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pub.Connect(connectCtx); err != nil {
		return err
	}
	return pub.PublishTelemetry(ctx, t)
}
