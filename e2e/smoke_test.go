//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/parth238/VibraVision/internal/config"
	"github.com/parth238/VibraVision/internal/mqtt"
	shared "github.com/parth238/VibraVision/shared/types"
)

const repoRootRel = ".."   // relative to ./e2e
const mainPkgRel = "./cmd" // main.go lives in cmd/

const fakeReport = "Intensity exceeds the looseness threshold. Mounting bolts are vibrating. The structure is at risk. Torque all base bolts now."

type record struct {
	Frequency float64 `json:"frequency"`
	Intensity float64 `json:"intensity"`
	Status    string  `json:"status"`
	AIReport  string  `json:"aiReport"`
}

func TestSmoke_IngestAndRead(t *testing.T) {
	repoRoot := repoRootPath(t)
	model := startFakeModel(t)
	brokerHost, brokerPort := startMosquitto(t)

	bin := buildBinary(t, repoRoot)
	addr := pickFreeAddr(t)

	cmd := exec.Command(bin, "serve")
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(),
		"APP_ENV=dev",
		"LOG_LEVEL=info",
		"HTTP_ADDR="+addr,
		"AI_PROVIDER=anthropic",
		"ANTHROPIC_API_KEY=sk-e2e",
		"AI_BASE_URL="+model.URL,
		"MQTT_ENABLED=true",
		"MQTT_BROKER="+brokerHost,
		"MQTT_PORT="+brokerPort,
		"MQTT_TOPIC=gentwin/e2e",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})

	client := &http.Client{Timeout: 5 * time.Second}
	base := "http://" + addr

	waitForOK(t, client, base+"/healthz", 10*time.Second)

	var health map[string]string
	getJSON(t, client, base+"/healthz", &health)
	if health["status"] != "ok" {
		t.Fatalf("healthz.status=%q want=%q", health["status"], "ok")
	}

	var initial record
	getJSON(t, client, base+"/api/telemetry", &initial)
	if initial.Status != "WAITING FOR SENSOR" {
		t.Fatalf("initial status=%q", initial.Status)
	}

	resp, err := client.Post(base+"/api/telemetry", "application/json", bytes.NewBufferString(`{"frequency": 12.5, "intensity": 0.2}`))
	if err != nil {
		t.Fatalf("POST /api/telemetry: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status=%d body=%s", resp.StatusCode, b)
	}

	var latest record
	getJSON(t, client, base+"/api/telemetry", &latest)
	want := record{Frequency: 12.5, Intensity: 0.2, Status: "CRITICAL", AIReport: fakeReport}
	if latest != want {
		t.Fatalf("latest=%+v want=%+v", latest, want)
	}

	// The subscription lands in the connect callback, so republish until it is seen.
	deadline := time.Now().Add(15 * time.Second)
	for i := 0; ; i++ {
		if i%5 == 0 {
			publishReading(t, brokerHost, brokerPort, 4.25, 0.05)
		}
		getJSON(t, client, base+"/api/telemetry", &latest)
		if latest.Frequency == 4.25 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("mqtt reading not ingested; latest=%+v", latest)
		}
		time.Sleep(200 * time.Millisecond)
	}
	if latest.Status != "HEALTHY" {
		t.Fatalf("mqtt status=%q want=%q", latest.Status, "HEALTHY")
	}

	stopServer(t, cmd)
}

// startFakeModel serves a fixed Messages API response.
func startFakeModel(t *testing.T) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_e2e",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-e2e",
			"content":     []map[string]string{{"type": "text", "text": fakeReport}},
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 1, "output_tokens": 1},
		})
	}))
	t.Cleanup(ts.Close)
	return ts
}

func startMosquitto(t *testing.T) (string, string) {
	t.Helper()

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2",
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp").WithStartupTimeout(30 * time.Second),
	}

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start mosquitto container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(ctx)
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, nat.Port("1883/tcp"))
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return host, port.Port()
}

func publishReading(t *testing.T, host, port string, frequency, intensity float64) {
	t.Helper()

	var portNum int
	if _, err := fmt.Sscanf(port, "%d", &portNum); err != nil {
		t.Fatalf("parse port %q: %v", port, err)
	}
	pub := mqtt.NewPublisher(config.Config{
		MQTTBroker:   host,
		MQTTPort:     portNum,
		MQTTClientID: "e2e",
		MQTTTopic:    "gentwin/e2e",
	}, nil)
	defer pub.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pub.Connect(ctx); err != nil {
		t.Fatalf("publisher connect: %v", err)
	}
	if err := pub.PublishTelemetry(ctx, shared.NewVibrationTelemetry("e2e-sensor", frequency, intensity)); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func getJSON(t *testing.T, client *http.Client, url string, out any) {
	t.Helper()

	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status=%d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
}

func repoRootPath(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	repo := filepath.Clean(filepath.Join(wd, repoRootRel))
	if _, err := os.Stat(filepath.Join(repo, "go.mod")); err != nil {
		t.Fatalf("repo root %q does not contain go.mod: %v", repo, err)
	}

	return repo
}

func buildBinary(t *testing.T, repoRoot string) string {
	t.Helper()

	out := filepath.Join(t.TempDir(), "vibravision")

	build := exec.Command("go", "build", "-o", out, mainPkgRel)
	build.Dir = repoRoot
	build.Env = os.Environ()

	b, err := build.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(b))
	}

	return out
}

func pickFreeAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen :0: %v", err)
	}
	defer ln.Close()

	return ln.Addr().String()
}

func waitForOK(t *testing.T, client *http.Client, url string, timeout time.Duration) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server not healthy after %s: %s", timeout, url)
}

func stopServer(t *testing.T, cmd *exec.Cmd) {
	t.Helper()

	_ = cmd.Process.Signal(syscall.SIGTERM)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		t.Fatalf("server did not exit in time")
	case err := <-done:
		if err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				t.Fatalf("server exited non-zero: %v", err)
			}
			t.Fatalf("server wait error: %v", err)
		}
	}
}
