package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/parth238/VibraVision/internal/config"
)

var errStopped = errors.New("mqtt client stopped")

// link tracks connection state for a paho client and owns its stop signal.
type link struct {
	client    mqtt.Client
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newLink(logger *slog.Logger) *link {
	if logger == nil {
		logger = slog.Default()
	}
	return &link{logger: logger, stopCh: make(chan struct{})}
}

// options builds paho options; onConnect runs after every (re)connect.
func (l *link) options(cfg config.Config, clientID string, onConnect func(mqtt.Client)) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(clientID)

	// Session settings
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	// Keepalive / timeouts
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		l.setConnected(true)
		l.logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort, "client_id", clientID)
		if onConnect != nil {
			onConnect(c)
		}
	})

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		l.setConnected(false)
		l.logger.Warn("mqtt connection lost", "error", err)
	})

	return opts
}

// connect starts a connection attempt and waits for it while honoring ctx
// and disconnect. With ConnectRetry enabled paho keeps retrying in the
// background, so a ctx timeout leaves the client trying to reach the broker.
func (l *link) connect(ctx context.Context) error {
	select {
	case <-l.stopCh:
		return errStopped
	default:
	}

	if l.IsConnected() {
		return nil
	}

	if err := waitToken(ctx, l.client.Connect(), l.stopCh); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// IsConnected returns whether the client is connected.
func (l *link) IsConnected() bool {
	l.mu.RLock()
	connected := l.connected
	l.mu.RUnlock()
	return connected && l.client != nil && l.client.IsConnected()
}

// Status reports the link state for health checks.
func (l *link) Status() string {
	if l.IsConnected() {
		return "connected"
	}
	return "disconnected"
}

// disconnect is idempotent; after it, connect returns errStopped.
func (l *link) disconnect() {
	l.stopOnce.Do(func() { close(l.stopCh) })

	// Paho Disconnect quiesces in-flight work for the given ms.
	if l.client != nil {
		l.client.Disconnect(250)
	}
	l.setConnected(false)
}

func (l *link) setConnected(v bool) {
	l.mu.Lock()
	l.connected = v
	l.mu.Unlock()
}

// waitToken blocks until tok completes, ctx ends or stop is closed.
func waitToken(ctx context.Context, tok mqtt.Token, stop <-chan struct{}) error {
	const poll = 200 * time.Millisecond
	for {
		if tok.WaitTimeout(poll) {
			return tok.Error()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return errStopped
		default:
		}
	}
}
