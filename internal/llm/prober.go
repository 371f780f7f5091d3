package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Prober tracks readiness of the model backend. Model weights can take a
// while to load after the backend process starts, so the prober polls the
// backend's health endpoint in the background until it responds, then marks
// the backend loaded. The chat service consults it before every generation
// so requests fall back fast instead of waiting on a cold backend.
type Prober struct {
	client   *Client
	interval time.Duration

	mu      sync.RWMutex
	ready   bool
	probing bool
}

// NewProber creates a Prober polling at the given interval.
func NewProber(client *Client, interval time.Duration) *Prober {
	return &Prober{
		client:   client,
		interval: interval,
	}
}

// Start launches the background probe loop. It returns immediately; the
// loop exits once the backend reports healthy or ctx is cancelled.
func (p *Prober) Start(ctx context.Context) {
	p.mu.Lock()
	if p.probing || p.ready {
		p.mu.Unlock()
		return
	}
	p.probing = true
	p.mu.Unlock()

	go p.loop(ctx)
}

// Ready reports whether the model backend has come up.
func (p *Prober) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

// Loading reports whether the probe loop is still waiting on the backend.
func (p *Prober) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.probing
}

func (p *Prober) loop(ctx context.Context) {
	logger := slog.Default()

	defer func() {
		p.mu.Lock()
		p.probing = false
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.check(ctx); err == nil {
			p.mu.Lock()
			p.ready = true
			p.mu.Unlock()
			logger.Info("model backend ready", "base_url", p.client.BaseURL)
			return
		} else {
			logger.Debug("model backend not ready", "base_url", p.client.BaseURL, "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Warn("model backend probe cancelled", "error", ctx.Err())
			return
		case <-ticker.C:
		}
	}
}

// check issues one health request against the backend.
func (p *Prober) check(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	url := fmt.Sprintf("%s/health", p.client.BaseURL)
	req, err := http.NewRequestWithContext(checkCtx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status %d", resp.StatusCode)
	}

	return nil
}
