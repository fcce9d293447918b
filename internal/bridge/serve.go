package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const maxLineSize = 1 << 20

// Options configures Serve.
type Options struct {
	// AutoTick advances the clock once per TickInterval between requests.
	AutoTick     bool
	TickInterval time.Duration
}

// Serve reads requests from r until EOF or context cancellation and writes
// one response line per non-blank request to w. Requests and auto-ticks are
// handled on the calling goroutine only.
//
// On cancellation Serve returns without waiting for its reader goroutine,
// which stays blocked in r.Read until r returns. Callers that outlive Serve
// should close r to release it.
func (b *Bridge) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			readErr <- err
			close(lines)
		}()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := bytes.Clone(scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		err = scanner.Err()
	}()

	var ticks <-chan time.Time
	if b.opts.AutoTick {
		interval := b.opts.TickInterval
		if interval <= 0 {
			interval = time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	enc := json.NewEncoder(w)
	b.logger.Info().Bool("auto_tick", b.opts.AutoTick).Msg("bridge serving")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("bridge stopped")
			return nil
		case <-ticks:
			if ev, ok := b.engine.Tick(); ok {
				b.logger.Debug().Str("event", string(ev.Type)).Msg("auto tick completed phase")
			}
		case line, ok := <-lines:
			if !ok {
				b.logger.Info().Msg("bridge input closed")
				if err := <-readErr; err != nil {
					return fmt.Errorf("read requests: %w", err)
				}
				return nil
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			if err := enc.Encode(b.Handle(line)); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}
