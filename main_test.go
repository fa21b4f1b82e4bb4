// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Pushkar-sharma02/e-Vote-Backend/testutil"
)

func TestServe_DrainsInFlightRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		finished.Store(true)
		w.Write([]byte("done"))
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	served := make(chan error, 1)
	go func() { served <- serve(ctx, server, ln) }()

	type result struct {
		status int
		body   string
		err    error
	}
	responses := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			responses <- result{err: err}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		responses <- result{status: resp.StatusCode, body: string(body)}
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	// Shut down while the request is still inside the handler
	cancel()

	select {
	case err := <-served:
		t.Fatalf("serve returned with a request in flight: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)

	select {
	case res := <-responses:
		if res.err != nil {
			t.Fatalf("in-flight request failed: %v", res.err)
		}
		if res.status != http.StatusOK || res.body != "done" {
			t.Errorf("Expected 200 'done', got %d '%s'", res.status, res.body)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("in-flight request never completed")
	}

	select {
	case err := <-served:
		if err != nil {
			t.Errorf("serve returned error: %v", err)
		}
		if !finished.Load() {
			t.Error("serve returned before the handler finished")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the request drained")
	}
}

func TestServe_ReturnsListenerError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ln.Close()

	err = serve(context.Background(), &http.Server{Handler: http.NotFoundHandler()}, ln)
	if err == nil {
		t.Error("Expected an error from a closed listener")
	}
}

func TestRun(t *testing.T) {
	t.Run("stops cleanly on cancel", func(t *testing.T) {
		cfg := testutil.GetTestConfig()
		cfg.Port = 0
		cfg.DatabaseURL = filepath.Join(t.TempDir(), "run.db")

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		if err := run(ctx, cfg); err != nil {
			t.Errorf("run() error = %v", err)
		}
	})

	t.Run("unsupported database", func(t *testing.T) {
		cfg := testutil.GetTestConfig()
		cfg.Port = 0
		cfg.DatabaseType = "oracle"

		if err := run(context.Background(), cfg); err == nil {
			t.Error("Expected an error for an unsupported database type")
		}
	})
}
