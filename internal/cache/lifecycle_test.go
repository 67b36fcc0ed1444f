package cache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestInstallPrecachesAssets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("asset:" + r.URL.Path))
	}))
	defer server.Close()

	c := openTestCache(t)
	l := NewLifecycle(c, server.Client(), 2, []string{"/", "/app.js", "/style.css"})

	if err := l.Install(context.Background(), server.URL); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	if l.Phase() != PhaseInstalled {
		t.Errorf("expected PhaseInstalled, got %v", l.Phase())
	}

	for _, asset := range []string{"/", "/app.js", "/style.css"} {
		e, err := c.Get(2, server.URL+asset)
		if err != nil {
			t.Errorf("asset %s not pre-cached: %v", asset, err)
			continue
		}
		if string(e.Body) != "asset:"+asset {
			t.Errorf("asset %s body mismatch: %s", asset, e.Body)
		}
	}
}

func TestInstallSurvivesUnreachableAsset(t *testing.T) {
	c := openTestCache(t)
	l := NewLifecycle(c, &http.Client{Transport: failingTransport{}}, 2, []string{"/app.js"})

	if err := l.Install(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("Install must not fail on fetch errors: %v", err)
	}
	if l.Phase() != PhaseInstalled {
		t.Errorf("expected PhaseInstalled, got %v", l.Phase())
	}
}

func TestActivationWaitsForSignal(t *testing.T) {
	c := openTestCache(t)
	c.Put(1, Entry{URL: "old", StatusCode: 200, Body: []byte("x"), FetchedAt: time.Now()})

	l := NewLifecycle(c, nil, 2, nil)
	l.Install(context.Background(), "")

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()

	// Not activated yet: the old generation must still be intact.
	select {
	case <-done:
		t.Fatal("lifecycle activated without a signal")
	case <-time.After(50 * time.Millisecond):
	}
	if _, err := c.Get(1, "old"); err != nil {
		t.Fatal("old generation purged before activation")
	}

	l.SkipWaiting()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("activation never completed")
	}

	if l.Phase() != PhaseActive {
		t.Errorf("expected PhaseActive, got %v", l.Phase())
	}
	if _, err := c.Get(1, "old"); err == nil {
		t.Error("old generation must be discarded on activation")
	}

	select {
	case gen := <-l.TookControl():
		if gen != 2 {
			t.Errorf("expected took-control for generation 2, got %d", gen)
		}
	default:
		t.Error("expected a took-control event")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	c := openTestCache(t)
	l := NewLifecycle(c, nil, 2, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancel")
	}
	if l.Phase() == PhaseActive {
		t.Error("cancelled lifecycle must not activate")
	}
}
