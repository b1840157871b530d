package command

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestSystemCommand(t *testing.T) {
	cmd := SystemCommand()
	names := make(map[string]bool)
	for _, sub := range cmd.Subcommands {
		names[sub.Name] = true
		if sub.Action == nil {
			t.Errorf("%s has no action", sub.Name)
		}
	}
	for _, want := range []string{"health", "ready", "version"} {
		if !names[want] {
			t.Errorf("missing subcommand %s", want)
		}
	}
}

func TestSystemHealth(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		okResponse(w, map[string]string{"status": "healthy", "time": "2026-10-17T00:00:00Z"})
	})

	out, _, err := runApp(t, "-s", srv.URL, "system", "health")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Server is healthy") || !strings.Contains(out, srv.URL) {
		t.Errorf("output = %q", out)
	}

	out, _, err = runApp(t, "-s", srv.URL, "-o", "json", "sys", "health")
	if err != nil {
		t.Fatal(err)
	}
	var v healthView
	if err := json.Unmarshal([]byte(out), &v); err != nil || v.Status != "healthy" {
		t.Errorf("json output = %q (%v)", out, err)
	}
}

func TestSystemHealth_Unreachable(t *testing.T) {
	_, errOut, err := runApp(t, "-s", "127.0.0.1:1", "--timeout", "1s", "system", "health")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(errOut, "health check failed") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestSystemReady(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		srv := newMockServer(t)
		srv.handle("GET /ready", func(w http.ResponseWriter, _ *http.Request) {
			okResponse(w, healthView{Status: "ready", Checks: map[string]string{"cache": "ok", "source": "ok"}})
		})

		out, _, err := runApp(t, "-s", srv.URL, "system", "ready")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "✓ Server is ready") || !strings.Contains(out, "cache") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("not ready", func(t *testing.T) {
		srv := newMockServer(t)
		srv.handle("GET /ready", func(w http.ResponseWriter, _ *http.Request) {
			errorResponse(w, http.StatusServiceUnavailable, "RT-UPST-5030", "service not ready",
				healthView{Status: "not_ready", Checks: map[string]string{"cache": "dial tcp: connection refused"}})
		})

		out, _, err := runApp(t, "-s", srv.URL, "system", "ready")
		if err == nil {
			t.Error("expected non-zero exit")
		}
		if !strings.Contains(out, "✗ Server is not_ready") || !strings.Contains(out, "connection refused") {
			t.Errorf("output = %q", out)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := newMockServer(t)
		srv.handle("GET /ready", func(w http.ResponseWriter, _ *http.Request) {
			errorResponse(w, http.StatusInternalServerError, "RT-SYS-5000", "internal server error", nil)
		})
		if _, _, err := runApp(t, "-s", srv.URL, "system", "ready"); err == nil || !strings.Contains(err.Error(), "RT-SYS-5000") {
			t.Errorf("err = %v", err)
		}
	})
}

func TestSystemVersion(t *testing.T) {
	srv := newMockServer(t)
	srv.handle("GET /version", func(w http.ResponseWriter, _ *http.Request) {
		okResponse(w, versionView{Version: "1.4.0", Commit: "abc123", GoVersion: "go1.24.4"})
	})

	out, _, err := runApp(t, "-s", srv.URL, "system", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1.4.0") || !strings.Contains(out, "abc123") {
		t.Errorf("output = %q", out)
	}
}
