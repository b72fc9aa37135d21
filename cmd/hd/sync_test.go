package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pquill/hostdesk/internal/session"
)

// writeTestConfig points a config at the given backend URL with an
// isolated data dir, optionally seeding a logged-in session.
func writeTestConfig(t *testing.T, backendURL string, loggedIn bool) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf("server:\n  url: %s\ndata_dir: %s\n", backendURL, dir)
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if loggedIn {
		store := session.NewStore(filepath.Join(dir, "session.json"))
		if err := store.Save(&session.Session{Cookie: "c0ffee", Role: "owner"}); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}
	return cfgPath
}

func TestSyncCmd_RunsBothSteps(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/sync/listings":
			fmt.Fprint(w, `{"synced": 2, "listings": ["193 VBR", "195 VBR"]}`)
		case "/api/sync/reservations":
			fmt.Fprint(w, `{"synced": 5, "messages_imported": 12, "templates_tagged": 3}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"sync", "--config", writeTestConfig(t, srv.URL, true)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if len(calls) != 2 || calls[0] != "/api/sync/listings" || calls[1] != "/api/sync/reservations" {
		t.Errorf("calls = %v, want listings then reservations", calls)
	}
	out := buf.String()
	if !strings.Contains(out, "2 synced") || !strings.Contains(out, "12 messages imported") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSyncCmd_ListingFailureAbortsReservations(t *testing.T) {
	var reservationCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sync/listings":
			http.Error(w, `{"detail": "platform down"}`, http.StatusBadGateway)
		case "/api/sync/reservations":
			reservationCalls++
		}
	}))
	defer srv.Close()

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"sync", "--config", writeTestConfig(t, srv.URL, true)})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when the listing sync fails")
	}
	if reservationCalls != 0 {
		t.Errorf("reservations synced after listings failed")
	}
}

func TestSyncCmd_RequiresLogin(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"sync", "--config", writeTestConfig(t, srv.URL, false)})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("err = %v, want a not-logged-in error", err)
	}
}

func TestStatusCmd_ReportsSessionAndBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/health":
			fmt.Fprint(w, `{"status": "ok", "hosttools_configured": true, "ntfy_configured": false}`)
		case "/api/stats":
			fmt.Fprint(w, `{"listings": 2, "reservations": 14, "total_messages": 250, "guest_messages": 90}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"status", "--config", writeTestConfig(t, srv.URL, true)})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("status failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"logged in as owner", "ok", "2 listings", "14 reservations"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestLogoutCmd_ClearsSession(t *testing.T) {
	cfgPath := writeTestConfig(t, "http://127.0.0.1:1", true)
	dataDir := filepath.Dir(cfgPath)

	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"logout", "--config", cfgPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dataDir, "session.json")); !os.IsNotExist(err) {
		t.Error("session file still present after logout")
	}
}
