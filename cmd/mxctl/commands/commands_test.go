// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/config"
	"github.com/bureau-foundation/mxfacade/lib/sentinel"
	"github.com/bureau-foundation/mxfacade/transport"
)

const testToken = "syt_test_token"

// harness runs mxctl commands against an httptest homeserver.
type harness struct {
	t         *testing.T
	url       string
	dir       string
	tokenFile string
}

func newHarness(t *testing.T, handler http.Handler) *harness {
	t.Helper()
	t.Setenv(config.EnvironmentVariable, "")
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte(testToken+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, url: server.URL, dir: dir, tokenFile: tokenFile}
}

// run executes args with the harness's connection flags appended.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	root := Root(Streams{Stdout: &stdout, Stderr: &stderr})
	args = append(args, "--homeserver", h.url, "--token-file", h.tokenFile)
	err := root.Execute(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func (h *harness) write(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		h.t.Fatal(err)
	}
	return path
}

// authorized wraps handler with a bearer token check.
func authorized(t *testing.T, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer "+testToken {
			t.Errorf("%s %s: Authorization = %q", r.Method, r.URL.Path, got)
		}
		handler(w, r)
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decoding %s body: %v", r.URL.Path, err)
	}
	return body
}

func TestUnknownCommandSuggests(t *testing.T) {
	root := Root(Streams{Stdout: io.Discard, Stderr: io.Discard})
	err := root.Execute(context.Background(), []string{"romm"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "room"`) {
		t.Errorf("Execute(romm) = %v", err)
	}
}

func TestVersions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/versions", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("versions carried a token")
		}
		io.WriteString(w, `{"versions":["v1.1","v1.11","v1.9"],"unstable_features":{"org.matrix.msc3575":true,"org.matrix.msc2716":false}}`)
	})
	h := newHarness(t, mux)

	stdout, _, err := h.run("versions")
	if err != nil {
		t.Fatalf("versions: %v", err)
	}
	for _, want := range []string{"v1.1, v1.11, v1.9", "latest:   v1.11", "feature:  org.matrix.msc3575"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "msc2716") {
		t.Error("disabled feature listed")
	}

	if _, _, err := h.run("versions", "--require", ">= 1.10"); err != nil {
		t.Errorf("--require >= 1.10: %v", err)
	}

	_, stderr, err := h.run("versions", "--require", ">= 2.0")
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 {
		t.Fatalf("--require >= 2.0 error = %v, want exit code 2", err)
	}
	if !strings.Contains(stderr, "does not support") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestLoginWritesToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /_matrix/client/v3/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("login carried a token")
		}
		body := decodeBody(t, r)
		identifier, _ := body["identifier"].(map[string]any)
		if body["type"] != "m.login.password" || identifier["user"] != "@ops:example.org" ||
			body["password"] != "hunter2" || body["initial_device_display_name"] != "ci-runner" {
			t.Errorf("login body = %v", body)
		}
		io.WriteString(w, `{"user_id":"@ops:example.org","device_id":"DEVICE1","access_token":"syt_fresh"}`)
	})
	h := newHarness(t, mux)
	h.tokenFile = filepath.Join(h.dir, "state", "token")
	passwordFile := h.write("password", "hunter2\n")

	stdout, _, err := h.run("login", "--user", "@ops:example.org", "--password-file", passwordFile, "--device-name", "ci-runner")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(stdout, "logged in as @ops:example.org (device DEVICE1)") {
		t.Errorf("stdout = %q", stdout)
	}
	stored, err := os.ReadFile(h.tokenFile)
	if err != nil {
		t.Fatalf("reading token file: %v", err)
	}
	if string(stored) != "syt_fresh" {
		t.Errorf("token file = %q, want syt_fresh", stored)
	}
	info, err := os.Stat(h.tokenFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoginRequiresUser(t *testing.T) {
	h := newHarness(t, http.NotFoundHandler())
	_, _, err := h.run("login", "--password-file", h.write("password", "x"))
	if err == nil || !strings.Contains(err.Error(), "--user is required") {
		t.Errorf("login without user = %v", err)
	}
}

func TestWhoamiRequiresToken(t *testing.T) {
	h := newHarness(t, http.NotFoundHandler())
	h.tokenFile = filepath.Join(h.dir, "missing")
	_, _, err := h.run("whoami")
	if err == nil || !strings.Contains(err.Error(), "mxctl login") {
		t.Errorf("whoami without token = %v", err)
	}
}

func TestWhoamiJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/account/whoami", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"user_id":"@ops:example.org","device_id":"DEVICE1"}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("whoami", "--json")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var identity map[string]any
	if err := json.Unmarshal([]byte(stdout), &identity); err != nil {
		t.Fatalf("decoding %q: %v", stdout, err)
	}
	if identity["user_id"] != "@ops:example.org" || identity["device_id"] != "DEVICE1" {
		t.Errorf("identity = %v", identity)
	}
}

func TestMatrixErrorSurfaces(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/account/whoami", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"errcode":"M_UNKNOWN_TOKEN","error":"Invalid access token"}`)
	})
	h := newHarness(t, mux)

	_, _, err := h.run("whoami")
	if !transport.IsMatrixError(err, "M_UNKNOWN_TOKEN") {
		t.Errorf("whoami error = %v, want M_UNKNOWN_TOKEN", err)
	}
}

func TestRoomMessagesLimit(t *testing.T) {
	var limits []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/rooms/{room}/messages", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if room := r.PathValue("room"); room != "!abc:example.org" {
			t.Errorf("room = %q", room)
		}
		if dir := r.URL.Query().Get("dir"); dir != "b" {
			t.Errorf("dir = %q, want b", dir)
		}
		limit := r.URL.Query().Get("limit")
		if !r.URL.Query().Has("limit") {
			limit = "<absent>"
		}
		limits = append(limits, limit)
		io.WriteString(w, `{"start":"s1","end":"s2","chunk":[
			{"event_id":"$1","type":"m.room.message","sender":"@ana:example.org","origin_server_ts":1700000000000,"content":{"msgtype":"m.text","body":"hello"}},
			{"event_id":"$2","type":"m.room.topic","sender":"@ana:example.org","origin_server_ts":1700000001000,"content":{"topic":"ops"}}]}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("room", "messages", "!abc:example.org")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if !strings.Contains(stdout, "@ana:example.org  hello") || !strings.Contains(stdout, "[m.room.topic]") ||
		!strings.Contains(stdout, "next: s2") {
		t.Errorf("stdout = %q", stdout)
	}

	if _, _, err := h.run("room", "messages", "!abc:example.org", "--limit", "50"); err != nil {
		t.Fatalf("messages --limit 50: %v", err)
	}

	configPath := h.write("mxctl.yaml", "homeserver:\n  url: https://unused.example.org\ndefaults:\n  message_limit: 20\n")
	if _, _, err := h.run("room", "messages", "!abc:example.org", "--config", configPath); err != nil {
		t.Fatalf("messages with configured default: %v", err)
	}

	_, _, err = h.run("room", "messages", "!abc:example.org", "--limit", "5000")
	var rangeErr *sentinel.RangeError
	if !errors.As(err, &rangeErr) {
		t.Errorf("--limit 5000 error = %v, want *sentinel.RangeError", err)
	}

	want := []string{"<absent>", "50", "20"}
	if strings.Join(limits, ",") != strings.Join(want, ",") {
		t.Errorf("limits sent = %v, want %v", limits, want)
	}
}

func TestRoomJoinRule(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/rooms/{room}/state/m.room.join_rules/", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"join_rule":"knock"}`)
	}))
	mux.HandleFunc("PUT /_matrix/client/v3/rooms/{room}/state/m.room.join_rules/", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if body := decodeBody(t, r); body["join_rule"] != "invite" {
			t.Errorf("body = %v", body)
		}
		io.WriteString(w, `{"event_id":"$rule"}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("room", "join-rule", "!abc:example.org")
	if err != nil || strings.TrimSpace(stdout) != "knock" {
		t.Errorf("join-rule get = %q, %v", stdout, err)
	}

	stdout, _, err = h.run("room", "join-rule", "!abc:example.org", "invite")
	if err != nil || !strings.Contains(stdout, "join rule set to invite ($rule)") {
		t.Errorf("join-rule set = %q, %v", stdout, err)
	}

	if _, _, err := h.run("room", "join-rule", "!abc:example.org", "bogus"); err == nil {
		t.Error("join-rule accepted an unknown rule")
	}
}

func TestRoomCreateAndJoin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /_matrix/client/v3/createRoom", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["name"] != "Ops" || body["preset"] != "private_chat" || body["room_alias_name"] != "ops" {
			t.Errorf("createRoom body = %v", body)
		}
		if invite, _ := body["invite"].([]any); len(invite) != 1 || invite[0] != "@ana:example.org" {
			t.Errorf("invite = %v", body["invite"])
		}
		io.WriteString(w, `{"room_id":"!new:example.org"}`)
	}))
	mux.HandleFunc("POST /_matrix/client/v3/join/{target}", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if target := r.PathValue("target"); target != "#ops:example.org" {
			t.Errorf("join target = %q", target)
		}
		if via := r.URL.Query()["via"]; len(via) != 1 || via[0] != "example.org" {
			t.Errorf("via = %v", via)
		}
		io.WriteString(w, `{"room_id":"!new:example.org"}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("room", "create", "--name", "Ops", "--alias", "ops", "--preset", "private_chat", "--invite", "@ana:example.org")
	if err != nil || strings.TrimSpace(stdout) != "!new:example.org" {
		t.Errorf("room create = %q, %v", stdout, err)
	}
	if _, _, err := h.run("room", "create", "--preset", "secret_chat"); err == nil {
		t.Error("room create accepted an unknown preset")
	}

	stdout, _, err = h.run("room", "join", "#ops:example.org", "--via", "example.org")
	if err != nil || !strings.Contains(stdout, "joined !new:example.org") {
		t.Errorf("room join = %q, %v", stdout, err)
	}
}

func TestRoomMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/rooms/{room}/members", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("membership"); got != "join" {
			t.Errorf("membership filter = %q", got)
		}
		io.WriteString(w, `{"chunk":[
			{"type":"m.room.member","state_key":"@ana:example.org","content":{"membership":"join","displayname":"Ana"}},
			{"type":"m.room.member","state_key":"@bo:example.org","content":{"membership":"join"}}]}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("room", "members", "!abc:example.org", "--membership", "join")
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if !strings.Contains(stdout, "@ana:example.org") || !strings.Contains(stdout, "Ana") || !strings.Contains(stdout, "@bo:example.org") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestSendThreadNotice(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /_matrix/client/v3/rooms/{room}/send/m.room.message/{txn}", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.PathValue("txn"), "mxfacade-") {
			t.Errorf("transaction ID = %q", r.PathValue("txn"))
		}
		body := decodeBody(t, r)
		relates, _ := body["m.relates_to"].(map[string]any)
		if body["msgtype"] != "m.notice" || body["body"] != "deploy finished" ||
			relates["rel_type"] != "m.thread" || relates["event_id"] != "$root" {
			t.Errorf("send body = %v", body)
		}
		io.WriteString(w, `{"event_id":"$sent"}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("send", "!abc:example.org", "deploy", "finished", "--thread", "$root", "--msgtype", "m.notice")
	if err != nil || strings.TrimSpace(stdout) != "$sent" {
		t.Errorf("send = %q, %v", stdout, err)
	}
}

func TestPublicRoomsLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/publicRooms", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("limit = %q, want 10", got)
		}
		io.WriteString(w, `{"chunk":[{"room_id":"!pub:example.org","canonical_alias":"#lobby:example.org","num_joined_members":42,"world_readable":true,"guest_can_join":false}],"next_batch":"p2"}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("public-rooms", "--limit", "10")
	if err != nil {
		t.Fatalf("public-rooms: %v", err)
	}
	if !strings.Contains(stdout, "#lobby:example.org") || !strings.Contains(stdout, "42 members") || !strings.Contains(stdout, "next: p2") {
		t.Errorf("stdout = %q", stdout)
	}

	var rangeErr *sentinel.RangeError
	if _, _, err := h.run("public-rooms", "--limit", "501"); !errors.As(err, &rangeErr) {
		t.Errorf("--limit 501 error = %v", err)
	}
}

func TestPresenceSetAsksWhoAmI(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/account/whoami", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"user_id":"@ops:example.org"}`)
	}))
	mux.HandleFunc("PUT /_matrix/client/v3/presence/{user}/status", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if user := r.PathValue("user"); user != "@ops:example.org" {
			t.Errorf("presence user = %q", user)
		}
		if body := decodeBody(t, r); body["presence"] != "unavailable" || body["status_msg"] != "lunch" {
			t.Errorf("presence body = %v", body)
		}
		io.WriteString(w, `{}`)
	}))
	mux.HandleFunc("GET /_matrix/client/v3/presence/{user}/status", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"presence":"online","status_msg":"here","last_active_ago":65000}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("presence", "set", "unavailable", "--status", "lunch")
	if err != nil || !strings.Contains(stdout, "presence set to unavailable") {
		t.Errorf("presence set = %q, %v", stdout, err)
	}

	stdout, _, err = h.run("presence", "get", "@ana:example.org")
	if err != nil || !strings.Contains(stdout, "@ana:example.org: online (here), active 1m5s ago") {
		t.Errorf("presence get = %q, %v", stdout, err)
	}

	if _, _, err := h.run("presence", "set", "busy"); err == nil {
		t.Error("presence set accepted an unknown state")
	}
}

func TestPushRules(t *testing.T) {
	var toggled atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/pushrules/", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"global":{
			"underride":[{"rule_id":".m.rule.message","default":true,"enabled":true}],
			"override":[{"rule_id":".m.rule.master","default":true,"enabled":false}]}}`)
	}))
	mux.HandleFunc("PUT /_matrix/client/v3/pushrules/global/{kind}/{rule}/enabled", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		toggled.Store(r.PathValue("kind") + "/" + r.PathValue("rule") + "=" + strings.ToLower(strings.TrimSpace(jsonString(body["enabled"]))))
		io.WriteString(w, `{}`)
	}))
	h := newHarness(t, mux)

	stdout, _, err := h.run("push-rules", "list")
	if err != nil {
		t.Fatalf("push-rules list: %v", err)
	}
	master := strings.Index(stdout, ".m.rule.master")
	message := strings.Index(stdout, ".m.rule.message")
	if master < 0 || message < 0 || master > message {
		t.Errorf("rules out of evaluation order:\n%s", stdout)
	}

	if _, _, err := h.run("push-rules", "enable", "override", ".m.rule.master"); err != nil {
		t.Fatalf("push-rules enable: %v", err)
	}
	if got := toggled.Load(); got != "override/.m.rule.master=true" {
		t.Errorf("toggled = %v", got)
	}
	if _, _, err := h.run("push-rules", "disable", "sideways", "rule"); err == nil {
		t.Error("push-rules accepted an unknown kind")
	}
}

func jsonString(value any) string {
	data, _ := json.Marshal(value)
	return string(data)
}

func TestUploadAndSend(t *testing.T) {
	content := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 4096)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /_matrix/media/v3/upload", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "image/png" {
			t.Errorf("Content-Type = %q", got)
		}
		received, _ := io.ReadAll(r.Body)
		if !bytes.Equal(received, content) {
			t.Errorf("uploaded %d bytes, want %d", len(received), len(content))
		}
		io.WriteString(w, `{"content_uri":"mxc://example.org/cat"}`)
	}))
	mux.HandleFunc("PUT /_matrix/client/v3/rooms/{room}/send/m.room.message/{txn}", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["msgtype"] != "m.image" || body["url"] != "mxc://example.org/cat" || body["body"] != "cat.png" {
			t.Errorf("send body = %v", body)
		}
		io.WriteString(w, `{"event_id":"$img"}`)
	}))
	h := newHarness(t, mux)
	path := filepath.Join(h.dir, "cat.png")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := h.run("upload", path, "--send", "!abc:example.org", "--json")
	if err != nil {
		t.Fatalf("upload: %v (stderr %s)", err, stderr)
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("decoding %q: %v", stdout, err)
	}
	if result["content_uri"] != "mxc://example.org/cat" || result["event_id"] != "$img" || result["size"] != float64(len(content)) {
		t.Errorf("result = %v", result)
	}
}

func TestTranscriptShow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /_matrix/client/v3/account/whoami", authorized(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"user_id":"@ops:example.org"}`)
	}))
	mux.HandleFunc("GET /_matrix/client/v3/joined_rooms", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"errcode":"M_FORBIDDEN","error":"no"}`)
	})
	h := newHarness(t, mux)
	transcript := filepath.Join(h.dir, "calls", "transcript.zst")

	if _, _, err := h.run("whoami", "--transcript", transcript); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if _, _, err := h.run("room", "list", "--transcript", transcript); err == nil {
		t.Fatal("room list should fail")
	}

	stdout, _, err := h.run("transcript", "show", transcript)
	if err != nil {
		t.Fatalf("transcript show: %v", err)
	}
	if !strings.Contains(stdout, "account.whoami") || !strings.Contains(stdout, "failure M_FORBIDDEN") {
		t.Errorf("transcript table:\n%s", stdout)
	}

	stdout, _, err = h.run("transcript", "show", transcript, "--failures", "--json")
	if err != nil {
		t.Fatalf("transcript show --json: %v", err)
	}
	var records []transport.Record
	if err := json.Unmarshal([]byte(stdout), &records); err != nil {
		t.Fatalf("decoding %q: %v", stdout, err)
	}
	if len(records) != 1 || records[0].Descriptor != "rooms.joined" || records[0].ErrorCode != "M_FORBIDDEN" {
		t.Errorf("failure records = %+v", records)
	}
}
