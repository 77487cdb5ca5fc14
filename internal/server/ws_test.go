package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handplay/internal/detector"
	"github.com/ayusman/handplay/internal/game"
	"github.com/ayusman/handplay/testdata"
)

func wsURL(ts *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + path
}

// readUntil reads events until one of kind arrives.
func readUntil(t *testing.T, conn *websocket.Conn, kind game.EventKind) (game.Event, []game.Event) {
	t.Helper()
	var seen []game.Event
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var ev game.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("waiting for %s: %v (seen %+v)", kind, err, seen)
		}
		seen = append(seen, ev)
		if ev.Kind == kind {
			return ev, seen
		}
	}
}

func sendFixture(t *testing.T, conn *websocket.Conn, name string) {
	t.Helper()
	frame, err := testdata.LoadFrame(name)
	if err != nil {
		t.Fatalf("LoadFrame(%s) error = %v", name, err)
	}
	data, err := detector.EncodeFrame(frame)
	if err != nil {
		t.Fatalf("EncodeFrame() error = %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write frame: %v", err)
	}
}

func TestPlay_Counting(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	id := createSession(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/api/sessions/"+id+"/play/counting"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	presented, _ := readUntil(t, conn, game.EventTargetPresented)
	if presented.Target != "1" || presented.Module != game.ModuleCounting {
		t.Fatalf("target_presented = %+v", presented)
	}

	// Bad frames are skipped without dropping the connection.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	sendFixture(t, conn, "right_3")
	sendFixture(t, conn, "right_1")

	achieved, seen := readUntil(t, conn, game.EventTargetAchieved)
	if achieved.Target != "1" || achieved.Attempts != 2 {
		t.Errorf("target_achieved = %+v", achieved)
	}

	var labels []string
	for _, ev := range seen {
		if ev.Kind == game.EventGestureDetected {
			labels = append(labels, ev.Label)
		}
	}
	if len(labels) != 2 || labels[0] != "3" || labels[1] != "1" {
		t.Errorf("gesture_detected labels = %v, want [3 1]", labels)
	}

	conn.Close()

	// Progress is written after the event goes out.
	deadline := time.Now().Add(2 * time.Second)
	for {
		p := getProgress(t, ts, id)
		if len(p.Entries) == 1 {
			if p.Entries[0].Activity != "number_1" || p.Entries[0].Attempts != 2 {
				t.Errorf("progress = %+v", p.Entries[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("progress entries = %d, want 1", len(p.Entries))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPlay_Rejects(t *testing.T) {
	ts, _ := newTestServer(t, Config{})
	id := createSession(t, ts)

	ended := createSession(t, ts)
	resp := postJSON(t, ts.Client(), ts.URL+"/api/sessions/"+ended+"/end", "")
	resp.Body.Close()

	tests := []struct {
		name string
		path string
		want int
	}{
		{"unknown module", "/api/sessions/" + id + "/play/drawing", http.StatusBadRequest},
		{"bridge is not frame driven", "/api/sessions/" + id + "/play/bridge_builder", http.StatusBadRequest},
		{"unknown session", "/api/sessions/missing/play/counting", http.StatusNotFound},
		{"ended session", "/api/sessions/" + ended + "/play/counting", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts, tt.path), nil)
			if err == nil {
				t.Fatal("Dial() should fail")
			}
			if resp == nil || resp.StatusCode != tt.want {
				t.Errorf("response = %v, want status %d", resp, tt.want)
			}
		})
	}
}

func TestPlay_WithoutStore(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/api/sessions/local/play/shapes"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	readUntil(t, conn, game.EventTargetPresented)
	sendFixture(t, conn, "right_5")

	achieved, _ := readUntil(t, conn, game.EventTargetAchieved)
	if achieved.Target != "square" {
		t.Errorf("target_achieved = %+v, want square", achieved)
	}
}

func TestEventHub_Broadcast(t *testing.T) {
	hub := NewEventHub()
	ts := httptest.NewServer(hub)
	defer ts.Close()
	defer hub.Close()

	var conns []*websocket.Conn
	for i := 0; i < 2; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/"), nil)
		if err != nil {
			t.Fatalf("Dial() error = %v", err)
		}
		defer conn.Close()
		conns = append(conns, conn)
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d, want 2", hub.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Emit(game.Event{Kind: game.EventLevelAdvanced, Module: game.ModuleBridgeBuilder, Level: 2, TargetGap: 5})

	for i, conn := range conns {
		ev, _ := readUntil(t, conn, game.EventLevelAdvanced)
		if ev.Level != 2 || ev.TargetGap != 5 {
			t.Errorf("client %d got %+v", i, ev)
		}
	}

	conns[0].Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d after disconnect, want 1", hub.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Emitting to the remaining client still works.
	hub.Emit(game.Event{Kind: game.EventModuleComplete, Module: game.ModuleBridgeBuilder})
	readUntil(t, conns[1], game.EventModuleComplete)
}

func TestEventHub_ReceivesBridgeEvents(t *testing.T) {
	srv := New(Config{Store: openStore(t), BridgeGap: func(level int) int { return 3 }})
	defer srv.Close()
	ts := httptest.NewServer(srv)
	defer ts.Close()

	id := createSession(t, ts)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts, "/api/events"), nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for srv.Events().Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("events client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	resp := postJSON(t, ts.Client(), ts.URL+"/api/sessions/"+id+"/bridge", "")
	resp.Body.Close()
	resp = postJSON(t, ts.Client(), ts.URL+"/api/sessions/"+id+"/bridge/blocks", `{"value":1}`)
	resp.Body.Close()

	ev, _ := readUntil(t, conn, game.EventBlockPlaced)
	if ev.Remaining != 2 || ev.Module != game.ModuleBridgeBuilder {
		t.Errorf("block_placed = %+v", ev)
	}
}
