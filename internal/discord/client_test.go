package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type identifyPayload struct {
	Op int `json:"op"`
	D  struct {
		Token   string `json:"token"`
		Intents int    `json:"intents"`
	} `json:"d"`
}

// fakeDiscord serves the REST endpoints under /api and a gateway under /ws.
// Each gateway connection performs HELLO, expects IDENTIFY, then runs the
// script for that dial (the last script repeats).
type fakeDiscord struct {
	server     *httptest.Server
	dials      atomic.Int32
	scripts    []func(conn *websocket.Conn)
	identified chan identifyPayload
	users      map[string]string
	status     int
}

func newFakeDiscord(t *testing.T, scripts ...func(conn *websocket.Conn)) *fakeDiscord {
	t.Helper()
	fd := &fakeDiscord{
		scripts:    scripts,
		identified: make(chan identifyPayload, 16),
		users:      map[string]string{},
	}
	fd.server = httptest.NewServer(http.HandlerFunc(fd.serve))
	t.Cleanup(fd.server.Close)
	return fd
}

func (fd *fakeDiscord) serve(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/ws"):
		fd.gateway(w, r)
	case strings.HasSuffix(r.URL.Path, "/gateway"):
		ws := "ws" + strings.TrimPrefix(fd.server.URL, "http") + "/ws"
		fmt.Fprintf(w, `{"url": %q}`, ws)
	case strings.Contains(r.URL.Path, "/users/"):
		if fd.status != 0 {
			w.WriteHeader(fd.status)
			fmt.Fprint(w, `{"message": "401: Unauthorized", "code": 0}`)
			return
		}
		id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		body, ok := fd.users[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Unknown User", "code": 10013}`)
			return
		}
		fmt.Fprint(w, body)
	default:
		http.NotFound(w, r)
	}
}

func (fd *fakeDiscord) gateway(w http.ResponseWriter, r *http.Request) {
	n := int(fd.dials.Add(1))
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"op": 10, "d": map[string]any{"heartbeat_interval": 45000}}); err != nil {
		return
	}

	var id identifyPayload
	if err := conn.ReadJSON(&id); err != nil || id.Op != 2 {
		return
	}
	select {
	case fd.identified <- id:
	default:
	}

	idx := n - 1
	if idx >= len(fd.scripts) {
		idx = len(fd.scripts) - 1
	}
	fd.scripts[idx](conn)
}

type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.URL.Scheme = rt.target.Scheme
	r.URL.Host = rt.target.Host
	r.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newTestClient(t *testing.T, fd *fakeDiscord) *Client {
	t.Helper()
	target, err := url.Parse(fd.server.URL)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.ReconnectDelay = 10 * time.Millisecond
	cfg.MaxReconnectDelay = 50 * time.Millisecond
	c, err := New("secret", &cfg, WithHTTPClient(&http.Client{
		Timeout:   2 * time.Second,
		Transport: rewriteTransport{target: target},
	}))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func dispatchFrame(seq int64, t string, d string) map[string]any {
	return map[string]any{"op": 0, "s": seq, "t": t, "d": json.RawMessage(d)}
}

func ready(conn *websocket.Conn) {
	conn.WriteJSON(dispatchFrame(1, "READY", `{"v": 10, "session_id": "abc", "user": {"id": "1", "username": "scanbot"}}`))
}

func drain(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func closeWith(code int) func(conn *websocket.Conn) {
	return func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, "closed by test"))
	}
}

func TestClient_DeliversMessages(t *testing.T) {
	fd := newFakeDiscord(t, func(conn *websocket.Conn) {
		ready(conn)
		conn.WriteJSON(dispatchFrame(2, "MESSAGE_CREATE", `{"id": "10", "channel_id": "20", "guild_id": "30", "author": {"id": "40", "username": "alice"}, "content": "hi"}`))
		drain(conn)
	})
	c := newTestClient(t, fd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx) }()

	select {
	case id := <-fd.identified:
		assert.Equal(t, "Bot secret", id.D.Token)
		assert.Equal(t, int(Intents), id.D.Intents)
	case <-time.After(2 * time.Second):
		t.Fatal("no identify received")
	}

	select {
	case m := <-c.Messages():
		assert.Equal(t, "10", m.ID)
		assert.Equal(t, "hi", m.Content)
		assert.Equal(t, "30", m.GuildID)
		require.NotNil(t, m.Author)
		assert.Equal(t, "40", m.Author.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	require.NoError(t, c.Close())
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.Equal(t, int32(1), fd.dials.Load(), "Close must not trigger a reconnect")
}

func TestClient_FatalCloseStopsRun(t *testing.T) {
	for _, code := range []int{4004, 4010, 4011, 4012, 4013, 4014} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			fd := newFakeDiscord(t, closeWith(code))
			c := newTestClient(t, fd)

			runErr := make(chan error, 1)
			go func() { runErr <- c.Run(context.Background()) }()

			select {
			case err := <-runErr:
				require.Error(t, err)
				assert.True(t, IsFatal(err))
				var closeErr *websocket.CloseError
				require.True(t, errors.As(err, &closeErr))
				assert.Equal(t, code, closeErr.Code)
			case <-time.After(3 * time.Second):
				t.Fatalf("Run kept reconnecting after close code %d", code)
			}
			assert.Equal(t, int32(1), fd.dials.Load())
		})
	}
}

func TestClient_ReconnectsAfterTransientClose(t *testing.T) {
	fd := newFakeDiscord(t,
		closeWith(websocket.CloseInternalServerErr),
		func(conn *websocket.Conn) {
			ready(conn)
			conn.WriteJSON(dispatchFrame(2, "MESSAGE_CREATE", `{"id": "11", "channel_id": "20", "guild_id": "30", "author": {"id": "40"}, "content": "again"}`))
			drain(conn)
		},
	)
	c := newTestClient(t, fd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	select {
	case m := <-c.Messages():
		assert.Equal(t, "again", m.Content)
	case <-time.After(3 * time.Second):
		t.Fatal("no message after reconnect")
	}
	assert.Equal(t, int32(2), fd.dials.Load())
}

func TestClient_RunStopsOnContext(t *testing.T) {
	fd := newFakeDiscord(t, closeWith(websocket.CloseInternalServerErr))
	c := newTestClient(t, fd)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return fd.dials.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestClient_CloseIsIdempotentAndConcurrent(t *testing.T) {
	fd := newFakeDiscord(t, func(conn *websocket.Conn) {
		ready(conn)
		drain(conn)
	})
	c := newTestClient(t, fd)

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(context.Background()) }()

	select {
	case <-fd.identified:
	case <-time.After(2 * time.Second):
		t.Fatal("no identify received")
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Close()
		}()
	}
	wg.Wait()

	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
	assert.NoError(t, c.Close())
}

func TestClient_CloseBeforeRun(t *testing.T) {
	fd := newFakeDiscord(t, closeWith(websocket.CloseInternalServerErr))
	c := newTestClient(t, fd)

	require.NoError(t, c.Close())
	assert.NoError(t, c.Run(context.Background()))
	assert.Zero(t, fd.dials.Load())
}

func TestClient_Users(t *testing.T) {
	fd := newFakeDiscord(t, closeWith(websocket.CloseNormalClosure))
	fd.users["@me"] = `{"id": "1", "username": "scanbot", "bot": true}`
	fd.users["77"] = `{"id": "77", "username": "bob", "global_name": "Bobby"}`
	fd.users["78"] = `{"id": "78", "username": "carol"}`
	c := newTestClient(t, fd)
	ctx := context.Background()

	me, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", me.ID)
	assert.True(t, me.Bot)

	name, err := c.DisplayName(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", name)

	name, err = c.DisplayName(ctx, 78)
	require.NoError(t, err)
	assert.Equal(t, "carol", name)

	_, err = c.DisplayName(ctx, 79)
	require.Error(t, err)
	assert.False(t, IsFatal(err))
}

func TestClient_UnauthorizedIsFatal(t *testing.T) {
	fd := newFakeDiscord(t, closeWith(websocket.CloseNormalClosure))
	fd.status = http.StatusUnauthorized
	c := newTestClient(t, fd)

	_, err := c.CurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(&websocket.CloseError{Code: 4004}))
	assert.True(t, IsFatal(fmt.Errorf("open: %w", &websocket.CloseError{Code: 4014})))
	assert.False(t, IsFatal(&websocket.CloseError{Code: 4000}))
	assert.False(t, IsFatal(&websocket.CloseError{Code: websocket.CloseGoingAway}))
	assert.False(t, IsFatal(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}))
	assert.False(t, IsFatal(errors.New("dial tcp: connection refused")))
	assert.False(t, IsFatal(nil))
}
