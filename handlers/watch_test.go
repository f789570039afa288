package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/coedit/coedit/internal/document"
	syncsvc "github.com/coedit/coedit/internal/sync"
)

func TestWatchStreamsChangeEvents(t *testing.T) {
	g, svc := newTestRouter(t)
	server := httptest.NewServer(g)
	defer server.Close()

	id, err := svc.CreateDocument(context.Background(), "alice", "Plan", document.NoteBody())
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/documents/" + id + "/watch"
	header := http.Header{"X-User": []string{"bob"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, svc.UpdateDocument(context.Background(), "alice", id, "hello", 5))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, p, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev syncsvc.Event
	require.NoError(t, json.Unmarshal(p, &ev))
	require.Equal(t, syncsvc.EventUpdated, ev.Kind)
	require.Equal(t, id, ev.DocumentID)
	require.Equal(t, "alice", ev.UserID)

	require.NoError(t, svc.DeleteDocument(context.Background(), "alice", id))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, p, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(p, &ev))
	require.Equal(t, syncsvc.EventDeleted, ev.Kind)
}

func TestWatchUnknownDocumentRejectedBeforeUpgrade(t *testing.T) {
	g, _ := newTestRouter(t)
	server := httptest.NewServer(g)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/documents/no-such-doc/watch"
	header := http.Header{"X-User": []string{"bob"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
