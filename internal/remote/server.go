// Package remote exposes the evaluation engine over a WebSocket endpoint.
// Every connection gets its own independent session: its own context,
// workspace, and load namespace, torn down when the connection closes.
package remote

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"javelin/internal/engine"
)

// Response is one remote evaluation outcome.
type Response struct {
	Kind    string `json:"kind"` // "result", "void", or "error"
	Key     string `json:"key,omitempty"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// Server upgrades connections and drives one engine per session.
type Server struct {
	// NewEngine builds a fresh engine for each connection.
	NewEngine func() (*engine.Engine, error)

	upgrader websocket.Upgrader
}

// NewServer returns a Server creating engines through newEngine.
func NewServer(newEngine func() (*engine.Engine, error)) *Server {
	return &Server{NewEngine: newEngine}
}

// Handler returns the HTTP handler serving the evaluation endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/evaluate", s.handleEvaluate)
	return mux
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	eng, err := s.NewEngine()
	if err != nil {
		_ = conn.WriteJSON(Response{Kind: "error", Message: fmt.Sprintf("failed to start session: %v", err)})
		return
	}
	defer eng.Close()

	// Evaluations within one connection run strictly in submission order;
	// concurrency happens across connections, one session per connection.
	// The upgrade hijacks the connection, so the request context is not
	// reliable past this point.
	ctx := context.Background()
	for {
		msgType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := conn.WriteJSON(s.evaluate(ctx, eng, string(payload))); err != nil {
			return
		}
	}
}

func (s *Server) evaluate(ctx context.Context, eng *engine.Engine, text string) Response {
	ev, err := eng.Evaluate(ctx, text)
	if err != nil {
		return Response{Kind: "error", Message: err.Error()}
	}
	if res, ok := ev.Result(); ok {
		return Response{Kind: "result", Key: res.Key, Value: res.Value}
	}
	return Response{Kind: "void"}
}
