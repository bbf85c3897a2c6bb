package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/live"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	pingEvery = (pongWait * 9) / 10
)

type peakMessage struct {
	Position   float64  `json:"position"`
	Amplitude  float64  `json:"amplitude"`
	Prominence float64  `json:"prominence"`
	Width      float64  `json:"width"`
	Wavelength *float64 `json:"wavelength,omitempty"`
}

type spectrumMessage struct {
	Type        string        `json:"type"`
	ID          int64         `json:"id"`
	Source      string        `json:"source"`
	Method      string        `json:"method,omitempty"`
	Luminance   []float64     `json:"luminance,omitempty"`
	Smoothed    []float64     `json:"smoothed,omitempty"`
	Wavelengths []float64     `json:"wavelengths,omitempty"`
	Peaks       []peakMessage `json:"peaks"`
	Dropped     uint64        `json:"dropped"`
	Error       string        `json:"error,omitempty"`
}

func newSpectrumMessage(u live.Update) spectrumMessage {
	msg := spectrumMessage{
		Type:    "spectrum",
		ID:      u.ID,
		Source:  u.Source,
		Peaks:   []peakMessage{},
		Dropped: u.Dropped,
	}
	if u.Err != nil {
		msg.Error = u.Err.Error()
		return msg
	}

	res := u.Result
	if res.Detection != nil {
		msg.Method = res.Detection.Method.String()
	}
	msg.Luminance = finite(res.Profile.Luminance())
	msg.Smoothed = finite(res.Profile.Smoothed)
	msg.Wavelengths = finite(u.Wavelengths)
	for i, pk := range res.Peaks {
		pm := peakMessage{Position: pk.Position, Amplitude: pk.Amplitude, Prominence: pk.Prominence, Width: pk.Width}
		if i < len(u.PeakWavelengths) && core.IsFinite(u.PeakWavelengths[i]) {
			wl := u.PeakWavelengths[i]
			pm.Wavelength = &wl
		}
		msg.Peaks = append(msg.Peaks, pm)
	}
	return msg
}

type server struct {
	log      *slog.Logger
	session  *live.Session
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex

	messages chan []byte
}

func newServer(log *slog.Logger, session *live.Session) *server {
	return &server{
		log:     log,
		session: session,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		messages: make(chan []byte, 16),
	}
}

// publish queues an update for broadcast. Updates are dropped while the
// queue is full.
func (s *server) publish(u live.Update) {
	payload, err := json.Marshal(newSpectrumMessage(u))
	if err != nil {
		s.log.Warn("encode update", "error", err)
		return
	}
	select {
	case s.messages <- payload:
	default:
	}
}

func (s *server) serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	go s.broadcast(ctx)

	return httpServer.ListenAndServe()
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	writeMu := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = writeMu
	s.mu.Unlock()
	s.log.Debug("client connected", "remote", r.RemoteAddr)

	go func() {
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(pingEvery)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if err := s.write(conn, writeMu, websocket.PingMessage, nil); err != nil {
						_ = conn.Close()
						return
					}
				}
			}
		}()
		defer close(done)
		defer s.removeClient(conn)

		for {
			messageType, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if messageType != websocket.TextMessage {
				continue
			}
			var request struct {
				Type string `json:"type"`
				On   bool   `json:"on"`
			}
			if err := json.Unmarshal(payload, &request); err != nil {
				continue
			}
			if request.Type == "freeze" {
				s.session.Freeze(request.On)
			}
		}
	}()
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"frozen":     s.session.Frozen(),
		"dropped":    s.session.Dropped(),
		"ws_clients": s.clientCount(),
	})
}

func (s *server) broadcast(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-s.messages:
			var stale []*websocket.Conn
			s.mu.Lock()
			for conn, writeMu := range s.clients {
				if err := s.write(conn, writeMu, websocket.TextMessage, payload); err != nil {
					stale = append(stale, conn)
				}
			}
			s.mu.Unlock()
			for _, conn := range stale {
				s.removeClient(conn)
			}
		}
	}
}

func (s *server) removeClient(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	conn.Close()
}

func (s *server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *server) write(conn *websocket.Conn, writeMu *sync.Mutex, messageType int, payload []byte) error {
	writeMu.Lock()
	defer writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(messageType, payload)
}
