// Package sse provides per-user Server-Sent Events fan-out for
// realtime notification delivery.
package sse

import (
	"fmt"
	"net/http"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Client represents one connected SSE stream, scoped to a user.
type Client struct {
	ID      string
	UserID  int64
	Writer  http.ResponseWriter
	Flusher http.Flusher
	Done    chan struct{}
}

// Broadcaster manages SSE client connections and routes events to the
// clients of a single recipient user.
type Broadcaster struct {
	clients map[string]*Client
	mu      sync.RWMutex
	nextID  int
}

// NewBroadcaster creates a new SSE broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[string]*Client)}
}

// AddClient registers a new stream for the given user.
func (b *Broadcaster) AddClient(w http.ResponseWriter, userID int64) (*Client, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	b.mu.Lock()
	b.nextID++
	client := &Client{
		ID:      fmt.Sprintf("client-%d", b.nextID),
		UserID:  userID,
		Writer:  w,
		Flusher: flusher,
		Done:    make(chan struct{}),
	}
	b.clients[client.ID] = client
	total := len(b.clients)
	b.mu.Unlock()

	log.Debug().
		Str("clientId", client.ID).
		Int64("userId", userID).
		Int("totalClients", total).
		Msg("SSE client connected")

	return client, nil
}

// RemoveClient drops a stream.
func (b *Broadcaster) RemoveClient(client *Client) {
	b.mu.Lock()
	if _, exists := b.clients[client.ID]; exists {
		delete(b.clients, client.ID)
		close(client.Done)
	}
	total := len(b.clients)
	b.mu.Unlock()

	log.Debug().
		Str("clientId", client.ID).
		Int("totalClients", total).
		Msg("SSE client disconnected")
}

// BroadcastToUser sends an event to every connected stream of one
// user. Dead streams are pruned as they fail.
func (b *Broadcaster) BroadcastToUser(userID int64, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}
	message := fmt.Sprintf("data: %s\n\n", jsonData)

	b.mu.RLock()
	targets := make([]*Client, 0)
	for _, client := range b.clients {
		if client.UserID == userID {
			targets = append(targets, client)
		}
	}
	b.mu.RUnlock()

	var dead []*Client
	for _, client := range targets {
		select {
		case <-client.Done:
			continue
		default:
			if _, err := client.Writer.Write([]byte(message)); err != nil {
				dead = append(dead, client)
				continue
			}
			client.Flusher.Flush()
		}
	}

	for _, client := range dead {
		b.RemoveClient(client)
	}
}

// ClientCount returns the number of connected streams.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// UserClientCount returns the number of streams for one user.
func (b *Broadcaster) UserClientCount(userID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, client := range b.clients {
		if client.UserID == userID {
			n++
		}
	}
	return n
}

// ServeHTTP handles an SSE connection request for the given user and
// blocks until the client disconnects.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request, userID int64) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client, err := b.AddClient(w, userID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer b.RemoveClient(client)

	fmt.Fprintf(w, "data: {\"type\":\"connected\",\"clientId\":\"%s\"}\n\n", client.ID)
	client.Flusher.Flush()

	<-r.Context().Done()
}
