package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
)

const sendBuffer = 64

// Message types pushed to gallery rooms.
const (
	MsgPhotosUpdated = "photos:updated"
	MsgUserJoined    = "user:joined"
	MsgUserLeft      = "user:left"
	MsgUserViewing   = "user:viewing"
	MsgPing          = "ping"
	MsgPong          = "pong"
)

type Message struct {
	Type      string      `json:"type"`
	Room      string      `json:"room"`
	UserID    string      `json:"userId,omitempty"`
	PhotoID   string      `json:"photoId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Conn is the part of a websocket connection the manager writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	conn   Conn
	UserID uuid.UUID
	Room   string
	send   chan []byte
	done   chan struct{}
}

// RoomManager groups connections by gallery and fans messages out to
// every client in a room. Each client has its own writer goroutine so a
// slow socket never blocks a broadcast.
type RoomManager struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[Conn]*Client
}

var Manager = NewRoomManager()

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[Conn]*Client),
	}
}

func (m *RoomManager) RegisterClient(conn Conn, userID uuid.UUID, room string) *Client {
	client := &Client{
		conn:   conn,
		UserID: userID,
		Room:   room,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	if m.rooms[room] == nil {
		m.rooms[room] = make(map[*Client]struct{})
	}
	m.rooms[room][client] = struct{}{}
	m.clients[conn] = client
	m.mu.Unlock()

	go client.writePump()

	logger.WebSocket("client_registered", "Client joined room", map[string]interface{}{
		"user_id": userID.String(),
		"room":    room,
	})
	if room != "" {
		m.BroadcastToRoom(room, Message{Type: MsgUserJoined, UserID: userID.String()})
	}
	return client
}

func (m *RoomManager) UnregisterClient(conn Conn) {
	m.mu.Lock()
	client, ok := m.clients[conn]
	if ok {
		m.removeLocked(client)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	<-client.done
	logger.WebSocket("client_unregistered", "Client left room", map[string]interface{}{
		"user_id": client.UserID.String(),
		"room":    client.Room,
	})
	if client.Room != "" {
		m.BroadcastToRoom(client.Room, Message{Type: MsgUserLeft, UserID: client.UserID.String()})
	}
}

func (m *RoomManager) removeLocked(client *Client) {
	delete(m.clients, client.conn)
	if members, ok := m.rooms[client.Room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(m.rooms, client.Room)
		}
	}
	close(client.send)
}

// BroadcastToRoom queues msg for every client in room. Clients whose
// buffer is full are dropped.
func (m *RoomManager) BroadcastToRoom(room string, msg Message) {
	msg.Room = room
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.WebSocketError("marshal", "Failed to encode message", err, map[string]interface{}{"type": msg.Type})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for client := range m.rooms[room] {
		select {
		case client.send <- payload:
		default:
			logger.WebSocketError("slow_client", "Dropping client with full buffer", nil, map[string]interface{}{
				"user_id": client.UserID.String(),
				"room":    room,
			})
			m.removeLocked(client)
		}
	}
}

// PhotosUpdated pushes a committed batch to everyone watching the gallery.
func (m *RoomManager) PhotosUpdated(event services.PhotosUpdatedEvent) {
	m.BroadcastToRoom(event.GalleryID.String(), Message{
		Type:   MsgPhotosUpdated,
		UserID: event.ActorID,
		Data:   event,
	})
}

// HandleMessage answers pings and relays which photo a client has open.
func (m *RoomManager) HandleMessage(conn Conn, messageType int, data []byte) {
	if messageType != websocket.TextMessage {
		return
	}
	m.mu.RLock()
	client, ok := m.clients[conn]
	m.mu.RUnlock()
	if !ok {
		return
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.WebSocketError("decode", "Invalid message format", err, map[string]interface{}{
			"user_id": client.UserID.String(),
		})
		return
	}

	switch msg.Type {
	case MsgPing:
		m.sendTo(client, Message{Type: MsgPong, Room: client.Room, Timestamp: time.Now()})
	case MsgUserViewing:
		if client.Room != "" {
			m.BroadcastToRoom(client.Room, Message{Type: MsgUserViewing, UserID: client.UserID.String(), PhotoID: msg.PhotoID})
		}
	}
}

func (m *RoomManager) sendTo(client *Client, msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[client.conn]; !ok {
		return
	}
	select {
	case client.send <- payload:
	default:
	}
}

func (m *RoomManager) RoomSize(room string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[room])
}

// Close disconnects every client and waits for their writers to exit.
func (m *RoomManager) Close() {
	m.mu.Lock()
	var clients []*Client
	for _, c := range m.clients {
		clients = append(clients, c)
		m.removeLocked(c)
	}
	m.mu.Unlock()

	for _, c := range clients {
		<-c.done
		_ = c.conn.Close()
	}
}

func (c *Client) writePump() {
	defer close(c.done)
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.WebSocketError("write", "WebSocket write failed", err, map[string]interface{}{
				"user_id": c.UserID.String(),
			})
			// drain so broadcasters never block on a dead socket
			for range c.send {
			}
			return
		}
	}
}

func (m *RoomManager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
