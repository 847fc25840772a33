package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"photo-triage/domain/models"
	"photo-triage/domain/services"
	"photo-triage/pkg/logger"
)

var _ services.TriageNotifier = (*RoomManager)(nil)

type fakeConn struct {
	mu       sync.Mutex
	messages []Message
	raw      []string
	fail     bool
	closed   bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("broken pipe")
	}
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	c.messages = append(c.messages, msg)
	c.raw = append(c.raw, string(data))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.Type
	}
	return out
}

func quietLogger(t *testing.T) {
	t.Helper()
	l, err := logger.NewLogger("", false)
	require.NoError(t, err)
	logger.SetDefault(l)
}

func TestRoomManager_PhotosUpdatedReachesOnlyThatGallery(t *testing.T) {
	defer goleak.VerifyNone(t)
	quietLogger(t)

	m := NewRoomManager()
	gallery := uuid.New()
	watcher, other := &fakeConn{}, &fakeConn{}
	m.RegisterClient(watcher, uuid.New(), gallery.String())
	m.RegisterClient(other, uuid.New(), uuid.New().String())

	m.PhotosUpdated(services.PhotosUpdatedEvent{
		GalleryID: gallery,
		Kind:      "status",
		IDs:       []string{"p1", "p2"},
		Status:    "selected",
		Stats:     &models.GalleryStats{Total: 2, Selected: 2},
	})
	m.Close()

	assert.Equal(t, []string{MsgUserJoined, MsgPhotosUpdated}, watcher.types())
	assert.Equal(t, []string{MsgUserJoined}, other.types())
	assert.True(t, watcher.closed)
	assert.Equal(t, gallery.String(), watcher.messages[1].Room)
	assert.Contains(t, watcher.raw[1], `"type":"photos:updated"`)
}

func TestRoomManager_UnregisterAnnouncesDeparture(t *testing.T) {
	defer goleak.VerifyNone(t)
	quietLogger(t)

	m := NewRoomManager()
	a, b := &fakeConn{}, &fakeConn{}
	m.RegisterClient(a, uuid.New(), "room")
	m.RegisterClient(b, uuid.New(), "room")
	assert.Equal(t, 2, m.RoomSize("room"))

	m.UnregisterClient(b)
	m.UnregisterClient(b)
	assert.Equal(t, 1, m.RoomSize("room"))

	m.Close()
	assert.Equal(t, 0, m.RoomSize("room"))
	assert.Equal(t, MsgUserLeft, a.types()[len(a.types())-1])
}

func TestRoomManager_HandleMessage(t *testing.T) {
	defer goleak.VerifyNone(t)
	quietLogger(t)

	m := NewRoomManager()
	a, b := &fakeConn{}, &fakeConn{}
	m.RegisterClient(a, uuid.New(), "room")
	m.RegisterClient(b, uuid.New(), "room")

	m.HandleMessage(a, websocket.TextMessage, []byte(`{"type":"ping"}`))
	m.HandleMessage(a, websocket.TextMessage, []byte(`{"type":"user:viewing","photoId":"p7"}`))
	m.HandleMessage(a, websocket.TextMessage, []byte(`not json`))
	m.HandleMessage(a, websocket.BinaryMessage, []byte(`{"type":"ping"}`))
	m.Close()

	assert.Contains(t, a.types(), MsgPong)
	assert.NotContains(t, b.types(), MsgPong)

	b.mu.Lock()
	defer b.mu.Unlock()
	last := b.messages[len(b.messages)-1]
	assert.Equal(t, MsgUserViewing, last.Type)
	assert.Equal(t, "p7", last.PhotoID)
}

func TestRoomManager_BrokenConnDoesNotBlockBroadcast(t *testing.T) {
	defer goleak.VerifyNone(t)
	quietLogger(t)

	m := NewRoomManager()
	broken := &fakeConn{fail: true}
	ok := &fakeConn{}
	m.RegisterClient(broken, uuid.New(), "room")
	m.RegisterClient(ok, uuid.New(), "room")

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer*3; i++ {
			m.BroadcastToRoom("room", Message{Type: MsgPhotosUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("broadcast blocked on a broken connection")
	}
	m.Close()
}
