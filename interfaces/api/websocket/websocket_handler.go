package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"photo-triage/domain/services"
	wsmanager "photo-triage/infrastructure/websocket"
	"photo-triage/pkg/logger"
	"photo-triage/pkg/utils"
)

// WebSocketHandler joins authorised callers to their gallery's room so
// they see batched writes made by anyone else reviewing it.
type WebSocketHandler struct {
	rooms          *wsmanager.RoomManager
	galleryService services.GalleryService
}

func NewWebSocketHandler(rooms *wsmanager.RoomManager, galleryService services.GalleryService) *WebSocketHandler {
	return &WebSocketHandler{rooms: rooms, galleryService: galleryService}
}

// WebSocketUpgrade checks gallery access before the upgrade happens.
func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}
	galleryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid gallery ID")
	}

	p := services.Principal{UserID: user.ID, GalleryID: user.GalleryID, Client: user.IsClient()}
	if _, err := h.galleryService.GetGallery(c.UserContext(), p, galleryID); err != nil {
		return utils.ForbiddenResponse(c, "Access to this gallery is not allowed")
	}

	actor := user.ID
	if user.IsClient() {
		actor = uuid.New()
	}
	c.Locals("room", galleryID.String())
	c.Locals("actor", actor)
	return c.Next()
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	room, _ := c.Locals("room").(string)
	actor, _ := c.Locals("actor").(uuid.UUID)

	h.rooms.RegisterClient(c, actor, room)
	defer h.rooms.UnregisterClient(c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.WebSocketError("read_message", "WebSocket read error", err, map[string]interface{}{
					"user_id": actor.String(),
					"room":    room,
				})
			}
			return
		}
		h.rooms.HandleMessage(c, messageType, message)
	}
}
