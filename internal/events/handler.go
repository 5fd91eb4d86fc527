package events

import (
	"log"
	"net/http"

	"filemeta/internal/modules/access"
	"filemeta/internal/pkg/jwt"
	"filemeta/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub     *Hub
	jwt     *jwt.Service
	gateway *access.Gateway
}

func NewHandler(hub *Hub, jwtService *jwt.Service, gateway *access.Gateway) *Handler {
	return &Handler{hub: hub, jwt: jwtService, gateway: gateway}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/ws/files", h.Subscribe)
}

// Subscribe godoc
// @Summary Stream my file events
// @Description Websocket stream of file_created, file_status_changed and file_deleted events. Browsers cannot set headers on websocket requests, so the token is passed as a query parameter.
// @Tags Files
// @Param token query string true "Bearer token"
// @Router /ws/files [get]
func (h *Handler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required, use ?token=...")
		return
	}
	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	if !h.gateway.UserExists(c.Request.Context(), claims.UserID) {
		response.Error(c, http.StatusUnauthorized, "UNKNOWN_USER", "User from token does not exist")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed user_id=%s error=%q", claims.UserID, err)
		return
	}
	h.hub.ServeWS(conn, claims.UserID)
}
