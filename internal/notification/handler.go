package notification

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config holds form event socket configuration
type Config struct {
	AllowedOrigins    []string      `mapstructure:"allowed_origins"`
	ReadBufferSize    int           `mapstructure:"read_buffer_size"`
	WriteBufferSize   int           `mapstructure:"write_buffer_size"`
	HandshakeTimeout  time.Duration `mapstructure:"handshake_timeout"`
	EnableCompression bool          `mapstructure:"enable_compression"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		AllowedOrigins:    []string{"*"},
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		HandshakeTimeout:  10 * time.Second,
		EnableCompression: true,
	}
}

// Handler upgrades HTTP requests into form event sockets
type Handler struct {
	config   *Config
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler creates a new socket handler
func NewHandler(config *Config, hub *Hub, logger *zap.Logger) *Handler {
	h := &Handler{
		config: config,
		hub:    hub,
		logger: logger,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:    config.ReadBufferSize,
		WriteBufferSize:   config.WriteBufferSize,
		HandshakeTimeout:  config.HandshakeTimeout,
		EnableCompression: config.EnableCompression,
		CheckOrigin:       h.checkOrigin,
	}

	return h
}

// Serve upgrades the request and streams formID's events until the peer disconnects.
// The caller has already checked that the form exists.
func (h *Handler) Serve(c *gin.Context, formID string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade form socket",
			zap.String("form_id", formID),
			zap.Error(err),
		)
		return
	}

	client := NewClient(h.hub, conn, formID, h.logger)
	client.send <- NewMessage(MessageTypeConnected, map[string]string{"clientId": client.ID})
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}
