package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/jrjohn/arcana-onboarding-go/internal/domain/entity"
)

// DefaultDestination is where a registered user is sent
const DefaultDestination = "/dashboard"

// Notifier pushes toasts to the sockets watching a form
type Notifier struct {
	hub    *Hub
	logger *zap.Logger
}

// NewNotifier creates a notifier backed by hub
func NewNotifier(hub *Hub, logger *zap.Logger) *Notifier {
	return &Notifier{hub: hub, logger: logger}
}

// Notify publishes notification to formID's sockets
func (n *Notifier) Notify(_ context.Context, formID string, notification entity.Notification) {
	n.logger.Debug("Form notification",
		zap.String("form_id", formID),
		zap.String("level", string(notification.Level)),
		zap.String("key", notification.Key),
	)
	n.hub.Publish(formID, NewMessage(MessageTypeNotification, notification))
}

// NavigatePayload is the body of a navigate message
type NavigatePayload struct {
	To string `json:"to"`
}

// Redirector sends the browser owning a form to a fixed destination
type Redirector struct {
	hub         *Hub
	destination string
}

// NewRedirector creates a navigator that always targets destination
func NewRedirector(hub *Hub, destination string) *Redirector {
	if destination == "" {
		destination = DefaultDestination
	}
	return &Redirector{hub: hub, destination: destination}
}

// Navigate announces the destination to formID's sockets and returns it
func (r *Redirector) Navigate(_ context.Context, formID string) string {
	r.hub.Publish(formID, NewMessage(MessageTypeNavigate, NavigatePayload{To: r.destination}))
	return r.destination
}

// Destination returns the configured destination
func (r *Redirector) Destination() string {
	return r.destination
}
