package notify

import "context"

// Notifier delivers short status messages to whoever watches the dashboard.
// This decouples the application logic from the specific messaging library.
type Notifier interface {
	Send(ctx context.Context, text string) error
}
