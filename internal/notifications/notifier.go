package notifications

import (
	"context"
	"fmt"

	"github.com/olegsavin/taskboard/internal/domain"
	"github.com/olegsavin/taskboard/internal/pkg/metrics"
)

// Sender delivers a rendered email to a single recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier renders and sends the assignment email for a task.
// Delivery is best-effort and synchronous; the caller decides what a
// failed send means for its own result.
type Notifier struct {
	renderer *Renderer
	sender   Sender
}

// NewNotifier creates a new notifier.
func NewNotifier(renderer *Renderer, sender Sender) *Notifier {
	return &Notifier{
		renderer: renderer,
		sender:   sender,
	}
}

// NotifyAssignment sends the assignment email to the task's assignee.
func (n *Notifier) NotifyAssignment(ctx context.Context, user *domain.User, task *domain.Task) error {
	subject, body, err := n.renderer.RenderAssignment(user, task)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues("render_error").Inc()
		return fmt.Errorf("render assignment: %w", err)
	}

	if err := n.sender.Send(ctx, user.Email, subject, body); err != nil {
		metrics.NotificationsSent.WithLabelValues("failure").Inc()
		return fmt.Errorf("send assignment: %w", err)
	}

	metrics.NotificationsSent.WithLabelValues("success").Inc()
	return nil
}
