package display

import (
	"context"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// CLINotifier prints notifications through a Printer.
type CLINotifier struct {
	log *logger.Logger
	p   *Printer
}

// NewCLINotifier creates a terminal notifier.
func NewCLINotifier(log *logger.Logger, p *Printer) *CLINotifier {
	return &CLINotifier{log: log, p: p}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.p.PrintChat(message)
	return nil
}

// NotifyUrgent prints an urgent notification followed by a terminal bell.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.p.PrintUrgent(message + "\a")
	return nil
}
