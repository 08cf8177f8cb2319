package checkout

import "go.uber.org/zap"

// Notifier surfaces transient, non-blocking notifications to the user.
// The rendering layer turns these into toasts; headless deployments log them.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type zapNotifier struct {
	logger *zap.Logger
}

func NewZapNotifier(logger *zap.Logger) Notifier {
	return &zapNotifier{logger: logger}
}

func (n *zapNotifier) Success(msg string) {
	n.logger.Info("notification", zap.String("status", "success"), zap.String("message", msg))
}

func (n *zapNotifier) Error(msg string) {
	n.logger.Warn("notification", zap.String("status", "error"), zap.String("message", msg))
}
