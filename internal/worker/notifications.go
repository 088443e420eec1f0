package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/service"
)

// StartNotificationWorker subscribes staff alerts to submission events.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	if logger != nil {
		logger.Info("submission notifications registered")
	}
}
