package worker

import (
	"go.uber.org/zap"

	"github.com/opsdesk/helpdesk-service/internal/service"
)

// StartNotificationWorker hooks the notification service into the event
// stream. Delivery happens on the dispatcher's goroutine; there is no
// polling loop to start or stop.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification handlers registered")
}
