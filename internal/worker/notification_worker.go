package worker

import (
	"github.com/civicdesk/grievance-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher
// shared with the grievance service.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
