package worker

import (
	"github.com/gram-panchayat/panchayat-service/internal/service"
)

// StartAuditWorker registers the audit subscribers on the dispatcher.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
