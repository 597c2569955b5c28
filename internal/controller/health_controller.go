package controller

import (
	"fmt"
	"net/http"
	"time"

	"tableconfig-editor/internal/warehouse"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Version     string            `json:"version"`
	Warehouse   BackendStatus     `json:"warehouse"`
	AuditStore  BackendStatus     `json:"auditStore"`
	Connections map[string]string `json:"connections"`
}

type BackendStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthController struct {
	gateway warehouse.Gateway
	auditDB *gorm.DB // nil when the audit store is disabled
}

func NewHealthController(gateway warehouse.Gateway, auditDB *gorm.DB) *HealthController {
	return &HealthController{
		gateway: gateway,
		auditDB: auditDB,
	}
}

func (hc *HealthController) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now(),
		Service:     "tableconfig-editor",
		Version:     "1.0.0",
		Connections: make(map[string]string),
	}

	// Check warehouse connection
	if err := hc.gateway.Ping(c.Request.Context()); err != nil {
		response.Status = "unhealthy"
		response.Warehouse = BackendStatus{
			Status:  "disconnected",
			Message: "Warehouse ping failed: " + err.Error(),
		}
	} else {
		response.Warehouse = BackendStatus{
			Status:  "connected",
			Message: "Warehouse (" + hc.gateway.Name() + ") connection healthy",
		}
	}

	// Check audit store connection, when configured
	if hc.auditDB == nil {
		response.AuditStore = BackendStatus{Status: "disabled"}
	} else if sqlDB, err := hc.auditDB.DB(); err != nil {
		response.Status = "unhealthy"
		response.AuditStore = BackendStatus{
			Status:  "disconnected",
			Message: "Failed to get database instance",
		}
	} else if err := sqlDB.Ping(); err != nil {
		response.Status = "unhealthy"
		response.AuditStore = BackendStatus{
			Status:  "disconnected",
			Message: "Database ping failed: " + err.Error(),
		}
	} else {
		stats := sqlDB.Stats()
		response.AuditStore = BackendStatus{
			Status:  "connected",
			Message: "Audit store connection healthy",
		}
		response.Connections["audit_open_connections"] = fmt.Sprintf("%d", stats.OpenConnections)
		response.Connections["audit_in_use"] = fmt.Sprintf("%d", stats.InUse)
		response.Connections["audit_idle"] = fmt.Sprintf("%d", stats.Idle)
	}

	// Set HTTP status based on health
	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, response)
}
