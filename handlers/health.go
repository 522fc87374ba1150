package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// Health reports ok when the database answers a ping.
func (hh *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if hh.DB != nil {
		sqlDB, err := hh.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			hh.Log.Error("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
