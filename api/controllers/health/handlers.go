package health

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/adityapratama/shopeasy-backend/api/responses"
)

type Controller struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewController(gdb *gorm.DB, client *redis.Client) *Controller {
	return &Controller{db: gdb, redis: client}
}

func (c *Controller) Live(w http.ResponseWriter, r *http.Request) {
	responses.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports dependency health so the load balancer can drain a bad
// instance.
func (c *Controller) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"database": "ok", "redis": "ok"}
	status := http.StatusOK

	sqlDB, err := c.db.DB()
	if err != nil || sqlDB.PingContext(r.Context()) != nil {
		checks["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := c.redis.Ping(r.Context()).Err(); err != nil {
		checks["redis"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	responses.JSON(w, status, checks)
}
