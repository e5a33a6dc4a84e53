package server

import (
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := s.clock.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

// handleReadiness verifies the store directory accepts writes, since every
// mutating endpoint rewrites a JSON document there.
func (s *Server) handleReadiness(c echo.Context) error {
	probe := filepath.Join(s.config.DataDir, ".readyz")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return c.JSON(503, map[string]any{
			"status":       "unhealthy",
			"failed_check": "data_dir_writable",
			"error":        err.Error(),
		})
	}
	_ = os.Remove(probe)

	return c.JSON(200, map[string]string{"status": "ready"})
}
