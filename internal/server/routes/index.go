package routes

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

func HealthHandler(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// IndexHandler serves index.html from the static directory and keeps
// browsers from caching it.
func IndexHandler(c echo.Context) error {
	dir := appContext(c).App.StaticDir
	if dir == "" {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}

	h := c.Response().Header()
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
	return c.File(filepath.Join(dir, "index.html"))
}
