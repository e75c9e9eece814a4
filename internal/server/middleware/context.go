package middleware

import (
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/OFFIS-RIT/umlreview/pkg/critique"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

type App struct {
	Analyzer  *critique.Analyzer
	StaticDir string
}

type AppContext struct {
	echo.Context
	App       *App
	RequestID string
	Log       *logger.Logger
}

// AppContextMiddleware hands every handler the shared App together with a
// request id and a logger tagged with it. An id sent by the client is kept.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				generated, err := gonanoid.New()
				if err != nil {
					return err
				}
				id = generated
			}
			c.Response().Header().Set(RequestIDHeader, id)

			log := logger.With("request_id", id)
			req := c.Request()
			c.SetRequest(req.WithContext(critique.WithLogger(req.Context(), log)))

			cc := &AppContext{
				Context:   c,
				App:       app,
				RequestID: id,
				Log:       log,
			}
			return next(cc)
		}
	}
}
