package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/umlreview/pkg/ai"
)

// UploadXMLHandler runs the full review for an uploaded draw.io export and
// answers {"feedback": ...}. Errors reported by the completion service are
// passed through as the feedback text, as is the placeholder for an empty
// completion.
func UploadXMLHandler(c echo.Context) error {
	raw, err := readDiagram(c)
	if err != nil {
		return diagramError(c, err)
	}

	cc := appContext(c)
	cc.Log.Info("Reviewing diagram", "bytes", len(raw))

	report, err := cc.App.Analyzer.Analyze(c.Request().Context(), raw)
	if err != nil {
		if _, ok := ai.AsServiceError(err); ok || errors.Is(err, ai.ErrEmptyResponse) {
			return c.JSON(http.StatusOK, map[string]string{"feedback": report.Feedback})
		}
		cc.Log.Error("Failed to review diagram", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"feedback": report.Feedback})
}

// ReviewHandler is UploadXMLHandler with a structured JSON review instead
// of free text.
func ReviewHandler(c echo.Context) error {
	raw, err := readDiagram(c)
	if err != nil {
		return diagramError(c, err)
	}

	cc := appContext(c)
	out, err := cc.App.Analyzer.Review(c.Request().Context(), raw)
	if err != nil {
		status := http.StatusInternalServerError
		if se, ok := ai.AsServiceError(err); ok {
			status = http.StatusBadGateway
			err = se
		}
		cc.Log.Error("Failed to review diagram", "err", err)
		return c.JSON(status, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, out)
}
