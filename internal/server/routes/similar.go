package routes

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/umlreview/pkg/corpus"
)

type similarResponse struct {
	PlantUML string         `json:"plantuml"`
	Matches  []corpus.Match `json:"matches"`
}

// SimilarHandler returns the corpus entries closest to the uploaded
// diagram. The optional query parameter k must lie in 1..50.
func SimilarHandler(c echo.Context) error {
	type similarParams struct {
		K int `validate:"min=1,max=50"`
	}

	analyzer := appContext(c).App.Analyzer
	params := &similarParams{K: analyzer.TopK()}
	if raw := c.QueryParam("k"); raw != "" {
		k, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
		}
		params.K = k
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	raw, err := readDiagram(c)
	if err != nil {
		return diagramError(c, err)
	}

	report := analyzer.PrepareTopK(c.Request().Context(), raw, params.K)
	return c.JSON(http.StatusOK, similarResponse{
		PlantUML: report.PlantUML,
		Matches:  report.Matches,
	})
}
