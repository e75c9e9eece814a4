package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/umlreview/pkg/uml"
)

type extractResponse struct {
	Simplified     string             `json:"simplified"`
	PlantUML       string             `json:"plantuml"`
	Degraded       bool               `json:"degraded"`
	Multiplicities []uml.Multiplicity `json:"multiplicities"`
	Labels         []uml.Label        `json:"labels"`
}

func ExtractHandler(c echo.Context) error {
	raw, err := readDiagram(c)
	if err != nil {
		return diagramError(c, err)
	}

	res := uml.ExtractDocument(raw)
	if res.Degraded() {
		appContext(c).Log.Warn("Diagram could not be read", "err", res.Err)
	}

	simplified := res.Simplified()
	return c.JSON(http.StatusOK, extractResponse{
		Simplified:     simplified,
		PlantUML:       uml.ToPlantUML(simplified),
		Degraded:       res.Degraded(),
		Multiplicities: res.Extraction.Multiplicities(),
		Labels:         res.Extraction.Labels(),
	})
}
