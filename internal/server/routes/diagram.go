package routes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/OFFIS-RIT/umlreview/internal/server/middleware"
)

const maxDiagramSize = 10 << 20

var (
	errMissingFile = errors.New("no file uploaded")
	errNotXML      = errors.New("only XML files are allowed")
)

// readDiagram reads the multipart field "file". The upload must carry an
// .xml file name.
func readDiagram(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, errMissingFile
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xml") {
		return nil, errNotXML
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxDiagramSize))
}

func diagramError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, errMissingFile) || errors.Is(err, errNotXML) {
		status = http.StatusBadRequest
	}
	appContext(c).Log.Warn("Rejected diagram upload", "status", status, "err", err)
	return c.JSON(status, map[string]string{"error": err.Error()})
}

func appContext(c echo.Context) *middleware.AppContext {
	return c.(*middleware.AppContext)
}
