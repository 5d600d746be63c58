package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DocumentsController struct {
	store DocumentReader
}

func NewDocumentsController(store DocumentReader) *DocumentsController {
	return &DocumentsController{store: store}
}

// List handles GET /api/documents?etl=&limit=&offset=
// Returns stored document summaries, without bodies.
func (dc *DocumentsController) List(c *gin.Context) {
	limit, offset, ok := parsePagination(c)
	if !ok {
		return
	}
	etlName := c.Query("etl")

	total, err := dc.store.Count(etlName)
	if err != nil {
		respondInternalError(c, err, "count documents")
		return
	}
	records, err := dc.store.List(etlName, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list documents")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(records, total, limit, offset))
}

// Show handles GET /api/documents/:id
func (dc *DocumentsController) Show(c *gin.Context) {
	doc, err := dc.store.Document(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "document")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get document")
		return
	}
	c.JSON(http.StatusOK, doc)
}
