package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/edge2meet/signaling/internal/app"
)

// handlerDownload serves a stored blob by id as an attachment with its
// original filename. Expired and never-stored ids both yield 404.
func handlerDownload(files *app.FileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileID := c.Param("file_id")
		name, data, err := files.Get(fileID)
		if err != nil {
			log.Info().Str("module", "adapters.http").Str("file_id", fileID).Msg("download miss")
			c.String(http.StatusNotFound, "File not found")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, "application/octet-stream", data)
	}
}

// handlerRooms lists live rooms and their counts for the landing page.
func handlerRooms(coord *app.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": coord.Rooms()})
	}
}
