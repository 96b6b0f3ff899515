package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleNuclideList(c *gin.Context) {
	names, err := s.lister.List()
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nuclides": names, "count": len(names)})
}

func (s *Server) handleReport(c *gin.Context) {
	name := c.Param("name")
	switch c.DefaultQuery("format", "markdown") {
	case "markdown":
		md, err := s.reports.Markdown(name)
		if err != nil {
			s.renderError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
	case "html":
		page, err := s.reports.HTML(name)
		if err != nil {
			s.renderError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be markdown or html"})
	}
}

func (s *Server) handleSlots(c *gin.Context) {
	rep, err := s.reports.Slots(c.Param("name"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
