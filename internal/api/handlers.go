package api

import (
	"fmt"
	"net/http"
	"strings"

	"mediafetch/internal/downloader"
	"mediafetch/internal/downloader/media"
	"mediafetch/internal/notice"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type infoRequest struct {
	URL string `json:"url"`
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  notice.NoticeOnline.String(),
		"service": notice.NoticeService.String(),
	})
}

func (s *Server) apiBase(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  notice.NoticeOnline.String(),
		"message": notice.NoticeAPIBase.String(),
	})
}

func (s *Server) info(c *gin.Context) {
	var req infoRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		badRequest(c, "No URL provided")
		return
	}

	s.logger.Info("info requested", zap.String("url", req.URL), zap.String("trace_id", c.GetString(traceIDKey)))
	resp, err := s.downloader.Info(c.Request.Context(), req.URL)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) download(c *gin.Context) {
	var req downloader.Request
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		badRequest(c, notice.Translate(notice.ErrMissingData))
		return
	}

	s.logger.Info("download requested",
		zap.String("url", req.URL),
		zap.String("type", string(req.Type)),
		zap.String("quality", req.Quality),
		zap.String("format_id", req.FormatID),
		zap.String("trace_id", c.GetString(traceIDKey)),
	)
	res, err := s.downloader.Download(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) file(c *gin.Context) {
	name := c.Param("filename")
	f, fi, err := s.downloader.Open(name)
	if err != nil {
		c.Error(err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", media.ContentType(name))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, media.SanitizeFileName(name)))
	http.ServeContent(c.Writer, c.Request, name, fi.ModTime(), f)
	s.filesServed.Add(c.Request.Context(), 1)
}
