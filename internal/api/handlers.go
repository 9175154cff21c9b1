package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/idcardapp/internal/card"
	"github.com/youruser/idcardapp/internal/holders"
	imagepkg "github.com/youruser/idcardapp/internal/image"
)

// health
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) templatesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default":   s.cfg.Render.DefaultTemplate,
		"templates": s.cfg.TemplateNames(),
		"fonts":     s.renderer.Compositor.Fonts().Families(),
	})
}

type cardRequest struct {
	Template string            `json:"template"`
	Layout   *card.Layout      `json:"layout"`
	Fields   map[string]string `json:"fields"`
	Format   string            `json:"format"`
	Quality  float64           `json:"quality"`
	Download bool              `json:"download"`
	Filename string            `json:"filename"`
}

// cardHandler renders a card from a named template or an inline layout.
func (s *Server) cardHandler(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	var layout card.Layout
	if req.Layout != nil {
		layout = *req.Layout
	} else {
		l, ok := s.cfg.Template(req.Template)
		if !ok {
			s.fail(c, http.StatusNotFound, errors.New("unknown template "+strconv.Quote(req.Template)))
			return
		}
		layout = l
	}
	applyOutput(&layout, req.Format, req.Quality)

	res, err := s.renderer.Render(c.Request.Context(), layout, req.Fields)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	name := ""
	if req.Download {
		name = card.DownloadName(s.cfg.Render.DownloadPrefix, req.Filename, res.Format)
	}
	s.writeCard(c, res, name)
}

func (s *Server) holdersHandler(c *gin.Context) {
	opt := holders.FilterOptions{FreeWords: c.Query("search")}
	if v := c.Query("department"); v != "" {
		opt.Departments = strings.Split(v, ",")
	}
	if v := c.Query("id"); v != "" {
		opt.IDs = strings.Split(v, ",")
	}
	out := s.holders.Filter(opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "holders": out})
}

func (s *Server) filterHandler(c *gin.Context) {
	var opt holders.FilterOptions
	if err := c.ShouldBindJSON(&opt); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	out := s.holders.Filter(opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "holders": out})
}

// holderCardHandler renders the card of a stored holder.
func (s *Server) holderCardHandler(c *gin.Context) {
	h, ok := s.holders.Get(c.Param("id"))
	if !ok {
		s.fail(c, http.StatusNotFound, errors.New("unknown holder "+strconv.Quote(c.Param("id"))))
		return
	}
	layout, ok := s.cfg.Template(c.Query("template"))
	if !ok {
		s.fail(c, http.StatusNotFound, errors.New("unknown template "+strconv.Quote(c.Query("template"))))
		return
	}
	quality, _ := strconv.ParseFloat(c.Query("quality"), 64)
	applyOutput(&layout, c.Query("format"), quality)

	res, err := s.renderer.Render(c.Request.Context(), layout, h.Fields())
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}
	name := ""
	if download, _ := strconv.ParseBool(c.Query("download")); download {
		id := h.IDNumber
		if id == "" {
			id = h.ID
		}
		name = card.DownloadName(s.cfg.Render.DownloadPrefix, id, res.Format)
	}
	s.writeCard(c, res, name)
}

// qr endpoint returns a PNG of a QR for "text" query param
func (s *Server) qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		s.fail(c, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	size := 256
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > imagepkg.MaxQRSize {
			s.fail(c, http.StatusBadRequest, errors.New("size must be between 1 and "+strconv.Itoa(imagepkg.MaxQRSize)))
			return
		}
		size = n
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.Data(http.StatusOK, imagepkg.FormatPNG.MIMEType(), b)
}

func applyOutput(l *card.Layout, format string, quality float64) {
	if format != "" {
		l.Format = format
	}
	if quality > 0 {
		l.Quality = quality
	}
}

func (s *Server) writeCard(c *gin.Context, res *card.Result, downloadName string) {
	if len(res.Skipped) > 0 {
		c.Header("X-Skipped-Layers", strings.Join(res.SkippedLayers(), ","))
		for _, sk := range res.Skipped {
			s.log(c).Warn("layer skipped", zap.String("layer", sk.Layer), zap.Error(sk.Err))
		}
	}
	if downloadName != "" {
		c.Header("Content-Disposition", card.ContentDisposition(downloadName))
	}
	c.Data(http.StatusOK, res.Format.MIMEType(), res.Image)
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, card.ErrInvalidLayout),
		errors.Is(err, imagepkg.ErrInvalidDimension),
		errors.Is(err, imagepkg.ErrInvalidPlacement),
		errors.Is(err, imagepkg.ErrInvalidText),
		errors.Is(err, imagepkg.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, imagepkg.ErrImageLoad):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
