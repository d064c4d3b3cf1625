package ui

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"cetaksoal/domain/exam"
	"cetaksoal/internal/errors"
	"cetaksoal/internal/guide"
	"cetaksoal/internal/render"
	"cetaksoal/internal/state"

	"github.com/gin-gonic/gin"
)

const generationHeader = "X-Document-Generation"

type indexView struct {
	Snapshot    state.Snapshot
	Settings    exam.Settings
	Document    template.HTML
	MathScript  template.HTML
	Error       string
	Imports     []exam.ImportEvent
	Columns     []int
	Aligns      []exam.Align
	Accept      string
	MinFontSize float64
	MaxFontSize float64
}

// wantsJSON reports whether the caller is the page script rather than a
// plain form submit
func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}

func setGeneration(c *gin.Context, gen uint64) {
	c.Header(generationHeader, strconv.FormatUint(gen, 10))
}

func (s *Server) handleIndex(c *gin.Context) {
	snap := s.store.Snapshot()
	fragment, err := s.renderer.FragmentHTML(snap)
	if err != nil {
		s.logger.Error("failed to render preview: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Preview rendering failed"})
		return
	}

	imports, err := s.importer.Recent(c.Request.Context(), s.config.RecentImports)
	if err != nil {
		s.logger.Warn("failed to list recent imports: %v", err)
	}

	view := indexView{
		Snapshot:    snap,
		Settings:    snap.Settings,
		Document:    fragment,
		MathScript:  s.mathScript,
		Imports:     imports,
		Columns:     []int{1, 2, 3},
		Aligns:      []exam.Align{exam.AlignLeft, exam.AlignCenter, exam.AlignRight, exam.AlignJustify},
		Accept:      strings.Join(s.config.AllowedTypes, ","),
		MinFontSize: exam.MinFontSize,
		MaxFontSize: exam.MaxFontSize,
	}
	if c.Query("error") == "import" {
		view.Error = errors.ImportFailedMessage
	}

	setGeneration(c, snap.Generation)
	s.renderTemplate(c, indexTemplate, view)
}

// handleFragment serves the preview alone so the page can swap it in
// after another tab changed the document
func (s *Server) handleFragment(c *gin.Context) {
	snap := s.store.Snapshot()
	fragment, err := s.renderer.FragmentHTML(snap)
	if err != nil {
		s.logger.Error("failed to render fragment: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	setGeneration(c, snap.Generation)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))
}

func (s *Server) handlePrint(c *gin.Context) {
	html, gen, err := s.refresher.Current(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to render document: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	setGeneration(c, gen)
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (s *Server) handleGuide(c *gin.Context) {
	s.renderTemplate(c, guideTemplate, gin.H{"Guide": guide.HTML()})
}

func (s *Server) handleDocumentCSS(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(render.Stylesheet()))
}

func (s *Server) handleState(c *gin.Context) {
	snap := s.store.Snapshot()
	setGeneration(c, snap.Generation)
	c.JSON(http.StatusOK, snap)
}

// handleImport replaces the question set with the uploaded workbook. Any
// failure shows the same notification and keeps the previous set.
func (s *Server) handleImport(c *gin.Context) {
	fail := func(err error) {
		s.logger.Info("import rejected: %v", err)
		if wantsJSON(c) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": gin.H{
				"code":    errors.GetCode(err),
				"message": errors.UserMessage(err),
			}})
			return
		}
		c.Redirect(http.StatusSeeOther, "/?error=import")
	}

	header, err := c.FormFile("file")
	if err != nil {
		fail(errors.ImportFailed(err))
		return
	}
	file, err := header.Open()
	if err != nil {
		fail(errors.ImportFailed(err))
		return
	}
	defer file.Close()

	result, err := s.importer.Import(c.Request.Context(), header.Filename, file)
	if err != nil {
		fail(err)
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"importId":   result.ImportID,
			"count":      result.Count,
			"generation": s.store.Snapshot().Generation,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// handleSettings overlays the submitted fields on the current settings.
// Fields the request leaves out keep their values.
func (s *Server) handleSettings(c *gin.Context) {
	settings := s.store.Snapshot().Settings
	if err := c.ShouldBind(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": errors.CodeInvalidInput, "message": err.Error()}})
		return
	}

	snap := s.store.SetSettings(settings)
	if wantsJSON(c) {
		setGeneration(c, snap.Generation)
		c.JSON(http.StatusOK, gin.H{"generation": snap.Generation, "settings": snap.Settings})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// handleHeader stores letterhead edits, usually sent when an editable KOP
// field loses focus
func (s *Server) handleHeader(c *gin.Context) {
	header := s.store.Snapshot().Header
	if err := c.ShouldBind(&header); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": errors.CodeInvalidInput, "message": err.Error()}})
		return
	}

	snap := s.store.SetHeader(header)
	if wantsJSON(c) {
		setGeneration(c, snap.Generation)
		c.JSON(http.StatusOK, gin.H{"generation": snap.Generation, "header": snap.Header})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
