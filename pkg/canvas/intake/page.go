package intake

import (
	"embed"
	"html/template"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"collectivecanvas/pkg/canvas/i18n"
	"collectivecanvas/pkg/canvas/submission"
)

//go:embed assets/*
var assets embed.FS

var joinPage = template.Must(template.ParseFS(assets, "assets/join.html"))

type joinData struct {
	Title       string
	CanvasID    string
	Placeholder string
	Submit      string
	MaxLength   int
	Palette     []string
}

func (s *Server) serveJoinPage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start := time.Now()
	_ = participantID(w, r)

	data := joinData{
		Title:       i18n.T("PAGE_TITLE"),
		CanvasID:    s.cfg.CanvasID,
		Placeholder: i18n.T("PAGE_WORD_PLACEHOLDER"),
		Submit:      i18n.T("PAGE_SUBMIT"),
		MaxLength:   submission.MaxTokenLength,
	}
	for _, c := range submission.Palette {
		data.Palette = append(data.Palette, c.Hex())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	securityHeaders(w)
	if err := joinPage.Execute(w, data); err != nil {
		s.log.Errorf("SERVE: join page: %v", err)
		return
	}
	s.log.Debugf("SERVE: Join page to %s in %s", realIP(r), time.Since(start).Round(time.Microsecond))
}

func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	name := p.ByName("file")
	var contentType string
	switch path.Ext(name) {
	case ".css":
		contentType = "text/css; charset=utf-8"
	case ".js":
		contentType = "text/javascript; charset=utf-8"
	default:
		http.NotFound(w, r)
		return
	}
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Type", contentType)
	securityHeaders(w)
	_, _ = w.Write(data)
}

// QRSize is the edge length of the join QR code in pixels.
const QRSize = 320

// QR returns the join URL encoded as a PNG QR code.
func (s *Server) QR() ([]byte, error) {
	s.qrOnce.Do(func() {
		s.qrPNG, s.qrErr = qrcode.Encode(s.JoinURL(), qrcode.Medium, QRSize)
	})
	return s.qrPNG, s.qrErr
}

func (s *Server) serveQR(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	png, err := s.QR()
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	securityHeaders(w)
	_, _ = w.Write(png)
}
