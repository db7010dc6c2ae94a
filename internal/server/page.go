package server

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/http/httptest"

	"github.com/raysh454/urlanalyzer/internal/formctl"
	"github.com/raysh454/urlanalyzer/internal/logging"
	"github.com/raysh454/urlanalyzer/internal/webclient"
)

//go:embed web/page.html web/static
var webFS embed.FS

var pageTmpl = template.Must(template.ParseFS(webFS, "web/page.html"))

// inProcessBase is the origin the page controller posts to. Requests never
// leave the process.
const inProcessBase = "http://in-process"

// handlerTransport answers requests by calling h directly.
type handlerTransport struct {
	h http.Handler
}

func (t handlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rec := httptest.NewRecorder()
	t.h.ServeHTTP(rec, req)
	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// pageRenderer serves the form page. POST /submit runs a form controller
// against the in-process /analyze route and renders the resulting panels.
type pageRenderer struct {
	cfg       formctl.Config
	transport formctl.Transport
	logger    logging.Logger
}

func newPageRenderer(h http.Handler, cfg formctl.Config, logger logging.Logger) (*pageRenderer, error) {
	wc, err := webclient.NewNetHTTPClient(webclient.Config{}, logger, &http.Client{Transport: handlerTransport{h: h}})
	if err != nil {
		return nil, fmt.Errorf("page webclient: %w", err)
	}
	tr, err := formctl.NewHTTPTransport(wc, inProcessBase)
	if err != nil {
		return nil, err
	}
	return &pageRenderer{cfg: cfg, transport: tr, logger: logger.With(logging.Field{Key: "component", Value: "page"})}, nil
}

// handleIndex godoc
// @Summary Form page
// @Tags page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (p *pageRenderer) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc := formctl.NewDocument(r.URL.Query().Get("url"), "/submit")
	p.render(w, doc.State())
}

// handleSubmit godoc
// @Summary Submit the form page
// @Tags page
// @Accept x-www-form-urlencoded
// @Produce html
// @Param url formData string true "URL to analyze"
// @Success 200 {string} string "HTML page"
// @Router /submit [post]
func (p *pageRenderer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBody)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	doc := formctl.NewDocument(r.PostForm.Get("url"), "/submit")
	ctl, err := formctl.NewController(p.cfg, p.transport, doc, p.logger)
	if err != nil {
		p.logger.Error("creating form controller", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome := ctl.Submit(r.Context())
	p.logger.Debug("form submitted", logging.Field{Key: "outcome", Value: string(outcome)}, logging.Field{Key: "url", Value: ctl.LastSubmitted()})
	p.render(w, doc.State())
}

func (p *pageRenderer) render(w http.ResponseWriter, st formctl.DocumentState) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, st); err != nil {
		p.logger.Warn("rendering page", logging.Field{Key: "error", Value: err.Error()})
	}
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
