package http

import (
	"bytes"
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/nav"
	"fintrack/internal/view"
)

// pageData backs the full page; every section is rendered, only the
// active one is visible.
type pageData struct {
	Title         string
	Active        nav.Section
	Sections      []navItem
	Loaded        bool
	Dashboard     view.Dashboard
	Wallet        view.Wallet
	Analytics     view.Analytics
	Form          formData
	SheetsEnabled bool
}

type navItem struct {
	Section nav.Section
	Title   string
	Active  bool
}

func (s *Server) navItems() []navItem {
	items := make([]navItem, 0, len(nav.Sections))
	for _, sec := range nav.Sections {
		items = append(items, navItem{Section: sec, Title: sec.Title(), Active: s.nav.IsActive(sec)})
	}
	return items
}

type formData struct {
	Today  string
	Errors FieldErrors
}

func (s *Server) newFormData() formData {
	return formData{Today: time.Now().Format(core.DateLayout)}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	txs, _ := s.store.Snapshot()
	active := s.nav.Active()
	data := pageData{
		Title:         active.Title(),
		Active:        active,
		Sections:      s.navItems(),
		Loaded:        s.store.Loaded(),
		Dashboard:     view.NewDashboard(txs, s.format),
		Wallet:        view.NewWallet(txs, "", s.format),
		Analytics:     view.NewAnalytics(txs, s.format),
		Form:          s.newFormData(),
		SheetsEnabled: s.exporter != nil,
	}
	s.render(w, r, http.StatusOK, "index.html", data)
}

// handleNav switches the active section. Wallet and analytics are
// rendered afresh into their container; the dashboard only becomes visible.
func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	tr, err := s.nav.Select(r.URL.Query().Get("to"))
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Unknown navigation target",
			log.FieldOperation, log.OpNavigate, log.FieldError, err)
		BadRequestError("Unknown section").Write(w)
		return
	}
	log.FromContext(r.Context()).DebugContext(r.Context(), "Section selected",
		log.FieldOperation, log.OpNavigate, log.FieldSection, tr.To.String())

	resp := NewHTMXResponse().TriggerNavChanged(tr.To.String(), tr.Title)
	if !tr.Render {
		resp.Header("HX-Reswap", "none").Write(w)
		return
	}

	txs, _ := s.store.Snapshot()
	var (
		name string
		data any
	)
	switch tr.To {
	case nav.Wallet:
		name, data = "wallet", view.NewWallet(txs, "", s.format)
	case nav.Analytics:
		name, data = "analytics", view.NewAnalytics(txs, s.format)
	}
	body, err := s.execute(name, data)
	if err != nil {
		s.templateError(w, r, name, err)
		return
	}
	resp.Header("HX-Retarget", "#view-"+tr.To.String()).
		Header("HX-Reswap", "innerHTML").
		Header("Content-Type", "text/html; charset=utf-8").
		Body(body).
		Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	txs, _ := s.store.Snapshot()
	s.render(w, r, http.StatusOK, "dashboard", view.NewDashboard(txs, s.format))
}

// handleWallet renders the wallet; with HX-Target wallet-rows only the
// table body is returned, which is what the search box asks for.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	txs, _ := s.store.Snapshot()
	data := view.NewWallet(txs, searchTerm(r), s.format)
	name := "wallet"
	if r.Header.Get("HX-Target") == "wallet-rows" {
		name = "wallet_rows"
	}
	s.render(w, r, http.StatusOK, name, data)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	txs, _ := s.store.Snapshot()
	s.render(w, r, http.StatusOK, "analytics", view.NewAnalytics(txs, s.format))
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	s.render(w, r, http.StatusOK, "form", s.newFormData())
}

func (s *Server) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// render executes a template into a buffer first so a failure never
// leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	body, err := s.execute(name, data)
	if err != nil {
		s.templateError(w, r, name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) templateError(w http.ResponseWriter, r *http.Request, name string, err error) {
	log.LogError(r.Context(), "Template execution failed", err, log.ComponentTemplate, log.OpRender,
		log.LogFields{"template": name})
	http.Error(w, "template error", http.StatusInternalServerError)
}
