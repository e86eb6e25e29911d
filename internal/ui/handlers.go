package ui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jpl-au/searchrelay/internal/engine"
	"github.com/jpl-au/searchrelay/internal/log"
	"github.com/jpl-au/searchrelay/internal/relay"
	"github.com/jpl-au/searchrelay/internal/store"
	"github.com/jpl-au/searchrelay/internal/transfer"
	"github.com/jpl-au/searchrelay/internal/validate"
)

// maxBody bounds request bodies; settings files are small.
const maxBody = 1 << 20

// engineRequest is the body of engine create and update requests.
type engineRequest struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Badge    string `json:"badge"`
	Domain   string `json:"domain"`
	Param    string `json:"param"`
	IsTarget bool   `json:"isTarget"`
	IsSource bool   `json:"isSource"`
}

func (e engineRequest) input() engine.Input {
	return engine.Input{
		Name:     e.Name,
		URL:      e.URL,
		Badge:    e.Badge,
		Domain:   e.Domain,
		Param:    e.Param,
		IsTarget: e.IsTarget,
		IsSource: e.IsSource,
	}
}

type indexData struct {
	Settings engine.Settings
	Badge    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	data := indexData{Settings: st}
	if b := s.router.Presenter().Badge(); b.Visible {
		data.Badge = b.Text
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.logger.Error("render settings page", "error", err)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleEngines(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Engines)
}

func (s *Server) handleAddEngine(w http.ResponseWriter, r *http.Request) {
	var req engineRequest
	if !decode(w, r, &req) {
		return
	}
	e, err := s.svc.AddEngine(r.Context(), req.input(), s.author)
	log.Event("ui:engine_add", "add").Author(s.author).Engine(e.ID).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateEngine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req engineRequest
	if !decode(w, r, &req) {
		return
	}
	e, err := s.svc.UpdateEngine(r.Context(), id, req.input(), s.author)
	log.Event("ui:engine_update", "update").Author(s.author).Engine(id).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleDeleteEngine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := s.svc.DeleteEngine(r.Context(), id, s.author)
	log.Event("ui:engine_delete", "delete").Author(s.author).Engine(id).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleSetRoles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		IsTarget bool `json:"isTarget"`
		IsSource bool `json:"isSource"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.svc.SetRoles(r.Context(), id, req.IsTarget, req.IsSource, s.author)
	log.Event("ui:engine_roles", "update").Author(s.author).Engine(id).
		Detail("target", req.IsTarget).Detail("source", req.IsSource).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.handleSettings(w, r)
}

func (s *Server) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.svc.SelectTarget(r.Context(), req.ID, s.author)
	log.Event("ui:target", "select").Author(s.author).Engine(req.ID).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.handleSettings(w, r)
}

func (s *Server) handleBadge(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Presenter().Badge())
}

func (s *Server) handleSetBadge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Show bool `json:"show"`
	}
	if !decode(w, r, &req) {
		return
	}
	err := s.svc.SetShowBadge(r.Context(), req.Show, s.author)
	log.Event("ui:badge", "update").Author(s.author).Detail("show", req.Show).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.router.Presenter().Badge())
}

func (s *Server) handleMenu(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Presenter().Menu())
}

// handleReset restores the defaults. The request must carry confirm=true.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "reset requires confirm=true"})
		return
	}
	st, err := s.svc.Reset(r.Context(), s.author)
	log.Event("ui:reset", "reset").Author(s.author).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	revs, err := s.svc.History(r.Context(), r.URL.Query().Get("key"), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]store.RevisionJSON, len(revs))
	for i := range revs {
		out[i] = revs[i].ToJSON()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Content-Disposition", `attachment; filename="searchrelay.yaml"`)
	if err := transfer.Export(w, st); err != nil {
		s.logger.Error("export settings", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	st, err := transfer.Import(io.LimitReader(r.Body, maxBody))
	if err == nil {
		err = s.svc.Replace(r.Context(), st, s.author)
	}
	log.Event("ui:import", "import").Author(s.author).Detail("engines", len(st.Engines)).Write(err)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleTriggerIcon(w http.ResponseWriter, r *http.Request) {
	out, err := s.router.IconClick(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTriggerMenu(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID        string `json:"itemId"`
		SelectionText string `json:"selectionText"`
	}
	if !decode(w, r, &req) {
		return
	}
	out, err := s.router.Handle(r.Context(), relay.Event{
		Kind:          relay.MenuClick,
		MenuItemID:    req.ItemID,
		SelectionText: req.SelectionText,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps err to a status: 422 for rejected input, 404 for an
// unknown engine and 500 otherwise.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case validate.IsValidation(err), errors.Is(err, engine.ErrNotTarget),
		errors.Is(err, transfer.ErrEmpty), errors.Is(err, transfer.ErrUnsupportedVersion),
		errors.Is(err, transfer.ErrMalformed):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrEngineNotFound):
		status = http.StatusNotFound
	default:
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
