package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/steelcalc/internal/catalog"
	"github.com/Simplici0/steelcalc/internal/display"
	"github.com/Simplici0/steelcalc/internal/pricing"
	"github.com/Simplici0/steelcalc/internal/quote"
)

const maxImportBytes = 10 << 20

// valueRequest is the body of every numeric edit. The value is the raw text of
// the field so the server applies the same validation as the form.
type valueRequest struct {
	Value string `json:"value"`
}

type gradeRequest struct {
	Name         string `json:"name"`
	CostPerPound string `json:"costPerPound"`
	Notes        string `json:"notes"`
	Active       *bool  `json:"active"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *server) writeState(w http.ResponseWriter, engine *pricing.Engine) {
	writeJSON(w, http.StatusOK, newStateView(engine.State(), s.format))
}

func decodeValue(r *http.Request) (float64, error) {
	var req valueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return 0, fmt.Errorf("invalid request payload")
	}
	return display.ParseNumeric(req.Value)
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w, engineFrom(r))
}

func (s *server) handleSetInput(w http.ResponseWriter, r *http.Request) {
	field, err := pricing.ParseField(chi.URLParam(r, "field"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine := engineFrom(r)
	if err := engine.SetPrimaryInput(field, value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeState(w, engine)
}

func (s *server) handleSetMargin(w http.ResponseWriter, r *http.Request) {
	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine := engineFrom(r)
	engine.SetMargin(value)
	s.writeState(w, engine)
}

func (s *server) handleSetPrice(w http.ResponseWriter, r *http.Request) {
	kind, err := pricing.ParsePriceKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	value, err := decodeValue(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	engine := engineFrom(r)
	if err := engine.SetDerivedPrice(kind, value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeState(w, engine)
}

func (s *server) handleFlush(w http.ResponseWriter, r *http.Request) {
	engine := engineFrom(r)
	engine.Flush()
	s.writeState(w, engine)
}

func (s *server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(sessionFrom(r).id)
	s.signer.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleGradesList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "1"
	grades, err := s.grades.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load steel grades")
		return
	}
	writeJSON(w, http.StatusOK, newGradeViews(grades, s.format))
}

// parseGradeRequest decodes a grade body. The second result reports whether
// the body set "active"; when it did not, the grade is returned active.
func parseGradeRequest(r *http.Request) (catalog.Grade, bool, error) {
	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return catalog.Grade{}, false, fmt.Errorf("invalid request payload")
	}

	cost, err := display.ParseNumeric(req.CostPerPound)
	if err != nil {
		return catalog.Grade{}, false, err
	}

	g := catalog.Grade{Name: req.Name, CostPerPound: cost, Notes: req.Notes, Active: true}
	if req.Active != nil {
		g.Active = *req.Active
	}
	return g, req.Active != nil, nil
}

func (s *server) handleGradesCreate(w http.ResponseWriter, r *http.Request) {
	g, _, err := parseGradeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.grades.Create(r.Context(), g)
	if err != nil {
		s.writeGradeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGradeViews([]catalog.Grade{created}, s.format)[0])
}

func (s *server) handleGradesUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid steel grade id")
		return
	}

	g, activeSet, err := parseGradeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.ID = id

	if !activeSet {
		existing, err := s.grades.Get(r.Context(), id)
		if err != nil {
			s.writeGradeError(w, err)
			return
		}
		g.Active = existing.Active
	}

	if err := s.grades.Update(r.Context(), g); err != nil {
		s.writeGradeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGradeViews([]catalog.Grade{g}, s.format)[0])
}

// handleGradesApply copies a grade's cost per pound into the session.
func (s *server) handleGradesApply(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid steel grade id")
		return
	}

	g, err := s.grades.Get(r.Context(), id)
	if err != nil {
		s.writeGradeError(w, err)
		return
	}

	engine := engineFrom(r)
	if err := engine.SetPrimaryInput(pricing.CostPerPound, g.CostPerPound); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeState(w, engine)
}

func (s *server) handleGradesImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	res, err := s.grades.ImportXLSX(r.Context(), file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"inserted": res.Inserted,
		"updated":  res.Updated,
		"skipped":  res.Skipped,
	})
}

func (s *server) writeGradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrInvalidGrade):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "failed to save steel grade")
	}
}

// quoteSnapshot reconciles any pending price edit so exports never show a
// half-applied state.
func (s *server) quoteSnapshot(r *http.Request) (pricing.State, quote.Options) {
	sess := sessionFrom(r)
	sess.engine.Flush()

	opts := quote.Options{
		Title:     r.URL.Query().Get("title"),
		Reference: sess.id,
		Date:      time.Now(),
		Formatter: s.format,
	}
	return sess.engine.State(), opts
}

func (s *server) handleQuotePDF(w http.ResponseWriter, r *http.Request) {
	state, opts := s.quoteSnapshot(r)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"steel-quote.pdf\"")
	if err := quote.WritePDF(w, state, opts); err != nil {
		http.Error(w, "quote generation error", http.StatusInternalServerError)
		return
	}
}

func (s *server) handleQuoteXLSX(w http.ResponseWriter, r *http.Request) {
	state, opts := s.quoteSnapshot(r)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"steel-quote.xlsx\"")
	if err := quote.WriteXLSX(w, state, opts); err != nil {
		http.Error(w, "quote generation error", http.StatusInternalServerError)
		return
	}
}
