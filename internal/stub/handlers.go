package stub

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
	"github.com/go-chi/chi/v5"
)

const maxBody = 1 << 20

// envelope is the wire shape of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type page struct {
	Items []sqlite.Document `json:"items"`
	Total int               `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// rejection is a failure reported to the client with its own status.
type rejection struct {
	status  int
	message string
}

func (r *rejection) Error() string { return r.message }

func reject(status int, format string, args ...any) error {
	return &rejection{status: status, message: fmt.Sprintf(format, args...)}
}

// fail writes err as a handled failure, logging unexpected errors.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var rej *rejection
	switch {
	case errors.As(err, &rej):
		writeFailure(w, rej.status, rej.message)
	case errors.Is(err, sqlite.ErrRecordNotFound):
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("%s %s not found", resources[chi.URLParam(r, "resource")], chi.URLParam(r, "id")))
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeDocument(r *http.Request) (sqlite.Document, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, reject(http.StatusBadRequest, "could not read body")
	}
	var doc sqlite.Document
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		return nil, reject(http.StatusBadRequest, "body must be a JSON object")
	}
	return doc, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	records, err := s.store.List(r.Context(), resource)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	docs := make([]sqlite.Document, 0, len(records))
	for _, rec := range records {
		if q.matches(rec.Body, s.facets[resource]) {
			docs = append(docs, rec.Body)
		}
	}
	if q.limit == 0 {
		writeData(w, http.StatusOK, docs, "")
		return
	}
	writeData(w, http.StatusOK, page{
		Items: listview.Paginate(docs, q.page, q.limit),
		Total: len(docs),
	}, "")
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rec.Body, "")
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	doc, err := decodeDocument(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if doc.ID() == "" {
		delete(doc, "id")
	}
	if err := s.checkDocument(r, resource, doc, ""); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.Put(r.Context(), resource, doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, rec.Body, rec.Body.ID())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	resource, id := chi.URLParam(r, "resource"), chi.URLParam(r, "id")
	if _, err := s.store.Get(r.Context(), resource, id); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := decodeDocument(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc["id"] = id
	if err := s.checkDocument(r, resource, doc, id); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.store.Put(r.Context(), resource, doc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, rec.Body, "")
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	resource, id := chi.URLParam(r, "resource"), chi.URLParam(r, "id")
	if resource == "stations" {
		n, err := s.countWhere(r, "pompistes", "stationId", id)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if n > 0 {
			s.fail(w, r, reject(http.StatusConflict, "station still has %d pompiste(s)", n))
			return
		}
	}
	if err := s.store.Delete(r.Context(), resource, id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil, "")
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	resource, id, name := chi.URLParam(r, "resource"), chi.URLParam(r, "id"), chi.URLParam(r, "action")
	act, ok := actions[resource][name]
	if !ok {
		writeFailure(w, http.StatusNotFound, fmt.Sprintf("unknown action %s on %s", name, resource))
		return
	}
	rec, err := s.store.Get(r.Context(), resource, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	payload := sqlite.Document{}
	if r.ContentLength != 0 {
		if payload, err = decodeDocument(r); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	if err := act(s, r, rec.Body, payload); err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.store.Put(r.Context(), resource, rec.Body); err != nil {
		s.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, nil, "")
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), "invoices", chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sqlite.ErrRecordNotFound) {
			writeFailure(w, http.StatusNotFound, "invoice "+chi.URLParam(r, "id")+" not found")
			return
		}
		s.fail(w, r, err)
		return
	}
	number := str(rec.Body["number"])
	if number == "" {
		number = rec.Body.ID()
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+number+`.pdf"`)
	data := invoicePDF(rec.Body)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

// checkDocument enforces references and unique fields. self is the id of
// the updated record, or "" on create.
func (s *Server) checkDocument(r *http.Request, resource string, doc sqlite.Document, self string) error {
	for field, target := range references[resource] {
		id := str(doc[field])
		if id == "" {
			return reject(http.StatusUnprocessableEntity, "%s is required", field)
		}
		if _, err := s.store.Get(r.Context(), target, id); err != nil {
			if errors.Is(err, sqlite.ErrRecordNotFound) {
				return reject(http.StatusUnprocessableEntity, "%s %s does not exist", resources[target], id)
			}
			return err
		}
	}
	field, ok := uniqueFields[resource]
	if !ok {
		return nil
	}
	value := str(doc[field])
	if value == "" {
		return nil
	}
	records, err := s.store.List(r.Context(), resource)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Body.ID() != self && str(rec.Body[field]) == value {
			return reject(http.StatusConflict, "a %s with %s %q already exists", resources[resource], field, value)
		}
	}
	return nil
}

func (s *Server) countWhere(r *http.Request, resource, field, value string) (int, error) {
	records, err := s.store.List(r.Context(), resource)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rec := range records {
		if str(rec.Body[field]) == value {
			n++
		}
	}
	return n, nil
}

// references lists fields that must name an existing record.
var references = map[string]map[string]string{
	"pompistes": {"stationId": "stations"},
	"invoices":  {"clientId": "clients"},
}

var uniqueFields = map[string]string{
	"stations": "name",
	"clients":  "email",
	"invoices": "number",
}
