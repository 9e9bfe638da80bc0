package stub

import (
	"errors"
	"net/http"

	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
)

// action changes doc in place. payload carries the action parameter.
type action func(s *Server, r *http.Request, doc, payload sqlite.Document) error

var actions = map[string]map[string]action{
	"stations": {
		"toggle": func(_ *Server, _ *http.Request, doc, _ sqlite.Document) error {
			active, _ := doc["active"].(bool)
			doc["active"] = !active
			return nil
		},
	},
	"pompistes": {
		"reassign": func(s *Server, r *http.Request, doc, payload sqlite.Document) error {
			target := str(payload["stationId"])
			if target == "" {
				return reject(http.StatusUnprocessableEntity, "stationId is required")
			}
			if target == str(doc["stationId"]) {
				return reject(http.StatusConflict, "pompiste is already assigned to this station")
			}
			station, err := s.store.Get(r.Context(), "stations", target)
			if errors.Is(err, sqlite.ErrRecordNotFound) {
				return reject(http.StatusUnprocessableEntity, "station %s does not exist", target)
			}
			if err != nil {
				return err
			}
			if active, _ := station.Body["active"].(bool); !active {
				return reject(http.StatusConflict, "station %s is closed", str(station.Body["name"]))
			}
			doc["stationId"] = target
			return nil
		},
	},
	"invoices": {
		"send": func(_ *Server, _ *http.Request, doc, _ sqlite.Document) error {
			switch str(doc["status"]) {
			case "draft", "overdue":
				doc["status"] = "sent"
				return nil
			case "paid":
				return reject(http.StatusConflict, "invoice %s is already paid", str(doc["number"]))
			default:
				return reject(http.StatusConflict, "invoice %s was already sent", str(doc["number"]))
			}
		},
	},
}
