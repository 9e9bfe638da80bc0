package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/backoffice-suite/backoffice/internal/listview"
)

// Station is a CarbuGo fuel station with its pump queue.
type Station struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=80"`
	City        string `json:"city" validate:"required"`
	Capacity    int    `json:"capacity" validate:"gt=0"`
	QueueLength int    `json:"queueLength" validate:"gte=0"`
	Active      bool   `json:"active"`
}

// OccupancyRate is the queue length as a percentage of capacity.
func (s Station) OccupancyRate() float64 {
	return listview.Rate(float64(s.QueueLength), float64(s.Capacity))
}

// Severity classifies the occupancy rate.
func (s Station) Severity() string {
	return listview.Severity(s.OccupancyRate(), listview.OccupancyThresholds)
}

// Pompiste is a pump attendant assigned to a station.
type Pompiste struct {
	ID        string `json:"id"`
	StationID string `json:"stationId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone" validate:"required,min=8"`
	Active    bool   `json:"active"`
	// StationName is filled in from the station list, not sent by the API.
	StationName string `json:"-"`
}

// Cities served by CarbuGo.
var Cities = map[string]string{
	"Ouagadougou":    "Ouagadougou",
	"Bobo-Dioulasso": "Bobo-Dioulasso",
	"Koudougou":      "Koudougou",
	"Banfora":        "Banfora",
}

// Status labels. No label may contain another, since category filters
// also match by containment.
var (
	openLabels = map[string]string{"true": "Open", "false": "Closed"}
	dutyLabels = map[string]string{"true": "On duty", "false": "Off duty"}
)

// StationDescriptor describes the stations screen.
func StationDescriptor() Descriptor[Station] {
	return Descriptor[Station]{
		Name:     "stations",
		Title:    "Stations",
		Noun:     "station",
		Product:  ProductCarbuGo,
		Resource: "stations",
		Mode:     listview.ServerPaged,
		Roles:    []Role{RoleManager},
		Columns: []Column[Station]{
			{Title: "Name", Width: 24, Value: func(s Station) string { return s.Name }},
			{Title: "City", Width: 16, Value: func(s Station) string { return s.City }},
			{Title: "Queue", Width: 8, Value: func(s Station) string {
				return fmt.Sprintf("%d/%d", s.QueueLength, s.Capacity)
			}},
			{Title: "Occupancy", Width: 10, Value: func(s Station) string {
				return strconv.FormatFloat(s.OccupancyRate(), 'f', 0, 64) + "%"
			}},
			{Title: "Status", Width: 10, Value: func(s Station) string { return openLabels[strconv.FormatBool(s.Active)] }},
		},
		Schema: listview.Schema[Station]{
			SearchFields: func(s Station) []string { return []string{s.Name, s.City, s.ID} },
			Categories: []listview.CategoryFilter[Station]{
				category("city", "City", Cities, func(s Station) string { return s.City }),
				category("active", "Status", openLabels, func(s Station) string { return strconv.FormatBool(s.Active) }),
			},
		},
		Fields: []Field[Station]{
			textField("name", "Name", func(s *Station) *string { return &s.Name }),
			choiceField("city", "City", Cities, func(s *Station) *string { return &s.City }),
			intField("capacity", "Capacity", func(s *Station) *int { return &s.Capacity }),
			intField("queueLength", "Queue length", func(s *Station) *int { return &s.QueueLength }),
			boolField("active", "Active", func(s *Station) *bool { return &s.Active }),
		},
		Default:  func() Station { return Station{Capacity: 20, Active: true} },
		ID:       func(s Station) string { return s.ID },
		Validate: validateStation,
		Actions: []Action{
			{Name: "toggle", Title: "Enable/disable"},
			Delete,
		},
		Severity: Station.Severity,
	}
}

func validateStation(s Station) error {
	if s.QueueLength > s.Capacity*3 {
		return errors.New("queue length is implausible for this capacity")
	}
	return nil
}

// PompisteDescriptor describes the pompistes screen. Rows are gathered per
// station, so the screen pages locally.
func PompisteDescriptor() Descriptor[Pompiste] {
	return Descriptor[Pompiste]{
		Name:     "pompistes",
		Title:    "Pompistes",
		Noun:     "pompiste",
		Product:  ProductCarbuGo,
		Resource: "pompistes",
		Mode:     listview.ClientPaged,
		Roles:    []Role{RoleManager},
		Columns: []Column[Pompiste]{
			{Title: "Name", Width: 22, Value: func(p Pompiste) string { return p.Name }},
			{Title: "Phone", Width: 14, Value: func(p Pompiste) string { return p.Phone }},
			{Title: "Station", Width: 22, Value: func(p Pompiste) string {
				if p.StationName != "" {
					return p.StationName
				}
				return p.StationID
			}},
			{Title: "Status", Width: 10, Value: func(p Pompiste) string { return dutyLabels[strconv.FormatBool(p.Active)] }},
		},
		Schema: listview.Schema[Pompiste]{
			SearchFields: func(p Pompiste) []string { return []string{p.Name, p.Phone, p.StationName} },
			Categories: []listview.CategoryFilter[Pompiste]{
				category("active", "Status", dutyLabels, func(p Pompiste) string { return strconv.FormatBool(p.Active) }),
			},
		},
		Fields: []Field[Pompiste]{
			textField("name", "Name", func(p *Pompiste) *string { return &p.Name }),
			textField("phone", "Phone", func(p *Pompiste) *string { return &p.Phone }),
			textField("stationId", "Station id", func(p *Pompiste) *string { return &p.StationID }),
			boolField("active", "Active", func(p *Pompiste) *bool { return &p.Active }),
		},
		Default: func() Pompiste { return Pompiste{Active: true} },
		ID:      func(p Pompiste) string { return p.ID },
		Actions: []Action{
			{Name: "reassign", Title: "Reassign to station", Destructive: true, Param: "stationId"},
			Delete,
		},
	}
}
