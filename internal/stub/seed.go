package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// seedID derives a stable uuid so seeded references survive reseeding.
func seedID(resource string, n int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("backoffice/%s/%d", resource, n))).String()
}

var seedStations = []domain.Station{
	{Name: "Total Ouaga 2000", City: "Ouagadougou", Capacity: 20, QueueLength: 17, Active: true},
	{Name: "Shell Gounghin", City: "Ouagadougou", Capacity: 15, QueueLength: 9, Active: true},
	{Name: "Oryx Tampouy", City: "Ouagadougou", Capacity: 10, QueueLength: 3, Active: true},
	{Name: "Total Sya", City: "Bobo-Dioulasso", Capacity: 12, QueueLength: 11, Active: true},
	{Name: "Petrofa Koudougou", City: "Koudougou", Capacity: 8, QueueLength: 0, Active: false},
	{Name: "Shell Banfora", City: "Banfora", Capacity: 10, QueueLength: 6, Active: true},
}

var seedPompistes = []struct {
	name, phone string
	station     int
	active      bool
}{
	{"Issa Ouédraogo", "70112233", 0, true},
	{"Mariam Traoré", "70223344", 0, true},
	{"Salif Kaboré", "76334455", 0, false},
	{"Awa Sawadogo", "78445566", 1, true},
	{"Paul Zongo", "70556677", 1, true},
	{"Rasmata Compaoré", "71667788", 2, true},
	{"Ousmane Diallo", "72778899", 3, true},
	{"Aminata Sanou", "73889900", 3, false},
	{"Boureima Konaté", "74990011", 3, true},
	{"Fatimata Traoré", "75001122", 5, true},
}

var seedClients = []domain.Client{
	{Name: "Jean Martin", Email: "jean.martin@example.com", Phone: "70000001", Service: "VisaCanada", Status: "in_progress"},
	{Name: "Sophie Martinez", Email: "sophie.martinez@example.com", Phone: "70000002", Service: "VisaFrance", Status: "prospect"},
	{Name: "Awa Ouédraogo", Email: "awa.ouedraogo@example.com", Phone: "70000003", Service: "Hajj", Status: "completed"},
	// Imported from the old tool with the label instead of the code.
	{Name: "Issa Kaboré", Email: "issa.kabore@example.com", Phone: "70000004", Service: "Visa Canada", Status: "in_progress"},
	{Name: "Mariam Zongo", Email: "mariam.zongo@example.com", Phone: "70000005", Service: "Ticketing", Status: "completed"},
	{Name: "Paul Sawadogo", Email: "paul.sawadogo@example.com", Service: "Tourism", Status: "cancelled"},
	{Name: "Salimata Diallo", Email: "salimata.diallo@example.com", Phone: "70000007", Service: "VisaCanada", Status: "prospect"},
	{Name: "Oumar Sanou", Email: "oumar.sanou@example.com", Phone: "70000008", Service: "Hajj", Status: "in_progress"},
	{Name: "Claire Martin", Email: "claire.martin@example.com", Phone: "70000009", Service: "VisaFrance", Status: "completed"},
	{Name: "Boukary Konaté", Email: "boukary.konate@example.com", Phone: "70000010", Service: "Ticketing", Status: "prospect"},
	{Name: "Rasmata Traoré", Email: "rasmata.traore@example.com", Phone: "70000011", Service: "Tourism", Status: "in_progress"},
	{Name: "Adama Compaoré", Email: "adama.compaore@example.com", Phone: "70000012", Service: "VisaCanada", Status: "completed"},
}

var invoiceStatuses = []string{"draft", "sent", "paid", "paid", "overdue"}

// Seed fills an empty store with sample data. A store that already holds
// stations is left alone.
func Seed(ctx context.Context, store *sqlite.Store) error {
	n, err := store.Count(ctx, "stations")
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	base := time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC)
	for i, st := range seedStations {
		st.ID = seedID("stations", i)
		if err := put(ctx, store, "stations", st); err != nil {
			return err
		}
	}
	for i, p := range seedPompistes {
		pm := domain.Pompiste{
			ID:        seedID("pompistes", i),
			StationID: seedID("stations", p.station),
			Name:      p.name,
			Phone:     p.phone,
			Active:    p.active,
		}
		if err := put(ctx, store, "pompistes", pm); err != nil {
			return err
		}
	}
	for i, c := range seedClients {
		c.ID = seedID("clients", i)
		if err := put(ctx, store, "clients", c); err != nil {
			return err
		}
	}
	for i := 0; i < 18; i++ {
		client := i % len(seedClients)
		inv := domain.Invoice{
			ID:       seedID("invoices", i),
			Number:   fmt.Sprintf("AT-2026-%04d", i+1),
			ClientID: seedID("clients", client),
			Amount:   decimal.NewFromInt(int64(150000 + (i*37%20)*25000)),
			Status:   invoiceStatuses[i%len(invoiceStatuses)],
			IssuedAt: base.AddDate(0, 0, i*3),
		}
		if err := put(ctx, store, "invoices", inv); err != nil {
			return err
		}
	}
	return nil
}

func put(ctx context.Context, store *sqlite.Store, resource string, v any) error {
	doc, err := toDocument(v)
	if err != nil {
		return fmt.Errorf("stub: seed %s: %w", resource, err)
	}
	if _, err := store.Put(ctx, resource, doc); err != nil {
		return fmt.Errorf("stub: seed %s: %w", resource, err)
	}
	return nil
}

func toDocument(v any) (sqlite.Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc sqlite.Document
	err = json.Unmarshal(data, &doc)
	return doc, err
}
