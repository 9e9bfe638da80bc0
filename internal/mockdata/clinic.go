package mockdata

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	firstNames = []string{"Awa", "Issa", "Mariam", "Boureima", "Fatimata", "Jean", "Salif", "Aminata", "Paul", "Rasmata", "Ousmane", "Élodie"}
	lastNames  = []string{"Ouédraogo", "Traoré", "Sawadogo", "Kaboré", "Compaoré", "Zongo", "Martin", "Diallo", "Sanou", "Konaté"}
	medicines  = map[string][]string{
		"antibiotic":   {"Amoxicilline 500mg", "Ciprofloxacine 250mg", "Doxycycline 100mg", "Azithromycine 250mg"},
		"analgesic":    {"Paracétamol 500mg", "Ibuprofène 400mg", "Tramadol 50mg"},
		"antimalarial": {"Artéméther-Luméfantrine", "Quinine 300mg", "Artésunate 60mg"},
		"vaccine":      {"BCG", "Fièvre jaune", "Méningite A", "Tétanos"},
	}
	medicineCategories = []string{"antibiotic", "analgesic", "antimalarial", "vaccine"}
	paymentMethods     = []string{"cash", "mobile_money", "card", "insurance"}
	paymentStatuses    = []string{"paid", "paid", "paid", "pending", "refunded"}
	staffRoles         = []string{"doctor", "nurse", "pharmacist", "cashier", "reception"}
)

// Epoch anchors generated dates so they do not depend on the clock.
var Epoch = time.Date(2026, time.January, 1, 8, 0, 0, 0, time.UTC)

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func pick[T any](r *rand.Rand, from []T) T {
	return from[r.IntN(len(from))]
}

func personName(r *rand.Rand) string {
	return pick(r, firstNames) + " " + pick(r, lastNames)
}

// Medicines generates n pharmacy stock lines.
func Medicines(seed uint64, n int) []domain.Medicine {
	r := newRand(seed)
	out := make([]domain.Medicine, n)
	for i := range out {
		cat := pick(r, medicineCategories)
		stock := r.IntN(200)
		if r.IntN(8) == 0 {
			stock = 0
		}
		out[i] = domain.Medicine{
			ID:       fmt.Sprintf("med-%d", i+1),
			Name:     pick(r, medicines[cat]),
			Category: cat,
			Stock:    stock,
			Price:    decimal.NewFromInt(int64(250 + r.IntN(60)*250)),
		}
	}
	return out
}

// Payments generates n cashier payments.
func Payments(seed uint64, n int) []domain.Payment {
	r := newRand(seed)
	out := make([]domain.Payment, n)
	for i := range out {
		out[i] = domain.Payment{
			ID:      fmt.Sprintf("pay-%d", i+1),
			Patient: personName(r),
			Amount:  decimal.NewFromInt(int64(1000 + r.IntN(100)*500)),
			Method:  pick(r, paymentMethods),
			Status:  pick(r, paymentStatuses),
			PaidAt:  Epoch.Add(time.Duration(r.IntN(90*24)) * time.Hour),
		}
	}
	return out
}

// Accounts generates n staff accounts.
func Accounts(seed uint64, n int) []domain.Account {
	r := newRand(seed)
	out := make([]domain.Account, n)
	seen := map[string]int{}
	for i := range out {
		first, last := pick(r, firstNames), pick(r, lastNames)
		username := strings.ToLower(asciiFold(string([]rune(first)[:1]) + last))
		seen[username]++
		if seen[username] > 1 {
			username = fmt.Sprintf("%s%d", username, seen[username])
		}
		banned := r.IntN(10) == 0
		sessions := 0
		if !banned {
			sessions = r.IntN(4)
		}
		out[i] = domain.Account{
			ID:             fmt.Sprintf("acc-%d", i+1),
			Username:       username,
			Role:           pick(r, staffRoles),
			Banned:         banned,
			ActiveSessions: sessions,
			LastLogin:      Epoch.Add(time.Duration(r.IntN(60*24)) * time.Hour),
		}
	}
	return out
}

var accentFolder = strings.NewReplacer("é", "e", "É", "E", "è", "e", "ô", "o", "ï", "i")

func asciiFold(s string) string {
	return accentFolder.Replace(s)
}

// ErrAlreadyRefunded is returned when refunding a refunded payment.
var ErrAlreadyRefunded = errors.New("payment already refunded")

// AccountActions are the row actions of the security screen.
var AccountActions = map[string]func(a *domain.Account, param string) error{
	"ban": func(a *domain.Account, _ string) error {
		if a.Banned {
			return fmt.Errorf("%s is already banned", a.Username)
		}
		a.Banned = true
		a.ActiveSessions = 0
		return nil
	},
	"unban": func(a *domain.Account, _ string) error {
		a.Banned = false
		return nil
	},
	"kill-switch": func(a *domain.Account, _ string) error {
		a.ActiveSessions = 0
		return nil
	},
}

// PaymentActions are the row actions of the cashier screen.
var PaymentActions = map[string]func(p *domain.Payment, param string) error{
	"refund": func(p *domain.Payment, _ string) error {
		if p.Status == "refunded" {
			return ErrAlreadyRefunded
		}
		p.Status = "refunded"
		return nil
	},
}

// MedicineTable returns the pharmacy backend.
func MedicineTable(seed uint64) *Table[domain.Medicine] {
	d := domain.MedicineDescriptor()
	return NewTable(Medicines(seed, 48), "med", d.ID, func(m *domain.Medicine, id string) { m.ID = id }).WithSchema(d.Schema)
}

// PaymentTable returns the cashier backend.
func PaymentTable(seed uint64) *Table[domain.Payment] {
	d := domain.PaymentDescriptor()
	return NewTable(Payments(seed, 64), "pay", d.ID, func(p *domain.Payment, id string) { p.ID = id }).WithSchema(d.Schema)
}

// AccountTable returns the security backend.
func AccountTable(seed uint64) *Table[domain.Account] {
	d := domain.AccountDescriptor()
	return NewTable(Accounts(seed, 30), "acc", d.ID, func(a *domain.Account, id string) { a.ID = id }).WithSchema(d.Schema)
}
