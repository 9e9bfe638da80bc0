package domain

import (
	"errors"
	"strconv"
	"time"

	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/shopspring/decimal"
)

// Medicine is a pharmacy stock line.
type Medicine struct {
	ID       string          `json:"id"`
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Stock    int             `json:"stock" validate:"gte=0"`
	Price    decimal.Decimal `json:"price"`
}

// LowStock is the stock level under which a medicine is flagged.
const LowStock = 20

// MedicineCategories are the pharmacy shelves.
var MedicineCategories = map[string]string{
	"antibiotic":   "Antibiotics",
	"analgesic":    "Analgesics",
	"antimalarial": "Antimalarials",
	"vaccine":      "Vaccines",
}

// Payment is a cashier payment.
type Payment struct {
	ID      string          `json:"id"`
	Patient string          `json:"patient" validate:"required"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method" validate:"required"`
	Status  string          `json:"status" validate:"required"`
	PaidAt  time.Time       `json:"paidAt"`
}

// PaymentMethods are the accepted means of payment.
var PaymentMethods = map[string]string{
	"cash":         "Cash",
	"mobile_money": "Mobile money",
	"card":         "Card",
	"insurance":    "Insurance",
}

// PaymentStatuses are the states of a payment.
var PaymentStatuses = map[string]string{
	"paid":     "Paid",
	"pending":  "Pending",
	"refunded": "Refunded",
}

// Account is a staff account watched by security.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username" validate:"required,min=3"`
	Role           string    `json:"role" validate:"required"`
	Banned         bool      `json:"banned"`
	ActiveSessions int       `json:"activeSessions" validate:"gte=0"`
	LastLogin      time.Time `json:"lastLogin"`
}

// StaffRoles are the roles of clinic staff accounts.
var StaffRoles = map[string]string{
	"doctor":     "Doctor",
	"nurse":      "Nurse",
	"pharmacist": "Pharmacist",
	"cashier":    "Cashier",
	"reception":  "Reception",
}

var bannedLabels = map[string]string{"true": "Banned", "false": "Allowed"}

// MedicineDescriptor describes the pharmacy screen.
func MedicineDescriptor() Descriptor[Medicine] {
	return Descriptor[Medicine]{
		Name:     "medicines",
		Title:    "Pharmacy",
		Noun:     "medicine",
		Product:  ProductClinic,
		Resource: "medicines",
		Mode:     listview.ClientPaged,
		Mock:     true,
		Roles:    []Role{RoleManager, RolePharmacist},
		Columns: []Column[Medicine]{
			{Title: "Name", Width: 24, Value: func(m Medicine) string { return m.Name }},
			{Title: "Category", Width: 14, Value: func(m Medicine) string { return labelOf(MedicineCategories, m.Category) }},
			{Title: "Stock", Width: 6, Value: func(m Medicine) string { return strconv.Itoa(m.Stock) }},
			{Title: "Price", Width: 14, Value: func(m Medicine) string { return FormatMoney(m.Price) }},
		},
		Schema: listview.Schema[Medicine]{
			SearchFields: func(m Medicine) []string { return []string{m.Name, m.ID} },
			Categories: []listview.CategoryFilter[Medicine]{
				category("category", "Category", MedicineCategories, func(m Medicine) string { return m.Category }),
			},
		},
		Fields: []Field[Medicine]{
			textField("name", "Name", func(m *Medicine) *string { return &m.Name }),
			choiceField("category", "Category", MedicineCategories, func(m *Medicine) *string { return &m.Category }),
			intField("stock", "Stock", func(m *Medicine) *int { return &m.Stock }),
			moneyField("price", "Price", func(m *Medicine) *decimal.Decimal { return &m.Price }),
		},
		Default: func() Medicine { return Medicine{Category: "analgesic"} },
		ID:      func(m Medicine) string { return m.ID },
		Validate: func(m Medicine) error {
			if !m.Price.IsPositive() {
				return errors.New("price must be positive")
			}
			return nil
		},
		Actions: []Action{Delete},
		Severity: func(m Medicine) string {
			switch {
			case m.Stock == 0:
				return listview.SeverityError
			case m.Stock < LowStock:
				return listview.SeverityWarning
			}
			return listview.SeveritySuccess
		},
	}
}

// PaymentDescriptor describes the cashier screen.
func PaymentDescriptor() Descriptor[Payment] {
	return Descriptor[Payment]{
		Name:     "payments",
		Title:    "Cashier",
		Noun:     "payment",
		Product:  ProductClinic,
		Resource: "payments",
		Mode:     listview.ClientPaged,
		Mock:     true,
		Roles:    []Role{RoleManager, RoleCashier},
		NoEdit:   true,
		Columns: []Column[Payment]{
			{Title: "Patient", Width: 22, Value: func(p Payment) string { return p.Patient }},
			{Title: "Amount", Width: 16, Value: func(p Payment) string { return FormatMoney(p.Amount) }},
			{Title: "Method", Width: 14, Value: func(p Payment) string { return labelOf(PaymentMethods, p.Method) }},
			{Title: "Status", Width: 10, Value: func(p Payment) string { return labelOf(PaymentStatuses, p.Status) }},
			{Title: "Paid", Width: 10, Value: func(p Payment) string { return formatDate(p.PaidAt) }},
		},
		Schema: listview.Schema[Payment]{
			SearchFields: func(p Payment) []string { return []string{p.Patient, p.ID} },
			Categories: []listview.CategoryFilter[Payment]{
				category("method", "Method", PaymentMethods, func(p Payment) string { return p.Method }),
				category("status", "Status", PaymentStatuses, func(p Payment) string { return p.Status }),
			},
		},
		Fields: []Field[Payment]{
			textField("patient", "Patient", func(p *Payment) *string { return &p.Patient }),
			moneyField("amount", "Amount", func(p *Payment) *decimal.Decimal { return &p.Amount }),
			choiceField("method", "Method", PaymentMethods, func(p *Payment) *string { return &p.Method }),
			choiceField("status", "Status", PaymentStatuses, func(p *Payment) *string { return &p.Status }),
		},
		Default: func() Payment {
			return Payment{Method: "cash", Status: "paid", PaidAt: time.Now().UTC()}
		},
		ID: func(p Payment) string { return p.ID },
		Validate: func(p Payment) error {
			if !p.Amount.IsPositive() {
				return errors.New("amount must be positive")
			}
			return nil
		},
		Actions: []Action{
			{Name: "refund", Title: "Refund", Destructive: true},
		},
	}
}

// AccountDescriptor describes the security screen.
func AccountDescriptor() Descriptor[Account] {
	return Descriptor[Account]{
		Name:     "accounts",
		Title:    "Security",
		Noun:     "account",
		Product:  ProductClinic,
		Resource: "accounts",
		Mode:     listview.ClientPaged,
		Mock:     true,
		Roles:    []Role{RoleSecurity},
		NoCreate: true,
		Columns: []Column[Account]{
			{Title: "Username", Width: 16, Value: func(a Account) string { return a.Username }},
			{Title: "Role", Width: 12, Value: func(a Account) string { return labelOf(StaffRoles, a.Role) }},
			{Title: "Access", Width: 8, Value: func(a Account) string { return formatBool(a.Banned, "Banned", "Allowed") }},
			{Title: "Sessions", Width: 8, Value: func(a Account) string { return strconv.Itoa(a.ActiveSessions) }},
			{Title: "Last login", Width: 10, Value: func(a Account) string { return formatDate(a.LastLogin) }},
		},
		Schema: listview.Schema[Account]{
			SearchFields: func(a Account) []string { return []string{a.Username, a.ID} },
			Categories: []listview.CategoryFilter[Account]{
				category("role", "Role", StaffRoles, func(a Account) string { return a.Role }),
				category("banned", "Access", bannedLabels, func(a Account) string { return strconv.FormatBool(a.Banned) }),
			},
		},
		Fields: []Field[Account]{
			textField("username", "Username", func(a *Account) *string { return &a.Username }),
			choiceField("role", "Role", StaffRoles, func(a *Account) *string { return &a.Role }),
		},
		Default: func() Account { return Account{Role: "reception"} },
		ID:      func(a Account) string { return a.ID },
		Actions: []Action{
			{Name: "ban", Title: "Ban", Destructive: true},
			{Name: "unban", Title: "Lift ban"},
			{Name: "kill-switch", Title: "Kill all sessions", Destructive: true},
		},
		Severity: func(a Account) string {
			if a.Banned {
				return listview.SeverityError
			}
			if a.ActiveSessions > 1 {
				return listview.SeverityWarning
			}
			return ""
		},
	}
}
