package domain

import (
	"errors"
	"time"

	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/shopspring/decimal"
)

// Client is an Annour Travel customer.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=8"`
	Service string `json:"service" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

// Travel services. Clients created by older tools carry the label instead
// of the code, which is why service filters also match labels.
var Services = map[string]string{
	"VisaCanada": "Visa Canada",
	"VisaFrance": "Visa France",
	"Hajj":       "Hajj & Omra",
	"Ticketing":  "Air ticketing",
	"Tourism":    "Tour packages",
}

// ClientStatuses are the stages of a client file.
var ClientStatuses = map[string]string{
	"prospect":    "Prospect",
	"in_progress": "In progress",
	"completed":   "Completed",
	"cancelled":   "Cancelled",
}

// Invoice is an Annour Travel invoice.
type Invoice struct {
	ID         string          `json:"id"`
	Number     string          `json:"number" validate:"required"`
	ClientID   string          `json:"clientId" validate:"required"`
	ClientName string          `json:"clientName,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status" validate:"required"`
	IssuedAt   time.Time       `json:"issuedAt"`
}

// InvoiceStatuses are the payment states of an invoice.
var InvoiceStatuses = map[string]string{
	"draft":   "Draft",
	"sent":    "Sent",
	"paid":    "Paid",
	"overdue": "Overdue",
}

// ClientDescriptor describes the clients screen.
func ClientDescriptor() Descriptor[Client] {
	return Descriptor[Client]{
		Name:     "clients",
		Title:    "Clients",
		Noun:     "client",
		Product:  ProductAnnour,
		Resource: "clients",
		Mode:     listview.ServerPaged,
		Roles:    []Role{RoleManager, RoleCommercial},
		Columns: []Column[Client]{
			{Title: "Name", Width: 22, Value: func(c Client) string { return c.Name }},
			{Title: "Email", Width: 26, Value: func(c Client) string { return c.Email }},
			{Title: "Phone", Width: 14, Value: func(c Client) string { return c.Phone }},
			{Title: "Service", Width: 16, Value: func(c Client) string { return labelOf(Services, c.Service) }},
			{Title: "Status", Width: 12, Value: func(c Client) string { return labelOf(ClientStatuses, c.Status) }},
		},
		Schema: listview.Schema[Client]{
			SearchFields: func(c Client) []string { return []string{c.Name, c.Email, c.Phone, c.ID} },
			Categories: []listview.CategoryFilter[Client]{
				category("service", "Service", Services, func(c Client) string { return c.Service }),
				category("status", "Status", ClientStatuses, func(c Client) string { return c.Status }),
			},
		},
		Fields: []Field[Client]{
			textField("name", "Name", func(c *Client) *string { return &c.Name }),
			textField("email", "Email", func(c *Client) *string { return &c.Email }),
			textField("phone", "Phone", func(c *Client) *string { return &c.Phone }),
			choiceField("service", "Service", Services, func(c *Client) *string { return &c.Service }),
			choiceField("status", "Status", ClientStatuses, func(c *Client) *string { return &c.Status }),
		},
		Default: func() Client { return Client{Service: "VisaCanada", Status: "prospect"} },
		ID:      func(c Client) string { return c.ID },
		Actions: []Action{Delete},
	}
}

// InvoiceDescriptor describes the invoices screen.
func InvoiceDescriptor() Descriptor[Invoice] {
	return Descriptor[Invoice]{
		Name:     "invoices",
		Title:    "Invoices",
		Noun:     "invoice",
		Product:  ProductAnnour,
		Resource: "invoices",
		Mode:     listview.ServerPaged,
		Roles:    []Role{RoleManager, RoleCommercial, RoleCashier},
		Columns: []Column[Invoice]{
			{Title: "Number", Width: 12, Value: func(i Invoice) string { return i.Number }},
			{Title: "Client", Width: 22, Value: func(i Invoice) string {
				if i.ClientName != "" {
					return i.ClientName
				}
				return i.ClientID
			}},
			{Title: "Amount", Width: 16, Value: func(i Invoice) string { return FormatMoney(i.Amount) }},
			{Title: "Status", Width: 10, Value: func(i Invoice) string { return labelOf(InvoiceStatuses, i.Status) }},
			{Title: "Issued", Width: 10, Value: func(i Invoice) string { return formatDate(i.IssuedAt) }},
		},
		Schema: listview.Schema[Invoice]{
			SearchFields: func(i Invoice) []string { return []string{i.Number, i.ClientName, i.ClientID} },
			Categories: []listview.CategoryFilter[Invoice]{
				category("status", "Status", InvoiceStatuses, func(i Invoice) string { return i.Status }),
			},
		},
		Fields: []Field[Invoice]{
			textField("number", "Number", func(i *Invoice) *string { return &i.Number }),
			textField("clientId", "Client id", func(i *Invoice) *string { return &i.ClientID }),
			moneyField("amount", "Amount", func(i *Invoice) *decimal.Decimal { return &i.Amount }),
			choiceField("status", "Status", InvoiceStatuses, func(i *Invoice) *string { return &i.Status }),
			dateField("issuedAt", "Issued on", func(i *Invoice) *time.Time { return &i.IssuedAt }),
		},
		Default: func() Invoice {
			return Invoice{Status: "draft", IssuedAt: time.Now().UTC().Truncate(24 * time.Hour)}
		},
		ID:       func(i Invoice) string { return i.ID },
		Validate: validateInvoice,
		Actions: []Action{
			{Name: "pdf", Title: "Download PDF", Download: true},
			{Name: "send", Title: "Send to client"},
			Delete,
		},
		Severity: func(i Invoice) string {
			switch i.Status {
			case "overdue":
				return listview.SeverityError
			case "sent":
				return listview.SeverityWarning
			case "paid":
				return listview.SeveritySuccess
			}
			return ""
		},
	}
}

func validateInvoice(i Invoice) error {
	if !i.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	if i.IssuedAt.IsZero() {
		return errors.New("issuedAt is required")
	}
	return nil
}

func labelOf(labels map[string]string, value string) string {
	if l, ok := labels[value]; ok {
		return l
	}
	return value
}
