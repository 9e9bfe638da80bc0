package screens

import (
	"errors"
	"fmt"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/mockdata"
	"github.com/backoffice-suite/backoffice/internal/notify"
)

// ErrNoClient is returned when an API screen is opened without a client.
var ErrNoClient = errors.New("api client is not configured")

// Deps are the shared dependencies of every screen.
type Deps struct {
	Client      *api.Client
	Host        errs.ErrorHandler
	Logger      logging.Logger
	PageSize    int
	StaleGuard  bool
	FanOutLimit int
	// Seed drives the synthetic data of mock screens.
	Seed uint64
}

func (d Deps) logger() logging.Logger {
	if d.Logger == nil {
		return logging.Nop()
	}
	return d.Logger
}

// Open builds the named screen if admin may see it.
func Open(admin domain.Admin, name string, deps Deps) (Screen, error) {
	info, err := domain.Lookup(admin, name)
	if err != nil {
		return nil, err
	}
	if !info.Mock && deps.Client == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoClient)
	}
	logger := deps.logger()

	switch name {
	case "stations":
		return bindAPI(domain.StationDescriptor(), nil, admin, deps), nil
	case "pompistes":
		return bindAPI(domain.PompisteDescriptor(), pompisteSource(deps.Client, deps.FanOutLimit, logger), admin, deps), nil
	case "clients":
		return bindAPI(domain.ClientDescriptor(), nil, admin, deps), nil
	case "invoices":
		return bindAPI(domain.InvoiceDescriptor(), invoiceSource(deps.Client, deps.FanOutLimit, logger), admin, deps), nil
	case "medicines":
		return bindMock(domain.MedicineDescriptor(), mockdata.MedicineTable(deps.Seed), nil, admin, deps), nil
	case "payments":
		return bindMock(domain.PaymentDescriptor(), mockdata.PaymentTable(deps.Seed), mockdata.PaymentActions, admin, deps), nil
	case "accounts":
		return bindMock(domain.AccountDescriptor(), mockdata.AccountTable(deps.Seed), mockdata.AccountActions, admin, deps), nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownScreen, name)
}

// Build opens every screen admin may see, in menu order.
func Build(admin domain.Admin, deps Deps) ([]Screen, error) {
	infos := domain.Screens(admin)
	out := make([]Screen, 0, len(infos))
	for _, info := range infos {
		s, err := Open(admin, info.Name, deps)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func bindAPI[T any](d domain.Descriptor[T], src listview.Source[T], admin domain.Admin, deps Deps) Screen {
	if src == nil {
		src = listview.APISource[T]{Client: deps.Client, Resource: d.Resource}
	}
	return Bind(Binding[T]{
		Descriptor: d,
		Source:     src,
		Backend:    NewAPIBackend(deps.Client, d),
		Client:     deps.Client,
		Scope:      domain.Scope(admin, d.Name),
		Relay:      notify.New(deps.Host, deps.logger(), d.Name),
		Logger:     deps.logger(),
		PageSize:   deps.PageSize,
		StaleGuard: deps.StaleGuard,
	})
}

func bindMock[T any](d domain.Descriptor[T], table *mockdata.Table[T], actions map[string]func(*T, string) error, admin domain.Admin, deps Deps) Screen {
	return Bind(Binding[T]{
		Descriptor: d,
		Source:     table,
		Backend:    NewMockBackend(table, actions),
		Scope:      domain.Scope(admin, d.Name),
		Relay:      notify.New(deps.Host, deps.logger(), d.Name),
		Logger:     deps.logger(),
		PageSize:   deps.PageSize,
		StaleGuard: deps.StaleGuard,
	})
}
