package cmd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/config"
	"github.com/backoffice-suite/backoffice/internal/domain"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/screens"
)

// mockSeed keeps the clinic mock tables identical from one run to the next.
const mockSeed = 1

// workspace resolves the signed-in admin and the API client from the
// configuration and global flags on first use.
type workspace struct {
	host errs.ErrorHandler

	once   sync.Once
	admin  domain.Admin
	client *api.Client
	err    error
}

func newWorkspace(host errs.ErrorHandler) *workspace {
	return &workspace{host: host}
}

func (w *workspace) resolve() error {
	w.once.Do(func() {
		w.admin, w.err = adminFromConfig(flags)
		if w.err != nil {
			logging.Error("session rejected", "error", w.err)
			return
		}
		baseURL := flags.apiURL
		if baseURL == "" {
			baseURL = config.Get("api_base_url", "")
		}
		w.client = api.NewClient(baseURL,
			api.WithTimeout(config.GetDuration("request_timeout", 0)),
			api.WithToken(config.Get("api_token", "")),
			api.WithLogger(logging.With("component", "api")),
		)
		if config.Get("api_token", "") == "" {
			logging.Warn("api_token is empty, requests carry no authorization", "api", baseURL)
		}
		logging.Info("session resolved", "admin_id", w.admin.ID, "role", w.admin.Role.String(), "api", baseURL)
	})
	return w.err
}

// adminFromConfig builds the session identity, flags winning over config.
func adminFromConfig(f globalFlags) (domain.Admin, error) {
	raw := f.role
	if raw == "" {
		raw = config.Get("admin_role", string(domain.RoleAdmin))
	}
	role, err := domain.ParseRole(raw)
	if err != nil {
		return domain.Admin{}, err
	}
	id := f.adminID
	if id == 0 {
		id = config.GetInt("admin_id", 1)
	}
	service := f.service
	if service == "" {
		service = config.Get("admin_service", "")
	}
	admin := domain.Admin{
		ID:      id,
		Name:    config.Get("admin_name", "admin"),
		Role:    role,
		Service: service,
	}
	if err := admin.Validate(); err != nil {
		return domain.Admin{}, fmt.Errorf("session: %w", err)
	}
	return admin, nil
}

// Admin returns the signed-in admin.
func (w *workspace) Admin() (domain.Admin, error) {
	if err := w.resolve(); err != nil {
		return domain.Admin{}, err
	}
	return w.admin, nil
}

func (w *workspace) deps(host errs.ErrorHandler) screens.Deps {
	return screens.Deps{
		Client:      w.client,
		Host:        host,
		Logger:      logging.With("admin_id", w.admin.ID, "role", w.admin.Role.String()),
		PageSize:    config.GetInt("page_size", 10),
		StaleGuard:  config.GetBool("stale_guard", true),
		FanOutLimit: config.GetInt("fanout_limit", 8),
		Seed:        mockSeed,
	}
}

// Open opens one screen relaying to the console.
func (w *workspace) Open(name string) (screens.Screen, error) {
	if err := w.resolve(); err != nil {
		return nil, err
	}
	return screens.Open(w.admin, name, w.deps(w.host))
}

// Screens opens every screen the admin may see, relaying to host.
func (w *workspace) Screens(host errs.ErrorHandler) ([]screens.Screen, error) {
	if err := w.resolve(); err != nil {
		return nil, err
	}
	return screens.Build(w.admin, w.deps(host))
}

func roleNames() string {
	names := make([]string, len(domain.Roles))
	for i, r := range domain.Roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
