package listview

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/notify"
	"github.com/go-playground/validator/v10"
)

// DialogState is the lifecycle state of a Dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// DialogMode tells whether a dialog creates or edits a row.
type DialogMode int

const (
	ModeCreate DialogMode = iota
	ModeEdit
)

func (m DialogMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Mutator performs the network side of a dialog.
type Mutator[T any] interface {
	Create(ctx context.Context, draft T) (api.Result[T], error)
	Update(ctx context.Context, id string, draft T) (api.Result[T], error)
}

// Owner is the view a dialog belongs to.
type Owner interface {
	BeginMutation() (release func(), err error)
	Load(ctx context.Context) error
}

// DialogConfig configures a Dialog.
type DialogConfig[T any] struct {
	// Default returns the draft of a create dialog.
	Default func() T
	// ID returns the identifier of an edited row.
	ID func(T) string
	// Validate runs after struct tag validation.
	Validate     func(T) error
	Mutator      Mutator[T]
	Owner        Owner
	Relay        *notify.Relay
	Logger       logging.Logger
	CreateTitles notify.Titles
	EditTitles   notify.Titles
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks the `validate` tags of v. Non-struct values pass.
func ValidateStruct(v any) error {
	err := structValidator.Struct(v)
	var invalid *validator.InvalidValidationError
	if err == nil || errors.As(err, &invalid) {
		return nil
	}
	return errors.New(describeValidation(err))
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "gte":
		return field + " must be at least " + fe.Param()
	case "lte":
		return field + " must be at most " + fe.Param()
	case "min":
		return field + " is too short (min " + fe.Param() + ")"
	case "max":
		return field + " is too long (max " + fe.Param() + ")"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " is invalid"
	}
}

// Dialog is the create/edit form of a screen. It is safe for concurrent use.
type Dialog[T any] struct {
	cfg DialogConfig[T]

	mu     sync.Mutex
	state  DialogState
	mode   DialogMode
	draft  T
	editID string
	err    string
	// gen changes on every open and close so a submission finishing after
	// Close does not reopen the dialog.
	gen uint64
}

// NewDialog returns a closed dialog.
func NewDialog[T any](cfg DialogConfig[T]) *Dialog[T] {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.CreateTitles == (notify.Titles{}) {
		cfg.CreateTitles = notify.Titles{Success: "Created", Error: "Could not create"}
	}
	if cfg.EditTitles == (notify.Titles{}) {
		cfg.EditTitles = notify.Titles{Success: "Saved", Error: "Could not save"}
	}
	d := &Dialog[T]{cfg: cfg}
	d.draft = d.defaultDraft()
	return d
}

func (d *Dialog[T]) defaultDraft() T {
	if d.cfg.Default != nil {
		return d.cfg.Default()
	}
	var zero T
	return zero
}

// OpenCreate opens the dialog with the default draft.
func (d *Dialog[T]) OpenCreate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DialogClosed {
		return ErrDialogOpen
	}
	d.state = DialogOpen
	d.mode = ModeCreate
	d.draft = d.defaultDraft()
	d.editID = ""
	d.err = ""
	d.gen++
	return nil
}

// OpenEdit opens the dialog seeded from row.
func (d *Dialog[T]) OpenEdit(row T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DialogClosed {
		return ErrDialogOpen
	}
	d.state = DialogOpen
	d.mode = ModeEdit
	d.draft = row
	d.editID = ""
	if d.cfg.ID != nil {
		d.editID = d.cfg.ID(row)
	}
	d.err = ""
	d.gen++
	return nil
}

// State returns the lifecycle state.
func (d *Dialog[T]) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Mode returns whether the dialog creates or edits.
func (d *Dialog[T]) Mode() DialogMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// IsOpen reports whether the dialog is open or submitting.
func (d *Dialog[T]) IsOpen() bool {
	return d.State() != DialogClosed
}

// Submitting reports whether a submission is in flight.
func (d *Dialog[T]) Submitting() bool {
	return d.State() == DialogSubmitting
}

// Draft returns the current draft.
func (d *Dialog[T]) Draft() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draft
}

// EditingID returns the id of the edited row, or "" when creating.
func (d *Dialog[T]) EditingID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.editID
}

// Err returns the last validation or submission error shown in the form.
func (d *Dialog[T]) Err() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// SetDraft replaces the draft of an open dialog.
func (d *Dialog[T]) SetDraft(draft T) error {
	return d.Edit(func(t *T) error {
		*t = draft
		return nil
	})
}

// Edit changes the draft in place. The draft is left untouched if fn fails.
func (d *Dialog[T]) Edit(fn func(*T) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case DialogClosed:
		return ErrDialogClosed
	case DialogSubmitting:
		return ErrSubmitInFlight
	}
	draft := d.draft
	if err := fn(&draft); err != nil {
		return err
	}
	d.draft = draft
	return nil
}

// Submit validates the draft and sends it. On success the dialog closes,
// the owner reloads and a success is relayed. On failure the dialog stays
// open with its draft and one error is relayed.
func (d *Dialog[T]) Submit(ctx context.Context) error {
	d.mu.Lock()
	switch d.state {
	case DialogClosed:
		d.mu.Unlock()
		return ErrDialogClosed
	case DialogSubmitting:
		d.mu.Unlock()
		return ErrSubmitInFlight
	}
	draft, mode, id, gen := d.draft, d.mode, d.editID, d.gen
	titles := d.titles(mode)

	if err := d.validate(draft); err != nil {
		d.err = err.Error()
		d.mu.Unlock()
		d.cfg.Relay.ShowError(titles.Error, err.Error())
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}

	release := func() {}
	if d.cfg.Owner != nil {
		r, err := d.cfg.Owner.BeginMutation()
		if err != nil {
			d.err = err.Error()
			d.mu.Unlock()
			d.cfg.Relay.ShowError(titles.Error, err.Error())
			return err
		}
		release = r
	}
	d.state = DialogSubmitting
	d.err = ""
	d.mu.Unlock()

	res, err := d.send(ctx, mode, id, draft)
	release()
	if err == nil && !res.IsOk() {
		err = Rejected(res.Message())
	}

	d.mu.Lock()
	current := d.gen == gen
	if err != nil {
		if current {
			d.state = DialogOpen
			d.err = userMessage(err)
		}
		d.mu.Unlock()
		d.cfg.Logger.Error("submit failed", "mode", mode.String(), "id", id, "error", err)
		d.cfg.Relay.ShowError(titles.Error, userMessage(err))
		return err
	}
	if current {
		d.state = DialogClosed
		d.draft = d.defaultDraft()
		d.editID = ""
		d.err = ""
		d.gen++
	}
	d.mu.Unlock()

	d.cfg.Logger.Info("submitted", "mode", mode.String(), "id", id)
	d.cfg.Relay.ShowAPIResponse(res, titles)
	if d.cfg.Owner != nil {
		_ = d.cfg.Owner.Load(ctx)
	}
	return nil
}

func (d *Dialog[T]) titles(mode DialogMode) notify.Titles {
	if mode == ModeEdit {
		return d.cfg.EditTitles
	}
	return d.cfg.CreateTitles
}

func (d *Dialog[T]) validate(draft T) error {
	if err := ValidateStruct(draft); err != nil {
		return err
	}
	if d.cfg.Validate != nil {
		return d.cfg.Validate(draft)
	}
	return nil
}

func (d *Dialog[T]) send(ctx context.Context, mode DialogMode, id string, draft T) (res api.Result[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("submit", r)
		}
	}()
	if d.cfg.Mutator == nil {
		return res, errors.New("listview: dialog has no mutator")
	}
	if mode == ModeEdit {
		return d.cfg.Mutator.Update(ctx, id, draft)
	}
	return d.cfg.Mutator.Create(ctx, draft)
}

// Close closes the dialog and resets the draft. Closing a closed dialog is
// a no-op.
func (d *Dialog[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DialogClosed
	d.mode = ModeCreate
	d.draft = d.defaultDraft()
	d.editID = ""
	d.err = ""
	d.gen++
}
