package listview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/backoffice-suite/backoffice/internal/api"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type service struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Duration int    `json:"duration" validate:"gt=0"`
}

func defaultService() service { return service{Duration: 1} }

type dialogFixture struct {
	dialog  *Dialog[service]
	mutator *mockMutator[service]
	view    *View[string]
	host    *errs.TUIHandler
	loads   *int
}

func newDialogFixture(t *testing.T, extra func(service) error) dialogFixture {
	t.Helper()
	host, relay := newHost()
	loads := 0
	v := New[string](SourceFunc[string](func(ctx context.Context, q Query) (api.ListResult[string], error) {
		loads++
		return page(0, "row"), nil
	}), Schema[string]{}, Options{Relay: relay})
	m := &mockMutator[service]{}
	d := NewDialog(DialogConfig[service]{
		Default:  defaultService,
		ID:       func(s service) string { return s.ID },
		Validate: extra,
		Mutator:  m,
		Owner:    v,
		Relay:    relay,
	})
	return dialogFixture{dialog: d, mutator: m, view: v, host: host, loads: &loads}
}

func TestDialogCreateSuccess(t *testing.T) {
	f := newDialogFixture(t, nil)
	created := service{ID: "7", Name: "Consultation", Duration: 30}
	f.mutator.On("Create", mock.Anything, service{Name: "Consultation", Duration: 30}).
		Return(api.Ok(created), nil).Once()

	require.NoError(t, f.dialog.OpenCreate())
	assert.Equal(t, defaultService(), f.dialog.Draft())
	require.NoError(t, f.dialog.SetDraft(service{Name: "Consultation", Duration: 30}))

	require.NoError(t, f.dialog.Submit(context.Background()))
	assert.Equal(t, DialogClosed, f.dialog.State())
	assert.Equal(t, defaultService(), f.dialog.Draft(), "draft reset after success")
	assert.Equal(t, 1, *f.loads, "owner reloaded")
	assert.False(t, f.view.Busy())
	latest, _ := f.host.Latest()
	assert.Equal(t, "Created", latest.Text)
	f.mutator.AssertExpectations(t)
}

func TestDialogValidationNeverReachesNetwork(t *testing.T) {
	f := newDialogFixture(t, func(s service) error {
		if s.Name == "forbidden" {
			return errors.New("name is reserved")
		}
		return nil
	})
	require.NoError(t, f.dialog.OpenCreate())

	require.NoError(t, f.dialog.SetDraft(service{Email: "nope", Duration: 0}))
	err := f.dialog.Submit(context.Background())
	require.ErrorIs(t, err, ErrInvalidDraft)
	assert.Equal(t, DialogOpen, f.dialog.State())
	assert.Contains(t, f.dialog.Err(), "name is required")
	assert.Contains(t, f.dialog.Err(), "email must be a valid email")
	assert.Contains(t, f.dialog.Err(), "duration must be greater than 0")

	require.NoError(t, f.dialog.SetDraft(service{Name: "forbidden", Duration: 5}))
	err = f.dialog.Submit(context.Background())
	require.ErrorIs(t, err, ErrInvalidDraft)
	assert.Equal(t, "name is reserved", f.dialog.Err())

	f.mutator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Len(t, f.host.All(), 2, "one message per failed submit")
}

func TestDialogFailurePreservesDraft(t *testing.T) {
	tests := []struct {
		name   string
		result api.Result[service]
		err    error
		text   string
	}{
		{"handled failure", api.Fail[service]("name already used"), nil, "Could not save: name already used"},
		{"transport error", api.Result[service]{}, fmt.Errorf("timeout"), "Could not save: timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDialogFixture(t, nil)
			row := service{ID: "3", Name: "Radio", Duration: 15}
			edited := service{ID: "3", Name: "Radiology", Duration: 20}
			f.mutator.On("Update", mock.Anything, "3", edited).Return(tt.result, tt.err).Once()

			require.NoError(t, f.dialog.OpenEdit(row))
			assert.Equal(t, ModeEdit, f.dialog.Mode())
			assert.Equal(t, "3", f.dialog.EditingID())
			require.NoError(t, f.dialog.Edit(func(s *service) error {
				s.Name = "Radiology"
				s.Duration = 20
				return nil
			}))

			require.Error(t, f.dialog.Submit(context.Background()))
			assert.Equal(t, DialogOpen, f.dialog.State())
			assert.False(t, f.dialog.Submitting())
			assert.False(t, f.view.Busy())
			assert.Equal(t, edited, f.dialog.Draft(), "draft unchanged after failure")
			assert.Equal(t, 0, *f.loads)

			msgs := f.host.All()
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.text, msgs[0].Text)
		})
	}
}

func TestDialogRejectsSecondSubmit(t *testing.T) {
	f := newDialogFixture(t, nil)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.mutator.On("Create", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(api.Ok(service{ID: "1"}), nil).Once()

	require.NoError(t, f.dialog.OpenCreate())
	require.NoError(t, f.dialog.SetDraft(service{Name: "x", Duration: 1}))

	done := make(chan error)
	go func() { done <- f.dialog.Submit(context.Background()) }()
	<-entered

	assert.ErrorIs(t, f.dialog.Submit(context.Background()), ErrSubmitInFlight)
	assert.ErrorIs(t, f.dialog.SetDraft(service{}), ErrSubmitInFlight)
	assert.True(t, f.view.Busy())

	close(release)
	require.NoError(t, <-done)
	f.mutator.AssertNumberOfCalls(t, "Create", 1)
}

func TestDialogAtMostOneOpen(t *testing.T) {
	f := newDialogFixture(t, nil)
	require.NoError(t, f.dialog.OpenCreate())
	assert.ErrorIs(t, f.dialog.OpenCreate(), ErrDialogOpen)
	assert.ErrorIs(t, f.dialog.OpenEdit(service{ID: "1"}), ErrDialogOpen)
}

func TestDialogCloseIsIdempotent(t *testing.T) {
	f := newDialogFixture(t, nil)

	assert.NotPanics(t, f.dialog.Close)
	assert.Equal(t, defaultService(), f.dialog.Draft())

	require.NoError(t, f.dialog.OpenEdit(service{ID: "9", Name: "n", Duration: 3}))
	f.dialog.Close()
	f.dialog.Close()
	assert.Equal(t, DialogClosed, f.dialog.State())
	assert.Equal(t, defaultService(), f.dialog.Draft())
	assert.Empty(t, f.dialog.EditingID())

	f.mutator.On("Create", mock.Anything, mock.Anything).Return(api.Ok(service{}), nil).Once()
	require.NoError(t, f.dialog.OpenCreate())
	require.NoError(t, f.dialog.SetDraft(service{Name: "n", Duration: 1}))
	require.NoError(t, f.dialog.Submit(context.Background()))
	assert.NotPanics(t, f.dialog.Close, "close after auto-close")
	assert.Equal(t, defaultService(), f.dialog.Draft())

	assert.ErrorIs(t, f.dialog.Submit(context.Background()), ErrDialogClosed)
	assert.ErrorIs(t, f.dialog.SetDraft(service{}), ErrDialogClosed)
}

func TestDialogRefusedWhileViewBusy(t *testing.T) {
	f := newDialogFixture(t, nil)
	release, err := f.view.BeginMutation()
	require.NoError(t, err)
	defer release()

	require.NoError(t, f.dialog.OpenCreate())
	assert.ErrorIs(t, f.dialog.Submit(context.Background()), ErrBusy)
	assert.Equal(t, DialogOpen, f.dialog.State())
}

func TestValidateStructIgnoresNonStructs(t *testing.T) {
	assert.NoError(t, ValidateStruct("plain string"))
	assert.NoError(t, ValidateStruct(42))
	assert.Error(t, ValidateStruct(service{}))
}
