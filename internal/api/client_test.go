package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type station struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func serve(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", WithTimeout(2*time.Second))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestListParamsValues(t *testing.T) {
	v := ListParams{Page: 2, Limit: 10, Search: "martin", Filters: map[string]string{
		"status":  "active",
		"service": "",
	}}.Values()

	assert.Equal(t, "3", v.Get("page"), "page is one-based on the wire")
	assert.Equal(t, "10", v.Get("limit"))
	assert.Equal(t, "martin", v.Get("search"))
	assert.Equal(t, "active", v.Get("status"))
	assert.False(t, v.Has("service"), "empty filters mean no constraint")

	assert.Empty(t, ListParams{}.Values().Encode(), "unpaged request sends nothing")
}

func TestListDecodesItemsAndTotal(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stations", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"items":[{"id":"s1","name":"Ouaga Centre","capacity":40}],"total":17}}`)
	})

	res, err := List[station](context.Background(), c, "stations", ListParams{Limit: 5})
	require.NoError(t, err)
	require.True(t, res.IsOk())
	page := res.Value()
	assert.Equal(t, 17, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Ouaga Centre", page.Items[0].Name)
}

func TestListDecodesBareArray(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":"a"},{"id":"b"}]}`)
	})

	res, err := List[station](context.Background(), c, "stations", ListParams{})
	require.NoError(t, err)
	page, ok := res.Unwrap()
	require.True(t, ok)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, UnknownTotal, page.Total)
}

func TestListNullDataIsEmptyPage(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":null}`)
	})

	res, err := List[station](context.Background(), c, "stations", ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, res.Value().Items)
	assert.Empty(t, res.Value().Items)
}

func TestHandledFailureIsNotAnError(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"message":"email already used"}`)
	})

	res, err := Create[station](context.Background(), c, "clients", map[string]string{"email": "x@y.z"})
	require.NoError(t, err)
	assert.False(t, res.IsOk())
	assert.Equal(t, "email already used", res.Message())
}

func TestTransportFailuresAreErrors(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/html":
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, "<html>")
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "bad gateway")
		}
	})

	_, err := Get[station](context.Background(), c, "html", "1")
	require.ErrorIs(t, err, ErrMalformedResponse)

	_, err = Get[station](context.Background(), c, "stations", "1")
	require.ErrorIs(t, err, ErrUnexpectedStatus)

	closed := NewClient("http://127.0.0.1:1")
	_, err = Delete(context.Background(), closed, "stations", "1")
	require.Error(t, err)
}

func TestMutationsUseExpectedRoutes(t *testing.T) {
	type call struct{ method, path, auth string }
	var calls []call
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path, r.Header.Get("Authorization")})
		if r.Body != nil {
			var payload map[string]any
			_ = json.NewDecoder(r.Body).Decode(&payload)
		}
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":"s9","name":"Bobo"}}`)
	})
	c.token = "secret"
	ctx := context.Background()

	upd, err := Update[station](ctx, c, "stations", "s9", map[string]any{"name": "Bobo"})
	require.NoError(t, err)
	assert.Equal(t, "Bobo", upd.Value().Name)

	del, err := Delete(ctx, c, "stations", "s9")
	require.NoError(t, err)
	assert.True(t, del.IsOk())

	act, err := Action(ctx, c, "accounts", "u 1", "ban", nil)
	require.NoError(t, err)
	assert.True(t, act.IsOk())

	assert.Equal(t, []call{
		{http.MethodPut, "/api/stations/s9", "Bearer secret"},
		{http.MethodDelete, "/api/stations/s9", "Bearer secret"},
		{http.MethodPost, "/api/accounts/u 1/ban", "Bearer secret"},
	}, calls)
}

func TestDownload(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/invoices/missing/pdf" {
			writeJSON(w, http.StatusNotFound, `{"success":false,"message":"invoice not found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="INV-0001.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4")
	})
	ctx := context.Background()

	res, err := Download(ctx, c, "invoices/i1/pdf")
	require.NoError(t, err)
	blob, ok := res.Unwrap()
	require.True(t, ok)
	assert.Equal(t, "INV-0001.pdf", blob.Name)
	assert.Equal(t, "%PDF-1.4", string(blob.Data))

	res, err = Download(ctx, c, "invoices/missing/pdf")
	require.NoError(t, err)
	assert.False(t, res.IsOk())
	assert.Equal(t, "invoice not found", res.Message())
}

func TestResultMatch(t *testing.T) {
	var got string
	Ok(3).Match(func(v int) { got = "ok" }, func(string) { got = "err" })
	assert.Equal(t, "ok", got)

	Fail[int]("nope").Match(func(int) { got = "ok" }, func(m string) { got = m })
	assert.Equal(t, "nope", got)

	assert.NotPanics(t, func() { Fail[int]("x").Match(nil, nil) })
}
