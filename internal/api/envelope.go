package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// ErrMalformedResponse is returned when a body cannot be decoded as an envelope.
var ErrMalformedResponse = errors.New("malformed api response")

// envelope is the wire shape shared by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ListParams are the query parameters accepted by list endpoints.
// Page is zero-based here and sent one-based on the wire.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

// Values encodes the parameters as a query string, dropping empty filters.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("page", strconv.Itoa(p.Page+1))
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if val := p.Filters[k]; val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// decodeEnvelope parses body into an envelope.
func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return env, nil
}

// decodeResult converts an envelope into a typed Result.
func decodeResult[T any](env envelope) (Result[T], error) {
	if !env.Success {
		return Fail[T](env.Message), nil
	}
	var value T
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, &value); err != nil {
			return Result[T]{}, fmt.Errorf("%w: data: %v", ErrMalformedResponse, err)
		}
	}
	return OkWithMessage(value, env.Message), nil
}

// decodePage accepts either {items, total} or a bare array.
func decodePage[T any](env envelope) (ListResult[T], error) {
	if !env.Success {
		return Fail[Page[T]](env.Message), nil
	}
	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return OkWithMessage(Page[T]{Items: []T{}, Total: 0}, env.Message), nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return ListResult[T]{}, fmt.Errorf("%w: items: %v", ErrMalformedResponse, err)
		}
		return OkWithMessage(Page[T]{Items: items, Total: UnknownTotal}, env.Message), nil
	}
	var page Page[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return ListResult[T]{}, fmt.Errorf("%w: page: %v", ErrMalformedResponse, err)
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return OkWithMessage(page, env.Message), nil
}
