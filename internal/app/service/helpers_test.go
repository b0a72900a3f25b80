package service

import (
	"context"
	"encoding/json"
	"sync"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type recordedCall struct {
	method string
	args   []interface{}
}

// fakeTransport answers every call through respond and records the calls it saw.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []recordedCall
	respond func(method string, args []interface{}) (string, error)
}

func staticTransport(result string, err error) *fakeTransport {
	return &fakeTransport{respond: func(string, []interface{}) (string, error) { return result, err }}
}

func (f *fakeTransport) CallContext(_ context.Context, result interface{}, method string, args ...interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	f.mu.Unlock()

	raw, err := f.respond(method, args)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), result)
}

func (f *fakeTransport) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}
