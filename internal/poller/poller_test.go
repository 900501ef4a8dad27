package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bft-labs/pine/pkg/batch"
	"github.com/bft-labs/pine/pkg/codec"
	"github.com/bft-labs/pine/pkg/command"
	"github.com/bft-labs/pine/pkg/session"
)

// scriptedSender returns responses in order, then repeats the last one.
type scriptedSender struct {
	mu        sync.Mutex
	responses []response
	calls     int
	shutdowns int
}

type response struct {
	results []command.Result
	err     error
}

func (s *scriptedSender) Send(ctx context.Context, b *batch.Batch) ([]command.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.responses)-1)
	s.calls++
	return s.responses[i].results, s.responses[i].err
}

func (s *scriptedSender) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns++
	return nil
}

// recorder collects handler calls and cancels after n of them.
type recorder struct {
	mu      sync.Mutex
	calls   [][]int
	results [][]command.Result
	stopAt  int
	cancel  context.CancelFunc
}

func (r *recorder) OnResults(results []command.Result, changed []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, changed)
	r.results = append(r.results, results)
	if len(r.calls) == r.stopAt && r.cancel != nil {
		r.cancel()
	}
	return nil
}

func read32(v uint32) command.Result { return command.Read32Result{Value: v} }

func fastConfig() Config {
	return Config{
		Interval:       time.Millisecond,
		BackoffInitial: time.Millisecond,
		BackoffMax:     2 * time.Millisecond,
	}
}

func TestPollerReportsChanges(t *testing.T) {
	sender := &scriptedSender{responses: []response{
		{results: []command.Result{read32(1), read32(2)}},
		{results: []command.Result{read32(1), read32(2)}},
		{results: []command.Result{read32(1), read32(3)}},
	}}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec := &recorder{stopAt: 2, cancel: cancel}

	dial := func(context.Context) (Sender, error) { return sender, nil }
	b := batch.Of(command.Read32{Addr: 0}, command.Read32{Addr: 4})
	p := New(fastConfig(), dial, b, rec, nil)

	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}

	if len(rec.calls) != 2 {
		t.Fatalf("handler called %d times, want 2", len(rec.calls))
	}
	if got := rec.calls[0]; len(got) != 2 {
		t.Errorf("first poll changed = %v, want all positions", got)
	}
	if got := rec.calls[1]; len(got) != 1 || got[0] != 1 {
		t.Errorf("second change = %v, want [1]", got)
	}
	if sender.shutdowns != 1 {
		t.Errorf("shutdowns = %d, want 1", sender.shutdowns)
	}
}

func TestPollerReconnects(t *testing.T) {
	broken := &scriptedSender{responses: []response{
		{err: &session.ConnectionError{Op: "read", Err: session.ErrConnectionClosed}},
	}}
	healthy := &scriptedSender{responses: []response{
		{results: []command.Result{read32(7)}},
	}}

	var mu sync.Mutex
	dials := 0
	dial := func(context.Context) (Sender, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		switch dials {
		case 1:
			return broken, nil
		case 2:
			return nil, errors.New("endpoint not found")
		default:
			return healthy, nil
		}
	}

	cfg := fastConfig()
	cfg.Once = true
	rec := &recorder{}
	p := New(cfg, dial, batch.Of(command.Read32{Addr: 0}), rec, nil)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if dials != 3 {
		t.Errorf("dials = %d, want 3", dials)
	}
	if broken.shutdowns != 1 {
		t.Errorf("broken session shutdowns = %d, want 1", broken.shutdowns)
	}
	if len(rec.results) != 1 || rec.results[0][0] != read32(7) {
		t.Errorf("results = %v", rec.results)
	}
}

func TestPollerRetriesBatchFailure(t *testing.T) {
	sender := &scriptedSender{responses: []response{
		{err: codec.ErrBatchFailure},
		{results: []command.Result{command.StatusResult{Status: command.StatusPaused}}},
	}}
	dials := 0
	dial := func(context.Context) (Sender, error) {
		dials++
		return sender, nil
	}

	cfg := fastConfig()
	cfg.Once = true
	rec := &recorder{}
	p := New(cfg, dial, batch.Of(command.Status{}), rec, nil)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if dials != 1 {
		t.Errorf("dials = %d, want 1 (batch failure keeps the session)", dials)
	}
	if sender.calls != 2 {
		t.Errorf("calls = %d, want 2", sender.calls)
	}
}

func TestPollerHandlerError(t *testing.T) {
	sender := &scriptedSender{responses: []response{{results: []command.Result{read32(1)}}}}
	dial := func(context.Context) (Sender, error) { return sender, nil }
	want := errors.New("disk full")
	handler := HandlerFunc(func([]command.Result, []int) error { return want })

	p := New(fastConfig(), dial, batch.Of(command.Read32{}), handler, nil)
	if err := p.Run(context.Background()); !errors.Is(err, want) {
		t.Fatalf("Run() error = %v, want %v", err, want)
	}
}

func TestPollerReturnsPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"request too large", fmt.Errorf("%w: 700000 bytes, limit 650000", session.ErrRequestTooLarge)},
		{"unknown", errors.New("unsupported command")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &scriptedSender{responses: []response{{err: tt.err}}}
			dials := 0
			dial := func(context.Context) (Sender, error) {
				dials++
				return sender, nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			p := New(fastConfig(), dial, batch.Of(command.Read32{}), &recorder{}, nil)
			if err := p.Run(ctx); !errors.Is(err, tt.err) {
				t.Fatalf("Run() error = %v, want %v", err, tt.err)
			}
			if dials != 1 || sender.calls != 1 {
				t.Errorf("dials = %d, calls = %d; want 1 each", dials, sender.calls)
			}
			if sender.shutdowns != 1 {
				t.Errorf("shutdowns = %d, want 1", sender.shutdowns)
			}
		})
	}
}

func TestReconnectable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&session.ConnectionError{Op: "write", Err: errors.New("broken pipe")}, true},
		{&codec.ProtocolError{Op: "decode response", Reason: "short"}, true},
		{fmt.Errorf("%w: %w", session.ErrSessionFailed, errors.New("eof")), true},
		{session.ErrNotConnected, true},
		{session.ErrRequestTooLarge, false},
		{errors.New("other"), false},
	}
	for _, tt := range tests {
		if got := reconnectable(tt.err); got != tt.want {
			t.Errorf("reconnectable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestPollerCanceledWhileDialing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dial := func(context.Context) (Sender, error) {
		cancel()
		return nil, errors.New("no endpoint")
	}
	p := New(fastConfig(), dial, batch.New(), &recorder{}, nil)

	if err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		prev []command.Result
		cur  []command.Result
		want []int
	}{
		{"first poll", nil, []command.Result{read32(1), read32(2)}, []int{0, 1}},
		{"no change", []command.Result{read32(1)}, []command.Result{read32(1)}, nil},
		{"one change", []command.Result{read32(1), read32(2)}, []command.Result{read32(1), read32(9)}, []int{1}},
		{"string change", []command.Result{command.TitleResult{Title: "a"}}, []command.Result{command.TitleResult{Title: "b"}}, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diff(tt.prev, tt.cur)
			if len(got) != len(tt.want) {
				t.Fatalf("diff() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("diff() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	b := newBackoff(100*time.Millisecond, 300*time.Millisecond)

	if b.Current() != 100*time.Millisecond {
		t.Errorf("Current() = %v, want 100ms", b.Current())
	}
	d := b.next()
	if d < 80*time.Millisecond || d > 120*time.Millisecond {
		t.Errorf("next() = %v, want 100ms ±20%%", d)
	}
	b.next()
	if b.Current() != 300*time.Millisecond {
		t.Errorf("Current() = %v, want capped at 300ms", b.Current())
	}
	b.Reset()
	if b.Current() != 100*time.Millisecond {
		t.Errorf("Current() after Reset = %v, want 100ms", b.Current())
	}
}

func TestBackoffWaitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b := newBackoff(time.Hour, time.Hour)

	if err := b.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}
}
