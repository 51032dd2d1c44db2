package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name  string
	reply string
	err   error
	delay time.Duration
	panic bool
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, _ string) (string, error) {
	if f.panic {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.reply, f.err
}

func TestService_ProviderReply(t *testing.T) {
	s := NewService(&fakeProvider{name: "gemini", reply: "Become a data engineer."}, zap.NewNop())

	got := s.GenerateReply(context.Background(), "best career?")
	require.Equal(t, "Become a data engineer.", got)

	snap := s.Stats().Snapshot()
	require.Equal(t, int64(1), snap.Calls)
	require.Equal(t, int64(0), snap.Failures)
	require.Empty(t, snap.LastFailure)
	require.Equal(t, "gemini", s.ProviderName())
}

func TestService_NoProviderUsesRules(t *testing.T) {
	s := NewService(nil, zap.NewNop())

	require.Equal(t, RuleReply("hi there"), s.GenerateReply(context.Background(), "hi there"))
	require.Equal(t, "", s.ProviderName())
	require.Equal(t, int64(1), s.Stats().Snapshot().Calls)
	require.Equal(t, int64(0), s.Stats().Snapshot().Failures)
}

func TestService_FailuresFallBackToRules(t *testing.T) {
	cases := []struct {
		name     string
		provider *fakeProvider
		reason   string
	}{
		{"error", &fakeProvider{name: "openai", err: errors.New("rate limited")}, "openai_exception"},
		{"empty", &fakeProvider{name: "openai", reply: "   "}, "openai_empty_response"},
		{"panic", &fakeProvider{name: "gemini", panic: true}, "gemini_panic"},
		{"timeout", &fakeProvider{name: "gemini", reply: "late", delay: time.Second}, "gemini_timeout"},
	}
	messages := []string{
		"What is the best career for me?",
		"Can you review my resume?",
		"hi there",
		"What's the weather?",
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewService(tc.provider, zap.NewNop(), WithTimeout(20*time.Millisecond))
			for _, m := range messages {
				require.Equal(t, RuleReply(m), s.GenerateReply(context.Background(), m))
			}
			snap := s.Stats().Snapshot()
			require.Equal(t, int64(len(messages)), snap.Calls)
			require.Equal(t, int64(len(messages)), snap.Failures)
			require.Equal(t, tc.reason, snap.LastFailure)
		})
	}
}

func TestService_LastFailureResetsOnNextCall(t *testing.T) {
	p := &fakeProvider{name: "openai", err: errors.New("down")}
	s := NewService(p, zap.NewNop())

	s.GenerateReply(context.Background(), "hi")
	require.Equal(t, "openai_exception", s.Stats().Snapshot().LastFailure)

	p.err = nil
	p.reply = "ok"
	s.GenerateReply(context.Background(), "hi")
	snap := s.Stats().Snapshot()
	require.Empty(t, snap.LastFailure)
	require.Equal(t, int64(2), snap.Calls)
	require.Equal(t, int64(1), snap.Failures)
}

func TestService_ConcurrentCallsCountedOnce(t *testing.T) {
	s := NewService(&fakeProvider{name: "gemini", reply: "ok", delay: 5 * time.Millisecond}, zap.NewNop(),
		WithConcurrency(2))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.GenerateReply(context.Background(), "hello")
		}()
	}
	wg.Wait()

	snap := s.Stats().Snapshot()
	require.Equal(t, int64(n), snap.Calls)
	require.Equal(t, int64(0), snap.Failures)
}

func TestService_CanceledRequest(t *testing.T) {
	s := NewService(&fakeProvider{name: "gemini", reply: "late", delay: time.Second}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Equal(t, RuleReply("resume"), s.GenerateReply(ctx, "resume"))
	snap := s.Stats().Snapshot()
	require.Equal(t, int64(1), snap.Failures)
	require.Equal(t, "gemini_canceled", snap.LastFailure)
}

func TestService_BusyWhenNoSlotFreesInTime(t *testing.T) {
	p := &fakeProvider{name: "gemini", reply: "ok", delay: 200 * time.Millisecond}
	s := NewService(p, zap.NewNop(), WithConcurrency(1), WithTimeout(50*time.Millisecond))

	// Hold the only slot so the next call cannot acquire one before its deadline.
	require.NoError(t, s.slots.Acquire(context.Background(), 1))
	defer s.slots.Release(1)

	require.Equal(t, RuleReply("hi"), s.GenerateReply(context.Background(), "hi"))
	require.Equal(t, "gemini_busy", s.Stats().Snapshot().LastFailure)
}
