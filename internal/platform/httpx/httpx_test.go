package httpx

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"
)

type statusErr int

func (s statusErr) Error() string       { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) HTTPStatusCode() int { return int(s) }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"429", statusErr(429), true},
		{"503", fmt.Errorf("wrapped: %w", statusErr(503)), true},
		{"400", statusErr(400), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryableError(tc.err); got != tc.want {
				t.Fatalf("IsRetryableError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetryAfterDurationCapsAtMax(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "60")
	if got := RetryAfterDuration(resp, time.Second, 10*time.Second); got != 10*time.Second {
		t.Fatalf("got %s", got)
	}
	if got := RetryAfterDuration(nil, 2*time.Second, 10*time.Second); got != 2*time.Second {
		t.Fatalf("fallback got %s", got)
	}
}

func TestSleepHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRetryStopsOnSuccessAndNonRetryable(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, Base: time.Millisecond, Max: 2 * time.Millisecond}

	calls := 0
	err := Retry(context.Background(), p, func(context.Context) (*http.Response, error) {
		calls++
		if calls < 3 {
			return nil, statusErr(http.StatusServiceUnavailable)
		}
		return nil, nil
	}, nil)
	if err != nil || calls != 3 {
		t.Fatalf("want success on third call, got calls=%d err=%v", calls, err)
	}

	calls = 0
	var retries []int
	err = Retry(context.Background(), p, func(context.Context) (*http.Response, error) {
		calls++
		return nil, statusErr(http.StatusBadRequest)
	}, func(attempt int, _ time.Duration, _ error) { retries = append(retries, attempt) })
	if err == nil || calls != 1 || len(retries) != 0 {
		t.Fatalf("400 must not retry: calls=%d retries=%v err=%v", calls, retries, err)
	}

	calls = 0
	err = Retry(context.Background(), p, func(context.Context) (*http.Response, error) {
		calls++
		return nil, statusErr(http.StatusTooManyRequests)
	}, nil)
	if err == nil || calls != 4 {
		t.Fatalf("want 1+3 attempts, got %d (err=%v)", calls, err)
	}
}
