package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream unavailable")

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("test", Config{
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

func TestClosedState(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	t.Run("正常请求通行", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			err := cb.Execute(func() error { return nil })
			require.NoError(t, err)
		}
		assert.Equal(t, StateClosed, cb.State())
		assert.Equal(t, uint32(5), cb.Counts().TotalSuccesses)
	})

	t.Run("零星失败不触发熔断", func(t *testing.T) {
		_ = cb.Execute(func() error { return errDownstream })
		_ = cb.Execute(func() error { return nil })
		_ = cb.Execute(func() error { return errDownstream })

		assert.Equal(t, StateClosed, cb.State(), "连续失败未达阈值")
	})
}

func TestTripOnConsecutiveFailures(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	// 连续3次失败触发熔断
	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return errDownstream })
		assert.ErrorIs(t, err, errDownstream)
	}
	assert.Equal(t, StateOpen, cb.State())

	// 熔断期间快速失败,不调用下游
	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断打开时不应调用下游")
}

func TestHalfOpenRecovery(t *testing.T) {
	cb := newTestBreaker(50 * time.Millisecond)

	// 打开熔断
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}
	require.Equal(t, StateOpen, cb.State())

	// 等到超时转半开
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	// 探测成功恢复关闭
	err := cb.Execute(func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestHalfOpenFailureReopens(t *testing.T) {
	cb := newTestBreaker(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	// 探测失败立即回到熔断
	_ = cb.Execute(func() error { return errDownstream })
	assert.Equal(t, StateOpen, cb.State())
}

func TestHalfOpenLimitsProbes(t *testing.T) {
	cb := newTestBreaker(50 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	// MaxRequests=2,挂起2个探测请求后第3个被拒
	release := make(chan struct{})
	done := make(chan struct{})
	for i := 0; i < 2; i++ {
		go func() {
			_ = cb.Execute(func() error {
				<-release
				return nil
			})
			done <- struct{}{}
		}()
	}
	// 等两个探测进入执行
	time.Sleep(20 * time.Millisecond)

	err := cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrOpenState, "超出探测配额被拒")

	close(release)
	<-done
	<-done
}

func TestStateChangeCallback(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		transitions = append(transitions, from.String()+"→"+to.String())
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}

	require.Len(t, transitions, 1)
	assert.Equal(t, "CLOSED→OPEN", transitions[0])
}

func TestFailureRate(t *testing.T) {
	c := Counts{}
	assert.Equal(t, 0.0, c.FailureRate(), "无请求时失败率为0")

	c = Counts{Requests: 10, TotalFailures: 4}
	assert.InDelta(t, 0.4, c.FailureRate(), 1e-9)
}
