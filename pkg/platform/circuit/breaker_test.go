package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := New("patients")

	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "patients", b.Name())
}

func TestBreaker_OpensAtFailureThreshold(t *testing.T) {
	b := New("patients", WithFailureThreshold(3))

	for i := 0; i < 2; i++ {
		useFallback, change := b.RecordFailure()
		assert.False(t, useFallback)
		assert.False(t, change.Opened)
	}

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())
	assert.Equal(t, StateOpen, b.State())
}

func TestBreaker_ClosesAtSuccessThreshold(t *testing.T) {
	b := New("patients", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)
	assert.True(t, b.IsOpen(), "one success of two is not enough")

	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_CountersTrackConsecutiveOutcomes(t *testing.T) {
	t.Run("a success clears accumulated failures", func(t *testing.T) {
		b := New("patients", WithFailureThreshold(3))

		b.RecordFailure()
		b.RecordFailure()
		b.RecordSuccess()

		b.RecordFailure()
		b.RecordFailure()
		assert.False(t, b.IsOpen(), "the failure streak restarted after the success")

		b.RecordFailure()
		assert.True(t, b.IsOpen())
	})

	t.Run("a failure while open clears accumulated successes", func(t *testing.T) {
		b := New("patients", WithFailureThreshold(1), WithSuccessThreshold(3))

		b.RecordFailure()
		assert.True(t, b.IsOpen())

		b.RecordSuccess()
		b.RecordSuccess()
		b.RecordFailure()
		assert.True(t, b.IsOpen())

		b.RecordSuccess()
		b.RecordSuccess()
		assert.True(t, b.IsOpen(), "the success streak restarted after the failure")
		b.RecordSuccess()
		assert.False(t, b.IsOpen())
	})
}

func TestBreaker_ResetForcesClosed(t *testing.T) {
	b := New("patients", WithFailureThreshold(1))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.False(t, b.IsOpen())
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_FailuresWhileOpenReportNoTransition(t *testing.T) {
	b := New("patients", WithFailureThreshold(1))

	b.RecordFailure()

	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change.Opened, "already open")
}
