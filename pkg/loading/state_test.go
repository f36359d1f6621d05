package loading

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindInitial, "Initial"},
		{KindLoading, "Loading"},
		{KindSuccess, "Success"},
		{KindError, "Error"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}

func TestState_ZeroValueIsInitial(t *testing.T) {
	var s State
	assert.True(t, s.IsInitial())
	assert.True(t, s.Equal(Initial()))
}

func TestState_Failed(t *testing.T) {
	cause := errors.New("network down")
	s := Failed(cause)

	assert.True(t, s.IsError())
	assert.Same(t, cause, s.Cause())
	assert.Equal(t, "Error(network down)", s.String())
	assert.Nil(t, Success().Cause())
}

func TestState_Equal(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("load: %w", cause)

	assert.True(t, Loading().Equal(Loading()))
	assert.False(t, Loading().Equal(Success()))
	assert.True(t, Failed(cause).Equal(Failed(cause)))
	assert.True(t, Failed(wrapped).Equal(Failed(cause)))
	assert.True(t, Failed(cause).Equal(Failed(wrapped)), "Equal is symmetric")
	assert.False(t, Failed(cause).Equal(Failed(errors.New("boom"))))
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Kind
		to   Kind
		want bool
	}{
		{"initial to loading", KindInitial, KindLoading, true},
		{"success to loading", KindSuccess, KindLoading, true},
		{"error to loading", KindError, KindLoading, true},
		{"loading to success", KindLoading, KindSuccess, true},
		{"loading to error", KindLoading, KindError, true},
		{"initial to success", KindInitial, KindSuccess, false},
		{"initial to error", KindInitial, KindError, false},
		{"loading to loading", KindLoading, KindLoading, false},
		{"loading to initial", KindLoading, KindInitial, false},
		{"success to error", KindSuccess, KindError, false},
		{"error to success", KindError, KindSuccess, false},
		{"unknown", Kind(42), KindLoading, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransition(t *testing.T) {
	next, err := Transition(Initial(), Loading())
	assert.NoError(t, err)
	assert.True(t, next.IsLoading())

	next, err = Transition(Initial(), Success())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.True(t, next.IsInitial())
}
