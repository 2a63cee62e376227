package completion_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jxucoder/promptrelay/pkg/completion"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want completion.Kind
	}{
		{name: "validation", err: completion.InvalidInput(errors.New("x")), want: completion.KindValidation},
		{name: "method", err: completion.ErrMethodNotAllowed, want: completion.KindMethod},
		{name: "upstream", err: completion.UpstreamFailure(errors.New("x")), want: completion.KindUpstream},
		{name: "wrapped", err: fmt.Errorf("outer: %w", completion.InvalidInput(nil)), want: completion.KindValidation},
		{name: "unclassified", err: errors.New("boom"), want: completion.KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, completion.KindOf(tt.err))
		})
	}
}

func TestEnvelopeFor_HidesDetail(t *testing.T) {
	detail := errors.New("401 invalid api key sk-secret")

	env := completion.EnvelopeFor(completion.UpstreamFailure(detail))
	require.Equal(t, completion.MsgUpstreamFailed, env.Message)

	env = completion.EnvelopeFor(detail)
	require.Equal(t, completion.MsgUpstreamFailed, env.Message)
}

func TestError_UnwrapAndMessage(t *testing.T) {
	detail := errors.New("connection reset")
	err := completion.UpstreamFailure(detail)

	require.ErrorIs(t, err, detail)
	require.Contains(t, err.Error(), "connection reset")
	require.Equal(t, completion.MsgMethodNotAllowed, completion.ErrMethodNotAllowed.Error())
}
