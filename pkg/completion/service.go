package completion

import (
	"context"
	"errors"
	"time"

	"goa.design/clue/log"

	"github.com/jxucoder/promptrelay/pkg/llm"
)

// Service relays validated prompts to an upstream client. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	upstream llm.Client
	timeout  time.Duration
}

// NewService creates a Service. A positive timeout bounds every upstream
// call; zero leaves the call bounded only by the caller's context.
func NewService(upstream llm.Client, timeout time.Duration) *Service {
	return &Service{upstream: upstream, timeout: timeout}
}

// Complete issues exactly one upstream call for req. Upstream failures are
// logged with their detail and returned as a KindUpstream *Error whose
// message is the fixed generic text. No retries are attempted.
func (s *Service) Complete(ctx context.Context, req PromptRequest) (Result, error) {
	if req.Prompt == "" {
		return Result{}, InvalidInput(errors.New("empty prompt"))
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.upstream.Complete(ctx, req.Prompt)
	if err != nil {
		log.Error(ctx, err,
			log.KV{K: "msg", V: "upstream completion failed"},
			log.KV{K: "timeout", V: errors.Is(err, context.DeadlineExceeded)},
			log.KV{K: "elapsed", V: time.Since(start).String()},
		)
		return Result{}, UpstreamFailure(err)
	}

	log.Debug(ctx,
		log.KV{K: "msg", V: "upstream completion succeeded"},
		log.KV{K: "elapsed", V: time.Since(start).String()},
	)
	return Result{Text: text}, nil
}
