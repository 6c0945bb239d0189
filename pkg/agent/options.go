package agent

import "go.uber.org/zap"

const DefaultMaxToolCalls = 8

type settings struct {
	maxRPM       int
	maxToolCalls int
	logger       *zap.Logger
}

type Option func(*settings)

// WithMaxRPM caps model calls per minute, tool round-trips included.
func WithMaxRPM(rpm int) Option {
	return func(s *settings) { s.maxRPM = rpm }
}

// WithMaxToolCalls bounds how many searches one invocation may run.
func WithMaxToolCalls(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxToolCalls = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func applyOptions(opts []Option) settings {
	s := settings{
		maxToolCalls: DefaultMaxToolCalls,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
