package wxagent

import "time"

const (
	// DefaultMaxToolRounds bounds the request/response exchanges with the
	// completion service within one question.
	DefaultMaxToolRounds = 8

	// DefaultTurnTimeout bounds one full question, including all nested
	// tool calls.
	DefaultTurnTimeout = 2 * time.Minute

	// DefaultTemperature keeps SQL generation close to deterministic.
	DefaultTemperature = 0.1

	// DefaultMaxQueryResults is the row cap the model is instructed to
	// apply unless the user explicitly asks for more.
	DefaultMaxQueryResults = 1000
)
