package infra

import "fmt"

const (
	// RedisNamespace prefixes every key the CLI writes.
	RedisNamespace = "agentplatform"
)

// Streams
const (
	RedisKeyJournalStream = RedisNamespace + ":journal:calls"
)

// JournalStreamKey returns the journal stream for a named environment, or
// the shared stream when env is empty.
func JournalStreamKey(env string) string {
	if env == "" {
		return RedisKeyJournalStream
	}
	return fmt.Sprintf("%s:%s:journal:calls", RedisNamespace, env)
}
