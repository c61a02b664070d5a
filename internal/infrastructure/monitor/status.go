package monitor

import "time"

type Status struct {
	Database     bool      `json:"database"`
	Redis        bool      `json:"redis"`
	RedisEnabled bool      `json:"redis_enabled"`
	Buffer       bool      `json:"buffer"`
	BufferSize   int       `json:"buffer_size"`
	LastCheck    time.Time `json:"last_check"`
}

// Online reports whether every configured dependency answered.
func (s Status) Online() bool {
	return s.Database && (!s.RedisEnabled || s.Redis)
}
