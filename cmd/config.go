package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EDIPartnersFile string

	PersistTimeout       time.Duration
	NotifyTimeout        time.Duration
	SideEffectMaxRetries uint64
	ReconcileSchedule    string
}

// UsePostgres reports whether workflows are stored in PostgreSQL rather than in memory.
func (c Config) UsePostgres() bool {
	return c.DBHost != ""
}

// UseRedis reports whether notifications and the EDI outbox go through Redis.
func (c Config) UseRedis() bool {
	return c.RedisAddr != ""
}
