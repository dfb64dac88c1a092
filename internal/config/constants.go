package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 60 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// bcrypt work factor bounds
const (
	MinBcryptCost = 10
	MaxBcryptCost = 14
)

// Request body limits
const (
	MaxJSONBodySize   = 1 << 20  // 1MB
	MaxUploadBodySize = 55 << 20 // 10 files at 5MB plus multipart overhead
	MaxUploadFileSize = 5 << 20
	MaxUploadFiles    = 10
)

// Token issuer written into and checked on every session token
const TokenIssuer = "ineffable-admin"
