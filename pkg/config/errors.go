package config

import "errors"

var (
	// ErrConfigFileNotFound is returned when the config file is not found
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrBaseURLRequired is returned when the API base URL is not provided
	ErrBaseURLRequired = errors.New("api base_url is required")

	// ErrInvalidBaseURL is returned when the API base URL is not an http(s) URL
	ErrInvalidBaseURL = errors.New("api base_url must be an http or https URL")

	// ErrInvalidTimeout is returned when the API timeout cannot be parsed
	ErrInvalidTimeout = errors.New("api timeout must be a valid duration")

	// ErrRedisAddrRequired is returned when the redis store has no address
	ErrRedisAddrRequired = errors.New("redis addr is required when store type is redis")

	// ErrUnsupportedStoreType is returned for unknown store types
	ErrUnsupportedStoreType = errors.New("unsupported store type (allowed: memory, leveldb, redis)")
)
