package redisstorage

import "time"

// Config stores the redis connection configs
type Config struct {
	Enabled bool `mapstructure:"Enabled"`

	// If this is true, will use ClusterClient
	IsClusterMode bool `mapstructure:"IsClusterMode"`

	// Host:Port address
	Addrs []string `mapstructure:"Addrs"`

	// Username for ACL
	Username string `mapstructure:"Username"`

	// Password for ACL
	Password string `mapstructure:"Password"`

	// DB index
	DB int `mapstructure:"DB"`

	// KeyPrefix namespaces every key written by the service
	KeyPrefix string `mapstructure:"KeyPrefix"`

	// SummaryTTL is the expiry of the cached vault summary, 0 keeps it until the next commit
	SummaryTTL time.Duration `mapstructure:"SummaryTTL"`
}
