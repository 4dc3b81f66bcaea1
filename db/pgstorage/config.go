package pgstorage

import "fmt"

// Config struct
type Config struct {
	// Database name
	Name string `mapstructure:"Name"`

	// User name
	User string `mapstructure:"User"`

	// Password of the user
	Password string `mapstructure:"Password"`

	// Host address
	Host string `mapstructure:"Host"`

	// Port Number
	Port string `mapstructure:"Port"`

	// MaxConns is the maximum number of connections in the pool.
	MaxConns int `mapstructure:"MaxConns"`

	// SSLMode is passed through to the connection string, e.g. "disable" or "require".
	SSLMode string `mapstructure:"SSLMode"`
}

func (c Config) url() string {
	url := fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.User, c.Password, c.Host, c.Port, c.Name)
	if c.SSLMode != "" {
		url += "?sslmode=" + c.SSLMode
	}
	return url
}

func (c Config) poolURL() string {
	url := c.url()
	if c.MaxConns <= 0 {
		return url
	}
	sep := "?"
	if c.SSLMode != "" {
		sep = "&"
	}
	return fmt.Sprintf("%s%spool_max_conns=%d", url, sep, c.MaxConns)
}
