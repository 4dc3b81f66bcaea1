package db

import "github.com/patagonfinance/vault-service/db/pgstorage"

// Config provide fields to configure the database
type Config struct {
	// Database type, only "postgres" is supported
	Database string `mapstructure:"Database"`

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

	SSLMode string `mapstructure:"SSLMode"`

	// RunMigrations applies pending migrations when the service starts
	RunMigrations bool `mapstructure:"RunMigrations"`
}

func (c Config) pgConfig() pgstorage.Config {
	return pgstorage.Config{
		Name:     c.Name,
		User:     c.User,
		Password: c.Password,
		Host:     c.Host,
		Port:     c.Port,
		MaxConns: c.MaxConns,
		SSLMode:  c.SSLMode,
	}
}
