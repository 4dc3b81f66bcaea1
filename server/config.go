package server

import "time"

// Config struct
type Config struct {
	// HTTPPort is TCP port to listen by the REST server
	HTTPPort     string        `mapstructure:"HTTPPort"`
	ReadTimeout  time.Duration `mapstructure:"ReadTimeout"`
	WriteTimeout time.Duration `mapstructure:"WriteTimeout"`

	DefaultPageLimit uint `mapstructure:"DefaultPageLimit"`
	MaxPageLimit     uint `mapstructure:"MaxPageLimit"`

	// OperatorToken guards the routes that run operations as the operator.
	// Empty disables the check.
	OperatorToken string `mapstructure:"OperatorToken"`
}
