package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/patagonfinance/vault-service/db"
	"github.com/patagonfinance/vault-service/log"
	"github.com/patagonfinance/vault-service/messagepush"
	"github.com/patagonfinance/vault-service/metrics"
	"github.com/patagonfinance/vault-service/redisstorage"
	"github.com/patagonfinance/vault-service/server"
	"github.com/spf13/viper"
)

const envPrefix = "VAULT_SERVICE"

// Config struct
type Config struct {
	Log                 log.Config
	Database            db.Config
	Redis               redisstorage.Config
	MessagePushProducer messagepush.Config
	Metrics             metrics.Config
	Server              server.Config
	NetworkConfig
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load loads the configuration
func Load(configFilePath string, network string) (*Config, error) {
	var cfg Config
	v := viper.New()
	v.SetConfigType("toml")

	err := v.ReadConfig(bytes.NewBuffer([]byte(DefaultValues)))
	if err != nil {
		return nil, err
	}
	err = v.Unmarshal(&cfg, decodeHook())
	if err != nil {
		return nil, err
	}
	if configFilePath != "" {
		dirName, fileName := filepath.Split(configFilePath)

		fileExtension := strings.TrimPrefix(filepath.Ext(fileName), ".")
		fileNameWithoutExtension := strings.TrimSuffix(fileName, "."+fileExtension)

		v.AddConfigPath(dirName)
		v.SetConfigName(fileNameWithoutExtension)
		v.SetConfigType(fileExtension)
	}
	v.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.SetEnvPrefix(envPrefix)
	if configFilePath != "" {
		err = v.MergeInConfig()
		if err != nil {
			_, ok := err.(viper.ConfigFileNotFoundError)
			if !ok {
				log.Infof("error reading config file: %v", err)
				return nil, err
			}
			log.Infof("config file not found")
		}
	}

	err = v.Unmarshal(&cfg, decodeHook())
	if err != nil {
		return nil, err
	}

	if v.IsSet("NetworkConfig") && network != "" {
		return nil, errors.New("Network details are provided in the config file (the [NetworkConfig] section) and as a flag (the --network or -n). Configure it only once and try again please.")
	}
	if !v.IsSet("NetworkConfig") && network == "" {
		return nil, errors.New("Network details are not provided. Please configure the [NetworkConfig] section in your config file, or provide a --network flag.")
	}
	if !v.IsSet("NetworkConfig") && network != "" {
		if err := cfg.loadNetworkConfig(network); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}
