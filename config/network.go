package config

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/patagonfinance/vault-service/ledger"
	"github.com/patagonfinance/vault-service/log"
)

// NetworkConfig is the configuration struct for the different environments
type NetworkConfig struct {
	Genesis ledger.GenesisConfig
}

const (
	testnet = "testnet"
	local   = "local"
)

//nolint:gomnd
var (
	testnetConfig = NetworkConfig{
		Genesis: ledger.GenesisConfig{
			Deployer:            common.HexToAddress("0x3f4C7c3fD9dDAf1211FA11D0Dc8E2Ce3a93EB2b3"),
			Admin:               common.HexToAddress("0x9d98deabc42dd696deb9e40b4f1cab7ddbf55988"),
			Operator:            common.HexToAddress("0x47c1090bc966280000Fe4356a501f1D0887Ce840"),
			MinimumDeposit:      100_000_000,
			BaseAssetSupply:     1_000_000_000_000_000,
			BaseAssetDecimals:   6,
			VaultVersion:        3,
			RejectDuplicateRefs: true,
		},
	}
	localConfig = NetworkConfig{
		Genesis: ledger.GenesisConfig{
			Deployer:          common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
			Admin:             common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
			Operator:          common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
			MinimumDeposit:    100,
			BaseAssetSupply:   1_000_000_000,
			BaseAssetDecimals: 6,
			VaultVersion:      1,
			Whitelisted: []common.Address{
				common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906"),
			},
		},
	}
)

func (cfg *Config) loadNetworkConfig(network string) error {
	switch network {
	case testnet:
		log.Debug("Testnet network selected")
		cfg.NetworkConfig = testnetConfig
	case local:
		log.Debug("Local network selected")
		cfg.NetworkConfig = localConfig
	default:
		return fmt.Errorf("unknown network %q", network)
	}
	return nil
}
