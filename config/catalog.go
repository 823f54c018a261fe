package config

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/kamalbuilds/zkPassport/core"
)

// DefaultIssuers returns the issuer catalog. In a production deployment this
// is externally managed; the registry only reads it.
func DefaultIssuers() []core.Issuer {
	return []core.Issuer{
		{
			ID:        "kyc-provider-1",
			Name:      "Global KYC Solutions",
			URL:       "https://globalkyc.example",
			PublicKey: common.HexToAddress("0x1234567890123456789012345678901234567890"),
			Types: []core.CredentialType{
				core.CredentialTypeKYC,
				core.CredentialTypeAgeVerification,
			},
		},
		{
			ID:        "dao-governance",
			Name:      "DAO Governance Council",
			URL:       "https://dao-governance.example",
			PublicKey: common.HexToAddress("0x2345678901234567890123456789012345678901"),
			Types: []core.CredentialType{
				core.CredentialTypeDAOMembership,
			},
		},
		{
			ID:        "credit-score-authority",
			Name:      "Decentralized Credit Authority",
			URL:       "https://dca.example",
			PublicKey: common.HexToAddress("0x3456789012345678901234567890123456789012"),
			Types: []core.CredentialType{
				core.CredentialTypeCreditScore,
				core.CredentialTypeIncomeVerification,
			},
		},
	}
}

// DefaultChains returns the configured chain set.
func DefaultChains() map[core.Chain]core.ChainConfig {
	return map[core.Chain]core.ChainConfig{
		core.ChainEthereum: {
			ID:             1,
			Name:           "Ethereum",
			RPCURL:         "https://eth-mainnet.g.alchemy.com/v2/demo",
			BridgeContract: common.HexToAddress("0x1234567890123456789012345678901234567890"),
			ExplorerURL:    "https://etherscan.io",
			EVM:            true,
		},
		core.ChainPolygon: {
			ID:             137,
			Name:           "Polygon",
			RPCURL:         "https://polygon-mainnet.g.alchemy.com/v2/demo",
			BridgeContract: common.HexToAddress("0x1234567890123456789012345678901234567891"),
			ExplorerURL:    "https://polygonscan.com",
			EVM:            true,
		},
		core.ChainSui: {
			Name:        "Sui",
			RPCURL:      "https://fullnode.mainnet.sui.io",
			ExplorerURL: "https://explorer.sui.io",
		},
		core.ChainAptos: {
			Name:        "Aptos",
			RPCURL:      "https://fullnode.mainnet.aptoslabs.com/v1",
			ExplorerURL: "https://explorer.aptoslabs.com",
		},
		core.ChainArbitrum: {
			ID:             42161,
			Name:           "Arbitrum",
			RPCURL:         "https://arb1.arbitrum.io/rpc",
			BridgeContract: common.HexToAddress("0x1234567890123456789012345678901234567892"),
			ExplorerURL:    "https://arbiscan.io",
			EVM:            true,
		},
		core.ChainOptimism: {
			ID:             10,
			Name:           "Optimism",
			RPCURL:         "https://mainnet.optimism.io",
			BridgeContract: common.HexToAddress("0x1234567890123456789012345678901234567893"),
			ExplorerURL:    "https://optimistic.etherscan.io",
			EVM:            true,
		},
	}
}
