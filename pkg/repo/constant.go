package repo

const (
	AppName = "AxiomStaking"

	// CfgFileName is the default config name
	CfgFileName = "config.toml"

	genesisCfgFileName = "genesis.toml"

	// defaultRepoRoot is the path to the default config dir location.
	defaultRepoRoot = "~/.axiom-staking"

	// rootPathEnvVar is the environment variable used to change the path root.
	rootPathEnvVar = "AXIOM_STAKING_PATH"

	configEnvPrefix = "AXIOM_STAKING"

	genesisEnvPrefix = "AXIOM_STAKING_GENESIS"

	LogsDirName = "logs"
)

const (
	KVStorageTypeLeveldb = "leveldb"
	KVStorageTypePebble  = "pebble"
	KVStorageTypeMemory  = "memory"
	KVStorageCacheSize   = 16
	KVStorageSync        = true
)

const (
	DefaultDecimals = 18

	DefaultStakeTime   = 10
	DefaultClaimTime   = 15
	DefaultRewardsTime = 10

	DefaultRewardsPercentMantissa = 2
	DefaultRewardsPercentExponent = 1
)

var (
	DefaultAdmin = "0xc7F999b83Af6DF9e67d0a37Ee7e900bF38b3D013"

	DefaultAccounts = []string{
		"0xc7F999b83Af6DF9e67d0a37Ee7e900bF38b3D013",
		"0x79a1215469FaB6f9c63c1816b45183AD3624bE34",
		"0x97c8B516D19edBf575D72a172Af7F418BE498C37",
		"0xc0Ff2e0b3189132D815b8eb325bE17285AC898f8",
	}
)
