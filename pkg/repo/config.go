package repo

import (
	"math/big"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

type Duration time.Duration

func (d *Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(*d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	x, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(x)
	return nil
}

func StringToTimeDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(Duration(5)) {
			return data, nil
		}

		d, err := time.ParseDuration(data.(string))
		if err != nil {
			return nil, err
		}
		return Duration(d), nil
	}
}

func (d *Duration) ToDuration() time.Duration {
	return time.Duration(*d)
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

// CoinNumber is a token amount written as a decimal string in toml.
type CoinNumber big.Int

func NewCoinNumber(v *big.Int) *CoinNumber {
	return (*CoinNumber)(new(big.Int).Set(v))
}

func CoinNumberByUint64(v uint64) *CoinNumber {
	return (*CoinNumber)(new(big.Int).SetUint64(v))
}

func (c *CoinNumber) ToBigInt() *big.Int {
	if c == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set((*big.Int)(c))
}

func (c *CoinNumber) String() string {
	return c.ToBigInt().String()
}

func (c *CoinNumber) MarshalText() (text []byte, err error) {
	return []byte(c.String()), nil
}

func (c *CoinNumber) UnmarshalText(b []byte) error {
	v, ok := new(big.Int).SetString(string(b), 10)
	if !ok || v.Sign() < 0 {
		return errors.Errorf("invalid coin number: %s", string(b))
	}
	*c = CoinNumber(*v)
	return nil
}

func StringToCoinNumberHookFunc() mapstructure.DecodeHookFunc {
	return func(
		f reflect.Type,
		t reflect.Type,
		data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(CoinNumber{}) && t != reflect.TypeOf(&CoinNumber{}) {
			return data, nil
		}

		c := &CoinNumber{}
		if err := c.UnmarshalText([]byte(data.(string))); err != nil {
			return nil, err
		}
		if t.Kind() == reflect.Ptr {
			return c, nil
		}
		return *c, nil
	}
}

type Config struct {
	Storage  Storage  `mapstructure:"storage" toml:"storage"`
	Ledger   Ledger   `mapstructure:"ledger" toml:"ledger"`
	Executor Executor `mapstructure:"executor" toml:"executor"`
	Monitor  Monitor  `mapstructure:"monitor" toml:"monitor"`
	Log      Log      `mapstructure:"log" toml:"log"`
}

type Monitor struct {
	Enable bool  `mapstructure:"enable" toml:"enable"`
	Port   int64 `mapstructure:"port" toml:"port"`
}

type Log struct {
	Level        string `mapstructure:"level" toml:"level"`
	Filename     string `mapstructure:"filename" toml:"filename"`
	ReportCaller bool   `mapstructure:"report_caller" toml:"report_caller"`
	EnableColor  bool   `mapstructure:"enable_color" toml:"enable_color"`

	DisableTimestamp bool `mapstructure:"disable_timestamp" toml:"disable_timestamp"`

	// unit: day
	MaxAge uint `mapstructure:"max_age" toml:"max_age"`

	RotationTime Duration  `mapstructure:"rotation_time" toml:"rotation_time"`
	Module       LogModule `mapstructure:"module" toml:"module"`
}

type LogModule struct {
	Executor       string `mapstructure:"executor" toml:"executor"`
	Ledger         string `mapstructure:"ledger" toml:"ledger"`
	Storage        string `mapstructure:"storage" toml:"storage"`
	SystemContract string `mapstructure:"system_contract" toml:"system_contract"`
}

type Storage struct {
	KvType      string `mapstructure:"kv_type" toml:"kv_type"`
	KvCacheSize int    `mapstructure:"kv_cache_size" toml:"kv_cache_size"`
	Sync        bool   `mapstructure:"sync" toml:"sync"`
}

type Ledger struct {
	StateLedgerCacheMegabytesLimit int `mapstructure:"state_ledger_cache_megabytes_limit" toml:"state_ledger_cache_megabytes_limit"`
}

type Executor struct {
	// reject blocks whose timestamp is smaller than the latest block
	StrictTimestamp bool `mapstructure:"strict_timestamp" toml:"strict_timestamp"`
}

func DefaultConfig() *Config {
	return &Config{
		Storage: Storage{
			KvType:      KVStorageTypeLeveldb,
			KvCacheSize: KVStorageCacheSize,
			Sync:        KVStorageSync,
		},
		Ledger: Ledger{
			StateLedgerCacheMegabytesLimit: 32,
		},
		Executor: Executor{
			StrictTimestamp: true,
		},
		Monitor: Monitor{
			Enable: false,
			Port:   40011,
		},
		Log: Log{
			Level:            "info",
			Filename:         "axiom-staking",
			ReportCaller:     false,
			EnableColor:      true,
			DisableTimestamp: false,
			MaxAge:           30,
			RotationTime:     Duration(24 * time.Hour),
			Module: LogModule{
				Executor:       "info",
				Ledger:         "info",
				Storage:        "info",
				SystemContract: "info",
			},
		},
	}
}
