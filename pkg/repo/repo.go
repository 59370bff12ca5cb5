package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Repo struct {
	RepoRoot      string
	Config        *Config
	GenesisConfig *GenesisConfig
}

// tomlFile is one of the two files of a repo, T is the struct it decodes into.
type tomlFile[T any] struct {
	name      string
	envPrefix string
	defaults  func() *T

	// optional
	beforeRead func(*T)
	validate   func(*T) error
}

var (
	configFile = tomlFile[Config]{
		name:      CfgFileName,
		envPrefix: configEnvPrefix,
		defaults:  DefaultConfig,
	}

	genesisFile = tomlFile[GenesisConfig]{
		name:      genesisCfgFileName,
		envPrefix: genesisEnvPrefix,
		defaults:  DefaultGenesisConfig,
		validate:  (*GenesisConfig).Validate,
		// accounts in the file replace the default ones instead of merging
		beforeRead: func(g *GenesisConfig) {
			g.Accounts = nil
		},
	}
)

func Default(repoRoot string) *Repo {
	return &Repo{
		RepoRoot:      repoRoot,
		Config:        DefaultConfig(),
		GenesisConfig: DefaultGenesisConfig(),
	}
}

// Load reads both files of the repo, missing files are written with the defaults first.
func Load(repoRoot string) (*Repo, error) {
	repoRoot, err := LoadRepoRootFromEnv(repoRoot)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(repoRoot)
	if err != nil {
		return nil, err
	}
	genesisCfg, err := LoadGenesisConfig(repoRoot)
	if err != nil {
		return nil, err
	}
	return &Repo{
		RepoRoot:      repoRoot,
		Config:        cfg,
		GenesisConfig: genesisCfg,
	}, nil
}

func LoadConfig(repoRoot string) (*Config, error) {
	cfg, err := configFile.load(repoRoot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	return cfg, nil
}

func LoadGenesisConfig(repoRoot string) (*GenesisConfig, error) {
	genesis, err := genesisFile.load(repoRoot)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load genesis config")
	}
	return genesis, nil
}

// Flush writes the in-memory configs back to the repo, environment overrides included.
func (r *Repo) Flush() error {
	if err := configFile.write(r.RepoRoot, r.Config); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	if err := genesisFile.write(r.RepoRoot, r.GenesisConfig); err != nil {
		return errors.Wrap(err, "failed to write genesis config")
	}
	return nil
}

func (r *Repo) PrintRepoInfo(writer func(c string)) {
	writer(fmt.Sprintf("%s-repo: %s", AppName, r.RepoRoot))
	writer(fmt.Sprintf("kv-type: %s", r.Config.Storage.KvType))
	writer(fmt.Sprintf("staking-owner: %s", r.GenesisConfig.Staking.Owner))
	writer(fmt.Sprintf("tokens: %s/%s", r.GenesisConfig.StakeToken.Symbol, r.GenesisConfig.RewardsToken.Symbol))
}

func (f tomlFile[T]) path(repoRoot string) string {
	return filepath.Join(repoRoot, f.name)
}

func (f tomlFile[T]) load(repoRoot string) (*T, error) {
	v := f.defaults()
	if !fileExist(f.path(repoRoot)) {
		if err := os.MkdirAll(repoRoot, 0755); err != nil {
			return nil, err
		}
		if err := f.write(repoRoot, v); err != nil {
			return nil, errors.Wrapf(err, "build default %s", f.name)
		}
	} else {
		if err := CheckWritable(repoRoot); err != nil {
			return nil, err
		}
		if f.beforeRead != nil {
			f.beforeRead(v)
		}
		if err := f.read(repoRoot, v); err != nil {
			return nil, err
		}
	}

	if f.validate != nil {
		if err := f.validate(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// write stores v and then reads it back so that environment overrides land in the file as well.
func (f tomlFile[T]) write(repoRoot string, v *T) error {
	p := f.path(repoRoot)
	if err := writeToml(p, v); err != nil {
		return err
	}
	if err := f.read(repoRoot, v); err != nil {
		return errors.Wrap(err, "failed to read cfg from environment")
	}
	return writeToml(p, v)
}

func (f tomlFile[T]) read(repoRoot string, v *T) error {
	p := f.path(repoRoot)
	raw, err := os.ReadFile(p)
	if err != nil {
		return err
	}

	// viper is lenient on types, a strict toml decode catches malformed files first
	if err := toml.NewDecoder(bytes.NewReader(raw)).Decode(new(T)); err != nil {
		var decodeError *toml.DecodeError
		if errors.As(err, &decodeError) {
			return errors.Errorf("invalid format of %s:\n%s", p, decodeError.String())
		}
		return errors.Wrapf(err, "invalid format of %s", p)
	}

	vp := viper.New()
	vp.SetConfigType("toml")
	vp.SetEnvPrefix(f.envPrefix)
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()
	if err := vp.ReadConfig(bytes.NewReader(raw)); err != nil {
		return err
	}
	return vp.Unmarshal(v, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		StringToTimeDurationHookFunc(),
		StringToCoinNumberHookFunc(),
	)))
}

func writeToml(p string, v any) error {
	raw, err := MarshalConfig(v)
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(raw), 0644)
}

func MarshalConfig(config any) (string, error) {
	buf := bytes.NewBuffer([]byte{})
	e := toml.NewEncoder(buf)
	e.SetIndentTables(true)
	e.SetArraysMultiline(true)
	if err := e.Encode(config); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func GetStoragePath(repoRoot string, subPath ...string) string {
	return filepath.Join(append([]string{repoRoot, "storage"}, subPath...)...)
}

// LoadRepoRootFromEnv resolves the repo root: the argument, then $AXIOM_STAKING_PATH, then the home default.
func LoadRepoRootFromEnv(repoRoot string) (string, error) {
	if repoRoot != "" {
		return repoRoot, nil
	}
	if repoRoot = os.Getenv(rootPathEnvVar); repoRoot != "" {
		return repoRoot, nil
	}
	return homedir.Expand(defaultRepoRoot)
}

func CheckWritable(dir string) error {
	_, err := os.Stat(dir)
	switch {
	case err == nil:
		probe := filepath.Join(dir, ".write_probe")
		fi, err := os.Create(probe)
		if err != nil {
			if os.IsPermission(err) {
				return fmt.Errorf("%s is not writeable by the current user", dir)
			}
			return fmt.Errorf("unexpected error while checking writeablility of repo root: %s", err)
		}
		_ = fi.Close()
		return os.Remove(probe)
	case os.IsNotExist(err):
		return os.Mkdir(dir, 0775)
	case os.IsPermission(err):
		return fmt.Errorf("cannot write to %s, incorrect permissions", dir)
	default:
		return err
	}
}

func fileExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
