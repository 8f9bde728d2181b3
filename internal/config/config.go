// Package config loads the daemon configuration from an optional YAML file,
// a .env file and GHOST_ prefixed environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/nikolayk812/ghostshop/internal/cart"
	"github.com/nikolayk812/ghostshop/internal/checkout"
	"github.com/nikolayk812/ghostshop/internal/domain"
	"github.com/nikolayk812/ghostshop/internal/pricefeed"
)

const EnvPrefix = "GHOST_"

type Config struct {
	Storage struct {
		Key string `koanf:"key"`
	} `koanf:"storage"`

	Database struct {
		URL string `koanf:"url"`
	} `koanf:"database"`

	PriceFeed PriceFeed `koanf:"priceFeed"`
	Checkout  Checkout  `koanf:"checkout"`
	Log       Log       `koanf:"log"`

	HTTP struct {
		Addr string `koanf:"addr"`
	} `koanf:"http"`
}

type PriceFeed struct {
	Endpoint      string        `koanf:"endpoint"`
	Interval      time.Duration `koanf:"interval"`
	Timeout       time.Duration `koanf:"timeout"`
	MinRequestGap time.Duration `koanf:"minRequestGap"`
}

type Checkout struct {
	StepInterval time.Duration `koanf:"stepInterval"`
	FinalDelay   time.Duration `koanf:"finalDelay"`
	Wallets      struct {
		BTC string `koanf:"btc"`
		XMR string `koanf:"xmr"`
	} `koanf:"wallets"`
}

type Log struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
}

// WalletMap returns the configured wallet overrides keyed by crypto.
// Empty addresses are left out so defaults apply.
func (c Checkout) WalletMap() map[domain.Crypto]string {
	wallets := make(map[domain.Crypto]string, 2)
	if c.Wallets.BTC != "" {
		wallets[domain.CryptoBTC] = c.Wallets.BTC
	}
	if c.Wallets.XMR != "" {
		wallets[domain.CryptoXMR] = c.Wallets.XMR
	}
	return wallets
}

func Default() Config {
	var cfg Config
	cfg.Storage.Key = cart.DefaultKey
	cfg.PriceFeed = PriceFeed{
		Endpoint:      pricefeed.DefaultEndpoint,
		Interval:      pricefeed.DefaultInterval,
		Timeout:       10 * time.Second,
		MinRequestGap: time.Second,
	}
	cfg.Checkout.StepInterval = checkout.DefaultStepInterval
	cfg.Checkout.FinalDelay = checkout.DefaultFinalDelay
	cfg.Log.Level = "info"
	cfg.HTTP.Addr = ":9090"
	return cfg
}

// Load reads path when it is not empty, then .env, then the environment.
// Keys missing from every source keep their Default value.
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("k.Load[%s]: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return canonicalizeEnvKey(strings.TrimPrefix(key, EnvPrefix), keyTree), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("k.Load[env]: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return Config{}, fmt.Errorf("k.UnmarshalWithConf: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Storage.Key) == "" {
		errs = append(errs, errors.New("storage.key is empty"))
	}
	if c.PriceFeed.Endpoint == "" {
		errs = append(errs, errors.New("priceFeed.endpoint is empty"))
	}
	if c.PriceFeed.Interval <= 0 {
		errs = append(errs, fmt.Errorf("priceFeed.interval[%s] must be positive", c.PriceFeed.Interval))
	}
	if c.PriceFeed.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("priceFeed.timeout[%s] must be positive", c.PriceFeed.Timeout))
	}
	if c.PriceFeed.MinRequestGap < 0 {
		errs = append(errs, fmt.Errorf("priceFeed.minRequestGap[%s] is negative", c.PriceFeed.MinRequestGap))
	}
	if c.Checkout.StepInterval <= 0 {
		errs = append(errs, fmt.Errorf("checkout.stepInterval[%s] must be positive", c.Checkout.StepInterval))
	}
	if c.Checkout.FinalDelay < 0 {
		errs = append(errs, fmt.Errorf("checkout.finalDelay[%s] is negative", c.Checkout.FinalDelay))
	}

	return errors.Join(errs...)
}

// keyTree mirrors the koanf keys so env segments map back to camelCase.
var keyTree = map[string]any{
	"storage":  map[string]any{"key": nil},
	"database": map[string]any{"url": nil},
	"priceFeed": map[string]any{
		"endpoint":      nil,
		"interval":      nil,
		"timeout":       nil,
		"minRequestGap": nil,
	},
	"checkout": map[string]any{
		"stepInterval": nil,
		"finalDelay":   nil,
		"wallets":      map[string]any{"btc": nil, "xmr": nil},
	},
	"log":  map[string]any{"level": nil, "pretty": nil},
	"http": map[string]any{"addr": nil},
}

// canonicalizeEnvKey turns PRICEFEED_MIN_REQUEST_GAP into priceFeed.minRequestGap.
// Consecutive segments are joined until they name a known key.
func canonicalizeEnvKey(rawKey string, tree map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := tree

	for i := 0; i < len(segments); i++ {
		if segments[i] == "" {
			continue
		}

		matched := false
		for j := len(segments); j > i; j-- {
			key, next, ok := findSegment(current, strings.Join(segments[i:j], ""))
			if !ok {
				continue
			}
			canonical = append(canonical, key)
			current = next
			i = j - 1
			matched = true
			break
		}

		if !matched {
			canonical = append(canonical, segments[i])
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}
		child, _ := value.(map[string]any)
		return key, child, true
	}
	return "", nil, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
