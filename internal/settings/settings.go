// Package settings loads the poseidon command's own settings from an
// optional poseidon.yaml in the working directory and POSEIDON_* environment
// variables. Command-line flags are applied on top by the caller.
package settings

import (
	"errors"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"poseidon/internal/configtype"
	"poseidon/internal/messages"
)

// Environment variable names, for reference in help text.
const (
	EnvDir      = "POSEIDON_DIR"       // config directory
	EnvPrefix   = "POSEIDON_PREFIX"    // config file prefix
	EnvTypes    = "POSEIDON_TYPES"     // comma-separated preload list
	EnvLocale   = "POSEIDON_LOCALE"    // message catalog
	EnvLogLevel = "POSEIDON_LOG_LEVEL" // debug, info, warn, error
	EnvLogFile  = "POSEIDON_LOG_FILE"  // extra JSON log destination
)

// Settings for the poseidon command.
type Settings struct {
	Dir    string      `mapstructure:"dir"`
	Prefix string      `mapstructure:"prefix"`
	Types  string      `mapstructure:"types"`
	Locale string      `mapstructure:"locale"`
	Log    LogSettings `mapstructure:"log"`
}

type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Prefix: configtype.DefaultPrefix,
		Locale: messages.DefaultLocale,
		Log: LogSettings{
			Level: "warn",
		},
	}
}

// Load reads settings from files and environment variables. Environment
// variables use the prefix "POSEIDON" and the dot character in keys is
// replaced by an underscore, so "log.level" becomes "POSEIDON_LOG_LEVEL".
func Load(searchPaths ...string) (*Settings, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("poseidon")
	if len(searchPaths) == 0 {
		searchPaths = []string{"."}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("POSEIDON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PreloadTypes returns the preload list, or nil when none is configured.
func (s Settings) PreloadTypes() []string {
	if strings.TrimSpace(s.Types) == "" {
		return nil
	}
	return configtype.SplitList(s.Types)
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string{}, parts...), tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
