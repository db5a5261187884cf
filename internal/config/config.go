package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/ark-network/miniscript/miniscript"
)

type Config struct {
	LogLevel int
	Context  miniscript.Context
}

var (
	LogLevel = "LOG_LEVEL"
	Context  = "CONTEXT"

	defaultLogLevel = 4 // logrus.InfoLevel
	defaultContext  = "segwitv0"
)

func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("MINISCRIPT")
	viper.AutomaticEnv()

	viper.SetDefault(LogLevel, defaultLogLevel)
	viper.SetDefault(Context, defaultContext)

	ctx, err := contextFromString(viper.GetString(Context))
	if err != nil {
		return nil, err
	}

	return &Config{
		LogLevel: viper.GetInt(LogLevel),
		Context:  ctx,
	}, nil
}

func contextFromString(name string) (miniscript.Context, error) {
	switch name {
	case "legacy", "p2sh":
		return miniscript.Legacy, nil
	case "segwitv0", "p2wsh":
		return miniscript.Segwitv0, nil
	case "tap", "taproot":
		return miniscript.Tap, nil
	case "bare":
		return miniscript.Bare, nil
	case "nochecks":
		return miniscript.NoChecks, nil
	default:
		return nil, fmt.Errorf("invalid context: %s", name)
	}
}
