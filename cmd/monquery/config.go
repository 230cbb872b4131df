package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings for the interactive shell.
type Config struct {
	// When set, compiled queries are also executed against this server.
	MongoURI   string `mapstructure:"mongo_uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`

	// Print compiled queries on a single line.
	Compact bool `mapstructure:"compact"`
}

func init() {
	// Bind command-line flags
	pflag.String("config", "", "Path to the configuration file")
	pflag.String("mongo-uri", "", "MongoDB URI; when set, each compiled query is also executed")
	pflag.String("database", "test", "Database to query when connected")
	pflag.String("collection", "test", "Collection to query when connected")
	pflag.Bool("compact", false, "Print compiled queries on a single line")

	f := pflag.CommandLine
	normalizeFunc := f.GetNormalizeFunc()
	f.SetNormalizeFunc(func(fs *pflag.FlagSet, name string) pflag.NormalizedName {
		result := normalizeFunc(fs, name)
		name = strings.ReplaceAll(string(result), "-", "_")
		return pflag.NormalizedName(name)
	})
}

// LoadConfig merges flags, environment variables and an optional config
// file, in that order of precedence.
func LoadConfig() (Config, error) {
	viper.SetDefault("database", "test")
	viper.SetDefault("collection", "test")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Parse command-line flags
	pflag.Parse()

	// Bind command-line flags to Viper
	viper.BindPFlags(pflag.CommandLine)

	// Bind environment variables
	viper.AutomaticEnv()

	// Read configuration file if specified
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("monquery.conf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc")
	}
	// a missing config file is fine; flags and defaults still apply
	viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode configuration: %v", err)
	}
	return cfg, nil
}
