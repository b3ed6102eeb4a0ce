package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/syncvar/internal/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "syncvar",
	Short: "syncvar observes mutations inside nested variables",
	Long: `syncvar binds named variables, applies mutation scripts to them and
reports every change with the dotted path of the mutated key.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.syncvar/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().String("redis", "", "redis address for the change journal (memory when empty)")
	rootCmd.PersistentFlags().String("redis-prefix", "", "key prefix for the redis journal")
	rootCmd.PersistentFlags().Duration("journal-ttl", 0, "expiry of redis journal entries (0 keeps them)")

	for _, name := range []string{"log-level", "log-json", "redis", "redis-prefix", "journal-ttl"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".syncvar"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("syncvar")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

func runtimeOptions() cli.Options {
	return cli.Options{
		LogLevel:    viper.GetString("log-level"),
		LogJSON:     viper.GetBool("log-json"),
		RedisAddr:   viper.GetString("redis"),
		RedisPrefix: viper.GetString("redis-prefix"),
		JournalTTL:  viper.GetDuration("journal-ttl"),
	}
}
