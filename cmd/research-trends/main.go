// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-trends CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-trends/internal/esearch"
	"github.com/pdiddy/research-trends/internal/schedule"
	"github.com/pdiddy/research-trends/internal/secrets"
	"github.com/pdiddy/research-trends/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "research-trends/0.1"
	defaultAddr      = ":8080"
)

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the research-trends CLI.
var rootCmd = &cobra.Command{
	Use:   "research-trends",
	Short: "Chart how many papers mention a term, year by year",
	Long: `research-trends counts PubMed records matching a search term for every
publication year in a range and charts the counts as colour-graded bars.

One count query is issued per year, staggered so the service is not hit in a
burst. Results arrive out of order and the chart is rebuilt in year order
after each one.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./research-trends.yaml or ~/.config/research-trends/research-trends.yaml)")
	pf.String("db", esearch.DefaultDatabase, "Entrez database to count records in")
	pf.Duration("timeout", defaultTimeout, "HTTP request timeout")
	pf.Duration("stagger", schedule.DefaultStagger, "delay between consecutive per-year queries")
	pf.Int("max-in-flight", 0, "maximum concurrent requests (0 = no cap)")
	pf.String("palette", string(types.PaletteGreenYellowRed), "bar colours: green-yellow-red or green-orange-red")

	bindFlag("esearch.db", "db")
	bindFlag("http.timeout", "timeout")
	bindFlag("trend.stagger", "stagger")
	bindFlag("trend.max_in_flight", "max-in-flight")
	bindFlag("trend.palette", "palette")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-trends")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-trends"))
		}
	}

	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("serve.addr", defaultAddr)

	viper.SetEnvPrefix("RESEARCH_TRENDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the run configuration from viper and the secrets
// directory. Explicit config values win over secret files.
func loadConfig() types.Config {
	userAgent := viper.GetString("http.user_agent")
	if email := loadedSecrets.Resolve(secrets.KeyNCBIEmail, viper.GetString("esearch.email")); email != "" {
		userAgent = fmt.Sprintf("%s (mailto:%s)", userAgent, email)
	}

	return types.Config{
		ESearch: types.ESearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("http.timeout"),
				UserAgent: userAgent,
			},
			BaseURL:  viper.GetString("esearch.base_url"),
			Database: viper.GetString("esearch.db"),
			APIKey:   loadedSecrets.Resolve(secrets.KeyNCBIAPIKey, viper.GetString("esearch.api_key")),
		},
		Trend: types.TrendConfig{
			Stagger:     viper.GetDuration("trend.stagger"),
			MaxInFlight: viper.GetInt("trend.max_in_flight"),
			Palette:     types.Palette(viper.GetString("trend.palette")),
		},
		Serve: types.ServeConfig{
			Addr: viper.GetString("serve.addr"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
