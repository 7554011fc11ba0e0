package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/model"
)

// Version is set at build time via -ldflags
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credence",
	Short: "Credence - News article credibility scoring",
	Long: `Credence scores news articles for credibility.

Given an article URL it returns eleven rubric criteria, a composite
score from 0 to 100 and a binary credibility classification.

When an external scoring backend is configured the request is delegated
to it; otherwise, or when it fails, the article is fetched and scored
with a local lexical heuristic.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "credence %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.credence/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (log level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json, cli)")
	rootCmd.PersistentFlags().String("backend-url", "", "external scoring backend URL (POST {url})")

	// Bind flags to viper
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("backend.url", rootCmd.PersistentFlags().Lookup("backend-url"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".credence"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps CREDENCE_* variables onto config keys, plus the legacy
// PYTHON_API_URL and the conventional OPENAI_API_KEY
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("CREDENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("backend.url", "CREDENCE_BACKEND_URL", "PYTHON_API_URL")
	_ = v.BindEnv("backend.api_key", "CREDENCE_BACKEND_API_KEY", "OPENAI_API_KEY")
}

// setDefaults registers every config key so env overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)
	v.SetDefault("server.allow_origins", cfg.Server.AllowOrigins)

	v.SetDefault("backend.kind", cfg.Backend.Kind)
	v.SetDefault("backend.url", cfg.Backend.URL)
	v.SetDefault("backend.timeout", cfg.Backend.Timeout)
	v.SetDefault("backend.api_key", cfg.Backend.APIKey)
	v.SetDefault("backend.model", cfg.Backend.Model)
	v.SetDefault("backend.base_url", cfg.Backend.BaseURL)

	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.user_agent", cfg.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", cfg.HTTP.MaxBodyBytes)
	v.SetDefault("http.insecure_tls", cfg.HTTP.InsecureTLS)
	v.SetDefault("http.http_proxy", cfg.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", cfg.HTTP.HTTPSProxy)
	v.SetDefault("http.respect_robots", cfg.HTTP.RespectRobots)
	v.SetDefault("http.requests_per_second", cfg.HTTP.RequestsPerSecond)
	v.SetDefault("http.burst", cfg.HTTP.Burst)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("lexicon.evidence", cfg.Lexicon.Evidence)
	v.SetDefault("lexicon.emotional", cfg.Lexicon.Emotional)
	v.SetDefault("lexicon.absolutist", cfg.Lexicon.Absolutist)
	v.SetDefault("lexicon.contractions", cfg.Lexicon.Contractions)
	v.SetDefault("lexicon.topics", cfg.Lexicon.Topics)
	v.SetDefault("lexicon.contrast", cfg.Lexicon.Contrast)
	v.SetDefault("lexicon.byline", cfg.Lexicon.Byline)
}

// decodeConfig merges defaults, config file, env and bound flags
func decodeConfig(v *viper.Viper) (*model.Config, error) {
	setDefaults(v, model.DefaultConfig())

	var cfg model.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return &cfg, nil
}

// loadConfig returns the effective configuration
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}
