package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/jdsort/internal/logging"
	"github.com/ppiankov/jdsort/internal/model"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool

	cfg    *model.Config
	logger = zap.NewNop()
)

// keys omitted from the YAML defaults but still settable from env
var optionalKeys = []string{
	"llm.api_key",
	"llm.base_url",
	"llm.http_proxy",
	"llm.https_proxy",
	"llm.no_proxy",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jdsort",
	Short: "jdsort - sort files into a numbered area/category/item taxonomy",
	Long: `jdsort classifies files into a three-level numbered taxonomy
(areas 10-90, categories within each area's decade, items NN.01, NN.02, ...).

Files are classified by a local or hosted inference backend when one is
available, and by a deterministic extension table when it is not.
Structures built from a directory are validated against the numbering
rules and can be stored, exported and watched for new files.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Logging, cfg.Output.Verbose)
		if err != nil {
			return err
		}
		logger = l
		if file := viper.ConfigFileUsed(); file != "" {
			logger.Debug("using config file", zap.String("path", file))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of jdsort.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jdsort %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.jdsort/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (forces debug logging)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.format", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".jdsort"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match JDSORT_*, e.g. JDSORT_LLM_MODEL
	viper.SetEnvPrefix("JDSORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; defaults apply
	_ = viper.ReadInConfig()
}

// loadConfig overlays the config file, environment and flags on DefaultConfig
func loadConfig() (*model.Config, error) {
	if err := registerDefaults(model.DefaultConfig()); err != nil {
		return nil, err
	}

	out := &model.Config{}
	if err := viper.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return out, nil
}

// registerDefaults teaches viper every key so AutomaticEnv can resolve it
func registerDefaults(defaults *model.Config) error {
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaults("", tree)
	for _, key := range optionalKeys {
		viper.SetDefault(key, "")
	}
	return nil
}

func setDefaults(prefix string, tree map[string]any) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok {
			setDefaults(full, nested)
			continue
		}
		viper.SetDefault(full, value)
	}
}

// applyProviderEnv fills credentials from the providers' conventional variables
func applyProviderEnv(c *model.LLMConfig) {
	switch strings.ToLower(c.Provider) {
	case "openai":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama", "":
		if c.BaseURL == "" {
			c.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}
}
