package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/owl2lpg/internal/config"
	"github.com/xkilldash9x/owl2lpg/internal/observability"
	"github.com/xkilldash9x/owl2lpg/internal/readpath"
	"github.com/xkilldash9x/owl2lpg/internal/translation"
)

// NewRootCmd builds the command tree. Components for store backed commands
// come from factory.
func NewRootCmd(factory ComponentFactory) *cobra.Command {
	var cfgFile string
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "owl2lpg",
		Short:         "owl2lpg stores OWL 2 ontologies as labeled property graphs.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 1. Initialize configuration loading (Viper)
			if err := initializeConfig(v, cfgFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			if err := bindContextFlags(cmd, v); err != nil {
				return err
			}

			// 2. Unmarshal and validate
			var cfg config.Config
			if err := v.Unmarshal(&cfg); err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "owl2lpg"})
				return fmt.Errorf("failed to unmarshal config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				observability.InitializeLogger(cfg.Logger)
				return fmt.Errorf("invalid configuration: %w", err)
			}

			// 3. Store the configuration globally and start logging
			config.Set(&cfg)
			observability.InitializeLogger(cfg.Logger)

			// 4. Every kind must have a translation and a decoding rule
			if err := translation.CheckRules(); err != nil {
				return err
			}
			if err := readpath.CheckDecoders(); err != nil {
				return err
			}
			observability.GetLogger().Debug("Starting owl2lpg", zap.String("version", Version))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	flags.String("project", "", "project id (overrides context.project_id)")
	flags.String("branch", "", "branch id (overrides context.branch_id)")
	flags.String("document", "", "ontology document id (overrides context.document_id)")

	rootCmd.AddCommand(
		newExportCmd(),
		newLoadCmd(factory),
		newRemoveCmd(factory),
		newQueryCmd(factory),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree with the production factory.
func Execute(ctx context.Context) error {
	if err := NewRootCmd(NewComponentFactory()).ExecuteContext(ctx); err != nil {
		// Cancellation during shutdown is not a failure worth logging.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

// initializeConfig reads the config file and environment variables into v.
func initializeConfig(v *viper.Viper, cfgFile string) error {
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; defaults and env still apply.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func bindContextFlags(cmd *cobra.Command, v *viper.Viper) error {
	for flag, key := range map[string]string{
		"project":  "context.project_id",
		"branch":   "context.branch_id",
		"document": "context.document_id",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}
