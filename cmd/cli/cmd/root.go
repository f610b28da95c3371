package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "boardctl is a command line client for the devsecboard dashboard API",
	Long: `boardctl is the command-line interface for devsecboard, the DevSecOps pipeline dashboard.

devsecboard tracks CI/CD pipeline runs together with their stages, security findings,
code quality metrics, test results, deployments and compliance checks.

Common workflows:

  Show the running pipeline:
    boardctl pipelines current

  Start a pipeline run:
    boardctl pipelines start --branch feature/login --triggered-by alice

  List open critical findings:
    boardctl issues list --severity critical --status open

  Mark a deployment as rolled back:
    boardctl deployments update 1 --status rolled_back

  Follow live changes:
    boardctl watch --pipeline 1

Configuration:
  Set the API endpoint via flag, environment variable or a config file:
    BOARDCTL_URL    API endpoint (default: http://localhost:5000)`,
	SilenceUsage: true,
}

func Execute() error {
	// cmd.Print* defaults to stderr
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".boardctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".boardctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "BOARDCTL_VARNAME"
	viper.SetEnvPrefix("BOARDCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newClient builds a client for the configured endpoint.
func newClient() *BoardClient {
	return NewBoardClient(viper.GetString("url"))
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.boardctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:5000", "devsecboard server URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}
