package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/serjs/cmd/encode"
	"github.com/ValentinKolb/serjs/cmd/perf"
	"github.com/ValentinKolb/serjs/cmd/serve"
	"github.com/ValentinKolb/serjs/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "serjs",
		Short: "serialize values to JavaScript",
		Long: fmt.Sprintf(`serjs (v%s)

Render JSON or YAML documents as JavaScript source text. Unlike JSON the
output can reconstruct functions, dates, regular expressions, Map, Set,
URL, BigInt, Infinity, NaN, undefined and sparse arrays. The output is
safe to embed into an HTML script element.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of serjs",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "serjs v%s\n", Version)
		},
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(encode.EncodeCmd)
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupSerializerFlags(RootCmd)
}

// setup binds the flags of the executed command and configures the loggers
func setup(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}
	return util.InitLogging(cmd.ErrOrStderr())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
