// Command hackberry inspects and serves streams of HTTP/1.x frames.
//
// Usage:
//
//	hackberry inspect [options] <capture-file>
//	hackberry serve [options]
//	hackberry version
//
// Inspect Command:
//
//	Parse concatenated raw frames from a capture file and print them.
//
// Serve Command:
//
//	Run a minimal TCP server that parses incoming frames, one buffer and
//	parser per connection, and answers each frame with a summary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blockberries/hackberry/pkg/hackberry"
)

var (
	rootCmd = &cobra.Command{
		Use:   "hackberry",
		Short: "Incremental HTTP/1.x frame tools",
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("hackberry", hackberry.VersionInfo())
		},
	}

	// Persistent flags
	cfgFile string
	secure  bool
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file overriding parser limits")
	rootCmd.PersistentFlags().BoolVar(&secure, "secure", false, "start from conservative limits for untrusted input")

	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "read config: %v\n", err)
		os.Exit(1)
	}
}

// parserOptions builds parser options from the secure flag and any config
// file overrides.
func parserOptions() hackberry.Options {
	opts := hackberry.DefaultOptions
	if secure {
		opts = hackberry.SecureOptions
	}
	if v := viper.GetInt("limits.max_header_bytes"); v > 0 {
		opts.Limits.MaxHeaderBytes = v
	}
	if v := viper.GetInt("limits.max_header_count"); v > 0 {
		opts.Limits.MaxHeaderCount = v
	}
	if v := viper.GetInt64("limits.max_body_bytes"); v > 0 {
		opts.Limits.MaxBodyBytes = v
	}
	if v := viper.GetInt64("limits.max_decoded_body_bytes"); v > 0 {
		opts.Limits.MaxDecodedBodyBytes = v
	}
	if viper.IsSet("strict_header_names") {
		opts.StrictHeaderNames = viper.GetBool("strict_header_names")
	}
	return opts
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
