package util

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ValentinKolb/serjs/lib/common"
	"github.com/ValentinKolb/serjs/lib/serializer"
	"github.com/ValentinKolb/serjs/lib/serializer/browser"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupSerializerFlags adds the flags that configure the serializer to a command
func SetupSerializerFlags(cmd *cobra.Command) {
	key := "space"
	cmd.PersistentFlags().String(key, "", WrapString("Indentation of the output: a number of spaces (at most 10) or the indentation string itself. Empty means compact output"))

	key = "unsafe"
	cmd.PersistentFlags().Bool(key, false, WrapString("Don't escape <, >, /, U+2028 and U+2029. Only use this if the output is never embedded into HTML"))

	key = "is-json"
	cmd.PersistentFlags().Bool(key, false, WrapString("Treat the input as pure JSON: no dates, functions, maps etc. are reconstructed"))

	key = "ignore-function"
	cmd.PersistentFlags().Bool(key, false, WrapString("Drop functions from the output instead of rendering their source"))

	key = "source"
	cmd.PersistentFlags().String(key, "secure", WrapString("Random source of the placeholder token (secure, browser)"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "info", WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("serjs")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// InitLogging configures all loggers with the configured log level and lets them write to w
func InitLogging(w io.Writer) error {
	common.SetLogOutput(w)
	return common.InitLoggers(viper.GetString("log-level"))
}

// GetOptions reads the serializer options from viper
func GetOptions() serializer.Options {
	opts := []serializer.Option{}

	if space := viper.GetString("space"); space != "" {
		if n, err := strconv.Atoi(space); err == nil {
			opts = append(opts, serializer.WithSpace(n))
		} else {
			opts = append(opts, serializer.WithSpace(space))
		}
	}
	if viper.GetBool("unsafe") {
		opts = append(opts, serializer.Unsafe())
	}
	if viper.GetBool("is-json") {
		opts = append(opts, serializer.IsJSON())
	}
	if viper.GetBool("ignore-function") {
		opts = append(opts, serializer.IgnoreFunction())
	}

	var o serializer.Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GetSource reads the configured token source
func GetSource() (common.Source, error) {
	return common.ParseSource(viper.GetString("source"))
}

// GetSerializer returns the shared serializer of the configured source
func GetSerializer() (serializer.ISerializer, error) {
	src, err := GetSource()
	if err != nil {
		return nil, err
	}
	switch src {
	case common.SourceSecure:
		return serializer.Default(), nil
	case common.SourceBrowser:
		return browser.Default(), nil
	default:
		return nil, fmt.Errorf("invalid source %s", src)
	}
}
