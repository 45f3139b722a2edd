package encode

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	cmdUtil "github.com/ValentinKolb/serjs/cmd/util"
	"github.com/ValentinKolb/serjs/lib/common"
	"github.com/ValentinKolb/serjs/lib/serializer"
	"github.com/ValentinKolb/serjs/lib/tagged"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Logger = logger.GetLogger("cmd")

var (
	encodeCmdConfig common.EncodeConfig

	EncodeCmd = &cobra.Command{
		Use:   "encode [file]",
		Short: "Render a tagged JSON or YAML document as JavaScript",
		Long: `Render a tagged JSON or YAML document as JavaScript.

The document is read from the given file or from stdin if no file (or "-")
is given. Objects with a single "$"-prefixed key are decoded as tagged
values, e.g. {"$date": "2024-01-02T03:04:05Z"} becomes a Date and
{"$function": "x => x * 2"} a function. Use {"$literal": {...}} to keep an
object with such a key as plain data.`,
		Example: `  serjs encode state.json
  serjs encode --space 2 --assign window.__STATE__ state.yaml
  echo '{"re":{"$regexp":{"source":"a+","flags":"g"}}}' | serjs encode`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	key := "format"
	EncodeCmd.Flags().String(key, "", cmdUtil.WrapString("Format of the input (json, yaml). Derived from the file extension if empty, stdin defaults to json"))

	key = "assign"
	EncodeCmd.Flags().String(key, "", cmdUtil.WrapString("Emit an assignment statement '<assign> = <value>;' instead of the bare value"))
}

func processConfig(cmd *cobra.Command, args []string) error {
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	encodeCmdConfig = common.EncodeConfig{
		Assign:  viper.GetString("assign"),
		Options: cmdUtil.GetOptions(),
	}
	if len(args) > 0 {
		encodeCmdConfig.Input = args[0]
	}

	src, err := cmdUtil.GetSource()
	if err != nil {
		return err
	}
	encodeCmdConfig.Source = src

	format := viper.GetString("format")
	if format == "" {
		format = formatFromPath(encodeCmdConfig.Input)
	}
	f, err := tagged.ParseFormat(format)
	if err != nil {
		return err
	}
	encodeCmdConfig.Format = string(f)

	Logger.Debugf("encode configuration:\n%s", encodeCmdConfig.String())
	return nil
}

// formatFromPath derives the document format from a file extension
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return string(tagged.FormatYAML)
	default:
		return string(tagged.FormatJSON)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	data, err := readInput(cmd, encodeCmdConfig.Input)
	if err != nil {
		return err
	}

	doc, err := tagged.DecodeDocument(data, tagged.Format(encodeCmdConfig.Format))
	if err != nil {
		return err
	}

	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	js, err := s.Serialize(doc, serializer.WithOptions(encodeCmdConfig.Options))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if encodeCmdConfig.Assign != "" {
		_, err = fmt.Fprintf(out, "%s = %s;\n", encodeCmdConfig.Assign, js)
	} else {
		_, err = fmt.Fprintln(out, js)
	}
	return err
}

func readInput(cmd *cobra.Command, input string) ([]byte, error) {
	if input == "" || input == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	return data, nil
}
