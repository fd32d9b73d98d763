package cmd

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/jackalchenxu/parse-idl/internal/codegen"
	"github.com/jackalchenxu/parse-idl/internal/errors"
	"github.com/jackalchenxu/parse-idl/internal/idl"
)

var identifyEncoding string

var identifyCmd = &cobra.Command{
	Use:   "identify <idl.json> <data>...",
	Short: "Identify instructions from raw instruction data",
	Long: `Match the first 8 bytes of each instruction data argument against the
discriminators of the instructions declared in an IDL document.

Example:
  parse-idl identify ./idl/amm.json f8c69e91e17587c840420f0000000000
  parse-idl identify ./idl/amm.json --encoding base58 icSNZP7U1uh`,
	Args: cobra.MinimumNArgs(2),
	RunE: runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)

	identifyCmd.Flags().StringVarP(&identifyEncoding, "encoding", "e", "hex", "Encoding of the data arguments (hex, base58)")
}

func runIdentify(cmd *cobra.Command, args []string) error {
	doc, err := idl.ParseIDLFile(args[0])
	if err != nil {
		return err
	}
	table := codegen.BuildDiscriminatorTable(doc.Instructions)

	w := cmd.OutOrStdout()
	for _, arg := range args[1:] {
		data, err := DecodeInstructionData(arg, identifyEncoding)
		if err != nil {
			return err
		}
		name, ok := table.Identify(data)
		if !ok {
			name = "unknown"
		}
		fmt.Fprintf(w, "%s\t%s\n", arg, name)
	}
	return nil
}

// DecodeInstructionData decodes a command-line data argument.
func DecodeInstructionData(s, encoding string) ([]byte, error) {
	switch encoding {
	case "hex":
		data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, errors.ParseFailed("hex instruction data", err)
		}
		return data, nil
	case "base58":
		data, err := base58.Decode(s)
		if err != nil {
			return nil, errors.ParseFailed("base58 instruction data", err)
		}
		return data, nil
	default:
		return nil, errors.InvalidConfig(fmt.Sprintf("unknown data encoding %q", encoding))
	}
}
