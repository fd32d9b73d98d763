package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/jackalchenxu/parse-idl/internal/codegen"
	"github.com/jackalchenxu/parse-idl/internal/errors"
	"github.com/jackalchenxu/parse-idl/pkg/utils"
)

var discriminatorFormat string

var discriminatorCmd = &cobra.Command{
	Use:   "discriminator <instruction>...",
	Short: "Print instruction discriminators",
	Long: `Print the 8-byte discriminator of each instruction name: the first
8 bytes of sha256("global:" + snake_case(name)).

Example:
  parse-idl discriminator initialize_pool swap
  parse-idl discriminator initializePool --format bytes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiscriminator,
}

func init() {
	rootCmd.AddCommand(discriminatorCmd)

	discriminatorCmd.Flags().StringVarP(&discriminatorFormat, "format", "f", "hex", "Output format (hex, base58, bytes)")
}

func runDiscriminator(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	for _, name := range args {
		disc := codegen.InstructionDiscriminator(name)
		value, err := FormatDiscriminator(disc, discriminatorFormat)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", utils.ToSnakeCase(name), value)
	}
	return nil
}

// FormatDiscriminator renders disc as lowercase hex, base58, or the
// decimal byte list used in generated code.
func FormatDiscriminator(disc codegen.Discriminator, format string) (string, error) {
	switch format {
	case "hex":
		return disc.String(), nil
	case "base58":
		return base58.Encode(disc[:]), nil
	case "bytes":
		parts := make([]string, len(disc))
		for i, b := range disc {
			parts[i] = strconv.Itoa(int(b))
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	default:
		return "", errors.InvalidConfig(fmt.Sprintf("unknown discriminator format %q", format))
	}
}
