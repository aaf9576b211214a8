package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/people-finder/internal/model"
)

var (
	resolveCompany     string
	resolveDesignation string
	resolveFormat      string
	resolveAgentic     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Find the person holding a designation at one company",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initFinder(ctx, cfg, "resolve", resolveAgentic)
		if err != nil {
			return err
		}

		result := env.Resolver.Resolve(ctx, resolveCompany, resolveDesignation)
		zap.L().Info("resolve complete",
			zap.String("company", resolveCompany),
			zap.String("designation", resolveDesignation),
			zap.Bool("found", result.Found),
			zap.Float64("confidence", result.ConfidenceScore),
		)

		return writeResult(cmd.OutOrStdout(), result, resolveFormat)
	},
}

func init() {
	resolveCmd.Flags().StringVar(&resolveCompany, "company", "", "company name")
	resolveCmd.Flags().StringVar(&resolveDesignation, "designation", "", "designation, e.g. CEO")
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "json", "output format: json or yaml")
	resolveCmd.Flags().BoolVar(&resolveAgentic, "agentic", false, "use the single-call agentic resolver")
	_ = resolveCmd.MarkFlagRequired("company")
	_ = resolveCmd.MarkFlagRequired("designation")
	rootCmd.AddCommand(resolveCmd)
}

// writeResult renders a result as indented JSON or YAML.
func writeResult(w io.Writer, result model.Result, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode json")
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "flush yaml")
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
