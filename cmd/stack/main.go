package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/ian-pascoe/ion/pkg/authorizer"
	"github.com/ian-pascoe/ion/pkg/provision"
	"github.com/ian-pascoe/ion/pkg/stack"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := rootCmd(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd(logger *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:          "stack",
		Short:        "Build the WebSocket API stack and its authorizer",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringP("config", "c", "stack.yaml", "Stack config file")

	root.AddCommand(planCmd(), synthCmd(logger))
	return root
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Validate the authorizer config and list the resources it creates",
		Long: `Validate the authorizer section of the stack config and print the
resources the authorizer would be made of. Nothing is synthesized.

Examples:
  stack plan --config stack.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return plan(cmd.OutOrStdout(), c)
		},
	}
}

func synthCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize the CDK app into a cloud assembly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			outdir, _ := cmd.Flags().GetString("outdir")

			defer jsii.Close()
			app := awscdk.NewApp(&awscdk.AppProps{Outdir: jsii.String(outdir)})

			_, d, err := stack.New(app, c, &awscdk.StackProps{
				Env: &awscdk.Environment{
					Account: env("CDK_DEFAULT_ACCOUNT"),
					Region:  env("CDK_DEFAULT_REGION"),
				},
			}, logger)
			if err != nil {
				return err
			}

			app.Synth(nil)
			logger.Info("stack synthesized",
				zap.String("stack", c.StackName),
				zap.String("outdir", outdir),
				zap.Object("authorizer", d),
			)
			return nil
		},
	}
	cmd.Flags().String("outdir", "cdk.out", "Cloud assembly output directory")
	return cmd
}

// env returns nil for unset variables, leaving the stack environment agnostic.
func env(key string) *string {
	if v := os.Getenv(key); v != "" {
		return jsii.String(v)
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (stack.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	f, err := os.Open(path)
	if err != nil {
		return stack.Config{}, fmt.Errorf("could not open stack config: %s", err)
	}
	defer f.Close()
	return stack.Load(f)
}

func plan(w io.Writer, c stack.Config) error {
	p := &provision.Plan{Partition: "aws", Region: "region", Account: "account"}
	api := authorizer.API{
		ID:           "api",
		Name:         c.APIName,
		ExecutionARN: authorizer.ExecutionARN(p.Partition, p.Region, p.Account, "api"),
	}

	d, err := authorizer.NewConfigurator(p, nil).Configure(c.Authorizer, api)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "authorizer %s (%s)\n", d.Name(), d.Type())
	for _, r := range p.Resources {
		fmt.Fprintf(w, "  %-32s %s\n", r.Kind, r.Name)
	}
	if d.Type() == authorizer.TypeJWT {
		fmt.Fprintf(w, "  identity source: %s\n", d.Authorizer().IdentitySources[0])
	}
	return nil
}
