// Package deployctl is the local CLI around the pipeline handlers: it runs
// any step against an event file (standing in for the workflow engine,
// including its retry-after-delay behavior) and invokes deployed endpoints
// through the parameter store.
package deployctl

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"smdeploy/internal/config"
)

type options struct {
	logLevel string

	wait         bool
	waitAttempts uint
	waitDelay    time.Duration

	log zerolog.Logger
}

// BuildRootCmd constructs the deployctl command tree.
func BuildRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "deployctl",
		Short:         "Run deployment pipeline steps locally and invoke deployed endpoints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		opts.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger().
			Level(config.LoggerLevel(opts.logLevel))
	}

	run := &cobra.Command{
		Use:   "run",
		Short: "Run one pipeline step against a local event file",
	}
	run.PersistentFlags().BoolVar(&opts.wait, "wait", false, "Re-run the step after a delay while the endpoint is not in service, like the state machine does")
	run.PersistentFlags().UintVar(&opts.waitAttempts, "wait-attempts", 20, "Maximum step attempts with --wait")
	run.PersistentFlags().DurationVar(&opts.waitDelay, "wait-delay", 30*time.Second, "Delay between attempts with --wait")

	runModel := &cobra.Command{
		Use:     "model <event-file>",
		Short:   "Run the model deployment step",
		Example: "  deployctl run model event.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWait(cmd.Context(), func() error {
				return fnRunModel(cmd.Context(), opts.log, args[0])
			})
		},
	}
	runEndpoint := &cobra.Command{
		Use:     "endpoint <event-file>",
		Short:   "Run the endpoint deployment step",
		Example: "  deployctl run endpoint event.yaml",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWait(cmd.Context(), func() error {
				return fnRunEndpoint(cmd.Context(), opts.log, args[0])
			})
		},
	}
	runScaling := &cobra.Command{
		Use:     "scaling <event-file>",
		Short:   "Run the scaling and parameter registration step",
		Example: "  deployctl run scaling event.json --wait",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWait(cmd.Context(), func() error {
				return fnRunScaling(cmd.Context(), opts.log, args[0])
			})
		},
	}
	runGraph := &cobra.Command{
		Use:     "graph <graph-file>",
		Short:   "Run the deployment graph reconciliation step",
		Example: "  deployctl run graph graph.json --wait",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withWait(cmd.Context(), func() error {
				return fnRunGraph(cmd.Context(), opts.log, args[0])
			})
		},
	}
	run.AddCommand(runModel, runEndpoint, runScaling, runGraph)

	var bucket, key string
	invoke := &cobra.Command{
		Use:     "invoke <parameter-prefix>",
		Short:   "Invoke every endpoint registered under a parameter prefix",
		Example: "  deployctl invoke /stage-a/ --bucket inputs --key batch/today.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fnInvoke(cmd.Context(), opts.log, args[0], bucket, key)
		},
	}
	invoke.Flags().StringVar(&bucket, "bucket", "", "Bucket holding the input payload")
	invoke.Flags().StringVar(&key, "key", "", "Object key of the input payload")
	_ = invoke.MarkFlagRequired("bucket")
	_ = invoke.MarkFlagRequired("key")

	root.AddCommand(run, invoke)
	return root
}
