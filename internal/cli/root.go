// Package cli implements riskctl, a command line front end for the risk API.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"riskclient/internal/eventcontext"
	"riskclient/pkg/riskclient"
)

type rootOptions struct {
	configPath string
	ip         string
	userAgent  string
	logLevel   string
}

// NewRootCmd builds the riskctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "riskctl",
		Short:         "Call the risk API from the command line",
		Long:          "Sends track, authenticate, identify and review calls using the same client and failover policy as applications.\nConfiguration comes from --config or RISK_* environment variables.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config (default: RISK_* environment)")
	root.PersistentFlags().StringVar(&opts.ip, "ip", "", "Client IP to put in the event context")
	root.PersistentFlags().StringVar(&opts.userAgent, "user-agent", "", "Client User-Agent to put in the event context")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override log level (debug|info|warn|error)")

	root.AddCommand(
		newAuthenticateCmd(opts),
		newTrackCmd(opts),
		newIdentifyCmd(opts),
		newReviewCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs riskctl and exits non-zero on failure.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "riskctl: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) loadConfig() (riskclient.Config, error) {
	var (
		cfg riskclient.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = riskclient.LoadConfig(o.configPath)
	} else {
		cfg, err = riskclient.ConfigFromEnv()
	}
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// withClient builds a client, runs fn and drains in-flight calls.
func (o *rootOptions) withClient(ctx context.Context, fn func(*riskclient.Client) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	client, err := riskclient.New(ctx, cfg)
	if err != nil {
		return err
	}
	runErr := fn(client)
	if err := client.Close(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (o *rootOptions) eventContext() riskclient.Context {
	ec := eventcontext.Default()
	ec.IP = o.ip
	ec.UserAgent = o.userAgent
	ec.Device = eventcontext.ParseDevice(o.userAgent)
	return ec
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseObject decodes an optional JSON object flag.
func parseObject(flag, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", flag, err)
	}
	return obj, nil
}
