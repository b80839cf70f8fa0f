package cli

import (
	"github.com/spf13/cobra"

	"riskclient/internal/eventcontext"
	"riskclient/pkg/riskclient"
)

func newAuthenticateCmd(root *rootOptions) *cobra.Command {
	var (
		event      string
		userID     string
		properties string
		traits     string
		async      bool
	)
	cmd := &cobra.Command{
		Use:   "authenticate",
		Short: "Ask for a verdict and print it",
		Long: "Prints the verdict as JSON. A failover verdict is printed when the API cannot answer,\n" +
			"unless the failover strategy throws, in which case the command fails.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := parseObject("properties", properties)
			if err != nil {
				return err
			}
			tr, err := parseObject("traits", traits)
			if err != nil {
				return err
			}
			return root.withClient(cmd.Context(), func(c *riskclient.Client) error {
				req := c.WithContext(root.eventContext())
				opts := []riskclient.EventOption{riskclient.WithProperties(props), riskclient.WithTraits(tr)}

				var v riskclient.Verdict
				if async {
					v, err = req.AuthenticateAsync(cmd.Context(), event, userID, opts...).Wait(cmd.Context())
				} else {
					v, err = req.Authenticate(cmd.Context(), event, userID, opts...)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), v)
			})
		},
	}
	cmd.Flags().StringVarP(&event, "event", "e", "", "Event name, e.g. $login.succeeded (required)")
	cmd.Flags().StringVarP(&userID, "user-id", "u", "", "User id (required)")
	cmd.Flags().StringVar(&properties, "properties", "", "Event properties as a JSON object")
	cmd.Flags().StringVar(&traits, "traits", "", "User traits as a JSON object")
	cmd.Flags().BoolVar(&async, "async", false, "Use the asynchronous call path")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newTrackCmd(root *rootOptions) *cobra.Command {
	var (
		event      string
		userID     string
		reviewID   string
		properties string
		traits     string
	)
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Record an event and print whether it was accepted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			props, err := parseObject("properties", properties)
			if err != nil {
				return err
			}
			tr, err := parseObject("traits", traits)
			if err != nil {
				return err
			}
			return root.withClient(cmd.Context(), func(c *riskclient.Client) error {
				opts := []riskclient.EventOption{riskclient.WithProperties(props), riskclient.WithTraits(tr)}
				if userID != "" {
					opts = append(opts, riskclient.WithUserID(userID))
				}
				if reviewID != "" {
					opts = append(opts, riskclient.WithReviewID(reviewID))
				}
				ok, err := c.WithContext(root.eventContext()).Track(cmd.Context(), event, opts...).Wait(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]bool{"success": ok})
			})
		},
	}
	cmd.Flags().StringVarP(&event, "event", "e", "", "Event name (required)")
	cmd.Flags().StringVarP(&userID, "user-id", "u", "", "User id (sent as null when omitted)")
	cmd.Flags().StringVar(&reviewID, "review-id", "", "Review the event relates to")
	cmd.Flags().StringVar(&properties, "properties", "", "Event properties as a JSON object")
	cmd.Flags().StringVar(&traits, "traits", "", "User traits as a JSON object")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func newIdentifyCmd(root *rootOptions) *cobra.Command {
	var (
		userID string
		traits string
		active bool
	)
	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Update user traits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := parseObject("traits", traits)
			if err != nil {
				return err
			}
			return root.withClient(cmd.Context(), func(c *riskclient.Client) error {
				if _, err := c.WithContext(root.eventContext()).Identify(cmd.Context(), userID, active, tr).Wait(cmd.Context()); err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]string{"user_id": userID, "status": "sent"})
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user-id", "u", "", "User id (required)")
	cmd.Flags().StringVar(&traits, "traits", "", "User traits as a JSON object")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the user is active")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newReviewCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "review <review-id>",
		Short: "Fetch a review and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withClient(cmd.Context(), func(c *riskclient.Client) error {
				r, err := c.Review(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), r)
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), map[string]string{
				"name":    "riskctl",
				"version": eventcontext.Version,
			})
		},
	}
}
