package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List conversations stored on the platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			sessions, err := client.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions yet.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tMESSAGES\tLAST ACTIVITY")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.SessionID, s.Status, len(s.Messages), s.LastActivity)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <session-id>",
		Short: "Print one stored conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, _, err := setup()
			if err != nil {
				return err
			}
			session, err := client.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Session %s (%s), started %s\n\n", session.ShortID(), session.Status, session.CreatedAt)
			for _, msg := range session.Messages {
				who := "AI"
				if msg.Type == "USER" {
					who = "You"
				}
				fmt.Printf("[%s] %s: %s\n", msg.Timestamp, who, msg.Content)
			}
			return nil
		},
	})
	return cmd
}
