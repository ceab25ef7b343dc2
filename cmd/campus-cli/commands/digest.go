package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"icassist/lib/campus"
	"icassist/lib/configutil"
	"icassist/lib/digest"
	"icassist/lib/gradestore"
	"icassist/lib/timezone"

	"github.com/spf13/cobra"
)

// buildDigest collects the digest of the current term. The grade store is optional,
// without one the digest has no grade changes.
func (a *app) buildDigest(ctx context.Context) (digest.Digest, error) {
	portal, err := a.session(ctx)
	if err != nil {
		return digest.Digest{}, err
	}
	terms, err := portal.GetTerms(ctx, a.school)
	if err != nil {
		return digest.Digest{}, err
	}
	now := timezone.Now()
	term, ok := campus.CurrentTerm(terms, now)
	if !ok {
		return digest.Digest{}, errNoTerms
	}
	assignments, err := portal.GetAssignments(ctx, a.school)
	if err != nil {
		return digest.Digest{}, err
	}
	notifications, err := portal.GetNotifications(ctx, 0)
	if err != nil {
		return digest.Digest{}, err
	}

	var history []gradestore.CourseSnapshotSeries
	if a.config.Gradestore.File != "" || a.config.Gradestore.URL != "" {
		store, closeStore, err := a.store()
		if err != nil {
			return digest.Digest{}, err
		}
		defer closeStore()
		history, err = store.Pull(ctx, a.config.StudentKey())
		if err != nil {
			return digest.Digest{}, err
		}
	}

	return digest.Build(digest.Input{
		Student:       a.config.Username,
		Term:          term,
		Assignments:   assignments,
		Notifications: notifications,
		History:       history,
		Now:           now,
	}), nil
}

func (a *app) sendDigest(ctx context.Context, d digest.Digest) error {
	if a.config.SMTP == nil {
		return errors.New("smtp is not configured")
	}
	err := configutil.Validate(*a.config.SMTP)
	if err != nil {
		return err
	}
	err = digest.Send(ctx, *a.config.SMTP, d)
	if err != nil {
		return err
	}
	slog.Info("sent digest", "to", a.config.SMTP.To)
	return nil
}

func digestCmd(a *app) *cobra.Command {
	var send bool
	var html bool
	cmd := &cobra.Command{
		Use:   "digest [--send] [--html]",
		Short: "Prints or mails a summary of grades, assignments due and unread notifications.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.buildDigest(cmd.Context())
			if err != nil {
				return err
			}
			if send {
				return a.sendDigest(cmd.Context(), d)
			}
			if a.format != formatTable {
				return a.render(d, nil)
			}
			if html {
				_, err = fmt.Fprint(a.out, d.HTML())
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s\n\n%s", d.Subject(), d.Text())
			return err
		},
	}
	cmd.Flags().BoolVar(&send, "send", false, "Mail the digest to the smtp recipients instead of printing it.")
	cmd.Flags().BoolVar(&html, "html", false, "Print the html version of the digest.")
	return cmd
}
