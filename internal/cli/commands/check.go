package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/records/internal/cli/ui"
	"github.com/conduit-lang/records/internal/watch"
)

func newCheckCommand(s *session) *cobra.Command {
	var watchFiles bool

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate declaration files",
		Long: `Declare every record type in the given files, in order, and report the
first declaration error. Types declared in earlier files may be used as bases
in later ones.

With --watch the files are checked again whenever one of them changes, until
interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := s.check(cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
			if !watchFiles {
				return err
			}
			return s.watch(cmd, args)
		},
	}

	cmd.Flags().BoolVarP(&watchFiles, "watch", "w", false, "check again whenever a file changes")
	return cmd
}

func (s *session) check(out, errOut io.Writer, files []string) error {
	loader, err := s.load(errOut, files...)
	if err != nil {
		return err
	}

	reg := loader.Registry()
	stats := reg.GetStats()

	ui.WriteSuccess(out, fmt.Sprintf("%d record types declared in %s",
		stats.TotalRecords, strings.Join(files, ", ")), s.noColor)
	fmt.Fprintln(out)

	kv := ui.NewKeyValueTable(out, s.noColor)
	kv.AddRow("Types", strings.Join(reg.List(), ", "))
	kv.AddRow("Fields", strconv.Itoa(stats.TotalFields))
	kv.AddRow("Frozen", strconv.Itoa(stats.Frozen))
	kv.AddRow("Ordered", strconv.Itoa(stats.Ordered))
	kv.AddRow("Fixed layout", strconv.Itoa(stats.FixedLayout))
	kv.AddRow("Unhashable", strconv.Itoa(stats.Unhashable))
	kv.Render()
	return nil
}

// watch re-runs check on every change to files or the configured
// declarations until the command context is cancelled or interrupted
func (s *session) watch(cmd *cobra.Command, files []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	all := append(append([]string(nil), s.cfg.Declarations...), files...)

	fw, err := watch.NewFileWatcher(all, watch.DefaultDelay, s.logger, func(changed []string) {
		fmt.Fprintln(out)
		fmt.Fprint(out, ui.Info("changed: "+strings.Join(changed, ", "), s.noColor))
		// failures are reported by check itself
		_ = s.check(out, errOut, files)
	})
	if err != nil {
		return err
	}

	fmt.Fprint(out, ui.Info("watching "+strings.Join(all, ", ")+" (interrupt to stop)", s.noColor))
	return fw.Run(ctx)
}
