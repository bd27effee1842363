// Command fsmlint checks table files.
//
//	fsmlint [--dot] [--json] [--strict] table.yaml [more.json ...]
//
// Every handler name is accepted; fsmlint only checks structure. Shadowed
// duplicates are reported as warnings, or as errors with --strict.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/comalice/tablefsm/internal/log"
	"github.com/comalice/tablefsm/internal/primitives"
	"github.com/comalice/tablefsm/internal/production"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		opts  options
		level string
	)
	cmd := &cobra.Command{
		Use:          "fsmlint table-file...",
		Short:        "Check table files",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Configure(log.Config{Level: level, Service: "fsmlint", Output: cmd.ErrOrStderr()})
			logger := log.WithComponent("lint")

			failed := 0
			for _, path := range args {
				if err := lint(cmd.OutOrStdout(), path, opts, logger); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s: %v\n", path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tables failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print Graphviz DOT for each table")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the normalised table as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat duplicate ids as errors")
	cmd.Flags().StringVar(&level, "log-level", "warn", "log level")
	return cmd
}

type options struct {
	dot, json, strict bool
}

func lint(w io.Writer, path string, opts options, logger zerolog.Logger) error {
	format, err := production.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	table, err := production.Decode(f, format)
	if err != nil {
		return err
	}
	if err := production.Prepare(&table, stubHandlers(&table)); err != nil {
		return err
	}

	dups := table.Duplicates()
	for _, d := range dups {
		logger.Warn().Str("file", path).Msg(d)
	}
	if opts.strict && len(dups) > 0 {
		return fmt.Errorf("%d duplicate registrations", len(dups))
	}

	fmt.Fprintf(w, "ok %s id=%s version=%s states=%d transitions=%d free_events=%d duplicates=%d\n",
		path, table.ID, primitives.ComputeVersion(&table),
		len(table.States), len(table.Transitions), len(table.FreeEvents), len(dups))

	v := &production.DefaultVisualizer{}
	if opts.dot {
		fmt.Fprint(w, v.ExportDOT(table, table.InitialState()))
	}
	if opts.json {
		data, err := v.ExportJSON(table)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

// stubHandlers binds every handler name in t to a no-op.
func stubHandlers(t *primitives.TableConfig) primitives.HandlerSet {
	noop := func(primitives.Context, primitives.EventID) primitives.Status { return primitives.StatusOK }
	h := primitives.HandlerSet{}
	for _, s := range t.States {
		for _, name := range []string{s.Enter, s.Exit, s.Rejected} {
			if name != "" {
				h[name] = noop
			}
		}
	}
	for _, fe := range t.FreeEvents {
		if fe.Handler != "" {
			h[fe.Handler] = noop
		}
	}
	return h
}
