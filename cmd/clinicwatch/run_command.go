package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clinicwatch/internal/logging"
	"clinicwatch/internal/monitor"
	"clinicwatch/internal/poller"
	"clinicwatch/internal/preflight"
)

type loopOptions struct {
	dryRun        bool
	skipPreflight bool
	keepScreens   string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts loopOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll until an appointment slot appears, then notify and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(cmd, ctx, opts, func(loop *poller.Loop) monitor.Runner { return loop })
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Detect slots but do not send the notification")
	cmd.Flags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "Start without checking the device and binaries")
	cmd.Flags().StringVar(&opts.keepScreens, "keep-screens", "", "Copy each screenshot into this directory for calibration")
	return cmd
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var opts loopOptions
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single check without waiting for the next poll",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(cmd, ctx, opts, func(loop *poller.Loop) monitor.Runner { return singleCheck{loop: loop} })
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Detect slots but do not send the notification")
	cmd.Flags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "Start without checking the device and binaries")
	cmd.Flags().StringVar(&opts.keepScreens, "keep-screens", "", "Copy each screenshot into this directory for calibration")
	return cmd
}

// singleCheck adapts one loop body to monitor.Runner.
type singleCheck struct {
	loop *poller.Loop
}

func (s singleCheck) Run(ctx context.Context) (poller.Report, error) {
	it, err := s.loop.RunOnce(ctx)
	if err != nil {
		return poller.Report{}, err
	}
	return poller.Report{Iterations: 1, Last: it, StartedAt: it.StartedAt, FinishedAt: it.StartedAt.Add(it.Duration)}, nil
}

func runLoop(cmd *cobra.Command, ctx *commandContext, opts loopOptions, runner func(*poller.Loop) monitor.Runner) error {
	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !opts.dryRun {
		if err := cfg.RequireWebhook(); err != nil {
			return err
		}
	}

	logger, logPath, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	logger.Info("clinicwatch starting",
		logging.String("config", ctx.configPath),
		logging.String("log_file", logPath),
		logging.Bool("dry_run", opts.dryRun),
	)

	device, err := newDevice(cfg)
	if err != nil {
		return err
	}
	if !opts.skipPreflight {
		results := preflight.RunAll(signalCtx, cfg, preflight.Options{Device: device, RequireWebhook: !opts.dryRun})
		if err := requirePreflight(results); err != nil {
			logging.ErrorWithContext(logger, "preflight failed", "preflight_failed", logging.Error(err))
			return err
		}
	}

	m, err := monitor.New(cfg, runner(newLoop(cfg, device, logger, opts)), logger)
	if err != nil {
		return err
	}
	report, err := m.Run(signalCtx)
	out := cmd.OutOrStdout()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(out, "Interrupted after %d check(s)\n", report.Iterations)
			return nil
		}
		return err
	}
	printReport(out, report, opts.dryRun)
	return nil
}

func printReport(out io.Writer, report poller.Report, dryRun bool) {
	last := report.Last
	switch {
	case last.State == poller.StateNotifyAndStop && dryRun:
		fmt.Fprintln(out, "Slot may be available (dry run; no notification sent)")
	case last.State == poller.StateNotifyAndStop && last.NotifyErr != nil:
		fmt.Fprintf(out, "Slot may be available but the notification failed: %v\n", last.NotifyErr)
	case last.State == poller.StateNotifyAndStop:
		fmt.Fprintln(out, "Slot may be available; notification sent")
	case last.Err != nil:
		fmt.Fprintf(out, "Check failed (%s): %v\n", last.Reason, last.Err)
	default:
		fmt.Fprintf(out, "No slot available (%s; navigated: %s)\n", last.Reason, yesNo(last.Navigated))
	}
	if last.Ambiguous {
		fmt.Fprintln(out, "Warning: availability text was empty; the result may be a false positive")
	}
	if last.Diverged {
		fmt.Fprintln(out, "Warning: the match depended on spacing in the OCR text; compare with 'clinicwatch ocr --text'")
	}
}
