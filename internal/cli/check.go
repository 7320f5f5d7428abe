package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"datacat/internal/catalog"
	"datacat/internal/ui/live"
)

// runCheck builds the handler for the check command.
func runCheck(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		flags := newFlagSet(cmd, stderr)
		var common commonFlags
		common.register(flags)
		uiMode := flags.String("ui", "auto", "Output mode: auto|live|plain")
		noColor := flags.Bool("no-color", false, "Disable colors in the live UI")
		if _, ok, code := parseFlags(cmd, flags, args, stdout, stderr, 0); !ok {
			return code
		}
		decision, err := resolveUIMode(*uiMode, common.logLevel, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		cfg, _, err := common.load(stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Load failed:\n%v\n", err)
			return ExitError
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var observer catalog.CheckObserver = &plainObserver{out: stdout}
		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, common.catalog, live.Options{NoColor: *noColor})
			observer = controller
		}
		report, checkErr := cfg.Catalog.Check(ctx, observer)
		if controller != nil {
			controller.Close()
			controller.Wait()
			printReport(stdout, report)
		}
		if checkErr != nil {
			fmt.Fprintf(stderr, "Check interrupted:\n%v\n", checkErr)
			return ExitError
		}
		failed := report.Failed()
		if failed > 0 {
			fmt.Fprintf(stdout, "%d of %d datasets failed\n", failed, len(report.Results))
			return ExitError
		}
		fmt.Fprintf(stdout, "All %d datasets passed\n", len(report.Results))
		return ExitOK
	}
}

// plainObserver prints one line per finished dataset.
type plainObserver struct {
	out   io.Writer
	mu    sync.Mutex
	total int
}

func (o *plainObserver) OnCheckStart(datasets []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.total = len(datasets)
}

func (o *plainObserver) OnDatasetEvent(event catalog.DatasetEvent) {
	if !event.Status.Terminal() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.out, "[%d/%d] %s\n", event.Index+1, o.total, describeResult(catalog.CheckResult{
		Dataset:  event.Dataset,
		Status:   event.Status,
		Rows:     event.Rows,
		Check:    event.Check,
		Duration: event.Duration,
	}, event.Error))
}

func (o *plainObserver) OnCheckEnd(catalog.CheckReport) {}

// printReport prints every result once the live UI has left the screen.
func printReport(w io.Writer, report catalog.CheckReport) {
	for i, result := range report.Results {
		message := ""
		if result.Err != nil {
			message = result.Err.Error()
		}
		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(report.Results), describeResult(result, message))
	}
}

func describeResult(result catalog.CheckResult, message string) string {
	switch result.Status {
	case catalog.DatasetPassed:
		return fmt.Sprintf("%s passed (%d rows, %s)", result.Dataset, result.Rows, result.Duration.Round(100*time.Millisecond))
	case catalog.DatasetFailed:
		return fmt.Sprintf("%s failed %s: %s", result.Dataset, result.Check, message)
	default:
		return fmt.Sprintf("%s %s: %s", result.Dataset, result.Status, message)
	}
}
