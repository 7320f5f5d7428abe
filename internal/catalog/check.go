package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"datacat/internal/validation"
)

// DatasetStatus identifies a dataset's progress during Check.
type DatasetStatus string

const (
	// DatasetQueued marks a dataset not yet read.
	DatasetQueued DatasetStatus = "queued"
	// DatasetReading marks a read in progress.
	DatasetReading DatasetStatus = "reading"
	// DatasetValidating marks checks in progress.
	DatasetValidating DatasetStatus = "validating"
	// DatasetPassed marks a dataset read and accepted by every check.
	DatasetPassed DatasetStatus = "passed"
	// DatasetFailed marks a dataset rejected by a check.
	DatasetFailed DatasetStatus = "failed"
	// DatasetError marks a dataset that could not be read.
	DatasetError DatasetStatus = "error"
)

// Terminal reports whether no further events follow for the dataset.
func (s DatasetStatus) Terminal() bool {
	return s == DatasetPassed || s == DatasetFailed || s == DatasetError
}

// DatasetEvent carries a single status update for a dataset.
type DatasetEvent struct {
	Dataset   string
	Index     int
	Status    DatasetStatus
	Rows      int
	Check     string
	Duration  time.Duration
	Error     string
	EmittedAt time.Time
}

// CheckResult is the outcome for one dataset.
type CheckResult struct {
	Dataset  string
	Status   DatasetStatus
	Rows     int
	Check    string
	Err      error
	Duration time.Duration
}

// CheckReport collects the outcome of every dataset.
type CheckReport struct {
	Results []CheckResult
}

// Failed counts datasets that did not pass.
func (r CheckReport) Failed() int {
	n := 0
	for _, result := range r.Results {
		if result.Status != DatasetPassed {
			n++
		}
	}
	return n
}

// CheckObserver receives Check lifecycle events for UI or logging.
type CheckObserver interface {
	// OnCheckStart lists the datasets about to be checked.
	OnCheckStart(datasets []string)
	// OnDatasetEvent delivers a dataset status update.
	OnDatasetEvent(event DatasetEvent)
	// OnCheckEnd signals completion.
	OnCheckEnd(report CheckReport)
}

type nopObserver struct{}

func (nopObserver) OnCheckStart([]string)       {}
func (nopObserver) OnDatasetEvent(DatasetEvent) {}
func (nopObserver) OnCheckEnd(CheckReport)      {}

// Check reads every dataset with its checks, continuing past failures. The
// error is non-nil only when ctx ends before all datasets are done.
func (c *Catalog) Check(ctx context.Context, observer CheckObserver) (CheckReport, error) {
	if observer == nil {
		observer = nopObserver{}
	}
	names := c.Names()
	observer.OnCheckStart(names)
	report := CheckReport{Results: make([]CheckResult, 0, len(names))}
	defer func() { observer.OnCheckEnd(report) }()

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("check: %w", err)
		}
		result := c.checkOne(ctx, i, name, observer)
		report.Results = append(report.Results, result)
	}
	return report, nil
}

func (c *Catalog) checkOne(ctx context.Context, index int, name string, observer CheckObserver) CheckResult {
	started := time.Now()
	emit := func(status DatasetStatus, result CheckResult) {
		event := DatasetEvent{
			Dataset:   name,
			Index:     index,
			Status:    status,
			Rows:      result.Rows,
			Check:     result.Check,
			Duration:  time.Since(started),
			EmittedAt: time.Now(),
		}
		if result.Err != nil {
			event.Error = result.Err.Error()
		}
		observer.OnDatasetEvent(event)
	}
	result := CheckResult{Dataset: name}
	finish := func(status DatasetStatus) CheckResult {
		result.Status = status
		result.Duration = time.Since(started)
		emit(status, result)
		c.logger.Info("dataset checked", "dataset", name, "status", string(status), "rows", result.Rows)
		return result
	}

	emit(DatasetReading, result)
	data, err := c.Read(ctx, name, SkipValidation())
	if err != nil {
		result.Err = err
		return finish(DatasetError)
	}
	if n, err := validation.Length(data); err == nil {
		result.Rows = n
	}
	emit(DatasetValidating, result)
	if _, err := c.validations.ValidateData(name, data); err != nil {
		result.Err = err
		var failure *validation.Failure
		if errors.As(err, &failure) {
			result.Check = failure.Check
		}
		return finish(DatasetFailed)
	}
	return finish(DatasetPassed)
}
