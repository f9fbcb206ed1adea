package logdelivery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"
)

var (
	// ErrLogGroupNotFound is returned when the target's log
	// group does not exist.
	ErrLogGroupNotFound = errors.New("log group not found")
	// ErrLogStreamNotFound is returned when the target's log
	// stream does not exist.
	ErrLogStreamNotFound = errors.New("log stream not found")
	// ErrNoCloudWatchLogs is returned when the stream holds
	// no events.
	ErrNoCloudWatchLogs = errors.New("no cloudwatch logs found")
	// ErrNoPodLogs is returned when the container logged
	// nothing.
	ErrNoPodLogs = errors.New("no pod logs found")
)

// MismatchError reports the first line where CloudWatch
// and the pod disagree. A missing line is empty.
type MismatchError struct {
	Line       int
	CloudWatch string
	Pod        string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf(
		"logs differ at line %d: cloudwatch %q, pod %q",
		e.Line, e.CloudWatch, e.Pod,
	)
}

// Compare returns a *MismatchError for the first
// difference between the cloudwatch and pod lines, or nil
// when they are equal.
func Compare(cloudwatch, pod []string) error {
	for i := 0; i < max(len(cloudwatch), len(pod)); i++ {
		var cw, p string

		if i < len(cloudwatch) {
			cw = cloudwatch[i]
		}

		if i < len(pod) {
			p = pod[i]
		}

		if i >= len(cloudwatch) || i >= len(pod) || cw != p {
			return &MismatchError{Line: i, CloudWatch: cw, Pod: p}
		}
	}

	return nil
}

// Checker verifies log delivery for a target.
type Checker struct {
	cw     *CloudWatch
	kube   kubernetes.Interface
	naming Naming
	lines  int32
}

// NewChecker returns a Checker comparing the last lines
// lines of CloudWatch and pod logs.
func NewChecker(
	cw *CloudWatch,
	kube kubernetes.Interface,
	naming Naming,
	lines int32,
) *Checker {
	return &Checker{cw: cw, kube: kube, naming: naming, lines: lines}
}

// Verify runs every check against t and joins the
// failures. Checks that depend on a missing log group or
// stream are still attempted so each problem is reported.
func (c *Checker) Verify(ctx context.Context, t Target) error {
	group := c.naming.Group(t)
	stream := c.naming.Stream(t)

	slog.Info(
		"verifying log delivery",
		"group", group,
		"stream", stream,
		"lines", c.lines,
	)

	var errs []error

	ok, err := c.cw.LogGroupExists(ctx, group)

	switch {
	case err != nil:
		errs = append(errs, err)
	case !ok:
		errs = append(errs, fmt.Errorf("%w: %s", ErrLogGroupNotFound, group))
	}

	ok, err = c.cw.LogStreamExists(ctx, group, stream)

	switch {
	case err != nil:
		errs = append(errs, err)
	case !ok:
		errs = append(errs, fmt.Errorf("%w: %s", ErrLogStreamNotFound, stream))
	}

	cwLines, cwErr := c.cw.LatestEvents(ctx, group, stream, c.lines)

	switch {
	case cwErr != nil:
		errs = append(errs, cwErr)
	case len(cwLines) == 0:
		errs = append(errs, ErrNoCloudWatchLogs)
	}

	podLines, podErr := PodLogs(ctx, c.kube, t, int64(c.lines))

	switch {
	case podErr != nil:
		errs = append(errs, podErr)
	case len(podLines) == 0:
		errs = append(errs, ErrNoPodLogs)
	}

	if cwErr == nil && podErr == nil {
		if err := Compare(cwLines, podLines); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
