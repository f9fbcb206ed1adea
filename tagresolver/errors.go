package tagresolver

import "fmt"

// InvalidTagError reports a source tag without a dotted
// four-part version in it.
type InvalidTagError struct {
	Tag string
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("invalid source tag %q: no N.N.N.N version found", e.Tag)
}

// NoMatchError reports that no registry tag belongs to the
// release line under the given policy.
type NoMatchError struct {
	Line   ReleaseLine
	Policy Policy
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf(
		"no %s image was found within %s release",
		e.Policy, e.Line,
	)
}
