package jenkins

import (
	"fmt"
	"net/http"
)

// ExpectedType names the kind of resource a URL was expected to address.
type ExpectedType string

// Resource kinds used in error reporting.
const (
	ExpectJob                 ExpectedType = "job"
	ExpectBuild               ExpectedType = "build"
	ExpectView                ExpectedType = "view"
	ExpectQueueItem           ExpectedType = "queue item"
	ExpectMavenArtifactRecord ExpectedType = "maven artifact record"
)

// InvalidURLError reports a URL that does not resolve to the expected
// kind of resource. It is returned before any request is issued and is
// never retried.
type InvalidURLError struct {
	URL      string
	Expected ExpectedType
}

// Error implements the error interface.
func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("jenkins: url %q does not point to a %s", e.URL, e.Expected)
}

// UnsupportedVariantError reports a field access or action attempted on
// a resource that decoded as an unknown variant. The discriminator of
// the variant is preserved so callers can decide how to degrade.
type UnsupportedVariantError struct {
	Object  ExpectedType
	Action  string
	Variant string
}

// Error implements the error interface.
func (e *UnsupportedVariantError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("jenkins: cannot get %s of %s variant without a class", e.Action, e.Object)
	}

	return fmt.Sprintf("jenkins: cannot get %s of unknown %s variant %q", e.Action, e.Object, e.Variant)
}

// StatusError reports a non-success status returned by the controller.
type StatusError struct {
	Code int
	URL  string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("jenkins: %s returned status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}
