package jenkins

import (
	"context"
	"encoding/json"
)

// BuildStatus is the result of a finished build.
type BuildStatus string

// Build results reported by the controller.
const (
	StatusSuccess  BuildStatus = "SUCCESS"
	StatusUnstable BuildStatus = "UNSTABLE"
	StatusFailure  BuildStatus = "FAILURE"
	StatusNotBuilt BuildStatus = "NOT_BUILT"
	StatusAborted  BuildStatus = "ABORTED"
)

// ShortBuild is the terse form of a build as embedded in listings.
type ShortBuild struct {
	Class  string `json:"_class"`
	Number int64  `json:"number"`
	URL    string `json:"url"`
}

// GetFull fetches the complete build the short form links to. The link
// is checked against the path grammar before any request is issued.
func (s ShortBuild) GetFull(ctx context.Context, c *Client) (*Build, error) {
	path := c.ParsePath(s.URL)

	if _, ok := path.(BuildPath); !ok {
		return nil, &InvalidURLError{URL: s.URL, Expected: ExpectBuild}
	}

	build := &Build{}

	if err := c.get(ctx, path, build); err != nil {
		return nil, err
	}

	return build, nil
}

// Parameter is a single build parameter.
type Parameter struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Cause describes what started a build.
type Cause struct {
	Class            string `json:"_class"`
	ShortDescription string `json:"shortDescription"`
	UserID           string `json:"userId"`
	UserName         string `json:"userName"`
}

// Action is one of the loosely typed action entries attached to a build.
type Action struct {
	Class      string      `json:"_class"`
	Parameters []Parameter `json:"parameters"`
	Causes     []Cause     `json:"causes"`
}

// BuildCommon holds the fields shared by every known build variant.
// Timestamps are milliseconds since the epoch, durations milliseconds.
type BuildCommon struct {
	Number            int64       `json:"number"`
	URL               string      `json:"url"`
	DisplayName       string      `json:"displayName"`
	FullDisplayName   string      `json:"fullDisplayName"`
	Description       string      `json:"description"`
	Building          bool        `json:"building"`
	KeepLog           bool        `json:"keepLog"`
	Result            BuildStatus `json:"result"`
	Timestamp         int64       `json:"timestamp"`
	Duration          int64       `json:"duration"`
	EstimatedDuration int64       `json:"estimatedDuration"`
	QueueID           int64       `json:"queueId"`
	BuiltOn           string      `json:"builtOn"`
	Actions           []Action    `json:"actions"`
}

// BuildVariant is one of the known build shapes.
type BuildVariant interface {
	buildCommon() *BuildCommon
}

// FreeStyleBuild is a build of a freestyle project.
type FreeStyleBuild struct {
	BuildCommon
}

func (b *FreeStyleBuild) buildCommon() *BuildCommon {
	return &b.BuildCommon
}

// WorkflowRun is a run of a pipeline job.
type WorkflowRun struct {
	BuildCommon
}

func (b *WorkflowRun) buildCommon() *BuildCommon {
	return &b.BuildCommon
}

// MatrixBuild is a build of a matrix project, fanning out into one run
// per configuration.
type MatrixBuild struct {
	BuildCommon
	Runs []ShortBuild `json:"runs"`
}

func (b *MatrixBuild) buildCommon() *BuildCommon {
	return &b.BuildCommon
}

// MatrixRun is the build of a single matrix configuration.
type MatrixRun struct {
	BuildCommon
}

func (b *MatrixRun) buildCommon() *BuildCommon {
	return &b.BuildCommon
}

// MavenBuild is the build of a single maven module.
type MavenBuild struct {
	BuildCommon
	MavenArtifactsRecord *ShortMavenArtifactRecord `json:"mavenArtifacts"`
}

func (b *MavenBuild) buildCommon() *BuildCommon {
	return &b.BuildCommon
}

// MavenModuleSetBuild is the build of a maven project.
type MavenModuleSetBuild struct {
	BuildCommon
}

func (b *MavenModuleSetBuild) buildCommon() *BuildCommon {
	return &b.BuildCommon
}

var buildClasses = map[string]func() BuildVariant{
	"hudson.model.FreeStyleBuild":                    func() BuildVariant { return &FreeStyleBuild{} },
	"org.jenkinsci.plugins.workflow.job.WorkflowRun": func() BuildVariant { return &WorkflowRun{} },
	"hudson.matrix.MatrixBuild":                      func() BuildVariant { return &MatrixBuild{} },
	"hudson.matrix.MatrixRun":                        func() BuildVariant { return &MatrixRun{} },
	"hudson.maven.MavenBuild":                        func() BuildVariant { return &MavenBuild{} },
	"hudson.maven.MavenModuleSetBuild":               func() BuildVariant { return &MavenModuleSetBuild{} },
}

// Build is a decoded build of any class. Known classes expose their
// shape through Variant; unrecognized classes keep their discriminator
// and raw payload but refuse field access.
type Build struct {
	variant BuildVariant
	class   string
	raw     json.RawMessage
}

// UnmarshalJSON decodes a build by its class discriminator. Payloads
// with an unrecognized or missing class decode into the unknown variant.
func (b *Build) UnmarshalJSON(data []byte) error {
	class := classOf(data)

	if build, ok := buildClasses[class]; ok {
		variant := build()

		if err := json.Unmarshal(data, variant); err != nil {
			return err
		}

		b.variant = variant
		b.class = class
		b.raw = nil
		return nil
	}

	b.variant = nil
	b.class = class
	b.raw = append([]byte(nil), data...)
	return nil
}

// Class returns the class discriminator reported by the controller.
func (b *Build) Class() string {
	return b.class
}

// Variant returns the known build shape, or false when the class was not
// recognized.
func (b *Build) Variant() (BuildVariant, bool) {
	return b.variant, b.variant != nil
}

// Raw returns the untouched payload of an unknown build.
func (b *Build) Raw() json.RawMessage {
	return b.raw
}

func (b *Build) common(action string) (*BuildCommon, error) {
	if b.variant != nil {
		return b.variant.buildCommon(), nil
	}

	return nil, &UnsupportedVariantError{Object: ExpectBuild, Action: action, Variant: b.class}
}

// Number returns the number of the build.
func (b *Build) Number() (int64, error) {
	common, err := b.common("number")

	if err != nil {
		return 0, err
	}

	return common.Number, nil
}

// URL returns the URL of the build.
func (b *Build) URL() (string, error) {
	common, err := b.common("url")

	if err != nil {
		return "", err
	}

	return common.URL, nil
}

// Result returns the result of the build. It is empty while the build is
// still running.
func (b *Build) Result() (BuildStatus, error) {
	common, err := b.common("result")

	if err != nil {
		return "", err
	}

	return common.Result, nil
}

// Building reports whether the build is still running.
func (b *Build) Building() (bool, error) {
	common, err := b.common("building")

	if err != nil {
		return false, err
	}

	return common.Building, nil
}

// Timestamp returns the start of the build in milliseconds since the
// epoch.
func (b *Build) Timestamp() (int64, error) {
	common, err := b.common("timestamp")

	if err != nil {
		return 0, err
	}

	return common.Timestamp, nil
}

// Duration returns the duration of the build in milliseconds.
func (b *Build) Duration() (int64, error) {
	common, err := b.common("duration")

	if err != nil {
		return 0, err
	}

	return common.Duration, nil
}

// QueueID returns the id of the queue item the build was started from.
func (b *Build) QueueID() (int64, error) {
	common, err := b.common("queueId")

	if err != nil {
		return 0, err
	}

	return common.QueueID, nil
}

// Actions returns the action entries attached to the build.
func (b *Build) Actions() ([]Action, error) {
	common, err := b.common("actions")

	if err != nil {
		return nil, err
	}

	return common.Actions, nil
}

// GetJob fetches the job the build belongs to, derived from the build
// URL.
func (b *Build) GetJob(ctx context.Context, c *Client) (*Job, error) {
	common, err := b.common("job")

	if err != nil {
		return nil, err
	}

	path, ok := c.ParsePath(common.URL).(BuildPath)

	if !ok {
		return nil, &InvalidURLError{URL: common.URL, Expected: ExpectBuild}
	}

	job := &Job{}

	if err := c.get(ctx, path.Job, job); err != nil {
		return nil, err
	}

	return job, nil
}

// GetConsole fetches the console output of the build.
func (b *Build) GetConsole(ctx context.Context, c *Client) (string, error) {
	common, err := b.common("consoleText")

	if err != nil {
		return "", err
	}

	path, ok := c.ParsePath(common.URL).(BuildPath)

	if !ok {
		return "", &InvalidURLError{URL: common.URL, Expected: ExpectBuild}
	}

	body, err := c.getRaw(ctx, ConsoleText{Job: path.Job, Selector: path.Selector})

	if err != nil {
		return "", err
	}

	return string(body), nil
}
