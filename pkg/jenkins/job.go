package jenkins

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// classOf extracts the class discriminator from a raw JSON object. It
// returns an empty string when the field is absent.
func classOf(data []byte) string {
	return gjson.GetBytes(data, "_class").String()
}

// BallColor is the status color of a job. Colors with the anime suffix
// mark an in-flight build.
type BallColor string

// Ball colors reported by the controller.
const (
	ColorBlue          BallColor = "blue"
	ColorBlueAnime     BallColor = "blue_anime"
	ColorYellow        BallColor = "yellow"
	ColorYellowAnime   BallColor = "yellow_anime"
	ColorRed           BallColor = "red"
	ColorRedAnime      BallColor = "red_anime"
	ColorGrey          BallColor = "grey"
	ColorGreyAnime     BallColor = "grey_anime"
	ColorDisabled      BallColor = "disabled"
	ColorDisabledAnime BallColor = "disabled_anime"
	ColorAborted       BallColor = "aborted"
	ColorAbortedAnime  BallColor = "aborted_anime"
	ColorNotBuilt      BallColor = "notbuilt"
	ColorNotBuiltAnime BallColor = "notbuilt_anime"
)

// IsBuilding reports whether the color marks an in-flight build.
func (c BallColor) IsBuilding() bool {
	return strings.HasSuffix(string(c), "_anime")
}

// HealthReport is the health summary of a job.
type HealthReport struct {
	Description   string `json:"description"`
	IconClassName string `json:"iconClassName"`
	IconURL       string `json:"iconUrl"`
	Score         int    `json:"score"`
}

// ShortJob is the terse form of a job as embedded in listings. It owns
// no reference to the full form; resolving is a fresh fetch.
type ShortJob struct {
	Class string    `json:"_class"`
	Name  string    `json:"name"`
	URL   string    `json:"url"`
	Color BallColor `json:"color"`
}

// GetFull fetches the complete job the short form links to. The link is
// checked against the path grammar before any request is issued.
func (s ShortJob) GetFull(ctx context.Context, c *Client) (*Job, error) {
	path := c.ParsePath(s.URL)

	if _, ok := path.(JobPath); !ok {
		return nil, &InvalidURLError{URL: s.URL, Expected: ExpectJob}
	}

	job := &Job{}

	if err := c.get(ctx, path, job); err != nil {
		return nil, err
	}

	return job, nil
}

// JobCommon holds the fields shared by every known job variant.
type JobCommon struct {
	Name                  string          `json:"name"`
	DisplayName           string          `json:"displayName"`
	FullDisplayName       string          `json:"fullDisplayName"`
	FullName              string          `json:"fullName"`
	Description           string          `json:"description"`
	URL                   string          `json:"url"`
	Color                 BallColor       `json:"color"`
	Buildable             bool            `json:"buildable"`
	KeepDependencies      bool            `json:"keepDependencies"`
	NextBuildNumber       int64           `json:"nextBuildNumber"`
	InQueue               bool            `json:"inQueue"`
	LastBuild             *ShortBuild     `json:"lastBuild"`
	FirstBuild            *ShortBuild     `json:"firstBuild"`
	LastStableBuild       *ShortBuild     `json:"lastStableBuild"`
	LastUnstableBuild     *ShortBuild     `json:"lastUnstableBuild"`
	LastSuccessfulBuild   *ShortBuild     `json:"lastSuccessfulBuild"`
	LastUnsuccessfulBuild *ShortBuild     `json:"lastUnsuccessfulBuild"`
	LastCompletedBuild    *ShortBuild     `json:"lastCompletedBuild"`
	LastFailedBuild       *ShortBuild     `json:"lastFailedBuild"`
	Builds                []ShortBuild    `json:"builds"`
	HealthReport          []HealthReport  `json:"healthReport"`
	QueueItem             *ShortQueueItem `json:"queueItem"`
	Properties            []Property      `json:"property"`
}

// JobVariant is one of the known job shapes.
type JobVariant interface {
	jobCommon() *JobCommon
}

// FreeStyleProject is a job of class hudson.model.FreeStyleProject.
type FreeStyleProject struct {
	JobCommon
	ConcurrentBuild    bool       `json:"concurrentBuild"`
	SCM                SCM        `json:"scm"`
	UpstreamProjects   []ShortJob `json:"upstreamProjects"`
	DownstreamProjects []ShortJob `json:"downstreamProjects"`
	LabelExpression    string     `json:"labelExpression"`
}

func (j *FreeStyleProject) jobCommon() *JobCommon {
	return &j.JobCommon
}

// WorkflowJob is a pipeline job.
type WorkflowJob struct {
	JobCommon
	ConcurrentBuild bool `json:"concurrentBuild"`
}

func (j *WorkflowJob) jobCommon() *JobCommon {
	return &j.JobCommon
}

// MatrixProject is a multi-configuration job.
type MatrixProject struct {
	JobCommon
	ConcurrentBuild      bool       `json:"concurrentBuild"`
	SCM                  SCM        `json:"scm"`
	ActiveConfigurations []ShortJob `json:"activeConfigurations"`
	UpstreamProjects     []ShortJob `json:"upstreamProjects"`
	DownstreamProjects   []ShortJob `json:"downstreamProjects"`
	LabelExpression      string     `json:"labelExpression"`
}

func (j *MatrixProject) jobCommon() *JobCommon {
	return &j.JobCommon
}

// MatrixConfiguration is a single configuration of a matrix project,
// addressed as a nested job.
type MatrixConfiguration struct {
	JobCommon
	ConcurrentBuild    bool       `json:"concurrentBuild"`
	SCM                SCM        `json:"scm"`
	UpstreamProjects   []ShortJob `json:"upstreamProjects"`
	DownstreamProjects []ShortJob `json:"downstreamProjects"`
	LabelExpression    string     `json:"labelExpression"`
}

func (j *MatrixConfiguration) jobCommon() *JobCommon {
	return &j.JobCommon
}

// ExternalJob records executions run outside the controller.
type ExternalJob struct {
	JobCommon
}

func (j *ExternalJob) jobCommon() *JobCommon {
	return &j.JobCommon
}

// MavenModuleSet is a maven project.
type MavenModuleSet struct {
	JobCommon
	ConcurrentBuild    bool       `json:"concurrentBuild"`
	SCM                SCM        `json:"scm"`
	Modules            []ShortJob `json:"modules"`
	UpstreamProjects   []ShortJob `json:"upstreamProjects"`
	DownstreamProjects []ShortJob `json:"downstreamProjects"`
	LabelExpression    string     `json:"labelExpression"`
}

func (j *MavenModuleSet) jobCommon() *JobCommon {
	return &j.JobCommon
}

// MavenModule is a module of a maven project, addressed as a nested job.
type MavenModule struct {
	JobCommon
	ConcurrentBuild    bool       `json:"concurrentBuild"`
	SCM                SCM        `json:"scm"`
	UpstreamProjects   []ShortJob `json:"upstreamProjects"`
	DownstreamProjects []ShortJob `json:"downstreamProjects"`
	LabelExpression    string     `json:"labelExpression"`
}

func (j *MavenModule) jobCommon() *JobCommon {
	return &j.JobCommon
}

var jobClasses = map[string]func() JobVariant{
	"hudson.model.FreeStyleProject":                  func() JobVariant { return &FreeStyleProject{} },
	"org.jenkinsci.plugins.workflow.job.WorkflowJob": func() JobVariant { return &WorkflowJob{} },
	"hudson.matrix.MatrixProject":                    func() JobVariant { return &MatrixProject{} },
	"hudson.matrix.MatrixConfiguration":              func() JobVariant { return &MatrixConfiguration{} },
	"hudson.model.ExternalJob":                       func() JobVariant { return &ExternalJob{} },
	"hudson.maven.MavenModuleSet":                    func() JobVariant { return &MavenModuleSet{} },
	"hudson.maven.MavenModule":                       func() JobVariant { return &MavenModule{} },
}

// Job is a decoded job of any class. Known classes expose their shape
// through Variant; unrecognized classes keep their discriminator and raw
// payload but refuse field access.
type Job struct {
	variant JobVariant
	class   string
	raw     json.RawMessage
}

// UnmarshalJSON decodes a job by its class discriminator. Payloads with
// an unrecognized or missing class decode into the unknown variant; that
// is a success, not an error.
func (j *Job) UnmarshalJSON(data []byte) error {
	class := classOf(data)

	if build, ok := jobClasses[class]; ok {
		variant := build()

		if err := json.Unmarshal(data, variant); err != nil {
			return err
		}

		j.variant = variant
		j.class = class
		j.raw = nil
		return nil
	}

	j.variant = nil
	j.class = class
	j.raw = append([]byte(nil), data...)
	return nil
}

// Class returns the class discriminator reported by the controller. It
// may be empty when the payload carried none.
func (j *Job) Class() string {
	return j.class
}

// Variant returns the known job shape, or false when the class was not
// recognized.
func (j *Job) Variant() (JobVariant, bool) {
	return j.variant, j.variant != nil
}

// Raw returns the untouched payload of an unknown job, or nil for known
// variants.
func (j *Job) Raw() json.RawMessage {
	return j.raw
}

func (j *Job) common(action string) (*JobCommon, error) {
	if j.variant != nil {
		return j.variant.jobCommon(), nil
	}

	return nil, &UnsupportedVariantError{Object: ExpectJob, Action: action, Variant: j.class}
}

// Name returns the name of the job.
func (j *Job) Name() (string, error) {
	common, err := j.common("name")

	if err != nil {
		return "", err
	}

	return common.Name, nil
}

// URL returns the URL of the job.
func (j *Job) URL() (string, error) {
	common, err := j.common("url")

	if err != nil {
		return "", err
	}

	return common.URL, nil
}

// Buildable reports whether the job can be built.
func (j *Job) Buildable() (bool, error) {
	common, err := j.common("buildable")

	if err != nil {
		return false, err
	}

	return common.Buildable, nil
}

// Color returns the status color of the job.
func (j *Job) Color() (BallColor, error) {
	common, err := j.common("color")

	if err != nil {
		return "", err
	}

	return common.Color, nil
}

// NextBuildNumber returns the number the next build will get.
func (j *Job) NextBuildNumber() (int64, error) {
	common, err := j.common("nextBuildNumber")

	if err != nil {
		return 0, err
	}

	return common.NextBuildNumber, nil
}

// InQueue reports whether the job is currently waiting in the queue.
func (j *Job) InQueue() (bool, error) {
	common, err := j.common("inQueue")

	if err != nil {
		return false, err
	}

	return common.InQueue, nil
}

// LastBuild returns the link to the last build, or nil if the job never
// built.
func (j *Job) LastBuild() (*ShortBuild, error) {
	common, err := j.common("lastBuild")

	if err != nil {
		return nil, err
	}

	return common.LastBuild, nil
}

// FirstBuild returns the link to the first build still on record.
func (j *Job) FirstBuild() (*ShortBuild, error) {
	common, err := j.common("firstBuild")

	if err != nil {
		return nil, err
	}

	return common.FirstBuild, nil
}

// LastStableBuild returns the link to the last stable build.
func (j *Job) LastStableBuild() (*ShortBuild, error) {
	common, err := j.common("lastStableBuild")

	if err != nil {
		return nil, err
	}

	return common.LastStableBuild, nil
}

// LastUnstableBuild returns the link to the last unstable build.
func (j *Job) LastUnstableBuild() (*ShortBuild, error) {
	common, err := j.common("lastUnstableBuild")

	if err != nil {
		return nil, err
	}

	return common.LastUnstableBuild, nil
}

// LastSuccessfulBuild returns the link to the last successful build.
func (j *Job) LastSuccessfulBuild() (*ShortBuild, error) {
	common, err := j.common("lastSuccessfulBuild")

	if err != nil {
		return nil, err
	}

	return common.LastSuccessfulBuild, nil
}

// LastUnsuccessfulBuild returns the link to the last unsuccessful build.
func (j *Job) LastUnsuccessfulBuild() (*ShortBuild, error) {
	common, err := j.common("lastUnsuccessfulBuild")

	if err != nil {
		return nil, err
	}

	return common.LastUnsuccessfulBuild, nil
}

// LastFailedBuild returns the link to the last failed build.
func (j *Job) LastFailedBuild() (*ShortBuild, error) {
	common, err := j.common("lastFailedBuild")

	if err != nil {
		return nil, err
	}

	return common.LastFailedBuild, nil
}

// LastCompletedBuild returns the link to the last completed build.
func (j *Job) LastCompletedBuild() (*ShortBuild, error) {
	common, err := j.common("lastCompletedBuild")

	if err != nil {
		return nil, err
	}

	return common.LastCompletedBuild, nil
}

// Builds returns the links to the recorded builds of the job.
func (j *Job) Builds() ([]ShortBuild, error) {
	common, err := j.common("builds")

	if err != nil {
		return nil, err
	}

	return common.Builds, nil
}

// HealthReport returns the health summaries of the job.
func (j *Job) HealthReport() ([]HealthReport, error) {
	common, err := j.common("healthReport")

	if err != nil {
		return nil, err
	}

	return common.HealthReport, nil
}

// QueueItem returns the queue item of the job if it is waiting.
func (j *Job) QueueItem() (*ShortQueueItem, error) {
	common, err := j.common("queueItem")

	if err != nil {
		return nil, err
	}

	return common.QueueItem, nil
}

// Properties returns the properties of the job.
func (j *Job) Properties() ([]Property, error) {
	common, err := j.common("property")

	if err != nil {
		return nil, err
	}

	return common.Properties, nil
}

// topLevelName derives the name of a top-level job from its URL. Nested
// jobs cannot be addressed by the job actions, matching the controller.
func (j *Job) topLevelName(c *Client, action string) (Name, error) {
	common, err := j.common(action)

	if err != nil {
		return Name{}, err
	}

	if job, ok := c.ParsePath(common.URL).(JobPath); ok && job.Parent == nil {
		return job.Name, nil
	}

	return Name{}, &InvalidURLError{URL: common.URL, Expected: ExpectJob}
}

// Enable enables the job. The decoded value may be stale afterwards and
// should be fetched again.
func (j *Job) Enable(ctx context.Context, c *Client) error {
	name, err := j.topLevelName(c, "enable")

	if err != nil {
		return err
	}

	return c.post(ctx, JobEnable{Name: name})
}

// Disable disables the job. The decoded value may be stale afterwards
// and should be fetched again.
func (j *Job) Disable(ctx context.Context, c *Client) error {
	name, err := j.topLevelName(c, "disable")

	if err != nil {
		return err
	}

	return c.post(ctx, JobDisable{Name: name})
}

// PollSCM polls the configured SCM of the job for changes.
func (j *Job) PollSCM(ctx context.Context, c *Client) error {
	name, err := j.topLevelName(c, "polling")

	if err != nil {
		return err
	}

	return c.post(ctx, PollSCM{Name: name})
}

// AddToView adds the job to the named view.
func (j *Job) AddToView(ctx context.Context, c *Client, view string) error {
	name, err := j.topLevelName(c, "addJobToView")

	if err != nil {
		return err
	}

	return c.post(ctx, AddJobToView{Job: name, View: NameOf(view)})
}

// RemoveFromView removes the job from the named view.
func (j *Job) RemoveFromView(ctx context.Context, c *Client, view string) error {
	name, err := j.topLevelName(c, "removeJobFromView")

	if err != nil {
		return err
	}

	return c.post(ctx, RemoveJobFromView{Job: name, View: NameOf(view)})
}

// Trigger triggers a build of the job and returns the short queue item
// the controller points at.
func (j *Job) Trigger(ctx context.Context, c *Client) (ShortQueueItem, error) {
	name, err := j.topLevelName(c, "build")

	if err != nil {
		return ShortQueueItem{}, err
	}

	return c.TriggerJob(ctx, name.String())
}
