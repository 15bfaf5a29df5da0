package jenkins

import (
	"net/url"
	"strconv"
	"strings"
)

// Name is a resource identifier as it appears in a URL segment. It is
// stored in display form; Segment returns the encoded form used in URLs.
type Name struct {
	value string
}

// NameOf builds a Name from its display form.
func NameOf(display string) Name {
	return Name{value: display}
}

// SegmentName builds a Name from an URL-encoded path segment.
func SegmentName(segment string) Name {
	decoded, err := url.PathUnescape(segment)

	if err != nil {
		return Name{value: segment}
	}

	return Name{value: decoded}
}

// String returns the display form of the name.
func (n Name) String() string {
	return n.value
}

// Segment returns the name encoded for use as a URL path segment.
func (n Name) Segment() string {
	return url.PathEscape(n.value)
}

// Symbolic build selectors understood by the controller.
const (
	LastBuild             = "lastBuild"
	FirstBuild            = "firstBuild"
	LastStableBuild       = "lastStableBuild"
	LastSuccessfulBuild   = "lastSuccessfulBuild"
	LastFailedBuild       = "lastFailedBuild"
	LastUnstableBuild     = "lastUnstableBuild"
	LastUnsuccessfulBuild = "lastUnsuccessfulBuild"
	LastCompletedBuild    = "lastCompletedBuild"
)

var buildAliases = map[string]bool{
	LastBuild:             true,
	FirstBuild:            true,
	LastStableBuild:       true,
	LastSuccessfulBuild:   true,
	LastFailedBuild:       true,
	LastUnstableBuild:     true,
	LastUnsuccessfulBuild: true,
	LastCompletedBuild:    true,
}

// BuildSelector addresses a build within a job, either by its literal
// number or by one of the symbolic aliases.
type BuildSelector struct {
	number int64
	alias  string
}

// ByNumber selects a build by its literal number.
func ByNumber(number int64) BuildSelector {
	return BuildSelector{number: number}
}

// ByAlias selects a build by a symbolic alias like LastBuild.
func ByAlias(alias string) BuildSelector {
	return BuildSelector{alias: alias}
}

// Segment returns the URL path segment for the selector.
func (s BuildSelector) Segment() string {
	if s.alias != "" {
		return s.alias
	}

	return strconv.FormatInt(s.number, 10)
}

func parseBuildSelector(segment string) (BuildSelector, bool) {
	if number, err := strconv.ParseInt(segment, 10, 64); err == nil && number >= 0 {
		return ByNumber(number), true
	}

	if buildAliases[segment] {
		return ByAlias(segment), true
	}

	return BuildSelector{}, false
}

// Path is the typed representation of a routable controller URL. Every
// variant renders back to the URL it was parsed from, relative to the
// configured endpoint.
type Path interface {
	// URLPath renders the path relative to the endpoint, starting with
	// a slash.
	URLPath() string
}

// Home addresses the controller root.
type Home struct{}

// URLPath implements Path.
func (Home) URLPath() string {
	return "/"
}

// JobPath addresses a job, optionally nested below parent jobs such as
// folders or matrix projects.
type JobPath struct {
	Parent *JobPath
	Name   Name
}

// URLPath implements Path.
func (p JobPath) URLPath() string {
	if p.Parent != nil {
		return p.Parent.URLPath() + "/job/" + p.Name.Segment()
	}

	return "/job/" + p.Name.Segment()
}

// JobEnable addresses the enable action of a top-level job.
type JobEnable struct {
	Name Name
}

// URLPath implements Path.
func (p JobEnable) URLPath() string {
	return "/job/" + p.Name.Segment() + "/enable"
}

// JobDisable addresses the disable action of a top-level job.
type JobDisable struct {
	Name Name
}

// URLPath implements Path.
func (p JobDisable) URLPath() string {
	return "/job/" + p.Name.Segment() + "/disable"
}

// BuildJob addresses the build trigger action of a top-level job.
type BuildJob struct {
	Name Name
}

// URLPath implements Path.
func (p BuildJob) URLPath() string {
	return "/job/" + p.Name.Segment() + "/build"
}

// PollSCM addresses the SCM polling action of a top-level job.
type PollSCM struct {
	Name Name
}

// URLPath implements Path.
func (p PollSCM) URLPath() string {
	return "/job/" + p.Name.Segment() + "/polling"
}

// ViewPath addresses a view.
type ViewPath struct {
	Name Name
}

// URLPath implements Path.
func (p ViewPath) URLPath() string {
	return "/view/" + p.Name.Segment()
}

// AddJobToView addresses the action adding a job to a view. The job name
// travels as a query parameter.
type AddJobToView struct {
	Job  Name
	View Name
}

// URLPath implements Path.
func (p AddJobToView) URLPath() string {
	return "/view/" + p.View.Segment() + "/addJobToView?name=" + url.QueryEscape(p.Job.String())
}

// RemoveJobFromView addresses the action removing a job from a view.
type RemoveJobFromView struct {
	Job  Name
	View Name
}

// URLPath implements Path.
func (p RemoveJobFromView) URLPath() string {
	return "/view/" + p.View.Segment() + "/removeJobFromView?name=" + url.QueryEscape(p.Job.String())
}

// BuildPath addresses a build of a job.
type BuildPath struct {
	Job      JobPath
	Selector BuildSelector
}

// URLPath implements Path.
func (p BuildPath) URLPath() string {
	return p.Job.URLPath() + "/" + p.Selector.Segment()
}

// ConsoleText addresses the console output of a build.
type ConsoleText struct {
	Job      JobPath
	Selector BuildSelector
}

// URLPath implements Path.
func (p ConsoleText) URLPath() string {
	return p.Job.URLPath() + "/" + p.Selector.Segment() + "/consoleText"
}

// QueuePath addresses the build queue.
type QueuePath struct{}

// URLPath implements Path.
func (QueuePath) URLPath() string {
	return "/queue"
}

// QueueItemPath addresses a single item in the build queue.
type QueueItemPath struct {
	ID int64
}

// URLPath implements Path.
func (p QueueItemPath) URLPath() string {
	return "/queue/item/" + strconv.FormatInt(p.ID, 10)
}

// MavenArtifacts addresses the maven artifact record of a build.
type MavenArtifacts struct {
	Job    JobPath
	Number int64
}

// URLPath implements Path.
func (p MavenArtifacts) URLPath() string {
	return p.Job.URLPath() + "/" + strconv.FormatInt(p.Number, 10) + "/mavenArtifacts"
}

// RawPath is the outcome for URLs that match no known template. Callers
// must treat it as a first-class result, never as a best-effort guess.
type RawPath struct {
	Path string
}

// URLPath implements Path.
func (p RawPath) URLPath() string {
	return p.Path
}

// ParsePath classifies a URL, absolute or relative to the given base,
// into exactly one Path variant. URLs pointing to a different host than
// the base, or matching no known template, come back as RawPath.
func ParsePath(rawurl, base string) Path {
	parsed, err := url.Parse(rawurl)

	if err != nil {
		return RawPath{Path: rawurl}
	}

	prefix := ""

	if base != "" {
		if b, err := url.Parse(base); err == nil {
			if parsed.Host != "" && b.Host != "" && parsed.Host != b.Host {
				return RawPath{Path: rawurl}
			}

			prefix = strings.TrimRight(b.EscapedPath(), "/")
		}
	}

	path := parsed.EscapedPath()

	if prefix != "" && strings.HasPrefix(path, prefix) {
		path = path[len(prefix):]
	}

	return classify(splitSegments(path), parsed.Query())
}

// splitSegments breaks a URL path into its segments, dropping empty ones
// and the json api suffix carried by request URLs.
func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))

	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}

	if n := len(segments); n >= 2 && segments[n-2] == "api" && segments[n-1] == "json" {
		segments = segments[:n-2]
	}

	return segments
}

func classify(segments []string, query url.Values) Path {
	if len(segments) == 0 {
		return Home{}
	}

	switch segments[0] {
	case "job":
		return classifyJob(segments)
	case "view":
		return classifyView(segments, query)
	case "queue":
		if len(segments) == 1 {
			return QueuePath{}
		}

		if len(segments) == 3 && segments[1] == "item" {
			if id, err := strconv.ParseInt(segments[2], 10, 64); err == nil {
				return QueueItemPath{ID: id}
			}
		}
	}

	return rawFrom(segments, query)
}

// classifyJob handles everything below job/{name}, including arbitrarily
// nested job chains for folders and matrix configurations.
func classifyJob(segments []string) Path {
	var job *JobPath

	next := 0

	for next+1 < len(segments) && segments[next] == "job" {
		job = &JobPath{Parent: job, Name: SegmentName(segments[next+1])}
		next += 2
	}

	if job == nil {
		return rawFrom(segments, nil)
	}

	rest := segments[next:]

	switch len(rest) {
	case 0:
		return *job
	case 1:
		// Job actions address top-level jobs only, like the server does.
		switch rest[0] {
		case "enable":
			if job.Parent == nil {
				return JobEnable{Name: job.Name}
			}
		case "disable":
			if job.Parent == nil {
				return JobDisable{Name: job.Name}
			}
		case "build":
			if job.Parent == nil {
				return BuildJob{Name: job.Name}
			}
		case "polling":
			if job.Parent == nil {
				return PollSCM{Name: job.Name}
			}
		default:
			if selector, ok := parseBuildSelector(rest[0]); ok {
				return BuildPath{Job: *job, Selector: selector}
			}
		}
	case 2:
		// Sub-resources of a build win over the more general build
		// template.
		if rest[1] == "consoleText" {
			if selector, ok := parseBuildSelector(rest[0]); ok {
				return ConsoleText{Job: *job, Selector: selector}
			}
		}

		if rest[1] == "mavenArtifacts" {
			if number, err := strconv.ParseInt(rest[0], 10, 64); err == nil {
				return MavenArtifacts{Job: *job, Number: number}
			}
		}
	}

	return rawFrom(segments, nil)
}

func classifyView(segments []string, query url.Values) Path {
	switch len(segments) {
	case 2:
		return ViewPath{Name: SegmentName(segments[1])}
	case 3:
		job := query.Get("name")

		if job != "" {
			switch segments[2] {
			case "addJobToView":
				return AddJobToView{Job: NameOf(job), View: SegmentName(segments[1])}
			case "removeJobFromView":
				return RemoveJobFromView{Job: NameOf(job), View: SegmentName(segments[1])}
			}
		}
	}

	return rawFrom(segments, query)
}

func rawFrom(segments []string, query url.Values) Path {
	path := "/" + strings.Join(segments, "/")

	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	return RawPath{Path: path}
}
