// Package jenkins provides a typed client for the Jenkins REST API. It
// maps the URL namespace of a controller onto typed paths, decodes the
// class-tagged payloads of the API into closed variant sets, and lets
// callers navigate from the short form of a resource to its full form.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default client configuration values.
const (
	DefaultTimeout = 30 * time.Second
	DefaultDepth   = 1
)

// Client is a typed client for a single Jenkins controller. It holds no
// state besides its configuration and is safe for concurrent use.
type Client struct {
	endpoint string
	username string
	password string
	timeout  time.Duration
	depth    int
	client   *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint sets the base URL of the controller.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithUsername sets the username used for basic auth.
func WithUsername(username string) Option {
	return func(c *Client) {
		c.username = username
	}
}

// WithPassword sets the password or API token used for basic auth.
func WithPassword(password string) Option {
	return func(c *Client) {
		c.password = password
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithDepth sets the depth query parameter sent on resource fetches.
func WithDepth(depth int) Option {
	return func(c *Client) {
		c.depth = depth
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient initializes a new client for the given controller.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		timeout: DefaultTimeout,
		depth:   DefaultDepth,
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.endpoint == "" {
		return nil, fmt.Errorf("jenkins: endpoint is required")
	}

	if _, err := url.Parse(c.endpoint); err != nil {
		return nil, fmt.Errorf("jenkins: invalid endpoint: %w", err)
	}

	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c, nil
}

// Endpoint returns the configured base URL of the controller.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ParsePath classifies a URL against the configured endpoint.
func (c *Client) ParsePath(rawurl string) Path {
	return ParsePath(rawurl, c.endpoint)
}

func (c *Client) newRequest(ctx context.Context, method, rawurl string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawurl, body)

	if err != nil {
		return nil, err
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, http.Header, error) {
	start := time.Now()
	resp, err := c.client.Do(req)

	if err != nil {
		return nil, nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, resp.Header, err
	}

	c.logger.Debug("request finished",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.Header, &StatusError{Code: resp.StatusCode, URL: req.URL.String()}
	}

	return body, resp.Header, nil
}

// resourceURL builds the request URL for the JSON representation of a
// resource path.
func (c *Client) resourceURL(path Path) string {
	p := path.URLPath()

	if p == "/" {
		p = ""
	}

	u := c.endpoint + p + "/api/json"

	if c.depth > 0 {
		u += fmt.Sprintf("?depth=%d", c.depth)
	}

	return u
}

// get fetches the JSON representation of a resource path and decodes it
// into out.
func (c *Client) get(ctx context.Context, path Path, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, c.resourceURL(path), nil)

	if err != nil {
		return err
	}

	body, _, err := c.do(req)

	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}

// getRaw fetches a path without the JSON representation suffix.
func (c *Client) getRaw(ctx context.Context, path Path) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint+path.URLPath(), nil)

	if err != nil {
		return nil, err
	}

	body, _, err := c.do(req)
	return body, err
}

// post issues an action request against a path.
func (c *Client) post(ctx context.Context, path Path) error {
	_, err := c.postRaw(ctx, path)
	return err
}

func (c *Client) postRaw(ctx context.Context, path Path) (http.Header, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.endpoint+path.URLPath(), nil)

	if err != nil {
		return nil, err
	}

	_, header, err := c.do(req)
	return header, err
}

// jobPathFromFullName builds the job path for a full name like
// "folder/job", nesting one level per separator.
func jobPathFromFullName(fullName string) JobPath {
	var job *JobPath

	for _, part := range strings.Split(fullName, "/") {
		if part != "" {
			job = &JobPath{Parent: job, Name: NameOf(part)}
		}
	}

	if job == nil {
		return JobPath{}
	}

	return *job
}

// Root returns the home page of the controller with its views and top
// level jobs.
func (c *Client) Root(ctx context.Context) (Hudson, error) {
	result := Hudson{}

	if err := c.get(ctx, Home{}, &result); err != nil {
		return result, err
	}

	return result, nil
}

// GetJob returns a job by its full name, like "job" or "folder/job".
func (c *Client) GetJob(ctx context.Context, fullName string) (*Job, error) {
	job := &Job{}

	if err := c.get(ctx, jobPathFromFullName(fullName), job); err != nil {
		return nil, err
	}

	return job, nil
}

// GetBuild returns a build of a job selected by number or alias.
func (c *Client) GetBuild(ctx context.Context, fullName string, selector BuildSelector) (*Build, error) {
	build := &Build{}
	path := BuildPath{Job: jobPathFromFullName(fullName), Selector: selector}

	if err := c.get(ctx, path, build); err != nil {
		return nil, err
	}

	return build, nil
}

// GetView returns a view by its name.
func (c *Client) GetView(ctx context.Context, name string) (*View, error) {
	view := &View{}

	if err := c.get(ctx, ViewPath{Name: NameOf(name)}, view); err != nil {
		return nil, err
	}

	return view, nil
}

// GetQueue returns the current build queue.
func (c *Client) GetQueue(ctx context.Context) (Queue, error) {
	result := Queue{}

	if err := c.get(ctx, QueuePath{}, &result); err != nil {
		return result, err
	}

	return result, nil
}

// GetQueueItem returns a single queue item by its id.
func (c *Client) GetQueueItem(ctx context.Context, id int64) (QueueItem, error) {
	result := QueueItem{}

	if err := c.get(ctx, QueueItemPath{ID: id}, &result); err != nil {
		return result, err
	}

	return result, nil
}

// GetMavenArtifacts returns the maven artifact record of a build.
func (c *Client) GetMavenArtifacts(ctx context.Context, fullName string, number int64) (MavenArtifactRecord, error) {
	result := MavenArtifactRecord{}
	path := MavenArtifacts{Job: jobPathFromFullName(fullName), Number: number}

	if err := c.get(ctx, path, &result); err != nil {
		return result, err
	}

	return result, nil
}

// GetConsoleText returns the console output of a build.
func (c *Client) GetConsoleText(ctx context.Context, fullName string, selector BuildSelector) (string, error) {
	path := ConsoleText{Job: jobPathFromFullName(fullName), Selector: selector}
	body, err := c.getRaw(ctx, path)

	if err != nil {
		return "", err
	}

	return string(body), nil
}

// EnableJob enables a top-level job by its name.
func (c *Client) EnableJob(ctx context.Context, name string) error {
	return c.post(ctx, JobEnable{Name: NameOf(name)})
}

// DisableJob disables a top-level job by its name.
func (c *Client) DisableJob(ctx context.Context, name string) error {
	return c.post(ctx, JobDisable{Name: NameOf(name)})
}

// PollSCMJob polls the configured SCM of a job for changes.
func (c *Client) PollSCMJob(ctx context.Context, name string) error {
	return c.post(ctx, PollSCM{Name: NameOf(name)})
}

// AddJobToView adds a job to a view.
func (c *Client) AddJobToView(ctx context.Context, view, job string) error {
	return c.post(ctx, AddJobToView{Job: NameOf(job), View: NameOf(view)})
}

// RemoveJobFromView removes a job from a view.
func (c *Client) RemoveJobFromView(ctx context.Context, view, job string) error {
	return c.post(ctx, RemoveJobFromView{Job: NameOf(job), View: NameOf(view)})
}

// TriggerJob triggers a build of a job without parameters and returns
// the short queue item the controller points at in response.
func (c *Client) TriggerJob(ctx context.Context, name string) (ShortQueueItem, error) {
	item := ShortQueueItem{}
	header, err := c.postRaw(ctx, BuildJob{Name: NameOf(name)})

	if err != nil {
		return item, err
	}

	location := header.Get("Location")
	path, ok := c.ParsePath(location).(QueueItemPath)

	if !ok {
		return item, &InvalidURLError{URL: location, Expected: ExpectQueueItem}
	}

	item.ID = path.ID
	item.URL = location
	return item, nil
}
