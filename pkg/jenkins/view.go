package jenkins

import (
	"context"
	"encoding/json"
)

// ShortView is the terse form of a view as embedded in listings.
type ShortView struct {
	Class string `json:"_class"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// GetFull fetches the complete view the short form links to. The link is
// checked against the path grammar before any request is issued.
func (s ShortView) GetFull(ctx context.Context, c *Client) (*View, error) {
	path := c.ParsePath(s.URL)

	if _, ok := path.(ViewPath); !ok {
		return nil, &InvalidURLError{URL: s.URL, Expected: ExpectView}
	}

	view := &View{}

	if err := c.get(ctx, path, view); err != nil {
		return nil, err
	}

	return view, nil
}

// ViewCommon holds the fields shared by every known view variant.
type ViewCommon struct {
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	Jobs        []ShortJob `json:"jobs"`
}

// ViewVariant is one of the known view shapes.
type ViewVariant interface {
	viewCommon() *ViewCommon
}

// ListView is a view with a hand-picked set of jobs.
type ListView struct {
	ViewCommon
}

func (v *ListView) viewCommon() *ViewCommon {
	return &v.ViewCommon
}

// AllView is the built-in view listing every job of the controller.
type AllView struct {
	ViewCommon
}

func (v *AllView) viewCommon() *ViewCommon {
	return &v.ViewCommon
}

// MyView lists the jobs the current user has access to.
type MyView struct {
	ViewCommon
}

func (v *MyView) viewCommon() *ViewCommon {
	return &v.ViewCommon
}

var viewClasses = map[string]func() ViewVariant{
	"hudson.model.ListView": func() ViewVariant { return &ListView{} },
	"hudson.model.AllView":  func() ViewVariant { return &AllView{} },
	"hudson.model.MyView":   func() ViewVariant { return &MyView{} },
}

// View is a decoded view of any class. Known classes expose their shape
// through Variant; unrecognized classes keep their discriminator and raw
// payload but refuse field access.
type View struct {
	variant ViewVariant
	class   string
	raw     json.RawMessage
}

// UnmarshalJSON decodes a view by its class discriminator. Payloads with
// an unrecognized or missing class decode into the unknown variant.
func (v *View) UnmarshalJSON(data []byte) error {
	class := classOf(data)

	if build, ok := viewClasses[class]; ok {
		variant := build()

		if err := json.Unmarshal(data, variant); err != nil {
			return err
		}

		v.variant = variant
		v.class = class
		v.raw = nil
		return nil
	}

	v.variant = nil
	v.class = class
	v.raw = append([]byte(nil), data...)
	return nil
}

// Class returns the class discriminator reported by the controller.
func (v *View) Class() string {
	return v.class
}

// Variant returns the known view shape, or false when the class was not
// recognized.
func (v *View) Variant() (ViewVariant, bool) {
	return v.variant, v.variant != nil
}

// Raw returns the untouched payload of an unknown view.
func (v *View) Raw() json.RawMessage {
	return v.raw
}

func (v *View) common(action string) (*ViewCommon, error) {
	if v.variant != nil {
		return v.variant.viewCommon(), nil
	}

	return nil, &UnsupportedVariantError{Object: ExpectView, Action: action, Variant: v.class}
}

// Name returns the name of the view.
func (v *View) Name() (string, error) {
	common, err := v.common("name")

	if err != nil {
		return "", err
	}

	return common.Name, nil
}

// URL returns the URL of the view.
func (v *View) URL() (string, error) {
	common, err := v.common("url")

	if err != nil {
		return "", err
	}

	return common.URL, nil
}

// Jobs returns the jobs listed by the view.
func (v *View) Jobs() ([]ShortJob, error) {
	common, err := v.common("jobs")

	if err != nil {
		return nil, err
	}

	return common.Jobs, nil
}

// viewName derives the name of the view from its URL.
func (v *View) viewName(c *Client, action string) (Name, error) {
	common, err := v.common(action)

	if err != nil {
		return Name{}, err
	}

	if view, ok := c.ParsePath(common.URL).(ViewPath); ok {
		return view.Name, nil
	}

	return Name{}, &InvalidURLError{URL: common.URL, Expected: ExpectView}
}

// AddJob adds the named job to the view.
func (v *View) AddJob(ctx context.Context, c *Client, job string) error {
	name, err := v.viewName(c, "addJobToView")

	if err != nil {
		return err
	}

	return c.post(ctx, AddJobToView{Job: NameOf(job), View: name})
}

// RemoveJob removes the named job from the view.
func (v *View) RemoveJob(ctx context.Context, c *Client, job string) error {
	name, err := v.viewName(c, "removeJobFromView")

	if err != nil {
		return err
	}

	return c.post(ctx, RemoveJobFromView{Job: NameOf(job), View: name})
}
