package jenkins

import (
	"encoding/json"
)

// SCMVariant is one of the known source control configurations.
type SCMVariant interface {
	scmVariant()
}

// NullSCM is the configuration of a job without source control.
type NullSCM struct {
	Browser *Browser `json:"browser"`
}

func (*NullSCM) scmVariant() {}

// MergeOptions configure how a git job merges before building.
type MergeOptions struct {
	MergeStrategy    string `json:"mergeStrategy"`
	FastForwardMode  string `json:"fastForwardMode"`
	MergeTarget      string `json:"mergeTarget"`
	RemoteBranchName string `json:"remoteBranchName"`
}

// GitSCM is a git source control configuration.
type GitSCM struct {
	Browser      *Browser      `json:"browser"`
	MergeOptions *MergeOptions `json:"mergeOptions"`
}

func (*GitSCM) scmVariant() {}

var scmClasses = map[string]func() SCMVariant{
	"hudson.scm.NullSCM":        func() SCMVariant { return &NullSCM{} },
	"hudson.plugins.git.GitSCM": func() SCMVariant { return &GitSCM{} },
}

// SCM is the decoded source control configuration of a job. Unrecognized
// classes keep their discriminator and raw payload.
type SCM struct {
	variant SCMVariant
	class   string
	raw     json.RawMessage
}

// UnmarshalJSON decodes the configuration by its class discriminator.
func (s *SCM) UnmarshalJSON(data []byte) error {
	class := classOf(data)

	if build, ok := scmClasses[class]; ok {
		variant := build()

		if err := json.Unmarshal(data, variant); err != nil {
			return err
		}

		s.variant = variant
		s.class = class
		s.raw = nil
		return nil
	}

	s.variant = nil
	s.class = class
	s.raw = append([]byte(nil), data...)
	return nil
}

// Class returns the class discriminator reported by the controller.
func (s *SCM) Class() string {
	return s.class
}

// Variant returns the known configuration shape, or false when the class
// was not recognized.
func (s *SCM) Variant() (SCMVariant, bool) {
	return s.variant, s.variant != nil
}

// Raw returns the untouched payload of an unknown configuration.
func (s *SCM) Raw() json.RawMessage {
	return s.raw
}

// BrowserVariant is one of the known repository browsers.
type BrowserVariant interface {
	browserVariant()
}

// GithubWeb links changes to their GitHub pages.
type GithubWeb struct {
	URL string `json:"url"`
}

func (*GithubWeb) browserVariant() {}

var browserClasses = map[string]func() BrowserVariant{
	"hudson.plugins.git.browser.GithubWeb": func() BrowserVariant { return &GithubWeb{} },
}

// Browser is the decoded repository browser of a source control
// configuration.
type Browser struct {
	variant BrowserVariant
	class   string
	raw     json.RawMessage
}

// UnmarshalJSON decodes the browser by its class discriminator.
func (b *Browser) UnmarshalJSON(data []byte) error {
	class := classOf(data)

	if build, ok := browserClasses[class]; ok {
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
func (b *Browser) Class() string {
	return b.class
}

// Variant returns the known browser shape, or false when the class was
// not recognized.
func (b *Browser) Variant() (BrowserVariant, bool) {
	return b.variant, b.variant != nil
}

// Raw returns the untouched payload of an unknown browser.
func (b *Browser) Raw() json.RawMessage {
	return b.raw
}

// PropertyVariant is one of the known job properties.
type PropertyVariant interface {
	propertyVariant()
}

// GithubProjectProperty links a job to its GitHub project.
type GithubProjectProperty struct {
	ProjectURL string `json:"projectUrl"`
}

func (*GithubProjectProperty) propertyVariant() {}

// RateLimitBranchProperty throttles how often branches of a job build.
type RateLimitBranchProperty struct{}

func (*RateLimitBranchProperty) propertyVariant() {}

// BuildDiscarderProperty configures how old builds are rotated away.
type BuildDiscarderProperty struct{}

func (*BuildDiscarderProperty) propertyVariant() {}

var propertyClasses = map[string]func() PropertyVariant{
	"com.coravy.hudson.plugins.github.GithubProjectProperty": func() PropertyVariant { return &GithubProjectProperty{} },
	"jenkins.branch.RateLimitBranchProperty$JobPropertyImpl": func() PropertyVariant { return &RateLimitBranchProperty{} },
	"jenkins.model.BuildDiscarderProperty":                   func() PropertyVariant { return &BuildDiscarderProperty{} },
}

// Property is a decoded property of a job.
type Property struct {
	variant PropertyVariant
	class   string
	raw     json.RawMessage
}

// UnmarshalJSON decodes the property by its class discriminator.
func (p *Property) UnmarshalJSON(data []byte) error {
	class := classOf(data)

	if build, ok := propertyClasses[class]; ok {
		variant := build()

		if err := json.Unmarshal(data, variant); err != nil {
			return err
		}

		p.variant = variant
		p.class = class
		p.raw = nil
		return nil
	}

	p.variant = nil
	p.class = class
	p.raw = append([]byte(nil), data...)
	return nil
}

// Class returns the class discriminator reported by the controller.
func (p *Property) Class() string {
	return p.class
}

// Variant returns the known property shape, or false when the class was
// not recognized.
func (p *Property) Variant() (PropertyVariant, bool) {
	return p.variant, p.variant != nil
}

// Raw returns the untouched payload of an unknown property.
func (p *Property) Raw() json.RawMessage {
	return p.raw
}
