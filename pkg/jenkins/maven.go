package jenkins

import (
	"context"
)

// Artifact describes a single maven artifact produced by a build.
type Artifact struct {
	ArtifactID    string `json:"artifactId"`
	CanonicalName string `json:"canonicalName"`
	Classifier    string `json:"classifier"`
	FileName      string `json:"fileName"`
	GroupID       string `json:"groupId"`
	MD5Sum        string `json:"md5sum"`
	ArtifactType  string `json:"type"`
	Version       string `json:"version"`
}

// ShortMavenArtifactRecord is the terse form of the artifact record as
// embedded in maven builds.
type ShortMavenArtifactRecord struct {
	Class string `json:"_class"`
	URL   string `json:"url"`
}

// GetFull fetches the complete artifact record the short form links to.
// The link is checked against the path grammar before any request is
// issued.
func (s ShortMavenArtifactRecord) GetFull(ctx context.Context, c *Client) (MavenArtifactRecord, error) {
	path := c.ParsePath(s.URL)

	record := MavenArtifactRecord{}

	if _, ok := path.(MavenArtifacts); !ok {
		return record, &InvalidURLError{URL: s.URL, Expected: ExpectMavenArtifactRecord}
	}

	if err := c.get(ctx, path, &record); err != nil {
		return record, err
	}

	return record, nil
}

// MavenArtifactRecord lists the artifacts produced by one maven build.
type MavenArtifactRecord struct {
	Class             string     `json:"_class"`
	URL               string     `json:"url"`
	AttachedArtifacts []Artifact `json:"attachedArtifacts"`
	MainArtifact      Artifact   `json:"mainArtifact"`
	Parent            ShortBuild `json:"parent"`
	PomArtifact       Artifact   `json:"pomArtifact"`
}
