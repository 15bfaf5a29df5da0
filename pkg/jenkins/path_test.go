package jenkins

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "http://jenkins.example.com"

func TestParsePathRoundTrip(t *testing.T) {
	paths := []Path{
		Home{},
		JobPath{Name: NameOf("normal job")},
		JobPath{
			Parent: &JobPath{Name: NameOf("folder")},
			Name:   NameOf("child"),
		},
		JobPath{
			Parent: &JobPath{
				Parent: &JobPath{Name: NameOf("outer")},
				Name:   NameOf("inner"),
			},
			Name: NameOf("leaf"),
		},
		JobEnable{Name: NameOf("job1")},
		JobDisable{Name: NameOf("job1")},
		BuildJob{Name: NameOf("job1")},
		PollSCM{Name: NameOf("job1")},
		ViewPath{Name: NameOf("view with space")},
		AddJobToView{Job: NameOf("job1"), View: NameOf("view1")},
		RemoveJobFromView{Job: NameOf("job1"), View: NameOf("view1")},
		BuildPath{Job: JobPath{Name: NameOf("job1")}, Selector: ByNumber(42)},
		BuildPath{Job: JobPath{Name: NameOf("job1")}, Selector: ByAlias(LastSuccessfulBuild)},
		ConsoleText{Job: JobPath{Name: NameOf("job1")}, Selector: ByNumber(7)},
		QueuePath{},
		QueueItemPath{ID: 123},
		MavenArtifacts{Job: JobPath{Name: NameOf("mvn")}, Number: 3},
	}

	for _, path := range paths {
		t.Run(fmt.Sprintf("%T%s", path, path.URLPath()), func(t *testing.T) {
			parsed := ParsePath(testBase+path.URLPath(), testBase)
			assert.Equal(t, path, parsed)
		})
	}
}

func TestParsePathRelative(t *testing.T) {
	parsed := ParsePath("/job/job1/", testBase)
	assert.Equal(t, JobPath{Name: NameOf("job1")}, parsed)
}

func TestParsePathApiSuffix(t *testing.T) {
	parsed := ParsePath(testBase+"/job/job1/api/json", testBase)
	assert.Equal(t, JobPath{Name: NameOf("job1")}, parsed)
}

func TestParsePathForeignHost(t *testing.T) {
	rawurl := "http://other.example.com/job/job1/"
	parsed := ParsePath(rawurl, testBase)

	raw, ok := parsed.(RawPath)
	require.True(t, ok)
	assert.Equal(t, rawurl, raw.Path)
}

func TestParsePathUnknown(t *testing.T) {
	for _, rawurl := range []string{
		testBase + "/computer/master/",
		testBase + "/job/",
		testBase + "/job/job1/unknownAction",
		testBase + "/queue/item/notanumber",
		testBase + "/view/view1/unknownAction",
	} {
		t.Run(rawurl, func(t *testing.T) {
			_, ok := ParsePath(rawurl, testBase).(RawPath)
			assert.True(t, ok)
		})
	}
}

func TestParsePathConsoleTextPrecedence(t *testing.T) {
	parsed := ParsePath(testBase+"/job/job1/42/consoleText", testBase)

	expected := ConsoleText{
		Job:      JobPath{Name: NameOf("job1")},
		Selector: ByNumber(42),
	}

	assert.Equal(t, expected, parsed)
}

func TestParsePathNestedConsoleText(t *testing.T) {
	parsed := ParsePath(testBase+"/job/a/job/b/7/consoleText", testBase)

	expected := ConsoleText{
		Job: JobPath{
			Parent: &JobPath{Name: NameOf("a")},
			Name:   NameOf("b"),
		},
		Selector: ByNumber(7),
	}

	assert.Equal(t, expected, parsed)
}

func TestParsePathNestedActionsStayRaw(t *testing.T) {
	// Enable, disable, build and polling address top-level jobs only.
	for _, rawurl := range []string{
		testBase + "/job/folder/job/child/enable",
		testBase + "/job/folder/job/child/disable",
		testBase + "/job/folder/job/child/build",
		testBase + "/job/folder/job/child/polling",
	} {
		t.Run(rawurl, func(t *testing.T) {
			_, ok := ParsePath(rawurl, testBase).(RawPath)
			assert.True(t, ok)
		})
	}
}

func TestParsePathBasePrefix(t *testing.T) {
	parsed := ParsePath("http://example.com/jenkins/job/job1/", "http://example.com/jenkins")
	assert.Equal(t, JobPath{Name: NameOf("job1")}, parsed)
}

func TestParsePathViewActions(t *testing.T) {
	parsed := ParsePath(testBase+"/view/view1/addJobToView?name=job+one", testBase)
	assert.Equal(t, AddJobToView{Job: NameOf("job one"), View: NameOf("view1")}, parsed)

	parsed = ParsePath(testBase+"/view/view1/removeJobFromView?name=job1", testBase)
	assert.Equal(t, RemoveJobFromView{Job: NameOf("job1"), View: NameOf("view1")}, parsed)
}

func TestNameEncoding(t *testing.T) {
	for display, segment := range map[string]string{
		"simple":        "simple",
		"with space":    "with%20space",
		"a/b":           "a%2Fb",
		"unicode-日本語":   "unicode-%E6%97%A5%E6%9C%AC%E8%AA%9E",
		"percent%20raw": "percent%2520raw",
	} {
		name := NameOf(display)
		assert.Equal(t, segment, name.Segment())
		assert.Equal(t, display, SegmentName(name.Segment()).String())
	}
}

func TestBuildSelectorSegments(t *testing.T) {
	assert.Equal(t, "42", ByNumber(42).Segment())
	assert.Equal(t, "lastBuild", ByAlias(LastBuild).Segment())

	selector, ok := parseBuildSelector("lastCompletedBuild")
	require.True(t, ok)
	assert.Equal(t, ByAlias(LastCompletedBuild), selector)

	_, ok = parseBuildSelector("lastWhatever")
	assert.False(t, ok)

	_, ok = parseBuildSelector("-3")
	assert.False(t, ok)
}
