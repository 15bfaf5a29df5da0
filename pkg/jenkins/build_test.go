package jenkins

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matrixBuildFixture = `{
	"_class": "hudson.matrix.MatrixBuild",
	"number": 5,
	"url": "http://jenkins.example.com/job/matrix/5/",
	"displayName": "#5",
	"building": false,
	"result": "UNSTABLE",
	"timestamp": 1483951469436,
	"duration": 3161,
	"estimatedDuration": 2846,
	"queueId": 74,
	"builtOn": "",
	"actions": [
		{
			"_class": "hudson.model.CauseAction",
			"causes": [
				{
					"_class": "hudson.model.Cause$UserIdCause",
					"shortDescription": "Started by user admin",
					"userId": "admin",
					"userName": "admin"
				}
			]
		},
		{}
	],
	"runs": [
		{
			"_class": "hudson.matrix.MatrixRun",
			"number": 5,
			"url": "http://jenkins.example.com/job/matrix/label=linux/5/"
		}
	]
}`

func TestBuildDecodeMatrix(t *testing.T) {
	build := &Build{}
	require.NoError(t, json.Unmarshal([]byte(matrixBuildFixture), build))

	assert.Equal(t, "hudson.matrix.MatrixBuild", build.Class())

	variant, ok := build.Variant()
	require.True(t, ok)

	matrix, ok := variant.(*MatrixBuild)
	require.True(t, ok)
	require.Len(t, matrix.Runs, 1)

	number, err := build.Number()
	require.NoError(t, err)
	assert.Equal(t, int64(5), number)

	result, err := build.Result()
	require.NoError(t, err)
	assert.Equal(t, StatusUnstable, result)

	building, err := build.Building()
	require.NoError(t, err)
	assert.False(t, building)

	duration, err := build.Duration()
	require.NoError(t, err)
	assert.Equal(t, int64(3161), duration)

	queueID, err := build.QueueID()
	require.NoError(t, err)
	assert.Equal(t, int64(74), queueID)

	actions, err := build.Actions()
	require.NoError(t, err)
	require.Len(t, actions, 2)
	require.Len(t, actions[0].Causes, 1)
	assert.Equal(t, "admin", actions[0].Causes[0].UserID)
}

func TestBuildDecodeRunningBuild(t *testing.T) {
	payload := `{
		"_class": "org.jenkinsci.plugins.workflow.job.WorkflowRun",
		"number": 3,
		"building": true,
		"result": null
	}`

	build := &Build{}
	require.NoError(t, json.Unmarshal([]byte(payload), build))

	building, err := build.Building()
	require.NoError(t, err)
	assert.True(t, building)

	result, err := build.Result()
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestBuildDecodeUnknownClass(t *testing.T) {
	payload := `{"_class": "some.other.RunImpl", "number": 9}`

	build := &Build{}
	require.NoError(t, json.Unmarshal([]byte(payload), build))

	_, err := build.Number()

	var unsupported *UnsupportedVariantError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, ExpectBuild, unsupported.Object)
	assert.Equal(t, "some.other.RunImpl", unsupported.Variant)
}

func TestBuildDecodeMavenArtifactsLink(t *testing.T) {
	payload := `{
		"_class": "hudson.maven.MavenBuild",
		"number": 1,
		"mavenArtifacts": {
			"_class": "hudson.maven.reporters.MavenArtifactRecord",
			"url": "http://jenkins.example.com/job/mvn/1/mavenArtifacts/"
		}
	}`

	build := &Build{}
	require.NoError(t, json.Unmarshal([]byte(payload), build))

	variant, ok := build.Variant()
	require.True(t, ok)

	maven, ok := variant.(*MavenBuild)
	require.True(t, ok)
	require.NotNil(t, maven.MavenArtifactsRecord)
	assert.Equal(t, "http://jenkins.example.com/job/mvn/1/mavenArtifacts/", maven.MavenArtifactsRecord.URL)
}
