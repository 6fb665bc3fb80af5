package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilicrawl/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return ExitOK
	}
	var ee *ExitError
	require.True(t, errors.As(err, &ee), "expected ExitError, got %v", err)
	return ee.Code
}

func TestRoot_NoSelectorIsUsageError(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
	assert.Equal(t, ExitCLIError, exitCode(t, err))
	assert.Contains(t, err.Error(), "please specify")
}

func TestRoot_TwoSelectors(t *testing.T) {
	_, err := execute(t, "--uid", "1", "--bvid", "BV1xx411c7mD")
	assert.Equal(t, ExitCLIError, exitCode(t, err))
}

func TestRoot_MissingFFmpeg(t *testing.T) {
	_, err := execute(t, "--bvid", "BV1xx411c7mD", "--ffmpeg", filepath.Join(t.TempDir(), "no-ffmpeg"))
	assert.Equal(t, ExitMissingDep, exitCode(t, err))
}

func TestPlan_MissingCredentials(t *testing.T) {
	_, err := execute(t, "plan", "--bvid", "BV1xx411c7mD", "--config", filepath.Join(t.TempDir(), "config.json"))
	assert.Equal(t, ExitConfigError, exitCode(t, err))
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "fish")
	require.NoError(t, err)
	assert.Contains(t, out, "bilicrawl")
}

func TestExitFor(t *testing.T) {
	assert.NoError(t, exitFor(model.CrawlReport{Total: 1, Entries: []model.ReportEntry{{Index: 1, Outcome: model.OutcomeSuccess}}}, "d"))

	err := exitFor(model.CrawlReport{Total: 2, Entries: []model.ReportEntry{{Index: 2, Outcome: model.OutcomeFailure}}}, "d")
	assert.Equal(t, ExitCrawlFailed, exitCode(t, err))

	err = exitFor(model.CrawlReport{Interrupted: true, Remaining: []model.Post{{ID: "BV2"}}}, "d")
	assert.Equal(t, ExitInterrupted, exitCode(t, err))
	assert.Contains(t, err.Error(), filepath.Join("d", "remaining_list.json"))

	err = exitFor(model.CrawlReport{ListingErr: errors.New("page 1: timeout")}, "d")
	assert.Equal(t, ExitCrawlFailed, exitCode(t, err))
	assert.Contains(t, err.Error(), "timeout")

	// an empty creator is not a failure
	assert.NoError(t, exitFor(model.CrawlReport{}, "d"))

	// a partial listing still crawls and exits on the post outcomes
	err = exitFor(model.CrawlReport{Total: 1, ListingErr: errors.New("page 2"), Entries: []model.ReportEntry{{Index: 1, Outcome: model.OutcomeSuccess}}}, "d")
	assert.NoError(t, err)
}
