package alternative

import (
	"context"
	"io"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abgraph/internal/apperr"
	"abgraph/internal/options"
	"abgraph/internal/ui"
)

type fakeGit struct {
	branches []string
	repoDirs map[string]bool
}

func (f *fakeGit) IsRepository(dir string) bool { return f.repoDirs[dir] }

func (f *fakeGit) Branches(ctx context.Context, dir string) ([]string, error) {
	return f.branches, nil
}

// queueAnswers replaces ui.AskOne with a scripted prompt for the duration
// of the test. Answers are consumed in order.
func queueAnswers(t *testing.T, answers ...interface{}) {
	t.Helper()
	orig := ui.AskOne
	t.Cleanup(func() { ui.AskOne = orig })

	ui.AskOne = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		require.NotEmpty(t, answers, "prompt fired but no scripted answer left")
		answer := answers[0]
		answers = answers[1:]
		if err, ok := answer.(error); ok {
			return err
		}
		switch v := response.(type) {
		case *string:
			*v = answer.(string)
		case *bool:
			*v = answer.(bool)
		default:
			t.Fatalf("unexpected response type %T", response)
		}
		return nil
	}
}

func newBuilder(opts *options.Set, g GitClient) *Builder {
	return &Builder{
		Opts:          opts,
		Git:           g,
		EnsureCommand: func(...string) error { return nil },
		Stdout:        io.Discard,
	}
}

func TestBuildURLsFromOptions(t *testing.T) {
	opts := options.Parse([]string{"--kind=url", "--url1=http://x.test", "--url2=http://y.test/page"})
	alts, err := newBuilder(opts, nil).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, alts, 2)
	assert.Equal(t, KindURL, alts[0].Kind)
	assert.Equal(t, "http://x.test/", alts[0].Name)
	assert.Equal(t, "http://y.test/page", alts[1].Name)
	assert.Equal(t, 0, opts.Len(), "all options consumed")
}

func TestBuildURLsInvalidOption(t *testing.T) {
	opts := options.Parse([]string{"--kind=url", "--url1=not-a-url"})
	_, err := newBuilder(opts, nil).Build(context.Background())
	require.Error(t, err)

	var invalid *apperr.InvalidOptionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "url1", invalid.Option)
}

func TestBuildURLsStopsAtGap(t *testing.T) {
	// url3 without url2 is not contiguous; it stays unconsumed and the
	// leftover check upstream reports it.
	opts := options.Parse([]string{"--kind=url", "--url1=http://x.test", "--url3=http://z.test"})
	alts, err := newBuilder(opts, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, alts, 1)
	assert.Equal(t, []string{"url3"}, opts.Remaining())
}

func TestBuildURLsInteractive(t *testing.T) {
	queueAnswers(t,
		"url - several URLs", // kind menu
		"http://a.test",      // URL #1
		"bogus",              // rejected, reprompts
		"",                   // finishes collection
	)
	opts := options.Parse(nil)
	alts, err := newBuilder(opts, nil).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, alts, 1)
	assert.Equal(t, "http://a.test/", alts[0].Name)
}

func TestBuildBranchesFromOptions(t *testing.T) {
	g := &fakeGit{branches: []string{"a", "b", "c"}, repoDirs: map[string]bool{"/repo": true}}
	opts := options.Parse([]string{
		"--kind=branch", "--dir=/repo", "--url=http://app.test",
		"--composer=n", "--branch1=a", "--branch2=b",
	})

	alts, err := newBuilder(opts, g).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, alts, 2)
	assert.Equal(t, KindBranch, alts[0].Kind)
	assert.Equal(t, "a", alts[0].Branch)
	assert.Equal(t, "b", alts[1].Branch)
	assert.Equal(t, "/repo", alts[0].Dir)
	assert.False(t, alts[0].InstallDeps)
	assert.Same(t, alts[0].Site, alts[1].Site, "branch alternatives share the site")
}

func TestBuildBranchesUnknownBranch(t *testing.T) {
	g := &fakeGit{branches: []string{"a", "b"}, repoDirs: map[string]bool{"/repo": true}}
	opts := options.Parse([]string{
		"--kind=branch", "--dir=/repo", "--url=http://app.test",
		"--composer=n", "--branch1=zzz",
	})

	_, err := newBuilder(opts, g).Build(context.Background())
	require.Error(t, err)

	var invalid *apperr.InvalidOptionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "branch1", invalid.Option)
	assert.Equal(t, "zzz", invalid.Value)
}

func TestBuildBranchesBadDir(t *testing.T) {
	g := &fakeGit{repoDirs: map[string]bool{}}
	opts := options.Parse([]string{"--kind=branch", "--dir=/not-a-repo"})

	_, err := newBuilder(opts, g).Build(context.Background())
	var invalid *apperr.InvalidOptionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "dir", invalid.Option)
}

func TestBuildBranchesComposerCheckedUpFront(t *testing.T) {
	g := &fakeGit{branches: []string{"a"}, repoDirs: map[string]bool{"/repo": true}}
	opts := options.Parse([]string{
		"--kind=branch", "--dir=/repo", "--url=http://app.test",
		"--composer=y", "--branch1=a",
	})

	var ensured [][]string
	b := newBuilder(opts, g)
	b.EnsureCommand = func(names ...string) error {
		ensured = append(ensured, names)
		return nil
	}

	alts, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.True(t, alts[0].InstallDeps)
	assert.Contains(t, ensured, []string{"composer"})
}

func TestBuildBranchesMissingComposer(t *testing.T) {
	g := &fakeGit{branches: []string{"a"}, repoDirs: map[string]bool{"/repo": true}}
	opts := options.Parse([]string{
		"--kind=branch", "--dir=/repo", "--url=http://app.test",
		"--composer=y", "--branch1=a",
	})

	b := newBuilder(opts, g)
	b.EnsureCommand = func(names ...string) error {
		for _, n := range names {
			if n == "composer" {
				return apperr.MissingCommand("composer", "install it")
			}
		}
		return nil
	}

	_, err := b.Build(context.Background())
	var missing *apperr.MissingCommandError
	require.ErrorAs(t, err, &missing)
}

func TestBuildBranchesInteractivePick(t *testing.T) {
	g := &fakeGit{branches: []string{"main", "feature", "old"}, repoDirs: map[string]bool{"/repo": true}}
	opts := options.Parse([]string{"--kind=branch", "--dir=/repo", "--url=http://app.test", "--composer=n"})

	// Pick two branches, then stop.
	queueAnswers(t, "main", "feature", doneChoice)

	alts, err := newBuilder(opts, g).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, alts, 2)
	assert.Equal(t, "main", alts[0].Branch)
	assert.Equal(t, "feature", alts[1].Branch)
}

func TestBranchMenuOmitsPickedBranches(t *testing.T) {
	g := &fakeGit{branches: []string{"main", "feature"}, repoDirs: map[string]bool{"/repo": true}}
	opts := options.Parse([]string{"--kind=branch", "--dir=/repo", "--url=http://app.test", "--composer=n"})

	answers := []string{"main", "feature"}
	var offered [][]string

	orig := ui.AskOne
	t.Cleanup(func() { ui.AskOne = orig })
	ui.AskOne = func(p survey.Prompt, response interface{}, _ ...survey.AskOpt) error {
		sel, ok := p.(*survey.Select)
		require.True(t, ok, "branch picking uses a menu")
		offered = append(offered, sel.Options)
		require.NotEmpty(t, answers)
		*(response.(*string)) = answers[0]
		answers = answers[1:]
		return nil
	}

	alts, err := newBuilder(opts, g).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, alts, 2)

	// First menu offers everything, second no longer offers the pick;
	// once every branch is taken, collection ends without a third menu.
	require.Len(t, offered, 2)
	assert.Equal(t, []string{"main", "feature"}, offered[0])
	assert.Equal(t, []string{doneChoice, "feature"}, offered[1])
}

func TestBuildInvalidKind(t *testing.T) {
	opts := options.Parse([]string{"--kind=both"})
	_, err := newBuilder(opts, nil).Build(context.Background())

	var invalid *apperr.InvalidOptionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "kind", invalid.Option)
}

func TestBuildAbortedInPrompt(t *testing.T) {
	queueAnswers(t, terminal.InterruptErr)
	opts := options.Parse(nil)
	_, err := newBuilder(opts, nil).Build(context.Background())
	assert.ErrorIs(t, err, apperr.ErrAborted)
}

func TestCleanupIsIdempotent(t *testing.T) {
	alt := &Alternative{Name: "x"}
	alt.Cleanup() // no data file, no panic

	alt.DataFile = "/nonexistent/abgraph-test.dat"
	alt.Cleanup()
	assert.Empty(t, alt.DataFile)
	alt.Cleanup()
}
