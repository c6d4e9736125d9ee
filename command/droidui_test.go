package command_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/frantjc/droidui"
	"github.com/frantjc/droidui/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const app = "../testdata/app"

func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()

	var (
		out = new(bytes.Buffer)
		cmd = command.NewDroidUI()
	)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.Bytes(), err
}

func TestModel(t *testing.T) {
	out, err := run(t, "model", app)
	require.NoError(t, err)

	summary := &droidui.Summary{}
	require.NoError(t, yaml.Unmarshal(out, summary))

	assert.Equal(t, "com.example.notes", summary.Package)
	assert.Equal(t, "com.example.notes.MainActivity", summary.MainActivity)
	assert.Equal(t, 2, summary.Layouts)
	assert.NotEmpty(t, summary.Digest)
	assert.Equal(t, "v1.2.0", summary.Version)
	assert.Equal(t, 21, summary.MinSDK)
}

func TestView(t *testing.T) {
	for _, arg := range []string{"title", "0x7f080001"} {
		out, err := run(t, "view", arg, app)
		require.NoError(t, err, arg)

		view := &droidui.View{}
		require.NoError(t, yaml.Unmarshal(out, view))

		assert.Equal(t, "android.widget.TextView", view.Class)
		assert.Equal(t, "title", view.ID)
		assert.Equal(t, "Notes", view.Attrs["text"])
	}

	_, err := run(t, "view", "nope", app)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	out, err := run(t, "resolve", app,
		"--action", "android.intent.action.SEND",
		"--category", "android.intent.category.DEFAULT",
		"--type", "text/plain",
		"--origin", "com.example.other",
	)
	require.NoError(t, err)

	names := []string{}
	require.NoError(t, yaml.Unmarshal(out, &names))
	assert.Equal(t, []string{"com.example.notes.ShareActivity"}, names)

	out, err = run(t, "resolve", app, "--class", "com.example.notes.MainActivity")
	require.NoError(t, err)

	names = []string{}
	require.NoError(t, yaml.Unmarshal(out, &names))
	assert.Equal(t, []string{"com.example.notes.MainActivity"}, names)
}

func TestOverrides(t *testing.T) {
	_, err := run(t, "model", app, "--manifest", "../testdata/missing.xml")
	assert.Error(t, err)
}
