package android_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/frantjc/droidui/android"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPKDecoderDigest(t *testing.T) {
	var (
		name    = filepath.Join(t.TempDir(), "app.apk")
		content = []byte("not really an apk")
	)
	require.NoError(t, os.WriteFile(name, content, 0o600))

	d, err := android.NewAPKDecoder(name).Digest()
	require.NoError(t, err)
	assert.Equal(t, digest.FromBytes(content), d)
}

func TestAPKDecoderWithDir(t *testing.T) {
	var (
		dir = t.TempDir()
		ad  = android.NewAPKDecoder(
			filepath.Join(dir, "app.apk"),
			android.WithDir(dir),
			android.WithAPKTool(filepath.Join(dir, "no-such-apktool")),
		)
	)

	_, err := ad.Dir(context.Background())
	assert.Error(t, err)

	require.NoError(t, ad.Close())

	_, err = os.Stat(dir)
	assert.NoError(t, err)
}
