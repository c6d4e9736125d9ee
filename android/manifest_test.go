package android_test

import (
	"context"
	"strings"
	"testing"

	"github.com/frantjc/droidui/android"
	"github.com/frantjc/droidui/classes"
	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/resource"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pkg = "com.example.notes"

func openTestManifest(t *testing.T) *android.Manifest {
	t.Helper()

	var (
		log     = testr.New(t)
		ctx     = logr.NewContext(context.Background(), log)
		catalog = resource.NewCatalog(log)
		known   = classes.NewSet()
	)

	for _, name := range []string{
		"MainActivity", "EditorActivity", "ViewerActivity", "SecondMainActivity",
		"SplitActivity", "StaleActivity", "SyncService", "BootReceiver",
	} {
		known.Add(pkg + "." + name)
	}

	catalog.SetText(resource.TypeInteger, resource.NamespaceApp, "editor_launch_mode", "2")

	m, err := android.OpenManifest(ctx, "testdata/"+android.AndroidManifestName,
		android.WithResolver(resource.NewResolver(log, catalog)),
		android.WithClasses(known),
		android.WithExclusions(pkg+".StaleActivity"),
	)
	require.NoError(t, err)

	return m
}

func names(components []*android.Component) []string {
	s := []string{}
	for _, c := range components {
		s = append(s, c.Name)
	}

	return s
}

func TestParseManifest(t *testing.T) {
	m := openTestManifest(t)

	assert.Equal(t, pkg, m.Package)
	assert.Equal(t, []string{"android.permission.INTERNET", "android.permission.CAMERA"}, m.Permissions)

	assert.Equal(t, []string{
		pkg + ".MainActivity",
		pkg + ".EditorActivity",
		pkg + ".ViewerActivity",
		pkg + ".SecondMainActivity",
		pkg + ".SplitActivity",
		pkg + ".ShareAlias",
	}, names(m.Activities()))
	assert.Equal(t, []string{pkg + ".SyncService"}, names(m.Services()))
	assert.Equal(t, []string{pkg + ".BootReceiver"}, names(m.Receivers()))

	_, ok := m.Component(pkg + ".StaleActivity")
	assert.False(t, ok, "excluded component is declared")

	_, ok = m.Component(pkg + ".GhostActivity")
	assert.False(t, ok, "phantom component is declared")

	_, ok = m.Component(pkg + ".NotesProvider")
	assert.False(t, ok, "provider is declared")

	sync, ok := m.Component(pkg + ".SyncService")
	require.True(t, ok)
	assert.False(t, sync.Enabled)

	alias, ok := m.Component(pkg + ".ShareAlias")
	require.True(t, ok)
	assert.Equal(t, pkg+".EditorActivity", alias.Target)
	assert.True(t, alias.IsExported())
	require.Len(t, alias.Filters, 1)
	assert.Equal(t, []string{"android.intent.action.SEND"}, alias.Filters[0].Actions)
	assert.NotEqual(t, m.Filters(pkg+".EditorActivity"), m.Filters(alias.Name))
}

func TestLauncherAlias(t *testing.T) {
	m, err := android.ParseManifest(context.Background(), strings.NewReader(`<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.alias">
	<application>
		<activity android:name=".HomeActivity" />
		<activity-alias android:name=".Launcher" android:targetActivity=".HomeActivity">
			<intent-filter>
				<action android:name="android.intent.action.MAIN" />
				<category android:name="android.intent.category.LAUNCHER" />
			</intent-filter>
		</activity-alias>
	</application>
</manifest>`))
	require.NoError(t, err)

	main, ok := m.MainActivity()
	require.True(t, ok)
	assert.Equal(t, "com.example.alias.Launcher", main.Name)
	assert.Equal(t, "com.example.alias.HomeActivity", main.Target)
	assert.Empty(t, m.Filters("com.example.alias.HomeActivity"))
}

func TestMainActivity(t *testing.T) {
	m := openTestManifest(t)

	main, ok := m.MainActivity()
	require.True(t, ok)
	assert.Equal(t, pkg+".MainActivity", main.Name)

	f, ok := m.LauncherFilter()
	require.True(t, ok)
	assert.Same(t, m.Filters(pkg + ".MainActivity")[0], f)

	_, holder, ok := m.Registry.LauncherFilter()
	require.True(t, ok)
	assert.Equal(t, pkg+".MainActivity", holder)
}

func TestMainActivityRequiresSingleFilter(t *testing.T) {
	m, err := android.ParseManifest(context.Background(), strings.NewReader(`<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.split">
	<application>
		<activity android:name=".SplitActivity">
			<intent-filter><action android:name="android.intent.action.MAIN" /></intent-filter>
			<intent-filter><category android:name="android.intent.category.LAUNCHER" /></intent-filter>
		</activity>
	</application>
</manifest>`))
	require.NoError(t, err)

	_, ok := m.MainActivity()
	assert.False(t, ok)

	_, ok = m.LauncherFilter()
	assert.False(t, ok)
}

func TestLaunchMode(t *testing.T) {
	m := openTestManifest(t)

	for name, expected := range map[string]android.LaunchMode{
		"MainActivity":       android.LaunchModeSingleTop,
		"EditorActivity":     android.LaunchModeSingleTask,
		"ViewerActivity":     android.LaunchModeStandard,
		"SecondMainActivity": android.LaunchModeStandard,
	} {
		mode, ok := m.LaunchMode(pkg + "." + name)
		assert.True(t, ok, name)
		assert.Equal(t, expected, mode, name)
	}

	_, ok := m.LaunchMode(pkg + ".SyncService")
	assert.False(t, ok)

	assert.Equal(t, "singleInstance", android.LaunchModeSingleInstance.String())
}

func TestManifestFilters(t *testing.T) {
	m := openTestManifest(t)

	viewer := m.Filters(pkg + ".ViewerActivity")
	require.Len(t, viewer, 1)
	assert.Equal(t, []string{"android.intent.action.VIEW"}, viewer[0].Actions)
	assert.Equal(t, []string{android.CategoryDefault, "android.intent.category.BROWSABLE"}, viewer[0].Categories)
	require.Len(t, viewer[0].Data, 1)
	assert.Equal(t, android.DataSpec{
		Scheme:     "https",
		Host:       "notes.example.com",
		PathPrefix: "/n/",
	}, viewer[0].Data[0])

	assert.Len(t, m.Filters(pkg+".SplitActivity"), 2)
	assert.Empty(t, m.Filters(pkg+".SyncService"))
}

func TestParseManifestInvariants(t *testing.T) {
	for name, doc := range map[string]string{
		"not xml":    "manifest",
		"wrong root": `<application package="com.example" />`,
		"no package": `<manifest><application /></manifest>`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := android.ParseManifest(context.Background(), strings.NewReader(doc))
			require.Error(t, err)
			assert.Equal(t, droiderr.Invariant, droiderr.KindOf(err))
		})
	}

	_, err := android.OpenManifest(context.Background(), "testdata/missing.xml")
	require.Error(t, err)
	assert.True(t, droiderr.IsFatal(err))
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "com.example.Main", android.Qualify("com.example", ".Main"))
	assert.Equal(t, "com.example.Main", android.Qualify("com.example", "Main"))
	assert.Equal(t, "org.other.Main", android.Qualify("com.example", "org.other.Main"))
}
