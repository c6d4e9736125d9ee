package layout_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frantjc/droidui/classes"
	"github.com/frantjc/droidui/internal/droiderr"
	"github.com/frantjc/droidui/layout"
	"github.com/frantjc/droidui/resource"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ns = `xmlns:android="http://schemas.android.com/apk/res/android"`

var appFiles = map[string]string{
	"layout/main.xml": `<LinearLayout ` + ns + `
    android:layout_width="match_parent" android:layout_height="wrap_content">
    <!-- header -->
    <TextView android:id="@+id/title" android:text="@string/app_name" android:hint="'Type here'"/>
    <requestFocus/>
    <include layout="@layout/row"/>
    <include layout="@layout/row" android:id="@+id/second" android:layout_width="10dp"/>
    <com.example.Fancy android:id="@android:id/list"/>
</LinearLayout>`,
	"layout/row.xml": `<merge ` + ns + `>
    <Button android:id="@+id/ok" android:text="OK" android:onClick="onOk"/>
</merge>`,
	"layout/outer.xml": `<FrameLayout ` + ns + `>
    <include layout="@layout/footer"/>
    <include layout="@layout/simple"/>
    <include layout="@android:layout/simple"/>
    <include layout="@layout/nowhere"/>
</FrameLayout>`,
	"layout-land/footer.xml": `<TextView ` + ns + ` android:id="@+id/footer_text" android:text="@color/accent"/>`,
	"layout/cyc_a.xml": `<FrameLayout ` + ns + `><include layout="@layout/cyc_b"/></FrameLayout>`,
	"layout/cyc_b.xml": `<FrameLayout ` + ns + `><include layout="@layout/cyc_a"/></FrameLayout>`,
	"layout/broken.xml": `<FrameLayout ` + ns + `><TextView></FrameLayout>`,
	"menu/options.xml": `<menu ` + ns + `>
    <item android:id="@+id/settings" android:title="@string/settings"/>
    <group><item android:id="@+id/about" android:title="About"/></group>
</menu>`,
	"values/strings.xml": `<resources><string name="app_name">Example</string><string name="settings">Settings</string></resources>`,
	"values/colors.xml":  `<resources><color name="accent">@android:color/holo</color></resources>`,
}

var platformFiles = map[string]string{
	"layout/simple.xml": `<TextView ` + ns + ` android:id="@android:id/text1" android:textColor="?android:attr/textColorPrimary"/>`,
	"values/colors.xml": `<resources><color name="holo">#33b5e5</color></resources>`,
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newBuilder(t *testing.T) *layout.Builder {
	t.Helper()

	var (
		log      = testr.New(t)
		c        = resource.NewCatalog(log)
		appDir   = t.TempDir()
		platDir  = t.TempDir()
		registry = classes.WithPlatform(classes.NewSet())
	)

	writeFiles(t, appDir, appFiles)
	writeFiles(t, platDir, platformFiles)

	for name, value := range map[string]int{
		"main": 0x7f0c0001, "row": 0x7f0c0002, "outer": 0x7f0c0003,
		"cyc_a": 0x7f0c0004, "cyc_b": 0x7f0c0005, "broken": 0x7f0c0006,
	} {
		c.Register(resource.TypeLayout, resource.NamespaceApp, name, value)
	}
	c.Register(resource.TypeMenu, resource.NamespaceApp, "options", 0x7f0d0001)
	c.Register(resource.TypeID, resource.NamespaceApp, "title", 0x7f0a0001)
	c.Register(resource.TypeID, resource.NamespaceApp, "ok", 0x7f0a0002)
	c.Register(resource.TypeLayout, resource.NamespacePlatform, "simple", 0x01090003)
	c.Register(resource.TypeID, resource.NamespacePlatform, "list", 0x0102000a)
	c.Register(resource.TypeID, resource.NamespacePlatform, "text1", 0x01020014)
	c.Register(resource.TypeAttr, resource.NamespacePlatform, "textColorPrimary", 0x01010036)

	require.NoError(t, resource.LoadValues(log, c, resource.NamespaceApp, appDir))
	require.NoError(t, resource.LoadValues(log, c, resource.NamespacePlatform, platDir))

	return layout.NewBuilder(c, registry,
		layout.WithLogger(log),
		layout.WithRoots(resource.NamespaceApp, appDir),
		layout.WithRoots(resource.NamespacePlatform, platDir),
	)
}

func root(t *testing.T, b *layout.Builder, ns resource.Namespace, name string) layout.NodeID {
	t.Helper()

	id, ok := b.Forest(ns, resource.TypeLayout).RootByName(name)
	require.True(t, ok, name)
	return id
}

func reachableIncludes(b *layout.Builder, root layout.NodeID) int {
	n := 0
	b.Arena.Walk(root, func(_ layout.NodeID, node *layout.Node) bool {
		if node.Kind == layout.KindInclude {
			n++
		}
		return true
	})
	return n
}

func TestParseDocument(t *testing.T) {
	b := newBuilder(t)

	id, err := b.ParseDocument(filepath.Join(t.TempDir(), "missing.xml"), resource.NamespaceApp)
	assert.Error(t, err)
	assert.Equal(t, layout.NoNode, id)

	b.LoadForest(resource.NamespaceApp, resource.TypeLayout)
	main := b.Arena.Node(root(t, b, resource.NamespaceApp, "main"))

	assert.Equal(t, "android.widget.LinearLayout", main.Class.Name())
	assert.Equal(t, "match_parent", main.Attrs[layout.AttrLayoutWidth])
	require.Len(t, main.Children, 4)

	title := b.Arena.Node(main.Children[0])
	assert.Equal(t, 0x7f0a0001, title.ID)
	assert.Equal(t, "title", title.IDName)
	assert.Equal(t, "Example", title.Attrs[layout.AttrText])
	assert.Equal(t, "Type here", title.Hint())
	assert.False(t, title.Class.Phantom())

	for _, i := range []int{1, 2} {
		inc := b.Arena.Node(main.Children[i])
		assert.Equal(t, layout.KindInclude, inc.Kind)
		assert.Equal(t, "row", inc.Include.Layout)
		assert.Equal(t, 0x7f0c0002, inc.Include.LayoutID)
		assert.Empty(t, inc.Children)
	}

	second, ok := b.Catalog.LookupValue(resource.TypeID, resource.NamespaceDynamic, "second")
	require.True(t, ok)
	assert.Equal(t, second, b.Arena.Node(main.Children[2]).Include.IDOverride)

	fancy := b.Arena.Node(main.Children[3])
	assert.True(t, fancy.Class.Phantom())
	assert.Equal(t, 0x0102000a, fancy.ID)

	_, ok = b.Forest(resource.NamespaceApp, resource.TypeLayout).RootByName("broken")
	assert.False(t, ok)
}

func TestParseIDForms(t *testing.T) {
	b := newBuilder(t)
	b.Catalog.Register(resource.TypeAttr, resource.NamespacePlatform, "listPreferredItemHeight", 0x0101004d)

	for _, tc := range []struct {
		id       string
		expected int
		name     string
	}{
		{"@android:id/list", 0x0102000a, "list"},
		{"@*android:id/list", 0x0102000a, "list"},
		{"@+android:id/list", 0x0102000a, "list"},
		{"@id/android:list", 0x0102000a, "list"},
		{"@+id/android:list", 0x0102000a, "list"},
		{"?android:attr/textColorPrimary", 0x01010036, "textColorPrimary"},
		{"@android:attr/listPreferredItemHeight", 0x0101004d, "listPreferredItemHeight"},
		{"@*android:layout/simple", 0x01090003, "simple"},
		{"@layout/row", 0x7f0c0002, "row"},
		{"@+id/title", 0x7f0a0001, "title"},
		{"@id/title", 0x7f0a0001, "title"},
		{"title", 0x7f0a0001, "title"},
		{"@null", 0, ""},
		{"@android:id/missing", 0, ""},
		{"@layout/missing", 0, ""},
	} {
		t.Run(tc.id, func(t *testing.T) {
			id, err := b.Parse(strings.NewReader(`<TextView `+ns+` android:id="`+tc.id+`"/>`), "ids.xml", resource.NamespaceApp)
			require.NoError(t, err)

			n := b.Arena.Node(id)
			assert.Equal(t, tc.expected, n.ID)
			assert.Equal(t, tc.name, n.IDName)
		})
	}
}

func TestParseIncludeAtRoot(t *testing.T) {
	b := newBuilder(t)

	id, err := b.Parse(strings.NewReader(`<include `+ns+` layout="@layout/row"/>`), "rooted.xml", resource.NamespaceApp)
	assert.Equal(t, layout.NoNode, id)
	require.Error(t, err)
	assert.Equal(t, droiderr.Malformed, droiderr.KindOf(err))
	assert.Zero(t, b.Arena.Len())
}

func TestParseHintAndViewTag(t *testing.T) {
	b := newBuilder(t)

	id, err := b.Parse(strings.NewReader(`<LinearLayout `+ns+`>
    <EditText android:hint="Name" android:autofillHints="name"/>
    <EditText android:autofillHints="emailAddress"/>
    <EditText android:hint="@string/app_name"/>
    <view><TextView android:text="hidden"/></view>
    <view class="android.widget.TextView" android:text="shown"/>
</LinearLayout>`), "form.xml", resource.NamespaceApp)
	require.NoError(t, err)

	form := b.Arena.Node(id)
	require.Len(t, form.Children, 4)

	assert.Equal(t, "Name"+layout.HintSeparator+"name", b.Arena.Node(form.Children[0]).Hint())
	assert.Equal(t, "emailAddress", b.Arena.Node(form.Children[1]).Hint())
	assert.Equal(t, "Example", b.Arena.Node(form.Children[2]).Hint())

	shown := b.Arena.Node(form.Children[3])
	assert.Equal(t, "android.widget.TextView", shown.Class.Name())
	assert.Equal(t, "shown", shown.Attrs[layout.AttrText])
}

func TestParseMenu(t *testing.T) {
	b := newBuilder(t)
	b.Load()

	f := b.Forest(resource.NamespaceApp, resource.TypeMenu)
	rootID, ok := f.Root(0x7f0d0001)
	require.True(t, ok)

	menu := b.Arena.Node(rootID)
	assert.Equal(t, "android.view.Menu", menu.Class.Name())
	require.Len(t, menu.Children, 2)

	settings := b.Arena.Node(menu.Children[0])
	assert.Equal(t, "android.view.MenuItem", settings.Class.Name())
	assert.Equal(t, "Settings", settings.Attrs[layout.AttrTitle])

	about, ok := b.Catalog.LookupValue(resource.TypeID, resource.NamespaceDynamic, "about")
	require.True(t, ok)

	aboutID, ok := b.FindViewByID(about)
	require.True(t, ok)
	assert.Equal(t, "About", b.Arena.Node(aboutID).Attrs[layout.AttrTitle])
}

func TestExpandIncludesDeepCopy(t *testing.T) {
	b := newBuilder(t)
	b.Load()

	var (
		rowRoot = root(t, b, resource.NamespaceApp, "row")
		main    = b.Arena.Node(root(t, b, resource.NamespaceApp, "main"))
	)
	require.Len(t, main.Children, 4)

	first, second := main.Children[1], main.Children[2]
	assert.NotEqual(t, rowRoot, first)
	assert.NotEqual(t, rowRoot, second)
	assert.NotEqual(t, first, second)

	for _, id := range []layout.NodeID{first, second} {
		n := b.Arena.Node(id)
		assert.Equal(t, layout.KindView, n.Kind)
		assert.Equal(t, "merge", n.Tag)
		assert.Equal(t, "android.view.ViewGroup", n.Class.Name())
		require.Len(t, n.Children, 1)
		assert.Equal(t, id, b.Arena.Node(n.Children[0]).Parent)
	}

	secondID, _ := b.Catalog.LookupValue(resource.TypeID, resource.NamespaceDynamic, "second")
	assert.Equal(t, 0, b.Arena.Node(first).ID)
	assert.Equal(t, secondID, b.Arena.Node(second).ID)
	assert.Equal(t, "10dp", b.Arena.Node(second).Attrs[layout.AttrLayoutWidth])
	assert.Equal(t, 0, b.Arena.Node(rowRoot).ID)

	button := b.Arena.Node(b.Arena.Node(first).Children[0])
	button.Attrs[layout.AttrText] = "Changed"
	button.Children = append(button.Children, layout.NoNode)

	for _, id := range []layout.NodeID{rowRoot, second} {
		other := b.Arena.Node(b.Arena.Node(id).Children[0])
		assert.Equal(t, "OK", other.Attrs[layout.AttrText])
		assert.Equal(t, "onOk", other.Attrs[layout.AttrOnClick])
		assert.Empty(t, other.Children)
	}
}

func TestExpandIncludesIdempotent(t *testing.T) {
	b := newBuilder(t)
	b.Load()

	f := b.Forest(resource.NamespaceApp, resource.TypeLayout)
	for _, id := range f.IDs() {
		r, _ := f.Root(id)
		assert.Zero(t, reachableIncludes(b, r))
	}

	n := b.Arena.Len()
	b.ExpandIncludes(f)
	assert.Equal(t, n, b.Arena.Len())
}

func TestExpandIncludesTargets(t *testing.T) {
	b := newBuilder(t)
	b.Load()

	outer := b.Arena.Node(root(t, b, resource.NamespaceApp, "outer"))
	require.Len(t, outer.Children, 3)

	footer := b.Arena.Node(outer.Children[0])
	assert.True(t, strings.HasSuffix(footer.Origin, filepath.Join("layout-land", "footer.xml")))
	assert.Equal(t, "#33b5e5", footer.Attrs[layout.AttrTextColor])

	f := b.Forest(resource.NamespaceApp, resource.TypeLayout)
	discovered, ok := f.Root(-1)
	require.True(t, ok)
	assert.NotEqual(t, discovered, outer.Children[0])
	byName, ok := f.RootByName("footer")
	require.True(t, ok)
	assert.Equal(t, discovered, byName)

	simple := root(t, b, resource.NamespacePlatform, "simple")
	for _, id := range outer.Children[1:] {
		n := b.Arena.Node(id)
		assert.NotEqual(t, simple, id)
		assert.Equal(t, 0x01020014, n.ID)
		assert.Equal(t, b.Arena.Node(simple).Origin, n.Origin)
	}
}

func TestExpandIncludesCycle(t *testing.T) {
	b := newBuilder(t)
	b.Load()

	for _, name := range []string{"cyc_a", "cyc_b"} {
		var (
			r     = root(t, b, resource.NamespaceApp, name)
			nodes = 0
		)
		assert.Zero(t, reachableIncludes(b, r))

		b.Arena.Walk(r, func(_ layout.NodeID, n *layout.Node) bool {
			nodes++
			return true
		})
		assert.LessOrEqual(t, nodes, 3)
	}

	a := b.Arena.Node(root(t, b, resource.NamespaceApp, "cyc_a"))
	require.Len(t, a.Children, 1)
	assert.Empty(t, b.Arena.Node(a.Children[0]).Children)
}

func TestFindViewByID(t *testing.T) {
	b := newBuilder(t)
	b.Load()

	id, ok := b.FindViewByID(0x7f0a0002)
	require.True(t, ok)
	assert.Equal(t, "OK", b.Arena.Node(id).Attrs[layout.AttrText])

	id, ok = b.FindViewByID(0x01020014)
	require.True(t, ok)
	assert.Equal(t, "TextView", b.Arena.Node(id).Tag)

	footer, ok := b.Catalog.LookupValue(resource.TypeID, resource.NamespaceDynamic, "footer_text")
	require.True(t, ok)
	_, ok = b.FindViewByID(footer)
	assert.True(t, ok)

	_, ok = b.FindViewByID(0x7f0affff)
	assert.False(t, ok)
}
