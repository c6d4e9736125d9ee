package layout

import (
	"strings"

	"github.com/frantjc/droidui/classes"
)

// legacyTags rewrites tags whose name is not a class, or names a class
// that moved, to the class the framework actually inflates.
var legacyTags = map[string]string{
	"merge":    "android.view.ViewGroup",
	"fragment": "android.view.ViewGroup",
	"blink":    "android.widget.FrameLayout",
	"menu":     "android.view.Menu",
	"group":    "android.view.Menu",
	"item":     "android.view.MenuItem",

	"android.support.v4.view.ViewPager":               "androidx.viewpager.widget.ViewPager",
	"android.support.v4.widget.DrawerLayout":          "androidx.drawerlayout.widget.DrawerLayout",
	"android.support.v4.widget.SwipeRefreshLayout":    "androidx.swiperefreshlayout.widget.SwipeRefreshLayout",
	"android.support.v7.widget.RecyclerView":          "androidx.recyclerview.widget.RecyclerView",
	"android.support.v7.widget.CardView":              "androidx.cardview.widget.CardView",
	"android.support.v7.widget.Toolbar":               "androidx.appcompat.widget.Toolbar",
	"android.support.design.widget.CoordinatorLayout": "androidx.coordinatorlayout.widget.CoordinatorLayout",
}

// widgetPackages are tried, in order, for tags without a package.
var widgetPackages = []string{
	"android.widget.",
	"android.view.",
	"android.webkit.",
}

// resolveClass maps an element tag to its class. A <view class="...">
// element names its class through the class attribute.
func resolveClass(registry classes.Registry, tag, classAttr string) classes.Ref {
	name := tag
	if tag == tagView && classAttr != "" {
		name = classAttr
	} else if rewrite, ok := legacyTags[tag]; ok {
		name = rewrite
	}

	if strings.Contains(name, ".") {
		return registry.Resolve(name)
	}

	for _, pkg := range widgetPackages {
		if ref := registry.Resolve(pkg + name); !ref.Phantom() {
			return ref
		}
	}

	return registry.Resolve(widgetPackages[0] + name)
}
