package droidregexp

import "regexp"

var (
	// Reference matches resource references such as @string/app_name,
	// @android:id/list, @*android:string/ok and @+id/button.
	// Submatches: private marker, package, create marker, type, name.
	Reference = regexp.MustCompile(`^@(\*)?(?:([\w.]+):)?(\+)?(\w+)/([\w.$]+)$`)
	// LegacyPlatformID matches the older spellings of platform ids:
	// @+android:id/list, @id/android:list and @+id/android:list.
	// Submatches: name in the first form, name in the other two.
	LegacyPlatformID = regexp.MustCompile(`^@\+?(?:android:id/([\w.$]+)|id/android:([\w.$]+))$`)
	// AttrReference matches theme attribute references such as ?android:attr/textColorPrimary.
	// Submatches: package, name.
	AttrReference = regexp.MustCompile(`^\?(?:([\w.]+):)?(?:attr/)?([\w.]+)$`)
	// RTxtLine matches a scalar entry of an aapt R.txt file.
	// Submatches: type, name, value.
	RTxtLine = regexp.MustCompile(`^int\s+(\w+)\s+(\w+)\s+(0x[0-9a-fA-F]+)$`)
	// ValuesShard matches a values document shard such as strings.xml or strings_2.xml.
	ValuesShard = regexp.MustCompile(`^(strings|colors|dimens|integers|bools)([_-]?\w*)\.xml$`)

	APK = regexp.MustCompile(`(?i)^[\w/.-]+\.apk$`)
)
