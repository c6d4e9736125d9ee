package droidregexp

func IsReference(s string) bool {
	return Reference.MatchString(s)
}

func IsValuesShard(name string) bool {
	return ValuesShard.MatchString(name)
}

func IsAPK(name string) bool {
	return APK.MatchString(name)
}
