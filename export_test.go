package dircap

// DisableNative plants a resolver on r that believes the native beneath-root
// primitive is missing, forcing every resolution through the user-space
// walker. The package-level resolver is left untouched so other Root values
// keep their backend selection.
func DisableNative(r *Root) {
	res := new(resolver)
	res.nativeUnsupported.Store(true)
	r.res = res
}
