package gallery

// Host describes the environment the gallery runs in.
type Host interface {
	// IsNative reports whether the host can render stored files directly
	// from their storage URI after conversion.
	IsNative() bool

	// ConvertFileSrc turns a storage URI into a URI the view layer can load.
	ConvertFileSrc(uri string) string
}
