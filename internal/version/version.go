// Package version identifies the build.
package version

// Number is the release version.
const Number = "0.1.0"

// String returns the full version string for -version output.
func String() string {
	return "ricoh " + Number
}
