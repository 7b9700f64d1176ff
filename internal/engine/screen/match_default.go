//go:build !gocv

package screen

// DefaultMatcher returns the pure-Go matcher. Build with -tags gocv to use OpenCV.
func DefaultMatcher() Matcher {
	return NCCMatcher{}
}
