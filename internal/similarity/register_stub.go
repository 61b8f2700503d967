//go:build !gocv

package similarity

import "image"

// RegistrationAvailable reports whether Register can succeed in this build.
const RegistrationAvailable = false

// Register always fails without the gocv build tag.
func Register(reference, actual image.Image) (*image.NRGBA, bool) {
	return nil, false
}
