//go:build gocv

package similarity

import (
	"image"
	"log"
	"sort"

	"gocv.io/x/gocv"

	imgutil "github.com/ironsheep/ui-regression-mcp/internal/imaging"
)

// RegistrationAvailable reports whether Register can succeed in this build.
const RegistrationAvailable = true

const (
	registerFeatures   = 800
	registerMinMatches = 6
	registerKeep       = 50
	ransacReprojection = 5.0
)

// Register maps actual onto the reference geometry with an ORB feature
// homography estimated by RANSAC.
//
// ok is false when either image yields fewer than six keypoints, fewer than
// six cross-checked matches survive, or no homography is found. The caller
// then falls back to Align.
func Register(reference, actual image.Image) (*image.NRGBA, bool) {
	refGray, err := grayMat(reference)
	if err != nil {
		log.Printf("Registration skipped: %v", err)
		return nil, false
	}
	defer refGray.Close()
	actMat, err := gocv.ImageToMatRGB(actual)
	if err != nil {
		log.Printf("Registration skipped: %v", err)
		return nil, false
	}
	defer actMat.Close()
	actGray := gocv.NewMat()
	defer actGray.Close()
	gocv.CvtColor(actMat, &actGray, gocv.ColorBGRToGray)

	orb := gocv.NewORBWithParams(registerFeatures, 1.2, 8, 31, 0, 2, gocv.ORBScoreTypeHarris, 31, 20)
	defer orb.Close()
	noMask := gocv.NewMat()
	defer noMask.Close()

	refKP, refDesc := orb.DetectAndCompute(refGray, noMask)
	defer refDesc.Close()
	actKP, actDesc := orb.DetectAndCompute(actGray, noMask)
	defer actDesc.Close()
	if len(refKP) < registerMinMatches || len(actKP) < registerMinMatches || refDesc.Empty() || actDesc.Empty() {
		return nil, false
	}

	bf := gocv.NewBFMatcherWithParams(gocv.NormHamming, true)
	defer bf.Close()
	matches := bf.Match(refDesc, actDesc)
	if len(matches) < registerMinMatches {
		return nil, false
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > registerKeep {
		matches = matches[:registerKeep]
	}

	// The homography maps actual points onto reference points.
	src := gocv.NewMatWithSize(len(matches), 1, gocv.MatTypeCV64FC2)
	defer src.Close()
	dst := gocv.NewMatWithSize(len(matches), 1, gocv.MatTypeCV64FC2)
	defer dst.Close()
	for i, m := range matches {
		a, r := actKP[m.TrainIdx], refKP[m.QueryIdx]
		src.SetDoubleAt(i, 0, a.X)
		src.SetDoubleAt(i, 1, a.Y)
		dst.SetDoubleAt(i, 0, r.X)
		dst.SetDoubleAt(i, 1, r.Y)
	}
	inliers := gocv.NewMat()
	defer inliers.Close()
	h := gocv.FindHomography(src, &dst, gocv.HomographyMethodRANSAC, ransacReprojection, &inliers, 2000, 0.995)
	defer h.Close()
	if h.Empty() {
		return nil, false
	}

	rb := reference.Bounds()
	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(actMat, &warped, h, image.Pt(rb.Dx(), rb.Dy()))
	out, err := warped.ToImage()
	if err != nil {
		log.Printf("Registration skipped: %v", err)
		return nil, false
	}
	return imgutil.ToNRGBA(out), true
}

func grayMat(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer mat.Close()
	gray := gocv.NewMat()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	return gray, nil
}
