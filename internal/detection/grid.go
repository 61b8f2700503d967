package detection

import (
	"image"
	"math"

	"github.com/ironsheep/ui-regression-mcp/internal/model"
)

// gridMinStd is the luma spread a cell needs to be proposed.
const gridMinStd = 18.0

// Grid cuts the frame into cells and proposes the busy ones.
//
// Frames taller than 900 px get 5 rows, otherwise 4; frames wider than
// 1200 px get 4 columns, otherwise 3. A cell whose luma standard deviation
// reaches 18 is shrunk by 15% on each side and scores min(1, 0.35 + std/90).
// A uniform frame yields two fixed boxes around the thirds at 0.35 so the
// result is never empty.
func Grid(img image.Image) []model.Proposal {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	return gridProposals(lumaGrid(img, 0), b.Dx(), b.Dy())
}

func gridProposals(luma [][]float64, width, height int) []model.Proposal {
	rows, cols := 4, 3
	if height > 900 {
		rows = 5
	}
	if width > 1200 {
		cols = 4
	}

	proposals := make([]model.Proposal, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x1 := col * width / cols
			x2 := (col + 1) * width / cols
			y1 := row * height / rows
			y2 := (row + 1) * height / rows
			cell := image.Rect(x1, y1, x2, y2)
			if cell.Empty() {
				continue
			}
			std := lumaStdDev(luma, cell)
			if std < gridMinStd {
				continue
			}

			sx := int(float64(x2-x1) * 0.15)
			sy := int(float64(y2-y1) * 0.15)
			nx1 := min(max(x1+sx, 0), width-1)
			ny1 := min(max(y1+sy, 0), height-1)
			nx2 := max(min(x2-sx, width), nx1+5)
			ny2 := max(min(y2-sy, height), ny1+5)

			proposals = append(proposals, model.Proposal{
				BBox:       model.FromRect(image.Rect(nx1, ny1, nx2, ny2), width, height),
				Confidence: math.Min(1, 0.35+std/90),
			})
		}
	}

	if len(proposals) == 0 {
		for _, third := range []float64{1.0 / 3, 2.0 / 3} {
			proposals = append(proposals, model.Proposal{
				BBox:       model.BoundingBox{X: math.Max(0, third-0.15), Y: 0.1, W: 0.3, H: 0.15}.Clamp(),
				Confidence: 0.35,
			})
		}
	}
	return proposals
}
