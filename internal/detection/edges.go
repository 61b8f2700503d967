package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"gonum.org/v1/gonum/stat"
)

// edgeThreshold is the luma step between neighbours that marks an edge.
const edgeThreshold = 30.0

// point is a pixel position inside a frame anchored at the origin.
type point struct {
	X, Y int
}

// lumaGrid converts img to a row-major luma plane with values 0-255.
// When sigma > 0 the plane is Gaussian-blurred first.
func lumaGrid(img image.Image, sigma float64) [][]float64 {
	var gray image.Image = effect.Grayscale(img)
	if sigma > 0 {
		gray = blur.Gaussian(gray, sigma)
	}
	b := gray.Bounds()
	grid := make([][]float64, b.Dy())
	for y := range grid {
		grid[y] = make([]float64, b.Dx())
		for x := range grid[y] {
			r, _, _, _ := gray.At(x+b.Min.X, y+b.Min.Y).RGBA()
			grid[y][x] = float64(r >> 8)
		}
	}
	return grid
}

// detectEdges marks pixels whose luma differs from the right or lower
// neighbour by more than edgeThreshold. Border pixels are never edges.
func detectEdges(luma [][]float64) [][]bool {
	height := len(luma)
	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		width := len(luma[y])
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				continue
			}
			c := luma[y][x]
			dx := math.Abs(c - luma[y][x+1])
			dy := math.Abs(c - luma[y+1][x])
			if dx > edgeThreshold || dy > edgeThreshold {
				edges[y][x] = true
			}
		}
	}
	return edges
}

// dilateEdges grows edge pixels by radius using a morphological dilation.
func dilateEdges(edges [][]bool, radius float64) [][]bool {
	height := len(edges)
	if height == 0 || radius <= 0 {
		return edges
	}
	width := len(edges[0])
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges[y][x] {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	grown := effect.Dilate(mask, radius)
	out := make([][]bool, height)
	for y := 0; y < height; y++ {
		out[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			out[y][x] = grown.Pix[grown.PixOffset(x, y)] > 0
		}
	}
	return out
}

// findContours groups edge pixels into 8-connected components.
// Components smaller than 10 pixels are discarded as noise.
func findContours(edges [][]bool) [][]point {
	height := len(edges)
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, len(edges[y]))
	}

	contours := make([][]point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < len(edges[y]); x++ {
			if edges[y][x] && !visited[y][x] {
				contour := make([]point, 0)
				floodFill(edges, visited, x, y, &contour)
				if len(contour) >= 10 {
					contours = append(contours, contour)
				}
			}
		}
	}
	return contours
}

// floodFill collects the component containing (startX, startY). It uses an
// explicit stack so large components cannot overflow the goroutine stack.
func floodFill(edges, visited [][]bool, startX, startY int, contour *[]point) {
	height := len(edges)
	stack := []point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.Y < 0 || p.Y >= height || p.X < 0 || p.X >= len(edges[p.Y]) {
			continue
		}
		if visited[p.Y][p.X] || !edges[p.Y][p.X] {
			continue
		}

		visited[p.Y][p.X] = true
		*contour = append(*contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

// boundsOf returns the bounding rectangle of a contour, exclusive at max.
func boundsOf(contour []point) image.Rectangle {
	if len(contour) == 0 {
		return image.Rectangle{}
	}
	r := image.Rect(contour[0].X, contour[0].Y, contour[0].X+1, contour[0].Y+1)
	for _, p := range contour[1:] {
		r = r.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
	}
	return r
}

// lumaStdDev is the population standard deviation of luma inside r.
func lumaStdDev(luma [][]float64, r image.Rectangle) float64 {
	vals := make([]float64, 0, r.Dx()*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		vals = append(vals, luma[y][r.Min.X:r.Max.X]...)
	}
	if len(vals) == 0 {
		return 0
	}
	_, std := stat.PopMeanStdDev(vals, nil)
	return std
}
