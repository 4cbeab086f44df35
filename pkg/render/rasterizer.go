package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/scene"
	xdraw "golang.org/x/image/draw"
)

// ErrNoFrame is returned when reading back before anything was rendered
var ErrNoFrame = errors.New("no frame rendered")

var axisColors = [3]color.RGBA{
	{0xff, 0x00, 0x00, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
}

// Rasterizer is a software renderer producing flat-shaded, depth-tested frames.
// It is not safe for concurrent use.
type Rasterizer struct {
	width       int
	height      int
	supersample int

	// Light is the direction towards the key light
	Light    geometry.Vector3
	Ambient  float64
	Diffuse  float64
	Exposure float64

	frame  *image.RGBA
	zbuf   []float64
	output image.Image
}

// Option configures a Rasterizer
type Option func(*Rasterizer)

// WithSupersample renders at factor times the output size and downsamples,
// which anti-aliases edges
func WithSupersample(factor int) Option {
	return func(r *Rasterizer) {
		if factor > 0 {
			r.supersample = factor
		}
	}
}

// WithExposure sets the tone mapping exposure
func WithExposure(exposure float64) Option {
	return func(r *Rasterizer) {
		r.Exposure = exposure
	}
}

// NewRasterizer creates a renderer for output images of width x height pixels
func NewRasterizer(width, height int, opts ...Option) *Rasterizer {
	r := &Rasterizer{
		width:       width,
		height:      height,
		supersample: 1,
		Light:       geometry.NewVector3(0.5, 1, 0.8).Normalize(),
		Ambient:     0.55,
		Diffuse:     0.75,
		Exposure:    1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size returns the output image size
func (r *Rasterizer) Size() (int, int) {
	return r.width, r.height
}

// Render draws sc as seen from cam into the frame buffer
func (r *Rasterizer) Render(sc *scene.Scene, cam *Camera) error {
	if sc == nil || cam == nil {
		return fmt.Errorf("render needs a scene and a camera")
	}
	if r.width <= 0 || r.height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", r.width, r.height)
	}

	w, h := r.width*r.supersample, r.height*r.supersample
	if r.frame == nil || r.frame.Bounds().Dx() != w || r.frame.Bounds().Dy() != h {
		r.frame = image.NewRGBA(image.Rect(0, 0, w, h))
		r.zbuf = make([]float64, w*h)
	}

	r.clear(sc.Background)
	proj := cam.projector(w, h)

	if sc.Grid != nil {
		r.drawGrid(proj, sc.Grid)
	}
	if sc.Axes != nil {
		r.drawAxes(proj, sc.Axes)
	}

	sc.Root.Walk(func(n *scene.Node, world mgl64.Mat4) {
		if n.Mesh != nil {
			r.drawMesh(proj, n.Mesh, world)
		}
	})

	r.output = nil
	return nil
}

// Image returns the last rendered frame at output size
func (r *Rasterizer) Image() (image.Image, error) {
	if r.frame == nil {
		return nil, ErrNoFrame
	}
	if r.output != nil {
		return r.output, nil
	}
	if r.supersample == 1 {
		r.output = r.frame
		return r.output, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), r.frame, r.frame.Bounds(), xdraw.Src, nil)
	r.output = dst
	return r.output, nil
}

// Snapshot encodes the last rendered frame as PNG
func (r *Rasterizer) Snapshot() ([]byte, error) {
	img, err := r.Image()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Rasterizer) clear(bg color.RGBA) {
	bg.A = 0xff
	pix := r.frame.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = bg.R
		pix[i+1] = bg.G
		pix[i+2] = bg.B
		pix[i+3] = bg.A
	}
	for i := range r.zbuf {
		r.zbuf[i] = math.MaxFloat64
	}
}

func (r *Rasterizer) drawMesh(proj projector, mesh *scene.Mesh, world mgl64.Mat4) {
	for _, tri := range mesh.Triangles {
		t := tri.Transform(world)

		a, okA := projectVertex(proj, t.V1)
		b, okB := projectVertex(proj, t.V2)
		c, okC := projectVertex(proj, t.V3)
		if !okA || !okB || !okC {
			continue
		}

		// Two-sided lighting, the winding of loaded meshes is not trusted
		intensity := r.Ambient + r.Diffuse*math.Abs(t.Normal.Dot(r.Light))
		fillTriangleWithDepth(r.frame, r.zbuf, a, b, c, shade(mesh.Color, intensity, r.Exposure))
	}
}

func (r *Rasterizer) drawGrid(proj projector, grid *scene.Grid) {
	if grid.Divisions <= 0 {
		return
	}
	half := grid.Size / 2
	step := grid.Size / float64(grid.Divisions)

	for i := 0; i <= grid.Divisions; i++ {
		k := -half + float64(i)*step
		r.drawSegment(proj, geometry.NewVector3(-half, 0, k), geometry.NewVector3(half, 0, k), grid.Color, grid.Opacity)
		r.drawSegment(proj, geometry.NewVector3(k, 0, -half), geometry.NewVector3(k, 0, half), grid.Color, grid.Opacity)
	}
}

func (r *Rasterizer) drawAxes(proj projector, axes *scene.Axes) {
	ends := [3]geometry.Vector3{
		geometry.NewVector3(axes.Length, 0, 0),
		geometry.NewVector3(0, axes.Length, 0),
		geometry.NewVector3(0, 0, axes.Length),
	}
	for i, end := range ends {
		r.drawSegment(proj, geometry.Vector3{}, end, axisColors[i], 1)
	}
}

func (r *Rasterizer) drawSegment(proj projector, from, to geometry.Vector3, col color.RGBA, opacity float64) {
	a, okA := projectVertex(proj, from)
	b, okB := projectVertex(proj, to)
	if !okA || !okB {
		return
	}
	drawLine(r.frame, int(math.Round(a.x)), int(math.Round(a.y)), int(math.Round(b.x)), int(math.Round(b.y)), col, opacity)
}

func projectVertex(proj projector, v geometry.Vector3) (screenVertex, bool) {
	x, y, z, ok := proj.project(v)
	return screenVertex{x: x, y: y, z: z}, ok
}
