package capture

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/philipparndt/modelsnap/pkg/geometry"
	"github.com/philipparndt/modelsnap/pkg/render"
	"github.com/philipparndt/modelsnap/pkg/scene"
	"github.com/rs/zerolog"
)

// Renderer draws a scene and reads the last frame back as PNG
type Renderer interface {
	Render(sc *scene.Scene, cam *render.Camera) error
	Snapshot() ([]byte, error)
	Size() (width, height int)
}

// Viewport describes the output frame
type Viewport struct {
	Width       int
	Height      int
	Supersample int
}

// DefaultViewport is the frame size used when nothing else is configured
var DefaultViewport = Viewport{Width: 1280, Height: 720, Supersample: 2}

// Camera and scene setup
var (
	CameraPosition  = geometry.NewVector3(-200, 100, 400)
	OrbitTarget     = geometry.NewVector3(10, 90, -16)
	BackgroundColor = color.RGBA{0xe8, 0xe8, 0xe8, 0xff}
)

const (
	FieldOfView      = 45.0
	NearPlane        = 1.0
	FarPlane         = 20000.0
	MinOrbitDistance = 400.0
	MaxOrbitDistance = 1000.0
)

// Session is the rendering state owned by one invocation. The scene and
// camera are guarded by a mutex: inserting the model, orbiting the camera
// and capturing a frame all go through Session methods, so a re-render
// triggered by the controls never interleaves with a capture.
// Scene and Camera may be read directly once the invocation has completed.
type Session struct {
	Scene    *scene.Scene
	Camera   *render.Camera
	Renderer Renderer

	controls *render.Controls
	mu       sync.Mutex
	log      zerolog.Logger
}

// SessionFactory creates a fresh Session for every invocation
type SessionFactory func() *Session

// NewSession sets up the scene, camera and controls around renderer.
// Every camera change through the controls re-renders the view.
func NewSession(renderer Renderer, log zerolog.Logger) *Session {
	width, height := renderer.Size()
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}

	sc := scene.New()
	sc.Background = BackgroundColor
	sc.Grid = &scene.Grid{
		Size:      500,
		Divisions: 10,
		Color:     color.RGBA{0xff, 0xff, 0xff, 0xff},
		Opacity:   0.09,
	}
	sc.Axes = &scene.Axes{Length: 100}

	cam := render.NewPerspectiveCamera(FieldOfView, aspect, NearPlane, FarPlane)
	cam.Position = CameraPosition

	controls := render.NewControls(cam)
	controls.Target = OrbitTarget
	controls.MinDistance = MinOrbitDistance
	controls.MaxDistance = MaxOrbitDistance
	controls.Update()

	s := &Session{
		Scene:    sc,
		Camera:   cam,
		Renderer: renderer,
		controls: controls,
		log:      log,
	}
	// Controls only move through Rotate and Zoom, which hold s.mu
	controls.OnChange(func() {
		if err := s.render(); err != nil {
			s.log.Warn().Err(err).Msg("interactive render failed")
		}
	})
	return s
}

// NewRasterSession returns a factory for sessions backed by a software rasterizer
func NewRasterSession(vp Viewport, log zerolog.Logger) SessionFactory {
	return func() *Session {
		r := render.NewRasterizer(vp.Width, vp.Height, render.WithSupersample(vp.Supersample))
		return NewSession(r, log)
	}
}

// Render draws the current scene
func (s *Session) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.render()
}

// render expects s.mu to be held
func (s *Session) render() error {
	return s.Renderer.Render(s.Scene, s.Camera)
}

// Add inserts n into the scene
func (s *Session) Add(n *scene.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Scene.Add(n)
}

// Target returns the point the camera orbits around
func (s *Session) Target() geometry.Vector3 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls.Target
}

// Rotate orbits the camera and re-renders when it moved
func (s *Session) Rotate(deltaAzimuth, deltaPolar float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls.Rotate(deltaAzimuth, deltaPolar)
}

// Zoom changes the orbit distance and re-renders when the camera moved
func (s *Session) Zoom(delta float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controls.Zoom(delta)
}

// Capture renders one frame and reads it back as PNG
func (s *Session) Capture() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.render(); err != nil {
		return nil, fmt.Errorf("render failed: %w", err)
	}
	data, err := s.Renderer.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("read back failed: %w", err)
	}
	return data, nil
}
