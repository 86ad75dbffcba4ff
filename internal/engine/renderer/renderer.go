// Package renderer draws the showroom scene with OpenGL 4.1.
//
// Meshes are drawn as their bounding boxes with a simple lit shader: the
// showroom cares about lighting, fog, reflections and bloom responding to
// the weather, not about model fidelity.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/framebuffer"
	"github.com/Faultbox/showroom/internal/engine/shader"
	"github.com/Faultbox/showroom/internal/engine/shadow"
	"github.com/Faultbox/showroom/internal/rain"
	"github.com/Faultbox/showroom/internal/scene"
	"github.com/Faultbox/showroom/internal/showroom"
	"github.com/Faultbox/showroom/pkg/math"
)

// Frame is everything one draw needs besides the scene.
type Frame struct {
	Scene      *scene.Scene
	View       math.Mat4
	Projection math.Mat4
	Eye        math.Vec3

	Rain []float32

	// Caster is the active car's box, outlined when ShowBounds is set.
	Caster    scene.Box
	HasCaster bool

	ShowBounds bool
}

// FrameFor collects what a draw needs from the showroom's current state.
func FrameFor(app *showroom.App, aspect float32, showBounds bool) Frame {
	ctx := app.Context()
	controls := ctx.Controls

	f := Frame{
		Scene:      ctx.Scene,
		View:       controls.ViewMatrix(),
		Projection: controls.ProjectionMatrix(aspect),
		Eye:        controls.Position,
		ShowBounds: showBounds,
	}
	if ctx.Rain.Visible() {
		f.Rain = ctx.Rain.Positions()
	}
	f.Caster, f.HasCaster = ctx.Cars.ActiveBounds()
	return f
}

// Renderer owns the GL programs and buffers.
type Renderer struct {
	log    *zap.Logger
	width  int32
	height int32

	lit       *shader.Program
	line      *shader.Program
	composite *shader.Program
	depth     *shader.Program

	cubeVAO, cubeVBO uint32
	lineVAO, lineVBO uint32
	emptyVAO         uint32

	target   *framebuffer.Framebuffer
	textures map[*scene.Texture]struct{}

	// Shadow pass state, refreshed every frame
	shadows      *shadow.Map
	shadowFailed int32
	lightVP      math.Mat4
	hasShadow    bool
}

// New creates a renderer. It must be called after the GL context exists.
func New(width, height int, log *zap.Logger) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		log:      log,
		width:    int32(width),
		height:   int32(height),
		textures: make(map[*scene.Texture]struct{}),
	}

	var err error
	if r.lit, err = shader.New("lit", litVertex, litFragment); err != nil {
		return nil, err
	}
	if r.line, err = shader.New("line", lineVertex, lineFragment); err != nil {
		r.Close()
		return nil, err
	}
	if r.composite, err = shader.New("composite", compositeVertex, compositeFragment); err != nil {
		r.Close()
		return nil, err
	}
	if r.depth, err = shader.New("depth", depthVertex, depthFragment); err != nil {
		r.Close()
		return nil, err
	}
	if r.target, err = framebuffer.New(r.width, r.height, true); err != nil {
		r.Close()
		return nil, err
	}

	r.cubeVAO, r.cubeVBO = newLitBuffer(UnitCube)
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, lineStride*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.GenVertexArrays(1, &r.emptyVAO)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)

	return r, nil
}

func newLitBuffer(vertices []float32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, litStride*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, litStride*4, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// Close releases GL resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for tex := range r.textures {
		gl.DeleteTextures(1, &tex.ID)
		tex.ID = 0
	}
	for _, vao := range []*uint32{&r.cubeVAO, &r.lineVAO, &r.emptyVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.cubeVBO, &r.lineVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	for _, p := range []*shader.Program{r.lit, r.line, r.composite, r.depth} {
		if p != nil {
			p.Delete()
		}
	}
	if r.target != nil {
		r.target.Destroy()
	}
	if r.shadows != nil {
		r.shadows.Destroy()
	}
}

// Resize updates the viewport and offscreen target.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = int32(width), int32(height)
	r.target.Resize(r.width, r.height)
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.height == 0 {
		return 1
	}
	return float32(r.width) / float32(r.height)
}

// Draw renders one frame into the default framebuffer.
func (r *Renderer) Draw(f Frame) {
	r.DrawTo(f, nil)
}

// DrawTo renders one frame and composites it into out, or into the default
// framebuffer when out is nil. out must match the renderer size.
func (r *Renderer) DrawTo(f Frame, out *framebuffer.Framebuffer) {
	s := f.Scene
	r.renderShadows(s)

	r.target.Bind()
	bg := s.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.drawMeshes(f, false)
	r.drawRain(f)
	r.drawMeshes(f, true)
	if f.ShowBounds && f.HasCaster {
		r.drawLines(f, WireframeVertices(f.Caster), scene.Hex(0x00ff00), 1)
	}
	r.target.Unbind()

	if out != nil {
		out.Bind()
		defer out.Unbind()
	}
	gl.Viewport(0, 0, r.width, r.height)
	gl.Disable(gl.DEPTH_TEST)
	r.composite.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.target.ColorTexture())
	r.composite.SetInt("uScene", 0)
	bloom := s.Bloom
	r.composite.SetInt("uBloom", boolToInt(bloom.Enabled))
	r.composite.SetFloat("uStrength", bloom.Strength)
	r.composite.SetFloat("uRadius", bloom.Radius)
	r.composite.SetFloat("uThreshold", bloom.Threshold)
	gl.BindVertexArray(r.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// drawMeshes draws either the opaque or the transparent meshes.
func (r *Renderer) drawMeshes(f Frame, transparent bool) {
	s := f.Scene
	p := r.lit
	p.Use()
	p.SetMat4("uView", f.View)
	p.SetMat4("uProj", f.Projection)
	p.SetVec3("uEye", f.Eye)
	r.setLights(p, s)
	r.setFog(p, s)

	p.SetInt("uShadowMap", 1)
	p.SetInt("uHasShadow", boolToInt(r.hasShadow))
	if r.hasShadow {
		cfg := s.Sun.Shadow
		r.shadows.BindTexture(gl.TEXTURE1)
		p.SetMat4("uLightVP", r.lightVP)
		p.SetFloat("uShadowBias", cfg.Bias)
		p.SetFloat("uNormalBias", cfg.NormalBias)
		p.SetFloat("uShadowIntensity", cfg.Intensity)
	}

	if transparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
		defer func() {
			gl.DepthMask(true)
			gl.Disable(gl.BLEND)
		}()
	}

	gl.BindVertexArray(r.cubeVAO)
	for _, n := range s.Nodes() {
		if !n.Visible {
			continue
		}
		for _, m := range n.Meshes {
			mat := m.Material
			if mat == nil || isTransparent(mat) != transparent {
				continue
			}
			r.setMaterial(p, mat)
			p.SetInt("uReceiveShadow", boolToInt(m.ReceiveShadow))
			p.SetMat4("uModel", MeshMatrix(n, m.Bounds))
			gl.DrawArrays(gl.TRIANGLES, 0, int32(len(UnitCube)/litStride))
		}
	}
	gl.BindVertexArray(0)
}

// renderShadows draws the shadow casters into the sun's depth map.
func (r *Renderer) renderShadows(s *scene.Scene) {
	r.hasShadow = false
	sun := s.Sun
	if sun == nil || !sun.CastShadow || sun.Shadow.Intensity <= 0 {
		return
	}
	casters, ok := shadow.CasterBounds(s)
	if !ok || !r.ensureShadowMap(int32(sun.Shadow.MapSize)) {
		return
	}
	r.lightVP = shadow.LightMatrix(sun, casters)

	r.shadows.Bind()
	p := r.depth
	p.Use()
	p.SetMat4("uLightVP", r.lightVP)
	gl.BindVertexArray(r.cubeVAO)
	for _, n := range s.Nodes() {
		if !n.Visible {
			continue
		}
		for _, m := range n.Meshes {
			if !m.CastShadow {
				continue
			}
			p.SetMat4("uModel", MeshMatrix(n, m.Bounds))
			gl.DrawArrays(gl.TRIANGLES, 0, int32(len(UnitCube)/litStride))
		}
	}
	gl.BindVertexArray(0)
	r.shadows.Unbind()
	r.hasShadow = true
}

// ensureShadowMap (re)creates the depth map when the requested size
// changes. A size that failed once is not retried.
func (r *Renderer) ensureShadowMap(size int32) bool {
	if size <= 0 {
		size = shadow.DefaultResolution
	}
	if r.shadows != nil && r.shadows.Resolution() == size {
		return true
	}
	if size == r.shadowFailed {
		return false
	}
	if r.shadows != nil {
		r.shadows.Destroy()
		r.shadows = nil
	}

	sm, err := shadow.NewMap(size)
	if err != nil {
		r.shadowFailed = size
		r.log.Warn("shadows disabled", zap.Int32("size", size), zap.Error(err))
		return false
	}
	r.shadows = sm
	r.log.Debug("shadow map created", zap.Int32("size", size))
	return true
}

func isTransparent(m *scene.Material) bool {
	return m.Transparent && m.Opacity < 1
}

func (r *Renderer) setLights(p *shader.Program, s *scene.Scene) {
	if sun := s.Sun; sun != nil {
		p.SetVec3("uSunDir", sun.Direction())
		p.SetColor("uSunColor", sun.Color)
		p.SetFloat("uSunIntensity", sun.Intensity)
	}
	if amb := s.Ambient; amb != nil {
		p.SetColor("uAmbientColor", amb.Color)
		p.SetFloat("uAmbientIntensity", amb.Intensity)
	}
}

func (r *Renderer) setFog(p *shader.Program, s *scene.Scene) {
	if s.Fog == nil {
		p.SetFloat("uFogDensity", 0)
		return
	}
	p.SetColor("uFogColor", s.Fog.Color)
	p.SetFloat("uFogDensity", s.Fog.Density)
}

func (r *Renderer) setMaterial(p *shader.Program, m *scene.Material) {
	p.SetColor("uColor", m.Color)
	p.SetFloat("uOpacity", m.Opacity)
	p.SetFloat("uRoughness", m.Roughness)
	p.SetFloat("uMetalness", m.Metalness)
	p.SetFloat("uEnvIntensity", m.EnvMapIntensity)
	p.SetFloat("uClearcoat", m.Clearcoat)
	p.SetFloat("uSpecular", m.SpecularIntensity)

	if id := r.upload(m.EnvMap); id != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, id)
		p.SetInt("uEnvMap", 0)
		p.SetInt("uHasEnv", 1)
	} else {
		p.SetInt("uHasEnv", 0)
	}
}

// upload creates the GL texture for tex on first use.
func (r *Renderer) upload(tex *scene.Texture) uint32 {
	if tex == nil || tex.Image == nil {
		return 0
	}
	if tex.ID != 0 {
		return tex.ID
	}

	img := tex.Image
	b := img.Bounds()
	gl.GenTextures(1, &tex.ID)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	r.textures[tex] = struct{}{}

	r.log.Debug("texture uploaded",
		zap.String("path", tex.Path),
		zap.Uint32("id", tex.ID),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return tex.ID
}

func (r *Renderer) drawRain(f Frame) {
	if len(f.Rain) == 0 {
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)
	r.drawLines(f, f.Rain, rain.Color, rain.Opacity)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (r *Renderer) drawLines(f Frame, vertices []float32, c scene.Color, opacity float32) {
	p := r.line
	p.Use()
	p.SetMat4("uView", f.View)
	p.SetMat4("uProj", f.Projection)
	p.SetVec3("uEye", f.Eye)
	p.SetColor("uColor", c)
	p.SetFloat("uOpacity", opacity)
	r.setFog(p, f.Scene)

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/lineStride))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
