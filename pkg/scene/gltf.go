package scene

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/glint/pkg/math3d"
)

// ExtrasKey is the key under a node's extras that marks it as a primitive.
//
//	"extras": {"glint": {"primitive": "sphere", "radius": 1, "color": "#00ff00"}}
const ExtrasKey = "glint"

// lightsExtension is the glTF extension carrying punctual lights.
const lightsExtension = "KHR_lights_punctual"

// primitiveExtras is the payload stored under extras.glint.
type primitiveExtras struct {
	Primitive    string      `json:"primitive"`
	Radius       float64     `json:"radius"`
	Normal       *[3]float64 `json:"normal"`
	Color        string      `json:"color"`
	Reflectivity *float64    `json:"reflectivity"`
}

// punctualLight mirrors a KHR_lights_punctual light definition.
type punctualLight struct {
	Type      string      `json:"type"`
	Name      string      `json:"name"`
	Color     *[3]float64 `json:"color"`
	Intensity *float64    `json:"intensity"`
}

// GLTFLoader builds scenes from glTF documents.
type GLTFLoader struct {
	Width  int
	Height int
}

// NewGLTFLoader creates a loader producing scenes of the given size.
func NewGLTFLoader(width, height int) *GLTFLoader {
	return &GLTFLoader{Width: width, Height: height}
}

// LoadGLTF loads a .gltf or .glb file into a scene.
func LoadGLTF(path string, width, height int) (*Scene, error) {
	return NewGLTFLoader(width, height).Load(path)
}

// Load opens a glTF or GLB file and converts it.
func (l *GLTFLoader) Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s, err := l.Convert(doc)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Convert walks the document's default scene and collects primitives,
// punctual lights and the first camera.
func (l *GLTFLoader) Convert(doc *gltf.Document) (*Scene, error) {
	s := New(l.Width, l.Height)

	lights, err := documentLights(doc)
	if err != nil {
		return nil, err
	}

	roots, err := rootNodes(doc)
	if err != nil {
		return nil, err
	}

	w := walker{doc: doc, scene: s, lights: lights, visited: make(map[int]bool)}
	for _, idx := range roots {
		if err := w.visit(idx, math3d.Identity()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

type walker struct {
	doc       *gltf.Document
	scene     *Scene
	lights    []punctualLight
	visited   map[int]bool
	hasCamera bool
	named     bool // camera came from a node named "camera"
}

func (w *walker) visit(idx int, parent math3d.Mat4) error {
	if idx < 0 || idx >= len(w.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	if w.visited[idx] {
		return fmt.Errorf("node %d visited twice", idx)
	}
	w.visited[idx] = true

	node := w.doc.Nodes[idx]
	world := parent.Mul(localTransform(node))

	if err := w.addPrimitive(node, world); err != nil {
		return fmt.Errorf("node %q: %w", node.Name, err)
	}
	if err := w.addLight(node, world); err != nil {
		return fmt.Errorf("node %q: %w", node.Name, err)
	}
	w.addCamera(node, world)

	for _, child := range node.Children {
		if err := w.visit(child, world); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) addPrimitive(node *gltf.Node, world math3d.Mat4) error {
	var extras struct {
		Glint *primitiveExtras `json:"glint"`
	}
	if node.Extras == nil {
		return nil
	}
	if err := remarshal(node.Extras, &extras); err != nil {
		return fmt.Errorf("decode extras: %w", err)
	}
	pe := extras.Glint
	if pe == nil {
		return nil
	}

	mat := Solid(White)
	if pe.Color != "" {
		c, err := ParseColor(pe.Color)
		if err != nil {
			return err
		}
		mat.Color = c
	}
	if pe.Reflectivity != nil {
		mat.Reflectivity = *pe.Reflectivity
	}

	switch pe.Primitive {
	case "sphere":
		radius := pe.Radius
		if radius == 0 {
			radius = 1
		}
		radius *= world.MaxScale()
		if !(radius > 0) {
			return fmt.Errorf("sphere radius must be positive, got %v", radius)
		}
		w.scene.Add(&Sphere{
			Name:     node.Name,
			Center:   world.Translation(),
			Radius:   radius,
			Material: mat,
		})
	case "plane":
		normal := math3d.V3(0, -1, 0)
		if pe.Normal != nil {
			normal = math3d.V3(pe.Normal[0], pe.Normal[1], pe.Normal[2])
		}
		normal = world.MulVec3Dir(normal)
		if normal.LenSq() == 0 {
			return fmt.Errorf("plane normal must be non-zero")
		}
		w.scene.Add(&Plane{
			Name:     node.Name,
			Point:    world.Translation(),
			Normal:   normal.Normalize(),
			Material: mat,
		})
	default:
		return fmt.Errorf("unknown primitive %q", pe.Primitive)
	}
	return nil
}

func (w *walker) addLight(node *gltf.Node, world math3d.Mat4) error {
	raw, ok := node.Extensions[lightsExtension]
	if !ok {
		return nil
	}

	idx, err := lightIndex(raw)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(w.lights) {
		return fmt.Errorf("light index %d out of range", idx)
	}
	pl := w.lights[idx]

	c := White
	if pl.Color != nil {
		c = ColorFromLinear(*pl.Color)
	}
	intensity := 1.0
	if pl.Intensity != nil {
		intensity = *pl.Intensity
	}

	switch pl.Type {
	case "directional":
		// Punctual lights shine down their local -Z axis.
		dir := world.MulVec3Dir(math3d.Forward())
		w.scene.AddDirectionalLight(NewDirectionalLight(dir, c, intensity))
	case "point", "spot":
		// glTF point intensity is in candela; spread it over the full sphere
		// so Attenuated(d) gives candela / d².
		w.scene.AddPointLight(NewPointLight(world.Translation(), c, 4*math.Pi*intensity))
	default:
		return fmt.Errorf("unknown light type %q", pl.Type)
	}
	return nil
}

// addCamera takes the first camera node, unless a node named "camera"
// turns up later, which replaces it.
func (w *walker) addCamera(node *gltf.Node, world math3d.Mat4) {
	if node.Camera == nil || w.named {
		return
	}
	isNamed := node.Name == "camera"
	if w.hasCamera && !isNamed {
		return
	}
	w.hasCamera = true
	w.named = isNamed
	w.scene.Camera = world.Translation()
	w.scene.FOV = DefaultFOV

	ci := *node.Camera
	if ci < 0 || ci >= len(w.doc.Cameras) {
		return
	}
	if p := w.doc.Cameras[ci].Perspective; p != nil && p.Yfov > 0 {
		w.scene.FOV = p.Yfov * 180 / math.Pi
	}
}

// rootNodes returns the nodes of the default scene, falling back to the
// first scene and then to every node that is nobody's child.
func rootNodes(doc *gltf.Document) ([]int, error) {
	if doc.Scene != nil {
		idx := *doc.Scene
		if idx < 0 || idx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene index %d out of range", idx)
		}
		return doc.Scenes[idx].Nodes, nil
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes, nil
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

// localTransform returns the node's matrix, or T*R*S when no matrix is set.
// Zero rotation and scale are treated as unset.
func localTransform(n *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(n.Matrix)
	if m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}

	rot := n.Rotation
	if rot == [4]float64{} {
		rot = [4]float64{0, 0, 0, 1}
	}
	scale := n.Scale
	if scale == [3]float64{} {
		scale = [3]float64{1, 1, 1}
	}
	t := n.Translation
	return math3d.TRS(
		math3d.V3(t[0], t[1], t[2]),
		rot,
		math3d.V3(scale[0], scale[1], scale[2]),
	)
}

// documentLights reads the document level KHR_lights_punctual list. The
// extension value is either raw JSON or whatever type a registered decoder
// produced, so it is round-tripped through JSON.
func documentLights(doc *gltf.Document) ([]punctualLight, error) {
	raw, ok := doc.Extensions[lightsExtension]
	if !ok {
		return nil, nil
	}
	data, err := toJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", lightsExtension, err)
	}

	if len(data) > 0 && data[0] == '[' {
		var list []punctualLight
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode %s: %w", lightsExtension, err)
		}
		return list, nil
	}

	var ext struct {
		Lights []punctualLight `json:"lights"`
	}
	if err := json.Unmarshal(data, &ext); err != nil {
		return nil, fmt.Errorf("decode %s: %w", lightsExtension, err)
	}
	return ext.Lights, nil
}

// lightIndex reads a node level {"light": n} reference.
func lightIndex(raw any) (int, error) {
	data, err := toJSON(raw)
	if err != nil {
		return 0, fmt.Errorf("decode light reference: %w", err)
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		return n, nil
	}

	var ref struct {
		Light *int `json:"light"`
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		return 0, fmt.Errorf("decode light reference: %w", err)
	}
	if ref.Light == nil {
		return 0, fmt.Errorf("light reference without index")
	}
	return *ref.Light, nil
}

func toJSON(v any) ([]byte, error) {
	switch raw := v.(type) {
	case json.RawMessage:
		return raw, nil
	case []byte:
		return raw, nil
	default:
		return json.Marshal(v)
	}
}

func remarshal(v any, dst any) error {
	data, err := toJSON(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
