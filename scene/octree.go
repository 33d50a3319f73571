package scene

import "terrain-sample/math"

const (
	DefaultOctreeSize   = 1000
	DefaultOctreeLevels = 8
)

// Octant is one cell of the loose octree. Its culling box is the cell grown by
// half its size on every side, so a drawable only needs its centre inside the
// cell and its extent below the cell's half size to be stored here.
type Octant struct {
	box        AABB
	cullingBox AABB
	center     math.Vec3
	halfSize   math.Vec3
	level      int
	parent     *Octant
	children   [8]*Octant
	drawables  []Drawable
}

func newOctant(box AABB, level int, parent *Octant) *Octant {
	half := box.HalfSize()
	return &Octant{
		box:        box,
		cullingBox: AABB{Min: box.Min.Sub(half), Max: box.Max.Add(half)},
		center:     box.Center(),
		halfSize:   half,
		level:      level,
		parent:     parent,
	}
}

func (o *Octant) childIndex(p math.Vec3) int {
	i := 0
	if p.X >= o.center.X {
		i |= 1
	}
	if p.Y >= o.center.Y {
		i |= 2
	}
	if p.Z >= o.center.Z {
		i |= 4
	}
	return i
}

func (o *Octant) childBox(i int) AABB {
	box := o.box
	if i&1 != 0 {
		box.Min.X = o.center.X
	} else {
		box.Max.X = o.center.X
	}
	if i&2 != 0 {
		box.Min.Y = o.center.Y
	} else {
		box.Max.Y = o.center.Y
	}
	if i&4 != 0 {
		box.Min.Z = o.center.Z
	} else {
		box.Max.Z = o.center.Z
	}
	return box
}

func (o *Octant) child(i int) *Octant {
	if o.children[i] == nil {
		o.children[i] = newOctant(o.childBox(i), o.level+1, o)
	}
	return o.children[i]
}

// fitsHere reports whether box should stop descending at this octant.
func (o *Octant) fitsHere(box AABB, maxLevel int) bool {
	if o.level >= maxLevel {
		return true
	}
	size := box.Size()
	if size.X >= o.halfSize.X || size.Y >= o.halfSize.Y || size.Z >= o.halfSize.Z {
		return true
	}
	// A small box near a cell edge may still overhang the child's loose bounds.
	cb := o.childBox(o.childIndex(box.Center()))
	childHalf := cb.HalfSize()
	loose := AABB{Min: cb.Min.Sub(childHalf), Max: cb.Max.Add(childHalf)}
	return !loose.ContainsBox(box)
}

func (o *Octant) remove(d Drawable) {
	for i, existing := range o.drawables {
		if existing == d {
			last := len(o.drawables) - 1
			o.drawables[i] = o.drawables[last]
			o.drawables[last] = nil
			o.drawables = o.drawables[:last]
			return
		}
	}
}

func (o *Octant) query(f *Frustum, out []Drawable) []Drawable {
	// The root also holds drawables outside its bounds, so it is never culled.
	if o.parent != nil && !o.cullingBox.IntersectsFrustum(f) {
		return out
	}
	for _, d := range o.drawables {
		box := d.WorldBoundingBox()
		if box.IntersectsFrustum(f) {
			out = append(out, d)
		}
	}
	for _, c := range o.children {
		if c != nil {
			out = c.query(f, out)
		}
	}
	return out
}

func (o *Octant) queryBox(box AABB, out []Drawable) []Drawable {
	if o.parent != nil && !o.cullingBox.Intersects(box) {
		return out
	}
	for _, d := range o.drawables {
		if d.WorldBoundingBox().Intersects(box) {
			out = append(out, d)
		}
	}
	for _, c := range o.children {
		if c != nil {
			out = c.queryBox(box, out)
		}
	}
	return out
}

// Octree is the spatial index of a scene's drawables. It is a component so it
// can live on the scene root, as the renderer expects.
type Octree struct {
	ComponentBase

	root      *Octant
	numLevels int
	locations map[Drawable]*Octant
	boxes     map[Drawable]AABB
}

// NewOctree creates an octree covering box with the given number of levels.
func NewOctree(box AABB, levels int) *Octree {
	if levels < 1 {
		levels = 1
	}
	return &Octree{
		root:      newOctant(box, 0, nil),
		numLevels: levels,
		locations: make(map[Drawable]*Octant),
		boxes:     make(map[Drawable]AABB),
	}
}

// NewDefaultOctree covers ±1000 units with eight levels.
func NewDefaultOctree() *Octree {
	s := float32(DefaultOctreeSize)
	return NewOctree(AABB{Min: math.Vec3{X: -s, Y: -s, Z: -s}, Max: math.Vec3{X: s, Y: s, Z: s}}, DefaultOctreeLevels)
}

func (o *Octree) Bounds() AABB { return o.root.box }

func (o *Octree) NumLevels() int { return o.numLevels }

func (o *Octree) NumDrawables() int { return len(o.locations) }

// Insert stores d in the deepest octant that can hold its current bounds.
// Inserting a drawable that is already present moves it.
func (o *Octree) Insert(d Drawable) {
	if _, ok := o.locations[d]; ok {
		o.Remove(d)
	}
	box := d.WorldBoundingBox()
	oct := o.root
	if o.root.cullingBox.ContainsBox(box) {
		for !oct.fitsHere(box, o.numLevels-1) {
			oct = oct.child(oct.childIndex(box.Center()))
		}
	}
	oct.drawables = append(oct.drawables, d)
	o.locations[d] = oct
	o.boxes[d] = box
}

func (o *Octree) Remove(d Drawable) {
	oct, ok := o.locations[d]
	if !ok {
		return
	}
	oct.remove(d)
	delete(o.locations, d)
	delete(o.boxes, d)
}

// Update re-inserts d if its bounds changed since it was stored. It reports
// whether a move happened.
func (o *Octree) Update(d Drawable) bool {
	prev, ok := o.boxes[d]
	if ok && prev == d.WorldBoundingBox() {
		return false
	}
	o.Insert(d)
	return true
}

func (o *Octree) Contains(d Drawable) bool {
	_, ok := o.locations[d]
	return ok
}

// Level returns the depth of the octant holding d, or -1.
func (o *Octree) Level(d Drawable) int {
	oct, ok := o.locations[d]
	if !ok {
		return -1
	}
	return oct.level
}

// Query returns the drawables whose bounds intersect f.
func (o *Octree) Query(f *Frustum) []Drawable {
	return o.root.query(f, nil)
}

// QueryBox returns the drawables whose bounds intersect box.
func (o *Octree) QueryBox(box AABB) []Drawable {
	return o.root.queryBox(box, nil)
}

// All returns every stored drawable in no particular order.
func (o *Octree) All() []Drawable {
	out := make([]Drawable, 0, len(o.locations))
	for d := range o.locations {
		out = append(out, d)
	}
	return out
}
