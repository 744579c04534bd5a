package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/plateforge/plateforge/internal/model"
)

// point2 is a 2D coordinate in mm.
type point2 struct {
	x, y float64
}

// outline is a closed polygon; the last point implicitly connects back
// to the first.
type outline []point2

// segment is a line segment between two points, used for chaining
// disconnected LINE and ARC entities into closed outlines.
type segment struct {
	start point2
	end   point2
}

// ImportDXF imports footprints from a DXF file. Each closed shape
// (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) becomes one
// item sized to the shape's bounding box. The outline itself is not
// kept: the packer works on axis-aligned footprints only.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			outlines = append(outlines, circleToOutline(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point2{x: e.Start[0], y: e.Start[1]},
				end:   point2{x: e.End[0], y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	for _, chained := range chainSegments(segments, 0.01) {
		if len(chained) >= 3 {
			outlines = append(outlines, chained)
		}
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	shapeNum := 0
	for _, o := range outlines {
		shapeNum++
		min, max := o.boundingBox()
		width := max.x - min.x
		length := max.y - min.y

		if width < 0.01 || length < 0.01 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", width, length))
			continue
		}

		result.Items = append(result.Items,
			model.NewItem(fmt.Sprintf("DXF Shape %d", shapeNum), width, length))
	}

	return result
}

func (o outline) boundingBox() (min, max point2) {
	if len(o) == 0 {
		return point2{}, point2{}
	}
	min, max = o[0], o[0]
	for _, p := range o[1:] {
		if p.x < min.x {
			min.x = p.x
		}
		if p.y < min.y {
			min.y = p.y
		}
		if p.x > max.x {
			max.x = p.x
		}
		if p.y > max.y {
			max.y = p.y
		}
	}
	return min, max
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to an outline.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	var o outline

	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := point2{x: v[0], y: v[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := point2{x: lw.Vertices[nextIdx][0], y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			// The next vertex gets appended by its own iteration.
			o = append(o, arcPts[:len(arcPts)-1]...)
		} else {
			o = append(o, current)
		}
	}

	return o
}

// bulgeArcPoints generates points along an arc defined by two endpoints
// and a DXF bulge factor (tangent of 1/4 the included angle).
func bulgeArcPoints(p1, p2 point2, bulge float64, numSegments int) outline {
	mx := (p1.x + p2.x) / 2
	my := (p1.y + p2.y) / 2
	dx := p2.x - p1.x
	dy := p2.y - p1.y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return outline{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.y-cy, p1.x-cx)
	endAngle := math.Atan2(p2.y-cy, p2.x-cx)

	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	var pts outline
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts = append(pts, point2{
			x: cx + radius*math.Cos(angle),
			y: cy + radius*math.Sin(angle),
		})
	}
	return pts
}

// circleToOutline approximates a circle as a regular polygon.
func circleToOutline(c *entity.Circle, numSegments int) outline {
	o := make(outline, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		o[i] = point2{
			x: cx + r*math.Cos(angle),
			y: cy + r*math.Sin(angle),
		}
	}
	return o
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []point2 {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point2, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point2{
			x: cx + r*math.Cos(angle),
			y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// pointsToSegments converts a point sequence to connected segments.
func pointsToSegments(pts []point2) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum endpoint distance considered connected.
func chainSegments(segs []segment, tolerance float64) []outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []point2{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}

		if len(chain) >= 3 {
			outlines = append(outlines, outline(chain))
		}
	}

	// Largest first for consistent ordering.
	sort.Slice(outlines, func(i, j int) bool {
		return outlines[i].area() > outlines[j].area()
	})

	return outlines
}

func pointsClose(a, b point2, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}

// area computes the absolute polygon area via the shoelace formula.
func (o outline) area() float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].x * o[j].y
		area -= o[j].x * o[i].y
	}
	return math.Abs(area) / 2
}
