// Package svgpath understands the subset of SVG path data the flatmap
// exporter emits: absolute M moves followed by absolute C cubics. It
// exists to measure exact path bounding boxes for viewBox fitting.
package svgpath

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrPathDataInvalid = errors.New("svg path data is invalid")

type Point struct {
	X, Y float64
}

// Cubic is one Bezier span: start, two control points, end.
type Cubic [4]Point

// BBox is an axis aligned box; a zero value is not a valid box, use
// newBBox or Extend.
type BBox struct {
	MinX, MaxX, MinY, MaxY float64
}

func (b *BBox) Extend(other BBox) {
	b.MinX = math.Min(b.MinX, other.MinX)
	b.MaxX = math.Max(b.MaxX, other.MaxX)
	b.MinY = math.Min(b.MinY, other.MinY)
	b.MaxY = math.Max(b.MaxY, other.MaxY)
}

func (b *BBox) Width() float64 {
	return b.MaxX - b.MinX
}

func (b *BBox) Height() float64 {
	return b.MaxY - b.MinY
}

type parser struct {
	tokens  []string
	n       int
	current Point
	cubics  []Cubic
}

// Parse reads path data and returns its cubic spans. Commands other
// than absolute M and C are rejected; both commands accept implicit
// repetition as per the SVG grammar.
func Parse(d string) ([]Cubic, error) {
	p := parser{tokens: tokenize(d)}

	for p.n < len(p.tokens) {
		switch p.tokens[p.n] {
		case "M":
			p.n++
			pt, err := p.readPoint()
			if err != nil {
				return nil, err
			}
			p.current = pt

			// implicit repetition after M means lineto, which
			// this subset does not produce
			if p.n < len(p.tokens) && !isCommand(p.tokens[p.n]) {
				return nil, errors.Wrapf(ErrPathDataInvalid, "unexpected token %q after moveto", p.tokens[p.n])
			}
		case "C":
			p.n++
			if err := p.readCubics(); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Wrapf(ErrPathDataInvalid, "unsupported command %q", p.tokens[p.n])
		}
	}

	return p.cubics, nil
}

func (p *parser) readCubics() error {
	for {
		c1, err := p.readPoint()
		if err != nil {
			return err
		}

		c2, err := p.readPoint()
		if err != nil {
			return err
		}

		end, err := p.readPoint()
		if err != nil {
			return err
		}

		p.cubics = append(p.cubics, Cubic{p.current, c1, c2, end})
		p.current = end

		if p.n >= len(p.tokens) || isCommand(p.tokens[p.n]) {
			return nil
		}
	}
}

func (p *parser) readPoint() (Point, error) {
	x, err := p.readFloat()
	if err != nil {
		return Point{}, err
	}

	y, err := p.readFloat()
	if err != nil {
		return Point{}, err
	}

	return Point{X: x, Y: y}, nil
}

func (p *parser) readFloat() (float64, error) {
	if p.n >= len(p.tokens) {
		return 0, errors.Wrap(ErrPathDataInvalid, "path data ended mid command")
	}

	v, err := strconv.ParseFloat(p.tokens[p.n], 64)
	if err != nil {
		return 0, errors.Wrapf(ErrPathDataInvalid, "token %q is not a number", p.tokens[p.n])
	}

	p.n++
	return v, nil
}

func tokenize(d string) []string {
	d = strings.ReplaceAll(d, ",", " ")
	for _, cmd := range []string{"M", "C"} {
		d = strings.ReplaceAll(d, cmd, " "+cmd+" ")
	}

	return strings.Fields(d)
}

func isCommand(tok string) bool {
	return tok == "M" || tok == "C"
}

// CubicBBox is the exact bounding box of the span, from the endpoints
// and the interior extrema of each coordinate polynomial.
func CubicBBox(c Cubic) BBox {
	minX, maxX := axisExtent(c[0].X, c[1].X, c[2].X, c[3].X)
	minY, maxY := axisExtent(c[0].Y, c[1].Y, c[2].Y, c[3].Y)
	return BBox{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
}

// PathBBox folds the spans into one box.
func PathBBox(cubics []Cubic) (BBox, error) {
	if len(cubics) == 0 {
		return BBox{}, errors.Wrap(ErrPathDataInvalid, "no spans to measure")
	}

	box := CubicBBox(cubics[0])
	for _, c := range cubics[1:] {
		box.Extend(CubicBBox(c))
	}

	return box, nil
}

func axisExtent(p0, p1, p2, p3 float64) (float64, float64) {
	lo := math.Min(p0, p3)
	hi := math.Max(p0, p3)

	// derivative of the cubic Bernstein polynomial is quadratic
	a := 3 * ((p1 - p0) - 2*(p2-p1) + (p3 - p2))
	b := 6 * ((p2 - p1) - (p1 - p0))
	c := 3 * (p1 - p0)

	for _, t := range quadraticRoots(a, b, c) {
		if t <= 0 || t >= 1 {
			continue
		}

		v := cubicAt(p0, p1, p2, p3, t)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return lo, hi
}

func cubicAt(p0, p1, p2, p3, t float64) float64 {
	u := 1 - t
	return u*u*u*p0 + 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t*p3
}

func quadraticRoots(a, b, c float64) []float64 {
	const eps = 1e-12

	if math.Abs(a) < eps {
		if math.Abs(b) < eps {
			return nil
		}

		return []float64{-c / b}
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}

	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}
