package layout

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/wgomg/wordcloud/internal/mapper"
)

const ctxCheckEvery = 512

type rect struct {
	x0, y0, x1, y1 float64
}

func (r rect) overlaps(o rect) bool {
	return r.x0 < o.x1 && o.x0 < r.x1 && r.y0 < o.y1 && o.y0 < r.y1
}

// SpiralPlacer walks each word outward from the center along a spiral until
// its rotated bounding box, grown by the padding, collides with nothing.
// Words are placed in the order given, so larger words should come first.
type SpiralPlacer struct {
	measurer Measurer
	now      func() time.Time
}

func NewSpiralPlacer(m Measurer) *SpiralPlacer {
	return &SpiralPlacer{measurer: m, now: time.Now}
}

func (p *SpiralPlacer) Place(ctx context.Context, words []mapper.FinalWord, b Bounds) (Result, error) {
	if err := b.Validate(); err != nil {
		return Result{}, err
	}

	res := Result{Words: make([]PlacedWord, 0, len(words))}
	placed := make([]rect, 0, len(words))

	cx, cy := float64(b.Width)/2, float64(b.Height)/2
	maxDelta := math.Hypot(float64(b.Width), float64(b.Height))
	pad := float64(b.Padding)

	for _, w := range words {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("layout interrupted after %d words: %w", len(res.Words), err)
		}

		tw, th := p.measurer.Measure(w.Text, w.FontSize, w.FontWeight)
		bw, bh := rotatedExtent(tw, th, w.Rotation)
		bw += 2 * pad
		bh += 2 * pad

		pw := PlacedWord{FinalWord: w, Width: tw, Height: th}

		if bw <= float64(b.Width) && bh <= float64(b.Height) {
			x, y, ok, err := p.search(ctx, b, placed, cx, cy, bw, bh, maxDelta)
			if err != nil {
				return res, err
			}
			if ok {
				pw.X, pw.Y, pw.Placed = x, y, true
				placed = append(placed, rect{x - bw/2, y - bh/2, x + bw/2, y + bh/2})
			}
		}

		if pw.Placed {
			res.Placed++
		} else {
			res.Skipped++
		}
		res.Words = append(res.Words, pw)
	}

	return res, nil
}

func (p *SpiralPlacer) search(
	ctx context.Context,
	b Bounds,
	placed []rect,
	cx, cy, bw, bh, maxDelta float64,
) (float64, float64, bool, error) {
	next := newSpiral(b)
	started := p.now()
	last := -1

	for step := 0; ; step++ {
		if step%ctxCheckEvery == 0 && step > 0 {
			if err := ctx.Err(); err != nil {
				return 0, 0, false, fmt.Errorf("layout interrupted: %w", err)
			}
			if b.TimeInterval > 0 && p.now().Sub(started) > b.TimeInterval {
				return 0, 0, false, nil
			}
		}

		dx, dy := next(step)
		if math.Min(math.Abs(dx), math.Abs(dy)) >= maxDelta {
			return 0, 0, false, nil
		}

		x, y := cx+dx, cy+dy
		box := rect{x - bw/2, y - bh/2, x + bw/2, y + bh/2}
		if box.x0 < 0 || box.y0 < 0 || box.x1 > float64(b.Width) || box.y1 > float64(b.Height) {
			continue
		}

		// the last collider is the most likely one to hit again
		if last >= 0 && box.overlaps(placed[last]) {
			continue
		}
		last = collides(box, placed)
		if last < 0 {
			return x, y, true, nil
		}
	}
}

func collides(box rect, placed []rect) int {
	for i, r := range placed {
		if box.overlaps(r) {
			return i
		}
	}
	return -1
}

// rotatedExtent returns the axis-aligned extent of a w x h box rotated by deg.
func rotatedExtent(w, h float64, deg int) (float64, float64) {
	rad := float64(deg) * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	return w*cos + h*sin, w*sin + h*cos
}

// newSpiral returns the offset from the center at step t. The rectangular
// spiral carries state, so every word gets a fresh one.
func newSpiral(b Bounds) func(t int) (float64, float64) {
	ratio := float64(b.Width) / float64(b.Height)

	if b.Spiral == SpiralRectangular {
		dy := 4.0
		dx := dy * ratio
		x, y := 0.0, 0.0
		return func(t int) (float64, float64) {
			if t == 0 {
				return 0, 0
			}
			switch int(math.Sqrt(1+4*float64(t))-1) & 3 {
			case 0:
				x += dx
			case 1:
				y += dy
			case 2:
				x -= dx
			default:
				y -= dy
			}
			return x, y
		}
	}

	return func(t int) (float64, float64) {
		a := float64(t) * 0.1
		return ratio * a * math.Cos(a), a * math.Sin(a)
	}
}
