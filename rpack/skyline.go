package rpack

// step is one flat segment of the front. It spans from x (inclusive) to the
// next step's x (exclusive), or to the enclosure width for the last step.
type step struct {
	x, y int64
}

// front tracks the top surface of the placed rectangles inside an enclosure
// of fixed width. Steps are kept in strictly increasing x order starting at
// x=0, adjacent steps always have distinct heights, and the steps jointly
// cover the whole interval [0, width).
type front struct {
	width int64
	steps []step
}

func newFront(width int64) *front {
	return &front{
		width: width,
		steps: []step{{x: 0, y: 0}},
	}
}

// end returns the exclusive right edge of step i.
func (f *front) end(i int) int64 {
	if i+1 < len(f.steps) {
		return f.steps[i+1].x
	}
	return f.width
}

// fit computes the placement obtained by aligning a rectangle of width w
// with the left edge of step i: the lowest legal bottom over [x, x+w) and
// the dead area trapped beneath the rectangle. Reports ok=false when the
// rectangle sticks out past the enclosure width.
func (f *front) fit(i int, w int64) (bottom, waste int64, ok bool, err error) {
	x := f.steps[i].x
	if x+w > f.width {
		return 0, 0, false, nil
	}
	x2 := x + w
	bottom = f.steps[i].y
	for j := i + 1; j < len(f.steps) && f.steps[j].x < x2; j++ {
		if f.steps[j].y > bottom {
			bottom = f.steps[j].y
		}
	}
	for j := i; j < len(f.steps) && f.steps[j].x < x2; j++ {
		right := min(f.end(j), x2)
		area, mulOK := mulChecked(right-f.steps[j].x, bottom-f.steps[j].y)
		if !mulOK {
			return 0, 0, false, errOverflow
		}
		waste, mulOK = addChecked(waste, area)
		if !mulOK {
			return 0, 0, false, errOverflow
		}
	}
	return bottom, waste, true, nil
}

// install raises the front to height yTop across [x, x+w), truncating the
// boundary steps, replacing the covered ones, and merging equal-height
// neighbors afterwards.
func (f *front) install(x, w, yTop int64) {
	x2 := x + w
	out := make([]step, 0, len(f.steps)+2)
	inserted := false
	for i := range f.steps {
		s := f.steps[i]
		e := f.end(i)
		switch {
		case e <= x:
			// Entirely left of the installed span.
			out = append(out, s)
		case s.x >= x2:
			// Entirely right of the installed span.
			if !inserted {
				out = append(out, step{x: x, y: yTop})
				inserted = true
			}
			out = append(out, s)
		default:
			if s.x < x {
				// Left remainder keeps its height over [s.x, x).
				out = append(out, s)
			}
			if !inserted {
				out = append(out, step{x: x, y: yTop})
				inserted = true
			}
			if e > x2 {
				// Right remainder keeps its height over [x+w, e).
				out = append(out, step{x: x2, y: s.y})
			}
		}
	}
	if !inserted {
		out = append(out, step{x: x, y: yTop})
	}
	f.steps = mergeSteps(out)
}

// mergeSteps collapses adjacent equal-height steps to bound the step count.
func mergeSteps(steps []step) []step {
	merged := steps[:0]
	for _, s := range steps {
		if n := len(merged); n > 0 && merged[n-1].y == s.y {
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
