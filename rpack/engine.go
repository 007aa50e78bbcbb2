package rpack

// erect is a rectangle in engine units, tagged with its input index so
// results can be reported in input order.
type erect struct {
	w, h  int64
	area  int64
	index int
}

// eplace is one placement produced by the engine.
type eplace struct {
	index int
	x, y  int64
}

// noBound marks an absent height/width bound inside the engine.
const noBound = int64(-1)

// bestFit enumerates the candidate placements of one rectangle on the
// front and selects the lexicographically minimal (top, x, waste) one.
// Candidates whose top would exceed maxHeight are rejected. Reports
// found=false when no candidate remains.
func bestFit(f *front, w, h, maxHeight int64) (x, bottom int64, found bool, err error) {
	var bestTop, bestX, bestWaste int64
	for i := range f.steps {
		cb, cw, ok, ferr := f.fit(i, w)
		if ferr != nil {
			return 0, 0, false, ferr
		}
		if !ok {
			continue
		}
		top := cb + h
		if maxHeight >= 0 && top > maxHeight {
			continue
		}
		cx := f.steps[i].x
		if found {
			if top > bestTop {
				continue
			}
			if top == bestTop && cx > bestX {
				continue
			}
			if top == bestTop && cx == bestX && cw >= bestWaste {
				continue
			}
		}
		bestTop, bestX, bestWaste = top, cx, cw
		x, bottom = cx, cb
		found = true
	}
	return x, bottom, found, nil
}

// packInto places the rectangles, in the given order, into an enclosure of
// fixed width with an optional height bound. Outcomes:
//
//   - full=true: every rectangle was placed; height is the achieved
//     enclosing height.
//   - full=false, err=nil: the height bound was violated mid-run; placed
//     holds the placements made so far.
//   - err=errInfeasible: some rectangle cannot fit this width (or exceeds
//     the height bound on its own); no partial output.
//   - err=errOverflow: engine bookkeeping left the integer range.
func packInto(rects []erect, width, maxHeight int64) (placed []eplace, height int64, full bool, err error) {
	for _, r := range rects {
		if r.w > width {
			return nil, 0, false, errInfeasible
		}
		if maxHeight >= 0 && r.h > maxHeight {
			return nil, 0, false, errInfeasible
		}
	}
	f := newFront(width)
	placed = make([]eplace, 0, len(rects))
	for _, r := range rects {
		x, bottom, found, fitErr := bestFit(f, r.w, r.h, maxHeight)
		if fitErr != nil {
			return nil, 0, false, fitErr
		}
		if !found {
			// Only reachable under a height bound: without one the
			// width pre-check guarantees a candidate at every step.
			return placed, height, false, nil
		}
		f.install(x, r.w, bottom+r.h)
		placed = append(placed, eplace{index: r.index, x: x, y: bottom})
		if top := bottom + r.h; top > height {
			height = top
		}
	}
	return placed, height, true, nil
}
