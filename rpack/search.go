package rpack

import (
	"cmp"
	"slices"
)

// exhaustiveSpan 是允许逐一枚举候选宽度的最大区间长度。
// 更宽的区间先做几何粗搜，再围绕最优宽度细化。
const exhaustiveSpan = 4096

// packFailure 是搜索驱动器的内部失败结果：没有任何宽度产生完整
// 打包。placed 携带放置数量最多的部分结果，按输入顺序排列。
type packFailure struct {
	reason string
	placed []eplace
}

func (e *packFailure) Error() string { return e.reason }

// fullResult 是一次成功的整体打包及其评分要素。
type fullResult struct {
	width, height int64
	area          int64
	placed        []eplace // 按输入顺序
}

// better 判断 f 是否严格优于 b。评分依次比较面积、最长边、
// 周长，最后按放置向量的字典序决出，完全相同时保留旧结果。
func (f *fullResult) better(b *fullResult) bool {
	if f.area != b.area {
		return f.area < b.area
	}
	if fs, bs := max(f.width, f.height), max(b.width, b.height); fs != bs {
		return fs < bs
	}
	if fp, bp := f.width+f.height, b.width+b.height; fp != bp {
		return fp < bp
	}
	return lexLess(f.placed, b.placed)
}

// partialResult 是一次越界中止的部分打包及其评分要素。
type partialResult struct {
	placedArea int64
	placed     []eplace // 按输入顺序
}

// better 判断 p 是否严格优于 b：放置数量多者胜，再比已放置
// 面积，最后按放置向量的字典序。
func (p *partialResult) better(b *partialResult) bool {
	if len(p.placed) != len(b.placed) {
		return len(p.placed) > len(b.placed)
	}
	if p.placedArea != b.placedArea {
		return p.placedArea > b.placedArea
	}
	return lexLess(p.placed, b.placed)
}

func lexLess(a, b []eplace) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i].x != b[i].x {
			return a[i].x < b[i].x
		}
		if a[i].y != b[i].y {
			return a[i].y < b[i].y
		}
	}
	return false
}

func sortByIndex(placed []eplace) {
	slices.SortFunc(placed, func(a, b eplace) int {
		return cmp.Compare(a.index, b.index)
	})
}

// searchWidths 在候选外框宽度上做确定性搜索，对每个宽度尝试全部
// 排序启发式，保留最优的完整打包。调用方必须保证输入非空、每条边
// 不超过对应的显式边界、且所有记账值都不超过 engineMax。
//
// 成功时返回按输入顺序排列的放置结果；所有宽度都未能产生完整打包
// 时返回 *packFailure；引擎记账溢出时返回 errOverflow。
func searchWidths(rects []erect, maxWidth, maxHeight int64) ([]eplace, error) {
	var sumW, totalArea, maxw, maxh int64
	areaByIndex := make(map[int]int64, len(rects))
	for _, r := range rects {
		sumW += r.w
		totalArea += r.area
		maxw = max(maxw, r.w)
		maxh = max(maxh, r.h)
		areaByIndex[r.index] = r.area
	}
	wUp := sumW
	if maxWidth >= 0 && maxWidth < wUp {
		wUp = maxWidth
	}
	wLo := maxw

	ordered := orderedCopies(rects)
	var best *fullResult
	var bestPart *partialResult

	considerPartial := func(placed []eplace) {
		p := slices.Clone(placed)
		sortByIndex(p)
		var area int64
		for _, pl := range p {
			area += areaByIndex[pl.index]
		}
		cand := &partialResult{placedArea: area, placed: p}
		if bestPart == nil || cand.better(bestPart) {
			bestPart = cand
		}
	}

	tryWidth := func(w int64) error {
		if w < wLo || w > wUp {
			return nil
		}
		if best != nil {
			// 剪枝：该宽度理论上的最小面积已不优于当前最优。
			// 下界乘积溢出时同样不可能更优。
			hMin := max(maxh, ceilDiv(totalArea, w))
			lower, ok := mulChecked(w, hMin)
			if !ok || lower >= best.area {
				return nil
			}
		}
		for _, rs := range ordered {
			placed, h, full, err := packInto(rs, w, maxHeight)
			if err == errInfeasible {
				// 可行性只取决于宽度和高度边界，与排序无关
				break
			}
			if err != nil {
				return err
			}
			if !full {
				considerPartial(placed)
				continue
			}
			area, ok := mulChecked(w, h)
			if !ok {
				return errOverflow
			}
			p := slices.Clone(placed)
			sortByIndex(p)
			cand := &fullResult{width: w, height: h, area: area, placed: p}
			if best == nil || cand.better(best) {
				best = cand
			}
		}
		return nil
	}

	if wUp-wLo+1 <= exhaustiveSpan {
		for w := wUp; w >= wLo; w-- {
			if err := tryWidth(w); err != nil {
				return nil, err
			}
		}
	} else {
		// 粗搜：几何下降遍历宽度区间
		for w := wUp; ; {
			if err := tryWidth(w); err != nil {
				return nil, err
			}
			if w == wLo {
				break
			}
			next := w - max(1, w/16)
			if next < wLo {
				next = wLo
			}
			w = next
		}
		// 理论上最接近正方形的宽度附近逐一尝试
		anchor := max(wLo, min(wUp, ceilSqrt(totalArea)))
		for w := min(wUp, anchor+16); w >= max(wLo, anchor-16); w-- {
			if err := tryWidth(w); err != nil {
				return nil, err
			}
		}
		// 细化：围绕当前最优宽度逐步缩小步长
		if best != nil {
			radius := max(1, best.width/16)
			for {
				stepSize := max(1, radius/8)
				hi := min(wUp, best.width+radius)
				lo := max(wLo, best.width-radius)
				for w := hi; w >= lo; w -= stepSize {
					if err := tryWidth(w); err != nil {
						return nil, err
					}
				}
				if stepSize == 1 {
					break
				}
				radius = stepSize
			}
		}
	}

	if best != nil {
		return best.placed, nil
	}
	if bestPart != nil {
		return nil, &packFailure{reason: reasonPartial, placed: bestPart.placed}
	}
	return nil, &packFailure{reason: reasonPartial}
}
