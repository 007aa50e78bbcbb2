package rpack

import (
	"errors"
	"fmt"
)

// Unbounded 作为 PackBounded 的边界参数时表示该方向没有上限。
// 任何负值都有同样的效果。
const Unbounded = -1

// Pack 计算所有矩形的放置位置，使外包围盒面积尽可能小。
// 返回与输入同序的左下角坐标列表。输入无需预先排序，算法内部
// 会按多种启发式排序后择优。
//
// 参数:
//
//	sizes - 矩形尺寸列表(宽高必须为正整数)
//
// 返回:
//
//	[]Point - 与输入同序的放置坐标
//	error - 输入非法时返回校验错误
func Pack(sizes []Size) ([]Point, error) {
	return PackBounded(sizes, Unbounded, Unbounded)
}

// PackBounded 在外包围盒宽高上限的约束下打包矩形。
// 负的边界值表示该方向不限制。无法满足边界时返回
// *PackingImpossibleError，其中携带已放置部分的坐标。
//
// 参数:
//
//	sizes - 矩形尺寸列表(宽高必须为正整数)
//	maxWidth - 外包围盒宽度上限，负值表示不限制
//	maxHeight - 外包围盒高度上限，负值表示不限制
//
// 返回:
//
//	[]Point - 与输入同序的放置坐标
//	error - 校验错误或 *PackingImpossibleError
func PackBounded(sizes []Size, maxWidth, maxHeight int) ([]Point, error) {
	for i, s := range sizes {
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("rectangle %d %s: %w", i, s.String(), ErrSizeNotPositive)
		}
	}
	if len(sizes) == 0 {
		return []Point{}, nil
	}
	mw, mh := int64(maxWidth), int64(maxHeight)
	if mw < 0 {
		mw = noBound
	}
	if mh < 0 {
		mh = noBound
	}
	if mw == 0 {
		return nil, &PackingImpossibleError{Reason: reasonWidthZero, Positions: []Point{}}
	}
	if mh == 0 {
		return nil, &PackingImpossibleError{Reason: reasonHeightZero, Positions: []Point{}}
	}
	for i, s := range sizes {
		if mw != noBound && int64(s.Width) > mw {
			return nil, &PackingImpossibleError{
				Reason:    fmt.Sprintf("max_width %d too small: rectangle %d is %d wide", maxWidth, i, s.Width),
				Positions: []Point{},
			}
		}
		if mh != noBound && int64(s.Height) > mh {
			return nil, &PackingImpossibleError{
				Reason:    fmt.Sprintf("max_height %d too small: rectangle %d is %d tall", maxHeight, i, s.Height),
				Positions: []Point{},
			}
		}
	}

	rects, sumW, sumH, fits := buildEngineRects(sizes)
	if !fits {
		return packIntThroughBig(sizes, mw, mh)
	}
	// 达到或超过单轴尺寸总和的边界不可能被违反，当作不限制
	if mw != noBound && mw >= sumW {
		mw = noBound
	}
	if mh != noBound && mh >= sumH {
		mh = noBound
	}

	placed, err := searchWidths(rects, mw, mh)
	if errors.Is(err, errOverflow) {
		return packIntThroughBig(sizes, mw, mh)
	}
	var fail *packFailure
	if errors.As(err, &fail) {
		return nil, &PackingImpossibleError{Reason: fail.reason, Positions: toPoints(fail.placed)}
	}
	if err != nil {
		return nil, err
	}
	return toPoints(placed), nil
}

// buildEngineRects 将输入尺寸转换为引擎单位，同时校验所有记账值
// （单边、单个面积、宽高总和、面积总和）都不超过 engineMax。
// 任何一项超限都意味着需要走大整数回退管线。
func buildEngineRects(sizes []Size) (rects []erect, sumW, sumH int64, ok bool) {
	rects = make([]erect, len(sizes))
	var totalArea int64
	for i, s := range sizes {
		w, h := int64(s.Width), int64(s.Height)
		if w > engineMax || h > engineMax {
			return nil, 0, 0, false
		}
		area, mulOK := mulChecked(w, h)
		if !mulOK || area > engineMax {
			return nil, 0, 0, false
		}
		sumW += w
		sumH += h
		if sumW > engineMax || sumH > engineMax {
			return nil, 0, 0, false
		}
		totalArea += area
		if totalArea > engineMax {
			return nil, 0, 0, false
		}
		rects[i] = erect{w: w, h: h, area: area, index: i}
	}
	return rects, sumW, sumH, true
}

func toPoints(placed []eplace) []Point {
	points := make([]Point, len(placed))
	for i, p := range placed {
		points[i] = Point{X: int(p.x), Y: int(p.y)}
	}
	return points
}
