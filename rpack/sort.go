package rpack

import (
	"cmp"
	"slices"
)

// orderFunc 定义矩形排序比较函数的原型
// 返回值:
//
//	-1: a 在 b 之前
//	 0: a == b
//	 1: a 在 b 之后
type orderFunc func(a, b erect) int

// orderings 是搜索驱动器尝试的全部排序启发式。
// 固定的闭合集合，顺序即尝试顺序。
var orderings = []orderFunc{
	orderHeight,
	orderWidth,
	orderMaxSide,
	orderArea,
	orderPerimeter,
}

// orderHeight 按高度降序排序，高度相同时按宽度降序
func orderHeight(a, b erect) int {
	if c := cmp.Compare(b.h, a.h); c != 0 {
		return c
	}
	if c := cmp.Compare(b.w, a.w); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// orderWidth 按宽度降序排序，宽度相同时按高度降序
func orderWidth(a, b erect) int {
	if c := cmp.Compare(b.w, a.w); c != 0 {
		return c
	}
	if c := cmp.Compare(b.h, a.h); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// orderMaxSide 按最长边降序排序，相同时按最短边降序
func orderMaxSide(a, b erect) int {
	if c := cmp.Compare(max(b.w, b.h), max(a.w, a.h)); c != 0 {
		return c
	}
	if c := cmp.Compare(min(b.w, b.h), min(a.w, a.h)); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// orderArea 按面积降序排序
func orderArea(a, b erect) int {
	if c := cmp.Compare(b.area, a.area); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// orderPerimeter 按周长降序排序
func orderPerimeter(a, b erect) int {
	if c := cmp.Compare(b.w+b.h, a.w+a.h); c != 0 {
		return c
	}
	return cmp.Compare(a.index, b.index)
}

// orderedCopies 为每个排序启发式生成一份排好序的输入副本。
// 排序与候选宽度无关，因此在宽度搜索前只做一次。
func orderedCopies(rects []erect) [][]erect {
	copies := make([][]erect, len(orderings))
	for i, order := range orderings {
		c := slices.Clone(rects)
		slices.SortFunc(c, order)
		copies[i] = c
	}
	return copies
}
