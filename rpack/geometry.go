package rpack

import (
	"math/big"
)

// BboxSize 计算给定尺寸和位置的外包围盒。空输入返回零尺寸。
// 两个列表长度不一致时返回 ErrLengthMismatch，坐标运算超出机器
// 整数范围时返回 ErrResultRange（此时应使用 BboxSizeBig）。
func BboxSize(sizes []Size, positions []Point) (Size, error) {
	if len(sizes) != len(positions) {
		return Size{}, ErrLengthMismatch
	}
	var width, height int64
	for i := range sizes {
		right, ok := addChecked(int64(positions[i].X), int64(sizes[i].Width))
		if !ok {
			return Size{}, ErrResultRange
		}
		top, ok := addChecked(int64(positions[i].Y), int64(sizes[i].Height))
		if !ok {
			return Size{}, ErrResultRange
		}
		width = max(width, right)
		height = max(height, top)
	}
	return Size{Width: int(width), Height: int(height)}, nil
}

// EnclosingSize 是 BboxSize 的别名，保留早期版本的名称。
func EnclosingSize(sizes []Size, positions []Point) (Size, error) {
	return BboxSize(sizes, positions)
}

// PackingDensity 计算打包密度：矩形总面积与外包围盒面积之比。
// 单个矩形的密度是 1.0。中间量用任意精度整数计算，结果总是有限
// 浮点数。空输入没有定义的密度，返回 ErrEmptyInput。
func PackingDensity(sizes []Size, positions []Point) (float64, error) {
	if len(sizes) != len(positions) {
		return 0, ErrLengthMismatch
	}
	if len(sizes) == 0 {
		return 0, ErrEmptyInput
	}
	return packingDensityBig(toSizeBigs(sizes), toPointBigs(positions))
}

// Overlapping 返回第一对相互重叠的矩形下标 (i, j)，i < j，按下标
// 字典序取第一对。没有重叠时 found 为 false。
func Overlapping(sizes []Size, positions []Point) (i, j int, found bool, err error) {
	if len(sizes) != len(positions) {
		return 0, 0, false, ErrLengthMismatch
	}
	// 只有两个非负数相加才可能向上溢出
	edgeOverflows := func(a, b int64) bool {
		if a < 0 || b < 0 {
			return false
		}
		_, ok := addChecked(a, b)
		return !ok
	}
	rects := make([]Rect, len(sizes))
	for k := range sizes {
		// 边缘坐标超出机器整数范围时交给大整数比较
		if edgeOverflows(int64(positions[k].X), int64(sizes[k].Width)) ||
			edgeOverflows(int64(positions[k].Y), int64(sizes[k].Height)) {
			return OverlappingBig(toSizeBigs(sizes), toPointBigs(positions))
		}
		rects[k] = Rect{Point: positions[k], Size: sizes[k]}
	}
	for a := 0; a < len(rects); a++ {
		for b := a + 1; b < len(rects); b++ {
			if rects[a].Intersects(rects[b]) {
				return a, b, true, nil
			}
		}
	}
	return 0, 0, false, nil
}

// BboxSizeBig 是 BboxSize 的任意精度版本。
func BboxSizeBig(sizes []SizeBig, positions []PointBig) (SizeBig, error) {
	if len(sizes) != len(positions) {
		return SizeBig{}, ErrLengthMismatch
	}
	if err := validateBigPairs(sizes, positions); err != nil {
		return SizeBig{}, err
	}
	width, height := bigBBox(sizes, positions)
	return SizeBig{Width: width, Height: height}, nil
}

// PackingDensityBig 是 PackingDensity 的任意精度版本。
func PackingDensityBig(sizes []SizeBig, positions []PointBig) (float64, error) {
	if len(sizes) != len(positions) {
		return 0, ErrLengthMismatch
	}
	if len(sizes) == 0 {
		return 0, ErrEmptyInput
	}
	if err := validateBigPairs(sizes, positions); err != nil {
		return 0, err
	}
	return packingDensityBig(sizes, positions)
}

// OverlappingBig 是 Overlapping 的任意精度版本。
func OverlappingBig(sizes []SizeBig, positions []PointBig) (i, j int, found bool, err error) {
	if len(sizes) != len(positions) {
		return 0, 0, false, ErrLengthMismatch
	}
	if err := validateBigPairs(sizes, positions); err != nil {
		return 0, 0, false, err
	}
	n := len(sizes)
	right1, right2 := new(big.Int), new(big.Int)
	top1, top2 := new(big.Int), new(big.Int)
	for a := 0; a < n; a++ {
		right1.Add(positions[a].X, sizes[a].Width)
		top1.Add(positions[a].Y, sizes[a].Height)
		for b := a + 1; b < n; b++ {
			right2.Add(positions[b].X, sizes[b].Width)
			top2.Add(positions[b].Y, sizes[b].Height)
			disjointInX := right1.Cmp(positions[b].X) <= 0 || right2.Cmp(positions[a].X) <= 0
			disjointInY := top1.Cmp(positions[b].Y) <= 0 || top2.Cmp(positions[a].Y) <= 0
			if !disjointInX && !disjointInY {
				return a, b, true, nil
			}
		}
	}
	return 0, 0, false, nil
}

func packingDensityBig(sizes []SizeBig, positions []PointBig) (float64, error) {
	width, height := bigBBox(sizes, positions)
	boxArea := new(big.Int).Mul(width, height)
	if boxArea.Sign() == 0 {
		return 0, ErrSizeNotPositive
	}
	rectArea := new(big.Int)
	area := new(big.Int)
	for _, s := range sizes {
		area.Mul(s.Width, s.Height)
		rectArea.Add(rectArea, area)
	}
	ratio := new(big.Float).Quo(
		new(big.Float).SetInt(rectArea),
		new(big.Float).SetInt(boxArea),
	)
	density, _ := ratio.Float64()
	return density, nil
}

func validateBigPairs(sizes []SizeBig, positions []PointBig) error {
	for i := range sizes {
		if sizes[i].Width == nil || sizes[i].Height == nil ||
			positions[i].X == nil || positions[i].Y == nil {
			return ErrNilValue
		}
	}
	return nil
}

func toSizeBigs(sizes []Size) []SizeBig {
	out := make([]SizeBig, len(sizes))
	for i, s := range sizes {
		out[i] = SizeBig{Width: big.NewInt(int64(s.Width)), Height: big.NewInt(int64(s.Height))}
	}
	return out
}

func toPointBigs(positions []Point) []PointBig {
	out := make([]PointBig, len(positions))
	for i, p := range positions {
		out[i] = PointBig{X: big.NewInt(int64(p.X)), Y: big.NewInt(int64(p.Y))}
	}
	return out
}
