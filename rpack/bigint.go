package rpack

import (
	"errors"
	"fmt"
	"math/big"
)

// SizeBig 是 Size 的任意精度版本。
type SizeBig struct {
	Width, Height *big.Int
}

// PointBig 是 Point 的任意精度版本。
type PointBig struct {
	X, Y *big.Int
}

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
	// bigEngineMax 是引擎记账上限的大整数形式
	bigEngineMax = big.NewInt(engineMax)
)

// PackBig 是 PackBounded 的任意精度入口。尺寸和边界都用 *big.Int
// 表示，nil 边界表示不限制，负边界同样表示不限制。所有数值都在
// 引擎范围内时行为与 PackBounded 完全一致；超出范围的实例先做
// 逐轴 gcd 精确约减，仍放不下时用 2 的幂次向上取整近似，打包后
// 再缩放回原始单位并复核显式边界。
//
// 近似路径保证结果不重叠，但在苛刻的显式边界下可能出现假阴性
// （对原始单位可行的实例报告 PackingImpossibleError）。
func PackBig(sizes []SizeBig, maxWidth, maxHeight *big.Int) ([]PointBig, error) {
	for i, s := range sizes {
		if s.Width == nil || s.Height == nil {
			return nil, fmt.Errorf("rectangle %d: %w", i, ErrNilValue)
		}
		if s.Width.Sign() <= 0 || s.Height.Sign() <= 0 {
			return nil, fmt.Errorf("rectangle %d [%v, %v]: %w", i, s.Width, s.Height, ErrSizeNotPositive)
		}
	}
	return packBigCore(sizes, normalizeBigBound(maxWidth), normalizeBigBound(maxHeight))
}

// normalizeBigBound 将缺失或负的边界统一为 nil（不限制）。
func normalizeBigBound(bound *big.Int) *big.Int {
	if bound == nil || bound.Sign() < 0 {
		return nil
	}
	return bound
}

// packBigCore 是大整数管线的主体。sizes 已通过校验，边界已规范化。
func packBigCore(sizes []SizeBig, maxWidth, maxHeight *big.Int) ([]PointBig, error) {
	if len(sizes) == 0 {
		return []PointBig{}, nil
	}
	if maxWidth != nil && maxWidth.Sign() == 0 {
		return nil, &PackingImpossibleError{Reason: reasonWidthZero, BigPositions: []PointBig{}}
	}
	if maxHeight != nil && maxHeight.Sign() == 0 {
		return nil, &PackingImpossibleError{Reason: reasonHeightZero, BigPositions: []PointBig{}}
	}
	for i, s := range sizes {
		if maxWidth != nil && s.Width.Cmp(maxWidth) > 0 {
			return nil, &PackingImpossibleError{
				Reason:       fmt.Sprintf("max_width %v too small: rectangle %d is %v wide", maxWidth, i, s.Width),
				BigPositions: []PointBig{},
			}
		}
		if maxHeight != nil && s.Height.Cmp(maxHeight) > 0 {
			return nil, &PackingImpossibleError{
				Reason:       fmt.Sprintf("max_height %v too small: rectangle %d is %v tall", maxHeight, i, s.Height),
				BigPositions: []PointBig{},
			}
		}
	}

	sumW, sumH := bigAxisSums(sizes)
	// 达到或超过单轴尺寸总和的边界不可能被违反；在近似之前丢弃，
	// 避免只因近似产生的假阴性
	effMW, effMH := maxWidth, maxHeight
	if effMW != nil && effMW.Cmp(sumW) >= 0 {
		effMW = nil
	}
	if effMH != nil && effMH.Cmp(sumH) >= 0 {
		effMH = nil
	}

	// 范围内的实例直接进引擎，与机器整数入口走同一条搜索路径
	if fitsEngineBig(sizes, effMW, effMH) {
		positions, overflow, err := runEngineBig(sizes, effMW, effMH, bigOne, bigOne, sizes, maxWidth, maxHeight)
		if !overflow {
			if err != nil {
				return nil, err
			}
			return positions, nil
		}
	}

	// 逐轴 gcd 精确约减
	reduced, redMW, redMH, gW, gH := reduceByAxisGCD(sizes, effMW, effMH)
	redSumW, redSumH := bigAxisSums(reduced)
	if redMW != nil && redMW.Cmp(redSumW) >= 0 {
		redMW = nil
	}
	if redMH != nil && redMH.Cmp(redSumH) >= 0 {
		redMH = nil
	}

	scale := initialApproxScale(reduced, redMW, redMH)
	for {
		scaled, scMW, scMH := buildApproximation(reduced, redMW, redMH, scale)
		// 近似产物检查：向下取整把正边界压成 0 说明近似过粗，
		// 这是被接受的假阴性，但要给出明确的原因
		if scMW != nil && scMW.Sign() == 0 && maxWidth != nil && maxWidth.Sign() > 0 {
			return nil, &PackingImpossibleError{Reason: reasonWidthApprox, BigPositions: []PointBig{}}
		}
		if scMH != nil && scMH.Sign() == 0 && maxHeight != nil && maxHeight.Sign() > 0 {
			return nil, &PackingImpossibleError{Reason: reasonHeightApprox, BigPositions: []PointBig{}}
		}
		if !fitsEngineBig(scaled, scMW, scMH) {
			scale = new(big.Int).Mul(scale, bigTwo)
			continue
		}

		factorX := new(big.Int).Mul(gW, scale)
		factorY := new(big.Int).Mul(gH, scale)
		positions, overflow, err := runEngineBig(scaled, scMW, scMH, factorX, factorY, sizes, maxWidth, maxHeight)
		if overflow {
			// 引擎在近似实例上仍然溢出，加倍比例后重试
			scale = new(big.Int).Mul(scale, bigTwo)
			continue
		}
		if err != nil {
			return nil, err
		}
		return positions, nil
	}
}

// runEngineBig 在一个已确认进入引擎范围的实例上运行宽度搜索，把
// 结果按轴缩放回原始单位，并用原始边界复核。overflow=true 表示
// 引擎记账溢出，调用方应加倍近似比例后重试。
func runEngineBig(inst []SizeBig, mw, mh *big.Int, factorX, factorY *big.Int, orig []SizeBig, origMW, origMH *big.Int) (positions []PointBig, overflow bool, err error) {
	rects, emw, emh := engineInstance(inst, mw, mh)
	placed, serr := searchWidths(rects, emw, emh)
	if errors.Is(serr, errOverflow) {
		return nil, true, nil
	}
	var fail *packFailure
	if errors.As(serr, &fail) {
		return nil, false, &PackingImpossibleError{
			Reason:       fail.reason,
			BigPositions: rescalePlacements(fail.placed, factorX, factorY),
		}
	}
	if serr != nil {
		return nil, false, serr
	}
	positions = rescalePlacements(placed, factorX, factorY)
	// 用原始单位的任意精度运算复核显式边界。向上取整放大了矩形，
	// 缩放回去后外包围盒可能超出原始边界
	if err := enforceBigBounds(orig, positions, origMW, origMH); err != nil {
		return nil, false, err
	}
	return positions, false, nil
}

// bigAxisSums 返回所有宽度之和与所有高度之和。
func bigAxisSums(sizes []SizeBig) (sumW, sumH *big.Int) {
	sumW, sumH = new(big.Int), new(big.Int)
	for _, s := range sizes {
		sumW.Add(sumW, s.Width)
		sumH.Add(sumH, s.Height)
	}
	return sumW, sumH
}

// reduceByAxisGCD 对两条轴分别做 gcd 精确约减。约减是精确的：
// 把结果坐标按轴乘回 gcd 即还原。两条轴的 gcd 都为 1 时原样返回。
func reduceByAxisGCD(sizes []SizeBig, maxWidth, maxHeight *big.Int) (reduced []SizeBig, redMW, redMH, gW, gH *big.Int) {
	gW = new(big.Int).Set(sizes[0].Width)
	gH = new(big.Int).Set(sizes[0].Height)
	for _, s := range sizes[1:] {
		gW.GCD(nil, nil, gW, s.Width)
		gH.GCD(nil, nil, gH, s.Height)
		if gW.Cmp(bigOne) == 0 && gH.Cmp(bigOne) == 0 {
			break
		}
	}
	if gW.Cmp(bigOne) <= 0 && gH.Cmp(bigOne) <= 0 {
		return sizes, maxWidth, maxHeight, bigOne, bigOne
	}
	reduced = make([]SizeBig, len(sizes))
	for i, s := range sizes {
		reduced[i] = SizeBig{
			Width:  new(big.Int).Div(s.Width, gW),
			Height: new(big.Int).Div(s.Height, gH),
		}
	}
	if maxWidth != nil {
		redMW = new(big.Int).Div(maxWidth, gW)
	}
	if maxHeight != nil {
		redMH = new(big.Int).Div(maxHeight, gH)
	}
	return reduced, redMW, redMH, gW, gH
}

// buildApproximation 构造保守近似：每条边按 scale 向上取整，
// 边界按 scale 向下取整。ceil(w/s)*s >= w，因此近似解缩放回原始
// 单位后不可能重叠。
func buildApproximation(sizes []SizeBig, maxWidth, maxHeight, scale *big.Int) (scaled []SizeBig, scMW, scMH *big.Int) {
	if scale.Cmp(bigOne) == 0 {
		return sizes, maxWidth, maxHeight
	}
	scaled = make([]SizeBig, len(sizes))
	for i, s := range sizes {
		scaled[i] = SizeBig{
			Width:  bigCeilDiv(s.Width, scale),
			Height: bigCeilDiv(s.Height, scale),
		}
	}
	if maxWidth != nil {
		scMW = new(big.Int).Div(maxWidth, scale)
	}
	if maxHeight != nil {
		scMH = new(big.Int).Div(maxHeight, scale)
	}
	return scaled, scMW, scMH
}

// fitsEngineBig 判断实例的全部记账值是否都落在引擎的整数范围内。
func fitsEngineBig(sizes []SizeBig, maxWidth, maxHeight *big.Int) bool {
	if maxWidth != nil && maxWidth.Cmp(bigEngineMax) > 0 {
		return false
	}
	if maxHeight != nil && maxHeight.Cmp(bigEngineMax) > 0 {
		return false
	}
	sumW, sumH := new(big.Int), new(big.Int)
	totalArea := new(big.Int)
	area := new(big.Int)
	for _, s := range sizes {
		if s.Width.Cmp(bigEngineMax) > 0 || s.Height.Cmp(bigEngineMax) > 0 {
			return false
		}
		area.Mul(s.Width, s.Height)
		if area.Cmp(bigEngineMax) > 0 {
			return false
		}
		sumW.Add(sumW, s.Width)
		sumH.Add(sumH, s.Height)
		if sumW.Cmp(bigEngineMax) > 0 || sumH.Cmp(bigEngineMax) > 0 {
			return false
		}
		totalArea.Add(totalArea, area)
		if totalArea.Cmp(bigEngineMax) > 0 {
			return false
		}
	}
	return true
}

// initialApproxScale 估计首个 2 的幂次近似比例，使得近似后的实例
// 大概率能放进引擎的整数范围。面积项是比例的平方关系，这两个
// 开方项避免了大量的加倍重试。
func initialApproxScale(sizes []SizeBig, maxWidth, maxHeight *big.Int) *big.Int {
	minScale := new(big.Int).Set(bigOne)
	sumW, sumH := new(big.Int), new(big.Int)
	maxRectArea := new(big.Int)
	totalArea := new(big.Int)
	for _, s := range sizes {
		bigMaxInPlace(minScale, bigCeilDiv(s.Width, bigEngineMax))
		bigMaxInPlace(minScale, bigCeilDiv(s.Height, bigEngineMax))
		sumW.Add(sumW, s.Width)
		sumH.Add(sumH, s.Height)
		area := new(big.Int).Mul(s.Width, s.Height)
		if area.Cmp(maxRectArea) > 0 {
			maxRectArea.Set(area)
		}
		totalArea.Add(totalArea, area)
	}
	bigMaxInPlace(minScale, bigCeilDiv(sumW, bigEngineMax))
	bigMaxInPlace(minScale, bigCeilDiv(sumH, bigEngineMax))
	if maxWidth != nil && maxWidth.Cmp(sumW) < 0 {
		bigMaxInPlace(minScale, minScaleForFloorBound(maxWidth))
	}
	if maxHeight != nil && maxHeight.Cmp(sumH) < 0 {
		bigMaxInPlace(minScale, minScaleForFloorBound(maxHeight))
	}
	if maxRectArea.Cmp(bigEngineMax) > 0 {
		bigMaxInPlace(minScale, bigCeilSqrt(bigCeilDiv(maxRectArea, bigEngineMax)))
	}
	if totalArea.Cmp(bigEngineMax) > 0 {
		bigMaxInPlace(minScale, bigCeilSqrt(bigCeilDiv(totalArea, bigEngineMax)))
	}
	return bigNextPow2(minScale)
}

// minScaleForFloorBound 返回使 bound/scale 能进入引擎范围的最小比例。
func minScaleForFloorBound(bound *big.Int) *big.Int {
	if bound.Cmp(bigEngineMax) <= 0 {
		return bigOne
	}
	s := new(big.Int).Add(bigEngineMax, bigOne)
	s.Div(bound, s)
	return s.Add(s, bigOne)
}

// engineInstance 把已确认在范围内的近似实例转换为引擎单位。
func engineInstance(sizes []SizeBig, maxWidth, maxHeight *big.Int) (rects []erect, mw, mh int64) {
	rects = make([]erect, len(sizes))
	for i, s := range sizes {
		w, h := s.Width.Int64(), s.Height.Int64()
		rects[i] = erect{w: w, h: h, area: w * h, index: i}
	}
	mw, mh = noBound, noBound
	if maxWidth != nil {
		mw = maxWidth.Int64()
	}
	if maxHeight != nil {
		mh = maxHeight.Int64()
	}
	return rects, mw, mh
}

// rescalePlacements 把引擎坐标按轴缩放回原始单位。
func rescalePlacements(placed []eplace, factorX, factorY *big.Int) []PointBig {
	positions := make([]PointBig, len(placed))
	for i, p := range placed {
		positions[i] = PointBig{
			X: new(big.Int).Mul(big.NewInt(p.x), factorX),
			Y: new(big.Int).Mul(big.NewInt(p.y), factorY),
		}
	}
	return positions
}

// enforceBigBounds 用任意精度运算复核显式边界。
func enforceBigBounds(sizes []SizeBig, positions []PointBig, maxWidth, maxHeight *big.Int) error {
	width, height := bigBBox(sizes, positions)
	if maxWidth != nil && width.Cmp(maxWidth) > 0 {
		return &PackingImpossibleError{Reason: reasonWidthFinal, BigPositions: positions}
	}
	if maxHeight != nil && height.Cmp(maxHeight) > 0 {
		return &PackingImpossibleError{Reason: reasonHeightFinal, BigPositions: positions}
	}
	return nil
}

// bigBBox 计算外包围盒的宽高。
func bigBBox(sizes []SizeBig, positions []PointBig) (width, height *big.Int) {
	width, height = new(big.Int), new(big.Int)
	edge := new(big.Int)
	for i := range sizes {
		edge.Add(positions[i].X, sizes[i].Width)
		if edge.Cmp(width) > 0 {
			width.Set(edge)
		}
		edge.Add(positions[i].Y, sizes[i].Height)
		if edge.Cmp(height) > 0 {
			height.Set(edge)
		}
	}
	return width, height
}

// packIntThroughBig 是机器整数入口进入大整数管线的桥接。
func packIntThroughBig(sizes []Size, mw, mh int64) ([]Point, error) {
	bigSizes := make([]SizeBig, len(sizes))
	for i, s := range sizes {
		bigSizes[i] = SizeBig{
			Width:  big.NewInt(int64(s.Width)),
			Height: big.NewInt(int64(s.Height)),
		}
	}
	var bmw, bmh *big.Int
	if mw != noBound {
		bmw = big.NewInt(mw)
	}
	if mh != noBound {
		bmh = big.NewInt(mh)
	}
	positions, err := packBigCore(bigSizes, bmw, bmh)
	if err != nil {
		var impossible *PackingImpossibleError
		if errors.As(err, &impossible) {
			if points, ok := bigToPoints(impossible.BigPositions); ok {
				return nil, &PackingImpossibleError{Reason: impossible.Reason, Positions: points}
			}
		}
		return nil, err
	}
	points, ok := bigToPoints(positions)
	if !ok {
		return nil, ErrResultRange
	}
	return points, nil
}

func bigToPoints(positions []PointBig) ([]Point, bool) {
	points := make([]Point, len(positions))
	for i, p := range positions {
		if !p.X.IsInt64() || !p.Y.IsInt64() {
			return nil, false
		}
		x, y := p.X.Int64(), p.Y.Int64()
		if int64(int(x)) != x || int64(int(y)) != y {
			return nil, false
		}
		points[i] = Point{X: int(x), Y: int(y)}
	}
	return points, true
}

// bigCeilDiv 返回 ceil(a/b)，a 为非负数，b 为正数。
func bigCeilDiv(a, b *big.Int) *big.Int {
	t := new(big.Int).Add(a, b)
	t.Sub(t, bigOne)
	return t.Div(t, b)
}

// bigCeilSqrt 返回 ceil(sqrt(v))，v 为非负数。
func bigCeilSqrt(v *big.Int) *big.Int {
	r := new(big.Int).Sqrt(v)
	if new(big.Int).Mul(r, r).Cmp(v) == 0 {
		return r
	}
	return r.Add(r, bigOne)
}

// bigNextPow2 把 v 向上取整到 2 的幂次，最小为 1。
func bigNextPow2(v *big.Int) *big.Int {
	if v.Cmp(bigOne) <= 0 {
		return new(big.Int).Set(bigOne)
	}
	t := new(big.Int).Sub(v, bigOne)
	return new(big.Int).Lsh(bigOne, uint(t.BitLen()))
}

func bigMaxInPlace(dst, v *big.Int) {
	if v.Cmp(dst) > 0 {
		dst.Set(v)
	}
}
