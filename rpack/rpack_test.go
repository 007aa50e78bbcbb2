package rpack

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackOrigin(t *testing.T) {
	// Single rectangle should be positioned in origin
	positions, err := Pack([]Size{{Width: 3, Height: 5}})
	require.NoError(t, err)
	assert.Equal(t, []Point{{X: 0, Y: 0}}, positions)
}

func TestPackEmpty(t *testing.T) {
	// Empty input should give empty output
	positions, err := Pack(nil)
	require.NoError(t, err)
	assert.Empty(t, positions)

	positions, err = PackBounded([]Size{}, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestPackPerfect(t *testing.T) {
	// 三个矩形恰好填满 5x3 的外包围盒
	sizes := []Size{{3, 3}, {2, 2}, {2, 1}}
	positions, err := Pack(sizes)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {3, 0}, {3, 2}}, positions)

	bbox, err := BboxSize(sizes, positions)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 5, Height: 3}, bbox)

	density, err := PackingDensity(sizes, positions)
	require.NoError(t, err)
	assert.Equal(t, 1.0, density)
}

func TestPackBasic(t *testing.T) {
	sizes := []Size{{2, 2}, {2, 2}, {2, 2}, {3, 3}}
	positions, err := Pack(sizes)
	require.NoError(t, err)
	bbox, err := BboxSize(sizes, positions)
	require.NoError(t, err)
	assert.Equal(t, 25, bbox.Width*bbox.Height)
	_, _, found, err := Overlapping(sizes, positions)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPackMedium(t *testing.T) {
	// 20..2 的正方形，外包围盒面积不超过 3045
	var sizes []Size
	for i := 20; i >= 2; i-- {
		sizes = append(sizes, Size{Width: i, Height: i})
	}
	positions, err := Pack(sizes)
	require.NoError(t, err)
	require.Len(t, positions, len(sizes))

	bbox, err := BboxSize(sizes, positions)
	require.NoError(t, err)
	assert.LessOrEqual(t, bbox.Width*bbox.Height, 3045)

	_, _, found, err := Overlapping(sizes, positions)
	require.NoError(t, err)
	assert.False(t, found)

	density, err := PackingDensity(sizes, positions)
	require.NoError(t, err)
	assert.LessOrEqual(t, density, 1.0)
}

func TestPackForcedColumn(t *testing.T) {
	// 宽度上限迫使四个 2x2 叠成一列
	sizes := []Size{{2, 2}, {2, 2}, {2, 2}, {2, 2}}
	positions, err := PackBounded(sizes, 3, Unbounded)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]Point{{0, 0}, {0, 2}, {0, 4}, {0, 6}},
		positions,
	)
}

func TestPackPartialResult(t *testing.T) {
	sizes := make([]Size, 10)
	for i := range sizes {
		sizes[i] = Size{Width: 10, Height: 1}
	}
	_, err := PackBounded(sizes, 50, 1)
	var impossible *PackingImpossibleError
	require.ErrorAs(t, err, &impossible)
	assert.Contains(t, impossible.Reason, "Partial result")
	assert.Equal(t,
		[]Point{{0, 0}, {10, 0}, {20, 0}, {30, 0}, {40, 0}},
		impossible.Positions,
	)
}

func TestPackRectExceedsBound(t *testing.T) {
	var impossible *PackingImpossibleError

	_, err := PackBounded([]Size{{5, 5}}, 4, Unbounded)
	require.ErrorAs(t, err, &impossible)
	assert.Contains(t, impossible.Reason, "max_width")
	assert.Empty(t, impossible.Positions)

	_, err = PackBounded([]Size{{5, 5}}, Unbounded, 4)
	require.ErrorAs(t, err, &impossible)
	assert.Contains(t, impossible.Reason, "max_height")
}

func TestPackZeroBound(t *testing.T) {
	var impossible *PackingImpossibleError

	_, err := PackBounded([]Size{{1, 1}}, 0, Unbounded)
	require.ErrorAs(t, err, &impossible)
	assert.Contains(t, impossible.Reason, "max_width zero")

	_, err = PackBounded([]Size{{1, 1}}, Unbounded, 0)
	require.ErrorAs(t, err, &impossible)
	assert.Contains(t, impossible.Reason, "max_height zero")

	// 空输入时零边界无矩形可违反
	positions, err := PackBounded(nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestPackNegativeBoundMeansUnbounded(t *testing.T) {
	sizes := []Size{{4, 3}, {2, 5}, {7, 1}}
	unbounded, err := Pack(sizes)
	require.NoError(t, err)
	negative, err := PackBounded(sizes, -7, -1)
	require.NoError(t, err)
	assert.Equal(t, unbounded, negative)
}

func TestPackNonBindingBound(t *testing.T) {
	// 达到单轴总和的边界不改变结果
	sizes := []Size{{4, 3}, {2, 5}, {7, 1}}
	unbounded, err := Pack(sizes)
	require.NoError(t, err)
	bounded, err := PackBounded(sizes, 13, 9)
	require.NoError(t, err)
	assert.Equal(t, unbounded, bounded)
}

func TestPackValueError(t *testing.T) {
	_, err := Pack([]Size{{0, 5}})
	require.ErrorIs(t, err, ErrSizeNotPositive)
	_, err = Pack([]Size{{5, -2}})
	require.ErrorIs(t, err, ErrSizeNotPositive)
}

func TestPackDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sizes := make([]Size, 40)
	for i := range sizes {
		sizes[i] = Size{Width: rng.Intn(50) + 1, Height: rng.Intn(50) + 1}
	}
	first, err := Pack(sizes)
	require.NoError(t, err)
	second, err := Pack(sizes)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPackInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 10; round++ {
		n := rng.Intn(30) + 1
		sizes := make([]Size, n)
		for i := range sizes {
			sizes[i] = Size{Width: rng.Intn(100) + 1, Height: rng.Intn(100) + 1}
		}
		positions, err := Pack(sizes)
		require.NoError(t, err)
		require.Len(t, positions, n)

		minX, minY := positions[0].X, positions[0].Y
		for _, p := range positions {
			assert.GreaterOrEqual(t, p.X, 0)
			assert.GreaterOrEqual(t, p.Y, 0)
			minX = min(minX, p.X)
			minY = min(minY, p.Y)
		}
		// 非空结果必须贴住原点的两条边
		assert.Equal(t, 0, minX)
		assert.Equal(t, 0, minY)

		i, j, found, err := Overlapping(sizes, positions)
		require.NoError(t, err)
		assert.False(t, found, "rectangles %d and %d overlap", i, j)

		// 每个放置矩形都必须落在外包围盒内
		bbox, err := BboxSize(sizes, positions)
		require.NoError(t, err)
		enclosure := NewRect(0, 0, bbox.Width, bbox.Height)
		for i := range sizes {
			placed := Rect{Point: positions[i], Size: sizes[i]}
			assert.True(t, enclosure.ContainsRect(placed), "rectangle %d outside enclosure", i)
		}

		density, err := PackingDensity(sizes, positions)
		require.NoError(t, err)
		assert.LessOrEqual(t, density, 1.0)
		assert.Greater(t, density, 0.0)
	}
}

func TestPackBoundRespected(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sizes := make([]Size, 20)
	for i := range sizes {
		sizes[i] = Size{Width: rng.Intn(20) + 1, Height: rng.Intn(20) + 1}
	}
	positions, err := PackBounded(sizes, 30, Unbounded)
	if err != nil {
		// 边界太紧时必须给出结构化的失败
		var impossible *PackingImpossibleError
		require.ErrorAs(t, err, &impossible)
		return
	}
	for i, p := range positions {
		assert.LessOrEqual(t, p.X+sizes[i].Width, 30)
	}
}

func TestPackRepackStable(t *testing.T) {
	// 同样的输入重新打包必须得到同样的位置
	sizes := []Size{{12, 32}, {43, 45}, {23, 16}, {34, 24}, {54, 34}, {2, 4}}
	first, err := Pack(sizes)
	require.NoError(t, err)
	second, err := Pack(sizes)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPackImpossibleErrorMessage(t *testing.T) {
	_, err := PackBounded([]Size{{9, 9}}, 5, Unbounded)
	var impossible *PackingImpossibleError
	require.ErrorAs(t, err, &impossible)
	assert.Contains(t, impossible.Error(), "packing impossible")
	assert.True(t, errors.As(err, &impossible))
}
