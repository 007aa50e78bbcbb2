package rpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFindsMinimalArea(t *testing.T) {
	// 15 面积的完美打包只在宽度 5 处出现
	rects := mkRects([2]int64{3, 3}, [2]int64{2, 2}, [2]int64{2, 1})
	placed, err := searchWidths(rects, noBound, noBound)
	require.NoError(t, err)
	require.Len(t, placed, 3)
	var width, height int64
	for i, p := range placed {
		assert.Equal(t, i, p.index)
		width = max(width, p.x+rects[i].w)
		height = max(height, p.y+rects[i].h)
	}
	assert.Equal(t, int64(15), width*height)
}

func TestSearchPartialSelection(t *testing.T) {
	// 高度上限 1 时最宽的外框能放下最多的矩形
	rects := mkRects(
		[2]int64{10, 1}, [2]int64{10, 1}, [2]int64{10, 1},
		[2]int64{10, 1}, [2]int64{10, 1}, [2]int64{10, 1},
	)
	_, err := searchWidths(rects, 30, 1)
	var fail *packFailure
	require.ErrorAs(t, err, &fail)
	assert.Equal(t, reasonPartial, fail.reason)
	// 宽 30 的外框放下三个
	require.Len(t, fail.placed, 3)
	assert.Equal(t, []eplace{
		{index: 0, x: 0, y: 0},
		{index: 1, x: 10, y: 0},
		{index: 2, x: 20, y: 0},
	}, fail.placed)
}

func TestSearchBoundNarrowsRange(t *testing.T) {
	// 宽度上限迫使四个 2x2 叠成一列
	rects := mkRects([2]int64{2, 2}, [2]int64{2, 2}, [2]int64{2, 2}, [2]int64{2, 2})
	placed, err := searchWidths(rects, 3, noBound)
	require.NoError(t, err)
	for i, p := range placed {
		assert.Equal(t, int64(0), p.x)
		assert.Equal(t, int64(2*i), p.y)
	}
}

func TestSearchCoarseRefineDeterministic(t *testing.T) {
	// 宽度区间超过穷举阈值时走粗搜+细化，结果必须可复现
	rects := make([]erect, 0, 6)
	widths := []int64{1500, 1200, 1100, 900, 800, 700}
	for i, w := range widths {
		rects = append(rects, erect{w: w, h: int64(i%3 + 1), area: w * int64(i%3+1), index: i})
	}
	first, err := searchWidths(rects, noBound, noBound)
	require.NoError(t, err)
	second, err := searchWidths(rects, noBound, noBound)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first, len(rects))
}

func TestFullResultBetter(t *testing.T) {
	a := &fullResult{width: 5, height: 3, area: 15, placed: []eplace{{0, 0, 0}}}
	b := &fullResult{width: 4, height: 4, area: 16, placed: []eplace{{0, 0, 0}}}
	assert.True(t, a.better(b))
	assert.False(t, b.better(a))

	// 面积相同比最长边
	c := &fullResult{width: 8, height: 2, area: 16, placed: []eplace{{0, 0, 0}}}
	assert.True(t, b.better(c))

	// 完全相同时不算更优，保留先出现的结果
	d := &fullResult{width: 4, height: 4, area: 16, placed: []eplace{{0, 0, 0}}}
	assert.False(t, d.better(b))
}

func TestPartialResultBetter(t *testing.T) {
	more := &partialResult{placedArea: 4, placed: []eplace{{0, 0, 0}, {1, 2, 0}}}
	fewer := &partialResult{placedArea: 9, placed: []eplace{{0, 0, 0}}}
	assert.True(t, more.better(fewer))

	// 数量相同比已放置面积
	bigger := &partialResult{placedArea: 9, placed: []eplace{{0, 0, 0}, {1, 3, 0}}}
	assert.True(t, bigger.better(more))
}
