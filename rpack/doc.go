// Package rpack 将给定的一组固定朝向的矩形放置在整数坐标上，
// 使得任意两个矩形互不重叠、且外包围盒的面积尽可能小。
//
// 入口函数是 Pack 和 PackBounded，结果是与输入同序的左下角坐标
// 列表。PackBig 是任意精度整数的对应入口。辅助函数 BboxSize、
// PackingDensity 和 Overlapping 用于评估打包结果。
//
// 打包问题是 NP 难的，这里实现的是确定性启发式算法：对随机输入
// 通常能达到 80–95% 的密度。矩形不会被旋转，尺寸必须是正整数。
// 当显式的宽高上限无法满足时，返回 *PackingImpossibleError，
// 其中携带已成功放置部分的坐标。
package rpack
