package main

import (
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"rpack2d/rpack"
)

// partColor 表示一个已放置矩形的RGB颜色
type partColor struct {
	R, G, B int
}

// partColors 是排样图使用的循环调色板
var partColors = []partColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// 页面布局常量(A4横向, 单位mm)
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF 生成包含排样图和统计信息的PDF文档
func ExportPDF(path string, sizes []rpack.Size, positions []rpack.Point) error {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.ExportTime += time.Since(start)
		}()
	}
	if len(sizes) == 0 {
		return fmt.Errorf("no placements to export")
	}
	bbox, err := rpack.BboxSize(sizes, positions)
	if err != nil {
		return err
	}
	density, err := rpack.PackingDensity(sizes, positions)
	if err != nil {
		return err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	// 标题
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Packing layout: %d rectangles in %d x %d", len(sizes), bbox.Width, bbox.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// 统计行
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Enclosure: %d x %d | Density: %.1f%%", bbox.Width, bbox.Height, density*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// 计算绘图区域和缩放比例
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scaleX := drawWidth / float64(bbox.Width)
	scaleY := drawHeight / float64(bbox.Height)
	scale := math.Min(scaleX, scaleY)

	canvasW := float64(bbox.Width) * scale
	canvasH := float64(bbox.Height) * scale
	// 水平居中
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// 绘制外包围盒背景
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// 绘制已放置的矩形
	for i := range sizes {
		col := partColors[i%len(partColors)]
		placed := rpack.NewRect(positions[i].X, positions[i].Y, sizes[i].Width, sizes[i].Height)
		pw := float64(placed.Width) * scale
		ph := float64(placed.Height) * scale
		px := offsetX + float64(placed.Left())*scale
		py := offsetY + float64(placed.Bottom())*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		// 空间足够时标注序号
		if pw > 6 && ph > 5 {
			pdf.SetFont("Helvetica", "", 7)
			pdf.SetTextColor(20, 20, 20)
			pdf.SetXY(px, py+ph/2-2)
			pdf.CellFormat(pw, 4, fmt.Sprintf("#%d", i), "", 0, "C", false, 0, "")
		}
	}

	return pdf.OutputFileAndClose(path)
}
