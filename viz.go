package main

import (
	"fmt"
	"os"
	"strings"

	"rpack2d/rpack"
)

// WriteHTML 生成矩形排列的可视化HTML文件
func WriteHTML(path string, sizes []rpack.Size, positions []rpack.Point, title string) error {
	rects := make([]string, len(sizes))
	for i := range sizes {
		rects[i] = fmt.Sprintf("{x:%v,y:%v,w:%v,h:%v}",
			positions[i].X, positions[i].Y, sizes[i].Width, sizes[i].Height)
	}
	// Stitching HTML strings

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>%s</title>
  <style>
    canvas { border: 1px solid #ccc; background: #fff; }
  </style>
</head>
<body>
  <h3>%s</h3>
  <canvas id="canvas" width="800" height="800"></canvas>
  <script>
    const data = [%s];
    const canvas = document.getElementById("canvas");
    const ctx = canvas.getContext("2d");
    let maxX = 0, maxY = 0;
    data.forEach(rect => {
      const x2 = rect.x + rect.w;
      const y2 = rect.y + rect.h;
      if (x2 > maxX) maxX = x2;
      if (y2 > maxY) maxY = y2;
    });
    const scale = Math.min(canvas.width / maxX, canvas.height / maxY);
    data.forEach((rect, i) => {
      const color = "#" + Math.floor(Math.random()*16777215).toString(16).padStart(6, "0");
      const x = rect.x * scale;
      const y = rect.y * scale;
      const w = rect.w * scale;
      const h = rect.h * scale;
      ctx.fillStyle = color;
      ctx.fillRect(x, y, w, h);
      ctx.strokeStyle = "black";
      ctx.strokeRect(x, y, w, h);
      ctx.fillStyle = "black";
      ctx.font = "12px Arial";
      ctx.fillText(i, x + 3, y + 12);
    });
  </script>
</body>
</html>
`, title, title, strings.Join(rects, ","))

	return os.WriteFile(path, []byte(html), 0644)
}
