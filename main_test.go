package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rpack2d/rpack"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadInstance(t *testing.T) {
	path := writeTempFile(t, "data.txt", `
# 测试矩形清单
12 32
43 145

123 56
`)
	sizes, err := ReadInstance(path)
	if err != nil {
		t.Fatalf("read file error: %v", err)
	}
	want := []rpack.Size{{Width: 12, Height: 32}, {Width: 43, Height: 145}, {Width: 123, Height: 56}}
	if len(sizes) != len(want) {
		t.Fatalf("expected %d sizes, got %d", len(want), len(sizes))
	}
	for i := range want {
		if !sizes[i].Eq(want[i]) {
			t.Errorf("size %d: expected %s, got %s", i, want[i].String(), sizes[i].String())
		}
	}
}

func TestReadInstanceBadLine(t *testing.T) {
	path := writeTempFile(t, "bad.txt", "12 32\noops\n")
	if _, err := ReadInstance(path); err == nil {
		t.Fatal("expected parse error")
	}
	path = writeTempFile(t, "bad2.txt", "12 xx\n")
	if _, err := ReadInstance(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeTempFile(t, "pack.yaml", `
data: rects.txt
output: out
max_width: 100
pdf: true
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config error: %v", err)
	}
	if cfg.Data != "rects.txt" || cfg.Output != "out" || cfg.MaxWidth != 100 || !cfg.PDF {
		t.Errorf("unexpected config: %+v", cfg)
	}

	opts := Options{OutputDir: "output"}
	applyConfig(cfg, &opts)
	if opts.DataPath != "rects.txt" || opts.OutputDir != "out" || opts.MaxWidth != 100 || !opts.IsPDF {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.yaml")
	in := &Config{Data: "rects.txt", Output: "out", MaxHeight: 64, HTML: true}
	if err := SaveConfig(path, in); err != nil {
		t.Fatalf("save config error: %v", err)
	}
	out, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config error: %v", err)
	}
	if out.Data != in.Data || out.Output != in.Output || out.MaxHeight != in.MaxHeight || !out.HTML {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLoadConfigRejectsConflicts(t *testing.T) {
	path := writeTempFile(t, "pack.yaml", "data: a.txt\ninput: imgs\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected mutually-exclusive error")
	}
	path = writeTempFile(t, "pack2.yaml", "max_width: -5\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected negative bound error")
	}
}

func TestRenderAndExport(t *testing.T) {
	sizes := []rpack.Size{{Width: 30, Height: 30}, {Width: 20, Height: 20}, {Width: 20, Height: 10}}
	startTime := time.Now()
	positions, err := rpack.Pack(sizes)
	if err != nil {
		t.Fatalf("pack error: %v", err)
	}
	fmt.Printf("Time used: %v\n", time.Since(startTime))
	if _, _, found, _ := rpack.Overlapping(sizes, positions); found {
		t.Fatal("packed rectangles overlap")
	}

	dir := t.TempDir()
	pngPath := filepath.Join(dir, "layout.png")
	if err := RenderLayout(pngPath, sizes, positions); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if info, err := os.Stat(pngPath); err != nil || info.Size() == 0 {
		t.Fatalf("layout.png missing or empty: %v", err)
	}

	htmlPath := filepath.Join(dir, "layout.html")
	if err := WriteHTML(htmlPath, sizes, positions, "Test_Visualization"); err != nil {
		t.Fatalf("html error: %v", err)
	}
	if info, err := os.Stat(htmlPath); err != nil || info.Size() == 0 {
		t.Fatalf("layout.html missing or empty: %v", err)
	}

	pdfPath := filepath.Join(dir, "layout.pdf")
	if err := ExportPDF(pdfPath, sizes, positions); err != nil {
		t.Fatalf("pdf error: %v", err)
	}
	if info, err := os.Stat(pdfPath); err != nil || info.Size() == 0 {
		t.Fatalf("layout.pdf missing or empty: %v", err)
	}
}
