package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rpack2d/rpack"
)

const (
	VERSION = "0.1.0"
)

var (
	options   Options
	debugInfo = DebugInfo{IsDebug: true}
)

// DebugInfo 记录各阶段耗时
type DebugInfo struct {
	IsDebug        bool
	TotalTime      time.Duration
	ReadInputTime  time.Duration
	PackTime       time.Duration
	RenderTime     time.Duration
	ExportTime     time.Duration
	CreateJsonTime time.Duration
}

// Options 命令行选项
type Options struct {
	DataPath    string // 矩形清单文件(每行 "宽 高")
	InputDir    string // 输入目录(PNG图片)
	OutputDir   string // 输出目录
	MaxWidth    int    // 外包围盒宽度上限(<=0 表示不限制)
	MaxHeight   int    // 外包围盒高度上限(<=0 表示不限制)
	IsFilesSort bool   // 是否按文件名自然排序
	IsPDF       bool   // 是否导出PDF排样图
	IsHTML      bool   // 是否导出HTML可视化
}

// SpriteInfo 存储精灵图的信息
type SpriteInfo struct {
	Filename string `json:"filename"`
	Region   struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	} `json:"region"`
}

// AtlasData 存储图集的信息
type AtlasData struct {
	Meta struct {
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	} `json:"meta"`
	Atlas   string                `json:"atlas"`
	Sprites map[string]SpriteInfo `json:"sprites"`
	Size    struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"size"`
	Density float64 `json:"density"`
}

// generateAtlasJSON 生成图集的JSON元数据
func generateAtlasJSON(mapping map[string]SpriteInfo, atlasPath string, bbox rpack.Size, density float64, outputPath string) error {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.CreateJsonTime = time.Since(start)
		}()
	}
	data := AtlasData{
		Atlas:   filepath.Base(atlasPath),
		Sprites: mapping,
		Density: density,
	}
	data.Meta.Version = VERSION
	data.Meta.Timestamp = time.Now().Format("2006-01-02 15:04:05")
	data.Size.W = bbox.Width
	data.Size.H = bbox.Height

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, jsonData, 0644)
}

// bounded 把命令行的 <=0 约定转换成库的 Unbounded 约定
func bounded(v int) int {
	if v <= 0 {
		return rpack.Unbounded
	}
	return v
}

// packSizes 调用打包引擎，越界时打印部分结果信息
func packSizes(sizes []rpack.Size) ([]rpack.Point, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.PackTime += time.Since(start)
		}()
	}
	positions, err := rpack.PackBounded(sizes, bounded(options.MaxWidth), bounded(options.MaxHeight))
	if err != nil {
		var impossible *rpack.PackingImpossibleError
		if errors.As(err, &impossible) {
			fmt.Printf("无法在给定边界内完成打包: %s\n", impossible.Reason)
			fmt.Printf("已成功放置 %d/%d 个矩形\n", len(impossible.Positions), len(sizes))
		}
		return nil, err
	}
	return positions, nil
}

// outputResult 输出打包结果
func outputResult(sizes []rpack.Size, positions []rpack.Point) {
	bbox, _ := rpack.BboxSize(sizes, positions)
	density, _ := rpack.PackingDensity(sizes, positions)
	fmt.Printf("打包区域大小: %dx%d\n", bbox.Width, bbox.Height)
	fmt.Printf("空间利用率: %.2f%%\n", density*100)
	fmt.Printf("已打包矩形数量: %d\n\n", len(positions))
}

// runData 打包矩形清单文件
func runData() error {
	sizes, err := ReadInstance(options.DataPath)
	if err != nil {
		return fmt.Errorf("读取矩形清单失败: %w", err)
	}
	fmt.Printf("读取到 %d 个矩形\n", len(sizes))
	positions, err := packSizes(sizes)
	if err != nil {
		return err
	}
	outputResult(sizes, positions)
	for i := range sizes {
		placed := rpack.NewRect(positions[i].X, positions[i].Y, sizes[i].Width, sizes[i].Height)
		fmt.Printf("  #%d %s -> %s\n", i, sizes[i].String(), placed.String())
	}

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	layoutPath := filepath.Join(options.OutputDir, "layout.png")
	if err := RenderLayout(layoutPath, sizes, positions); err != nil {
		return fmt.Errorf("生成排样图失败: %w", err)
	}
	fmt.Printf("- 排样图: %s\n", layoutPath)
	if options.IsPDF {
		pdfPath := filepath.Join(options.OutputDir, "layout.pdf")
		if err := ExportPDF(pdfPath, sizes, positions); err != nil {
			return fmt.Errorf("导出PDF失败: %w", err)
		}
		fmt.Printf("- PDF排样图: %s\n", pdfPath)
	}
	if options.IsHTML {
		htmlPath := filepath.Join(options.OutputDir, "layout.html")
		if err := WriteHTML(htmlPath, sizes, positions, "Packing_Visualization"); err != nil {
			return fmt.Errorf("生成HTML失败: %w", err)
		}
		fmt.Printf("- HTML可视化: %s\n", htmlPath)
	}
	return nil
}

// runAtlas 打包目录下的图片并生成图集
func runAtlas() error {
	sizes, imagePaths, err := readImageFiles()
	if err != nil {
		return err
	}
	positions, err := packSizes(sizes)
	if err != nil {
		return err
	}
	outputResult(sizes, positions)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	atlasPath := filepath.Join(options.OutputDir, "atlas.png")
	mapping, err := CreateAtlasImage(atlasPath, sizes, positions, imagePaths)
	if err != nil {
		return fmt.Errorf("生成图集失败: %w", err)
	}
	fmt.Printf("- 图集: %s\n", atlasPath)

	bbox, _ := rpack.BboxSize(sizes, positions)
	density, _ := rpack.PackingDensity(sizes, positions)
	jsonPath := filepath.Join(options.OutputDir, "atlas.json")
	if err := generateAtlasJSON(mapping, atlasPath, bbox, density, jsonPath); err != nil {
		return fmt.Errorf("生成JSON元数据失败: %w", err)
	}
	fmt.Printf("- 图集元数据: %s\n", jsonPath)

	if options.IsHTML {
		htmlPath := filepath.Join(options.OutputDir, "atlas.html")
		if err := WriteHTML(htmlPath, sizes, positions, "Atlas_Visualization"); err != nil {
			return fmt.Errorf("生成HTML失败: %w", err)
		}
		fmt.Printf("- HTML可视化: %s\n", htmlPath)
	}
	return nil
}

func main() {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.TotalTime = time.Since(start)
			fmt.Printf("输入读取耗时: %v\n", debugInfo.ReadInputTime)
			fmt.Printf("算法耗时: %v\n", debugInfo.PackTime)
			fmt.Printf("渲染耗时: %v\n", debugInfo.RenderTime)
			fmt.Printf("导出耗时: %v\n", debugInfo.ExportTime)
			fmt.Printf("JSON元数据创建耗时: %v\n", debugInfo.CreateJsonTime)
			fmt.Printf("总耗时: %v\n", debugInfo.TotalTime)
		}()
	}
	// 定义命令行参数
	configPtr := flag.String("config", "", "YAML配置文件(命令行参数优先)")
	dataPtr := flag.String("data", "", "矩形清单文件(每行 \"宽 高\")")
	inputDirPtr := flag.String("input", "", "输入目录(PNG图片)")
	outputDirPtr := flag.String("output", "output", "输出目录")
	widthPtr := flag.Int("width", 0, "外包围盒宽度上限(<=0 表示不限制)")
	heightPtr := flag.Int("height", 0, "外包围盒高度上限(<=0 表示不限制)")
	sortPtr := flag.Bool("sort", true, "按文件名自然排序")
	pdfPtr := flag.Bool("pdf", false, "导出PDF排样图")
	htmlPtr := flag.Bool("html", false, "导出HTML可视化")
	flag.Parse()

	// 创建选项对象
	options = Options{
		DataPath:    *dataPtr,
		InputDir:    *inputDirPtr,
		OutputDir:   *outputDirPtr,
		MaxWidth:    *widthPtr,
		MaxHeight:   *heightPtr,
		IsFilesSort: *sortPtr,
		IsPDF:       *pdfPtr,
		IsHTML:      *htmlPtr,
	}
	// 配置文件提供默认值，命令行明确给出的参数覆盖配置文件
	if *configPtr != "" {
		cfg, err := LoadConfig(*configPtr)
		if err != nil {
			fmt.Printf("读取配置文件失败: %v\n", err)
			os.Exit(1)
		}
		applyConfig(cfg, &options)
	}

	var err error
	switch {
	case options.DataPath != "":
		err = runData()
	case options.InputDir != "":
		err = runAtlas()
	default:
		fmt.Println("必须通过 -data 或 -input 指定输入(或在配置文件中给出)")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Printf("错误: %v\n", err)
		os.Exit(1)
	}
}
