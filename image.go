package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"

	"rpack2d/rpack"
)

// Parallel 把 [start, end) 区间的任务分发到多个goroutine执行
func Parallel(start, end int, fn func(i int)) {
	numGoroutines := runtime.NumCPU()
	if end-start < numGoroutines {
		// 如果任务数量少于CPU核心数，直接顺序执行
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batchSize := (end - start) / numGoroutines
	if batchSize < 1 {
		batchSize = 1
	}
	for i := start; i < end; i += batchSize {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for j := from; j < to && j < end; j++ {
				fn(j)
			}
		}(i, i+batchSize)
	}
	wg.Wait()
}

// readImageFiles 读取目录中的所有 PNG 图片文件并返回它们的尺寸
func readImageFiles() ([]rpack.Size, []string, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.ReadInputTime += time.Since(start)
		}()
	}
	// 确保输入目录存在
	if _, err := os.Stat(options.InputDir); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("输入目录 %s 不存在", options.InputDir)
	}
	pattern := filepath.Join(options.InputDir, "*.png")
	imagePaths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, err
	}
	if len(imagePaths) == 0 {
		return nil, nil, fmt.Errorf("在 %s 目录中没有找到PNG图片", options.InputDir)
	}
	// 是否按文件名自然排序
	if options.IsFilesSort {
		sort.Sort(natural.StringSlice(imagePaths))
	}
	fmt.Printf("找到 %d 个图片文件\n", len(imagePaths))

	// 读取每个图片的尺寸
	sizes := make([]rpack.Size, len(imagePaths))
	errs := make([]error, len(imagePaths))
	Parallel(0, len(imagePaths), func(i int) {
		file, err := os.Open(imagePaths[i])
		if err != nil {
			errs[i] = err
			return
		}
		// 只解码图片头部以获取尺寸信息
		cfg, _, err := image.DecodeConfig(file)
		file.Close()
		if err != nil {
			errs[i] = fmt.Errorf("无法解码图片 %s: %v", imagePaths[i], err)
			return
		}
		sizes[i] = rpack.NewSize(cfg.Width, cfg.Height)
	})
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}
	return sizes, imagePaths, nil
}

// CreateAtlasImage 按打包结果把所有图片合成为一张图集
func CreateAtlasImage(atlasPath string, sizes []rpack.Size, positions []rpack.Point, imagePaths []string) (map[string]SpriteInfo, error) {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.RenderTime += time.Since(start)
		}()
	}
	bbox, err := rpack.BboxSize(sizes, positions)
	if err != nil {
		return nil, err
	}
	mapping := make(map[string]SpriteInfo, len(imagePaths))
	dstImage := imaging.New(bbox.Width, bbox.Height, color.NRGBA{0, 0, 0, 0})

	// 创建互斥锁保护对dstImage和mapping的并发访问
	var mu sync.Mutex
	var wg sync.WaitGroup
	errChan := make(chan error, len(imagePaths))
	// 并发控制
	maxWorkers := runtime.NumCPU()
	semaphore := make(chan struct{}, maxWorkers)
	for i := range imagePaths {
		wg.Add(1)
		semaphore <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			path := imagePaths[i]
			file, err := os.Open(path)
			if err != nil {
				errChan <- fmt.Errorf("%s: %v", path, err)
				return
			}
			srcImage, err := imaging.Decode(file)
			file.Close()
			if err != nil {
				errChan <- fmt.Errorf("%s: %v", path, err)
				return
			}

			placed := rpack.NewRect(positions[i].X, positions[i].Y,
				sizes[i].Width, sizes[i].Height)
			// 创建精灵信息
			spriteInfo := SpriteInfo{}
			spriteInfo.Filename = filepath.Base(path)
			spriteInfo.Region.X = placed.X
			spriteInfo.Region.Y = placed.Y
			spriteInfo.Region.W = placed.Width
			spriteInfo.Region.H = placed.Height

			dstRect := image.Rect(placed.Left(), placed.Bottom(), placed.Right(), placed.Top())

			mu.Lock()
			draw.Draw(dstImage, dstRect, srcImage, image.Point{}, draw.Src)
			mapping[path] = spriteInfo
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	close(errChan)
	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	file, err := os.Create(atlasPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return mapping, imaging.Encode(file, dstImage, imaging.PNG)
}

// randomColor (surprise!) returns a random color.
func randomColor() color.NRGBA {
	// Offset to use a minimum value so it is never pure black.
	return color.NRGBA{
		R: uint8(rand.Intn(240)) + 15,
		G: uint8(rand.Intn(240)) + 15,
		B: uint8(rand.Intn(240)) + 15,
		A: 255,
	}
}

// RenderLayout 把打包结果渲染为着色矩形排样图
func RenderLayout(path string, sizes []rpack.Size, positions []rpack.Point) error {
	if debugInfo.IsDebug {
		start := time.Now()
		defer func() {
			debugInfo.RenderTime += time.Since(start)
		}()
	}
	bbox, err := rpack.BboxSize(sizes, positions)
	if err != nil {
		return err
	}
	if bbox.Width == 0 || bbox.Height == 0 {
		return fmt.Errorf("空的打包结果无法渲染")
	}
	black := color.NRGBA{0, 0, 0, 255}
	img := imaging.New(bbox.Width, bbox.Height, black)
	for i := range sizes {
		c := randomColor()
		placed := rpack.NewRect(positions[i].X, positions[i].Y, sizes[i].Width, sizes[i].Height)
		r := image.Rect(placed.Left(), placed.Bottom(), placed.Right(), placed.Top())
		draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return imaging.Encode(file, img, imaging.PNG)
}
