package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rpack2d/rpack"
)

// ReadInstance 从文本文件读取矩形清单。每行 "宽 高"，允许空行和
// 以 # 开头的注释行。
func ReadInstance(path string) ([]rpack.Size, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var sizes []rpack.Size
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected \"width height\", got %q", lineNo, line)
		}
		w, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: an error in parsing width: %w", lineNo, err)
		}
		h, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: an error in parsing height: %w", lineNo, err)
		}
		sizes = append(sizes, rpack.NewSize(w, h))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sizes, nil
}
