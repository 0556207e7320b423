//go:build android

package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// ResolveDataPath 解析历史记录等数据文件的路径
//
// Android 上工作目录不可写，相对路径会放到 /data/data/{package}/files 下，
// 并确保该目录存在。绝对路径按原样返回。
func ResolveDataPath(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	pkg, err := androidPackage()
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, "files")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

// androidPackage 从 /proc/self/cmdline 读取应用包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	// cmdline 以 NUL 分隔，第一个字段是包名
	for i, ch := range data {
		if ch == 0 || ch == '\n' {
			data = data[:i]
			break
		}
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return string(data), nil
}
