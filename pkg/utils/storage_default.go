//go:build !android

package utils

// ResolveDataPath 解析历史记录等数据文件的路径
// 非 Android 平台按原样返回（相对路径以工作目录为准）
func ResolveDataPath(name string) (string, error) {
	return name, nil
}
