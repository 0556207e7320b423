//go:build !mobile

package utils

import "os"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false，设置 SENTAKKI_MOBILE_EMULATE=1 可在桌面模拟触摸操作
func IsMobile() bool {
	return os.Getenv("SENTAKKI_MOBILE_EMULATE") == "1"
}
