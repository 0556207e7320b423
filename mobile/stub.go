//go:build !mobile

// Package mobile 在非移动端构建时只提供占位符号，
// 绑定入口见 mobile.go（需要 -tags mobile）。
package mobile

// Dummy 让 ./... 在桌面构建时也能包含本包
func Dummy() {}
