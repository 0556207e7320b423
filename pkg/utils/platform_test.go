//go:build !mobile

package utils

import "testing"

func TestIsMobile_Desktop(t *testing.T) {
	t.Setenv("SENTAKKI_MOBILE_EMULATE", "")
	if IsMobile() {
		t.Error("IsMobile() should return false on desktop")
	}
}

func TestIsMobile_Emulate(t *testing.T) {
	t.Setenv("SENTAKKI_MOBILE_EMULATE", "1")
	if !IsMobile() {
		t.Error("IsMobile() should return true when SENTAKKI_MOBILE_EMULATE=1")
	}
}
