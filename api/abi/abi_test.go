package abi

import "testing"

func TestPackUnpackPtrLen(t *testing.T) {
	tests := []struct {
		name string
		ptr  uint32
		len  uint32
	}{
		{"zero", 0, 0},
		{"small", 1024, 17},
		{"max", 0xFFFFFFFF, 0xFFFFFFFF},
		{"ptr only", 0x80000000, 0},
		{"len only", 0, 0x80000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed := PackPtrLen(tt.ptr, tt.len)
			ptr, length := UnpackPtrLen(packed)
			if ptr != tt.ptr || length != tt.len {
				t.Errorf("roundtrip = (%d, %d), want (%d, %d)", ptr, length, tt.ptr, tt.len)
			}
		})
	}
}
