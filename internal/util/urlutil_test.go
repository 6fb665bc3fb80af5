package util

import "testing"

func TestNormalizeBVID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "BV1xx411c7mD", want: "BV1xx411c7mD"},
		{in: " BV1xx411c7mD ", want: "BV1xx411c7mD"},
		{in: "https://www.bilibili.com/video/BV1xx411c7mD/?spm=1", want: "BV1xx411c7mD"},
		{in: "www.bilibili.com/video/BV1xx411c7mD", want: "BV1xx411c7mD"},
		{in: "BV123", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeBVID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeBVID(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeBVID(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNormalizeEPID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "374717", want: "374717"},
		{in: "ep374717", want: "374717"},
		{in: "https://www.bilibili.com/bangumi/play/ep374717?from=1", want: "374717"},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeEPID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeEPID(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeEPID(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestNormalizeUID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "546195", want: "546195"},
		{in: "https://space.bilibili.com/546195/video", want: "546195"},
		{in: "https://www.bilibili.com/546195", wantErr: true},
		{in: "user", wantErr: true},
	}
	for _, tt := range tests {
		got, err := NormalizeUID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeUID(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeUID(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
