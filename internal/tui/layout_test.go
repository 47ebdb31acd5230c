package tui

import (
	"testing"

	"github.com/csheth/mythchaser/internal/staging"
)

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name         string
		width        int
		height       int
		contentWidth int
		modalWidth   int
		pickerHeight int
		dropTarget   staging.Rect
	}{
		{name: "standard", width: 80, height: 24, contentWidth: 76, modalWidth: 57, pickerHeight: 14, dropTarget: staging.Rect{Left: 1, Top: 1, Right: 78, Bottom: 22}},
		{name: "wide", width: 200, height: 40, contentWidth: 196, modalWidth: 147, pickerHeight: 30, dropTarget: staging.Rect{Left: 1, Top: 1, Right: 198, Bottom: 38}},
		{name: "tiny", width: 30, height: 10, contentWidth: 40, modalWidth: 40, pickerHeight: 5, dropTarget: staging.Rect{Left: 1, Top: 1, Right: 28, Bottom: 8}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.contentWidth != tc.contentWidth {
				t.Fatalf("content width mismatch: got %d want %d", layout.contentWidth, tc.contentWidth)
			}
			if layout.modalWidth != tc.modalWidth {
				t.Fatalf("modal width mismatch: got %d want %d", layout.modalWidth, tc.modalWidth)
			}
			if layout.pickerHeight != tc.pickerHeight {
				t.Fatalf("picker height mismatch: got %d want %d", layout.pickerHeight, tc.pickerHeight)
			}
			if got := layout.dropTarget(); got != tc.dropTarget {
				t.Fatalf("drop target mismatch: got %+v want %+v", got, tc.dropTarget)
			}
		})
	}
}

func TestDropTargetBeforeResize(t *testing.T) {
	layout := newPageLayout()
	if layout.sized() {
		t.Fatal("layout should not report a size before the first resize")
	}
	if !layout.dropTarget().Empty() {
		t.Fatal("drop target should be empty before the first resize")
	}
}

func TestWrapWidthFloor(t *testing.T) {
	layout := newPageLayout()
	layout.Update(24, 10)
	if got := layout.wrapWidth(30); got != 20 {
		t.Fatalf("wrapWidth floor = %d, want 20", got)
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText("  a   claim\nwith lines ", 0); got != "a claim with lines" {
		t.Fatalf("previewText() = %q", got)
	}
	if got := previewText("abcdefghij", 4); got != "abcd…" {
		t.Fatalf("previewText() = %q", got)
	}
}
