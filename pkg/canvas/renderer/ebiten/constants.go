// Package ebiten is the host window of the canvas: it implements the
// engine's Painter on Ebiten images and draws the HUD on top.
package ebiten

import "image/color"

// HUD palette.
var (
	colorText            = color.RGBA{200, 210, 245, 255} // Soft off-white with blue-purple tint
	colorSubtle          = color.RGBA{120, 130, 180, 255} // Soft blue-purple-gray
	colorAction          = color.RGBA{180, 150, 250, 255} // Blue-purple
	colorDenied          = color.RGBA{255, 100, 100, 255} // Bright red
	colorSuccess         = color.RGBA{100, 255, 150, 255} // Green
	colorPaused          = color.RGBA{255, 220, 100, 255} // Yellow
	colorPanelBackground = color.RGBA{30, 30, 50, 200}    // Semi-transparent dark
	colorPanelBorder     = color.RGBA{80, 80, 130, 255}
	colorQRBackground    = color.RGBA{255, 255, 255, 255}
)

const (
	panelCornerRadius = 10
	panelBorderWidth  = 2
	lineSpacing       = 6

	// Edge length of the cached falloff sprite used for plasma blobs.
	falloffSpriteSize = 128
)
