package ebiten

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// blurSource is a one-dimensional Gaussian pass. Dir selects the axis and
// Radius the reach in pixels; two passes give a separable 2D blur.
var blurSource = []byte(`//kage:unit pixels

package main

var Radius float
var Dir vec2

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	step := Dir * (Radius / 8.0)
	var sum vec4
	var total float
	for i := -8; i <= 8; i++ {
		w := exp(-float(i*i) / 32.0)
		sum += imageSrc0At(srcPos + step*float(i)) * w
		total += w
	}
	return sum / total
}
`)

func compileBlur() (*ebiten.Shader, error) {
	s, err := ebiten.NewShader(blurSource)
	if err != nil {
		return nil, fmt.Errorf("compiling blur shader: %w", err)
	}
	return s, nil
}

// blur draws src onto dst blurred by radius pixels, using tmp for the
// horizontal pass. All three images share the same size.
func blur(dst, tmp, src *ebiten.Image, shader *ebiten.Shader, radius float64) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	tmp.Clear()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = src
	op.Uniforms = map[string]any{
		"Radius": float32(radius),
		"Dir":    []float32{1, 0},
	}
	tmp.DrawRectShader(w, h, shader, op)

	op = &ebiten.DrawRectShaderOptions{}
	op.Images[0] = tmp
	op.Uniforms = map[string]any{
		"Radius": float32(radius),
		"Dir":    []float32{0, 1},
	}
	dst.DrawRectShader(w, h, shader, op)
}
