// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
)

func parseColor(s string) ([4]float32, error) {
	var c [4]float32
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return c, fmt.Errorf("color %q: want r,g,b,a", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return c, fmt.Errorf("color %q: %w", s, err)
		}
		if v < 0 || v > 1 {
			return c, fmt.Errorf("color %q: component %d out of [0,1]", s, i)
		}
		c[i] = float32(v)
	}
	return c, nil
}

// toImage converts bottom-up RGBA8 rows into a top-down image.
func toImage(pixels []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := 0; y < h; y++ {
		src := pixels[(h-1-y)*stride : (h-y)*stride]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}

func samePixels(data []byte, stride int, pixels []byte, w, h int) bool {
	row := w * 4
	for y := 0; y < h; y++ {
		if !bytes.Equal(data[y*stride:y*stride+row], pixels[y*row:(y+1)*row]) {
			return false
		}
	}
	return true
}

func writeImage(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return bmp.Encode(f, img)
	case ".png":
		return png.Encode(f, img)
	default:
		return fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
}
