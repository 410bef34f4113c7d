package layout

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"regexp"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// SignaturePlaceholder 在签名无法解码时代替图片绘制。
const SignaturePlaceholder = "(signature unavailable)"

// placeholderInset 是占位文本相对签名框左下角的偏移。
const placeholderInset = 3.0

// ErrEmptySignature 表示签名字段为空。
var ErrEmptySignature = errors.New("签名数据为空")

var dataURIPrefix = regexp.MustCompile(`^data:image/[A-Za-z0-9.+-]+;base64,`)

// DecodeSignature 去掉 data:image/...;base64, 前缀后解码 base64 图片。
func DecodeSignature(payload string) (image.Image, error) {
	p := strings.TrimSpace(payload)
	if p == "" {
		return nil, ErrEmptySignature
	}
	p = dataURIPrefix.ReplaceAllString(p, "")
	p = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, p)

	raw, err := base64.StdEncoding.DecodeString(p)
	if err != nil {
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(p, "="))
		if rawErr != nil {
			return nil, fmt.Errorf("签名 base64 解码失败: %w", errors.Join(err, rawErr))
		}
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("签名图片解码失败: %w", err)
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("签名图片尺寸无效: %v", b)
	}
	return img, nil
}

// FitBox 按图片宽高比将其等比缩放到 box 内并居中。
// 比 box 更宽的图片按宽度约束、更高的按高度约束；反过来会让图片溢出签名框。
func FitBox(imgW, imgH float64, box Box) Box {
	if imgW <= 0 || imgH <= 0 || box.Width <= 0 || box.Height <= 0 {
		return box
	}
	aspect := imgW / imgH
	w, h := box.Width, box.Height
	if aspect > box.Width/box.Height {
		h = box.Width / aspect
	} else {
		w = box.Height * aspect
	}
	return Box{
		X:      box.X + (box.Width-w)/2,
		Y:      box.Y + (box.Height-h)/2,
		Width:  w,
		Height: h,
	}
}

// Signature 将签名图片嵌入 box。任何失败都只绘制占位文本并返回 false，不会中断布局。
func (c *Context) Signature(payload string, box Box) bool {
	img, err := DecodeSignature(payload)
	if err != nil {
		if errors.Is(err, ErrEmptySignature) {
			c.logger.Debug("signature missing, drawing placeholder")
		} else {
			c.logger.Warn("signature could not be embedded, drawing placeholder", zap.Error(err))
		}
		c.addText(TextBox{
			Content:  SignaturePlaceholder,
			X:        box.X + placeholderInset,
			Y:        box.Y + placeholderInset,
			Font:     FontBody,
			FontSize: InfoSize,
			Color:    mutedColor,
		})
		return false
	}
	b := img.Bounds()
	c.page.Images = append(c.page.Images, ImageBox{
		Box:    FitBox(float64(b.Dx()), float64(b.Dy()), box),
		Source: "signature",
		Image:  img,
	})
	return true
}

// SignatureBox 在游标下方、列的左侧分配一个带边框的签名框并嵌入签名，之后下移游标。
func (c *Context) SignatureBox(payload string, col Column, width, height float64) bool {
	box := Box{
		X:      col.X,
		Y:      c.cursor.Y() - height,
		Width:  math.Min(width, col.Width),
		Height: height,
	}
	c.page.Rects = append(c.page.Rects, Rect{
		X:           box.X,
		Y:           box.Y,
		Width:       box.Width,
		Height:      box.Height,
		StrokeColor: borderColor,
		StrokeWidth: 0.5,
	})
	ok := c.Signature(payload, box)
	c.advance(height + c.metrics.FieldSpacing)
	return ok
}
