// Package photo 工作照片水印：在图片左下角叠加拍摄时间、地点与定位信息。
package photo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/webp"
)

// ErrDecode 内容类型声明为图片但无法解码
var ErrDecode = errors.New("图片解码失败")

const (
	// CoordinatesPlaceholder 没有定位时显示的坐标行
	CoordinatesPlaceholder = "Lat/Lng: unavailable"

	timestampLayout = "02/01/2006 15:04:05"
	jpegQuality     = 88
)

var boxColor = color.NRGBA{R: 0, G: 0, B: 0, A: 150}

// CaptureMetadata 拍摄时的元数据
type CaptureMetadata struct {
	CapturedAt      time.Time
	Timezone        *time.Location // 时间戳显示时区，nil 为 UTC
	LocationName    string
	LocationAddress string
	Latitude        *float64
	Longitude       *float64
	AccuracyM       *float64
	HeadingDeg      *float64
}

// Result 处理结果；Annotated 为 false 时 Data 即原始输入
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Annotated   bool
}

// Annotator 水印渲染器，可并发使用
type Annotator struct {
	font     *opentype.Font
	maxWidth int
}

// NewAnnotator 创建水印渲染器；maxWidth > 0 时超宽图片先等比缩小
func NewAnnotator(maxWidth int) (*Annotator, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("加载字体失败: %w", err)
	}
	return &Annotator{font: f, maxWidth: maxWidth}, nil
}

// Annotate 在图片上叠加水印并重新编码为 JPEG。
// contentType 为空时按内容嗅探；非图片内容原样返回。
func (a *Annotator) Annotate(data []byte, contentType string, meta CaptureMetadata) (*Result, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return &Result{Data: data, ContentType: contentType, Ext: "", Annotated: false}, nil
	}

	src, err := decode(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	canvas := a.prepareCanvas(src)
	if err := a.drawOverlay(canvas, BuildLines(meta)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("图片编码失败: %w", err)
	}

	return &Result{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Ext:         "jpg",
		Annotated:   true,
	}, nil
}

// BuildLines 生成水印文本行：时间、地点名称、地址、坐标、精度、方向
func BuildLines(meta CaptureMetadata) []string {
	tz := meta.Timezone
	if tz == nil {
		tz = time.UTC
	}
	captured := meta.CapturedAt
	if captured.IsZero() {
		captured = time.Now()
	}

	lines := []string{captured.In(tz).Format(timestampLayout)}
	if name := strings.TrimSpace(meta.LocationName); name != "" {
		lines = append(lines, name)
	}
	if addr := strings.TrimSpace(meta.LocationAddress); addr != "" {
		lines = append(lines, addr)
	}

	if finite(meta.Latitude) && finite(meta.Longitude) {
		lines = append(lines, fmt.Sprintf("Lat: %.6f  Lng: %.6f", *meta.Latitude, *meta.Longitude))
	} else {
		lines = append(lines, CoordinatesPlaceholder)
	}

	if finite(meta.AccuracyM) {
		lines = append(lines, fmt.Sprintf("Accuracy: ±%.0f m", *meta.AccuracyM))
	}
	if finite(meta.HeadingDeg) {
		lines = append(lines, fmt.Sprintf("Heading: %.0f°", *meta.HeadingDeg))
	}
	return lines
}

// ── 渲染 ──

// overlayLayout 与图片宽度成比例的水印尺寸
type overlayLayout struct {
	FontSize   float64
	Padding    int
	LineHeight int
	Margin     int
	Radius     int
}

func layoutFor(width int) overlayLayout {
	fs := math.Max(12, float64(width)*0.025)
	return overlayLayout{
		FontSize:   fs,
		Padding:    int(math.Round(fs * 0.6)),
		LineHeight: int(math.Ceil(fs * 1.35)),
		Margin:     int(math.Max(8, math.Round(float64(width)*0.02))),
		Radius:     int(math.Round(fs * 0.5)),
	}
}

func (a *Annotator) prepareCanvas(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if a.maxWidth > 0 && w > a.maxWidth {
		h = int(math.Round(float64(h) * float64(a.maxWidth) / float64(w)))
		w = a.maxWidth
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() {
		draw.Draw(canvas, canvas.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(canvas, canvas.Bounds(), src, b, draw.Src, nil)
	}
	return canvas
}

func (a *Annotator) drawOverlay(canvas *image.RGBA, lines []string) error {
	bounds := canvas.Bounds()
	lay := layoutFor(bounds.Dx())

	face, err := opentype.NewFace(a.font, &opentype.FaceOptions{
		Size:    lay.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("创建字体失败: %w", err)
	}
	defer face.Close()

	maxText := bounds.Dx() - 2*lay.Margin - 2*lay.Padding
	if maxText < 1 {
		maxText = 1
	}

	textWidth := 0
	for i, line := range lines {
		lines[i] = fitText(face, line, maxText)
		if w := font.MeasureString(face, lines[i]).Ceil(); w > textWidth {
			textWidth = w
		}
	}

	boxW := textWidth + 2*lay.Padding
	boxH := len(lines)*lay.LineHeight + 2*lay.Padding
	box := image.Rect(
		lay.Margin,
		bounds.Dy()-lay.Margin-boxH,
		lay.Margin+boxW,
		bounds.Dy()-lay.Margin,
	)

	mask := roundedMask(boxW, boxH, lay.Radius)
	draw.DrawMask(canvas, box, image.NewUniform(boxColor), image.Point{}, mask, image.Point{}, draw.Over)

	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{Dst: canvas, Src: image.White, Face: face}
	for i, line := range lines {
		baseline := box.Min.Y + lay.Padding + i*lay.LineHeight + ascent
		d.Dot = fixed.P(box.Min.X+lay.Padding, baseline)
		d.DrawString(line)
	}
	return nil
}

// roundedMask 圆角矩形蒙版
func roundedMask(w, h, r int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if r*2 > w {
		r = w / 2
	}
	if r*2 > h {
		r = h / 2
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if insideRounded(x, y, w, h, r) {
				mask.SetAlpha(x, y, color.Alpha{A: 0xff})
			}
		}
	}
	return mask
}

func insideRounded(x, y, w, h, r int) bool {
	cx, cy := x, y
	switch {
	case x < r:
		cx = r
	case x >= w-r:
		cx = w - r - 1
	}
	switch {
	case y < r:
		cy = r
	case y >= h-r:
		cy = h - r - 1
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= r*r
}

// fitText 超出宽度时截断并追加省略号
func fitText(face font.Face, s string, maxWidth int) string {
	if font.MeasureString(face, s).Ceil() <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			return candidate
		}
	}
	return ""
}

func decode(data []byte, contentType string) (image.Image, error) {
	if contentType == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
