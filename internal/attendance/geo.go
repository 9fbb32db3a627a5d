package attendance

import (
	"math"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Reading 一次定位读数（由客户端在打卡时附带，可为空）
type Reading struct {
	Latitude   float64  `json:"lat"         validate:"latitude"`
	Longitude  float64  `json:"lng"         validate:"longitude"`
	AccuracyM  *float64 `json:"accuracy_m"  validate:"omitempty,gte=0"`
	HeadingDeg *float64 `json:"heading_deg" validate:"omitempty,gte=0,lt=360"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func geoValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Normalize 丢弃非有限的精度/方向值，方向统一到 [0,360)
func (r *Reading) Normalize() {
	if r.AccuracyM != nil && !isFinite(*r.AccuracyM) {
		r.AccuracyM = nil
	}
	if r.HeadingDeg != nil {
		h := *r.HeadingDeg
		if !isFinite(h) {
			r.HeadingDeg = nil
		} else {
			h = math.Mod(h, 360)
			if h < 0 {
				h += 360
			}
			r.HeadingDeg = &h
		}
	}
}

// ValidateReading 校验定位读数；nil 表示未提供定位，视为合法
func ValidateReading(r *Reading) error {
	if r == nil {
		return nil
	}
	r.Normalize()
	return geoValidator().Struct(r)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
