package attendance

import (
	"errors"
	"strings"
	"unicode"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RejectionKind 打卡被数据库过程拒绝的原因分类
type RejectionKind string

const (
	OutsideGeofence               RejectionKind = "OUTSIDE_GEOFENCE"
	LocationRequired              RejectionKind = "LOCATION_REQUIRED"
	LowGpsAccuracy                RejectionKind = "LOW_GPS_ACCURACY"
	CheckinWindowClosed           RejectionKind = "CHECKIN_WINDOW_CLOSED"
	CheckinNotYetOpen             RejectionKind = "CHECKIN_NOT_YET_OPEN"
	CheckinRequiredBeforeCheckout RejectionKind = "CHECKIN_REQUIRED_BEFORE_CHECKOUT"
	InvalidCheckoutTime           RejectionKind = "INVALID_CHECKOUT_TIME"
	UnclassifiedRejection         RejectionKind = "UNCLASSIFIED"
)

// RejectionError 归类后的打卡拒绝错误，仅用于提示，不代表权威校验结果
type RejectionError struct {
	Kind    RejectionKind
	Message string
	Err     error
}

func (e *RejectionError) Error() string { return e.Message }

func (e *RejectionError) Unwrap() error { return e.Err }

type rejectionRule struct {
	kind    RejectionKind
	message string
	tokens  []string // 已转小写并去除重音
}

// 顺序即优先级。token 既包含过程 HINT 中的结构化代码，也包含历史错误文本片段。
var rejectionRules = []rejectionRule{
	{OutsideGeofence, "当前位置不在该地点的打卡范围内", []string{"outside_geofence", "cercado virtual", "geofence"}},
	{LocationRequired, "签到需要提供当前位置", []string{"location_required", "localizacao atual obrigatoria"}},
	{LowGpsAccuracy, "定位精度过低，请到开阔处重试", []string{"low_gps_accuracy", "baixa precisao"}},
	{CheckinWindowClosed, "签到时间窗口已关闭", []string{"checkin_window_closed", "janela de check-in encerrada", "check-in encerrado"}},
	{CheckinNotYetOpen, "尚未到签到时间", []string{"checkin_not_yet_open", "check-in ainda nao liberado", "check-in ainda nao disponivel"}},
	{CheckinRequiredBeforeCheckout, "请先签到再签退", []string{"checkin_required", "check-in obrigatorio", "sem check-in"}},
	{InvalidCheckoutTime, "签退时间无效", []string{"invalid_checkout_time", "check-out invalido", "horario de check-out invalido"}},
}

// ClassifyRejection 将 punch_assignment 返回的错误归类。
// 优先匹配 PgError.Hint 中的结构化代码，其次在错误文本中做大小写与重音不敏感的片段匹配；
// 都不命中时返回 UNCLASSIFIED 并原样透传消息。err 为 nil 时返回 nil。
func ClassifyRejection(err error) error {
	if err == nil {
		return nil
	}
	var re *RejectionError
	if errors.As(err, &re) {
		return re
	}

	candidates := make([]string, 0, 2)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Hint != "" {
			candidates = append(candidates, fold(pgErr.Hint))
		}
		candidates = append(candidates, fold(pgErr.Message))
	}
	candidates = append(candidates, fold(err.Error()))

	for _, text := range candidates {
		for _, rule := range rejectionRules {
			for _, token := range rule.tokens {
				if strings.Contains(text, token) {
					return &RejectionError{Kind: rule.kind, Message: rule.message, Err: err}
				}
			}
		}
	}

	message := err.Error()
	if pgErr != nil && pgErr.Message != "" {
		message = pgErr.Message
	}
	return &RejectionError{Kind: UnclassifiedRejection, Message: message, Err: err}
}

// IsRejection 判断错误链中是否包含指定分类的 RejectionError
func IsRejection(err error, kind RejectionKind) bool {
	var re *RejectionError
	return errors.As(err, &re) && re.Kind == kind
}

// fold 转小写并去除重音符号
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
