package i18n

import (
	"sort"
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"invalid_type":          "invalid type",
		"required":              "required property missing",
		"unknown_key":           "unknown key",
		"duplicate_key":         "duplicate key",
		"too_small":             "too small",
		"too_big":               "too big",
		"too_short":             "too short",
		"too_long":              "too long",
		"pattern":               "does not match pattern",
		"invalid_literal":       "unexpected literal value",
		"invalid_enum":          "not one of the allowed values",
		"invalid_format":        "invalid format",
		"invalid_union":         "no union alternative matched",
		"discriminator_missing": "discriminator missing",
		"discriminator_unknown": "unknown discriminator value",
		"uniqueness":            "duplicate value",
		"custom":                "custom check failed",
		"parse_error":           "parse error",
		"truncated":             "truncated",
	},
	"ja": {
		"invalid_type":          "型が不正です",
		"required":              "必須プロパティが不足しています",
		"unknown_key":           "未知のキーです",
		"duplicate_key":         "キーが重複しています",
		"too_small":             "小さすぎます",
		"too_big":               "大きすぎます",
		"too_short":             "短すぎます",
		"too_long":              "長すぎます",
		"pattern":               "パターンに一致しません",
		"invalid_literal":       "値が一致しません",
		"invalid_enum":          "許可された値ではありません",
		"invalid_format":        "形式が不正です",
		"invalid_union":         "どの候補にも一致しません",
		"discriminator_missing": "判別子がありません",
		"discriminator_unknown": "未知の判別子です",
		"uniqueness":            "値が重複しています",
		"custom":                "検証に失敗しました",
		"parse_error":           "解析エラー",
		"truncated":             "打ち切られました",
	},
}

// Message returns the dictionary text for code; data entries are appended as
// "(k=v, ...)" in key order.
func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dict[t.lang][code]
	if !ok {
		msg = code
	}
	if len(data) == 0 {
		return msg
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+data[k])
	}
	return msg + " (" + strings.Join(parts, ", ") + ")"
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
