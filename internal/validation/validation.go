// Package validation はリクエスト形状の検証関数を提供する。
// ストア層の型変換とは独立に、リポジトリ呼び出しの前段で明示的に実行する。
package validation

import (
	"net/url"
	"regexp"
	"unicode/utf8"
)

// emailPattern はメールアドレスの形式を検証するパターン。
// RFC完全準拠ではなく、ローカル部@ドメイン部（TLD付き）の実用的な判定を行う。
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)

// hexIDPattern はドキュメントストアの識別子形式（24桁の16進文字列）。
var hexIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// InLength は文字列長（文字数）がmin以上max以下かを返す。
func InLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// IsEmail は文字列がメールアドレス形式かを返す。
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsURL は文字列がURL形式（ftp/http/https、ホスト付き）かを返す。
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp":
	default:
		return false
	}
	return u.Host != ""
}

// IsHexID は文字列がドキュメントストアの識別子形式（24桁16進）かを返す。
func IsHexID(s string) bool {
	return hexIDPattern.MatchString(s)
}
