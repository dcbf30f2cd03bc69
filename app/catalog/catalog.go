package catalog

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

type Kind string

const (
	KindCategory Kind = "category"
	KindRegion   Kind = "region"
)

const (
	Wildcard   = "any"
	Unresolved = "unresolved"
)

type Entry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// category codes follow the indutyType values expected by the backend
var categories = map[string]string{
	"01": "한식",
	"02": "중식",
	"03": "일식",
	"04": "경양식",
	"05": "분식",
	"06": "해산물",
	"07": "고기구이",
	"08": "카페",
	"09": "제과점",
	"10": "퓨전",
	"11": "국수",
	"12": "전통음식",
	"13": "뷔페",
	"14": "치킨",
	"15": "패스트푸드",
	"16": "횟집",
	"17": "해장국",
	"18": "죽",
	"19": "기타",
}

// region codes follow the emdType values expected by the backend
var regions = map[string]string{
	"101": "일도1동",
	"102": "일도2동",
	"103": "이도1동",
	"104": "이도2동",
	"105": "삼도1동",
	"106": "삼도2동",
	"107": "용담1동",
	"108": "용담2동",
	"109": "건입동",
	"110": "화북동",
	"111": "삼양동",
	"112": "봉개동",
	"113": "아라동",
	"114": "오라동",
	"115": "연동",
	"116": "노형동",
	"117": "외도동",
	"118": "이호동",
	"119": "도두동",
	"120": "애월읍",
	"121": "조천읍",
	"122": "구좌읍",
	"123": "한림읍",
	"124": "한경면",
	"125": "우도면",
}

var tables = map[Kind]map[string]string{
	KindCategory: categories,
	KindRegion:   regions,
}

// ResolveLabel returns the human label for code, or Unresolved.
func ResolveLabel(kind Kind, code string) string {
	label, ok := tables[kind][code]
	if !ok {
		return Unresolved
	}

	return label
}

func Entries(kind Kind) []Entry {
	table := tables[kind]

	return pie.Map(pie.Sort(pie.Keys(table)), func(code string) Entry {
		return Entry{Code: code, Label: table[code]}
	})
}

// IsWildcard treats the empty code as "any", as the first UI revisions did.
func IsWildcard(code string) bool {
	code = strings.TrimSpace(code)
	return code == "" || code == Wildcard
}

func ValidKind(kind Kind) bool {
	_, ok := tables[kind]
	return ok
}
