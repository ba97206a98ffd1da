package extract

import (
	"regexp"
	"strings"
)

// MetaLabels is the recognized vocabulary for the project metadata table, in
// preferred rendering order. Labels outside this list are still preserved on
// extraction (open extension); they just render after these.
var MetaLabels = []string{
	"项目序号", "项目编号", "公布时间", "公布批次", "批次",
	"类别", "所属地区", "类型", "申报地区或单位", "保护单位",
}

// BearerLabels is the recognized vocabulary for bearer (person) tables, in
// preferred rendering order.
var BearerLabels = []string{
	"编号", "姓名", "性别", "出生日期", "民族",
	"类别", "项目编号", "项目名称", "申报地区或单位",
}

var (
	metaLabelSet   = labelSet(MetaLabels)
	bearerLabelSet = labelSet(BearerLabels)

	// metaKVRegex matches any known metadata label followed by a colon,
	// for cells carrying several label:value pairs inline.
	metaKVRegex = regexp.MustCompile("(" + labelAlternation(MetaLabels) + `)\s*[：:]\s*`)

	// bearerPrefixRegex matches a bearer label embedded at the start of a
	// cell value, including the full-width colon and padding variants.
	bearerPrefixRegex = regexp.MustCompile("^(" + labelAlternation(BearerLabels) + `)\s*[：:　 ]*`)
)

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}

func labelAlternation(labels []string) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return strings.Join(quoted, "|")
}

// IsMetaLabel reports whether s is a recognized metadata label.
func IsMetaLabel(s string) bool {
	_, ok := metaLabelSet[s]
	return ok
}

// IsBearerLabel reports whether s is a recognized bearer label.
func IsBearerLabel(s string) bool {
	_, ok := bearerLabelSet[s]
	return ok
}

// StripBearerPrefix removes a leading bearer label (with its colon) from a
// cell value.
func StripBearerPrefix(value string) string {
	return strings.TrimSpace(bearerPrefixRegex.ReplaceAllString(value, ""))
}
