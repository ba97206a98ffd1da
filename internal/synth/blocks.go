package synth

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/heritagelab/ichcrawl/internal/domain"
	"github.com/heritagelab/ichcrawl/internal/extract"
)

// Block titles for the readable and JSON renderings.
const (
	metaBlockTitle        = "【项目基本信息】"
	bearersBlockTitle     = "【代表性传承人】"
	metaBlockTitleJSON    = "【项目基本信息-JSON】"
	bearersBlockTitleJSON = "【代表性传承人-JSON】"
	summaryBlockTitle     = "【JSON摘要】"
)

// headlineLabels are rendered inside the name summary of a bearer line and
// skipped in its trailing label:value pairs.
var headlineLabels = map[string]struct{}{
	"姓名": {}, "性别": {}, "民族": {}, "出生日期": {},
}

// metaBlockReadable renders the metadata record as a titled block of
// label：value lines, known labels first in preferred order, then extras.
func metaBlockReadable(meta *domain.Record) string {
	if meta.Empty() {
		return ""
	}
	var lines []string
	for _, k := range orderedLabels(meta, extract.MetaLabels) {
		if v := strings.TrimSpace(meta.Get(k)); v != "" {
			lines = append(lines, k+"："+v)
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return metaBlockTitle + "\n" + strings.Join(lines, "\n")
}

// bearersBlockReadable renders each bearer as one line: a name summary with
// gender/ethnicity/birth-date in parentheses when present, followed by the
// remaining label:value pairs, parts joined with full-width semicolons.
func bearersBlockReadable(bearers []*domain.Record) string {
	if len(bearers) == 0 {
		return ""
	}
	var lines []string
	for _, b := range bearers {
		if b.Empty() {
			continue
		}
		var parts []string
		if head := bearerHeadline(b); head != "" {
			parts = append(parts, head)
		}
		for _, k := range orderedLabels(b, extract.BearerLabels) {
			if _, skip := headlineLabels[k]; skip {
				continue
			}
			if v := strings.TrimSpace(b.Get(k)); v != "" {
				parts = append(parts, k+"："+v)
			}
		}
		if len(parts) > 0 {
			lines = append(lines, "- "+strings.Join(parts, "；"))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return bearersBlockTitle + "\n" + strings.Join(lines, "\n")
}

// bearerHeadline builds the 姓名：X（性别：a，民族：b，出生日期：c） summary.
func bearerHeadline(b *domain.Record) string {
	name := strings.TrimSpace(b.Get("姓名"))
	if name == "" {
		return ""
	}
	head := "姓名：" + name
	var attrs []string
	for _, k := range []string{"性别", "民族", "出生日期"} {
		if v := strings.TrimSpace(b.Get(k)); v != "" {
			attrs = append(attrs, k+"："+v)
		}
	}
	if len(attrs) > 0 {
		head += "（" + strings.Join(attrs, "，") + "）"
	}
	return head
}

// orderedLabels returns the record's labels with the preferred order first,
// then any extra labels in insertion order.
func orderedLabels(r *domain.Record, preferred []string) []string {
	out := make([]string, 0, r.Len())
	seen := make(map[string]struct{}, r.Len())
	for _, k := range preferred {
		if r.Has(k) {
			out = append(out, k)
			seen[k] = struct{}{}
		}
	}
	for _, k := range r.Labels() {
		if _, ok := seen[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func metaBlockJSON(meta *domain.Record) string {
	if meta.Empty() {
		return ""
	}
	return metaBlockTitleJSON + "\n" + marshalCompact(meta)
}

func bearersBlockJSON(bearers []*domain.Record) string {
	if len(bearers) == 0 {
		return ""
	}
	return bearersBlockTitleJSON + "\n" + marshalCompact(bearers)
}

// summaryBlockJSON renders the whole structured payload as one JSON block;
// empty when there is neither meta nor bearers.
func summaryBlockJSON(meta *domain.Record, bearers []*domain.Record) string {
	payload := &domain.ExtraPayload{}
	if !meta.Empty() {
		payload.Meta = meta
	}
	if len(bearers) > 0 {
		payload.Bearers = bearers
	}
	if payload.Empty() {
		return ""
	}
	return summaryBlockTitle + "\n" + marshalCompact(payload)
}

// marshalCompact serializes without HTML escaping or a trailing newline.
func marshalCompact(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimRight(buf.String(), "\n")
}
