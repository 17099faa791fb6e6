package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

// ParseSource records which tier produced the variants.
type ParseSource string

const (
	ParseSourceJSON     ParseSource = "json"
	ParseSourceMarkers  ParseSource = "markers"
	ParseSourceWhole    ParseSource = "whole"
	ParseSourceFallback ParseSource = "fallback"
)

const wholeResponseTitle = "AI生成版本"

var (
	versionMarker = regexp.MustCompile(`版本[一二三123]|第[一二三123]版|(?i:version)\s*[123]`)
	fencedBlock   = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

	envelopeKeys = []string{"variants", "versions", "copies", "content", "文案", "版本"}
	titleKeys    = []string{"title", "标题", "name"}
	contentKeys  = []string{"content", "正文", "body", "text", "正文内容"}
)

// parseVariants turns a model reply into at most three variants, trying
// structured JSON first, then version markers, then the whole text. Tags,
// compliance and style are filled in by the caller.
func parseVariants(text string) ([]model.CopyVariant, ParseSource) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ParseSourceWhole
	}

	if variants := parseJSONVariants(text); len(variants) > 0 {
		return variants, ParseSourceJSON
	}
	if variants := parseMarkedVariants(text); len(variants) > 0 {
		return variants, ParseSourceMarkers
	}
	return []model.CopyVariant{{ID: 1, Title: wholeResponseTitle, Content: text}}, ParseSourceWhole
}

func parseJSONVariants(text string) []model.CopyVariant {
	for _, candidate := range jsonCandidates(text) {
		if !gjson.Valid(candidate) {
			continue
		}

		root := gjson.Parse(candidate)
		var items []gjson.Result
		switch {
		case root.IsArray():
			items = root.Array()
		case root.IsObject():
			for _, key := range envelopeKeys {
				if v := root.Get(gjson.Escape(key)); v.IsArray() {
					items = v.Array()
					break
				}
			}
			if len(items) == 0 {
				items = []gjson.Result{root}
			}
		}

		var variants []model.CopyVariant
		for _, item := range items {
			title, content := variantFields(item)
			if content == "" {
				continue
			}
			n := len(variants) + 1
			if title == "" {
				title = "版本" + strconv.Itoa(n)
			}
			variants = append(variants, model.CopyVariant{ID: n, Title: title, Content: content})
			if len(variants) == model.VariantCount {
				break
			}
		}
		if len(variants) > 0 {
			return variants
		}
	}
	return nil
}

func jsonCandidates(text string) []string {
	candidates := []string{text}
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(text, pair[0])
		end := strings.LastIndex(text, pair[1])
		if start >= 0 && end > start {
			candidates = append(candidates, text[start:end+1])
		}
	}
	return candidates
}

func variantFields(item gjson.Result) (string, string) {
	if item.Type == gjson.String {
		return "", strings.TrimSpace(item.String())
	}
	if !item.IsObject() {
		return "", ""
	}
	return firstString(item, titleKeys), firstString(item, contentKeys)
}

func firstString(item gjson.Result, keys []string) string {
	for _, key := range keys {
		if v := item.Get(gjson.Escape(key)); v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func parseMarkedVariants(text string) []model.CopyVariant {
	parts := versionMarker.Split(text, -1)
	if len(parts) < 2 {
		return nil
	}

	var variants []model.CopyVariant
	for _, part := range parts[1:] {
		content := cleanSection(part)
		if content == "" {
			continue
		}
		n := len(variants) + 1
		variants = append(variants, model.CopyVariant{ID: n, Title: "版本" + strconv.Itoa(n), Content: content})
		if len(variants) == model.VariantCount {
			break
		}
	}
	return variants
}

// cleanSection drops blank lines and the punctuation left behind by the marker.
func cleanSection(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	out := strings.Join(lines, "\n")
	out = strings.TrimLeft(out, "：:、.）)】]*# ")
	return strings.TrimSpace(out)
}
