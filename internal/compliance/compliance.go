// Package compliance scores copy against a lexicon of phrases that
// advertising rules or platform guidelines discourage.
package compliance

import (
	"strings"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

const (
	maxScore       = 100
	penaltyPerFlag = 11
	gradeAMin      = 90
	gradeBMin      = 70
)

// Rule flags a phrase and proposes a replacement.
type Rule struct {
	Phrase     string
	Suggestion string
}

// DefaultRules covers slang the platform marks down and the absolute claims
// advertising law forbids.
var DefaultRules = []Rule{
	{Phrase: "冲鸭", Suggestion: `建议改为"快试试"`},
	{Phrase: "无压力", Suggestion: `建议改为"很划算"`},
	{Phrase: "最好", Suggestion: "避免绝对化用语，建议改为\"很好用\""},
	{Phrase: "最佳", Suggestion: "避免绝对化用语，建议删除"},
	{Phrase: "第一", Suggestion: "避免排名类表述，建议删除"},
	{Phrase: "100%", Suggestion: "避免承诺性数据，建议改为\"大部分\""},
	{Phrase: "根治", Suggestion: "化妆品不得宣称医疗效果，建议删除"},
	{Phrase: "立刻见效", Suggestion: "避免夸大功效，建议改为\"坚持使用有改善\""},
	{Phrase: "永久", Suggestion: "避免绝对化用语，建议删除"},
	{Phrase: "国家级", Suggestion: "避免未经证实的资质表述，建议删除"},
}

type Issue struct {
	Text       string `json:"text"`
	Suggestion string `json:"suggestion"`
	Count      int    `json:"count"`
}

type Report struct {
	VariantID  int                   `json:"id"`
	Title      string                `json:"title"`
	Grade      model.ComplianceGrade `json:"grade"`
	Score      int                   `json:"score"`
	Issues     []Issue               `json:"issues"`
	Highlights []string              `json:"highlights"`
}

type Analyzer struct {
	rules []Rule
}

// New returns an analyzer over rules, or DefaultRules when none are given.
func New(rules ...Rule) *Analyzer {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Analyzer{rules: rules}
}

// Analyze scores one piece of copy. Each distinct flagged phrase costs the
// same regardless of how often it repeats.
func (a *Analyzer) Analyze(content string) Report {
	issues := make([]Issue, 0)
	for _, r := range a.rules {
		if n := strings.Count(content, r.Phrase); n > 0 {
			issues = append(issues, Issue{Text: r.Phrase, Suggestion: r.Suggestion, Count: n})
		}
	}

	score := max(maxScore-penaltyPerFlag*len(issues), 0)
	grade := Grade(score)

	return Report{
		Grade:      grade,
		Score:      score,
		Issues:     issues,
		Highlights: highlights(grade),
	}
}

// Review analyzes each variant, keeping the variant's id and title.
func (a *Analyzer) Review(variants []model.CopyVariant) []Report {
	reports := make([]Report, 0, len(variants))
	for _, v := range variants {
		r := a.Analyze(v.Title + "\n" + v.Content)
		r.VariantID = v.ID
		r.Title = v.Title
		reports = append(reports, r)
	}
	return reports
}

// Suggest rewrites content by replacing flagged phrases with the quoted
// replacement in their suggestion, when the suggestion carries one.
func (a *Analyzer) Suggest(content string) string {
	for _, r := range a.rules {
		if repl, ok := quoted(r.Suggestion); ok {
			content = strings.ReplaceAll(content, r.Phrase, repl)
		}
	}
	return content
}

func Grade(score int) model.ComplianceGrade {
	switch {
	case score >= gradeAMin:
		return model.ComplianceGradeA
	case score >= gradeBMin:
		return model.ComplianceGradeB
	default:
		return model.ComplianceGradeC
	}
}

func highlights(g model.ComplianceGrade) []string {
	switch g {
	case model.ComplianceGradeA:
		return []string{"语言规范", "内容真实", "无夸大宣传"}
	case model.ComplianceGradeB:
		return []string{"整体表达良好", "情感真实"}
	default:
		return []string{"建议修改后发布"}
	}
}

func quoted(s string) (string, bool) {
	_, rest, ok := strings.Cut(s, `"`)
	if !ok {
		return "", false
	}
	inner, _, ok := strings.Cut(rest, `"`)
	return inner, ok && inner != ""
}
