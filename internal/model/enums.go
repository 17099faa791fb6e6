package model

import "fmt"

type ContentType string

const (
	ContentTypeSingle     ContentType = "single"
	ContentTypeCollection ContentType = "collection"
	ContentTypeReview     ContentType = "review"
	ContentTypeComparison ContentType = "comparison"
)

var ContentTypes = []ContentType{
	ContentTypeSingle,
	ContentTypeCollection,
	ContentTypeReview,
	ContentTypeComparison,
}

func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeSingle, ContentTypeCollection, ContentTypeReview, ContentTypeComparison:
		return true
	}
	return false
}

// Label is the Chinese display name used in prompts and the terminal UI.
func (c ContentType) Label() string {
	switch c {
	case ContentTypeSingle:
		return "单品推荐"
	case ContentTypeCollection:
		return "合集推荐"
	case ContentTypeReview:
		return "产品测评"
	case ContentTypeComparison:
		return "产品对比"
	}
	return string(c)
}

type TargetAudience string

const (
	TargetAudienceGenZ          TargetAudience = "gen-z"
	TargetAudienceSensitiveSkin TargetAudience = "sensitive-skin"
	TargetAudienceOfficeWorker  TargetAudience = "office-worker"
	TargetAudienceStudent       TargetAudience = "student"
)

var TargetAudiences = []TargetAudience{
	TargetAudienceGenZ,
	TargetAudienceSensitiveSkin,
	TargetAudienceOfficeWorker,
	TargetAudienceStudent,
}

func (a TargetAudience) Valid() bool {
	switch a {
	case TargetAudienceGenZ, TargetAudienceSensitiveSkin, TargetAudienceOfficeWorker, TargetAudienceStudent:
		return true
	}
	return false
}

func (a TargetAudience) Label() string {
	switch a {
	case TargetAudienceGenZ:
		return "Z世代年轻人（18-25岁）"
	case TargetAudienceSensitiveSkin:
		return "敏感肌用户"
	case TargetAudienceOfficeWorker:
		return "上班族"
	case TargetAudienceStudent:
		return "学生群体"
	}
	return string(a)
}

type WritingStyle string

const (
	WritingStyleEmotional    WritingStyle = "emotional"
	WritingStyleProfessional WritingStyle = "professional"
	WritingStyleCasual       WritingStyle = "casual"
	WritingStyleScientific   WritingStyle = "scientific"
)

var WritingStyles = []WritingStyle{
	WritingStyleEmotional,
	WritingStyleProfessional,
	WritingStyleCasual,
	WritingStyleScientific,
}

func (s WritingStyle) Valid() bool {
	switch s {
	case WritingStyleEmotional, WritingStyleProfessional, WritingStyleCasual, WritingStyleScientific:
		return true
	}
	return false
}

// Label describes the tone the model is asked to write in.
func (s WritingStyle) Label() string {
	switch s {
	case WritingStyleEmotional:
		return "情感共鸣型，注重情感体验和个人感受"
	case WritingStyleProfessional:
		return "专业分析型，重视成分和效果数据"
	case WritingStyleCasual:
		return "轻松愉快型，语言活泼有趣"
	case WritingStyleScientific:
		return "科学严谨型，注重科学依据和专业性"
	}
	return string(s)
}

type ComplianceGrade string

const (
	ComplianceGradeA ComplianceGrade = "A"
	ComplianceGradeB ComplianceGrade = "B"
	ComplianceGradeC ComplianceGrade = "C"
)

func (g ComplianceGrade) Valid() bool {
	switch g {
	case ComplianceGradeA, ComplianceGradeB, ComplianceGradeC:
		return true
	}
	return false
}

type Satisfaction string

const (
	SatisfactionLove    Satisfaction = "love"
	SatisfactionLike    Satisfaction = "like"
	SatisfactionOK      Satisfaction = "ok"
	SatisfactionDislike Satisfaction = "dislike"
)

var Satisfactions = []Satisfaction{
	SatisfactionLove,
	SatisfactionLike,
	SatisfactionOK,
	SatisfactionDislike,
}

func (s Satisfaction) Valid() bool {
	switch s {
	case SatisfactionLove, SatisfactionLike, SatisfactionOK, SatisfactionDislike:
		return true
	}
	return false
}

// Tag is one selling-point tag from the wizard's fixed catalog.
type Tag string

const (
	TagAntioxidant  Tag = "antioxidant"
	TagRepair       Tag = "repair"
	TagRefreshing   Tag = "refreshing"
	TagWhitening    Tag = "whitening"
	TagAntiAging    Tag = "anti-aging"
	TagMoisturizing Tag = "moisturizing"
)

var TagCatalog = []Tag{
	TagAntioxidant,
	TagRepair,
	TagRefreshing,
	TagWhitening,
	TagAntiAging,
	TagMoisturizing,
}

func (t Tag) Valid() bool {
	for _, known := range TagCatalog {
		if t == known {
			return true
		}
	}
	return false
}

func (t Tag) Label() string {
	switch t {
	case TagAntioxidant:
		return "抗氧化"
	case TagRepair:
		return "修护"
	case TagRefreshing:
		return "清爽"
	case TagWhitening:
		return "美白"
	case TagAntiAging:
		return "抗老"
	case TagMoisturizing:
		return "保湿"
	}
	return string(t)
}

// ParseContentType, ParseTargetAudience, ParseWritingStyle and
// ParseSatisfaction convert request strings at the API boundary.
func ParseContentType(s string) (ContentType, error) {
	if c := ContentType(s); c.Valid() {
		return c, nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

func ParseTargetAudience(s string) (TargetAudience, error) {
	if a := TargetAudience(s); a.Valid() {
		return a, nil
	}
	return "", fmt.Errorf("unknown target audience %q", s)
}

func ParseWritingStyle(s string) (WritingStyle, error) {
	if w := WritingStyle(s); w.Valid() {
		return w, nil
	}
	return "", fmt.Errorf("unknown writing style %q", s)
}

func ParseSatisfaction(s string) (Satisfaction, error) {
	if v := Satisfaction(s); v.Valid() {
		return v, nil
	}
	return "", fmt.Errorf("unknown satisfaction %q", s)
}
