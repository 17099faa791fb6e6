// Package wizard is the client-side state machine of the copywriting
// wizard. Reduce is pure: it never mutates its input and performs no I/O.
// Callers run side effects (API calls) when a transition asks for them and
// feed the outcome back in as another action.
package wizard

import (
	"slices"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

type Step string

const (
	StepWelcome        Step = "welcome"
	StepProductInput   Step = "product-input"
	StepTypeSelection  Step = "type-selection"
	StepStyleSelection Step = "style-selection"
	StepConfirmation   Step = "confirmation"
	StepResults        Step = "results"
	StepFeedback       Step = "feedback"
	StepCompliance     Step = "compliance"
	StepLibrary        Step = "library"
	StepTraining       Step = "training"
	StepProfile        Step = "profile"
)

// Field names an editable part of the form, used to jump back from
// confirmation.
type Field string

const (
	FieldProduct Field = "product"
	FieldType    Field = "type"
	FieldStyle   Field = "style"
)

const (
	NoticeProductRequired  = "请输入产品名称"
	NoticeTypeRequired     = "请选择内容类型和目标用户"
	NoticeStyleRequired    = "请选择文案风格"
	NoticeUnknownTag       = "不支持的标签"
	NoticeSessionExpired   = "登录已过期，请重新登录"
	NoticeGenerationFailed = "生成失败，请稍后重试"
)

type State struct {
	Step           Step
	ProductName    string
	SelectedTags   []model.Tag
	ContentType    model.ContentType
	TargetAudience model.TargetAudience
	WritingStyle   model.WritingStyle

	GeneratedContent    []model.CopyVariant
	CurrentGenerationID string

	User        *model.User
	AccessToken string
	ShowAuth    bool

	Notice     string
	Generating bool
}

func Initial() State {
	return State{Step: StepWelcome}
}

func (s State) Authenticated() bool {
	return s.AccessToken != ""
}

func (s State) HasTag(t model.Tag) bool {
	return slices.Contains(s.SelectedTags, t)
}

// HasResults reports whether a previous generation can be shown.
func (s State) HasResults() bool {
	return len(s.GeneratedContent) > 0
}

// Ready reports whether every field generation needs is filled in.
func (s State) Ready() bool {
	return s.productNotice() == "" && s.typeNotice() == "" && s.styleNotice() == ""
}

func (s State) productNotice() string {
	if trimmed(s.ProductName) == "" {
		return NoticeProductRequired
	}
	return ""
}

func (s State) typeNotice() string {
	if !s.ContentType.Valid() || !s.TargetAudience.Valid() {
		return NoticeTypeRequired
	}
	return ""
}

func (s State) styleNotice() string {
	if !s.WritingStyle.Valid() {
		return NoticeStyleRequired
	}
	return ""
}
