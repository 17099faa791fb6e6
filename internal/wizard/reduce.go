package wizard

import (
	"slices"
	"strings"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

// Reduce returns the state after applying a. Unknown or inapplicable
// actions return s unchanged. Slices in the result never alias slices in s
// that were modified.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetProductName:
		s.ProductName = a.Name
		s.Notice = ""
	case ToggleTag:
		return toggleTag(s, a.Tag)
	case SelectContentType:
		s.ContentType = a.Type
		s.Notice = ""
	case SelectAudience:
		s.TargetAudience = a.Audience
		s.Notice = ""
	case SelectStyle:
		s.WritingStyle = a.Style
		s.Notice = ""

	case Next:
		return next(s)
	case Back:
		return back(s)
	case JumpTo:
		return jumpTo(s, a.Field)
	case Navigate:
		return navigate(s, a.Step)

	case Submit:
		return submit(s)
	case GenerationSucceeded:
		s.Generating = false
		s.GeneratedContent = slices.Clone(a.Variants)
		s.CurrentGenerationID = a.ID
		s.Step = StepResults
		s.Notice = a.Notice
	case GenerationFailed:
		s.Generating = false
		if a.Unauthorized {
			return expireSession(s)
		}
		s.Notice = NoticeGenerationFailed
		if a.Message != "" {
			s.Notice = a.Message
		}

	case Authenticated:
		s.User = a.User
		s.AccessToken = a.Token
		s.ShowAuth = false
		s.Notice = ""
		if s.Step == StepWelcome {
			s.Step = StepProductInput
		}
	case AuthFailed:
		s.Notice = a.Message
	case Logout:
		return Initial()
	case DismissAuth:
		s.ShowAuth = false
	case RequireAuth:
		return expireSession(s)

	case OpenFeedback:
		if s.Step == StepResults && s.CurrentGenerationID != "" {
			s.Step = StepFeedback
		}
	case OpenCompliance:
		if s.Step == StepResults && s.HasResults() {
			s.Step = StepCompliance
		}
	case BackToResults:
		if s.HasResults() {
			s.Step = StepResults
		}
	case StartOver:
		fresh := Initial()
		fresh.Step = StepProductInput
		fresh.GeneratedContent = s.GeneratedContent
		fresh.CurrentGenerationID = s.CurrentGenerationID
		fresh.User = s.User
		fresh.AccessToken = s.AccessToken
		return fresh

	case Notify:
		s.Notice = a.Message
	}
	return s
}

func trimmed(v string) string {
	return strings.TrimSpace(v)
}

// toggleTag keeps the selection in catalog order so that toggling twice
// yields an identical slice.
func toggleTag(s State, tag model.Tag) State {
	if !tag.Valid() {
		s.Notice = NoticeUnknownTag
		return s
	}

	selected := s.HasTag(tag)
	tags := make([]model.Tag, 0, len(s.SelectedTags)+1)
	for _, t := range model.TagCatalog {
		switch {
		case t == tag && selected:
		case t == tag || s.HasTag(t):
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}
	s.SelectedTags = tags
	s.Notice = ""
	return s
}

func next(s State) State {
	var notice string
	var to Step

	switch s.Step {
	case StepWelcome:
		to = StepProductInput
	case StepProductInput:
		notice, to = s.productNotice(), StepTypeSelection
	case StepTypeSelection:
		notice, to = s.typeNotice(), StepStyleSelection
	case StepStyleSelection:
		notice, to = s.styleNotice(), StepConfirmation
	default:
		return s
	}

	if notice != "" {
		s.Notice = notice
		return s
	}
	s.Step = to
	s.Notice = ""
	return s
}

func back(s State) State {
	switch s.Step {
	case StepProductInput:
		s.Step = StepWelcome
	case StepTypeSelection:
		s.Step = StepProductInput
	case StepStyleSelection:
		s.Step = StepTypeSelection
	case StepConfirmation:
		s.Step = StepStyleSelection
	case StepResults:
		s.Step = StepConfirmation
	case StepFeedback, StepCompliance:
		s.Step = StepResults
	case StepLibrary, StepTraining, StepProfile:
		if s.HasResults() {
			s.Step = StepResults
		} else {
			s.Step = StepWelcome
		}
	default:
		return s
	}
	s.Notice = ""
	return s
}

func jumpTo(s State, f Field) State {
	if s.Step != StepConfirmation {
		return s
	}
	switch f {
	case FieldProduct:
		s.Step = StepProductInput
	case FieldType:
		s.Step = StepTypeSelection
	case FieldStyle:
		s.Step = StepStyleSelection
	default:
		return s
	}
	s.Notice = ""
	return s
}

func navigate(s State, to Step) State {
	switch to {
	case StepWelcome, StepProductInput:
	case StepLibrary, StepTraining, StepProfile:
		if !s.Authenticated() {
			s.ShowAuth = true
			return s
		}
	case StepResults:
		if !s.HasResults() {
			return s
		}
	default:
		return s
	}
	s.Step = to
	s.Notice = ""
	return s
}

func submit(s State) State {
	if s.Generating || s.Step != StepConfirmation {
		return s
	}
	for _, notice := range []string{s.productNotice(), s.typeNotice(), s.styleNotice()} {
		if notice != "" {
			s.Notice = notice
			return s
		}
	}
	if !s.Authenticated() {
		s.ShowAuth = true
		return s
	}
	s.Generating = true
	s.Notice = ""
	return s
}

func expireSession(s State) State {
	s.User = nil
	s.AccessToken = ""
	s.ShowAuth = true
	s.Notice = NoticeSessionExpired
	return s
}

// StartsGeneration reports whether moving from prev to next means the
// caller must now issue the generation request.
func StartsGeneration(prev, next State) bool {
	return !prev.Generating && next.Generating
}
