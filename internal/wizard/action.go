package wizard

import "github.com/BitmanAlan/xiaohongshu/internal/model"

// Action is one of the types below.
type Action interface {
	action()
}

type (
	SetProductName    struct{ Name string }
	ToggleTag         struct{ Tag model.Tag }
	SelectContentType struct{ Type model.ContentType }
	SelectAudience    struct{ Audience model.TargetAudience }
	SelectStyle       struct{ Style model.WritingStyle }

	Next   struct{}
	Back   struct{}
	JumpTo struct{ Field Field }
	// Navigate is a navigation-bar jump.
	Navigate struct{ Step Step }

	Submit              struct{}
	GenerationSucceeded struct {
		ID       string
		Variants []model.CopyVariant
		Notice   string
	}
	// GenerationFailed carries whether the server rejected the credential.
	// Message is the server's own text for a rejected request and is empty
	// for transport and server-side failures.
	GenerationFailed struct {
		Message      string
		Unauthorized bool
	}

	Authenticated struct {
		User  *model.User
		Token string
	}
	AuthFailed  struct{ Message string }
	Logout      struct{}
	DismissAuth struct{}
	// RequireAuth raises the sign-in overlay, e.g. after a 401 outside
	// generation.
	RequireAuth struct{}

	OpenFeedback   struct{}
	OpenCompliance struct{}
	BackToResults  struct{}
	StartOver      struct{}

	Notify struct{ Message string }
)

func (SetProductName) action()      {}
func (ToggleTag) action()           {}
func (SelectContentType) action()   {}
func (SelectAudience) action()      {}
func (SelectStyle) action()         {}
func (Next) action()                {}
func (Back) action()                {}
func (JumpTo) action()              {}
func (Navigate) action()            {}
func (Submit) action()              {}
func (GenerationSucceeded) action() {}
func (GenerationFailed) action()    {}
func (Authenticated) action()       {}
func (AuthFailed) action()          {}
func (Logout) action()              {}
func (DismissAuth) action()         {}
func (RequireAuth) action()         {}
func (OpenFeedback) action()        {}
func (OpenCompliance) action()      {}
func (BackToResults) action()       {}
func (StartOver) action()           {}
func (Notify) action()              {}
