package tui_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/internal/client"
	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/http/dto"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/tui"
	"github.com/BitmanAlan/xiaohongshu/internal/wizard"
)

var keyTypes = map[string]tea.KeyType{
	"enter": tea.KeyEnter,
	"esc":   tea.KeyEsc,
	"tab":   tea.KeyTab,
	"up":    tea.KeyUp,
	"down":  tea.KeyDown,
}

func key(k string) tea.KeyMsg {
	if t, ok := keyTypes[k]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// collect runs cmd and returns the messages it produced. Commands that
// block (cursor blink, spinner ticks) are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

type driver struct {
	m tea.Model
}

// send delivers msg and settles every message the resulting commands produce.
func (d *driver) send(msg tea.Msg) {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if _, ok := next.(spinner.TickMsg); ok {
			continue
		}
		var cmd tea.Cmd
		d.m, cmd = d.m.Update(next)
		queue = append(queue, collect(cmd)...)
	}
}

func (d *driver) press(keys ...string) {
	for _, k := range keys {
		d.send(key(k))
	}
}

func (d *driver) typeText(s string) {
	d.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (d *driver) state() wizard.State {
	return d.m.(tui.Model).State()
}

var variants = []model.CopyVariant{
	{ID: 1, Title: "真实测评", Content: "一", Compliance: model.ComplianceGradeA},
	{ID: 2, Title: "闭眼入", Content: "二", Compliance: model.ComplianceGradeB},
	{ID: 3, Title: "回购", Content: "三", Compliance: model.ComplianceGradeA},
}

var _ = Describe("Model", func() {
	var (
		api      *mockAPI
		sessions []string
		d        *driver
	)

	start := func(token string) {
		sessions = nil
		m := tui.New(context.Background(), tui.Config{
			NewAPI: func(t string) tui.API {
				api.tokensSeen = append(api.tokensSeen, t)
				return api
			},
			User:  &model.User{ID: "user_1", Name: "小红"},
			Token: token,
			OnSession: func(token string, _ *model.User) {
				sessions = append(sessions, token)
			},
		})
		d = &driver{m: m}
	}

	BeforeEach(func() {
		api = &mockAPI{
			generateFn: func(context.Context, dto.GenerateRequest) (*dto.GenerateResponse, error) {
				return &dto.GenerateResponse{GenerationID: "generation:user_1:1", Content: variants}, nil
			},
		}
	})

	fillForm := func() {
		d.press("enter")
		d.typeText("保湿精华")
		d.press("tab", "6", "enter")
		// single, then student
		d.press("enter", "down", "down", "down", "enter")
		// casual
		d.press("down", "down", "enter")
	}

	It("walks the wizard and generates once", func() {
		start("tok")
		var got dto.GenerateRequest
		api.generateFn = func(_ context.Context, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
			got = req
			return &dto.GenerateResponse{GenerationID: "generation:user_1:1", Content: variants}, nil
		}

		fillForm()
		Expect(d.state().Step).To(Equal(wizard.StepConfirmation))
		Expect(d.m.View()).To(ContainSubstring("保湿精华"))

		d.press("enter")

		Expect(api.generateRuns).To(Equal(1))
		Expect(got).To(Equal(dto.GenerateRequest{
			ProductName:    "保湿精华",
			SelectedTags:   []string{"moisturizing"},
			ContentType:    model.ContentTypeSingle,
			TargetAudience: model.TargetAudienceStudent,
			WritingStyle:   model.WritingStyleCasual,
		}))
		Expect(api.tokensSeen).To(ContainElement("tok"))

		s := d.state()
		Expect(s.Step).To(Equal(wizard.StepResults))
		Expect(s.GeneratedContent).To(HaveLen(3))
		Expect(d.m.View()).To(ContainSubstring("闭眼入"))
	})

	It("ignores a second submit while generating", func() {
		start("tok")
		fillForm()

		m, first := d.m.Update(key("enter"))
		m, second := m.Update(key("enter"))

		Expect(m.(tui.Model).State().Generating).To(BeTrue())
		collect(first)
		collect(second)
		Expect(api.generateRuns).To(Equal(1))
	})

	It("stays on the step when the product name is empty", func() {
		start("tok")
		d.press("enter", "enter")

		Expect(d.state().Step).To(Equal(wizard.StepProductInput))
		Expect(d.state().Notice).To(Equal(wizard.NoticeProductRequired))
	})

	DescribeTable("reports generation failures without transport details",
		func(failure error, notice string) {
			start("tok")
			api.generateFn = func(context.Context, dto.GenerateRequest) (*dto.GenerateResponse, error) {
				return nil, failure
			}

			fillForm()
			d.press("enter")

			s := d.state()
			Expect(s.Step).To(Equal(wizard.StepConfirmation))
			Expect(s.Generating).To(BeFalse())
			Expect(s.Notice).To(Equal(notice))
		},
		Entry("rejected request", &client.APIError{Status: http.StatusBadRequest, Message: "缺少必填参数"}, "缺少必填参数"),
		Entry("server error", &client.APIError{Status: http.StatusBadGateway, Message: "AI服务异常", Details: "upstream"}, wizard.NoticeGenerationFailed),
		Entry("unreachable server", errors.New("POST /generate: dial tcp 127.0.0.1:8080: connect: connection refused"), wizard.NoticeGenerationFailed),
	)

	It("asks to sign in again when the token is rejected", func() {
		start("expired")
		api.generateFn = func(context.Context, dto.GenerateRequest) (*dto.GenerateResponse, error) {
			return nil, &client.APIError{Status: http.StatusUnauthorized, Message: "未授权访问"}
		}
		api.signInFn = func(_ context.Context, email, password string) (*dto.SignInResponse, error) {
			Expect(email).To(Equal("a@b.com"))
			Expect(password).To(Equal("pw"))
			return &dto.SignInResponse{
				User:        dto.UserResponse{ID: "user_1", Email: email},
				AccessToken: "fresh",
			}, nil
		}

		fillForm()
		d.press("enter")

		s := d.state()
		Expect(s.ShowAuth).To(BeTrue())
		Expect(s.AccessToken).To(BeEmpty())
		Expect(s.Step).To(Equal(wizard.StepConfirmation))

		d.typeText("a@b.com")
		d.press("tab")
		d.typeText("pw")
		d.press("enter")

		s = d.state()
		Expect(s.ShowAuth).To(BeFalse())
		Expect(s.AccessToken).To(Equal("fresh"))
		Expect(sessions).To(Equal([]string{"fresh"}))

		api.generateFn = func(context.Context, dto.GenerateRequest) (*dto.GenerateResponse, error) {
			return &dto.GenerateResponse{GenerationID: "g", Content: variants}, nil
		}
		d.press("enter")
		Expect(d.state().Step).To(Equal(wizard.StepResults))
		Expect(api.tokensSeen).To(ContainElement("fresh"))
	})

	It("shows sign-in failures", func() {
		start("")
		api.signInFn = func(context.Context, string, string) (*dto.SignInResponse, error) {
			return nil, &client.APIError{Status: http.StatusUnauthorized, Message: "邮箱或密码错误"}
		}

		d.press("l")
		Expect(d.state().ShowAuth).To(BeTrue())

		d.typeText("a@b.com")
		d.press("tab")
		d.typeText("bad")
		d.press("enter")

		Expect(d.state().Notice).To(Equal("邮箱或密码错误"))
		Expect(d.state().ShowAuth).To(BeTrue())
		Expect(sessions).To(BeEmpty())
	})

	It("loads the library when signed in", func() {
		start("tok")
		api.libraryFn = func(context.Context) ([]model.LibraryItem, error) {
			return []model.LibraryItem{{ID: "g1", Title: "保湿精华 - single", Compliance: model.ComplianceGradeA}}, nil
		}

		d.press("l")

		Expect(d.state().Step).To(Equal(wizard.StepLibrary))
		Expect(d.m.View()).To(ContainSubstring("保湿精华 - single"))
	})

	It("drops the session when a request comes back 401", func() {
		start("tok")
		api.profileFn = func(context.Context) (*model.UserProfile, error) {
			return nil, &client.APIError{Status: http.StatusUnauthorized}
		}

		d.press("p")

		Expect(d.state().ShowAuth).To(BeTrue())
		Expect(d.state().AccessToken).To(BeEmpty())
	})

	Context("on results", func() {
		BeforeEach(func() {
			start("tok")
			fillForm()
			d.press("enter")
			Expect(d.state().Step).To(Equal(wizard.StepResults))
		})

		It("saves a variant", func() {
			var saved int
			api.saveFn = func(_ context.Context, id string, contentID int) error {
				Expect(id).To(Equal("generation:user_1:1"))
				saved = contentID
				return nil
			}

			d.press("2")

			Expect(saved).To(Equal(2))
			Expect(d.state().Notice).To(ContainSubstring("版本 2"))
		})

		It("submits feedback and returns to results", func() {
			var got dto.FeedbackRequest
			api.feedbackFn = func(_ context.Context, req dto.FeedbackRequest) error {
				got = req
				return nil
			}

			d.press("f", "down", "enter")

			Expect(got.Satisfaction).To(Equal(model.SatisfactionLike))
			Expect(got.GenerationID).To(Equal("generation:user_1:1"))
			Expect(d.state().Step).To(Equal(wizard.StepResults))
		})

		It("reviews compliance", func() {
			api.reviewFn = func(_ context.Context, req dto.ComplianceReviewRequest) ([]compliance.Report, error) {
				Expect(req.GenerationID).To(Equal("generation:user_1:1"))
				return []compliance.Report{{
					VariantID: 2, Grade: model.ComplianceGradeB, Score: 78,
					Issues: []compliance.Issue{{Text: "冲鸭", Suggestion: "快试试", Count: 1}},
				}}, nil
			}

			d.press("c")

			Expect(d.state().Step).To(Equal(wizard.StepCompliance))
			Expect(d.m.View()).To(ContainSubstring("冲鸭 → 快试试"))
		})

		It("keeps the results reachable after starting over", func() {
			d.press("n")
			Expect(d.state().Step).To(Equal(wizard.StepProductInput))

			d.press("esc", "r")
			Expect(d.state().Step).To(Equal(wizard.StepResults))
		})
	})
})
