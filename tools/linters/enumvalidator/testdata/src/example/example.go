package example

type ContentType string

const (
	ContentTypeSingle ContentType = "single"
	ContentTypeReview ContentType = "review"
)

type WritingStyle string

const (
	WritingStyleCasual WritingStyle = "casual"
)

type Step string

const (
	StepWelcome Step = "welcome"
)

type Request struct {
	ContentType  ContentType
	WritingStyle WritingStyle
	Name         string
}

type State struct {
	Step Step
}

func bad() {
	r := &Request{}
	r.ContentType = "single" // want "enum field ContentType assigned string literal"

	s := State{}
	s.Step = "results" // want "enum field Step assigned string literal"
	_ = s

	_ = Request{
		WritingStyle: "casual", // want "enum field WritingStyle assigned string literal"
		Name:         "保湿精华",
	}
}

func good() {
	r := &Request{}
	r.ContentType = ContentTypeReview
	r.Name = "保湿精华"

	s := State{Step: StepWelcome}
	_ = s

	_ = Request{ContentType: ContentTypeSingle, WritingStyle: WritingStyleCasual}
}

func alsoGood(raw string) {
	style := WritingStyle(raw)
	_ = Request{WritingStyle: style}
	_ = map[ContentType]string{"single": "单品推荐"}
}
