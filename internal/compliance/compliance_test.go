package compliance_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/BitmanAlan/xiaohongshu/internal/compliance"
	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

var _ = Describe("Analyzer", func() {
	var analyzer *compliance.Analyzer

	BeforeEach(func() {
		analyzer = compliance.New()
	})

	It("gives clean copy a perfect A", func() {
		r := analyzer.Analyze("这款精华质地清爽，坚持用了一个月，皮肤状态稳定了不少。")
		Expect(r.Score).To(Equal(100))
		Expect(r.Grade).To(Equal(model.ComplianceGradeA))
		Expect(r.Issues).To(BeEmpty())
	})

	It("flags slang with the platform's suggested replacement", func() {
		r := analyzer.Analyze("姐妹们冲鸭！学生党无压力，冲鸭冲鸭")
		Expect(r.Score).To(Equal(78))
		Expect(r.Grade).To(Equal(model.ComplianceGradeB))
		Expect(r.Issues).To(ConsistOf(
			compliance.Issue{Text: "冲鸭", Suggestion: `建议改为"快试试"`, Count: 3},
			compliance.Issue{Text: "无压力", Suggestion: `建议改为"很划算"`, Count: 1},
		))
	})

	It("grades heavy absolute claims C and floors at zero", func() {
		r := analyzer.Analyze("全网第一最好最佳，100%根治，立刻见效，永久有效，国家级认证，冲鸭，无压力")
		Expect(r.Grade).To(Equal(model.ComplianceGradeC))
		Expect(r.Score).To(Equal(0))
	})

	DescribeTable("Grade thresholds",
		func(score int, grade model.ComplianceGrade) {
			Expect(compliance.Grade(score)).To(Equal(grade))
		},
		Entry("100", 100, model.ComplianceGradeA),
		Entry("90", 90, model.ComplianceGradeA),
		Entry("89", 89, model.ComplianceGradeB),
		Entry("70", 70, model.ComplianceGradeB),
		Entry("69", 69, model.ComplianceGradeC),
	)

	It("reviews variants keeping ids and titles", func() {
		reports := analyzer.Review([]model.CopyVariant{
			{ID: 1, Title: "情感体验版", Content: "真的很喜欢"},
			{ID: 2, Title: "轻松种草版", Content: "学生党完全无压力"},
		})
		Expect(reports).To(HaveLen(2))
		Expect(reports[0].VariantID).To(Equal(1))
		Expect(reports[1].Title).To(Equal("轻松种草版"))
		Expect(reports[1].Grade).To(Equal(model.ComplianceGradeB))
	})

	It("rewrites flagged phrases that have a quoted replacement", func() {
		Expect(analyzer.Suggest("冲鸭！价格无压力")).To(Equal("快试试！价格很划算"))
	})

	It("accepts a custom lexicon", func() {
		custom := compliance.New(compliance.Rule{Phrase: "神器", Suggestion: `建议改为"好物"`})
		r := custom.Analyze("冲鸭 神器")
		Expect(r.Issues).To(HaveLen(1))
		Expect(r.Issues[0].Text).To(Equal("神器"))
	})
})
