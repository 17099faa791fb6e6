package service

import (
	"strconv"
	"strings"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

const fallbackNotice = "使用了备用模板生成内容"

const padTemplate = "{product}真的是我最近的心头好！✨\n\n这款产品的质感和效果都超出了我的预期，用了一段时间后真的看到了明显的改变。\n\n推荐给和我一样在寻找好产品的小伙伴们！"

type variantTemplate struct {
	title      string
	body       string
	compliance model.ComplianceGrade
}

// fallbackTemplates are served when the model cannot be reached. The
// casual version uses 无压力, which the compliance lexicon marks down, so it
// ships graded B.
var fallbackTemplates = [model.VariantCount]variantTemplate{
	{
		title:      "情感体验版",
		compliance: model.ComplianceGradeA,
		body:       "用了{product}已经快一个月了，真的要感谢小红书让我发现了这个宝藏产品！💕\n\n作为一个对产品很挑剔的人，这款产品刚开始用的时候还有点担心，但是坚持下来真的看到了改变。\n\n现在每天使用都能感受到它带来的愉悦体验，那种发自内心的满足感真的无法言喻～\n\n姐妹们如果也在寻找优质产品，真的可以试试这款！\n\n#好物分享 #种草 #生活好物",
	},
	{
		title:      "轻松种草版",
		compliance: model.ComplianceGradeB,
		body:       "哈喽美少女们～今天又来分享好物啦！\n\n{product}真的是我最近的心头好💕\n\n这个质感太治愈了吧！用起来超舒服，效果也很棒，每次使用都心情好好！\n\n价格也很美丽，学生党完全无压力🎉\n\n已经准备回购了，姐妹们快试试！\n\n#好物分享 #学生党福利 #日常好物 #种草",
	},
	{
		title:      "专业分析版",
		compliance: model.ComplianceGradeA,
		body:       "今天来详细分析一下{product}的特点：\n\n✨ 主要优势：\n• 品质优良 - 材料精选，工艺精湛\n• 性价比高 - 价格合理，效果显著\n• 用户友好 - 操作简单，体验舒适\n\n📊 使用体验：\n经过一段时间的测试，整体满意度很高，各项指标表现优秀。质感上乘，适合各种使用场景。\n\n推荐给注重品质和性价比的小伙伴们！\n\n#产品评测 #品质生活 #推荐",
	},
}

func render(tmpl, productName string) string {
	return strings.ReplaceAll(tmpl, "{product}", productName)
}

func fallbackVariants(in GenerateInput) []model.CopyVariant {
	variants := make([]model.CopyVariant, 0, model.VariantCount)
	for i, t := range fallbackTemplates {
		variants = append(variants, model.CopyVariant{
			ID:         i + 1,
			Title:      t.title,
			Content:    render(t.body, in.ProductName),
			Tags:       cloneTags(in.SelectedTags),
			Compliance: t.compliance,
			Style:      in.WritingStyle,
		})
	}
	return variants
}

// completeVariants stamps request fields onto parsed variants, renumbers
// them, then pads or truncates to exactly VariantCount.
func completeVariants(parsed []model.CopyVariant, in GenerateInput) []model.CopyVariant {
	if len(parsed) > model.VariantCount {
		parsed = parsed[:model.VariantCount]
	}

	variants := make([]model.CopyVariant, 0, model.VariantCount)
	for _, v := range parsed {
		v.ID = len(variants) + 1
		v.Tags = cloneTags(in.SelectedTags)
		v.Compliance = model.ComplianceGradeA
		v.Style = in.WritingStyle
		variants = append(variants, v)
	}

	for len(variants) < model.VariantCount {
		n := len(variants) + 1
		variants = append(variants, model.CopyVariant{
			ID:         n,
			Title:      "版本" + strconv.Itoa(n),
			Content:    render(padTemplate, in.ProductName),
			Tags:       cloneTags(in.SelectedTags),
			Compliance: model.ComplianceGradeA,
			Style:      in.WritingStyle,
		})
	}
	return variants
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
