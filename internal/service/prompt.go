package service

import (
	"fmt"
	"strings"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
)

const generationRequirements = `要求：
1. 文案要符合小红书平台的调性和用户习惯
2. 内容要真实可信，避免过度夸大
3. 语言要生动有趣，容易引起共鸣
4. 适当使用emoji和标签增加活跃度
5. 每个版本都要有不同的切入角度和特色
6. 注意合规性，避免违规词汇

请生成3个不同版本的文案，每个版本都要有：
- 标题
- 正文内容（150-300字）
- 推荐的标签
- 合规等级（A/B/C，A为最佳）`

const structuredOutputHint = `

请严格按JSON格式返回：{"variants":[{"title":"标题","content":"正文","tags":["标签"],"compliance":"A"}]}`

func buildSystemPrompt(contentType model.ContentType, audience model.TargetAudience, style model.WritingStyle, structured bool) string {
	var b strings.Builder
	b.WriteString("你是一位专业的小红书种草文案编写专家。请根据以下要求生成高质量的种草文案：\n\n")
	fmt.Fprintf(&b, "目标用户：%s\n", audience.Label())
	fmt.Fprintf(&b, "文案风格：%s\n", style.Label())
	fmt.Fprintf(&b, "内容类型：%s\n\n", contentType.Label())
	b.WriteString(generationRequirements)
	if structured {
		b.WriteString(structuredOutputHint)
	}
	return b.String()
}

func buildUserPrompt(productName string, tags []string) string {
	return fmt.Sprintf("产品名称：%s\n选中标签：%s\n\n请为这个产品生成3个不同版本的小红书种草文案。",
		productName, strings.Join(tags, ", "))
}

const styleSystemPrompt = `你是一位专业的文本风格分析师。请分析用户提供的文案，识别其写作风格特征：

请从以下维度进行分析：
1. 风格类型（如：亲切、幽默、专业、文艺等）
2. 常用词汇和短语
3. 句式特点
4. 情感倾向
5. 语言习惯

请返回JSON格式的分析结果。`

func buildStylePrompt(trainingText string) string {
	return "请分析以下文案的写作风格：\n\n" + trainingText
}

// structuredVariants is the schema requested when structured output is on.
type structuredVariants struct {
	Variants []structuredVariant `json:"variants"`
}

type structuredVariant struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	Compliance string   `json:"compliance"`
}
