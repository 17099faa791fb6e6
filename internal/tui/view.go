package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BitmanAlan/xiaohongshu/internal/model"
	"github.com/BitmanAlan/xiaohongshu/internal/wizard"
)

var stepTitles = map[wizard.Step]string{
	wizard.StepWelcome:        "小红书文案助手",
	wizard.StepProductInput:   "第 1 步 · 产品信息",
	wizard.StepTypeSelection:  "第 2 步 · 内容类型与目标用户",
	wizard.StepStyleSelection: "第 3 步 · 文案风格",
	wizard.StepConfirmation:   "第 4 步 · 确认生成",
	wizard.StepResults:        "生成结果",
	wizard.StepFeedback:       "反馈",
	wizard.StepCompliance:     "合规检测",
	wizard.StepLibrary:        "文案库",
	wizard.StepTraining:       "风格训练",
	wizard.StepProfile:        "个人资料",
}

func (m Model) View() string {
	var b strings.Builder
	s := m.state

	b.WriteString(styles.title.Render(stepTitles[s.Step]))
	b.WriteString("\n")

	if s.ShowAuth {
		b.WriteString(m.viewAuth())
	} else {
		b.WriteString(m.viewStep())
	}

	if s.Generating || m.loading {
		b.WriteString("\n" + m.spinner.View() + " 处理中...")
	}
	if s.Notice != "" {
		b.WriteString("\n" + styles.notice.Render(s.Notice))
	}
	b.WriteString("\n\n" + styles.muted.Render(m.help()))
	return b.String()
}

func (m Model) viewStep() string {
	s := m.state
	switch s.Step {
	case wizard.StepWelcome:
		greeting := "三步生成合规又吸睛的小红书种草文案。"
		if s.User != nil && s.User.Name != "" {
			greeting = fmt.Sprintf("欢迎回来，%s！", s.User.Name) + greeting
		}
		return greeting + "\n"

	case wizard.StepProductInput:
		var b strings.Builder
		b.WriteString("产品名称\n" + m.product.View() + "\n\n卖点标签\n")
		for i, t := range model.TagCatalog {
			mark := "[ ]"
			if s.HasTag(t) {
				mark = "[x]"
			}
			b.WriteString(m.option(m.focusTags && i == m.cursor, fmt.Sprintf("%d %s %s", i+1, mark, t.Label())))
		}
		return b.String()

	case wizard.StepTypeSelection:
		var b strings.Builder
		b.WriteString(styles.header.Render("内容类型") + "\n")
		for i, c := range model.ContentTypes {
			label := c.Label()
			if s.ContentType == c {
				label += " ✓"
			}
			b.WriteString(m.option(!m.audienceFocus && i == m.cursor, label))
		}
		b.WriteString("\n" + styles.header.Render("目标用户") + "\n")
		for i, a := range model.TargetAudiences {
			label := a.Label()
			if s.TargetAudience == a {
				label += " ✓"
			}
			b.WriteString(m.option(m.audienceFocus && i == m.cursor, label))
		}
		return b.String()

	case wizard.StepStyleSelection:
		var b strings.Builder
		for i, w := range model.WritingStyles {
			b.WriteString(m.option(i == m.cursor, w.Label()))
		}
		return b.String()

	case wizard.StepConfirmation:
		tags := make([]string, 0, len(s.SelectedTags))
		for _, t := range s.SelectedTags {
			tags = append(tags, t.Label())
		}
		if len(tags) == 0 {
			tags = append(tags, "无")
		}
		return fmt.Sprintf("1 产品：%s\n  卖点：%s\n2 类型：%s · %s\n3 风格：%s\n",
			s.ProductName, strings.Join(tags, "、"),
			s.ContentType.Label(), s.TargetAudience.Label(),
			s.WritingStyle.Label())

	case wizard.StepResults:
		var b strings.Builder
		for _, v := range s.GeneratedContent {
			body := fmt.Sprintf("%s  %s\n\n%s", styles.header.Render(fmt.Sprintf("版本 %d · %s", v.ID, v.Title)), grade(v.Compliance), v.Content)
			b.WriteString(styles.card.Width(m.cardWidth()).Render(body) + "\n")
		}
		return b.String()

	case wizard.StepFeedback:
		var b strings.Builder
		b.WriteString("这次生成的文案怎么样？\n")
		for i, sat := range model.Satisfactions {
			b.WriteString(m.option(i == m.cursor, satisfactionLabels[sat]))
		}
		return b.String()

	case wizard.StepCompliance:
		var b strings.Builder
		for _, r := range m.reports {
			b.WriteString(fmt.Sprintf("版本 %d  %s  %d 分\n", r.VariantID, grade(r.Grade), r.Score))
			for _, issue := range r.Issues {
				b.WriteString(fmt.Sprintf("  · %s → %s\n", issue.Text, issue.Suggestion))
			}
		}
		return b.String()

	case wizard.StepLibrary:
		if !m.loading && len(m.library) == 0 {
			return styles.muted.Render("还没有生成过文案") + "\n"
		}
		var b strings.Builder
		for _, item := range m.library {
			b.WriteString(fmt.Sprintf("%s  %s  %s\n  %s\n", item.Date, grade(item.Compliance), item.Title, styles.muted.Render(item.Preview)))
		}
		return b.String()

	case wizard.StepTraining:
		var b strings.Builder
		b.WriteString(m.training.View() + "\n")
		if len(m.analysis) > 0 {
			keys := make([]string, 0, len(m.analysis))
			for k := range m.analysis {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			b.WriteString("\n")
			for _, k := range keys {
				b.WriteString(fmt.Sprintf("%s: %v\n", k, m.analysis[k]))
			}
		}
		return b.String()

	case wizard.StepProfile:
		p := m.profile
		if p == nil {
			return ""
		}
		return fmt.Sprintf("%s <%s>\n已生成 %d 次 · 已反馈 %d 次\n",
			p.Name, p.Email, p.UsageStats.TotalGenerations, p.UsageStats.TotalFeedback)
	}
	return ""
}

func (m Model) viewAuth() string {
	return "请先登录\n\n" + m.email.View() + "\n" + m.password.View() + "\n"
}

func (m Model) help() string {
	if m.state.ShowAuth {
		return "tab 切换 · enter 登录 · esc 取消"
	}
	switch m.state.Step {
	case wizard.StepWelcome:
		return "enter 开始 · r 上次结果 · l 文案库 · t 风格训练 · p 个人资料 · q 退出"
	case wizard.StepProductInput:
		return "tab 切换到标签 · 1-6/空格 选择标签 · enter 下一步 · esc 返回"
	case wizard.StepTypeSelection:
		return "↑/↓ 选择 · enter 确认 · tab 切换分组 · esc 返回"
	case wizard.StepConfirmation:
		return "enter 生成 · 1/2/3 修改 · esc 返回"
	case wizard.StepResults:
		return "1-3 保存版本 · f 反馈 · c 合规检测 · n 重新开始 · l 文案库"
	case wizard.StepTraining:
		return "enter 分析 · esc 返回"
	}
	return "↑/↓ 选择 · enter 确认 · esc 返回"
}

func (m Model) option(active bool, label string) string {
	if active {
		return styles.selected.Render("› "+label) + "\n"
	}
	return "  " + label + "\n"
}

func (m Model) cardWidth() int {
	if m.width <= 0 {
		return 72
	}
	return min(m.width-4, 100)
}

var satisfactionLabels = map[model.Satisfaction]string{
	model.SatisfactionLove:    "非常喜欢",
	model.SatisfactionLike:    "喜欢",
	model.SatisfactionOK:      "一般",
	model.SatisfactionDislike: "不满意",
}

func grade(g model.ComplianceGrade) string {
	switch g {
	case model.ComplianceGradeA:
		return styles.gradeA.Render("A")
	case model.ComplianceGradeB:
		return styles.gradeB.Render("B")
	case model.ComplianceGradeC:
		return styles.gradeC.Render("C")
	}
	return string(g)
}
