package intake

import (
	"sort"
	"strings"

	"huntier/internal/apperr"
	"huntier/internal/model"
)

// Normalized 为归一化结果，Unrecognized 列出被忽略的未知字段（已排序）。
type Normalized struct {
	Profile      model.ApplicantProfile
	Unrecognized []string
}

var knownFields = map[string]struct{}{
	"name":               {},
	"firstName":          {},
	"lastName":           {},
	"chineseName":        {},
	"email":              {},
	"phone":              {},
	"skills":             {},
	"languages":          {},
	"certifications":     {},
	"experience":         {},
	"workHistory":        {},
	"education":          {},
	"educationLevel":     {},
	"projects":           {},
	"location":           {},
	"remoteOption":       {},
	"relocationOption":   {},
	"salaryExpectations": {},
	"resumeUrl":          {},
	"linkedinUrl":        {},
	"githubUrl":          {},
	"portfolioUrl":       {},
}

// Normalize 将表单提交的松散载荷转换为规范记录。
// 仅 name 与 email 缺失会拒绝，其余字段退化为空值或默认值。
// 纯函数：同一输入多次调用得到结构一致的结果。
func Normalize(raw map[string]any) (Normalized, error) {
	firstName := optionalString(raw["firstName"])
	lastName := optionalString(raw["lastName"])

	name := scalarString(raw["name"])
	if name == "" {
		name = strings.TrimSpace(deref(firstName) + " " + deref(lastName))
	}
	if name == "" {
		return Normalized{}, apperr.Validation("name", "name required")
	}

	email := scalarString(raw["email"])
	if email == "" {
		return Normalized{}, apperr.Validation("email", "email required")
	}

	profile := model.ApplicantProfile{
		Name:        name,
		FirstName:   firstName,
		LastName:    lastName,
		ChineseName: optionalString(raw["chineseName"]),
		Email:       email,
		Phone:       optionalString(raw["phone"]),

		Skills:         coerceList(raw["skills"]),
		Languages:      coerceList(raw["languages"]),
		Certifications: coerceList(raw["certifications"]),

		Experience: mergeExperience(raw["experience"], raw["workHistory"]),
		Education:  mergeEducation(raw["educationLevel"], raw["education"]),
		Projects:   normalizeProjects(raw["projects"]),

		Location:         optionalString(raw["location"]),
		RemoteOption:     coerceBool(raw["remoteOption"]),
		RelocationOption: coerceBool(raw["relocationOption"]),

		ResumeURL:    optionalString(raw["resumeUrl"]),
		LinkedinURL:  optionalString(raw["linkedinUrl"]),
		GithubURL:    optionalString(raw["githubUrl"]),
		PortfolioURL: optionalString(raw["portfolioUrl"]),
	}
	if isTruthy(raw["salaryExpectations"]) {
		profile.SalaryExpectations = optionalString(raw["salaryExpectations"])
	}

	return Normalized{Profile: profile, Unrecognized: unrecognizedFields(raw)}, nil
}

// mergeExperience 同时有年限档位与工作经历时合并为 {years, details}，否则透传存在的一方。
func mergeExperience(experience, workHistory any) *model.Experience {
	details := decodeWorkHistory(workHistory)

	var exp model.Experience
	switch v := experience.(type) {
	case map[string]any:
		exp.Years = scalarString(v["years"])
		exp.Details = decodeWorkHistory(v["details"])
	case []any:
		exp.Details = decodeWorkHistory(v)
	default:
		exp.Years = scalarString(v)
	}
	if len(exp.Details) == 0 {
		exp.Details = details
	}

	if exp.Years == "" && len(exp.Details) == 0 {
		return nil
	}
	return &exp
}

// mergeEducation 规则同 mergeExperience，education 可以是档位、列表或结构体。
func mergeEducation(level, education any) *model.Education {
	var edu model.Education
	switch v := education.(type) {
	case map[string]any:
		edu.Level = scalarString(v["level"])
		edu.Details = decodeEducation(v["details"])
	case []any:
		edu.Details = decodeEducation(v)
	default:
		edu.Level = scalarString(v)
	}
	if label := scalarString(level); label != "" {
		edu.Level = label
	}

	if edu.Level == "" && len(edu.Details) == 0 {
		return nil
	}
	return &edu
}

func decodeWorkHistory(v any) []model.WorkHistoryEntry {
	entries := decodeEntries[model.WorkHistoryEntry](v, func(m map[string]any) {
		m["isCurrent"] = coerceBool(m["isCurrent"])
	})
	for i := range entries {
		e := &entries[i]
		e.Company = strings.TrimSpace(e.Company)
		e.Position = strings.TrimSpace(e.Position)
		e.StartDate = strings.TrimSpace(e.StartDate)
		e.EndDate = cleanOptional(e.EndDate)
		e.Description = cleanOptional(e.Description)
	}
	return entries
}

func decodeEducation(v any) []model.EducationEntry {
	entries := decodeEntries[model.EducationEntry](v, nil)
	for i := range entries {
		e := &entries[i]
		e.Degree = strings.TrimSpace(e.Degree)
		e.Institution = strings.TrimSpace(e.Institution)
		e.Field = cleanOptional(e.Field)
		e.GraduationYear = strings.TrimSpace(e.GraduationYear)
	}
	return entries
}

// normalizeProjects 丢弃没有名称的项目，结果永不为 nil。
func normalizeProjects(v any) []model.Project {
	decoded := decodeEntries[model.Project](v, nil)
	out := make([]model.Project, 0, len(decoded))
	for _, p := range decoded {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			continue
		}
		p.Description = cleanOptional(p.Description)
		p.URL = cleanOptional(p.URL)
		out = append(out, p)
	}
	return out
}

func unrecognizedFields(raw map[string]any) []string {
	var unknown []string
	for key := range raw {
		if _, ok := knownFields[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}
