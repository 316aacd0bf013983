package suggest

import (
	"context"
	"slices"
	"strings"

	"huntier/internal/apperr"
	"huntier/internal/model"
)

const defaultLimit = 6

// Request 为引导流程收集到的候选人信息。
type Request struct {
	Skills       []string `json:"skills"`
	DesiredRoles []string `json:"desiredRoles"`
	Limit        int      `json:"limit"`
}

// Suggestions 为引导页展示的“AI 建议”。
type Suggestions struct {
	Skills []string `json:"skills"`
	Roles  []string `json:"roles"`
}

// Suggester 抽象引导建议，真实的模型实现可以直接替换。
type Suggester interface {
	Suggest(ctx context.Context, req Request) (Suggestions, error)
}

// Source 提供目录职位。
type Source interface {
	Postings() []model.JobPosting
}

// CatalogSuggester 是占位实现，只基于目录做词频统计。
type CatalogSuggester struct {
	source Source
}

func NewCatalogSuggester(source Source) *CatalogSuggester {
	return &CatalogSuggester{source: source}
}

// Suggest 推荐候选人尚未掌握、且在期望岗位中常见的技能，以及与其技能相关的岗位名称。
func (s *CatalogSuggester) Suggest(_ context.Context, req Request) (Suggestions, error) {
	if req.Limit < 0 {
		return Suggestions{}, apperr.Validation("limit", "limit must be >= 0")
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultLimit
	}
	out := Suggestions{Skills: []string{}, Roles: []string{}}
	if s.source == nil {
		return out, nil
	}

	postings := s.source.Postings()
	have := lowerSet(req.Skills)
	roles := lowerList(req.DesiredRoles)

	var relevant []model.JobPosting
	for _, p := range postings {
		if len(roles) == 0 || titleMatches(p.Title, roles) {
			relevant = append(relevant, p)
		}
	}

	out.Skills = rankSkills(relevant, have, limit)
	out.Roles = relatedRoles(postings, have, roles, limit)
	return out, nil
}

// rankSkills 按出现次数降序，次数相同保持首次出现顺序。
func rankSkills(postings []model.JobPosting, have map[string]struct{}, limit int) []string {
	type counted struct {
		name  string
		count int
	}
	index := make(map[string]int)
	var ranked []counted
	for _, p := range postings {
		for _, skill := range p.Skills {
			skill = strings.TrimSpace(skill)
			key := strings.ToLower(skill)
			if key == "" {
				continue
			}
			if _, ok := have[key]; ok {
				continue
			}
			if i, ok := index[key]; ok {
				ranked[i].count++
				continue
			}
			index[key] = len(ranked)
			ranked = append(ranked, counted{name: skill, count: 1})
		}
	}
	slices.SortStableFunc(ranked, func(a, b counted) int { return b.count - a.count })

	out := make([]string, 0, min(limit, len(ranked)))
	for _, c := range ranked {
		if len(out) == limit {
			break
		}
		out = append(out, c.name)
	}
	return out
}

// relatedRoles 返回与候选人技能有交集、且未在期望岗位中出现的职位名称。
func relatedRoles(postings []model.JobPosting, have map[string]struct{}, desired []string, limit int) []string {
	seen := make(map[string]struct{})
	out := []string{}
	if len(have) == 0 {
		return out
	}
	for _, p := range postings {
		if len(out) == limit {
			break
		}
		key := strings.ToLower(strings.TrimSpace(p.Title))
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		if len(desired) > 0 && titleMatches(p.Title, desired) {
			continue
		}
		for _, skill := range p.Skills {
			if _, ok := have[strings.ToLower(strings.TrimSpace(skill))]; ok {
				seen[key] = struct{}{}
				out = append(out, strings.TrimSpace(p.Title))
				break
			}
		}
	}
	return out
}

func titleMatches(title string, roles []string) bool {
	t := strings.ToLower(strings.TrimSpace(title))
	for _, r := range roles {
		if strings.Contains(t, r) || strings.Contains(r, t) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range lowerList(values) {
		out[v] = struct{}{}
	}
	return out
}

func lowerList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
