package match

import (
	"context"
	"math"
	"slices"
	"strings"

	"huntier/internal/apperr"
	"huntier/internal/model"
)

// DefaultLimit 为调用方未指定数量时返回的职位数。
const DefaultLimit = 5

// Request 描述一次匹配请求。
type Request struct {
	Skills       []string `json:"skills"`
	DesiredRoles []string `json:"desiredRoles"`
	Limit        int      `json:"limit"`
}

// MatchScorer 抽象职位匹配，当前实现为词法占位，可替换为语义/向量检索服务。
type MatchScorer interface {
	Rank(ctx context.Context, req Request) ([]model.JobPosting, error)
}

// Source 提供候选职位。
type Source interface {
	Postings() []model.JobPosting
}

// LexicalScorer 按技能子串重叠为目录打分，不涉及任何模型或网络调用。
type LexicalScorer struct {
	source Source
}

// NewLexicalScorer 创建词法匹配器。
func NewLexicalScorer(source Source) *LexicalScorer {
	return &LexicalScorer{source: source}
}

// Rank 过滤、打分并返回前 Limit 个职位，MatchPercentage 被计算值覆盖。
func (s *LexicalScorer) Rank(_ context.Context, req Request) ([]model.JobPosting, error) {
	if req.Limit < 0 {
		return nil, apperr.Validation("limit", "limit must be >= 0")
	}
	if req.Limit == 0 || s.source == nil {
		return []model.JobPosting{}, nil
	}

	userSkills := cleanTerms(req.Skills)
	candidates := filterByRoles(s.source.Postings(), cleanTerms(req.DesiredRoles))

	for i := range candidates {
		if len(userSkills) == 0 {
			continue
		}
		candidates[i].MatchPercentage = Score(userSkills, candidates[i].Skills)
	}

	slices.SortStableFunc(candidates, func(a, b model.JobPosting) int {
		return b.MatchPercentage - a.MatchPercentage
	})

	if len(candidates) > req.Limit {
		candidates = candidates[:req.Limit]
	}
	return candidates, nil
}

// Score 计算 matchCount / max(len(user), len(job)) * 100 并四舍五入。
// 候选技能与任一职位技能互为子串（忽略大小写）即计为一次命中。
func Score(userSkills, jobSkills []string) int {
	denom := max(len(userSkills), len(jobSkills))
	if denom == 0 {
		return 0
	}

	lowerJob := make([]string, 0, len(jobSkills))
	for _, js := range jobSkills {
		lowerJob = append(lowerJob, strings.ToLower(strings.TrimSpace(js)))
	}

	matches := 0
	for _, us := range userSkills {
		u := strings.ToLower(strings.TrimSpace(us))
		if u == "" {
			continue
		}
		for _, j := range lowerJob {
			if j == "" {
				continue
			}
			if strings.Contains(j, u) || strings.Contains(u, j) {
				matches++
				break
			}
		}
	}
	return int(math.Round(float64(matches) / float64(denom) * 100))
}

// filterByRoles 保留标题与任一期望岗位互为子串的职位；无结果时回退到完整目录。
func filterByRoles(postings []model.JobPosting, roles []string) []model.JobPosting {
	if len(roles) == 0 {
		return postings
	}
	lowerRoles := make([]string, 0, len(roles))
	for _, r := range roles {
		lowerRoles = append(lowerRoles, strings.ToLower(r))
	}

	filtered := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		title := strings.ToLower(strings.TrimSpace(p.Title))
		for _, role := range lowerRoles {
			if strings.Contains(title, role) || strings.Contains(role, title) {
				filtered = append(filtered, p)
				break
			}
		}
	}
	if len(filtered) == 0 {
		return postings
	}
	return filtered
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
