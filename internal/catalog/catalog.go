package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"huntier/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed jobs.yaml
var defaultCatalog []byte

// Catalog 为进程启动时加载一次的只读职位目录，通过依赖注入传给使用方。
type Catalog struct {
	postings []model.JobPosting
}

type catalogFile struct {
	Jobs []model.JobPosting `yaml:"jobs"`
}

// Default 返回内置目录。
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load 从 YAML 文件加载目录，path 为空时使用内置目录。
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse 解析并校验目录内容。
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(file.Jobs)
}

// New 校验职位列表并复制成目录，调用方之后的修改不会影响目录。
func New(postings []model.JobPosting) (*Catalog, error) {
	seen := make(map[string]struct{}, len(postings))
	out := make([]model.JobPosting, 0, len(postings))
	for i, p := range postings {
		p.ID = strings.TrimSpace(p.ID)
		p.Title = strings.TrimSpace(p.Title)
		if p.ID == "" {
			return nil, fmt.Errorf("job %d: id required", i)
		}
		if p.Title == "" {
			return nil, fmt.Errorf("job %s: title required", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("job %s: duplicate id", p.ID)
		}
		if p.MatchPercentage < 0 || p.MatchPercentage > 100 {
			return nil, fmt.Errorf("job %s: match percentage %d out of range", p.ID, p.MatchPercentage)
		}
		seen[p.ID] = struct{}{}
		out = append(out, p.Clone())
	}
	return &Catalog{postings: out}, nil
}

// Postings 按目录顺序返回职位副本。
func (c *Catalog) Postings() []model.JobPosting {
	if c == nil {
		return nil
	}
	out := make([]model.JobPosting, len(c.postings))
	for i, p := range c.postings {
		out[i] = p.Clone()
	}
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.postings)
}

// Titles 返回去重后的职位名称，保持目录顺序。
func (c *Catalog) Titles() []string {
	return c.collect(func(p model.JobPosting) []string { return []string{p.Title} })
}

// Skills 返回去重后的技能（忽略大小写），保持首次出现的写法。
func (c *Catalog) Skills() []string {
	return c.collect(func(p model.JobPosting) []string { return p.Skills })
}

func (c *Catalog) collect(pick func(model.JobPosting) []string) []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.postings {
		for _, v := range pick(p) {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
