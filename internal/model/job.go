package model

// JobPosting 表示静态职位目录中的一条职位，运行期不可变。
// - Skills: 用于词法匹配的技能列表
// - Salary: 展示用薪资字符串
// - MatchPercentage: 目录中的基线匹配度，匹配器计算后会在副本上覆盖
type JobPosting struct {
	ID              string   `yaml:"id" json:"id"`
	Title           string   `yaml:"title" json:"title"`
	Company         string   `yaml:"company" json:"company"`
	Location        string   `yaml:"location" json:"location"`
	Skills          []string `yaml:"skills" json:"skills"`
	Salary          string   `yaml:"salary" json:"salary"`
	MatchPercentage int      `yaml:"match_percentage" json:"matchPercentage"`
}

// Clone 返回深拷贝，避免调用方修改目录中的技能切片。
func (j JobPosting) Clone() JobPosting {
	out := j
	if j.Skills != nil {
		out.Skills = append([]string(nil), j.Skills...)
	}
	return out
}
