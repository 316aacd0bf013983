package model

import (
	"time"

	"gorm.io/datatypes"
)

// ApplicantProfile 是申请人提交经过归一化后的规范记录，可直接入库。
// 可选字段使用指针，缺省时序列化为 null。
type ApplicantProfile struct {
	Name        string  `gorm:"not null" json:"name"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	ChineseName *string `json:"chineseName"`
	Email       string  `gorm:"not null;index" json:"email"`
	Phone       *string `json:"phone"`

	Skills         datatypes.JSONSlice[string] `json:"skills"`
	Languages      datatypes.JSONSlice[string] `json:"languages"`
	Certifications datatypes.JSONSlice[string] `json:"certifications"`

	Experience *Experience `gorm:"serializer:json" json:"experience"`
	Education  *Education  `gorm:"serializer:json" json:"education"`
	Projects   []Project   `gorm:"serializer:json" json:"projects"`

	Location           *string `json:"location"`
	RemoteOption       bool    `json:"remoteOption"`
	RelocationOption   bool    `json:"relocationOption"`
	SalaryExpectations *string `json:"salaryExpectations"`

	ResumeURL    *string `gorm:"column:resume_url" json:"resumeUrl"`
	LinkedinURL  *string `gorm:"column:linkedin_url" json:"linkedinUrl"`
	GithubURL    *string `gorm:"column:github_url" json:"githubUrl"`
	PortfolioURL *string `gorm:"column:portfolio_url" json:"portfolioUrl"`
}

// Applicant 是 applicants 表中的一行，ID 与 CreatedAt 由数据库分配。
// 记录只在提交时写入一次，不会被更新或删除。
type Applicant struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicantProfile
	Reference string    `gorm:"uniqueIndex;size:36" json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
}

// Experience 工作年限档位与详细经历。
type Experience struct {
	Years   string             `json:"years,omitempty" mapstructure:"years"`
	Details []WorkHistoryEntry `json:"details,omitempty" mapstructure:"details"`
}

// Education 学历档位与详细教育经历。
type Education struct {
	Level   string           `json:"level,omitempty" mapstructure:"level"`
	Details []EducationEntry `json:"details,omitempty" mapstructure:"details"`
}

type WorkHistoryEntry struct {
	Company     string  `json:"company" mapstructure:"company"`
	Position    string  `json:"position" mapstructure:"position"`
	StartDate   string  `json:"startDate" mapstructure:"startDate"`
	EndDate     *string `json:"endDate,omitempty" mapstructure:"endDate"`
	Description *string `json:"description,omitempty" mapstructure:"description"`
	IsCurrent   bool    `json:"isCurrent" mapstructure:"isCurrent"`
}

type EducationEntry struct {
	Degree         string  `json:"degree" mapstructure:"degree"`
	Institution    string  `json:"institution" mapstructure:"institution"`
	Field          *string `json:"field,omitempty" mapstructure:"field"`
	GraduationYear string  `json:"graduationYear" mapstructure:"graduationYear"`
}

type Project struct {
	Name        string  `json:"name" mapstructure:"name"`
	Description *string `json:"description,omitempty" mapstructure:"description"`
	URL         *string `json:"url,omitempty" mapstructure:"url"`
}
