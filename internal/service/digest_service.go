package service

import (
	"github.com/portfolio/internal/db"
)

// Homepage section sizes.
const (
	digestNowItems         = 3
	digestProjects         = 3
	digestWork             = 3
	digestArticles         = 4
	digestFeaturedArticles = 3
	digestActivities       = 5
)

// HomepageDigest 首页展示的内容摘要，各列表之间不做去重
type HomepageDigest struct {
	NowItems         []db.NowItem        `json:"now_items"`
	Projects         []db.Experience     `json:"projects"`
	Experiences      []db.Experience     `json:"experiences"`
	Articles         []db.Article        `json:"articles"`
	FeaturedArticles []db.Article        `json:"featured_articles"`
	RecentActivities []db.RecentActivity `json:"recent_activities"`
}

// AboutPage 关于页
type AboutPage struct {
	NowItems  []db.NowItem    `json:"now_items"`
	Work      []db.Experience `json:"work"`
	Education []db.Experience `json:"education"`
	Awards    []db.Experience `json:"awards"`
	Skills    []SkillGroup    `json:"skills"`
	Resume    *db.Resume      `json:"resume"`
}

// ResumePage 简历页
type ResumePage struct {
	Resume    *db.Resume      `json:"resume"`
	Work      []db.Experience `json:"work"`
	Education []db.Experience `json:"education"`
	Skills    []SkillGroup    `json:"skills"`
}

// DigestService 组合各内容服务生成页面数据
type DigestService struct {
	articles    *ArticleService
	experiences *ExperienceService
	profile     *ProfileService
	activities  *ActivityService
	resumes     *ResumeService
}

// NewDigestService 创建 DigestService
func NewDigestService(articles *ArticleService, experiences *ExperienceService, profile *ProfileService, activities *ActivityService, resumes *ResumeService) *DigestService {
	return &DigestService{
		articles:    articles,
		experiences: experiences,
		profile:     profile,
		activities:  activities,
		resumes:     resumes,
	}
}

// Homepage 汇总首页各区块
func (s *DigestService) Homepage() (*HomepageDigest, error) {
	var (
		digest HomepageDigest
		err    error
	)

	if digest.NowItems, err = s.profile.ActiveNowItems(digestNowItems); err != nil {
		return nil, err
	}
	if digest.Projects, err = s.experiences.Recent(db.ExperienceTypeProject, digestProjects); err != nil {
		return nil, err
	}
	if digest.Experiences, err = s.experiences.Recent(db.ExperienceTypeWork, digestWork); err != nil {
		return nil, err
	}
	if digest.Articles, err = s.articles.Latest(digestArticles); err != nil {
		return nil, err
	}
	if digest.FeaturedArticles, err = s.articles.Featured(digestFeaturedArticles); err != nil {
		return nil, err
	}
	if digest.RecentActivities, err = s.activities.Recent(digestActivities); err != nil {
		return nil, err
	}

	return &digest, nil
}

// About 关于页数据
func (s *DigestService) About() (*AboutPage, error) {
	var (
		page AboutPage
		err  error
	)

	if page.NowItems, err = s.profile.ListNowItems(true); err != nil {
		return nil, err
	}
	if page.Work, err = s.experiences.List(db.ExperienceTypeWork); err != nil {
		return nil, err
	}
	if page.Education, err = s.experiences.List(db.ExperienceTypeEducation); err != nil {
		return nil, err
	}
	if page.Awards, err = s.experiences.List(db.ExperienceTypeAward); err != nil {
		return nil, err
	}
	if page.Skills, err = s.profile.GroupedSkills(); err != nil {
		return nil, err
	}
	if page.Resume, err = s.resumes.Active(); err != nil {
		return nil, err
	}

	return &page, nil
}

// Resume 简历页数据；没有激活简历时 Resume 为 nil
func (s *DigestService) Resume() (*ResumePage, error) {
	var (
		page ResumePage
		err  error
	)

	if page.Resume, err = s.resumes.Active(); err != nil {
		return nil, err
	}
	if page.Work, err = s.experiences.List(db.ExperienceTypeWork); err != nil {
		return nil, err
	}
	if page.Education, err = s.experiences.List(db.ExperienceTypeEducation); err != nil {
		return nil, err
	}
	if page.Skills, err = s.profile.GroupedSkills(); err != nil {
		return nil, err
	}

	return &page, nil
}
