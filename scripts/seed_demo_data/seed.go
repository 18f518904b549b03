package main

import (
	"fmt"
	"time"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/logger"
	"github.com/portfolio/internal/service"
	"gorm.io/gorm"
)

type seedSummary struct {
	Articles    int64
	Projects    int64
	Work        int64
	Skills      int64
	NowItems    int64
	Activities  int64
	Subscribers int64
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(year int, month time.Month, d int) *time.Time {
	value := day(year, month, d)
	return &value
}

// seedDemoData 清空内容表后通过各 service 写入演示数据，简历与用户保留不动
func seedDemoData(gdb *gorm.DB, log logger.Logger) (seedSummary, error) {
	for _, model := range []interface{}{&db.Article{}, &db.Experience{}, &db.NowItem{}, &db.Skill{}, &db.GalleryItem{}, &db.RecentActivity{}} {
		if err := gdb.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return seedSummary{}, fmt.Errorf("clear %T: %w", model, err)
		}
	}

	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"now items", createNowItems},
		{"skills", createSkills},
		{"experiences", createExperiences},
		{"articles", createArticles},
		{"activities", createActivities},
		{"subscribers", createSubscribers},
	}
	for _, step := range steps {
		if err := step.run(gdb); err != nil {
			return seedSummary{}, fmt.Errorf("seed %s: %w", step.name, err)
		}
		log.Info("seeded", logger.String("step", step.name))
	}

	var summary seedSummary
	gdb.Model(&db.Article{}).Count(&summary.Articles)
	gdb.Model(&db.Experience{}).Where("type = ?", db.ExperienceTypeProject).Count(&summary.Projects)
	gdb.Model(&db.Experience{}).Where("type = ?", db.ExperienceTypeWork).Count(&summary.Work)
	gdb.Model(&db.Skill{}).Count(&summary.Skills)
	gdb.Model(&db.NowItem{}).Count(&summary.NowItems)
	gdb.Model(&db.RecentActivity{}).Count(&summary.Activities)
	gdb.Model(&db.NewsletterSubscriber{}).Count(&summary.Subscribers)
	return summary, nil
}

func createNowItems(gdb *gorm.DB) error {
	profile := service.NewProfileService(gdb)
	items := []service.NowItemInput{
		{Title: "Building AI-powered tools", Icon: "🤖", Description: "Exploring how AI can make product management more efficient. Currently experimenting with LLMs for user research analysis.", SortOrder: 1},
		{Title: "Writing about product strategy", Icon: "✍️", Description: "Publishing weekly essays on product thinking, strategy frameworks, and lessons learned from building products.", Link: "/essays", SortOrder: 2},
		{Title: "Traveling through East Africa", Icon: "🌍", Description: "Documenting a journey through Kenya, Tanzania, and Uganda.", Link: "/gallery", SortOrder: 3},
	}
	for _, item := range items {
		if _, err := profile.CreateNowItem(item); err != nil {
			return err
		}
	}
	return nil
}

func createSkills(gdb *gorm.DB) error {
	profile := service.NewProfileService(gdb)
	groups := map[string][]string{
		db.SkillCategoryProduct:     {"Product Strategy", "User Research", "Roadmap Planning", "Data Analysis", "A/B Testing", "Agile/Scrum"},
		db.SkillCategoryEngineering: {"Go", "Python", "React", "JavaScript", "SQL/PostgreSQL", "Git", "REST APIs", "AWS"},
		db.SkillCategoryLeadership:  {"Team Building", "Stakeholder Management", "Strategic Planning", "Mentoring"},
		db.SkillCategoryDesign:      {"Figma", "User Experience", "Wireframing", "Design Systems"},
	}
	for _, category := range db.SkillCategories {
		for i, name := range groups[category] {
			if _, err := profile.CreateSkill(service.SkillInput{Category: category, Name: name, SortOrder: i + 1}); err != nil {
				return err
			}
		}
	}
	return nil
}

func createExperiences(gdb *gorm.DB) error {
	experiences := service.NewExperienceService(gdb)
	items := []service.ExperienceInput{
		{
			Type:         db.ExperienceTypeWork,
			Title:        "Senior Product Manager",
			Organization: "TechCorp Africa",
			Location:     "Nairobi, Kenya",
			StartDate:    day(2022, time.March, 1),
			IsCurrent:    true,
			Description:  "Leading product development for a B2B SaaS platform serving 500+ African businesses.",
			Achievements: []string{"Grew user base from 200 to 500+ businesses", "Reduced churn by 40% through improved onboarding"},
			TechStack:    []string{"Python", "Django", "React", "PostgreSQL", "AWS"},
			SortOrder:    1,
		},
		{
			Type:         db.ExperienceTypeWork,
			Title:        "Product Manager",
			Organization: "FinTech Innovations",
			Location:     "Remote",
			StartDate:    day(2020, time.June, 1),
			EndDate:      dayPtr(2022, time.February, 28),
			Description:  "Led a mobile payments product serving 100k+ users across East Africa.",
			Achievements: []string{"Launched MVP in 4 months", "Reduced transaction failure rate from 8% to 2%"},
			TechStack:    []string{"React Native", "Node.js", "MongoDB", "AWS"},
			SortOrder:    2,
		},
		{
			Type:         db.ExperienceTypeEducation,
			Title:        "BSc Computer Science",
			Organization: "University of Nairobi",
			Location:     "Nairobi, Kenya",
			StartDate:    day(2014, time.September, 1),
			EndDate:      dayPtr(2018, time.June, 30),
			Description:  "Focused on software engineering, algorithms, and human-computer interaction.",
			Achievements: []string{"First Class Honours", "Winner of National Hackathon 2017"},
		},
		{
			Type:         db.ExperienceTypeAward,
			Title:        "Product Leader of the Year",
			Organization: "Africa Tech Summit",
			StartDate:    day(2023, time.November, 15),
			Description:  "Recognised for product leadership in the B2B SaaS category.",
		},
		{
			Type:        db.ExperienceTypeProject,
			Title:       "TaskFlow - AI Task Manager",
			StartDate:   day(2023, time.June, 1),
			Description: "A task manager that uses language models to break large goals into actionable steps.",
			TechStack:   []string{"Go", "Python", "React", "Tailwind CSS", "PostgreSQL"},
			Link:        "https://github.com/example/taskflow",
			SortOrder:   1,
		},
		{
			Type:        db.ExperienceTypeProject,
			Title:       "AfriMarket Analytics",
			StartDate:   day(2022, time.September, 1),
			Description: "Market intelligence dashboards for small retailers.",
			TechStack:   []string{"Python", "FastAPI", "React", "Chart.js", "PostgreSQL", "Redis"},
			SortOrder:   2,
		},
		{
			Type:        db.ExperienceTypeProject,
			Title:       "HealthTrack Mobile App",
			StartDate:   day(2021, time.March, 1),
			Description: "Offline-first health tracking for community health workers.",
			TechStack:   []string{"React Native", "Firebase", "Node.js", "MongoDB"},
			Link:        "https://github.com/example/healthtrack",
			SortOrder:   3,
		},
	}
	for _, item := range items {
		if _, err := experiences.Create(item); err != nil {
			return err
		}
	}
	return nil
}

func createArticles(gdb *gorm.DB) error {
	articles := service.NewArticleService(gdb)
	items := []service.ArticleInput{
		{
			Title:       "The Product Manager's Guide to Data-Driven Decisions",
			Type:        db.ArticleTypeEssay,
			Status:      db.ArticleStatusPublished,
			Excerpt:     "How to use data without losing sight of the user.",
			Body:        "## Why data matters\n\nGood product decisions start with good questions.\n\n- Define the metric\n- Validate the signal\n- Decide and iterate",
			Tags:        []string{"product management", "data analysis", "decision making"},
			ReadTime:    7,
			PublishedAt: dayPtr(2024, time.May, 2),
			IsFeatured:  true,
		},
		{
			Title:       "Visualizing Product Metrics That Matter",
			Type:        db.ArticleTypeDataEssay,
			Status:      db.ArticleStatusPublished,
			Excerpt:     "A tour through the charts that actually change minds.",
			Body:        "| Metric | Why |\n| --- | --- |\n| Retention | Shows lasting value |\n| Activation | Shows first value |",
			Tags:        []string{"data visualization", "product metrics", "analytics"},
			ReadTime:    10,
			PublishedAt: dayPtr(2024, time.April, 18),
			IsFeatured:  true,
		},
		{
			Title:       "Building Products for Africa: Lessons Learned",
			Type:        db.ArticleTypeCaseStudy,
			Status:      db.ArticleStatusPublished,
			Excerpt:     "What building for emerging markets taught me about constraints.",
			Body:        "Connectivity, cost and trust shape every decision.\n\nhttps://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Tags:        []string{"africa", "product development", "emerging markets"},
			ReadTime:    8,
			PublishedAt: dayPtr(2024, time.March, 9),
		},
		{
			Title:    "My Product Management Reading List",
			Type:     db.ArticleTypeEssay,
			Status:   db.ArticleStatusDraft,
			Excerpt:  "Books that shaped how I think about products.",
			Body:     "1. Inspired\n2. The Mom Test\n3. Continuous Discovery Habits",
			Tags:     []string{"resources", "learning", "books"},
			ReadTime: 5,
		},
	}
	for _, item := range items {
		if _, err := articles.Create(item); err != nil {
			return err
		}
	}
	return nil
}

func createActivities(gdb *gorm.DB) error {
	activities := service.NewActivityService(gdb)
	items := []service.ActivityInput{
		{ActivityType: db.ActivityTypeArticle, Title: "Published: Data-Driven Decisions", Link: "/essays/the-product-manager-s-guide-to-data-driven-decisions", Date: day(2024, time.May, 2)},
		{ActivityType: db.ActivityTypeTalk, Title: "Spoke at Nairobi Product Meetup", Date: day(2024, time.April, 25)},
		{ActivityType: db.ActivityTypeProject, Title: "Shipped TaskFlow v1.0", Date: day(2024, time.March, 30)},
		{ActivityType: db.ActivityTypeLearning, Title: "Completed a course on causal inference", Date: day(2024, time.February, 12)},
	}
	for _, item := range items {
		if _, err := activities.Create(item); err != nil {
			return err
		}
	}
	return nil
}

func createSubscribers(gdb *gorm.DB) error {
	subscriptions := service.NewSubscriptionService(gdb)
	for _, email := range []string{"john.doe@example.com", "jane.smith@example.com", "alex.kim@example.com"} {
		if _, _, err := subscriptions.Subscribe(email); err != nil {
			return err
		}
	}
	return nil
}
