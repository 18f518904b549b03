package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/logger"
)

// 演示数据生成器
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}

	var dbPath string
	flag.StringVar(&dbPath, "db", cfg.DatabasePath, "sqlite db path")
	flag.Parse()

	appLog, err := logger.New(cfg.LogLevel, true)
	if err != nil {
		log.Fatal("日志初始化失败:", err)
	}
	defer appLog.Sync()

	gdb, err := db.Init(dbPath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")
	summary, err := seedDemoData(gdb, appLog)
	if err != nil {
		log.Fatal("演示数据生成失败:", err)
	}

	fmt.Println("演示数据生成完成！")
	fmt.Printf("  - Articles: %d\n", summary.Articles)
	fmt.Printf("  - Projects: %d\n", summary.Projects)
	fmt.Printf("  - Work Experience: %d\n", summary.Work)
	fmt.Printf("  - Skills: %d\n", summary.Skills)
	fmt.Printf("  - Now Items: %d\n", summary.NowItems)
	fmt.Printf("  - Activities: %d\n", summary.Activities)
	fmt.Printf("  - Newsletter Subscribers: %d\n", summary.Subscribers)
}
