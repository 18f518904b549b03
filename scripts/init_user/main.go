package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("配置加载失败:", err)
	}

	var username, password string
	flag.StringVar(&username, "username", firstSet(cfg.SuperRootUserName, "admin"), "admin username")
	flag.StringVar(&password, "password", cfg.SuperRootPassword, "admin password")
	flag.Parse()

	if password == "" {
		log.Fatal("请通过 -password 或 SUPER_ROOT_PASSWORD 提供管理员密码")
	}

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 已存在同名用户时不做修改
	if err := db.EnsureUser(gdb, username, password); err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Println("管理员用户已就绪")
	fmt.Println("用户名:", username)
}

func firstSet(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
