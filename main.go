package main

import (
	"flag"
	"log"

	"study_session_gateway/internal/app"
	"study_session_gateway/internal/config"
	"study_session_gateway/pkg/configwatcher"
	"study_session_gateway/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "配置文件目录")
	watch := flag.Bool("watch-config", false, "监听配置文件变更并热加载")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig(*configPath+"/config.yaml", application.ApplyConfig)
	}

	application.Run()
}
