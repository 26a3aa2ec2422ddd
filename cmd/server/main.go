package main

import (
	"github.com/Pyyho/Technology-MIREA/internal/config"
	clog "github.com/Pyyho/Technology-MIREA/internal/log"
	"github.com/Pyyho/Technology-MIREA/internal/server"
	"github.com/Pyyho/Technology-MIREA/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	// main 负责加载配置、初始化日志、填充种子数据并启动 Gin 服务。
	cfg := config.Load()
	clog.Init(cfg.Env, cfg.Debug)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validate")
	}

	st := store.New()
	st.Seed()
	log.Info().Str("app", cfg.AppName).Str("version", cfg.AppVersion).Msg("store seeded")

	r := server.SetupRouter(cfg, st)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
