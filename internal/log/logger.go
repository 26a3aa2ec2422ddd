package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init 初始化全局 logger：dev 环境输出到控制台，其余输出 JSON；
// debug 开关决定最低级别。
func Init(env string, debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if env == "dev" {
		cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(cw).Level(level).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
