package main

import "time"

type Config struct {
	Host                string        `env:"HOST,required=true"`
	Port                int           `env:"PORT,required=true"`
	BadgerFilepath      string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel            string        `env:"LOG_LEVEL,required=true"`
	AuthTokenSecret     string        `env:"AUTH_TOKEN_SECRET,required=true"`
	TypingSweepInterval time.Duration `env:"TYPING_SWEEP_INTERVAL,required=true"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,required=true"`
}
