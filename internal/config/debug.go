package config

import "os"

func IsDebug() bool {
	return os.Getenv("PIX_DEBUG") == "1"
}
