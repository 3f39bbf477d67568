package main

import (
	"fmt"
	"time"
)

type Config struct {
	BufferSize           int           `env:"BUFFER_SIZE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	MaskedWordsFile      string        `env:"MASKED_WORDS_FILE,required=true"`
	MaskCharacter        string        `env:"MASK_CHARACTER,default=*"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
}

func maskRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("MASK_CHARACTER must be a single character, got %q", str)
	}
	return r[0], nil
}
