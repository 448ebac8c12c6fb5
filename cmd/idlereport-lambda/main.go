package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	"github.com/younsl/idlereport/internal/app"
	"github.com/younsl/idlereport/internal/config"
	"github.com/younsl/idlereport/internal/logger"
)

// handler runs one scan per scheduled event. The event payload is ignored.
func handler(ctx context.Context, _ json.RawMessage) (app.Response, error) {
	v := config.NewViper()

	log, err := logger.Stdout(v.GetString(config.KeyLogLevel), v.GetString(config.KeyLogFormat))
	if err != nil {
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
		log.Warn().Err(err).Msg("falling back to default logger")
	}

	return app.Invoke(log.WithContext(ctx), v), nil
}

func main() {
	lambda.Start(handler)
}
