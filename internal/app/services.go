package app

import (
	"time"

	"github.com/adanyl0v/go-daily-todo/internal/config"
	"github.com/adanyl0v/go-daily-todo/internal/services"
)

func newAuthService() services.AuthService {
	jwtCfg := config.Global().JWT
	return services.NewAuthService(
		globalLogger,
		globalStorage,
		globalStorage,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
}

func mustNewCalendar() services.Calendar {
	timezone := config.Global().Calendar.Timezone
	location, err := time.LoadLocation(timezone)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("timezone", timezone).
			Msg("failed to load calendar timezone")
		panic(err)
	}
	return services.NewCalendar(location)
}
