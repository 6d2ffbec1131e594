package app

import (
	"time"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/utils"
)

type Config struct {
	JWTSecretKey      string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	VideoLinkInterval time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	videoLinkIntervalSeconds := utils.GetEnvAsInt("VIDEO_LINK_INTERVAL", 300, log)
	return Config{
		JWTSecretKey:      jwtSecretKey,
		AccessTokenTTL:    time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:   time.Duration(refreshTokenTTLSeconds) * time.Second,
		VideoLinkInterval: time.Duration(videoLinkIntervalSeconds) * time.Second,
	}
}
