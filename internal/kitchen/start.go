package kitchen

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"tableside/internal/common/db"
	"tableside/internal/common/httpx"
	"tableside/internal/common/logger"
	"tableside/internal/common/mq"
	"tableside/internal/config"
	"tableside/internal/validation"
)

// Run wires the kitchen staff service and serves until ctx is
// canceled.
func Run(ctx context.Context, cfg config.Config, port int) error {
	lg := logger.New("kitchen-service")
	defer lg.Sync()

	conn, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	defer conn.Close()

	mqc, err := mq.Dial(cfg.Rabbit)
	if err != nil {
		return fmt.Errorf("rabbitmq connect: %w", err)
	}
	defer mqc.Close()
	if err := mqc.DeclareTopology(); err != nil {
		return fmt.Errorf("declare topology: %w", err)
	}

	svc := NewService(NewPGRepository(conn), mqc, lg)
	h := NewHandler(svc, validation.New())

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)

	lg.Info("listening", map[string]any{"port": port})
	return httpx.New(fmt.Sprintf(":%d", port), r).Run(ctx)
}
