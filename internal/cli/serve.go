package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/rota/internal/constants"
	"github.com/julianstephens/rota/internal/logger"
	"github.com/julianstephens/rota/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on." default:"${default_addr}"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultServerAddr
	}

	cfg := server.Config{}
	if ctx.Registry != nil {
		cfg.Gatherer = ctx.Registry
	}
	srv := server.New(ctx.Service, cfg)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(addr)
	}()
	ctx.printf("Serving rota API on http://%s\n", addr)

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		logger.Info("Shutting down API server")
		return srv.Shutdown()
	}
}
